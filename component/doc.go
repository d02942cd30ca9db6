// Package component defines the lifecycle contract shared by transports and
// API clients, and a Registry that starts, stops and health-checks them as
// a group.
//
//	reg := component.NewRegistry()
//	_ = reg.Register(githubClient)
//	_ = reg.Register(stripeClient)
//	if err := reg.StartAll(ctx); err != nil { ... }
//	defer reg.StopAll(context.Background())
package component
