package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kbukum/apikit/apiclient"
	"github.com/kbukum/apikit/component"
	"github.com/kbukum/apikit/observability"
	"github.com/kbukum/apikit/params"
)

func newGetCommand(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "get <path> [key=value ...]",
		Short: "Send a GET request",
		Long: `Send a GET request. Parameters are merged over the client's defaults.
Values that parse as JSON keep their type; anything else is a string.

Examples:
  apikit get /users page=2 active=true
  apikit get /search 'tags=["go","http"]'`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := parseParams(args[1:])
			if err != nil {
				return err
			}
			return o.send(cmd, apiclient.Call{Method: http.MethodGet, Path: args[0], Params: p})
		},
	}
}

func newPostCommand(o *options) *cobra.Command {
	var data string
	cmd := &cobra.Command{
		Use:   "post <path>",
		Short: "Send a POST request with a JSON body",
		Long: `Send a POST request. The body is given with --data, either inline or
as @file. Only the client's default parameters go into the query string.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			body, err := readBody(data)
			if err != nil {
				return err
			}
			return o.send(cmd, apiclient.Call{Method: http.MethodPost, Path: args[0], Body: body})
		},
	}
	cmd.Flags().StringVarP(&data, "data", "d", "", "JSON body, or @file to read it from a file")
	return cmd
}

// send runs one call through a freshly built client and prints the decoded
// body. A failed call prints the error body, when there is one, to stderr.
func (o *options) send(cmd *cobra.Command, call apiclient.Call) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	clientCfg, err := o.cfg.Client(o.client)
	if err != nil {
		return err
	}

	shutdown, clientOpts, err := o.observe(ctx, clientCfg.Name)
	if err != nil {
		return err
	}
	defer func() {
		if err := shutdown(context.Background()); err != nil {
			o.log.Warn("observability shutdown failed", map[string]interface{}{"error": err.Error()})
		}
	}()

	client, err := apiclient.New(clientCfg, clientOpts...)
	if err != nil {
		return err
	}

	reg := component.NewRegistry()
	if err := reg.Register(client); err != nil {
		return err
	}
	if err := reg.StartAll(ctx); err != nil {
		return err
	}
	defer func() { _ = reg.StopAll(context.Background()) }()
	for _, d := range reg.Describe() {
		o.log.Debug("component ready", map[string]interface{}{"name": d.Name, "type": d.Type, "details": d.Details})
	}

	// POST always carries a body, possibly empty.
	if call.Method == http.MethodPost && call.Body == nil {
		call.Body = []byte{}
	}
	out, err := apiclient.Do[json.RawMessage, json.RawMessage](ctx, client, call)
	if err != nil {
		if payload, ok := apiclient.PayloadOf[json.RawMessage](err); ok {
			writeJSON(cmd.ErrOrStderr(), payload)
		}
		return fmt.Errorf("%s %s: %w", call.Method, call.Path, err)
	}
	writeJSON(cmd.OutOrStdout(), out)
	return nil
}

// observe starts tracing and metrics when configured and returns the client
// options that record into them.
func (o *options) observe(ctx context.Context, clientName string) (observability.ShutdownFunc, []apiclient.Option, error) {
	noop := func(context.Context) error { return nil }
	obsCfg := o.cfg.Observability
	if obsCfg == nil || (!obsCfg.Tracing && !obsCfg.Metrics) {
		return noop, nil, nil
	}

	shutdown, err := observability.Init(ctx, *obsCfg)
	if err != nil {
		return noop, nil, err
	}
	if !obsCfg.Metrics {
		return shutdown, nil, nil
	}
	metrics, err := observability.NewClientMetrics(observability.Meter("apikit/" + clientName))
	if err != nil {
		_ = shutdown(ctx)
		return noop, nil, err
	}
	return shutdown, []apiclient.Option{apiclient.WithObserver(metrics)}, nil
}

// parseParams turns key=value arguments into a parameter set.
func parseParams(args []string) (params.Set, error) {
	p := params.Set{}
	for _, arg := range args {
		key, raw, ok := strings.Cut(arg, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("cli: parameter %q is not key=value", arg)
		}
		p[key] = parseValue(raw)
	}
	return p, nil
}

func parseValue(raw string) any {
	dec := json.NewDecoder(strings.NewReader(raw))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil || dec.More() {
		return raw
	}
	return v
}

func readBody(data string) ([]byte, error) {
	if data == "" {
		return nil, nil
	}
	body := []byte(data)
	if strings.HasPrefix(data, "@") {
		b, err := os.ReadFile(data[1:])
		if err != nil {
			return nil, fmt.Errorf("cli: read body: %w", err)
		}
		body = b
	}
	if !json.Valid(body) {
		return nil, fmt.Errorf("cli: --data is not valid JSON")
	}
	return body, nil
}

func writeJSON(w io.Writer, raw json.RawMessage) {
	if len(raw) == 0 {
		return
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, raw, "", "  "); err != nil {
		_, _ = w.Write(raw)
		_, _ = fmt.Fprintln(w)
		return
	}
	buf.WriteByte('\n')
	_, _ = w.Write(buf.Bytes())
}
