package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/kbukum/apikit/version"
)

func newClientsCommand(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "clients",
		Short: "List configured clients",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tBASE URL\tAUTH\tTIMEOUT")
			for _, name := range o.cfg.ClientNames() {
				c := o.cfg.Clients[name]
				auth := "none"
				if c.Auth != nil && c.Auth.Type != "" {
					auth = c.Auth.Type
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", name, c.BaseURL, auth, c.Transport.Timeout)
			}
			return w.Flush()
		},
	}
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		// Version needs no configuration.
		PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
		Run: func(cmd *cobra.Command, _ []string) {
			info := version.Get()
			fmt.Fprintf(cmd.OutOrStdout(), "apikit %s\n", info)
			fmt.Fprintf(cmd.OutOrStdout(), "go: %s\n", info.GoVersion)
		},
	}
}
