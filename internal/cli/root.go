package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/kbukum/apikit/config"
	"github.com/kbukum/apikit/logger"
	"github.com/kbukum/apikit/version"
)

const envPrefix = "APIKIT"

// options holds the persistent flags and the configuration they load.
type options struct {
	configFile string
	envFile    string
	client     string
	verbose    bool

	cfg *Config
	log *logger.Logger
}

// NewRootCommand builds the apikit command tree.
func NewRootCommand() *cobra.Command {
	o := &options{}

	root := &cobra.Command{
		Use:   "apikit",
		Short: "Call configured HTTP APIs",
		Long: `apikit sends requests through API clients described in a config file.

Examples:
  apikit get /repos/golang/go                   Single configured client
  apikit -c github get /search/repositories q=go  Named client with query parameters
  apikit post /items --data '{"name":"x"}'       POST a JSON body
  apikit clients                                List configured clients`,
		Version:       version.Get().String(),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return o.load()
		},
	}
	root.CompletionOptions.DisableDefaultCmd = true

	flags := root.PersistentFlags()
	flags.StringVar(&o.configFile, "config", "", "config file (default: searched as apikit config.yml)")
	flags.StringVar(&o.envFile, "env-file", "", ".env file loaded before the config")
	flags.StringVarP(&o.client, "client", "c", "", "client name from the config file")
	flags.BoolVarP(&o.verbose, "verbose", "v", false, "log every request at debug level")

	root.AddCommand(
		newGetCommand(o),
		newPostCommand(o),
		newClientsCommand(o),
		newVersionCommand(),
	)
	return root
}

// Execute runs the command line and exits non-zero on failure.
func Execute() {
	if err := NewRootCommand().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func (o *options) load() error {
	opts := []config.LoaderOption{config.WithEnvPrefix(envPrefix)}
	if o.configFile != "" {
		opts = append(opts, config.WithConfigFile(o.configFile))
	}
	if o.envFile != "" {
		opts = append(opts, config.WithEnvFile(o.envFile))
	}

	cfg, err := config.Load[Config]("apikit", opts...)
	if err != nil {
		return err
	}
	if o.verbose {
		cfg.Logging.Level = "debug"
	}

	logger.Init(cfg.Logging)
	o.cfg = cfg
	o.log = logger.GetGlobalLogger().WithComponent("cli")
	return nil
}
