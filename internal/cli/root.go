package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"daytodo/internal/ui"
)

type rootOptions struct {
	configPath string
	envFile    string
	backend    string
}

// NewRootCommand builds the command tree. Without a subcommand it starts the terminal UI.
func NewRootCommand() *cobra.Command {
	opts := &rootOptions{}
	rootCmd := &cobra.Command{
		Use:           "todo",
		Short:         "Daily todo tracker",
		Long:          "Tracks tasks per calendar day with priorities, categories and a cached weather panel.",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd, opts)
			if err != nil {
				return err
			}
			defer a.close()
			return ui.Run(a.tracker, a.cfg)
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&opts.configPath, "config", "", "config file (default $DAYTODO_CONFIG or the user config dir)")
	flags.StringVar(&opts.envFile, "env-file", ".env", "optional dotenv file with DAYTODO_* overrides")
	flags.StringVar(&opts.backend, "backend", "", "storage backend override: sqlite, redis or memory")

	rootCmd.AddCommand(
		newAddCmd(opts),
		newListCmd(opts),
		newToggleCmd(opts),
		newEditCmd(opts),
		newDeleteCmd(opts),
		newStatsCmd(opts),
		newCalendarCmd(opts),
		newWeatherCmd(opts),
		newThemeCmd(opts),
		newClearCmd(opts),
	)
	return rootCmd
}

func Execute() {
	if err := NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
