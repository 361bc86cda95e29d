package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/five82/dex/internal/app"
	"github.com/five82/dex/internal/config"
	"github.com/five82/dex/internal/logtail"
)

// rootOptions holds global flags for all commands.
type rootOptions struct {
	ConfigPath string
	PrefsPath  string
	LogLevel   string
}

func newRootCommand() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:           "dex",
		Short:         "Browse the Pokédex from your terminal",
		Long:          "dex browses and searches the PokeAPI catalog and keeps a local list of favorites.",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.Run(cmd.Context(), app.Options{
				ConfigPath: opts.ConfigPath,
				PrefsPath:  opts.PrefsPath,
				LogLevel:   opts.LogLevel,
			})
		},
	}

	cmd.PersistentFlags().StringVar(&opts.ConfigPath, "config", "", "config file (default ~/.config/dex/config.toml)")
	cmd.PersistentFlags().StringVar(&opts.PrefsPath, "prefs", "", "preferences file (default ~/.config/dex/prefs.toml)")
	cmd.PersistentFlags().StringVar(&opts.LogLevel, "log-level", "", "log level override (debug|info|warn|error)")

	cmd.AddCommand(newFavoritesCommand(opts))
	cmd.AddCommand(newLogsCommand(opts))
	return cmd
}

func newFavoritesCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "favorites",
		Short:         "Print saved favorites, one per line",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(opts.ConfigPath)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			store, err := app.OpenStore(cfg, zap.NewNop())
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			saved, err := store.LoadAll(cmd.Context())
			if err != nil {
				return fmt.Errorf("load favorites: %w", err)
			}
			out := cmd.OutOrStdout()
			for _, d := range saved {
				fmt.Fprintf(out, "#%03d\t%s\t%s\n", d.ID, d.Name, strings.Join(d.TypeNames(), "/"))
			}
			return nil
		},
	}
}

func newLogsCommand(opts *rootOptions) *cobra.Command {
	var lines int
	var level string

	cmd := &cobra.Command{
		Use:           "logs",
		Short:         "Show the tail of the dex log file",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(opts.ConfigPath)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			var min zapcore.Level
			if err := min.UnmarshalText([]byte(level)); err != nil {
				return fmt.Errorf("invalid --level %q: %w", level, err)
			}

			raw, err := logtail.Read(cfg.LogFile, lines)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, line := range logtail.Pretty(raw, min) {
				fmt.Fprintln(out, line)
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&lines, "lines", "n", 100, "number of lines to read from the end (0 for all)")
	cmd.Flags().StringVar(&level, "level", "debug", "minimum level to show")
	return cmd
}
