package main

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/rovery/updatefeed/internal/app/updatefeed"
	"github.com/rovery/updatefeed/pkg/config"
	"github.com/rovery/updatefeed/pkg/logging"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
)

var version = "dev"

var (
	configFile string
	verbose    bool
)

var rootCmd = &cobra.Command{
	Use:   "updatefeed",
	Short: "Serves auto-update and download requests for desktop applications",
	Long:  "updatefeed proxies the releases of a repository and answers update checks by platform, environment and version.",
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Runs the http server",
	RunE: func(cmd *cobra.Command, args []string) error {
		desiredLogLevel := lo.Ternary(verbose, slog.LevelDebug, slog.LevelInfo)
		logger := slog.New(logging.NewReadableTextHandler(os.Stdout, &logging.ReadableTextHandlerOptions{Level: desiredLogLevel}))

		cfg, err := config.Load(configFile)
		if err != nil {
			return err
		}
		logger.Info(fmt.Sprintf("Serving releases of %s/%s from %s", cfg.Account, cfg.Repository, cfg.Source))

		server, err := updatefeed.NewServer(logger, cfg)
		if err != nil {
			return err
		}
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return server.ListenAndServe(ctx)
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Prints the version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(version)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "the path to an optional config file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
