package cli

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rcliao/babylog/internal/report"
	"github.com/rcliao/babylog/internal/server"
	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve chart tables over HTTP",
		Run:   runServe,
	}

	cmd.Flags().String("addr", "", "Listen address (default: server.addr)")

	RootCmd.AddCommand(cmd)
}

func runServe(cmd *cobra.Command, args []string) {
	if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
		cfg.Server.Addr = addr
	}

	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	tracking := cfg.Tracking
	load := func(ctx context.Context) (*report.Report, error) {
		opts, err := report.OptionsFromConfig(tracking, time.Now())
		if err != nil {
			return nil, err
		}
		return report.Load(ctx, s, opts)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := server.Run(ctx, cfg.Server, server.New(load, slog.Default()), slog.Default()); err != nil {
		exitErr("serve", err)
	}
}
