package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/set-night/mindlink/internal/config"
	"github.com/set-night/mindlink/internal/credentials"
	"github.com/set-night/mindlink/internal/domain"
	"github.com/set-night/mindlink/internal/service"
	"github.com/spf13/cobra"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.SlogLevel(),
	})))

	var timeout time.Duration
	rootCmd := &cobra.Command{
		Use:          "maintenance",
		Short:        "Report models providers serve that have no local mapping",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()
			return run(ctx, cfg)
		},
	}
	rootCmd.Flags().DurationVar(&timeout, "timeout", cfg.RequestTimeout, "overall deadline for the listing requests")

	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config) error {
	store, err := credentials.New(credentials.WithDotenv(cfg.DotenvFiles...))
	if err != nil {
		return err
	}
	catalog := service.NewCatalog(&http.Client{Timeout: cfg.RequestTimeout}, store, service.NewModelsCache(cfg.ModelsCacheTTL))

	var failed []error
	for _, f := range domain.Families() {
		unsupported, err := catalog.Unsupported(ctx, f)
		if errors.Is(err, domain.ErrUnsupportedProvider) {
			slog.Info("model listing not supported", "family", f.String())
			continue
		}
		if err != nil {
			slog.Error("list models", "family", f.String(), "error", err)
			failed = append(failed, err)
			continue
		}
		for _, m := range unsupported {
			slog.Error("unsupported model", "family", f.String(), "id", m.ID, "display_name", m.DisplayName)
		}
		slog.Info("models checked", "family", f.String(), "unsupported", len(unsupported))
	}
	return errors.Join(failed...)
}
