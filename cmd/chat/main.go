package main

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/set-night/mindlink/internal/config"
	"github.com/set-night/mindlink/internal/credentials"
	"github.com/set-night/mindlink/internal/domain"
	"github.com/set-night/mindlink/internal/service"
	"github.com/spf13/cobra"
)

type options struct {
	model       string
	system      string
	maxTokens   int
	temperature float64
	export      string
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: cfg.SlogLevel(),
	})))

	opts := options{
		model:       cfg.Model,
		system:      cfg.SystemPrompt,
		maxTokens:   cfg.MaxTokens,
		temperature: cfg.Temperature,
	}

	rootCmd := &cobra.Command{
		Use:           "chat",
		Short:         "Talk to a model from the terminal",
		Long:          "Lines are sent as tracked messages. \"/untracked <text>\" asks without recording, \"/history\" prints the conversation. EOF ends the session.",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return run(ctx, cfg, opts)
		},
	}
	rootCmd.Flags().StringVarP(&opts.model, "model", "m", opts.model, "model id, e.g. claude-sonnet-4-20250514 or gpt-5")
	rootCmd.Flags().StringVarP(&opts.system, "system", "s", opts.system, "system prompt")
	rootCmd.Flags().IntVar(&opts.maxTokens, "max-tokens", opts.maxTokens, "maximum tokens per reply")
	rootCmd.Flags().Float64VarP(&opts.temperature, "temperature", "t", opts.temperature, "sampling temperature in [0, 1]")
	rootCmd.Flags().StringVar(&opts.export, "export", "", "write the transcript as YAML to this file on exit")

	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, opts options) error {
	provider, err := domain.ParseProvider(opts.model)
	if err != nil {
		return err
	}

	store, err := credentials.New(credentials.WithDotenv(cfg.DotenvFiles...))
	if err != nil {
		return err
	}

	modelCfg, err := service.NewModelConfigBuilder(store, provider).
		WithSystemPrompt(opts.system).
		WithMaxTokens(opts.maxTokens).
		WithTemperature(opts.temperature).
		Build()
	if err != nil {
		return err
	}

	session := service.NewSession(modelCfg, &http.Client{Timeout: cfg.RequestTimeout})
	slog.Info("session started", "session_id", session.ID(), "provider", provider.String())

	scanner := bufio.NewScanner(os.Stdin)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	fmt.Fprint(os.Stdout, "> ")
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if err := handleLine(ctx, session, line); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		if ctx.Err() != nil {
			break
		}
		fmt.Fprint(os.Stdout, "> ")
	}
	if err := scanner.Err(); err != nil {
		slog.Error("read input", "error", err)
	}

	session.LogHistory(slog.Default())
	if opts.export != "" {
		return exportTranscript(session, opts.export)
	}
	return nil
}

func handleLine(ctx context.Context, session *service.Session, line string) error {
	switch {
	case line == "":
		return nil
	case line == "/history":
		return session.PrintHistory(os.Stdout)
	case strings.HasPrefix(line, "/untracked "):
		reply, err := session.SendUntracked(ctx, domain.FromUser(strings.TrimPrefix(line, "/untracked ")))
		if err != nil {
			return err
		}
		fmt.Fprintln(os.Stdout, reply.Message.Content)
		return nil
	default:
		if err := session.SendTracked(ctx, domain.FromUser(line)); err != nil {
			return err
		}
		history := session.History()
		fmt.Fprintln(os.Stdout, history[len(history)-1].Message.Content)
		return nil
	}
}

func exportTranscript(session *service.Session, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := session.ExportYAML(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
