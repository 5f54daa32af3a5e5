// Command finassist runs the finance chat assistant: an HTTP server exposing
// the orchestration pipeline, plus helpers to seed demo users and to run a
// single message through the pipeline from the terminal.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	anthropicsdk "github.com/anthropics/anthropic-sdk-go"
	"github.com/spf13/cobra"
	"golang.org/x/time/rate"

	"github.com/finassist/finassist"
	"github.com/finassist/finassist/config"
	"github.com/finassist/finassist/logging"
	"github.com/finassist/finassist/model"
	"github.com/finassist/finassist/model/anthropic"
	"github.com/finassist/finassist/model/openai"
	"github.com/finassist/finassist/pipeline"
	"github.com/finassist/finassist/server"
	"github.com/finassist/finassist/store"
	"github.com/finassist/finassist/store/sqlite"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:           "finassist",
		Short:         "Finance chat assistant with guardrail and intent routing",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "path to YAML config file")

	root.AddCommand(newServeCmd(&configPath))
	root.AddCommand(newSeedCmd(&configPath))
	root.AddCommand(newChatCmd(&configPath))
	return root
}

func newServeCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the chat HTTP server",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}
			logger := newLogger(cfg.Log)

			users, err := sqlite.Open(cmd.Context(), cfg.DatabasePath)
			if err != nil {
				return fmt.Errorf("opening user store: %w", err)
			}
			defer users.Close()

			llm, err := buildModel(cfg.Model)
			if err != nil {
				return err
			}

			chat := finassist.New(llm, users, func(o *finassist.Options) {
				o.InvokeTimeout = cfg.Model.InvokeTimeout
				o.Logger = logger
			})

			srv := &http.Server{
				Addr:    cfg.Addr,
				Handler: server.New(chat, users, func(o *server.Options) { o.Logger = logger }),
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			errCh := make(chan error, 1)
			go func() {
				logger.Info("server.listening", "addr", cfg.Addr, "model", llm.Info().Provider)
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					errCh <- err
				}
			}()

			select {
			case err := <-errCh:
				return err
			case <-ctx.Done():
			}

			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			logger.Info("server.shutting_down")
			return srv.Shutdown(shutdownCtx)
		},
	}
}

func newSeedCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Insert demo users into the user store",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}

			users, err := sqlite.Open(cmd.Context(), cfg.DatabasePath)
			if err != nil {
				return fmt.Errorf("opening user store: %w", err)
			}
			defer users.Close()

			for _, u := range demoUsers() {
				if _, err := users.CreateUser(cmd.Context(), u); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "seeded %s\n", u.Email)
			}
			return nil
		},
	}
}

func newChatCmd(configPath *string) *cobra.Command {
	var userIdentity string

	cmd := &cobra.Command{
		Use:   "chat <message>",
		Short: "Send one message through the pipeline and print the reply",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}
			logger := newLogger(cfg.Log)

			users, err := sqlite.Open(cmd.Context(), cfg.DatabasePath)
			if err != nil {
				return fmt.Errorf("opening user store: %w", err)
			}
			defer users.Close()

			llm, err := buildModel(cfg.Model)
			if err != nil {
				return err
			}

			chat := finassist.New(llm, users, func(o *finassist.Options) {
				o.InvokeTimeout = cfg.Model.InvokeTimeout
				o.Logger = logger
			})

			resp := chat.Handle(cmd.Context(), pipeline.ChatRequest{
				Message:      args[0],
				UserIdentity: userIdentity,
			})
			fmt.Fprintln(cmd.OutOrStdout(), resp.Reply)
			fmt.Fprintf(cmd.OutOrStdout(), "trace: %v\n", resp.Trace)
			return nil
		},
	}
	cmd.Flags().StringVar(&userIdentity, "user", "", "caller identity (email) for data lookups")
	return cmd
}

// buildModel constructs the configured provider and stacks the resilience
// middleware: circuit breaker around the bounded call, rate limiter outermost.
func buildModel(cfg config.ModelConfig) (model.Model, error) {
	var m model.Model

	switch cfg.Provider {
	case "openai", "":
		m = openai.NewModel(func(o *openai.Options) {
			if cfg.Name != "" {
				o.Model = cfg.Name
			}
			o.Temperature = cfg.Temperature
			if cfg.MaxTokens > 0 {
				o.MaxCompletionTokens = cfg.MaxTokens
			}
		})
	case "anthropic":
		m = anthropic.NewModel(func(o *anthropic.Options) {
			if cfg.Name != "" {
				o.Model = anthropicsdk.Model(cfg.Name)
			}
			o.Temperature = cfg.Temperature
			if cfg.MaxTokens > 0 {
				o.MaxTokens = cfg.MaxTokens
			}
		})
	case "mock":
		m = model.NewMockModel("mock", "mock")
	default:
		return nil, fmt.Errorf("unknown model provider %q", cfg.Provider)
	}

	if cfg.InvokeTimeout > 0 {
		m = model.WithTimeout(m, cfg.InvokeTimeout)
	}
	m = model.WithBreaker(m, "llm")
	if cfg.RequestsPerSecond > 0 {
		m = model.WithRateLimit(m, rate.Limit(cfg.RequestsPerSecond), 1)
	}
	return m, nil
}

func newLogger(cfg config.LogConfig) logging.Logger {
	return logging.NewSlogLogger(logging.ParseLogLevel(cfg.Level), cfg.Format, false)
}

// demoUsers mirrors the sample records the web client's identity selector expects.
func demoUsers() []store.User {
	return []store.User{
		{Email: "alice@example.com", Name: "Alice", Profile: "Premium checking customer since 2019."},
		{Email: "bob@example.com", Name: "Bob", Profile: "Savings account holder."},
	}
}
