package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"wedding-registry/internal/client"
	"wedding-registry/internal/config"
	"wedding-registry/internal/console"
	"wedding-registry/internal/handler"
	"wedding-registry/internal/metrics"
	"wedding-registry/internal/storage"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	v := config.New()

	rootCmd := &cobra.Command{
		Use:          "registry",
		Short:        "Wedding guest registry",
		Long:         `Tracks RSVPs for Molly and James: add guests, list them with headcounts, and edit diets and plus-ones.`,
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().String("store", "", "registry backend: memory or sqlite")
	rootCmd.PersistentFlags().String("log-level", "", "log level (debug, info, warn, error)")
	_ = v.BindPFlag("store", rootCmd.PersistentFlags().Lookup("store"))
	_ = v.BindPFlag("log_level", rootCmd.PersistentFlags().Lookup("log-level"))

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the guest API over HTTP",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context(), v, cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}
	serveCmd.Flags().String("addr", "", "HTTP listen address (default :8088)")
	serveCmd.Flags().Bool("console", false, "also run the operator console on stdin")
	_ = v.BindPFlag("http_addr", serveCmd.Flags().Lookup("addr"))
	_ = v.BindPFlag("console", serveCmd.Flags().Lookup("console"))

	consoleCmd := &cobra.Command{
		Use:   "console",
		Short: "Run the operator console against a local registry or a running server",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runConsole(cmd.Context(), v, cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}
	consoleCmd.Flags().String("server", "", "base URL of a running registry server (e.g. http://localhost:8088)")
	_ = v.BindPFlag("server", consoleCmd.Flags().Lookup("server"))

	rootCmd.AddCommand(serveCmd, consoleCmd)
	rootCmd.RunE = serveCmd.RunE
	rootCmd.Flags().AddFlagSet(serveCmd.Flags())
	return rootCmd
}

func newLogger(cfg *config.Config) zerolog.Logger {
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	return zerolog.New(os.Stdout).Level(level).With().Timestamp().Str("component", "Registry").Logger()
}

func runServe(ctx context.Context, v *viper.Viper, in io.Reader, out io.Writer) error {
	cfg, err := config.LoadConfig(v)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	log := newLogger(cfg)

	fmt.Fprintln(out, "💍 Wedding Guest Registry")
	fmt.Fprintln(out, "=========================")

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	registry, err := storage.NewRegistry(ctx, cfg.Store)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	defer closeRegistry(registry, log)

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	guestHandler := handler.NewGuestHandler(registry, metrics.New(reg))

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           handler.NewRouter(guestHandler, log, reg),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", cfg.HTTPAddr).Str("store", cfg.Store).Msg("Server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	if cfg.Console {
		go func() {
			c := console.New(console.NewLocal(registry), console.Config{BrideName: cfg.BrideName, GroomName: cfg.GroomName}, in, out, log)
			if err := c.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				log.Error().Err(err).Msg("Console stopped")
			}
			stop()
		}()
	}

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("server failed: %w", err)
		}
	case <-ctx.Done():
	}

	fmt.Fprintln(out, "\n\nShutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down: %w", err)
	}
	fmt.Fprintln(out, "Goodbye! 👋")
	return nil
}

func runConsole(ctx context.Context, v *viper.Viper, in io.Reader, out io.Writer) error {
	cfg, err := config.LoadConfig(v)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	log := newLogger(cfg)

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	var guests console.Guests
	if cfg.Server != "" {
		log.Info().Str("server", cfg.Server).Msg("Using remote registry")
		guests = client.New(cfg.Server, client.WithLogger(log))
	} else {
		registry, err := storage.NewRegistry(ctx, cfg.Store)
		if err != nil {
			return fmt.Errorf("failed to initialize storage: %w", err)
		}
		defer closeRegistry(registry, log)
		guests = console.NewLocal(registry)
	}

	c := console.New(guests, console.Config{BrideName: cfg.BrideName, GroomName: cfg.GroomName}, in, out, log)
	if err := c.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

func closeRegistry(registry storage.Registry, log zerolog.Logger) {
	if closer, ok := registry.(io.Closer); ok {
		if err := closer.Close(); err != nil {
			log.Error().Err(err).Msg("Error closing storage")
		}
	}
}
