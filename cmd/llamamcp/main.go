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

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"llamamcp/internal/config"
	"llamamcp/internal/httpapi"
	"llamamcp/internal/llamacpp"
	"llamamcp/internal/manager"
	"llamamcp/internal/toolserver"
	"llamamcp/pkg/types"
)

// version is stamped by the build (-ldflags "-X main.version=...").
var version = "dev"

func main() {
	if err := buildRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func buildRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "llamamcp",
		Short:         "Expose a llama-server instance as MCP tools",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	var cfgPath string
	cfg := config.Config{}

	serve := &cobra.Command{
		Use:   "serve",
		Short: "Serve the tools over stdio (logs go to stderr)",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), cfgPath, cfg, cmd.Flags().Changed)
		},
	}
	serve.Flags().StringVar(&cfgPath, "config", "", "Path to a config file (.toml, .yaml or .json)")
	serve.Flags().StringVar(&cfg.BaseURL, "base-url", "", "Base URL of the llama-server instance (defaults LLAMAMCP_BASE_URL or http://127.0.0.1:8080)")
	serve.Flags().IntVar(&cfg.TimeoutMS, "timeout-ms", 0, "Request timeout in milliseconds (defaults LLAMAMCP_TIMEOUT_MS or 30000)")
	serve.Flags().StringVar(&cfg.ServerBin, "server-bin", "", "Path to the llama-server executable (defaults LLAMAMCP_SERVER_BIN or llama-server)")
	serve.Flags().StringVar(&cfg.AdminAddr, "admin-addr", "", "Listen address for the admin HTTP surface; empty disables it")
	serve.Flags().StringVar(&cfg.LogLevel, "log-level", "", "Log level: debug|info|warn|error")
	serve.Flags().BoolVar(&cfg.CORSEnabled, "cors-enabled", false, "Enable CORS on the admin surface")
	serve.Flags().StringSliceVar(&cfg.CORSOrigins, "cors-origins", nil, "Allowed CORS origins for the admin surface")
	root.AddCommand(serve)

	return root
}

// runServe resolves configuration (file, then env, then explicit flags)
// and runs the MCP server until the context is canceled.
func runServe(parent context.Context, cfgPath string, flags config.Config, changed func(string) bool) error {
	cfg := config.Config{}
	if cfgPath != "" {
		loaded, err := config.Load(cfgPath)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = loaded
	}
	cfg.ApplyEnv()
	// Flags set on the command line win over file and env.
	if changed("base-url") {
		cfg.BaseURL = flags.BaseURL
	}
	if changed("timeout-ms") {
		cfg.TimeoutMS = flags.TimeoutMS
	}
	if changed("server-bin") {
		cfg.ServerBin = flags.ServerBin
	}
	if changed("admin-addr") {
		cfg.AdminAddr = flags.AdminAddr
	}
	if changed("log-level") {
		cfg.LogLevel = flags.LogLevel
	}
	if changed("cors-enabled") {
		cfg.CORSEnabled = flags.CORSEnabled
	}
	if changed("cors-origins") {
		cfg.CORSOrigins = flags.CORSOrigins
	}
	if err := cfg.Finalize(); err != nil {
		return err
	}

	// Stdout carries the MCP transport, so all logging goes to stderr.
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("log_level %q: %w", cfg.LogLevel, err)
	}
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).
		Level(level).With().Timestamp().Logger()

	client, err := llamacpp.New(cfg.BaseURL, cfg.Timeout(), log.With().Str("component", "llamacpp").Logger())
	if err != nil {
		return err
	}
	proc := manager.New(manager.Config{
		Bin:          cfg.ServerBin,
		PollAttempts: cfg.PollAttempts,
		PollInterval: cfg.PollInterval(),
	}, client, log.With().Str("component", "manager").Logger())

	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.AdminAddr != "" {
		mux := httpapi.NewMux(adminService{client: client, proc: proc}, httpapi.Options{
			CORSEnabled: cfg.CORSEnabled,
			CORSOrigins: cfg.CORSOrigins,
			Log:         log.With().Str("component", "httpapi").Logger(),
		})
		srv := &http.Server{Addr: cfg.AdminAddr, Handler: mux}
		go func() {
			log.Info().Str("addr", cfg.AdminAddr).Msg("admin surface listening")
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Error().Err(err).Msg("admin server error")
			}
		}()
		defer func() {
			shutCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := srv.Shutdown(shutCtx); err != nil {
				log.Warn().Err(err).Msg("admin shutdown error")
			}
		}()
	}

	defer func() {
		// Best effort: do not leave a spawned llama-server orphaned.
		if _, ok := proc.Running(); ok {
			if _, err := proc.Stop(); err != nil {
				log.Warn().Err(err).Msg("stop llama-server on shutdown")
			}
		}
	}()

	ts := toolserver.New(client, proc, log.With().Str("component", "toolserver").Logger())
	return ts.Run(ctx, version)
}

// adminService adapts the client and process manager to the admin API.
type adminService struct {
	client *llamacpp.Client
	proc   *manager.Manager
}

func (a adminService) Running() (int, bool) { return a.proc.Running() }

func (a adminService) Health(ctx context.Context) (*types.Health, error) {
	return a.client.Health(ctx)
}
