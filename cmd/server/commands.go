package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/sharebite/sharebite-api/internal/config"
	"github.com/sharebite/sharebite-api/internal/platform/logger"
	"github.com/sharebite/sharebite-api/internal/platform/postgres"
	"github.com/sharebite/sharebite-api/internal/service/auth"
	"github.com/spf13/cobra"
)

// Version information (set via ldflags during build)
var (
	Version   = "dev"
	GitCommit = "unknown"
)

// globalFlags are shared by every subcommand.
type globalFlags struct {
	configPath string
	logLevel   string
}

// newRootCmd builds the command tree. Running the binary without a
// subcommand starts the server.
func newRootCmd() *cobra.Command {
	flags := &globalFlags{}

	serve := newServeCmd(flags)
	root := &cobra.Command{
		Use:   "sharebite-api",
		Short: "ShareBite food-sharing API server",
		Long: `ShareBite API serves food listings for the ShareBite web client.

Donors publish surplus food, other users request it, and owner-scoped
listings are protected by bearer-token identity verification.`,
		SilenceUsage: true,
		RunE:         serve.RunE,
	}

	root.PersistentFlags().StringVar(&flags.configPath, "config", "", "config file path (optional, uses env vars by default)")
	root.PersistentFlags().StringVar(&flags.logLevel, "log-level", "", "log level (debug, info, warn, error)")

	root.AddCommand(serve, newMigrateCmd(flags), newTokenCmd(flags), newVersionCmd())
	return root
}

// loadConfig loads configuration and applies global flag overrides.
func (f *globalFlags) loadConfig() (*config.Config, error) {
	var opts []config.Option
	if f.configPath != "" {
		opts = append(opts, config.WithConfigFile(f.configPath))
	}

	cfg, err := config.Load(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	if f.logLevel != "" {
		if _, ok := logger.ParseLevel(f.logLevel); !ok {
			return nil, fmt.Errorf("invalid log level %q", f.logLevel)
		}
		cfg.Server.LogLevel = f.logLevel
	}
	return cfg, nil
}

func newServeCmd(flags *globalFlags) *cobra.Command {
	var port int

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		Long: `Start the HTTP server and begin accepting API requests.

The server loads configuration from SHAREBITE_* environment variables (or a
--config file), connects to the configured store and shuts down gracefully
on SIGINT/SIGTERM.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := flags.loadConfig()
			if err != nil {
				return err
			}
			if port != 0 {
				cfg.Server.Port = port
			}

			log, err := logger.Setup(cfg.Server)
			if err != nil {
				return fmt.Errorf("failed to set up logger: %w", err)
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			app, err := newApplication(ctx, cfg, log)
			if err != nil {
				return err
			}
			return app.Run(ctx)
		},
	}

	cmd.Flags().IntVar(&port, "port", 0, "server port (overrides configuration)")
	return cmd
}

func newMigrateCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:       "migrate [up|down|status|version]",
		Short:     "Manage the postgres schema",
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{"up", "down", "status", "version"},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := flags.loadConfig()
			if err != nil {
				return err
			}
			if cfg.Database.Driver != driverPostgres {
				return fmt.Errorf("migrations apply to the postgres driver only (configured: %s)", cfg.Database.Driver)
			}

			log, err := logger.Setup(cfg.Server)
			if err != nil {
				return fmt.Errorf("failed to set up logger: %w", err)
			}

			db, err := postgres.Open(cmd.Context(), cfg.Database.URL, poolConfig(cfg.Database))
			if err != nil {
				return err
			}
			defer func() {
				if closeErr := db.Close(); closeErr != nil {
					log.Error("failed to close database", slog.String("error", closeErr.Error()))
				}
			}()

			return postgres.Migrate(cmd.Context(), db, args[0], log)
		},
	}
}

func newTokenCmd(flags *globalFlags) *cobra.Command {
	var email, uid string

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Mint a bearer token for local development",
		Long: `Mint a signed bearer token for the jwt auth provider. The token is
accepted by a server running with the same SHAREBITE_AUTH_JWT_SECRET.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := flags.loadConfig()
			if err != nil {
				return err
			}
			if cfg.Auth.Provider != auth.ProviderJWT {
				return errors.New("tokens can only be minted for the jwt auth provider")
			}

			verifier, err := auth.NewJWTVerifier(cfg.Auth)
			if err != nil {
				return err
			}

			if uid == "" {
				uid = email
			}
			token, err := verifier.GenerateToken(cmd.Context(), email, uid)
			if err != nil {
				return err
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), token)
			return err
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "e-mail claim of the token")
	cmd.Flags().StringVar(&uid, "uid", "", "subject of the token (defaults to the e-mail)")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, _ []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "ShareBite API\n")
			fmt.Fprintf(out, "Version:    %s\n", Version)
			fmt.Fprintf(out, "Git commit: %s\n", GitCommit)
			fmt.Fprintf(out, "Go version: %s\n", runtime.Version())
			fmt.Fprintf(out, "Platform:   %s/%s\n", runtime.GOOS, runtime.GOARCH)
		},
	}
}
