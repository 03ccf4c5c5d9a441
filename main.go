package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/lizet96/historia-clinica/auth"
	"github.com/lizet96/historia-clinica/config"
	"github.com/lizet96/historia-clinica/database"
	"github.com/lizet96/historia-clinica/routes"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "historia-clinica",
		Short:         "API de historia clínica",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.AddCommand(serveCmd(), migrateCmd(), seedCmd(), hashPasswordCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Inicia el servidor HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer()
		},
	}
}

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Crea el esquema, las tablas y los roles base",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDatabase(func(ctx context.Context, _ *config.Config, db *database.Database, _ zerolog.Logger) error {
				return db.Migrate(ctx)
			})
		},
	}
}

func hashPasswordCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "hash-password <contraseña>",
		Short: "Imprime el hash bcrypt de una contraseña",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			hash, err := auth.HashPassword(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), hash)
			return nil
		},
	}
}

// newLogger construye el logger raíz: consola legible en desarrollo, JSON en
// cualquier otro ambiente.
func newLogger(cfg *config.Config) zerolog.Logger {
	level, err := zerolog.ParseLevel(strings.ToLower(cfg.LogLevel))
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	logger := zerolog.New(os.Stdout)
	if cfg.IsDev() {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.Kitchen})
	}
	return logger.Level(level).With().Timestamp().Str("env", cfg.Environment).Logger()
}

// withDatabase carga la configuración, abre la base y ejecuta fn
func withDatabase(fn func(ctx context.Context, cfg *config.Config, db *database.Database, log zerolog.Logger) error) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("cargar configuración: %w", err)
	}
	logger := newLogger(cfg)

	ctx := context.Background()
	db, err := database.Connect(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer db.Close()
	return fn(ctx, cfg, db, logger)
}

func runServer() error {
	return withDatabase(func(ctx context.Context, cfg *config.Config, db *database.Database, logger zerolog.Logger) error {
		if cfg.AutoMigrate {
			if err := db.Migrate(ctx); err != nil {
				return err
			}
		}

		tokens := auth.NewTokenCodec([]byte(cfg.JWTSecret), cfg.JWTTTL)
		authSvc := auth.NewService(db.Gorm, tokens, logger)

		app := routes.NewApp(routes.Deps{
			Config: cfg,
			DB:     db.Gorm,
			Pinger: db,
			Auth:   authSvc,
			Log:    logger,
		})

		errCh := make(chan error, 1)
		go func() {
			addr := ":" + cfg.Port
			logger.Info().Str("addr", addr).Str("driver", db.Driver).Msg("Servidor de historia clínica iniciado")
			errCh <- app.Listen(addr)
		}()

		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

		select {
		case err := <-errCh:
			if err != nil {
				return fmt.Errorf("servidor: %w", err)
			}
			return nil
		case sig := <-quit:
			logger.Info().Str("signal", sig.String()).Msg("Deteniendo servidor")
		}

		if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
			return fmt.Errorf("detener servidor: %w", err)
		}
		if err := <-errCh; err != nil && !errors.Is(err, context.Canceled) {
			logger.Warn().Err(err).Msg("Listen terminó con error")
		}
		logger.Info().Msg("Servidor detenido")
		return nil
	})
}
