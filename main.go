package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/RubachokBoss/course-service/internal/app"
	"github.com/RubachokBoss/course-service/internal/config"
	"github.com/RubachokBoss/course-service/internal/database"
	"github.com/RubachokBoss/course-service/internal/identity"
	"github.com/RubachokBoss/course-service/internal/models"
	"github.com/RubachokBoss/course-service/pkg/logger"
)

func main() {
	migrateCmd := flag.NewFlagSet("migrate", flag.ExitOnError)
	migrateDirection := migrateCmd.String("direction", "up", "direction of migration (up/down)")
	migrateForce := migrateCmd.Int("force", -1, "force the schema to this version and exit")

	tokenCmd := flag.NewFlagSet("token", flag.ExitOnError)
	tokenSubject := tokenCmd.String("sub", "", "principal id")
	tokenRole := tokenCmd.String("role", "student", "principal role (student/teacher/admin)")
	tokenTTL := tokenCmd.Duration("ttl", time.Hour, "token lifetime")

	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "migrate":
			migrateCmd.Parse(os.Args[2:])
			runMigrations(*migrateDirection, *migrateForce)
			return
		case "token":
			tokenCmd.Parse(os.Args[2:])
			runIssueToken(*tokenSubject, *tokenRole, *tokenTTL)
			return
		}
	}

	bootLog := logger.New()

	cfg, err := config.Load()
	if err != nil {
		bootLog.Fatal().Err(err).Msg("Failed to load configuration")
	}

	log := logger.NewWithConfig(cfg.Logging.Level, cfg.Logging.Pretty, cfg.Logging.NoColor)

	ctx, stop := signal.NotifyContext(context.Background(),
		syscall.SIGINT,
		syscall.SIGTERM,
	)
	defer stop()

	application, err := app.New(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create application")
	}

	go func() {
		if err := application.Run(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Failed to run application")
		}
	}()

	log.Info().
		Str("address", cfg.Server.Address).
		Str("store", string(cfg.Store.Driver)).
		Str("auth", string(cfg.Auth.Provider)).
		Msg("Course Service started")

	<-ctx.Done()
	log.Info().Msg("Shutting down Course Service...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := application.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Failed to shutdown gracefully")
	}

	log.Info().Msg("Course Service stopped")
}

func runMigrations(direction string, force int) {
	log := logger.New()
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	if cfg.Store.Driver != config.StoreDriverPostgres {
		log.Info().Str("store", string(cfg.Store.Driver)).Msg("Store driver has no SQL schema, nothing to migrate")
		return
	}

	migrator, err := database.NewMigrator(cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create migrator")
	}

	if force >= 0 {
		if err := migrator.Force(force); err != nil {
			log.Fatal().Err(err).Msg("Failed to force migration version")
		}
		log.Info().Int("version", force).Msg("Migration version forced")
		return
	}

	switch direction {
	case "up":
		if err := migrator.Up(); err != nil {
			log.Fatal().Err(err).Msg("Failed to apply migrations")
		}
		log.Info().Msg("Migrations applied successfully")
	case "down":
		if err := migrator.Down(); err != nil {
			log.Fatal().Err(err).Msg("Failed to rollback migrations")
		}
		log.Info().Msg("Migrations rolled back successfully")
	default:
		log.Fatal().Msg("Invalid migration direction. Use 'up' or 'down'")
	}
}

// runIssueToken prints a signed bearer token for local testing against the
// jwt auth provider.
func runIssueToken(subject, role string, ttl time.Duration) {
	log := logger.New()
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	if cfg.Auth.Provider != config.AuthProviderJWT {
		log.Fatal().Str("auth", string(cfg.Auth.Provider)).Msg("Tokens can only be issued for the jwt auth provider")
	}
	r := models.Role(role)
	if subject == "" || !r.IsValid() {
		log.Fatal().Str("sub", subject).Str("role", role).Msg("A subject and a valid role are required")
	}

	jwtCfg := cfg.Auth.JWT
	provider := identity.NewJWTProvider(jwtCfg.Secret, jwtCfg.Issuer, jwtCfg.Audience, jwtCfg.Leeway)
	token, err := provider.Issue(models.Principal{ID: subject, Role: r}, ttl, time.Now())
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to sign token")
	}

	fmt.Println(token)
}
