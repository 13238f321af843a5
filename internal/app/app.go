package app

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/RubachokBoss/course-service/internal/config"
	"github.com/RubachokBoss/course-service/internal/database"
	"github.com/RubachokBoss/course-service/internal/delivery/httpd"
	"github.com/RubachokBoss/course-service/internal/identity"
	"github.com/RubachokBoss/course-service/internal/repository"
	"github.com/RubachokBoss/course-service/internal/service"
	"github.com/RubachokBoss/course-service/internal/service/integration"
)

type App struct {
	server    *http.Server
	logger    zerolog.Logger
	config    *config.Config
	db        *sql.DB
	mongo     *mongo.Client
	publisher integration.EventPublisher
}

// New builds every long-lived resource once and injects it downward.
func New(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*App, error) {
	a := &App{
		logger: log,
		config: cfg,
	}

	// Хранилище курсов по store.driver
	repo, err := a.openStore(ctx)
	if err != nil {
		return nil, err
	}

	// Интеграции: события и проверка файлов
	a.publisher = newPublisher(cfg.RabbitMQ, log)

	files, err := newFileVerifier(cfg.Storage, log)
	if err != nil {
		a.close()
		return nil, err
	}

	auth, err := identity.NewProvider(cfg.Auth)
	if err != nil {
		a.close()
		return nil, err
	}

	// Создаем сервисы
	store := service.NewStore(repo, cfg.Store.MaxRetries, time.Now, log)

	courseService := service.NewCourseService(store, files, a.publisher, log)
	enrollmentService := service.NewEnrollmentService(store, a.publisher, log)
	submissionService := service.NewSubmissionService(store, files, a.publisher, log)
	gradingService := service.NewGradingService(store, a.publisher, log)

	// Обработчики
	handler := httpd.NewHandler(
		courseService,
		enrollmentService,
		submissionService,
		gradingService,
		auth,
		store,
		log,
	)

	a.server = &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      NewRouter(cfg, handler, log),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	return a, nil
}

func NewRouter(cfg *config.Config, handler *httpd.Handler, log zerolog.Logger) http.Handler {
	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(httpd.RequestLogger(log))
	router.Use(httpd.Recovery(log))
	router.Use(middleware.Timeout(cfg.Server.RequestTimeout))

	// CORS
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORS.AllowedOrigins,
		AllowedMethods:   cfg.CORS.AllowedMethods,
		AllowedHeaders:   cfg.CORS.AllowedHeaders,
		ExposedHeaders:   cfg.CORS.ExposedHeaders,
		AllowCredentials: cfg.CORS.AllowCredentials,
		MaxAge:           cfg.CORS.MaxAge,
	}))

	handler.RegisterRoutes(router)
	return router
}

func (a *App) openStore(ctx context.Context) (repository.CourseRepository, error) {
	switch a.config.Store.Driver {
	case config.StoreDriverPostgres:
		db, err := database.NewPostgres(a.config.Database)
		if err != nil {
			return nil, err
		}
		a.db = db
		a.logger.Info().Msg("Database connection established")
		return repository.NewPostgresCourseRepository(db, a.logger), nil

	case config.StoreDriverMongo:
		client, err := database.NewMongo(ctx, a.config.Mongo)
		if err != nil {
			return nil, err
		}
		a.mongo = client
		db := client.Database(a.config.Mongo.Database)
		if err := repository.EnsureIndexes(ctx, db); err != nil {
			a.logger.Warn().Err(err).Msg("Failed to ensure mongo indexes")
		}
		a.logger.Info().Str("database", a.config.Mongo.Database).Msg("Mongo connection established")
		return repository.NewMongoCourseRepository(db, a.logger), nil

	case config.StoreDriverMemory:
		// Только для разработки и тестов
		a.logger.Warn().Msg("Using in-memory content store; data is lost on restart")
		return repository.NewMemoryCourseRepository(), nil
	}

	return nil, fmt.Errorf("unsupported store driver %q", a.config.Store.Driver)
}

// newPublisher falls back to dropping events when the broker is unreachable.
func newPublisher(cfg config.RabbitMQConfig, log zerolog.Logger) integration.EventPublisher {
	if !cfg.Enabled {
		return integration.NewNoopPublisher()
	}
	publisher, err := integration.NewRabbitMQPublisher(cfg.URL, cfg.Exchange, log)
	if err != nil {
		log.Error().Err(err).Msg("Failed to create RabbitMQ publisher, events will be dropped")
		return integration.NewNoopPublisher()
	}
	return publisher
}

func newFileVerifier(cfg config.StorageConfig, log zerolog.Logger) (integration.FileVerifier, error) {
	if !cfg.Enabled {
		return integration.NewNoopVerifier(), nil
	}
	return integration.NewMinIOVerifier(
		cfg.Endpoint,
		cfg.AccessKey,
		cfg.SecretKey,
		cfg.Bucket,
		cfg.Region,
		cfg.UseSSL,
		cfg.Timeout,
		log,
	)
}

func (a *App) Run() error {
	a.logger.Info().Msgf("Starting course service on %s", a.config.Server.Address)
	return a.server.ListenAndServe()
}

func (a *App) Shutdown(ctx context.Context) error {
	a.logger.Info().Msg("Shutting down course service...")

	err := a.server.Shutdown(ctx)
	a.close()
	return err
}

func (a *App) close() {
	if a.publisher != nil {
		if err := a.publisher.Close(); err != nil {
			a.logger.Error().Err(err).Msg("Failed to close event publisher")
		}
	}

	// Закрываем соединения с хранилищем
	if a.mongo != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := a.mongo.Disconnect(ctx); err != nil {
			a.logger.Error().Err(err).Msg("Failed to disconnect from mongo")
		}
	}

	if a.db != nil {
		if err := a.db.Close(); err != nil {
			a.logger.Error().Err(err).Msg("Failed to close database connection")
		}
	}
}
