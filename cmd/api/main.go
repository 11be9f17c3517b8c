package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"talentflow/internal/app"
	"talentflow/internal/config"
	"talentflow/internal/database"
	"talentflow/internal/events"
	apphttp "talentflow/internal/http"
	"talentflow/internal/http/handlers"
	"talentflow/internal/http/metrics"
	httpmw "talentflow/internal/http/middleware"
	"talentflow/internal/http/response"
	"talentflow/internal/observability"
	"talentflow/internal/repository/postgres"
)

func main() {
	cfg := config.Load()
	logger := observability.NewLogger()
	db := database.NewPostgres(database.PostgresConfig{
		DSN:             cfg.PostgresDSN,
		MaxOpenConns:    cfg.DBMaxOpenConns,
		MaxIdleConns:    cfg.DBMaxIdleConns,
		ConnMaxIdle:     cfg.DBConnMaxIdle,
		ConnMaxLifetime: cfg.DBConnMaxLife,
	})
	defer db.Close()

	requisitionRepo := postgres.NewRequisitionRepository(db, cfg.StoreTimeout)
	vacancyRepo := postgres.NewVacancyRepository(db, cfg.StoreTimeout)
	candidateRepo := postgres.NewCandidateRepository(db, cfg.StoreTimeout)
	evaluationRepo := postgres.NewEvaluationRepository(db, cfg.StoreTimeout)
	interviewRepo := postgres.NewInterviewRepository(db, cfg.StoreTimeout)
	selectionRepo := postgres.NewSelectionRepository(db, cfg.StoreTimeout)

	channel := events.NewChannel(cfg.KafkaBrokers, cfg.KafkaTopicPrefix, logger)
	defer func() { _ = channel.Close() }()
	emitter := events.NewEmitter(channel, logger, cfg.EventRetries, cfg.EventTimeout)

	registry := events.NewRegistry(cfg.KafkaBrokers, cfg.KafkaTopicPrefix, cfg.KafkaGroupID, logger)
	defer registry.Close()
	if len(cfg.KafkaBrokers) > 0 {
		// Audit trail for the two pipeline-terminal topics.
		for _, topic := range []string{"selection.decision", "vacancy.closed"} {
			topic := topic
			if err := registry.Subscribe(topic, func(ctx context.Context, payload []byte) {
				logger.WithFields(logrus.Fields{"topic": topic, "payload": string(payload)}).Info("pipeline event consumed")
			}); err != nil {
				logger.WithError(err).WithField("topic", topic).Warn("audit consumer not started")
			}
		}
	}

	requisitionService := app.NewRequisitionService(requisitionRepo, emitter)
	vacancyService := app.NewVacancyService(vacancyRepo, requisitionRepo, emitter)
	candidateService := app.NewCandidateService(candidateRepo, vacancyRepo, emitter)
	evaluationService := app.NewEvaluationService(evaluationRepo, candidateRepo, emitter)
	interviewService := app.NewInterviewService(interviewRepo, emitter)
	selectionService := app.NewSelectionService(selectionRepo, vacancyService, emitter, logger)

	var limiter httpmw.Limiter = httpmw.NewRateLimiter()
	if cfg.RedisAddr != "" {
		redisClient := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		defer func() { _ = redisClient.Close() }()
		limiter = httpmw.NewRedisLimiter(redisClient)
		logger.WithField("addr", cfg.RedisAddr).Info("redis rate limiter enabled")
	}

	collector := metrics.NewCollector()
	response.SetErrorCollector(collector)

	router := apphttp.NewRouter(apphttp.RouterDependencies{
		RequisitionHandler: handlers.NewRequisitionHandler(requisitionService),
		VacancyHandler:     handlers.NewVacancyHandler(vacancyService),
		CandidateHandler:   handlers.NewCandidateHandler(candidateService),
		EvaluationHandler:  handlers.NewEvaluationHandler(evaluationService),
		InterviewHandler:   handlers.NewInterviewHandler(interviewService),
		SelectionHandler:   handlers.NewSelectionHandler(selectionService),
		MetricsHandler:     handlers.NewMetricsHandler(collector, emitter),
		Metrics:            collector,
		Logger:             logger,
		RateLimiter:        limiter,
		RequestTimeout:     cfg.RequestTimeout,
	})
	server := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      router,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("API started on :" + cfg.HTTPPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal(err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Fatal(err)
	}
}
