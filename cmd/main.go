package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	cancelHoldHandler "github.com/m04kA/SMC-HoldService/internal/api/handlers/cancel_hold"
	confirmPaymentHandler "github.com/m04kA/SMC-HoldService/internal/api/handlers/confirm_payment"
	createHoldHandler "github.com/m04kA/SMC-HoldService/internal/api/handlers/create_hold"
	getHoldHandler "github.com/m04kA/SMC-HoldService/internal/api/handlers/get_hold"
	sendLinkHandler "github.com/m04kA/SMC-HoldService/internal/api/handlers/send_signing_link"
	signAgreementHandler "github.com/m04kA/SMC-HoldService/internal/api/handlers/sign_agreement"
	"github.com/m04kA/SMC-HoldService/internal/api/middleware"
	"github.com/m04kA/SMC-HoldService/internal/config"
	"github.com/m04kA/SMC-HoldService/internal/events"
	agreementRepo "github.com/m04kA/SMC-HoldService/internal/infra/storage/agreement"
	capacityRepo "github.com/m04kA/SMC-HoldService/internal/infra/storage/capacity"
	holdRepo "github.com/m04kA/SMC-HoldService/internal/infra/storage/hold"
	"github.com/m04kA/SMC-HoldService/internal/integrations/emailgateway"
	"github.com/m04kA/SMC-HoldService/internal/integrations/smsgateway"
	holdsService "github.com/m04kA/SMC-HoldService/internal/service/holds"
	"github.com/m04kA/SMC-HoldService/internal/service/notifications"
	confirmPaymentUC "github.com/m04kA/SMC-HoldService/internal/usecase/confirm_payment"
	createHoldUC "github.com/m04kA/SMC-HoldService/internal/usecase/create_hold"
	sendLinkUC "github.com/m04kA/SMC-HoldService/internal/usecase/send_signing_link"
	signAgreementUC "github.com/m04kA/SMC-HoldService/internal/usecase/sign_agreement"
	"github.com/m04kA/SMC-HoldService/internal/worker/sweeper"
	"github.com/m04kA/SMC-HoldService/pkg/dbmetrics"
	"github.com/m04kA/SMC-HoldService/pkg/logger"
	"github.com/m04kA/SMC-HoldService/pkg/metrics"
	"github.com/m04kA/SMC-HoldService/pkg/simpletxmanager"
	"github.com/m04kA/SMC-HoldService/pkg/txmanager"
)

func main() {
	// Загружаем конфигурацию
	cfg, err := config.Load("config.toml")
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Инициализируем логгер
	log, err := logger.New(cfg.Logs.File, cfg.Logs.Level)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Close()

	log.Info("Starting SMC-HoldService...")
	log.Info("Configuration loaded from config.toml")

	// Инициализируем метрики (если включены)
	var metricsCollector *metrics.Metrics
	var wrappedDB *dbmetrics.DB
	stopMetricsCh := make(chan struct{})

	if cfg.Metrics.Enabled {
		metricsCollector = metrics.New(cfg.Metrics.ServiceName)
		log.Info("Metrics enabled at %s", cfg.Metrics.Path)
	}

	// Подключаемся к базе данных
	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		log.Fatal("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Настраиваем connection pool
	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(cfg.Database.ConnMaxLifetime) * time.Second)

	// Проверяем соединение
	if err := db.Ping(); err != nil {
		log.Fatal("Failed to ping database: %v", err)
	}
	log.Info("Successfully connected to database (host=%s, port=%d, db=%s)",
		cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

	// Инициализируем клиентов каналов доставки
	smsClient := smsgateway.NewClient(
		cfg.SMSGateway.URL,
		cfg.SMSGateway.APIKey,
		cfg.SMSGateway.Sender,
		time.Duration(cfg.SMSGateway.Timeout)*time.Second,
		log,
	)
	emailClient, err := emailgateway.NewClient(
		cfg.EmailGateway.Host,
		cfg.EmailGateway.Port,
		cfg.EmailGateway.Username,
		cfg.EmailGateway.Password,
		cfg.EmailGateway.From,
		cfg.EmailGateway.FromName,
		log,
	)
	if err != nil {
		log.Fatal("Failed to initialize email client: %v", err)
	}
	log.Info("Delivery clients initialized (sms=%s, smtp=%s:%d)",
		cfg.SMSGateway.URL, cfg.EmailGateway.Host, cfg.EmailGateway.Port)

	notifyGateway := notifications.NewGateway(smsClient, emailClient, log)

	// Publisher доменных событий
	eventPublisher := events.NewPublisher(cfg.RabbitMQ.URL, cfg.RabbitMQ.Queue, metricsCollector, log)
	log.Info("Event publisher initialized (queue=%s)", cfg.RabbitMQ.Queue)

	// Инициализируем репозитории (с метриками или без)
	var (
		holdRepository      *holdRepo.Repository
		agreementRepository *agreementRepo.Repository
		capacityRepository  *capacityRepo.Repository
	)

	// Интерфейс для transaction manager (используется в usecases и сервисах)
	type TxManager interface {
		Do(ctx context.Context, fn func(ctx context.Context) error) error
		DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
	}
	var txMgr TxManager

	if cfg.Metrics.Enabled {
		wrappedDB = dbmetrics.WrapWithDefault(db, metricsCollector, cfg.Metrics.ServiceName, stopMetricsCh)
		log.Info("Database metrics collection started")

		// Инициализируем репозитории с обёрткой метрик
		holdRepository = holdRepo.NewRepository(wrappedDB)
		agreementRepository = agreementRepo.NewRepository(wrappedDB)
		capacityRepository = capacityRepo.NewRepository(wrappedDB)
		txMgr = txmanager.NewTransactionManager(wrappedDB)
	} else {
		// Инициализируем репозитории без метрик
		holdRepository = holdRepo.NewRepository(db)
		agreementRepository = agreementRepo.NewRepository(db)
		capacityRepository = capacityRepo.NewRepository(db)
		txMgr = simpletxmanager.NewTransactionManager(db)
	}

	// Инициализируем сервисы
	holdsSvc := holdsService.NewService(
		holdRepository,
		agreementRepository,
		capacityRepository,
		txMgr,
		log,
	)

	// Инициализируем use cases
	createHoldUseCase := createHoldUC.NewUseCase(
		holdRepository,
		capacityRepository,
		txMgr,
		createHoldUC.Deadlines{
			Signing: time.Duration(cfg.Holds.SigningDeadlineMinutes) * time.Minute,
			Payment: time.Duration(cfg.Holds.PaymentDeadlineMinutes) * time.Minute,
			Expiry:  time.Duration(cfg.Holds.ExpiryMinutes) * time.Minute,
		},
		log,
	)

	sendLinkUseCase := sendLinkUC.NewUseCase(
		holdRepository,
		notifyGateway,
		txMgr,
		cfg.Holds.SigningLinkBaseURL,
		log,
	)

	signAgreementUseCase := signAgreementUC.NewUseCase(
		holdRepository,
		agreementRepository,
		txMgr,
		log,
	)

	confirmPaymentUseCase := confirmPaymentUC.NewUseCase(
		holdRepository,
		agreementRepository,
		eventPublisher,
		txMgr,
		log,
	)

	// Инициализируем handlers
	createHold := createHoldHandler.NewHandler(createHoldUseCase, log)
	sendLink := sendLinkHandler.NewHandler(sendLinkUseCase, log)
	signAgreement := signAgreementHandler.NewHandler(signAgreementUseCase, log)
	confirmPayment := confirmPaymentHandler.NewHandler(confirmPaymentUseCase, log)
	getHold := getHoldHandler.NewHandler(holdsSvc, log)
	cancelHold := cancelHoldHandler.NewHandler(holdsSvc, log)

	// Запускаем sweeper просроченных hold'ов
	var expirySweeper *sweeper.Sweeper
	if cfg.Sweeper.Enabled {
		expirySweeper = sweeper.New(
			holdRepository,
			capacityRepository,
			txMgr,
			metricsCollector,
			time.Duration(cfg.Sweeper.IntervalSeconds)*time.Second,
			uint64(cfg.Sweeper.BatchSize),
			log,
		)
		if err := expirySweeper.Start(context.Background()); err != nil {
			log.Fatal("Failed to start sweeper: %v", err)
		}
	} else {
		log.Warn("Sweeper disabled - expired holds will not be released automatically")
	}

	// Настраиваем роутер
	r := mux.NewRouter()

	// Добавляем metrics middleware (если метрики включены)
	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector, cfg.Metrics.ServiceName))
		log.Info("HTTP metrics middleware enabled")
	}

	// Metrics endpoint (публичный, без аутентификации)
	if cfg.Metrics.Enabled {
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	// API prefix
	api := r.PathPrefix("/api/v1").Subrouter()

	// ============================================================
	// PUBLIC ROUTES (без аутентификации)
	// ============================================================

	// Создание hold'а на слот
	api.HandleFunc("/holds", createHold.Handle).Methods(http.MethodPost)

	// Отправка ссылки на подписание
	api.HandleFunc("/holds/{holdId}/send-link", sendLink.Handle).Methods(http.MethodPost)

	// Подписание соглашения по токену из ссылки
	api.HandleFunc("/signing/{token}/agreements", signAgreement.Handle).Methods(http.MethodPost)

	// Webhook платежной системы
	api.HandleFunc("/webhooks/payment-confirmed", confirmPayment.Handle).Methods(http.MethodPost)

	// ============================================================
	// PROTECTED ROUTES (требуют X-User-ID header)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth)

	// Карточка hold'а для операторской панели
	protected.HandleFunc("/holds/{holdId}", getHold.Handle).Methods(http.MethodGet)

	// Отмена hold'а оператором
	protected.HandleFunc("/holds/{holdId}/cancel", cancelHold.Handle).Methods(http.MethodPatch)

	// Создаем HTTP сервер
	addr := fmt.Sprintf(":%d", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	// Graceful shutdown
	go func() {
		log.Info("Starting server on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server failed to start: %v", err)
		}
	}()

	// Ожидаем сигнал завершения
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	// Останавливаем sweeper - текущий проход дорабатывает до конца
	if expirySweeper != nil {
		if err := expirySweeper.Stop(); err != nil {
			log.Error("Sweeper shutdown error: %v", err)
		}
	}

	// Останавливаем сбор метрик connection pool
	if cfg.Metrics.Enabled {
		close(stopMetricsCh)
		log.Info("Metrics collection stopped")
	}

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
	}

	log.Info("Server stopped gracefully")
}
