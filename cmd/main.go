package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	_ "modernc.org/sqlite"

	"github.com/bmwdroch/detailing-bot/internal/app"
	"github.com/bmwdroch/detailing-bot/internal/config"
	"github.com/bmwdroch/detailing-bot/internal/domain"
	"github.com/bmwdroch/detailing-bot/internal/infra/storage"
	"github.com/bmwdroch/detailing-bot/internal/integrations/telegram"
	"github.com/bmwdroch/detailing-bot/internal/service/reminder"
	"github.com/bmwdroch/detailing-bot/pkg/dbmetrics"
	"github.com/bmwdroch/detailing-bot/pkg/logger"
	"github.com/bmwdroch/detailing-bot/pkg/metrics"
	"github.com/bmwdroch/detailing-bot/pkg/simpletxmanager"
	"github.com/bmwdroch/detailing-bot/pkg/sqlbuilder"
	"github.com/bmwdroch/detailing-bot/pkg/txmanager"
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

	log.Info("Starting detailing-bot...")
	log.Info("Configuration loaded from config.toml")

	// Инициализируем метрики (если включены)
	var metricsCollector *metrics.Metrics
	stopMetricsCh := make(chan struct{})

	if cfg.Metrics.Enabled {
		metricsCollector = metrics.New(cfg.Metrics.ServiceName)
		log.Info("Metrics enabled at %s", cfg.Metrics.Path)
	}

	// Подключаемся к базе данных и применяем схему
	initCtx, cancelInit := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancelInit()

	db, dialect, err := storage.Open(initCtx, cfg.Database)
	if err != nil {
		log.Fatal("Failed to open database: %v", err)
	}
	defer db.Close()

	if err := storage.Migrate(initCtx, db, dialect); err != nil {
		log.Fatal("Failed to apply database schema: %v", err)
	}
	log.Info("Database ready (driver=%s)", cfg.Database.Driver)

	qb := sqlbuilder.ForDialect(dialect)

	// Executor и transaction manager: с обёрткой метрик или без
	var (
		executor dbmetrics.DBExecutor
		txm      app.TxManager
	)

	if cfg.Metrics.Enabled {
		wrappedDB := dbmetrics.WrapWithDefault(db, metricsCollector, cfg.Metrics.ServiceName, stopMetricsCh)
		executor = wrappedDB
		txm = txmanager.NewTransactionManager(wrappedDB)
		log.Info("Database metrics collection started")
	} else {
		executor = db
		txm = simpletxmanager.NewTransactionManager(db)
	}

	// Правила расписания из конфигурации
	rules := domain.ScheduleRules{
		WorkStartHour:   cfg.Booking.WorkStartHour,
		WorkEndHour:     cfg.Booking.WorkEndHour,
		MinAdvanceHours: cfg.Booking.MinAdvanceHours,
		MaxAdvanceDays:  cfg.Booking.MaxAdvanceDays,
		SlotStepMinutes: cfg.Booking.SlotStepMinutes,
	}

	// Нотификатор: Telegram или заглушка с записью в лог
	var notifier reminder.Notifier
	if cfg.Telegram.Enabled {
		tgNotifier, err := telegram.NewNotifier(cfg.Telegram.Token, cfg.Telegram.AdminChatID, log)
		if err != nil {
			log.Fatal("Failed to initialize telegram notifier: %v", err)
		}
		notifier = tgNotifier
	} else {
		notifier = telegram.NewLogNotifier(log)
		log.Info("Telegram disabled, reminders will be written to log only")
	}

	// Собираем ядро бронирования
	core := app.New(
		executor,
		qb,
		txm,
		rules,
		notifier,
		time.Duration(cfg.Reminders.IntervalSeconds)*time.Second,
		time.Duration(cfg.Reminders.LookaheadDays)*24*time.Hour,
		log,
	)

	// Фоновый воркер напоминаний
	workerCtx, cancelWorker := context.WithCancel(context.Background())
	defer cancelWorker()

	if cfg.Reminders.Enabled {
		go core.ReminderWorker.Run(workerCtx)
	} else {
		log.Info("Reminder worker disabled")
	}

	// Служебный HTTP-сервер: здоровье процесса и метрики.
	// Бизнес-операции через HTTP не выставляются: ядро вызывается
	// диалоговым слоем внутри процесса.
	r := mux.NewRouter()
	r.HandleFunc("/healthz", func(w http.ResponseWriter, req *http.Request) {
		if err := db.PingContext(req.Context()); err != nil {
			http.Error(w, "database unavailable", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	}).Methods(http.MethodGet)

	if cfg.Metrics.Enabled {
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

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
		log.Info("Starting ops server on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Ops server failed to start: %v", err)
		}
	}()

	// Ожидаем сигнал завершения
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down...")

	// Останавливаем воркер напоминаний и сбор метрик
	cancelWorker()
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
		log.Error("Ops server forced to shutdown: %v", err)
	}

	log.Info("Stopped gracefully")
}
