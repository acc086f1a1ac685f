package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	_ "vedic_counter/docs"
	"vedic_counter/internal/handlers"
	"vedic_counter/internal/logger"
	"vedic_counter/internal/metrics"
	"vedic_counter/internal/repository"
	"vedic_counter/internal/repository/db"
	"vedic_counter/internal/scheduler"
	"vedic_counter/internal/server"
	"vedic_counter/internal/service"

	"github.com/dgraph-io/badger/v4"
	"github.com/spf13/viper"
)

const (
	storageSQLite = "sqlite"
	storageBadger = "badger"

	badgerKeyPrefix = "vedic/"
	shutdownTimeout = 10 * time.Second
)

// @title                       Vedic Counter API
// @version                     1.0
// @description                 Mala counter with 108-count cycles, a session timer and an event log.
// @host                        localhost:8080
// @BasePath                    /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
func main() {
	if err := loadConfig(); err != nil {
		logger.Get(logger.InfoLevel).Fatalw("error reading config", "err", err)
	}
	log := logger.Get(viper.GetString("log.level"))

	sqlDB, err := openDB(log)
	if err != nil {
		log.Fatalw("failed to init sqlite", "err", err)
	}
	defer func() {
		if cerr := sqlDB.Close(); cerr != nil {
			log.Errorw("failed to close sqlite", "err", cerr)
		}
	}()

	kv, closeKV, err := openKV(log)
	if err != nil {
		log.Fatalw("failed to open counter store", "err", err)
	}
	defer closeKV()

	sched, err := scheduler.New()
	if err != nil {
		log.Fatalw("failed to start scheduler", "err", err)
	}
	defer func() {
		if err := sched.Shutdown(); err != nil {
			log.Errorw("scheduler_shutdown_failed", "err", err)
		}
	}()

	m := metrics.New()

	// wire dependencies
	repos := repository.NewRepository(sqlDB, kv)
	services := service.NewService(repos, service.Deps{
		Log:       log,
		Metrics:   m,
		Scheduler: sched,
		Hub:       service.NewHub(0),
		TimerTick: viper.GetDuration("timer.tick"),
		Feedback: service.FeedbackConfig{
			MessageTTL:    viper.GetDuration("feedback.message_ttl"),
			SoundURL:      viper.GetString("feedback.sound_url"),
			VibrateMillis: viper.GetInt("feedback.vibrate_ms"),
		},
		Auth: service.AuthConfig{
			SigningKey: viper.GetString("auth.signing_key"),
			TokenTTL:   viper.GetDuration("auth.token_ttl"),
		},
	})
	services.Session.Load(context.Background())

	apiHandler := handlers.NewHandler(services, log).WithMetrics(m)

	// context for background goroutines
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	timerDone := make(chan struct{})
	go func() {
		defer close(timerDone)
		services.Timer.Run(ctx)
	}()

	srv := &server.Server{}
	runHTTPServer(srv, viper.GetString("port"), apiHandler, log)

	waitForShutdown(cancel, srv, log)
	<-timerDone
}

func loadConfig() error {
	viper.SetDefault("port", server.DefaultPort)
	viper.SetDefault("db.path", "vedic.db")
	viper.SetDefault("log.level", logger.InfoLevel)
	viper.SetDefault("storage.driver", storageSQLite)
	viper.SetDefault("storage.badger_path", "data/badger")
	viper.SetDefault("timer.tick", time.Second)
	viper.SetDefault("feedback.message_ttl", 5*time.Second)
	viper.SetDefault("feedback.sound_url", "/vediccounter/ding.mp3")
	viper.SetDefault("feedback.vibrate_ms", 200)
	viper.SetDefault("auth.token_ttl", 12*time.Hour)

	viper.SetEnvPrefix("VEDIC")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	viper.AddConfigPath("configs") // configs/config.yml
	viper.SetConfigName("config")
	if err := viper.ReadInConfig(); err != nil {
		// the file is optional; defaults and VEDIC_* env vars still apply
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return err
		}
	}
	return nil
}

// openDB initializes the SQLite database using configuration.
func openDB(log *logger.Logger) (*sql.DB, error) {
	dbPath := viper.GetString("db.path")
	log.Infow("opening sqlite", "path", dbPath)
	return db.InitDB(dbPath)
}

// openKV picks the counter key store. A nil store means the sqlite table.
func openKV(log *logger.Logger) (repository.KVStore, func(), error) {
	switch driver := strings.ToLower(viper.GetString("storage.driver")); driver {
	case "", storageSQLite:
		return nil, func() {}, nil
	case storageBadger:
		path := viper.GetString("storage.badger_path")
		bdb, err := db.OpenBadger(path)
		if err != nil {
			return nil, nil, err
		}
		log.Infow("counter keys stored in badger", "path", path)
		return repository.NewKVBadger(bdb, badgerKeyPrefix), closeBadger(bdb, log), nil
	default:
		return nil, nil, fmt.Errorf("unknown storage.driver %q", driver)
	}
}

func closeBadger(bdb *badger.DB, log *logger.Logger) func() {
	return func() {
		if err := bdb.Close(); err != nil {
			log.Errorw("failed to close badger", "err", err)
		}
	}
}

// runHTTPServer runs the HTTP server in a separate goroutine.
func runHTTPServer(srv *server.Server, port string, handler *handlers.Handler, log *logger.Logger) {
	go func() {
		log.Infow("http server listening", "port", port)
		if err := srv.Run(port, handler.InitRoutes()); err != nil {
			log.Fatalw("error starting server", "err", err)
		}
	}()
}

// waitForShutdown listens for termination signals and performs graceful shutdown.
func waitForShutdown(cancel context.CancelFunc, srv *server.Server, log *logger.Logger) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Infow("shutting down server...")

	// allow in-flight requests to complete before the timer stops
	ctx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Errorw("server forced to shutdown", "err", err)
	}

	cancel()
}
