package main

import (
	"context"
	"database/sql"
	"os"
	"os/signal"
	"syscall"
	"time"

	"history_stats/internal/handlers"
	"history_stats/internal/logger"
	"history_stats/internal/render"
	"history_stats/internal/repository"
	"history_stats/internal/server"
	"history_stats/internal/service"

	"github.com/spf13/viper"
)

const (
	defaultSimTick      = 1 * time.Second
	defaultPollInterval = 30 * time.Second
)

func main() {
	// load config.yml first so the logger level can come from it
	if err := loadConfig(); err != nil {
		logger.Get(logger.InfoLevel).Fatalw("error reading config", "err", err)
	}

	log := logger.Get(logLevel())

	// open DB
	db, err := openDB(log)
	if err != nil {
		log.Fatalw("failed to init sqlite", "err", err)
	}
	defer func() {
		if cerr := db.Close(); cerr != nil {
			log.Fatalw("failed to close sqlite", "err", cerr)
		}
	}()

	// wire dependencies
	repos := repository.NewRepository(db)
	services, err := service.NewService(repos, render.NewEvaluator(), log, buildServiceConfig())
	if err != nil {
		log.Fatalw("invalid sensor configuration", "err", err)
	}
	apiHandler := handlers.NewHandler(services, log)

	// context for background goroutines
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// start simulator and the sensor update loop
	go services.Simulator.Run(ctx, defaultSimTick)
	go services.HistoryStats.Run(ctx, pollInterval())

	// start HTTP server
	srv := &server.Server{}
	runHTTPServer(srv, viper.GetString("port"), apiHandler, log)

	// graceful shutdown
	waitForShutdown(cancel, srv, log)
}

func loadConfig() error {
	viper.AddConfigPath("configs") // configs/config.yml
	viper.SetConfigName("config")
	return viper.ReadInConfig()
}

func logLevel() string {
	if lvl := viper.GetString("log.level"); lvl != "" {
		return lvl
	}
	return logger.InfoLevel
}

func pollInterval() time.Duration {
	if d := viper.GetDuration("sensor.poll_interval"); d > 0 {
		return d
	}
	return defaultPollInterval
}

// buildServiceConfig maps viper keys onto the service configuration.
func buildServiceConfig() service.Config {
	return service.Config{
		Sensor: service.SensorConfig{
			EntityID:     viper.GetString("sensor.entity_id"),
			TargetState:  viper.GetString("sensor.state"),
			Start:        viper.GetString("sensor.start"),
			End:          viper.GetString("sensor.end"),
			Duration:     viper.GetString("sensor.duration"),
			Name:         viper.GetString("sensor.name"),
			PollInterval: viper.GetDuration("sensor.poll_interval"),
		},
		Auth: service.AuthConfig{
			SigningKey: viper.GetString("auth.signing_key"),
			TokenTTL:   viper.GetDuration("auth.token_ttl"),
		},
		Simulator: service.SimulatorConfig{
			EntityID: viper.GetString("simulator.entity_id"),
			OnState:  viper.GetString("simulator.on_state"),
			OffState: viper.GetString("simulator.off_state"),
			MinDwell: viper.GetDuration("simulator.min_dwell"),
			MaxDwell: viper.GetDuration("simulator.max_dwell"),
		},
	}
}

// openDB initializes the SQLite database using configuration.
func openDB(log *logger.Logger) (*sql.DB, error) {
	dbPath := viper.GetString("db.path")
	if dbPath == "" {
		log.Infow("db.path not set in config; using default file", "default", "app.db")
		dbPath = "app.db"
	}
	return repository.InitDB(dbPath)
}

// runHTTPServer runs the HTTP server in a separate goroutine.
func runHTTPServer(srv *server.Server, port string, handler *handlers.Handler, log *logger.Logger) {
	go func() {
		if port == "" {
			port = "8080"
		}
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

	// stop background goroutines
	cancel()

	// allow in-flight requests to complete
	ctx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalw("server forced to shutdown", "err", err)
	}
}
