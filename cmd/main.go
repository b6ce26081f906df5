package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/viper"

	"homewatch/internal/fetchcache"
	"homewatch/internal/gridstatus"
	"homewatch/internal/handlers"
	"homewatch/internal/logger"
	"homewatch/internal/repository"
	"homewatch/internal/server"
	"homewatch/internal/service"
	"homewatch/internal/upstream"
)

const defaultRecordTick = time.Minute

// @title           homewatch API
// @version         1.0
// @description     Home energy and climate dashboard backend.
// @BasePath        /
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name Authorization
func main() {
	if err := loadConfig(); err != nil {
		logger.Get("info").Fatalw("error reading config", "err", err)
	}
	log := logger.Get(viper.GetString("log.level"))

	db, err := openDB(log)
	if err != nil {
		log.Fatalw("failed to init sqlite", "err", err)
	}
	defer func() {
		if cerr := db.Close(); cerr != nil {
			log.Errorw("failed to close sqlite", "err", cerr)
		}
	}()

	// Manual grid periods are operator input; refuse to start on a bad file.
	periods, err := gridstatus.LoadPeriods(viper.GetString("grid.periods_file"))
	if err != nil {
		log.Fatalw("invalid grid periods file", "err", err)
	}

	repos := repository.NewRepository(db)
	cache := fetchcache.New(fetchcache.DefaultTimeout, log)
	httpClient := upstream.NewHTTPClient()

	services := service.NewService(service.Deps{
		Repos:       repos,
		Cache:       cache,
		Resolver:    gridstatus.NewResolver(log),
		GridPeriods: periods,
		Victron: upstream.NewVictronClient(upstream.VictronConfig{
			BaseURL:        viper.GetString("victron.base_url"),
			Username:       viper.GetString("victron.username"),
			Password:       viper.GetString("victron.password"),
			InstallationID: viper.GetString("victron.installation_id"),
		}, httpClient),
		Shelly: upstream.NewShellyClient(upstream.ShellyConfig{
			BaseURL: viper.GetString("shelly.base_url"),
			AuthKey: viper.GetString("shelly.auth_key"),
			Devices: viper.GetStringMapString("shelly.devices"),
		}, httpClient),
		Stove: upstream.NewStoveClient(viper.GetString("stove.base_url"), httpClient),
		Weather: upstream.NewWeatherClient(upstream.WeatherConfig{
			BaseURL: viper.GetString("weather.base_url"),
			APIKey:  viper.GetString("weather.api_key"),
			Lat:     viper.GetFloat64("weather.lat"),
			Lon:     viper.GetFloat64("weather.lon"),
			Days:    viper.GetInt("weather.days"),
		}, httpClient),
		Laundry: upstream.NewLaundryClient(upstream.LaundryConfig{
			BaseURL: viper.GetString("laundry.base_url"),
			APIKey:  viper.GetString("laundry.api_key"),
			Model:   viper.GetString("laundry.model"),
		}, httpClient),
		TTLs:       service.DefaultTTLs(),
		JWTKey:     viper.GetString("auth.signing_key"),
		OutdoorRef: viper.GetString("history.outdoor_sensor"),
		Log:        log,
	})
	apiHandler := handlers.NewHandler(services, log)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// background history sampling
	go services.Recorder.Run(ctx, recordTick())

	srv := &server.Server{}
	runHTTPServer(srv, viper.GetString("port"), apiHandler, log)

	waitForShutdown(cancel, srv, log)
}

func loadConfig() error {
	viper.AddConfigPath("configs") // configs/config.yml
	viper.SetConfigName("config")

	// Secrets come from the environment, e.g. HOMEWATCH_VICTRON_PASSWORD
	// overrides victron.password.
	viper.SetEnvPrefix("homewatch")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	return viper.ReadInConfig()
}

func openDB(log *logger.Logger) (*sql.DB, error) {
	dbPath := viper.GetString("db.path")
	if dbPath == "" {
		log.Infow("db.path not set in config; using default file", "default", "homewatch.db")
		dbPath = "homewatch.db"
	}
	return repository.InitDB(dbPath)
}

func recordTick() time.Duration {
	if d := viper.GetDuration("history.tick"); d > 0 {
		return d
	}
	return defaultRecordTick
}

// runHTTPServer runs the HTTP server in a separate goroutine.
func runHTTPServer(srv *server.Server, port string, handler *handlers.Handler, log *logger.Logger) {
	go func() {
		if port == "" {
			port = "8080"
		}
		if err := srv.Run(port, handler.InitRoutes()); err != nil && !errors.Is(err, http.ErrServerClosed) {
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

	// stop the recorder and any in-flight upstream fetches
	cancel()

	ctx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalw("server forced to shutdown", "err", err)
	}
}
