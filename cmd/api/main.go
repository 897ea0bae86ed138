package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/Prabashv2/movie-watchlist-app/internal/auth"
	"github.com/Prabashv2/movie-watchlist-app/internal/data"
	"github.com/Prabashv2/movie-watchlist-app/internal/jsonlog"
	"github.com/Prabashv2/movie-watchlist-app/internal/service"
	"github.com/Prabashv2/movie-watchlist-app/migrations"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus"
)

// Application version number
const version = "1.0.0"

// config struct hold all the configuration settings for our application.
type config struct {

	// the network port that we want the server to listen on
	port int

	// current operating environment for the application (development, staging, production)
	env string

	// minimum severity written by the logger
	logLevel string

	// db struct field hold the configuration settings for our database connection pool.
	db struct {
		dsn          string
		maxOpenConns int
		maxIdleConns int
		maxIdleTime  string
		migrate      bool
	}

	// jwt struct hold the session token settings
	jwt struct {
		secret string
		ttl    time.Duration
	}

	cors struct {
		trustedOrigins []string
	}

	displayVersion bool
}

// tokenVerifier resolves a bearer token to the user id it was issued for.
type tokenVerifier interface {
	Verify(token string) (int64, error)
}

// application struct hold the dependencies for our HTTP handlers, helpers, and middleware.
type application struct {
	config     config
	logger     *jsonlog.Logger
	auth       *service.AuthService
	movies     *service.MovieService
	tokens     tokenVerifier
	registry   *prometheus.Registry
	collectors *metricCollectors
}

func main() {
	// A missing .env file is fine; the environment and flags still apply.
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "loading .env: %v\n", err)
		os.Exit(1)
	}

	cfg, err := parseConfig(os.Args[1:], os.Getenv, os.Stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	if cfg.displayVersion {
		fmt.Printf("Version:\t%s\n", version)
		os.Exit(0)
	}

	level, err := jsonlog.ParseLevel(cfg.logLevel)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	// Initialize a new jsonlog.Logger which writes any messages *at or above* the
	// configured severity level to the standard out stream
	logger := jsonlog.NewLogger(os.Stdout, level)

	if err := cfg.validate(); err != nil {
		logger.PrintFatal(err, nil)
	}

	registry := prometheus.NewRegistry()

	var (
		models data.Models
		db     *sql.DB
	)
	if cfg.db.dsn == "" {
		logger.PrintWarn("no database DSN configured, using in-memory store", map[string]string{
			"env": cfg.env,
		})
		models = data.NewMemoryModels()
	} else {
		db, err = openDB(cfg)
		if err != nil {
			logger.PrintFatal(err, nil)
		}
		defer db.Close()

		logger.PrintInfo("database connection pool established", nil)

		if cfg.db.migrate {
			ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
			err = migrations.Up(ctx, db, logger)
			cancel()
			if err != nil {
				logger.PrintFatal(err, nil)
			}
		}

		models = data.NewModels(db)
	}

	tokens := auth.NewTokenManager([]byte(cfg.jwt.secret), cfg.jwt.ttl)

	app := &application{
		config:     cfg,
		logger:     logger,
		auth:       service.NewAuthService(models.Users, tokens),
		movies:     service.NewMovieService(models.Movies),
		tokens:     tokens,
		registry:   registry,
		collectors: newMetricCollectors(registry, db),
	}

	err = app.serve()
	if err != nil {
		logger.PrintFatal(err, nil)
	}
}

// parseConfig reads the command-line flags in args. Flag defaults come from
// getenv so that the environment (and a loaded .env file) can configure the
// server without flags.
func parseConfig(args []string, getenv func(string) string, output io.Writer) (config, error) {
	var cfg config

	flags := flag.NewFlagSet("api", flag.ContinueOnError)
	flags.SetOutput(output)

	port := 5000
	if v := getenv("PORT"); v != "" {
		p, err := strconv.Atoi(v)
		if err != nil {
			return cfg, fmt.Errorf("invalid PORT %q", v)
		}
		port = p
	}

	flags.IntVar(&cfg.port, "port", port, "API server port")
	flags.StringVar(&cfg.env, "env", envOr(getenv, "WATCHLIST_ENV", "development"), "Environment (development|staging|production)")
	flags.StringVar(&cfg.logLevel, "log-level", envOr(getenv, "WATCHLIST_LOG_LEVEL", "info"), "Minimum log level (debug|info|warn|error|fatal|off)")

	flags.StringVar(&cfg.db.dsn, "db-dsn", getenv("WATCHLIST_DB_DSN"), "PostgreSQL DSN")
	flags.IntVar(&cfg.db.maxOpenConns, "db-max-open-conns", 25, "PostgreSQL max open connections")
	flags.IntVar(&cfg.db.maxIdleConns, "db-max-idle-conns", 25, "PostgreSQL max idle connections")
	flags.StringVar(&cfg.db.maxIdleTime, "db-max-idle-time", "15m", "PostgreSQL max connection idle time")
	flags.BoolVar(&cfg.db.migrate, "db-migrate", true, "Apply database migrations on startup")

	flags.StringVar(&cfg.jwt.secret, "jwt-secret", getenv("JWT_SECRET"), "Secret used to sign session tokens")
	flags.DurationVar(&cfg.jwt.ttl, "jwt-ttl", auth.DefaultTTL, "Session token lifetime")

	cfg.cors.trustedOrigins = strings.Fields(envOr(getenv, "WATCHLIST_CORS_TRUSTED_ORIGINS", "*"))
	flags.Func("cors-trusted-origins", "Trusted CORS origins (space separated)", func(val string) error {
		cfg.cors.trustedOrigins = strings.Fields(val)
		return nil
	})

	flags.BoolVar(&cfg.displayVersion, "version", false, "Display version and exit")

	if err := flags.Parse(args); err != nil {
		return cfg, err
	}

	return cfg, nil
}

// validate reports settings the server cannot start without.
func (cfg config) validate() error {
	if cfg.jwt.secret == "" {
		return errors.New("a JWT secret must be provided with -jwt-secret or JWT_SECRET")
	}
	if cfg.jwt.ttl <= 0 {
		return errors.New("-jwt-ttl must be positive")
	}
	if cfg.db.dsn == "" && cfg.env != "development" {
		return fmt.Errorf("a database DSN must be provided in the %s environment", cfg.env)
	}
	return nil
}

func envOr(getenv func(string) string, key, fallback string) string {
	if v := getenv(key); v != "" {
		return v
	}
	return fallback
}

// openDB returns a sql.DB connection pool
func openDB(cfg config) (*sql.DB, error) {
	// create an empty connection pool
	db, err := sql.Open("postgres", cfg.db.dsn)
	if err != nil {
		return nil, err
	}

	// Passing a value less than or equal to 0 will mean there is no limit.
	db.SetMaxOpenConns(cfg.db.maxOpenConns)
	db.SetMaxIdleConns(cfg.db.maxIdleConns)

	duration, err := time.ParseDuration(cfg.db.maxIdleTime)
	if err != nil {
		db.Close()
		return nil, err
	}
	db.SetConnMaxIdleTime(duration)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// establish a new connection to the database. If the connection couldn't be
	// established successfully within the 5 second deadline, then this will return an error
	err = db.PingContext(ctx)
	if err != nil {
		db.Close()
		return nil, err
	}

	return db, nil
}
