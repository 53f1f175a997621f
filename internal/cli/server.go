package cli

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/prash240303/Globetrotter/internal/app"
	"github.com/prash240303/Globetrotter/internal/config"
	"github.com/prash240303/Globetrotter/internal/infra/memory"
	pgstore "github.com/prash240303/Globetrotter/internal/infra/postgres"
	redisstore "github.com/prash240303/Globetrotter/internal/infra/redis"
	transport "github.com/prash240303/Globetrotter/internal/transport/http"
)

// NewServerCmd builds the CLI subcommand to start the server.
func NewServerCmd(configPath, port *string) *cobra.Command {
	return &cobra.Command{
		Use:   "server",
		Short: "Start the quiz server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context(), *configPath, *port)
		},
	}
}

// loadConfig tolerates a missing file: without one the server runs fully
// in-memory with the sample catalog, which is all the play command needs.
func loadConfig(path string) (config.Config, error) {
	cfg, err := config.Load(path)
	if err != nil && errors.Is(err, os.ErrNotExist) {
		return config.Config{}, nil
	}
	return cfg, err
}

func runServer(ctx context.Context, configPath, portFlag string) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}

	if cfg.Postgres.URL != "" {
		if err := runMigrationsWithConfig(ctx, cfg); err != nil {
			return err
		}
	}

	finalPort := portFlag
	if finalPort == "" {
		finalPort = cfg.Server.Port
	}
	if finalPort == "" {
		finalPort = "8080"
	}

	var redisClient *redis.Client
	if cfg.Redis.Addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
	}

	var pool *pgxpool.Pool
	if cfg.Postgres.URL != "" {
		pool, err = pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			return err
		}
		defer pool.Close()
	}

	var loader memory.LocationLoader = memory.NewStaticLocationLoader(sampleLocations())
	var players app.PlayerRepository = memory.NewPlayerRepository()
	if pool != nil {
		pgLoader := pgstore.NewLocationLoader(pool)
		if err := pgLoader.Seed(ctx, sampleLocations()); err != nil {
			return err
		}
		loader = pgLoader
		players = pgstore.NewPlayerRepository(pool)
	}

	catalogTTL := config.TTLDuration(cfg.Quiz.CatalogTTL, 10*time.Minute)
	questionTTL := config.TTLDuration(cfg.Quiz.QuestionTTL, 10*time.Minute)

	catalog := memory.NewLocationCatalog(loader, catalogTTL)
	var questions app.QuestionStore
	if redisClient != nil {
		questions = redisstore.NewQuestionStore(redisClient, questionTTL)
	} else {
		questions = memory.NewQuestionStore(questionTTL)
	}

	directory := app.NewDirectory(players)
	bank := app.NewQuestionBank(catalog, questions)

	handler := transport.NewHandler(directory, bank, log.With().Str("component", "rest").Logger())
	feed := transport.NewFeedHandler(directory, log.With().Str("component", "ws").Logger())

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
	handler.Register(mux)
	mux.HandleFunc("/ws/leaderboard", feed.ServeWS)

	server := &http.Server{
		Addr:         ":" + finalPort,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		log.Info().Str("port", finalPort).Msg("starting quiz server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error().Err(err).Msg("server exited")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-stop:
		log.Info().Msg("shutting down server")
	case <-ctx.Done():
		log.Info().Msg("context canceled, shutting down server")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
