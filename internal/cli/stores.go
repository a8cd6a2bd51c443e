package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"

	"trivia-game-service/internal/app"
	"trivia-game-service/internal/config"
	"trivia-game-service/internal/domain"
	"trivia-game-service/internal/infra/memory"
	"trivia-game-service/internal/infra/postgres"
	infraredis "trivia-game-service/internal/infra/redis"
	"trivia-game-service/internal/lib/logger"
)

// stores bundles the adapters selected by storage.backend.
type stores struct {
	questions    app.QuestionStore
	cache        app.QuestionCache
	rooms        app.RoomStore
	leaderboards app.LeaderboardStore
	users        app.UserStore
	close        func()
}

func newLogger(cfg config.Config) *slog.Logger {
	return logger.New(os.Stdout, cfg.Logging.Level, cfg.Logging.Format)
}

// openStores wires the backend. Questions live in memory unless Postgres is
// selected; a configured Redis always backs the question cache.
func openStores(ctx context.Context, cfg config.Config, log *slog.Logger) (stores, error) {
	var (
		s       stores
		closers []func()
	)
	s.close = func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	var redisClient *redis.Client
	if cfg.Redis.Addr != "" && cfg.Storage.Backend != config.BackendMemory {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		closers = append(closers, func() { _ = redisClient.Close() })
		if err := redisClient.Ping(ctx).Err(); err != nil {
			s.close()
			return stores{}, fmt.Errorf("ping redis: %w", err)
		}
	}

	switch cfg.Storage.Backend {
	case config.BackendPostgres:
		if err := runMigrations(ctx, cfg, log); err != nil {
			s.close()
			return stores{}, err
		}
		pool, err := pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			s.close()
			return stores{}, fmt.Errorf("connect postgres: %w", err)
		}
		closers = append(closers, pool.Close)
		db := postgres.OpenBun(cfg.Postgres.URL)
		closers = append(closers, func() { _ = db.Close() })

		s.questions = postgres.NewQuestionStore(pool)
		s.rooms = postgres.NewRoomStore(pool)
		s.users = postgres.NewUserStore(pool)
		s.leaderboards = postgres.NewLeaderboardStore(db)
	case config.BackendRedis:
		s.questions = memory.NewQuestionStore(sampleQuestions())
		s.rooms = infraredis.NewRoomStore(redisClient)
		s.leaderboards = infraredis.NewLeaderboardStore(redisClient)
		s.users = memory.NewUserStore()
	default:
		s.questions = memory.NewQuestionStore(sampleQuestions())
		s.rooms = memory.NewRoomStore()
		s.leaderboards = memory.NewLeaderboardStore()
		s.users = memory.NewUserStore()
	}

	cacheTTL := config.TTLDuration(cfg.Questions.CacheTTL, 10*time.Minute)
	if redisClient != nil {
		s.cache = infraredis.NewQuestionCache(redisClient, s.questions, cacheTTL)
	} else {
		s.cache = memory.NewQuestionCache(s.questions, cacheTTL)
	}
	log.Info("storage ready", "backend", cfg.Storage.Backend, "redisCache", redisClient != nil)
	return s, nil
}

// sampleQuestions seeds the in-memory pool so a fresh server can host games;
// use `questions import` with the postgres backend for a real pool.
func sampleQuestions() []domain.Question {
	return []domain.Question{
		{ID: "sample-1", Category: "Science: Mathematics", Difficulty: "easy", Text: "What is 2 + 2?", CorrectAnswer: "4", IncorrectAnswers: []string{"3", "5", "22"}},
		{ID: "sample-2", Category: "Science: Mathematics", Difficulty: "easy", Text: "What is 7 x 6?", CorrectAnswer: "42", IncorrectAnswers: []string{"36", "48", "49"}},
		{ID: "sample-3", Category: "Science: Mathematics", Difficulty: "easy", Text: "How many sides does a hexagon have?", CorrectAnswer: "6", IncorrectAnswers: []string{"5", "7", "8"}},
		{ID: "sample-4", Category: "Entertainment: Film", Difficulty: "medium", Text: "Who directed Jaws (1975)?", CorrectAnswer: "Steven Spielberg", IncorrectAnswers: []string{"George Lucas", "Martin Scorsese", "Francis Ford Coppola"}},
		{ID: "sample-5", Category: "Entertainment: Film", Difficulty: "medium", Text: "Which film features the line \"Here's looking at you, kid\"?", CorrectAnswer: "Casablanca", IncorrectAnswers: []string{"Gone with the Wind", "Citizen Kane", "Vertigo"}},
		{ID: "sample-6", Category: "General Knowledge", Difficulty: "easy", Text: "What colour do you get by mixing blue and yellow?", CorrectAnswer: "Green", IncorrectAnswers: []string{"Purple", "Orange", "Brown"}},
	}
}
