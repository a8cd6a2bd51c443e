package integration

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	goredis "github.com/redis/go-redis/v9"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"github.com/uptrace/bun/migrate"

	"trivia-game-service/internal/app"
	"trivia-game-service/internal/domain"
	"trivia-game-service/internal/infra/postgres"
	pgmigrations "trivia-game-service/internal/infra/postgres/migrations"
	infraredis "trivia-game-service/internal/infra/redis"
)

func TestSubmitAnswerEndToEnd(t *testing.T) {
	ctx := context.Background()
	requireDocker(t)

	pgURL, pgCleanup := startPostgres(t, ctx)
	defer pgCleanup()
	redisURL, redisCleanup := startRedis(t, ctx)
	defer redisCleanup()

	migrateSchema(t, ctx, pgURL)

	pool, err := pgxpool.Connect(ctx, pgURL)
	if err != nil {
		t.Fatalf("connect pg: %v", err)
	}
	defer pool.Close()
	db := postgres.OpenBun(pgURL)
	defer db.Close()

	questions := postgres.NewQuestionStore(pool)
	if _, err := questions.Save(ctx, sampleQuestions()); err != nil {
		t.Fatalf("seed questions: %v", err)
	}
	users := postgres.NewUserStore(pool)
	if err := users.Register(ctx, domain.User{ID: "u1", Username: "Alice"}); err != nil {
		t.Fatalf("register user: %v", err)
	}

	redisClient, err := redisClientFromURL(redisURL)
	if err != nil {
		t.Fatalf("redis client: %v", err)
	}
	cache := infraredis.NewQuestionCache(redisClient, questions, 5*time.Minute)
	service := app.NewGameService(
		postgres.NewRoomStore(pool),
		questions,
		cache,
		postgres.NewLeaderboardStore(db),
		users,
		app.Options{Logger: slog.New(slog.NewTextHandler(io.Discard, nil))},
	)

	room, err := service.CreateRoom(ctx, app.CreateRoomRequest{RoomID: "room-1", Category: "mathematics", Difficulty: "easy", QuestionCount: 2})
	if err != nil {
		t.Fatalf("create room: %v", err)
	}
	if _, err := service.StartRoom(ctx, "room-1"); err != nil {
		t.Fatalf("start room: %v", err)
	}

	// Both players answer the first question at the same time; neither
	// result may be lost.
	var wg sync.WaitGroup
	for _, p := range []struct{ id, answer string }{{"u1", "4"}, {"u2", "5"}} {
		wg.Add(1)
		go func(id, answer string) {
			defer wg.Done()
			if _, err := service.SubmitAnswer(ctx, domain.Submission{
				RoomID: "room-1", PlayerID: id, QuestionIndex: 0, SelectedOption: answer,
			}); err != nil {
				t.Errorf("submit %s: %v", id, err)
			}
		}(p.id, p.answer)
	}
	wg.Wait()

	res, err := service.SubmitAnswer(ctx, domain.Submission{RoomID: "room-1", PlayerID: "u2", QuestionIndex: 1, SelectedOption: "9"})
	if err != nil {
		t.Fatalf("submit q1: %v", err)
	}
	if !res.Correct || res.PlayerResult.Points != 10 {
		t.Fatalf("expected bob to score on q1, got %+v", res)
	}

	snap, err := service.Leaderboard(ctx, "room-1")
	if err != nil {
		t.Fatalf("leaderboard: %v", err)
	}
	if snap.GameID != room.GameID || len(snap.Entries) != 2 {
		t.Fatalf("unexpected snapshot %+v", snap)
	}
	names := map[string]bool{}
	for _, e := range snap.Entries {
		if e.Points != 10 {
			t.Fatalf("expected both players on 10 points, got %+v", snap.Entries)
		}
		names[e.Username] = true
	}
	// unknown players are listed under their id
	if !names["Alice"] || !names["u2"] {
		t.Fatalf("unexpected usernames %+v", snap.Entries)
	}

	alice, err := users.Get(ctx, "u1")
	if err != nil {
		t.Fatalf("get user: %v", err)
	}
	if alice.Points != 10 || alice.GamesPlayed != 1 {
		t.Fatalf("unexpected user stats %+v", alice)
	}
	bob, err := users.Get(ctx, "u2")
	if err != nil {
		t.Fatalf("get created user: %v", err)
	}
	if bob.Points != 10 || bob.GamesPlayed != 1 {
		t.Fatalf("unexpected user stats %+v", bob)
	}

	if _, err := service.EndRoom(ctx, "room-1"); err != nil {
		t.Fatalf("end room: %v", err)
	}
	if _, err := service.SubmitAnswer(ctx, domain.Submission{RoomID: "room-1", PlayerID: "u1", QuestionIndex: 1, SelectedOption: "9"}); err != domain.ErrSessionEnded {
		t.Fatalf("expected session ended, got %v", err)
	}
}

func startPostgres(t *testing.T, ctx context.Context) (string, func()) {
	t.Helper()
	req := tc.ContainerRequest{
		Image:        "postgres:15-alpine",
		Env:          map[string]string{"POSTGRES_USER": "trivia", "POSTGRES_PASSWORD": "triviapass", "POSTGRES_DB": "triviadb"},
		ExposedPorts: []string{"5432/tcp"},
		WaitingFor:   wait.ForListeningPort("5432/tcp").WithStartupTimeout(60 * time.Second),
	}
	container, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		if strings.Contains(err.Error(), "Cannot connect to the Docker daemon") {
			t.Skipf("docker not available: %v", err)
		}
		t.Fatalf("start postgres: %v", err)
	}
	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("host: %v", err)
	}
	port, err := container.MappedPort(ctx, "5432/tcp")
	if err != nil {
		t.Fatalf("port: %v", err)
	}
	dsn := fmt.Sprintf("postgres://trivia:triviapass@%s:%s/triviadb?sslmode=disable", host, port.Port())
	return dsn, func() {
		_ = container.Terminate(ctx)
	}
}

func startRedis(t *testing.T, ctx context.Context) (string, func()) {
	t.Helper()
	req := tc.ContainerRequest{
		Image:        "redis:7-alpine",
		ExposedPorts: []string{"6379/tcp"},
		WaitingFor:   wait.ForListeningPort("6379/tcp").WithStartupTimeout(30 * time.Second),
	}
	container, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		if strings.Contains(err.Error(), "Cannot connect to the Docker daemon") {
			t.Skipf("docker not available: %v", err)
		}
		t.Fatalf("start redis: %v", err)
	}
	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("redis host: %v", err)
	}
	port, err := container.MappedPort(ctx, "6379/tcp")
	if err != nil {
		t.Fatalf("redis port: %v", err)
	}
	url := fmt.Sprintf("redis://%s:%s", host, port.Port())
	return url, func() {
		_ = container.Terminate(ctx)
	}
}

func migrateSchema(t *testing.T, ctx context.Context, dsn string) {
	t.Helper()
	db := postgres.OpenBun(dsn)
	defer db.Close()

	migrator := migrate.NewMigrator(db, pgmigrations.Migrations)
	if err := migrator.Init(ctx); err != nil {
		t.Fatalf("migrator init: %v", err)
	}
	if _, err := migrator.Migrate(ctx); err != nil {
		t.Fatalf("migrate: %v", err)
	}
}

func sampleQuestions() []domain.Question {
	return []domain.Question{
		{ID: "q1", Category: "Science: Mathematics", Difficulty: "easy", Text: "What is 2 + 2?", CorrectAnswer: "4", IncorrectAnswers: []string{"3", "5", "6"}},
		{ID: "q2", Category: "Science: Mathematics", Difficulty: "easy", Text: "What is 3 * 3?", CorrectAnswer: "9", IncorrectAnswers: []string{"6", "7", "12"}},
		{ID: "q3", Category: "Entertainment: Film", Difficulty: "hard", Text: "Who directed Stalker?", CorrectAnswer: "Andrei Tarkovsky", IncorrectAnswers: []string{"Elem Klimov", "Sergei Bondarchuk", "Larisa Shepitko"}},
	}
}

func redisClientFromURL(url string) (*goredis.Client, error) {
	opts, err := goredis.ParseURL(url)
	if err != nil {
		return nil, err
	}
	return goredis.NewClient(&goredis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	}), nil
}

func requireDocker(t *testing.T) {
	t.Helper()
	if _, err := tc.NewDockerProvider(); err != nil {
		t.Skipf("docker not available: %v", err)
	}
}
