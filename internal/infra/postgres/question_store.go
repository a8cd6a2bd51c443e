package postgres

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"trivia-game-service/internal/domain"
)

const questionColumns = `id, category, difficulty, question, correct_answer, incorrect_answers, timer`

// QuestionStore reads and writes the question pool in Postgres. Pool order
// is insertion order (the seq column).
type QuestionStore struct {
	pool *pgxpool.Pool
}

func NewQuestionStore(pool *pgxpool.Pool) *QuestionStore {
	return &QuestionStore{pool: pool}
}

func (s *QuestionStore) Get(ctx context.Context, id string) (domain.Question, error) {
	row := s.pool.QueryRow(ctx, `SELECT `+questionColumns+` FROM questions WHERE id=$1`, id)
	q, err := scanQuestion(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Question{}, domain.ErrQuestionNotFound
	}
	if err != nil {
		return domain.Question{}, domain.PersistenceError("load question", err)
	}
	return q, nil
}

func (s *QuestionStore) List(ctx context.Context) ([]domain.Question, error) {
	return s.query(ctx, "list questions", `SELECT `+questionColumns+` FROM questions ORDER BY seq`)
}

// Filter matches category as a case-insensitive substring and difficulty
// case-insensitively, skipping questions missing either.
func (s *QuestionStore) Filter(ctx context.Context, category, difficulty string) ([]domain.Question, error) {
	return s.query(ctx, "filter questions", `
		SELECT `+questionColumns+` FROM questions
		WHERE category <> '' AND difficulty <> ''
		  AND strpos(lower(category), lower(btrim($1))) > 0
		  AND lower(difficulty) = lower(btrim($2))
		ORDER BY seq`, category, difficulty)
}

// Save upserts questions by id, assigning ids to those without one.
func (s *QuestionStore) Save(ctx context.Context, questions []domain.Question) ([]domain.Question, error) {
	saved := make([]domain.Question, 0, len(questions))
	batch := &pgx.Batch{}
	for _, q := range questions {
		if q.ID == "" {
			q.ID = uuid.NewString()
		}
		if q.Timer == 0 {
			q.Timer = domain.DefaultQuestionTimer
		}
		incorrect := q.IncorrectAnswers
		if incorrect == nil {
			incorrect = []string{}
		}
		raw, err := json.Marshal(incorrect)
		if err != nil {
			return nil, domain.PersistenceError("encode question", err)
		}
		batch.Queue(`
			INSERT INTO questions (`+questionColumns+`)
			VALUES ($1, $2, $3, $4, $5, $6::jsonb, $7)
			ON CONFLICT (id) DO UPDATE SET
				category = EXCLUDED.category,
				difficulty = EXCLUDED.difficulty,
				question = EXCLUDED.question,
				correct_answer = EXCLUDED.correct_answer,
				incorrect_answers = EXCLUDED.incorrect_answers,
				timer = EXCLUDED.timer`,
			q.ID, q.Category, q.Difficulty, q.Text, q.CorrectAnswer, string(raw), q.Timer)
		saved = append(saved, q)
	}
	if batch.Len() == 0 {
		return saved, nil
	}

	br := s.pool.SendBatch(ctx, batch)
	defer br.Close()
	for range saved {
		if _, err := br.Exec(); err != nil {
			return nil, domain.PersistenceError("save question", err)
		}
	}
	return saved, nil
}

func (s *QuestionStore) Categories(ctx context.Context) ([]string, error) {
	return s.strings(ctx, "list categories",
		`SELECT DISTINCT category FROM questions WHERE category <> '' ORDER BY category`)
}

func (s *QuestionStore) Difficulties(ctx context.Context, category string) ([]string, error) {
	return s.strings(ctx, "list difficulties",
		`SELECT DISTINCT difficulty FROM questions WHERE category = $1 AND difficulty <> '' ORDER BY difficulty`, category)
}

func (s *QuestionStore) Count(ctx context.Context, category, difficulty string) (int, error) {
	var n int
	err := s.pool.QueryRow(ctx,
		`SELECT count(*) FROM questions WHERE category = $1 AND difficulty = $2`, category, difficulty).Scan(&n)
	if err != nil {
		return 0, domain.PersistenceError("count questions", err)
	}
	return n, nil
}

func (s *QuestionStore) query(ctx context.Context, op, sql string, args ...interface{}) ([]domain.Question, error) {
	rows, err := s.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, domain.PersistenceError(op, err)
	}
	defer rows.Close()

	out := make([]domain.Question, 0)
	for rows.Next() {
		q, err := scanQuestion(rows)
		if err != nil {
			return nil, domain.PersistenceError(op, err)
		}
		out = append(out, q)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.PersistenceError(op, err)
	}
	return out, nil
}

func (s *QuestionStore) strings(ctx context.Context, op, sql string, args ...interface{}) ([]string, error) {
	rows, err := s.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, domain.PersistenceError(op, err)
	}
	defer rows.Close()

	out := make([]string, 0)
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, domain.PersistenceError(op, err)
		}
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.PersistenceError(op, err)
	}
	return out, nil
}

func scanQuestion(row pgx.Row) (domain.Question, error) {
	var (
		q   domain.Question
		raw []byte
	)
	if err := row.Scan(&q.ID, &q.Category, &q.Difficulty, &q.Text, &q.CorrectAnswer, &raw, &q.Timer); err != nil {
		return domain.Question{}, err
	}
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &q.IncorrectAnswers); err != nil {
			return domain.Question{}, err
		}
	}
	return q, nil
}
