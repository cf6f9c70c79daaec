package subscriber

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/planbridge/planbridge/pkg/pg"
	"github.com/planbridge/planbridge/pkg/plan"
)

// PGStore is the Postgres-backed Store. Queries are built once at
// construction from the configured table and column identifiers.
type PGStore struct {
	pool      *pgxpool.Pool
	getSQL    string
	upsertSQL string
	updateSQL string
}

// NewPGStore builds a store bound to the configured schema.
func NewPGStore(pool *pgxpool.Pool, cfg Config) *PGStore {
	table := pgx.Identifier{cfg.Table}.Sanitize()
	email := pgx.Identifier{cfg.EmailColumn}.Sanitize()
	planCol := pgx.Identifier{cfg.PlanColumn}.Sanitize()
	limitCol := pgx.Identifier{cfg.LimitColumn}.Sanitize()

	return &PGStore{
		pool: pool,
		getSQL: fmt.Sprintf(
			"SELECT %s, %s FROM %s WHERE %s = $1",
			planCol, limitCol, table, email,
		),
		upsertSQL: fmt.Sprintf(
			"INSERT INTO %s (%s, %s, %s) VALUES ($1, $2, $3) ON CONFLICT (%s) DO UPDATE SET %s = EXCLUDED.%s, %s = EXCLUDED.%s",
			table, email, planCol, limitCol, email, planCol, planCol, limitCol, limitCol,
		),
		updateSQL: fmt.Sprintf(
			"UPDATE %s SET %s = $2, %s = $3 WHERE %s = $1",
			table, planCol, limitCol, email,
		),
	}
}

func (s *PGStore) Get(ctx context.Context, email string) (*Record, error) {
	rec := Record{Email: NormalizeEmail(email)}

	var planName string
	err := s.pool.QueryRow(ctx, s.getSQL, rec.Email).Scan(&planName, &rec.UsageLimit)
	if err != nil {
		if pg.IsNotFoundError(err) {
			return nil, ErrSubscriberNotFound
		}
		return nil, errors.Join(ErrStoreWrite, fmt.Errorf("get subscriber: %w", err))
	}

	rec.Plan = plan.Plan(planName)
	return &rec, nil
}

func (s *PGStore) Upsert(ctx context.Context, rec Record) error {
	if err := validate(&rec); err != nil {
		return err
	}

	_, err := s.pool.Exec(ctx, s.upsertSQL, rec.Email, string(rec.Plan), rec.UsageLimit)
	if pg.IsDuplicateKeyError(err) {
		// Concurrent first-time inserts for the same email can still trip the
		// unique constraint before the conflict arm applies; the row exists
		// now, so the retry takes the update arm.
		_, err = s.pool.Exec(ctx, s.upsertSQL, rec.Email, string(rec.Plan), rec.UsageLimit)
	}
	if err != nil {
		return errors.Join(ErrStoreWrite, fmt.Errorf("upsert subscriber: %w", err))
	}
	return nil
}

func (s *PGStore) Update(ctx context.Context, rec Record) error {
	if err := validate(&rec); err != nil {
		return err
	}

	tag, err := s.pool.Exec(ctx, s.updateSQL, rec.Email, string(rec.Plan), rec.UsageLimit)
	if err != nil {
		return errors.Join(ErrStoreWrite, fmt.Errorf("update subscriber: %w", err))
	}
	if tag.RowsAffected() == 0 {
		return ErrSubscriberNotFound
	}
	return nil
}

// validate normalizes the email in place and rejects incomplete records.
func validate(rec *Record) error {
	rec.Email = NormalizeEmail(rec.Email)
	if rec.Email == "" {
		return errors.Join(ErrInvalidRecord, errors.New("email is required"))
	}
	if !rec.Plan.Valid() {
		return errors.Join(ErrInvalidRecord, fmt.Errorf("unknown plan %q", rec.Plan))
	}
	if rec.UsageLimit == "" {
		return errors.Join(ErrInvalidRecord, errors.New("usage limit is required"))
	}
	return nil
}
