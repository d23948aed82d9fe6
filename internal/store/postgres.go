// Package store implements the external record store: insert one
// registration, read them all newest first, and subscribe to changes.
package store

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/JonMunkholm/TrainingReg/internal/core"
)

// ChangeChannel is the Postgres NOTIFY channel fired by the registrations trigger.
const ChangeChannel = "registrations_changes"

// DBTX is the interface for database operations.
// Satisfied by both *pgxpool.Pool and pgx.Tx.
type DBTX interface {
	Exec(context.Context, string, ...interface{}) (pgconn.CommandTag, error)
	Query(context.Context, string, ...interface{}) (pgx.Rows, error)
	QueryRow(context.Context, string, ...interface{}) pgx.Row
}

const registrationColumns = `id, full_name, corporate_email, department, automation_familiarity,
	participation_day, needs_accessibility, accessibility_description, observations, created_at`

const insertRegistration = `
INSERT INTO registrations (
	full_name, corporate_email, department, automation_familiarity,
	participation_day, needs_accessibility, accessibility_description, observations
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
RETURNING ` + registrationColumns

const listRegistrations = `
SELECT ` + registrationColumns + `
FROM registrations
ORDER BY created_at DESC`

// Postgres stores registrations in PostgreSQL.
type Postgres struct {
	pool *pgxpool.Pool
	db   DBTX
}

// NewPostgres creates a store on pool.
func NewPostgres(pool *pgxpool.Pool) *Postgres {
	return &Postgres{pool: pool, db: pool}
}

// Insert writes one registration. The database assigns id and created_at.
func (p *Postgres) Insert(ctx context.Context, r core.NewRegistration) (core.Registration, error) {
	row := p.db.QueryRow(ctx, insertRegistration,
		r.FullName,
		r.CorporateEmail,
		r.Department,
		r.AutomationFamiliarity,
		r.ParticipationDay,
		r.NeedsAccessibility,
		core.ToPgText(r.AccessibilityDescription),
		core.ToPgText(r.Observations),
	)
	rec, err := scanRegistration(row)
	if err != nil {
		return core.Registration{}, fmt.Errorf("insert registration: %w", err)
	}
	return rec, nil
}

// List returns all registrations ordered by created_at descending.
func (p *Postgres) List(ctx context.Context) ([]core.Registration, error) {
	rows, err := p.db.Query(ctx, listRegistrations)
	if err != nil {
		return nil, fmt.Errorf("list registrations: %w", err)
	}
	defer rows.Close()

	out := []core.Registration{}
	for rows.Next() {
		rec, err := scanRegistration(rows)
		if err != nil {
			return nil, fmt.Errorf("scan registration: %w", err)
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list registrations: %w", err)
	}
	return out, nil
}

// Ping checks that the database is reachable.
func (p *Postgres) Ping(ctx context.Context) error {
	return p.pool.Ping(ctx)
}

func scanRegistration(row pgx.Row) (core.Registration, error) {
	var (
		id          pgtype.UUID
		rec         core.Registration
		description pgtype.Text
		obs         pgtype.Text
		createdAt   pgtype.Timestamptz
	)
	err := row.Scan(
		&id,
		&rec.FullName,
		&rec.CorporateEmail,
		&rec.Department,
		&rec.AutomationFamiliarity,
		&rec.ParticipationDay,
		&rec.NeedsAccessibility,
		&description,
		&obs,
		&createdAt,
	)
	if err != nil {
		return core.Registration{}, err
	}
	if id.Valid {
		rec.ID = uuid.UUID(id.Bytes).String()
	}
	rec.AccessibilityDescription = core.FromPgText(description)
	rec.Observations = core.FromPgText(obs)
	if createdAt.Valid {
		rec.CreatedAt = createdAt.Time
	}
	return rec, nil
}
