package team

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrNotFound is returned when no team matches.
var ErrNotFound = errors.New("team not found")

// Repository persists teams.
type Repository interface {
	Create(ctx context.Context, team Team) error
	Get(ctx context.Context, id string) (Team, error)
	List(ctx context.Context) ([]Team, error)
	FirstActive(ctx context.Context) (Team, error)
}

// PostgresRepository stores teams in PostgreSQL.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository builds a repository backed by PostgreSQL.
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create inserts a team record.
func (r *PostgresRepository) Create(ctx context.Context, team Team) error {
	teamID, err := uuid.Parse(team.ID)
	if err != nil {
		return err
	}
	_, err = r.db.Exec(ctx, `INSERT INTO teams (id, name, description, is_active, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6)`, teamID, team.Name, team.Description, team.IsActive, team.CreatedAt.UTC(), team.UpdatedAt.UTC())
	return err
}

// Get fetches a team by identifier.
func (r *PostgresRepository) Get(ctx context.Context, id string) (Team, error) {
	teamID, err := uuid.Parse(id)
	if err != nil {
		return Team{}, ErrNotFound
	}
	return scanTeam(r.db.QueryRow(ctx, `SELECT id, name, description, is_active, created_at, updated_at
        FROM teams WHERE id = $1`, teamID))
}

// List returns all teams ordered by creation.
func (r *PostgresRepository) List(ctx context.Context) ([]Team, error) {
	rows, err := r.db.Query(ctx, `SELECT id, name, description, is_active, created_at, updated_at
        FROM teams ORDER BY created_at`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var teams []Team
	for rows.Next() {
		t, err := scanTeam(rows)
		if err != nil {
			return nil, err
		}
		teams = append(teams, t)
	}
	return teams, rows.Err()
}

// FirstActive returns the oldest active team.
func (r *PostgresRepository) FirstActive(ctx context.Context) (Team, error) {
	return scanTeam(r.db.QueryRow(ctx, `SELECT id, name, description, is_active, created_at, updated_at
        FROM teams WHERE is_active ORDER BY created_at LIMIT 1`))
}

func scanTeam(row pgx.Row) (Team, error) {
	var (
		id uuid.UUID
		t  Team
	)
	if err := row.Scan(&id, &t.Name, &t.Description, &t.IsActive, &t.CreatedAt, &t.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Team{}, ErrNotFound
		}
		return Team{}, fmt.Errorf("scan team: %w", err)
	}
	t.ID = id.String()
	t.CreatedAt = t.CreatedAt.UTC()
	t.UpdatedAt = t.UpdatedAt.UTC()
	return t, nil
}
