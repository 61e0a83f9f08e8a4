package ticket

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrNotFound is returned when no ticket matches.
var ErrNotFound = errors.New("ticket not found")

// Repository persists tickets.
type Repository interface {
	Create(ctx context.Context, t Ticket) error
	Get(ctx context.Context, id string) (Ticket, error)
	List(ctx context.Context, f Filter) ([]Ticket, error)
	Update(ctx context.Context, t Ticket) error
	Delete(ctx context.Context, id string) error
	KPIs(ctx context.Context, now time.Time) (KPIs, error)
}

// PostgresRepository stores tickets in PostgreSQL.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository builds a repository backed by PostgreSQL.
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const ticketColumns = `id, title, description, status, priority, latitude, longitude, geohash, address,
        photo_url, citizen_phone, citizen_name, assigned_team_id, due_date, created_at, updated_at`

// Create inserts a ticket.
func (r *PostgresRepository) Create(ctx context.Context, t Ticket) error {
	id, err := uuid.Parse(t.ID)
	if err != nil {
		return err
	}
	teamID, err := optionalUUID(t.AssignedTeamID)
	if err != nil {
		return err
	}
	_, err = r.db.Exec(ctx, `INSERT INTO tickets (`+ticketColumns+`)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`,
		id, t.Title, t.Description, t.Status, t.Priority, t.Latitude, t.Longitude, t.Geohash, t.Address,
		t.PhotoURL, t.CitizenPhone, t.CitizenName, teamID, t.DueDate, t.CreatedAt.UTC(), t.UpdatedAt.UTC())
	return err
}

// Get fetches a ticket by id.
func (r *PostgresRepository) Get(ctx context.Context, id string) (Ticket, error) {
	ticketID, err := uuid.Parse(id)
	if err != nil {
		return Ticket{}, ErrNotFound
	}
	return scanTicket(r.db.QueryRow(ctx, `SELECT `+ticketColumns+` FROM tickets WHERE id = $1`, ticketID))
}

// List returns tickets matching f, newest first.
func (r *PostgresRepository) List(ctx context.Context, f Filter) ([]Ticket, error) {
	var (
		where []string
		args  []any
	)
	if f.Status != "" {
		args = append(args, f.Status)
		where = append(where, fmt.Sprintf("status = $%d", len(args)))
	}
	if f.TeamID != "" {
		teamID, err := uuid.Parse(f.TeamID)
		if err != nil {
			return []Ticket{}, nil
		}
		args = append(args, teamID)
		where = append(where, fmt.Sprintf("assigned_team_id = $%d", len(args)))
	}
	if f.GeohashPrefix != "" {
		args = append(args, f.GeohashPrefix+"%")
		where = append(where, fmt.Sprintf("geohash LIKE $%d", len(args)))
	}
	query := `SELECT ` + ticketColumns + ` FROM tickets`
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, " AND ")
	}
	query += ` ORDER BY created_at DESC`

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tickets := []Ticket{}
	for rows.Next() {
		t, err := scanTicket(rows)
		if err != nil {
			return nil, err
		}
		tickets = append(tickets, t)
	}
	return tickets, rows.Err()
}

// Update overwrites the mutable columns of a ticket.
func (r *PostgresRepository) Update(ctx context.Context, t Ticket) error {
	id, err := uuid.Parse(t.ID)
	if err != nil {
		return ErrNotFound
	}
	teamID, err := optionalUUID(t.AssignedTeamID)
	if err != nil {
		return err
	}
	cmd, err := r.db.Exec(ctx, `UPDATE tickets SET title = $2, description = $3, status = $4, priority = $5,
        latitude = $6, longitude = $7, geohash = $8, address = $9, photo_url = $10, citizen_name = $11,
        assigned_team_id = $12, due_date = $13, updated_at = $14
        WHERE id = $1`,
		id, t.Title, t.Description, t.Status, t.Priority, t.Latitude, t.Longitude, t.Geohash, t.Address,
		t.PhotoURL, t.CitizenName, teamID, t.DueDate, t.UpdatedAt.UTC())
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a ticket.
func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	ticketID, err := uuid.Parse(id)
	if err != nil {
		return ErrNotFound
	}
	cmd, err := r.db.Exec(ctx, `DELETE FROM tickets WHERE id = $1`, ticketID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// KPIs aggregates backlog counters in one pass.
func (r *PostgresRepository) KPIs(ctx context.Context, now time.Time) (KPIs, error) {
	const query = `
        SELECT COUNT(*),
               COUNT(*) FILTER (WHERE status = 'open'),
               COUNT(*) FILTER (WHERE status = 'in_progress'),
               COUNT(*) FILTER (WHERE status = 'resolved'),
               COUNT(*) FILTER (WHERE status = 'closed'),
               COUNT(*) FILTER (WHERE due_date < $1 AND status NOT IN ('closed', 'resolved')),
               COALESCE(AVG(EXTRACT(EPOCH FROM (updated_at - created_at)) / 3600.0)
                   FILTER (WHERE status IN ('closed', 'resolved')), 0)::float8
        FROM tickets`
	var k KPIs
	err := r.db.QueryRow(ctx, query, now.UTC()).Scan(&k.TotalTickets, &k.OpenTickets, &k.InProgressTickets,
		&k.ResolvedTickets, &k.ClosedTickets, &k.OverdueTickets, &k.AvgResolutionTime)
	if err != nil {
		return KPIs{}, err
	}
	k.AvgResolutionTime = roundHours(k.AvgResolutionTime)
	return k, nil
}

func scanTicket(row pgx.Row) (Ticket, error) {
	var (
		id     uuid.UUID
		teamID *uuid.UUID
		t      Ticket
	)
	err := row.Scan(&id, &t.Title, &t.Description, &t.Status, &t.Priority, &t.Latitude, &t.Longitude,
		&t.Geohash, &t.Address, &t.PhotoURL, &t.CitizenPhone, &t.CitizenName, &teamID, &t.DueDate,
		&t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Ticket{}, ErrNotFound
		}
		return Ticket{}, fmt.Errorf("scan ticket: %w", err)
	}
	t.ID = id.String()
	if teamID != nil {
		s := teamID.String()
		t.AssignedTeamID = &s
	}
	t.CreatedAt = t.CreatedAt.UTC()
	t.UpdatedAt = t.UpdatedAt.UTC()
	return t, nil
}

func optionalUUID(s *string) (*uuid.UUID, error) {
	if s == nil || *s == "" {
		return nil, nil
	}
	id, err := uuid.Parse(*s)
	if err != nil {
		return nil, err
	}
	return &id, nil
}
