// ABOUTME: Session history CRUD operations for SQLite storage.
// ABOUTME: Session items are serialized as a JSON column.
package storage

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/harperreed/trainer/internal/models"
)

const sessionColumns = `id, plan_id, plan_name, client_id, started_at, completed_at, total_seconds, items, exertion, comment, created_at`

// CreateSession stores a finished workout session.
func (d *DB) CreateSession(s *models.Session) error {
	items, err := json.Marshal(s.Items)
	if err != nil {
		return fmt.Errorf("marshal session items: %w", err)
	}

	query := `INSERT INTO sessions (` + sessionColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err = d.db.Exec(query,
		s.ID.String(),
		s.PlanID.String(),
		s.PlanName,
		nullUUID(s.ClientID),
		formatTime(s.StartedAt),
		formatTime(s.CompletedAt),
		s.TotalSeconds,
		string(items),
		s.Exertion,
		s.Comment,
		formatTime(s.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("create session: %w", err)
	}
	return nil
}

// GetSession retrieves a session by ID or ID prefix.
func (d *DB) GetSession(idOrPrefix string) (*models.Session, error) {
	id, err := d.resolveID("sessions", idOrPrefix)
	if err != nil {
		return nil, err
	}

	s, err := scanSession(d.db.QueryRow(`SELECT `+sessionColumns+` FROM sessions WHERE id = ?`, id))
	if err != nil {
		return nil, notFoundOnNoRows(err, idOrPrefix)
	}
	return s, nil
}

// ListSessions returns sessions, most recent first.
func (d *DB) ListSessions(clientID *uuid.UUID, limit int) ([]*models.Session, error) {
	query := `SELECT ` + sessionColumns + ` FROM sessions`
	var args []any
	if clientID != nil {
		query += ` WHERE client_id = ?`
		args = append(args, clientID.String())
	}
	query += ` ORDER BY started_at DESC`
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := d.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	defer rows.Close()

	var out []*models.Session
	for rows.Next() {
		s, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// DeleteSession removes a session from history.
func (d *DB) DeleteSession(idOrPrefix string) error {
	if err := d.deleteByID("sessions", idOrPrefix); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

func scanSession(row scanner) (*models.Session, error) {
	var s models.Session
	var idStr, planID, startedAt, completedAt, items, createdAt string
	var clientID, comment sql.NullString
	var exertion sql.NullInt64

	err := row.Scan(&idStr, &planID, &s.PlanName, &clientID, &startedAt, &completedAt,
		&s.TotalSeconds, &items, &exertion, &comment, &createdAt)
	if err != nil {
		return nil, err
	}

	s.ID, _ = uuid.Parse(idStr)
	s.PlanID, _ = uuid.Parse(planID)
	s.ClientID = uuidPtr(clientID)
	s.StartedAt = parseTime(startedAt)
	s.CompletedAt = parseTime(completedAt)
	s.Exertion = intPtr(exertion)
	s.Comment = stringPtr(comment)
	s.CreatedAt = parseTime(createdAt)
	if err := json.Unmarshal([]byte(items), &s.Items); err != nil {
		return nil, fmt.Errorf("unmarshal session items: %w", err)
	}
	return &s, nil
}
