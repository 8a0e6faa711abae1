// ABOUTME: Progress entry CRUD operations for SQLite storage.
// ABOUTME: Implements latest-by-type lookups used by the CLI and MCP tools.
package storage

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/harperreed/trainer/internal/models"
)

const progressColumns = `id, client_id, progress_type, value, unit, recorded_at, assessment_id, notes, created_at`

// CreateProgress stores a new progress entry.
func (d *DB) CreateProgress(p *models.Progress) error {
	query := `INSERT INTO progress (` + progressColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := d.db.Exec(query,
		p.ID.String(),
		p.ClientID.String(),
		string(p.Type),
		p.Value,
		p.Unit,
		formatTime(p.RecordedAt),
		nullUUID(p.AssessmentID),
		p.Notes,
		formatTime(p.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("create progress: %w", err)
	}
	return nil
}

// GetProgress retrieves a progress entry by ID or ID prefix.
func (d *DB) GetProgress(idOrPrefix string) (*models.Progress, error) {
	id, err := d.resolveID("progress", idOrPrefix)
	if err != nil {
		return nil, err
	}

	p, err := scanProgress(d.db.QueryRow(`SELECT `+progressColumns+` FROM progress WHERE id = ?`, id))
	if err != nil {
		return nil, notFoundOnNoRows(err, idOrPrefix)
	}
	return p, nil
}

// ListProgress returns entries filtered by client and type, most recent first.
func (d *DB) ListProgress(clientID *uuid.UUID, progressType *models.ProgressType, limit int) ([]*models.Progress, error) {
	query := `SELECT ` + progressColumns + ` FROM progress WHERE 1 = 1`
	var args []any
	if clientID != nil {
		query += ` AND client_id = ?`
		args = append(args, clientID.String())
	}
	if progressType != nil {
		query += ` AND progress_type = ?`
		args = append(args, string(*progressType))
	}
	query += ` ORDER BY recorded_at DESC`
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := d.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list progress: %w", err)
	}
	defer rows.Close()

	var out []*models.Progress
	for rows.Next() {
		p, err := scanProgress(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// DeleteProgress removes a progress entry.
func (d *DB) DeleteProgress(idOrPrefix string) error {
	if err := d.deleteByID("progress", idOrPrefix); err != nil {
		return fmt.Errorf("delete progress: %w", err)
	}
	return nil
}

// GetLatestProgress returns a client's most recent entry of a type.
func (d *DB) GetLatestProgress(clientID uuid.UUID, progressType models.ProgressType) (*models.Progress, error) {
	query := `SELECT ` + progressColumns + ` FROM progress
		WHERE client_id = ? AND progress_type = ?
		ORDER BY recorded_at DESC
		LIMIT 1`
	p, err := scanProgress(d.db.QueryRow(query, clientID.String(), string(progressType)))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, NoProgress(progressType)
		}
		return nil, err
	}
	return p, nil
}

func scanProgress(row scanner) (*models.Progress, error) {
	var p models.Progress
	var idStr, clientID, progressType, recordedAt, createdAt string
	var assessmentID, notes sql.NullString

	err := row.Scan(&idStr, &clientID, &progressType, &p.Value, &p.Unit, &recordedAt, &assessmentID, &notes, &createdAt)
	if err != nil {
		return nil, err
	}

	p.ID, _ = uuid.Parse(idStr)
	p.ClientID, _ = uuid.Parse(clientID)
	p.Type = models.ProgressType(progressType)
	p.RecordedAt = parseTime(recordedAt)
	p.AssessmentID = uuidPtr(assessmentID)
	p.Notes = stringPtr(notes)
	p.CreatedAt = parseTime(createdAt)
	return &p, nil
}
