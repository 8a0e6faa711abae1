// ABOUTME: Workout plan CRUD operations for SQLite storage.
// ABOUTME: Plan items are serialized as a JSON column.
package storage

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/harperreed/trainer/internal/models"
)

const planColumns = `id, client_id, name, description, items, created_at`

// CreatePlan validates and stores a workout plan.
func (d *DB) CreatePlan(p *models.WorkoutPlan) error {
	if err := p.Validate(); err != nil {
		return fmt.Errorf("create plan: %w", err)
	}
	items, err := json.Marshal(p.Items)
	if err != nil {
		return fmt.Errorf("marshal plan items: %w", err)
	}

	query := `INSERT INTO plans (` + planColumns + `) VALUES (?, ?, ?, ?, ?, ?)`
	_, err = d.db.Exec(query,
		p.ID.String(),
		nullUUID(p.ClientID),
		p.Name,
		p.Description,
		string(items),
		formatTime(p.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("create plan: %w", err)
	}
	return nil
}

// GetPlan retrieves a plan by ID or ID prefix.
func (d *DB) GetPlan(idOrPrefix string) (*models.WorkoutPlan, error) {
	id, err := d.resolveID("plans", idOrPrefix)
	if err != nil {
		return nil, err
	}

	p, err := scanPlan(d.db.QueryRow(`SELECT `+planColumns+` FROM plans WHERE id = ?`, id))
	if err != nil {
		return nil, notFoundOnNoRows(err, idOrPrefix)
	}
	return p, nil
}

// ListPlans returns plans ordered by name, optionally only those assigned to a client.
func (d *DB) ListPlans(clientID *uuid.UUID) ([]*models.WorkoutPlan, error) {
	query := `SELECT ` + planColumns + ` FROM plans`
	var args []any
	if clientID != nil {
		query += ` WHERE client_id = ?`
		args = append(args, clientID.String())
	}
	query += ` ORDER BY name COLLATE NOCASE`

	rows, err := d.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list plans: %w", err)
	}
	defer rows.Close()

	var plans []*models.WorkoutPlan
	for rows.Next() {
		p, err := scanPlan(rows)
		if err != nil {
			return nil, err
		}
		plans = append(plans, p)
	}
	return plans, rows.Err()
}

// DeletePlan removes a plan. Sessions run from it are kept.
func (d *DB) DeletePlan(idOrPrefix string) error {
	if err := d.deleteByID("plans", idOrPrefix); err != nil {
		return fmt.Errorf("delete plan: %w", err)
	}
	return nil
}

func scanPlan(row scanner) (*models.WorkoutPlan, error) {
	var p models.WorkoutPlan
	var idStr, items, createdAt string
	var clientID, description sql.NullString

	if err := row.Scan(&idStr, &clientID, &p.Name, &description, &items, &createdAt); err != nil {
		return nil, err
	}

	p.ID, _ = uuid.Parse(idStr)
	p.ClientID = uuidPtr(clientID)
	p.Description = stringPtr(description)
	p.CreatedAt = parseTime(createdAt)
	if err := json.Unmarshal([]byte(items), &p.Items); err != nil {
		return nil, fmt.Errorf("unmarshal plan items: %w", err)
	}
	return &p, nil
}
