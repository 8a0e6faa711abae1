// ABOUTME: Assessment CRUD operations for SQLite storage.
// ABOUTME: Skinfolds and estimator results are serialized as JSON columns.
package storage

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/harperreed/trainer/internal/composition"
	"github.com/harperreed/trainer/internal/models"
)

const assessmentColumns = `id, client_id, assessed_at, sex, age, weight_kg, height_cm, skinfolds, result, notes, created_at`

// CreateAssessment stores a new assessment.
func (d *DB) CreateAssessment(a *models.Assessment) error {
	skinfolds, err := json.Marshal(a.Skinfolds)
	if err != nil {
		return fmt.Errorf("marshal skinfolds: %w", err)
	}
	var result any
	if a.Result != nil {
		data, err := json.Marshal(a.Result)
		if err != nil {
			return fmt.Errorf("marshal result: %w", err)
		}
		result = string(data)
	}

	query := `INSERT INTO assessments (` + assessmentColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err = d.db.Exec(query,
		a.ID.String(),
		a.ClientID.String(),
		formatTime(a.AssessedAt),
		string(a.Sex),
		a.Age,
		a.WeightKg,
		a.HeightCm,
		string(skinfolds),
		result,
		a.Notes,
		formatTime(a.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("create assessment: %w", err)
	}
	return nil
}

// GetAssessment retrieves an assessment by ID or ID prefix.
func (d *DB) GetAssessment(idOrPrefix string) (*models.Assessment, error) {
	id, err := d.resolveID("assessments", idOrPrefix)
	if err != nil {
		return nil, err
	}

	a, err := scanAssessment(d.db.QueryRow(`SELECT `+assessmentColumns+` FROM assessments WHERE id = ?`, id))
	if err != nil {
		return nil, notFoundOnNoRows(err, idOrPrefix)
	}
	return a, nil
}

// ListAssessments returns assessments, most recent first.
func (d *DB) ListAssessments(clientID *uuid.UUID, limit int) ([]*models.Assessment, error) {
	query := `SELECT ` + assessmentColumns + ` FROM assessments`
	var args []any
	if clientID != nil {
		query += ` WHERE client_id = ?`
		args = append(args, clientID.String())
	}
	query += ` ORDER BY assessed_at DESC`
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := d.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list assessments: %w", err)
	}
	defer rows.Close()

	var out []*models.Assessment
	for rows.Next() {
		a, err := scanAssessment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// DeleteAssessment removes an assessment and the progress derived from it.
func (d *DB) DeleteAssessment(idOrPrefix string) error {
	if err := d.deleteByID("assessments", idOrPrefix); err != nil {
		return fmt.Errorf("delete assessment: %w", err)
	}
	return nil
}

func scanAssessment(row scanner) (*models.Assessment, error) {
	var a models.Assessment
	var idStr, clientID, assessedAt, sex, skinfolds, createdAt string
	var age sql.NullInt64
	var weight, height sql.NullFloat64
	var result, notes sql.NullString

	err := row.Scan(&idStr, &clientID, &assessedAt, &sex, &age, &weight, &height, &skinfolds, &result, &notes, &createdAt)
	if err != nil {
		return nil, err
	}

	a.ID, _ = uuid.Parse(idStr)
	a.ClientID, _ = uuid.Parse(clientID)
	a.AssessedAt = parseTime(assessedAt)
	a.Sex = composition.Sex(sex)
	a.Age = intPtr(age)
	a.WeightKg = floatPtr(weight)
	a.HeightCm = floatPtr(height)
	a.Notes = stringPtr(notes)
	a.CreatedAt = parseTime(createdAt)

	a.Skinfolds = composition.Measurements{}
	if err := json.Unmarshal([]byte(skinfolds), &a.Skinfolds); err != nil {
		return nil, fmt.Errorf("unmarshal skinfolds: %w", err)
	}
	if result.Valid {
		var r composition.Result
		if err := json.Unmarshal([]byte(result.String), &r); err != nil {
			return nil, fmt.Errorf("unmarshal result: %w", err)
		}
		a.Result = &r
	}
	return &a, nil
}
