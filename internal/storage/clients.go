// ABOUTME: Client CRUD operations for SQLite storage.
// ABOUTME: Deleting a client cascades through foreign keys to its records.
package storage

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/harperreed/trainer/internal/composition"
	"github.com/harperreed/trainer/internal/models"
)

const clientColumns = `id, name, email, phone, sex, birth_date, goal, active, notes, created_at`

// CreateClient stores a new client in the database.
func (d *DB) CreateClient(c *models.Client) error {
	query := `INSERT INTO clients (` + clientColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := d.db.Exec(query,
		c.ID.String(),
		c.Name,
		c.Email,
		c.Phone,
		string(c.Sex),
		nullTime(c.BirthDate),
		c.Goal,
		c.Active,
		c.Notes,
		formatTime(c.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("create client: %w", err)
	}
	return nil
}

// GetClient retrieves a client by ID or ID prefix.
func (d *DB) GetClient(idOrPrefix string) (*models.Client, error) {
	id, err := d.resolveID("clients", idOrPrefix)
	if err != nil {
		return nil, err
	}

	c, err := scanClient(d.db.QueryRow(`SELECT `+clientColumns+` FROM clients WHERE id = ?`, id))
	if err != nil {
		return nil, notFoundOnNoRows(err, idOrPrefix)
	}
	return c, nil
}

// ListClients returns clients ordered by name.
func (d *DB) ListClients(activeOnly bool) ([]*models.Client, error) {
	query := `SELECT ` + clientColumns + ` FROM clients`
	if activeOnly {
		query += ` WHERE active = 1`
	}
	query += ` ORDER BY name COLLATE NOCASE`

	rows, err := d.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("list clients: %w", err)
	}
	defer rows.Close()

	var clients []*models.Client
	for rows.Next() {
		c, err := scanClient(rows)
		if err != nil {
			return nil, err
		}
		clients = append(clients, c)
	}
	return clients, rows.Err()
}

// DeleteClient removes a client and everything attached to it.
func (d *DB) DeleteClient(idOrPrefix string) error {
	if err := d.deleteByID("clients", idOrPrefix); err != nil {
		return fmt.Errorf("delete client: %w", err)
	}
	return nil
}

func scanClient(row scanner) (*models.Client, error) {
	var c models.Client
	var idStr, sex, createdAt string
	var email, phone, birthDate, goal, notes sql.NullString

	err := row.Scan(&idStr, &c.Name, &email, &phone, &sex, &birthDate, &goal, &c.Active, &notes, &createdAt)
	if err != nil {
		return nil, err
	}

	c.ID, _ = uuid.Parse(idStr)
	c.Sex = composition.Sex(sex)
	c.Email = stringPtr(email)
	c.Phone = stringPtr(phone)
	c.Goal = stringPtr(goal)
	c.Notes = stringPtr(notes)
	if birthDate.Valid {
		t := parseTime(birthDate.String)
		c.BirthDate = &t
	}
	c.CreatedAt = parseTime(createdAt)
	return &c, nil
}
