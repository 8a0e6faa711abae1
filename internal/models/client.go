// ABOUTME: Client model for the trainer's student registry.
// ABOUTME: Clients own assessments, workout plans, sessions and progress entries.
package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/harperreed/trainer/internal/composition"
)

// Client represents a student coached by the trainer.
type Client struct {
	ID        uuid.UUID       `json:"id" yaml:"id"`
	Name      string          `json:"name" yaml:"name"`
	Email     *string         `json:"email,omitempty" yaml:"email,omitempty"`
	Phone     *string         `json:"phone,omitempty" yaml:"phone,omitempty"`
	Sex       composition.Sex `json:"sex,omitempty" yaml:"sex,omitempty"`
	BirthDate *time.Time      `json:"birth_date,omitempty" yaml:"birth_date,omitempty"`
	Goal      *string         `json:"goal,omitempty" yaml:"goal,omitempty"`
	Active    bool            `json:"active" yaml:"active"`
	Notes     *string         `json:"notes,omitempty" yaml:"notes,omitempty"`
	CreatedAt time.Time       `json:"created_at" yaml:"created_at"`
}

// NewClient creates an active Client with generated UUID and current timestamp.
func NewClient(name string) *Client {
	return &Client{
		ID:        uuid.New(),
		Name:      name,
		Active:    true,
		CreatedAt: time.Now(),
	}
}

// WithEmail sets the contact email.
func (c *Client) WithEmail(email string) *Client {
	c.Email = &email
	return c
}

// WithPhone sets the contact phone.
func (c *Client) WithPhone(phone string) *Client {
	c.Phone = &phone
	return c
}

// WithSex sets the client's sex used by body-composition protocols.
func (c *Client) WithSex(sex composition.Sex) *Client {
	c.Sex = sex
	return c
}

// WithBirthDate sets the birth date.
func (c *Client) WithBirthDate(t time.Time) *Client {
	c.BirthDate = &t
	return c
}

// WithGoal sets the training goal.
func (c *Client) WithGoal(goal string) *Client {
	c.Goal = &goal
	return c
}

// WithNotes sets notes on the client.
func (c *Client) WithNotes(notes string) *Client {
	c.Notes = &notes
	return c
}

// Age returns the age in whole years at the given instant, or nil without a birth date.
func (c *Client) Age(at time.Time) *int {
	if c.BirthDate == nil {
		return nil
	}
	b := *c.BirthDate
	years := at.Year() - b.Year()
	if at.Month() < b.Month() || (at.Month() == b.Month() && at.Day() < b.Day()) {
		years--
	}
	if years < 0 {
		return nil
	}
	return &years
}
