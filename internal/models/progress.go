// ABOUTME: Progress model and ProgressType enum for client tracking over time.
// ABOUTME: Entries are logged manually or derived from body-composition assessments.
package models

import (
	"time"

	"github.com/google/uuid"
)

// ProgressType represents the kind of progress measurement being recorded.
type ProgressType string

const (
	// Composition
	ProgressWeight   ProgressType = "weight"
	ProgressBodyFat  ProgressType = "body_fat"
	ProgressLeanMass ProgressType = "lean_mass"
	ProgressFatMass  ProgressType = "fat_mass"
	ProgressBMI      ProgressType = "bmi"

	// Circumferences
	ProgressWaist ProgressType = "waist"
	ProgressHip   ProgressType = "hip"
	ProgressChest ProgressType = "chest"
	ProgressArm   ProgressType = "arm"
	ProgressThigh ProgressType = "thigh"

	// Fitness
	ProgressRestingHR ProgressType = "resting_hr"
)

// ProgressUnits maps progress types to their display units.
var ProgressUnits = map[ProgressType]string{
	ProgressWeight:    "kg",
	ProgressBodyFat:   "%",
	ProgressLeanMass:  "kg",
	ProgressFatMass:   "kg",
	ProgressBMI:       "kg/m²",
	ProgressWaist:     "cm",
	ProgressHip:       "cm",
	ProgressChest:     "cm",
	ProgressArm:       "cm",
	ProgressThigh:     "cm",
	ProgressRestingHR: "bpm",
}

// AllProgressTypes returns all valid progress types.
var AllProgressTypes = []ProgressType{
	ProgressWeight, ProgressBodyFat, ProgressLeanMass, ProgressFatMass, ProgressBMI,
	ProgressWaist, ProgressHip, ProgressChest, ProgressArm, ProgressThigh,
	ProgressRestingHR,
}

// IsValidProgressType checks if a string is a valid progress type.
func IsValidProgressType(s string) bool {
	for _, pt := range AllProgressTypes {
		if string(pt) == s {
			return true
		}
	}
	return false
}

// Progress represents a single progress entry for a client.
type Progress struct {
	ID           uuid.UUID    `json:"id" yaml:"id"`
	ClientID     uuid.UUID    `json:"client_id" yaml:"client_id"`
	Type         ProgressType `json:"type" yaml:"type"`
	Value        float64      `json:"value" yaml:"value"`
	Unit         string       `json:"unit" yaml:"unit"`
	RecordedAt   time.Time    `json:"recorded_at" yaml:"recorded_at"`
	AssessmentID *uuid.UUID   `json:"assessment_id,omitempty" yaml:"assessment_id,omitempty"`
	Notes        *string      `json:"notes,omitempty" yaml:"notes,omitempty"`
	CreatedAt    time.Time    `json:"created_at" yaml:"created_at"`
}

// NewProgress creates a new Progress entry with generated UUID and current timestamp.
func NewProgress(clientID uuid.UUID, pt ProgressType, value float64) *Progress {
	now := time.Now()
	return &Progress{
		ID:         uuid.New(),
		ClientID:   clientID,
		Type:       pt,
		Value:      value,
		Unit:       ProgressUnits[pt],
		RecordedAt: now,
		CreatedAt:  now,
	}
}

// WithRecordedAt sets a custom recorded_at timestamp.
func (p *Progress) WithRecordedAt(t time.Time) *Progress {
	p.RecordedAt = t
	return p
}

// WithNotes sets notes on the entry.
func (p *Progress) WithNotes(notes string) *Progress {
	p.Notes = &notes
	return p
}

// ProgressFromAssessment derives weight, BMI and composition entries from an assessment.
func ProgressFromAssessment(a *Assessment) []*Progress {
	var out []*Progress
	add := func(pt ProgressType, v float64) {
		p := NewProgress(a.ClientID, pt, v).WithRecordedAt(a.AssessedAt)
		id := a.ID
		p.AssessmentID = &id
		out = append(out, p)
	}

	if a.WeightKg != nil {
		add(ProgressWeight, *a.WeightKg)
	}
	if bmi := a.BMI(); bmi != nil {
		add(ProgressBMI, *bmi)
	}
	if a.Result != nil {
		add(ProgressBodyFat, a.Result.BodyFatPct)
		add(ProgressLeanMass, a.Result.LeanMassKg)
		add(ProgressFatMass, a.Result.FatMassKg)
	}
	return out
}
