// ABOUTME: Assessment model: a dated body-composition evaluation of a client.
// ABOUTME: Stores raw skinfolds and the estimator result computed from them.
package models

import (
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/harperreed/trainer/internal/composition"
)

// Assessment is a body-composition evaluation (avaliação).
type Assessment struct {
	ID         uuid.UUID                `json:"id" yaml:"id"`
	ClientID   uuid.UUID                `json:"client_id" yaml:"client_id"`
	AssessedAt time.Time                `json:"assessed_at" yaml:"assessed_at"`
	Sex        composition.Sex          `json:"sex" yaml:"sex"`
	Age        *int                     `json:"age,omitempty" yaml:"age,omitempty"`
	WeightKg   *float64                 `json:"weight_kg,omitempty" yaml:"weight_kg,omitempty"`
	HeightCm   *float64                 `json:"height_cm,omitempty" yaml:"height_cm,omitempty"`
	Skinfolds  composition.Measurements `json:"skinfolds,omitempty" yaml:"skinfolds,omitempty"`
	Result     *composition.Result      `json:"result,omitempty" yaml:"result,omitempty"`
	Notes      *string                  `json:"notes,omitempty" yaml:"notes,omitempty"`
	CreatedAt  time.Time                `json:"created_at" yaml:"created_at"`
}

// NewAssessment creates an assessment for a client with generated UUID.
func NewAssessment(clientID uuid.UUID, sex composition.Sex) *Assessment {
	now := time.Now()
	return &Assessment{
		ID:         uuid.New(),
		ClientID:   clientID,
		AssessedAt: now,
		Sex:        sex,
		Skinfolds:  composition.Measurements{},
		CreatedAt:  now,
	}
}

// WithAge sets the age in years.
func (a *Assessment) WithAge(age int) *Assessment {
	a.Age = &age
	return a
}

// WithWeight sets the body weight in kilograms.
func (a *Assessment) WithWeight(kg float64) *Assessment {
	a.WeightKg = &kg
	return a
}

// WithHeight sets the height in centimeters.
func (a *Assessment) WithHeight(cm float64) *Assessment {
	a.HeightCm = &cm
	return a
}

// WithAssessedAt sets a custom assessment timestamp.
func (a *Assessment) WithAssessedAt(t time.Time) *Assessment {
	a.AssessedAt = t
	return a
}

// WithNotes sets notes on the assessment.
func (a *Assessment) WithNotes(notes string) *Assessment {
	a.Notes = &notes
	return a
}

// Profile returns the estimator profile for this assessment.
func (a *Assessment) Profile() composition.Profile {
	return composition.Profile{Sex: a.Sex, Age: a.Age, WeightKg: a.WeightKg}
}

// Recompute refreshes Result from the current inputs. Result is nil when
// the data is insufficient for every protocol.
func (a *Assessment) Recompute() *Assessment {
	a.Result, _ = composition.Compute(a.Profile(), a.Skinfolds)
	return a
}

// BMI returns weight / height² rounded to one decimal, or nil without both.
func (a *Assessment) BMI() *float64 {
	if a.WeightKg == nil || a.HeightCm == nil || *a.HeightCm <= 0 {
		return nil
	}
	m := *a.HeightCm / 100
	bmi := math.Round(*a.WeightKg/(m*m)*10) / 10
	return &bmi
}
