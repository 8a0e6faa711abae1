// ABOUTME: Repository interface for trainer data storage.
// ABOUTME: Defines the contract for clients, plans, assessments, sessions and progress.
package storage

import (
	"github.com/google/uuid"
	"github.com/harperreed/trainer/internal/models"
)

// Repository defines the storage interface for trainer data.
// This interface allows swapping implementations (e.g., for testing).
type Repository interface {
	// Client operations. Deleting a client cascades to its assessments,
	// sessions and progress entries and unassigns its plans.
	CreateClient(c *models.Client) error
	GetClient(idOrPrefix string) (*models.Client, error)
	ListClients(activeOnly bool) ([]*models.Client, error)
	DeleteClient(idOrPrefix string) error

	// Plan operations
	CreatePlan(p *models.WorkoutPlan) error
	GetPlan(idOrPrefix string) (*models.WorkoutPlan, error)
	ListPlans(clientID *uuid.UUID) ([]*models.WorkoutPlan, error)
	DeletePlan(idOrPrefix string) error

	// Assessment operations. Deleting an assessment removes the progress
	// entries derived from it.
	CreateAssessment(a *models.Assessment) error
	GetAssessment(idOrPrefix string) (*models.Assessment, error)
	ListAssessments(clientID *uuid.UUID, limit int) ([]*models.Assessment, error)
	DeleteAssessment(idOrPrefix string) error

	// Session (history) operations
	CreateSession(s *models.Session) error
	GetSession(idOrPrefix string) (*models.Session, error)
	ListSessions(clientID *uuid.UUID, limit int) ([]*models.Session, error)
	DeleteSession(idOrPrefix string) error

	// Progress operations
	CreateProgress(p *models.Progress) error
	GetProgress(idOrPrefix string) (*models.Progress, error)
	ListProgress(clientID *uuid.UUID, progressType *models.ProgressType, limit int) ([]*models.Progress, error)
	DeleteProgress(idOrPrefix string) error
	GetLatestProgress(clientID uuid.UUID, progressType models.ProgressType) (*models.Progress, error)

	// Export/Import
	GetAllData() (*ExportData, error)
	ImportData(data *ExportData) error

	// Lifecycle
	Close() error
}
