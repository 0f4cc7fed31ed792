package repository

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/campus-safety/incident-service/internal/domain"
)

// IncidentHistoryRepository stores status-change audit entries.
type IncidentHistoryRepository interface {
	Create(ctx context.Context, history *domain.IncidentHistory) error
	ListByIncident(ctx context.Context, incidentID string) ([]domain.IncidentHistory, error)
}

type incidentHistoryRepository struct {
	mu      sync.RWMutex
	entries map[string][]domain.IncidentHistory
}

// NewIncidentHistoryRepository builds repository.
func NewIncidentHistoryRepository() IncidentHistoryRepository {
	return &incidentHistoryRepository{entries: make(map[string][]domain.IncidentHistory)}
}

func (r *incidentHistoryRepository) Create(ctx context.Context, history *domain.IncidentHistory) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if history.ID == "" {
		history.ID = uuid.NewString()
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries[history.IncidentID] = append(r.entries[history.IncidentID], *history)
	return nil
}

// ListByIncident returns entries oldest first.
func (r *incidentHistoryRepository) ListByIncident(ctx context.Context, incidentID string) ([]domain.IncidentHistory, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]domain.IncidentHistory{}, r.entries[incidentID]...), nil
}
