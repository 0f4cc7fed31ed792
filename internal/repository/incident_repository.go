package repository

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/campus-safety/incident-service/internal/domain"
)

// ErrNotFound is returned when no incident matches the lookup.
var ErrNotFound = errors.New("incident not found")

// IncidentRepository encapsulates incident storage.
type IncidentRepository interface {
	Create(ctx context.Context, incident *domain.Incident) error
	Update(ctx context.Context, id string, apply func(*domain.Incident) error) (*domain.Incident, error)
	GetByID(ctx context.Context, id string) (*domain.Incident, error)
	GetByReferenceID(ctx context.Context, referenceID string) (*domain.Incident, error)
	ListWithFilter(ctx context.Context, filter domain.IncidentFilter) ([]domain.Incident, error)
	Seed(ctx context.Context, incidents []domain.Incident) error
}

// incidentRepository keeps incidents in memory. Writes are serialized and
// reads return copies, so callers never hold references into the store.
type incidentRepository struct {
	mu    sync.RWMutex
	byID  map[string]*domain.Incident
	order []string
	seq   int
}

// NewIncidentRepository instantiates an empty repository.
func NewIncidentRepository() IncidentRepository {
	return &incidentRepository{byID: make(map[string]*domain.Incident)}
}

// Create stores the incident, filling ID and ReferenceID. The reference
// sequence comes from a counter that never decreases.
func (r *incidentRepository) Create(ctx context.Context, incident *domain.Incident) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	r.seq++
	incident.ID = newIncidentID()
	incident.ReferenceID = domain.FormatReferenceID(incident.DateReported.Year(), r.seq)

	stored := *incident
	r.byID[stored.ID] = &stored
	r.order = append(r.order, stored.ID)
	return nil
}

func (r *incidentRepository) Update(ctx context.Context, id string, apply func(*domain.Incident) error) (*domain.Incident, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	current, ok := r.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	draft := *current
	if err := apply(&draft); err != nil {
		return nil, err
	}
	draft.ID = current.ID
	draft.ReferenceID = current.ReferenceID
	draft.DateReported = current.DateReported
	*current = draft
	return &draft, nil
}

func (r *incidentRepository) GetByID(ctx context.Context, id string) (*domain.Incident, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	incident, ok := r.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	copied := *incident
	return &copied, nil
}

func (r *incidentRepository) GetByReferenceID(ctx context.Context, referenceID string) (*domain.Incident, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, incident := range r.byID {
		if strings.EqualFold(incident.ReferenceID, referenceID) {
			copied := *incident
			return &copied, nil
		}
	}
	return nil, ErrNotFound
}

// ListWithFilter returns matching incidents, most recently created first.
func (r *incidentRepository) ListWithFilter(ctx context.Context, filter domain.IncidentFilter) ([]domain.Incident, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]domain.Incident, 0, len(r.order))
	for i := len(r.order) - 1; i >= 0; i-- {
		incident := r.byID[r.order[i]]
		if filter.Matches(*incident) {
			result = append(result, *incident)
		}
	}
	return result, nil
}

// Seed loads pre-built incidents, listed newest first, keeping their IDs and
// reference codes. The sequence counter advances past them. A duplicate id
// rejects the whole batch.
func (r *incidentRepository) Seed(ctx context.Context, incidents []domain.Incident) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	batch := make([]domain.Incident, 0, len(incidents))
	seen := make(map[string]struct{}, len(incidents))
	for i := len(incidents) - 1; i >= 0; i-- {
		stored := incidents[i]
		if stored.ID == "" {
			stored.ID = newIncidentID()
		}
		if _, exists := r.byID[stored.ID]; exists {
			return errors.New("duplicate incident id " + stored.ID)
		}
		if _, exists := seen[stored.ID]; exists {
			return errors.New("duplicate incident id " + stored.ID)
		}
		seen[stored.ID] = struct{}{}
		batch = append(batch, stored)
	}

	for i := range batch {
		stored := batch[i]
		r.byID[stored.ID] = &stored
		r.order = append(r.order, stored.ID)
		r.seq++
	}
	return nil
}

func newIncidentID() string {
	return "inc_" + strings.ReplaceAll(uuid.NewString(), "-", "")
}
