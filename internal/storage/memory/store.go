package memory

import (
	"context"
	"sync"

	"github.com/cleansight/cleansight/internal/storage"
	"github.com/cleansight/cleansight/pkg/models"
)

// Store is an in-process report store. It is the default backend for the CLI
// and for single-node servers with no Redis configured.
type Store struct {
	mu      sync.RWMutex
	reports map[string]*models.AnalysisReport
}

// NewStore creates an empty in-memory report store.
func NewStore() *Store {
	return &Store{reports: make(map[string]*models.AnalysisReport)}
}

// SaveReport stores the report under its ID.
func (s *Store) SaveReport(_ context.Context, report *models.AnalysisReport) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reports[report.ID] = report
	return nil
}

// GetReport fetches a report by ID.
func (s *Store) GetReport(_ context.Context, id string) (*models.AnalysisReport, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	report, ok := s.reports[id]
	if !ok {
		return nil, storage.ErrReportNotFound
	}
	return report, nil
}

// Close is a no-op for the in-memory store.
func (s *Store) Close() error { return nil }
