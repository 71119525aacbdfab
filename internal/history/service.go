package history

import (
	"context"
	"database/sql"

	"SAC-backend/internal/checkouts"
	"SAC-backend/internal/platform/apperr"
)

// Service is a pure read-side projection over the ledger's records. It
// never writes.
type Service struct {
	db    *sql.DB
	store *Store
}

func NewService(db *sql.DB) *Service {
	return &Service{db: db, store: NewStore(db)}
}

func (s *Service) QueryHistory(ctx context.Context, f Filter, p Page) ([]EntryResponse, int64, error) {
	if f.Status != "" && f.Status != checkouts.StatusCheckedOut && f.Status != checkouts.StatusReturned {
		return nil, 0, apperr.Validation("unknown status: " + f.Status)
	}

	rows, total, err := s.store.ListHistory(ctx, f, p)
	if err != nil {
		return nil, 0, err
	}

	out := make([]EntryResponse, 0, len(rows))
	for i := range rows {
		out = append(out, toEntry(&rows[i]))
	}
	return out, total, nil
}

func (s *Service) ListBorrowers(ctx context.Context, nameQuery string) ([]BorrowerSuggestion, error) {
	return s.store.ListBorrowers(ctx, nameQuery)
}
