package checkouts

import (
	"context"
	"crypto/rand"
	"database/sql"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"

	"SAC-backend/internal/platform/apperr"
	platformdb "SAC-backend/internal/platform/db"
)

// ===== Clock & ID =====

type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time { return platformdb.Now() }

type IDGen interface {
	NewULID() string
}

type ulidGen struct{}

func (ulidGen) NewULID() string {
	t := time.Now().UTC()
	entropy := ulid.Monotonic(rand.Reader, 0)
	return ulid.MustNew(ulid.Timestamp(t), entropy).String()
}

// ===== Service =====

// Service is the checkout ledger: the only writer of loan record status
// and of the Available <-> Checked Out asset transitions.
type Service struct {
	db    *sql.DB
	store *Store
}

func NewService(db *sql.DB) *Service {
	return &Service{db: db, store: NewStore(db, realClock{}, ulidGen{})}
}

// newServiceWith lets tests swap the clock and id generator.
func newServiceWith(db *sql.DB, clock Clock, id IDGen) *Service {
	return &Service{db: db, store: NewStore(db, clock, id)}
}

// Checkout creates one loan per asset, all-or-nothing. Duplicate ids in
// the request collapse to one.
func (s *Service) Checkout(ctx context.Context, req CheckoutRequest) (CheckoutResponse, error) {
	if strings.TrimSpace(req.BorrowerName) == "" || strings.TrimSpace(req.BorrowerID) == "" {
		return CheckoutResponse{}, apperr.Validation("borrower_name and borrower_id are required")
	}

	ids := dedupe(req.AssetIDs)
	if len(ids) == 0 {
		return CheckoutResponse{}, apperr.Validation("asset_ids must not be empty")
	}

	created, err := s.store.ExecCheckout(ctx, ids,
		strings.TrimSpace(req.BorrowerName), strings.TrimSpace(req.BorrowerID))
	if err != nil {
		return CheckoutResponse{}, err
	}
	return CheckoutResponse{CheckoutIDs: created}, nil
}

// Checkin closes the given loans, all-or-nothing. A loan already returned
// fails the whole batch; the first call's checkin_time is never touched.
func (s *Service) Checkin(ctx context.Context, req CheckinRequest) (CheckinResponse, error) {
	ids := dedupe(req.CheckoutIDs)
	if len(ids) == 0 {
		return CheckinResponse{}, apperr.Validation("checkout_ids must not be empty")
	}

	n, err := s.store.ExecCheckin(ctx, ids)
	if err != nil {
		return CheckinResponse{}, err
	}
	return CheckinResponse{Returned: n}, nil
}

func (s *Service) OpenLoanFor(ctx context.Context, assetID string) (LoanResponse, error) {
	if assetID == "" {
		return LoanResponse{}, apperr.Validation("asset_id is required")
	}
	m, err := s.store.GetOpenLoanByAsset(ctx, assetID)
	if err != nil {
		return LoanResponse{}, err
	}
	return toLoanResponse(m), nil
}

func (s *Service) ListOpenLoans(ctx context.Context, query string, p Page) ([]OpenLoanResponse, int64, error) {
	rows, total, err := s.store.ListOpenLoans(ctx, query, p)
	if err != nil {
		return nil, 0, err
	}

	out := make([]OpenLoanResponse, 0, len(rows))
	for i := range rows {
		out = append(out, OpenLoanResponse{
			LoanResponse: toLoanResponse(&rows[i].Checkout),
			AssetName:    rows[i].AssetName,
			AssetTag:     rows[i].AssetTag,
		})
	}
	return out, total, nil
}

func dedupe(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
