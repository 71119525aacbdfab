package assets

import (
	"context"
	"crypto/rand"
	"database/sql"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"

	"SAC-backend/internal/platform/apperr"
)

type IDGen interface {
	NewULID() string
}

type ulidGen struct{}

func (ulidGen) NewULID() string {
	t := time.Now().UTC()
	entropy := ulid.Monotonic(rand.Reader, 0)
	return ulid.MustNew(ulid.Timestamp(t), entropy).String()
}

type Service struct {
	db    *sql.DB
	store *Store
	id    IDGen
}

func NewService(db *sql.DB) *Service {
	return &Service{db: db, store: NewStore(db), id: ulidGen{}}
}

func (s *Service) CreateAsset(ctx context.Context, req CreateAssetRequest) (AssetResponse, error) {
	if strings.TrimSpace(req.Name) == "" || strings.TrimSpace(req.Tag) == "" {
		return AssetResponse{}, apperr.Validation("name and tag are required")
	}

	status := StatusAvailable
	if req.Status != nil && *req.Status != "" {
		if !ValidStatus(*req.Status) {
			return AssetResponse{}, apperr.Validation("unknown status: " + *req.Status)
		}
		status = *req.Status
	}

	a := &Asset{
		AssetID:  s.id.NewULID(),
		Name:     strings.TrimSpace(req.Name),
		Tag:      strings.TrimSpace(req.Tag),
		Location: strings.TrimSpace(req.Location),
		Category: strings.TrimSpace(req.Category),
		Status:   status,
	}
	if err := s.store.InsertAsset(ctx, a); err != nil {
		return AssetResponse{}, err
	}
	return toResponse(a), nil
}

// UpdateAsset applies a partial edit. Status edits here bypass the ledger
// on purpose: marking a loaned asset Broken is an administrative override
// and leaves any open loan untouched.
func (s *Service) UpdateAsset(ctx context.Context, id string, req UpdateAssetRequest) (AssetResponse, error) {
	if req.Name != nil && strings.TrimSpace(*req.Name) == "" {
		return AssetResponse{}, apperr.Validation("name must not be blank")
	}
	if req.Tag != nil && strings.TrimSpace(*req.Tag) == "" {
		return AssetResponse{}, apperr.Validation("tag must not be blank")
	}
	if req.Status != nil && !ValidStatus(*req.Status) {
		return AssetResponse{}, apperr.Validation("unknown status: " + *req.Status)
	}

	if _, err := s.store.GetAssetByID(ctx, id); err != nil {
		return AssetResponse{}, err
	}
	if err := s.store.UpdateAsset(ctx, id, req); err != nil {
		return AssetResponse{}, err
	}

	out, err := s.store.GetAssetByID(ctx, id)
	if err != nil {
		return AssetResponse{}, err
	}
	return toResponse(out), nil
}

func (s *Service) DeleteAsset(ctx context.Context, id string) error {
	return s.store.DeleteAssets(ctx, []string{id})
}

// DeleteAssets is the "Delete Selected" batch: all ids must exist or
// nothing is removed.
func (s *Service) DeleteAssets(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return apperr.Validation("asset_ids must not be empty")
	}
	return s.store.DeleteAssets(ctx, ids)
}

func (s *Service) GetAsset(ctx context.Context, id string) (AssetResponse, error) {
	a, err := s.store.GetAssetByID(ctx, id)
	if err != nil {
		return AssetResponse{}, err
	}
	return toResponse(a), nil
}

func (s *Service) ListAssets(ctx context.Context, f AssetFilter, p Page) ([]AssetResponse, int64, error) {
	if f.Status != "" && !ValidStatus(f.Status) {
		return nil, 0, apperr.Validation("unknown status: " + f.Status)
	}
	items, total, err := s.store.ListAssets(ctx, f, p)
	if err != nil {
		return nil, 0, err
	}
	out := make([]AssetResponse, 0, len(items))
	for i := range items {
		out = append(out, toResponse(&items[i]))
	}
	return out, total, nil
}

func (s *Service) ListCategories(ctx context.Context) ([]string, error) {
	return s.store.ListCategories(ctx)
}
