package assets

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"SAC-backend/internal/platform/apperr"
	platformdb "SAC-backend/internal/platform/db"
)

type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store { return &Store{db: db} }

func (s *Store) InsertAsset(ctx context.Context, a *Asset) error {
	const q = `
	INSERT INTO assets (asset_id, asset_name, asset_tag, location, category, status)
	VALUES (?, ?, ?, ?, ?, ?)`
	_, err := s.db.ExecContext(ctx, q, a.AssetID, a.Name, a.Tag, a.Location, a.Category, a.Status)
	if err != nil {
		return apperr.Storage(err)
	}
	return nil
}

func (s *Store) GetAssetByID(ctx context.Context, id string) (*Asset, error) {
	const q = `
	SELECT asset_id, asset_name, asset_tag, location, category, status
	FROM assets WHERE asset_id = ?`
	var a Asset
	err := s.db.QueryRowContext(ctx, q, id).Scan(
		&a.AssetID, &a.Name, &a.Tag, &a.Location, &a.Category, &a.Status,
	)
	if err == sql.ErrNoRows {
		return nil, apperr.NotFound("asset not found")
	}
	if err != nil {
		return nil, apperr.Storage(err)
	}
	return &a, nil
}

// UpdateAsset applies only the fields present in req. Caller has already
// confirmed the row exists.
func (s *Store) UpdateAsset(ctx context.Context, id string, req UpdateAssetRequest) error {
	sets := []string{}
	args := []any{}
	if req.Name != nil {
		sets = append(sets, "asset_name = ?")
		args = append(args, *req.Name)
	}
	if req.Tag != nil {
		sets = append(sets, "asset_tag = ?")
		args = append(args, *req.Tag)
	}
	if req.Location != nil {
		sets = append(sets, "location = ?")
		args = append(args, *req.Location)
	}
	if req.Category != nil {
		sets = append(sets, "category = ?")
		args = append(args, *req.Category)
	}
	if req.Status != nil {
		sets = append(sets, "status = ?")
		args = append(args, *req.Status)
	}
	if len(sets) == 0 {
		return nil
	}

	q := fmt.Sprintf(`UPDATE assets SET %s WHERE asset_id = ?`, strings.Join(sets, ", "))
	args = append(args, id)
	if _, err := s.db.ExecContext(ctx, q, args...); err != nil {
		return apperr.Storage(err)
	}
	return nil
}

// DeleteAssets removes the given assets and their loan history in one
// transaction. Any unknown id aborts the whole batch.
func (s *Store) DeleteAssets(ctx context.Context, ids []string) error {
	return platformdb.RunInTx(ctx, s.db, &sql.TxOptions{}, func(ctx context.Context, tx platformdb.DBTX) error {
		for _, id := range ids {
			var found string
			err := tx.QueryRowContext(ctx,
				`SELECT asset_id FROM assets WHERE asset_id = ? FOR UPDATE`, id).Scan(&found)
			if err == sql.ErrNoRows {
				return apperr.NotFound("asset not found: " + id)
			}
			if err != nil {
				return apperr.Storage(err)
			}

			// The FK cascades too; the explicit delete keeps the history
			// wipe visible and independent of schema configuration.
			if _, err := tx.ExecContext(ctx,
				`DELETE FROM checkouts WHERE asset_id = ?`, id); err != nil {
				return apperr.Storage(err)
			}
			if _, err := tx.ExecContext(ctx,
				`DELETE FROM assets WHERE asset_id = ?`, id); err != nil {
				return apperr.Storage(err)
			}
		}
		return nil
	})
}

func (s *Store) ListAssets(ctx context.Context, f AssetFilter, p Page) ([]Asset, int64, error) {
	sb := strings.Builder{}
	sb.WriteString(`
	SELECT asset_id, asset_name, asset_tag, location, category, status
	FROM assets
	WHERE 1=1`)

	args := []any{}
	if f.Query != "" {
		sb.WriteString(` AND (asset_name LIKE ? OR asset_tag LIKE ?)`)
		like := "%" + f.Query + "%"
		args = append(args, like, like)
	}
	if f.Status != "" {
		sb.WriteString(` AND status = ?`)
		args = append(args, f.Status)
	}

	order := "ASC"
	if strings.ToLower(p.Order) == "desc" {
		order = "DESC"
	}
	sb.WriteString(fmt.Sprintf(` ORDER BY asset_name %s`, order))

	if p.Limit <= 0 {
		p.Limit = 50
	}
	if p.Offset < 0 {
		p.Offset = 0
	}
	sb.WriteString(` LIMIT ? OFFSET ?`)
	args = append(args, p.Limit, p.Offset)

	rows, err := s.db.QueryContext(ctx, sb.String(), args...)
	if err != nil {
		return nil, 0, apperr.Storage(err)
	}
	defer rows.Close()

	var out []Asset
	for rows.Next() {
		var a Asset
		if err := rows.Scan(&a.AssetID, &a.Name, &a.Tag, &a.Location, &a.Category, &a.Status); err != nil {
			return nil, 0, apperr.Storage(err)
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, apperr.Storage(err)
	}

	cb := strings.Builder{}
	cb.WriteString(`SELECT COUNT(*) FROM assets WHERE 1=1`)
	argsCnt := []any{}
	if f.Query != "" {
		cb.WriteString(` AND (asset_name LIKE ? OR asset_tag LIKE ?)`)
		like := "%" + f.Query + "%"
		argsCnt = append(argsCnt, like, like)
	}
	if f.Status != "" {
		cb.WriteString(` AND status = ?`)
		argsCnt = append(argsCnt, f.Status)
	}
	var total int64
	if err := s.db.QueryRowContext(ctx, cb.String(), argsCnt...).Scan(&total); err != nil {
		return nil, 0, apperr.Storage(err)
	}

	return out, total, nil
}

// ListCategories feeds the category picker on the add/edit asset form.
func (s *Store) ListCategories(ctx context.Context) ([]string, error) {
	const q = `
	SELECT DISTINCT category FROM assets
	WHERE TRIM(category) <> ''
	ORDER BY category`
	rows, err := s.db.QueryContext(ctx, q)
	if err != nil {
		return nil, apperr.Storage(err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return nil, apperr.Storage(err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Storage(err)
	}
	return out, nil
}
