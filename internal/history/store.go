package history

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

// ListHistory runs the joined projection in a read-only transaction so
// one call sees one committed state, never a half-applied batch.
func (s *Store) ListHistory(ctx context.Context, f Filter, p Page) ([]historyRow, int64, error) {
	var out []historyRow
	var total int64

	err := platformdb.ReadOnly(ctx, s.db, func(ctx context.Context, tx platformdb.DBTX) error {
		sb := strings.Builder{}
		sb.WriteString(`
		SELECT
		co.checkout_id,
		co.asset_id,
		COALESCE(NULLIF(TRIM(co.borrower_name), ''), 'Unknown') AS borrower_name,
		COALESCE(NULLIF(TRIM(co.borrower_id), ''), '-') AS borrower_id,
		COALESCE(NULLIF(TRIM(a.asset_tag), ''), '-') AS asset_tag,
		co.checkout_time,
		co.checkin_time,
		co.status
		FROM checkouts co
		JOIN assets a ON a.asset_id = co.asset_id
		WHERE 1=1`)

		args := []any{}
		if f.Query != "" {
			sb.WriteString(` AND (
				co.borrower_name LIKE ? OR
				co.borrower_id LIKE ? OR
				a.asset_tag LIKE ?
			)`)
			like := "%" + f.Query + "%"
			args = append(args, like, like, like)
		}
		if f.Status != "" {
			sb.WriteString(` AND co.status = ?`)
			args = append(args, f.Status)
		}

		order := "DESC"
		if strings.ToLower(p.Order) == "asc" {
			order = "ASC"
		}
		sb.WriteString(fmt.Sprintf(` ORDER BY co.checkout_time %s`, order))

		limit := p.Limit
		if limit <= 0 {
			limit = 50
		}
		offset := p.Offset
		if offset < 0 {
			offset = 0
		}
		sb.WriteString(` LIMIT ? OFFSET ?`)
		args = append(args, limit, offset)

		rows, err := tx.QueryContext(ctx, sb.String(), args...)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			var r historyRow
			if err := rows.Scan(
				&r.CheckoutID, &r.AssetID, &r.BorrowerName, &r.BorrowerID,
				&r.AssetTag, &r.CheckoutTime, &r.CheckinTime, &r.Status,
			); err != nil {
				return err
			}
			out = append(out, r)
		}
		if err := rows.Err(); err != nil {
			return err
		}

		cb := strings.Builder{}
		cb.WriteString(`SELECT COUNT(*) FROM checkouts co JOIN assets a ON a.asset_id = co.asset_id WHERE 1=1`)
		argsCnt := []any{}
		if f.Query != "" {
			cb.WriteString(` AND (co.borrower_name LIKE ? OR co.borrower_id LIKE ? OR a.asset_tag LIKE ?)`)
			like := "%" + f.Query + "%"
			argsCnt = append(argsCnt, like, like, like)
		}
		if f.Status != "" {
			cb.WriteString(` AND co.status = ?`)
			argsCnt = append(argsCnt, f.Status)
		}
		return tx.QueryRowContext(ctx, cb.String(), argsCnt...).Scan(&total)
	})
	if err != nil {
		return nil, 0, apperr.Storage(err)
	}

	return out, total, nil
}

// ListBorrowers returns distinct borrower names with the borrower id from
// each name's most recent loan.
func (s *Store) ListBorrowers(ctx context.Context, nameQuery string) ([]BorrowerSuggestion, error) {
	sb := strings.Builder{}
	sb.WriteString(`
	SELECT co.borrower_name, co.borrower_id
	FROM checkouts co
	JOIN (
		SELECT borrower_name, MAX(checkout_time) AS latest
		FROM checkouts
		WHERE TRIM(borrower_name) <> ''
		GROUP BY borrower_name
	) last ON last.borrower_name = co.borrower_name AND last.latest = co.checkout_time
	WHERE 1=1`)

	args := []any{}
	if nameQuery != "" {
		sb.WriteString(` AND co.borrower_name LIKE ?`)
		args = append(args, "%"+nameQuery+"%")
	}
	sb.WriteString(` GROUP BY co.borrower_name, co.borrower_id ORDER BY co.borrower_name`)

	rows, err := s.db.QueryContext(ctx, sb.String(), args...)
	if err != nil {
		return nil, apperr.Storage(err)
	}
	defer rows.Close()

	var out []BorrowerSuggestion
	for rows.Next() {
		var b BorrowerSuggestion
		if err := rows.Scan(&b.Name, &b.BorrowerID); err != nil {
			return nil, apperr.Storage(err)
		}
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Storage(err)
	}
	return out, nil
}
