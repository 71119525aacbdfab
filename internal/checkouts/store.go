package checkouts

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"SAC-backend/internal/assets"
	"SAC-backend/internal/platform/apperr"
	platformdb "SAC-backend/internal/platform/db"
)

type Store struct {
	db    *sql.DB
	clock Clock
	id    IDGen
}

func NewStore(db *sql.DB, clock Clock, id IDGen) *Store {
	return &Store{db: db, clock: clock, id: id}
}

// asAppErr keeps taxonomy errors intact and wraps anything else (driver
// errors, commit failures) as STORAGE.
func asAppErr(err error) error {
	if err == nil {
		return nil
	}
	var e *apperr.Error
	if errors.As(err, &e) {
		return err
	}
	return apperr.Storage(err)
}

// ExecCheckout runs the whole checkout batch in one transaction. Every
// asset row is locked and verified Available before anything is written,
// so an ineligible asset anywhere in the batch leaves the store untouched.
func (s *Store) ExecCheckout(ctx context.Context, assetIDs []string, borrowerName, borrowerID string) ([]string, error) {
	var created []string

	err := platformdb.RunInTx(ctx, s.db, &sql.TxOptions{}, func(ctx context.Context, tx platformdb.DBTX) error {
		// 1. Lock and validate every asset in the batch.
		for _, assetID := range assetIDs {
			var status string
			err := tx.QueryRowContext(ctx,
				`SELECT status FROM assets WHERE asset_id = ? FOR UPDATE`, assetID).Scan(&status)
			if err == sql.ErrNoRows {
				return apperr.Validation("asset not found: " + assetID)
			}
			if err != nil {
				return err
			}
			if status != assets.StatusAvailable {
				return apperr.Validation(fmt.Sprintf("asset %s is not available (status: %s)", assetID, status))
			}
		}

		// 2. Write loan rows and flip asset statuses. Each item gets its
		// own wall-clock stamp at the moment it is persisted.
		for _, assetID := range assetIDs {
			checkoutID := s.id.NewULID()
			now := s.clock.Now()

			if _, err := tx.ExecContext(ctx, `
				INSERT INTO checkouts
				(checkout_id, asset_id, borrower_name, borrower_id, checkout_time, status)
				VALUES (?, ?, ?, ?, ?, ?)`,
				checkoutID, assetID, borrowerName, borrowerID, now, StatusCheckedOut,
			); err != nil {
				return err
			}

			if _, err := tx.ExecContext(ctx,
				`UPDATE assets SET status = ? WHERE asset_id = ?`,
				assets.StatusCheckedOut, assetID,
			); err != nil {
				return err
			}

			created = append(created, checkoutID)
		}
		return nil
	})
	if err != nil {
		return nil, asAppErr(err)
	}
	return created, nil
}

// ExecCheckin closes the given loans in one transaction. Every loan must
// still be open or the whole batch fails untouched.
func (s *Store) ExecCheckin(ctx context.Context, checkoutIDs []string) (int, error) {
	count := 0

	err := platformdb.RunInTx(ctx, s.db, &sql.TxOptions{}, func(ctx context.Context, tx platformdb.DBTX) error {
		// 1. Lock and validate every loan row.
		assetByCheckout := make(map[string]string, len(checkoutIDs))
		for _, id := range checkoutIDs {
			var assetID, status string
			err := tx.QueryRowContext(ctx,
				`SELECT asset_id, status FROM checkouts WHERE checkout_id = ? FOR UPDATE`, id).
				Scan(&assetID, &status)
			if err == sql.ErrNoRows {
				return apperr.Validation("loan record not found: " + id)
			}
			if err != nil {
				return err
			}
			if status != StatusCheckedOut {
				return apperr.Validation("loan record already returned: " + id)
			}
			assetByCheckout[id] = assetID
		}

		// 2. Close each loan with its own stamp and free the asset.
		for _, id := range checkoutIDs {
			now := s.clock.Now()
			if _, err := tx.ExecContext(ctx, `
				UPDATE checkouts SET status = ?, checkin_time = ?
				WHERE checkout_id = ?`,
				StatusReturned, now, id,
			); err != nil {
				return err
			}

			if _, err := tx.ExecContext(ctx,
				`UPDATE assets SET status = ? WHERE asset_id = ?`,
				assets.StatusAvailable, assetByCheckout[id],
			); err != nil {
				return err
			}
			count++
		}
		return nil
	})
	if err != nil {
		return 0, asAppErr(err)
	}
	return count, nil
}

// GetOpenLoanByAsset returns the at-most-one open loan for an asset.
func (s *Store) GetOpenLoanByAsset(ctx context.Context, assetID string) (*Checkout, error) {
	const q = `
	SELECT checkout_id, asset_id, borrower_name, borrower_id, checkout_time, checkin_time, status
	FROM checkouts
	WHERE asset_id = ? AND status = ?
	LIMIT 1`

	var m Checkout
	err := s.db.QueryRowContext(ctx, q, assetID, StatusCheckedOut).Scan(
		&m.CheckoutID, &m.AssetID, &m.BorrowerName, &m.BorrowerID,
		&m.CheckoutTime, &m.CheckinTime, &m.Status,
	)
	if err == sql.ErrNoRows {
		return nil, apperr.NotFound("no open loan for asset")
	}
	if err != nil {
		return nil, apperr.Storage(err)
	}
	return &m, nil
}

// ListOpenLoans feeds the check-in table: open loans joined with asset
// name/tag, newest first, searchable across asset and borrower fields.
func (s *Store) ListOpenLoans(ctx context.Context, query string, p Page) ([]openLoanRow, int64, error) {
	sb := strings.Builder{}
	sb.WriteString(`
	SELECT
	co.checkout_id, co.asset_id, co.borrower_name, co.borrower_id,
	co.checkout_time, co.checkin_time, co.status,
	a.asset_name, a.asset_tag
	FROM checkouts co
	JOIN assets a ON a.asset_id = co.asset_id
	WHERE co.status = ?`)

	args := []any{StatusCheckedOut}
	if query != "" {
		sb.WriteString(` AND (
			a.asset_name LIKE ? OR
			a.asset_tag LIKE ? OR
			co.borrower_name LIKE ? OR
			co.borrower_id LIKE ?
		)`)
		like := "%" + query + "%"
		args = append(args, like, like, like, like)
	}

	order := "DESC"
	if strings.ToLower(p.Order) == "asc" {
		order = "ASC"
	}
	sb.WriteString(fmt.Sprintf(` ORDER BY co.checkout_time %s`, order))

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

	var out []openLoanRow
	for rows.Next() {
		var r openLoanRow
		if err := rows.Scan(
			&r.CheckoutID, &r.AssetID, &r.BorrowerName, &r.BorrowerID,
			&r.CheckoutTime, &r.CheckinTime, &r.Status,
			&r.AssetName, &r.AssetTag,
		); err != nil {
			return nil, 0, apperr.Storage(err)
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, apperr.Storage(err)
	}

	cb := strings.Builder{}
	cb.WriteString(`SELECT COUNT(*) FROM checkouts co JOIN assets a ON a.asset_id = co.asset_id WHERE co.status = ?`)
	argsCnt := []any{StatusCheckedOut}
	if query != "" {
		cb.WriteString(` AND (a.asset_name LIKE ? OR a.asset_tag LIKE ? OR co.borrower_name LIKE ? OR co.borrower_id LIKE ?)`)
		like := "%" + query + "%"
		argsCnt = append(argsCnt, like, like, like, like)
	}
	var total int64
	if err := s.db.QueryRowContext(ctx, cb.String(), argsCnt...).Scan(&total); err != nil {
		return nil, 0, apperr.Storage(err)
	}

	return out, total, nil
}
