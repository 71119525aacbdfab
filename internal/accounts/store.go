package accounts

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	mysql "github.com/go-sql-driver/mysql"

	"SAC-backend/internal/platform/apperr"
	platformdb "SAC-backend/internal/platform/db"
)

type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store { return &Store{db: db} }

func (s *Store) Insert(ctx context.Context, a *Account) error {
	const q = `
	INSERT INTO accounts (account_id, first_name, last_name, email, password_hash, role)
	VALUES (?, ?, ?, ?, ?, ?)`
	_, err := s.db.ExecContext(ctx, q,
		a.AccountID, a.FirstName, a.LastName, a.Email, a.PasswordHash, a.Role)
	if err != nil {
		var me *mysql.MySQLError
		if errors.As(err, &me) && me.Number == 1062 {
			return apperr.Conflict("email already exists")
		}
		return apperr.Storage(err)
	}
	return nil
}

func (s *Store) GetByID(ctx context.Context, id string) (*Account, error) {
	const q = `
	SELECT account_id, first_name, last_name, email, password_hash, role
	FROM accounts WHERE account_id = ?`
	return s.scanOne(s.db.QueryRowContext(ctx, q, id))
}

// GetByEmail expects an already-folded email.
func (s *Store) GetByEmail(ctx context.Context, email string) (*Account, error) {
	const q = `
	SELECT account_id, first_name, last_name, email, password_hash, role
	FROM accounts WHERE email = ?`
	return s.scanOne(s.db.QueryRowContext(ctx, q, email))
}

func (s *Store) scanOne(row *sql.Row) (*Account, error) {
	var a Account
	err := row.Scan(&a.AccountID, &a.FirstName, &a.LastName, &a.Email, &a.PasswordHash, &a.Role)
	if err == sql.ErrNoRows {
		return nil, apperr.NotFound("account not found")
	}
	if err != nil {
		return nil, apperr.Storage(err)
	}
	return &a, nil
}

func (s *Store) List(ctx context.Context) ([]Account, error) {
	const q = `
	SELECT account_id, first_name, last_name, email, password_hash, role
	FROM accounts
	ORDER BY first_name, last_name`
	rows, err := s.db.QueryContext(ctx, q)
	if err != nil {
		return nil, apperr.Storage(err)
	}
	defer rows.Close()

	var out []Account
	for rows.Next() {
		var a Account
		if err := rows.Scan(&a.AccountID, &a.FirstName, &a.LastName, &a.Email, &a.PasswordHash, &a.Role); err != nil {
			return nil, apperr.Storage(err)
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Storage(err)
	}
	return out, nil
}

func (s *Store) UpdateProfile(ctx context.Context, id string, req UpdateProfileRequest) error {
	sets := []string{}
	args := []any{}
	if req.FirstName != nil {
		sets = append(sets, "first_name = ?")
		args = append(args, *req.FirstName)
	}
	if req.LastName != nil {
		sets = append(sets, "last_name = ?")
		args = append(args, *req.LastName)
	}
	if req.Email != nil {
		sets = append(sets, "email = ?")
		args = append(args, *req.Email)
	}
	if len(sets) == 0 {
		return nil
	}

	q := fmt.Sprintf(`UPDATE accounts SET %s WHERE account_id = ?`, strings.Join(sets, ", "))
	args = append(args, id)
	if _, err := s.db.ExecContext(ctx, q, args...); err != nil {
		var me *mysql.MySQLError
		if errors.As(err, &me) && me.Number == 1062 {
			return apperr.Conflict("email already exists")
		}
		return apperr.Storage(err)
	}
	return nil
}

func (s *Store) UpdatePassword(ctx context.Context, id string, hash string) error {
	const q = `UPDATE accounts SET password_hash = ? WHERE account_id = ?`
	if _, err := s.db.ExecContext(ctx, q, hash, id); err != nil {
		return apperr.Storage(err)
	}
	return nil
}

// SetRoleGuarded changes a role inside one transaction: the target row and
// the admin count are read under lock so two concurrent demotions cannot
// both slip past the last-admin check.
func (s *Store) SetRoleGuarded(ctx context.Context, id, role string) error {
	err := platformdb.RunInTx(ctx, s.db, &sql.TxOptions{}, func(ctx context.Context, tx platformdb.DBTX) error {
		current, err := s.lockRole(ctx, tx, id)
		if err != nil {
			return err
		}

		if current == RoleAdmin && role != RoleAdmin {
			if err := s.requireAnotherAdmin(ctx, tx, id); err != nil {
				return err
			}
		}

		_, err = tx.ExecContext(ctx, `UPDATE accounts SET role = ? WHERE account_id = ?`, role, id)
		return err
	})
	return wrapStorage(err)
}

// DeleteGuarded removes an account with the same transactional last-admin
// check as SetRoleGuarded.
func (s *Store) DeleteGuarded(ctx context.Context, id string) error {
	err := platformdb.RunInTx(ctx, s.db, &sql.TxOptions{}, func(ctx context.Context, tx platformdb.DBTX) error {
		current, err := s.lockRole(ctx, tx, id)
		if err != nil {
			return err
		}

		if current == RoleAdmin {
			if err := s.requireAnotherAdmin(ctx, tx, id); err != nil {
				return err
			}
		}

		_, err = tx.ExecContext(ctx, `DELETE FROM accounts WHERE account_id = ?`, id)
		return err
	})
	return wrapStorage(err)
}

func (s *Store) lockRole(ctx context.Context, tx platformdb.DBTX, id string) (string, error) {
	var role string
	err := tx.QueryRowContext(ctx,
		`SELECT role FROM accounts WHERE account_id = ? FOR UPDATE`, id).Scan(&role)
	if err == sql.ErrNoRows {
		return "", apperr.NotFound("account not found")
	}
	if err != nil {
		return "", err
	}
	return role, nil
}

func (s *Store) requireAnotherAdmin(ctx context.Context, tx platformdb.DBTX, excludeID string) error {
	var n int
	err := tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM accounts WHERE role = ? AND account_id <> ? FOR UPDATE`,
		RoleAdmin, excludeID).Scan(&n)
	if err != nil {
		return err
	}
	if n == 0 {
		return apperr.Invariant("cannot remove last admin")
	}
	return nil
}

func wrapStorage(err error) error {
	if err == nil {
		return nil
	}
	var e *apperr.Error
	if errors.As(err, &e) {
		return err
	}
	return apperr.Storage(err)
}
