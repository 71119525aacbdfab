package checkouts

import (
	"context"
	"database/sql"
	"fmt"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"SAC-backend/internal/platform/apperr"
)

// stepClock advances one second per call so each batch item gets its own
// stamp.
type stepClock struct {
	t time.Time
	n int
}

func (c *stepClock) Now() time.Time {
	now := c.t.Add(time.Duration(c.n) * time.Second)
	c.n++
	return now
}

type seqIDGen struct{ n int }

func (g *seqIDGen) NewULID() string {
	g.n++
	return fmt.Sprintf("01TESTCHECKOUT%012d", g.n)
}

func setupService(t *testing.T) (*Service, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	clock := &stepClock{t: time.Date(2025, 3, 10, 14, 0, 0, 0, time.UTC)}
	return newServiceWith(db, clock, &seqIDGen{}), mock
}

const (
	selectAssetStatus   = `SELECT status FROM assets WHERE asset_id = \? FOR UPDATE`
	insertCheckout      = `INSERT INTO checkouts`
	updateAssetStatus   = `UPDATE assets SET status = \? WHERE asset_id = \?`
	selectCheckoutByID  = `SELECT asset_id, status FROM checkouts WHERE checkout_id = \? FOR UPDATE`
	updateCheckoutClose = `UPDATE checkouts SET status = \?, checkin_time = \?`
)

func TestCheckout_CreatesOneLoanPerAsset(t *testing.T) {
	svc, mock := setupService(t)

	mock.ExpectBegin()
	mock.ExpectQuery(selectAssetStatus).WithArgs("A1").
		WillReturnRows(sqlmock.NewRows([]string{"status"}).AddRow("Available"))
	mock.ExpectQuery(selectAssetStatus).WithArgs("A2").
		WillReturnRows(sqlmock.NewRows([]string{"status"}).AddRow("Available"))

	mock.ExpectExec(insertCheckout).
		WithArgs("01TESTCHECKOUT000000000001", "A1", "Jane", "S123", sqlmock.AnyArg(), StatusCheckedOut).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(updateAssetStatus).WithArgs("Checked Out", "A1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(insertCheckout).
		WithArgs("01TESTCHECKOUT000000000002", "A2", "Jane", "S123", sqlmock.AnyArg(), StatusCheckedOut).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(updateAssetStatus).WithArgs("Checked Out", "A2").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	res, err := svc.Checkout(context.Background(), CheckoutRequest{
		AssetIDs:     []string{"A1", "A2"},
		BorrowerName: "Jane",
		BorrowerID:   "S123",
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"01TESTCHECKOUT000000000001", "01TESTCHECKOUT000000000002"}, res.CheckoutIDs)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCheckout_IneligibleAssetFailsWholeBatch(t *testing.T) {
	svc, mock := setupService(t)

	// A is available, B is already out: nothing may be written.
	mock.ExpectBegin()
	mock.ExpectQuery(selectAssetStatus).WithArgs("A").
		WillReturnRows(sqlmock.NewRows([]string{"status"}).AddRow("Available"))
	mock.ExpectQuery(selectAssetStatus).WithArgs("B").
		WillReturnRows(sqlmock.NewRows([]string{"status"}).AddRow("Checked Out"))
	mock.ExpectRollback()

	_, err := svc.Checkout(context.Background(), CheckoutRequest{
		AssetIDs:     []string{"A", "B"},
		BorrowerName: "Jane",
		BorrowerID:   "S123",
	})
	require.Error(t, err)
	assert.True(t, apperr.IsCode(err, apperr.CodeValidation))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCheckout_UnknownAssetFailsWholeBatch(t *testing.T) {
	svc, mock := setupService(t)

	mock.ExpectBegin()
	mock.ExpectQuery(selectAssetStatus).WithArgs("GHOST").
		WillReturnError(sql.ErrNoRows)
	mock.ExpectRollback()

	_, err := svc.Checkout(context.Background(), CheckoutRequest{
		AssetIDs:     []string{"GHOST"},
		BorrowerName: "Jane",
		BorrowerID:   "S123",
	})
	require.Error(t, err)
	assert.True(t, apperr.IsCode(err, apperr.CodeValidation))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCheckout_RequiresBorrowerFields(t *testing.T) {
	svc, mock := setupService(t)

	_, err := svc.Checkout(context.Background(), CheckoutRequest{
		AssetIDs:     []string{"A"},
		BorrowerName: "  ",
		BorrowerID:   "S123",
	})
	require.Error(t, err)
	assert.True(t, apperr.IsCode(err, apperr.CodeValidation))

	_, err = svc.Checkout(context.Background(), CheckoutRequest{
		AssetIDs:     []string{"A"},
		BorrowerName: "Jane",
		BorrowerID:   "",
	})
	require.Error(t, err)
	assert.True(t, apperr.IsCode(err, apperr.CodeValidation))

	// nothing touched the store
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCheckout_DedupesRequestedIDs(t *testing.T) {
	svc, mock := setupService(t)

	mock.ExpectBegin()
	mock.ExpectQuery(selectAssetStatus).WithArgs("A").
		WillReturnRows(sqlmock.NewRows([]string{"status"}).AddRow("Available"))
	mock.ExpectExec(insertCheckout).
		WithArgs("01TESTCHECKOUT000000000001", "A", "Jane", "S123", sqlmock.AnyArg(), StatusCheckedOut).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(updateAssetStatus).WithArgs("Checked Out", "A").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	res, err := svc.Checkout(context.Background(), CheckoutRequest{
		AssetIDs:     []string{"A", "A", "A"},
		BorrowerName: "Jane",
		BorrowerID:   "S123",
	})
	require.NoError(t, err)
	assert.Len(t, res.CheckoutIDs, 1)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCheckin_ClosesLoanAndFreesAsset(t *testing.T) {
	svc, mock := setupService(t)

	mock.ExpectBegin()
	mock.ExpectQuery(selectCheckoutByID).WithArgs("L1").
		WillReturnRows(sqlmock.NewRows([]string{"asset_id", "status"}).AddRow("A1", "Checked Out"))
	mock.ExpectExec(updateCheckoutClose).
		WithArgs(StatusReturned, sqlmock.AnyArg(), "L1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(updateAssetStatus).WithArgs("Available", "A1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	res, err := svc.Checkin(context.Background(), CheckinRequest{CheckoutIDs: []string{"L1"}})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Returned)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCheckin_AlreadyReturnedFailsWholeBatch(t *testing.T) {
	svc, mock := setupService(t)

	// second checkin of the same loan: nothing may change, the original
	// checkin_time stays as written.
	mock.ExpectBegin()
	mock.ExpectQuery(selectCheckoutByID).WithArgs("L1").
		WillReturnRows(sqlmock.NewRows([]string{"asset_id", "status"}).AddRow("A1", "Returned"))
	mock.ExpectRollback()

	_, err := svc.Checkin(context.Background(), CheckinRequest{CheckoutIDs: []string{"L1"}})
	require.Error(t, err)
	assert.True(t, apperr.IsCode(err, apperr.CodeValidation))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCheckin_UnknownLoanFailsWholeBatch(t *testing.T) {
	svc, mock := setupService(t)

	mock.ExpectBegin()
	mock.ExpectQuery(selectCheckoutByID).WithArgs("L1").
		WillReturnRows(sqlmock.NewRows([]string{"asset_id", "status"}).AddRow("A1", "Checked Out"))
	mock.ExpectQuery(selectCheckoutByID).WithArgs("GHOST").
		WillReturnError(sql.ErrNoRows)
	mock.ExpectRollback()

	_, err := svc.Checkin(context.Background(), CheckinRequest{CheckoutIDs: []string{"L1", "GHOST"}})
	require.Error(t, err)
	assert.True(t, apperr.IsCode(err, apperr.CodeValidation))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOpenLoanFor_ReturnsOpenLoan(t *testing.T) {
	svc, mock := setupService(t)

	checkedOut := time.Date(2025, 3, 10, 9, 30, 0, 0, time.UTC)
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT checkout_id, asset_id, borrower_name, borrower_id, checkout_time, checkin_time, status
	FROM checkouts`)).
		WithArgs("A1", StatusCheckedOut).
		WillReturnRows(sqlmock.NewRows([]string{
			"checkout_id", "asset_id", "borrower_name", "borrower_id", "checkout_time", "checkin_time", "status",
		}).AddRow("L1", "A1", "Jane", "S123", checkedOut, nil, "Checked Out"))

	res, err := svc.OpenLoanFor(context.Background(), "A1")
	require.NoError(t, err)
	assert.Equal(t, "L1", res.CheckoutID)
	assert.Equal(t, checkedOut, res.CheckoutTime)
	assert.Nil(t, res.CheckinTime)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOpenLoanFor_NoneIsNotFound(t *testing.T) {
	svc, mock := setupService(t)

	mock.ExpectQuery(`SELECT checkout_id`).WithArgs("A1", StatusCheckedOut).
		WillReturnError(sql.ErrNoRows)

	_, err := svc.OpenLoanFor(context.Background(), "A1")
	require.Error(t, err)
	assert.True(t, apperr.IsCode(err, apperr.CodeNotFound))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStepClock_StampsEachItemSeparately(t *testing.T) {
	c := &stepClock{t: time.Date(2025, 3, 10, 14, 0, 0, 0, time.UTC)}
	first := c.Now()
	second := c.Now()
	assert.True(t, second.After(first))
}
