package assets

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"SAC-backend/internal/platform/apperr"
)

func setupService(t *testing.T) (*Service, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewService(db), mock
}

const (
	insertAsset     = `INSERT INTO assets`
	selectAssetByID = `SELECT asset_id, asset_name, asset_tag, location, category, status FROM assets WHERE asset_id = \?`
	lockAssetID     = `SELECT asset_id FROM assets WHERE asset_id = \? FOR UPDATE`
	deleteCheckouts = `DELETE FROM checkouts WHERE asset_id = \?`
	deleteAsset     = `DELETE FROM assets WHERE asset_id = \?`
)

func assetRow(id, name, tag, status string) *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"asset_id", "asset_name", "asset_tag", "location", "category", "status",
	}).AddRow(id, name, tag, "Room 101", "Laptop", status)
}

func TestCreateAsset_DefaultsToAvailable(t *testing.T) {
	svc, mock := setupService(t)

	mock.ExpectExec(insertAsset).
		WithArgs(sqlmock.AnyArg(), "MacBook Air", "SAC-0042", "Room 101", "Laptop", StatusAvailable).
		WillReturnResult(sqlmock.NewResult(0, 1))

	res, err := svc.CreateAsset(context.Background(), CreateAssetRequest{
		Name:     " MacBook Air ",
		Tag:      "SAC-0042",
		Location: "Room 101",
		Category: "Laptop",
	})
	require.NoError(t, err)
	assert.Equal(t, StatusAvailable, res.Status)
	assert.Equal(t, "MacBook Air", res.Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateAsset_RequiresNameAndTag(t *testing.T) {
	svc, mock := setupService(t)

	_, err := svc.CreateAsset(context.Background(), CreateAssetRequest{Name: "  ", Tag: "SAC-1"})
	require.Error(t, err)
	assert.True(t, apperr.IsCode(err, apperr.CodeValidation))

	_, err = svc.CreateAsset(context.Background(), CreateAssetRequest{Name: "Projector", Tag: ""})
	require.Error(t, err)
	assert.True(t, apperr.IsCode(err, apperr.CodeValidation))

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateAsset_RejectsUnknownStatus(t *testing.T) {
	svc, _ := setupService(t)

	bad := "Lost"
	_, err := svc.CreateAsset(context.Background(), CreateAssetRequest{
		Name:   "Projector",
		Tag:    "SAC-2",
		Status: &bad,
	})
	require.Error(t, err)
	assert.True(t, apperr.IsCode(err, apperr.CodeValidation))
}

func TestUpdateAsset_UnknownIDIsNotFound(t *testing.T) {
	svc, mock := setupService(t)

	name := "Projector"
	mock.ExpectQuery(selectAssetByID).WithArgs("GHOST").
		WillReturnError(sql.ErrNoRows)

	_, err := svc.UpdateAsset(context.Background(), "GHOST", UpdateAssetRequest{Name: &name})
	require.Error(t, err)
	assert.True(t, apperr.IsCode(err, apperr.CodeNotFound))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateAsset_PartialEdit(t *testing.T) {
	svc, mock := setupService(t)

	status := StatusMaintenance
	mock.ExpectQuery(selectAssetByID).WithArgs("A1").
		WillReturnRows(assetRow("A1", "MacBook Air", "SAC-0042", StatusAvailable))
	mock.ExpectExec(`UPDATE assets SET status = \? WHERE asset_id = \?`).
		WithArgs(StatusMaintenance, "A1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(selectAssetByID).WithArgs("A1").
		WillReturnRows(assetRow("A1", "MacBook Air", "SAC-0042", StatusMaintenance))

	res, err := svc.UpdateAsset(context.Background(), "A1", UpdateAssetRequest{Status: &status})
	require.NoError(t, err)
	assert.Equal(t, StatusMaintenance, res.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteAssets_RemovesLoanHistoryToo(t *testing.T) {
	svc, mock := setupService(t)

	mock.ExpectBegin()
	mock.ExpectQuery(lockAssetID).WithArgs("A1").
		WillReturnRows(sqlmock.NewRows([]string{"asset_id"}).AddRow("A1"))
	mock.ExpectExec(deleteCheckouts).WithArgs("A1").
		WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectExec(deleteAsset).WithArgs("A1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := svc.DeleteAsset(context.Background(), "A1")
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteAssets_UnknownIDAbortsBatch(t *testing.T) {
	svc, mock := setupService(t)

	mock.ExpectBegin()
	mock.ExpectQuery(lockAssetID).WithArgs("A1").
		WillReturnRows(sqlmock.NewRows([]string{"asset_id"}).AddRow("A1"))
	mock.ExpectExec(deleteCheckouts).WithArgs("A1").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(deleteAsset).WithArgs("A1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(lockAssetID).WithArgs("GHOST").
		WillReturnError(sql.ErrNoRows)
	mock.ExpectRollback()

	err := svc.DeleteAssets(context.Background(), []string{"A1", "GHOST"})
	require.Error(t, err)
	assert.True(t, apperr.IsCode(err, apperr.CodeNotFound))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListAssets_RejectsUnknownStatusFilter(t *testing.T) {
	svc, _ := setupService(t)

	_, _, err := svc.ListAssets(context.Background(), AssetFilter{Status: "Lost"}, Page{})
	require.Error(t, err)
	assert.True(t, apperr.IsCode(err, apperr.CodeValidation))
}

func TestListAssets_AppliesFilterAndPaging(t *testing.T) {
	svc, mock := setupService(t)

	mock.ExpectQuery(`SELECT asset_id, asset_name, asset_tag, location, category, status FROM assets WHERE 1=1 AND \(asset_name LIKE \? OR asset_tag LIKE \?\) AND status = \? ORDER BY asset_name ASC LIMIT \? OFFSET \?`).
		WithArgs("%mac%", "%mac%", StatusAvailable, 10, 0).
		WillReturnRows(assetRow("A1", "MacBook Air", "SAC-0042", StatusAvailable))
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM assets WHERE 1=1`).
		WithArgs("%mac%", "%mac%", StatusAvailable).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	items, total, err := svc.ListAssets(context.Background(),
		AssetFilter{Query: "mac", Status: StatusAvailable}, Page{Limit: 10})
	require.NoError(t, err)
	assert.Len(t, items, 1)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, "MacBook Air", items[0].Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListCategories(t *testing.T) {
	svc, mock := setupService(t)

	mock.ExpectQuery(`SELECT DISTINCT category FROM assets`).
		WillReturnRows(sqlmock.NewRows([]string{"category"}).AddRow("Camera").AddRow("Laptop"))

	out, err := svc.ListCategories(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"Camera", "Laptop"}, out)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestValidStatus(t *testing.T) {
	for _, s := range []string{StatusAvailable, StatusCheckedOut, StatusMaintenance, StatusBroken, StatusRetired} {
		assert.True(t, ValidStatus(s), s)
	}
	assert.False(t, ValidStatus("Lost"))
	assert.False(t, ValidStatus(""))
}
