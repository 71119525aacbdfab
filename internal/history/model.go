package history

import (
	"database/sql"
	"time"
)

// historyRow is one joined (loan record, asset tag) projection.
type historyRow struct {
	CheckoutID   string
	AssetID      string
	BorrowerName string
	BorrowerID   string
	AssetTag     string
	CheckoutTime time.Time
	CheckinTime  sql.NullTime
	Status       string
}

// Filter narrows the history listing. Query matches borrower name/id and
// asset tag; Status is a loan status literal.
type Filter struct {
	Query  string
	Status string
}
