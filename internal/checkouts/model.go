package checkouts

import (
	"database/sql"
	"time"
)

// Loan record status values.
const (
	StatusCheckedOut = "Checked Out"
	StatusReturned   = "Returned"
)

// Checkout is one loan record: a single checkout-to-checkin episode for
// one asset and one borrower.
type Checkout struct {
	CheckoutID   string
	AssetID      string
	BorrowerName string
	BorrowerID   string
	CheckoutTime time.Time
	CheckinTime  sql.NullTime
	Status       string
}

// openLoanRow joins a loan with its asset for the check-in table.
type openLoanRow struct {
	Checkout
	AssetName string
	AssetTag  string
}
