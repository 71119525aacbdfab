package history

import "time"

type EntryResponse struct {
	CheckoutID   string     `json:"checkout_id"`
	AssetID      string     `json:"asset_id"`
	BorrowerName string     `json:"borrower_name"`
	BorrowerID   string     `json:"borrower_id"`
	AssetTag     string     `json:"asset_tag"`
	CheckoutTime time.Time  `json:"checkout_time"`
	CheckinTime  *time.Time `json:"checkin_time,omitempty"`
	Status       string     `json:"status"`
}

// BorrowerSuggestion feeds the checkout form autocomplete: a known
// borrower name and the id used on their most recent loan.
type BorrowerSuggestion struct {
	Name       string `json:"name"`
	BorrowerID string `json:"borrower_id"`
}

type Page struct {
	Limit  int
	Offset int
	Order  string
}

func toEntry(r *historyRow) EntryResponse {
	e := EntryResponse{
		CheckoutID:   r.CheckoutID,
		AssetID:      r.AssetID,
		BorrowerName: r.BorrowerName,
		BorrowerID:   r.BorrowerID,
		AssetTag:     r.AssetTag,
		CheckoutTime: r.CheckoutTime,
		Status:       r.Status,
	}
	if r.CheckinTime.Valid {
		t := r.CheckinTime.Time
		e.CheckinTime = &t
	}
	return e
}
