package checkouts

import "time"

type CheckoutRequest struct {
	AssetIDs     []string `json:"asset_ids" binding:"required"`
	BorrowerName string   `json:"borrower_name" binding:"required"`
	BorrowerID   string   `json:"borrower_id" binding:"required"`
}

type CheckoutResponse struct {
	CheckoutIDs []string `json:"checkout_ids"`
}

type CheckinRequest struct {
	CheckoutIDs []string `json:"checkout_ids" binding:"required"`
}

type CheckinResponse struct {
	Returned int `json:"returned"`
}

type LoanResponse struct {
	CheckoutID   string     `json:"checkout_id"`
	AssetID      string     `json:"asset_id"`
	BorrowerName string     `json:"borrower_name"`
	BorrowerID   string     `json:"borrower_id"`
	CheckoutTime time.Time  `json:"checkout_time"`
	CheckinTime  *time.Time `json:"checkin_time,omitempty"`
	Status       string     `json:"status"`
}

type OpenLoanResponse struct {
	LoanResponse
	AssetName string `json:"asset_name"`
	AssetTag  string `json:"asset_tag"`
}

type Page struct {
	Limit  int
	Offset int
	Order  string
}

func toLoanResponse(m *Checkout) LoanResponse {
	resp := LoanResponse{
		CheckoutID:   m.CheckoutID,
		AssetID:      m.AssetID,
		BorrowerName: m.BorrowerName,
		BorrowerID:   m.BorrowerID,
		CheckoutTime: m.CheckoutTime,
		Status:       m.Status,
	}
	if m.CheckinTime.Valid {
		t := m.CheckinTime.Time
		resp.CheckinTime = &t
	}
	return resp
}
