package assets

// Asset status values. Available and Checked Out belong to the checkout
// ledger; the rest are only reachable through a direct registry edit.
const (
	StatusAvailable   = "Available"
	StatusCheckedOut  = "Checked Out"
	StatusMaintenance = "Maintenance"
	StatusBroken      = "Broken"
	StatusRetired     = "Retired"
)

func ValidStatus(s string) bool {
	switch s {
	case StatusAvailable, StatusCheckedOut, StatusMaintenance, StatusBroken, StatusRetired:
		return true
	}
	return false
}

// Asset is one row of the assets table.
type Asset struct {
	AssetID  string
	Name     string
	Tag      string
	Location string
	Category string
	Status   string
}

// AssetFilter narrows listings. Query is a substring match on name/tag.
type AssetFilter struct {
	Query  string
	Status string
}
