package assets

type CreateAssetRequest struct {
	Name     string  `json:"name" binding:"required"`
	Tag      string  `json:"tag" binding:"required"`
	Location string  `json:"location"`
	Category string  `json:"category"`
	Status   *string `json:"status,omitempty"`
}

// All fields optional; only the ones present are applied.
type UpdateAssetRequest struct {
	Name     *string `json:"name,omitempty"`
	Tag      *string `json:"tag,omitempty"`
	Location *string `json:"location,omitempty"`
	Category *string `json:"category,omitempty"`
	Status   *string `json:"status,omitempty"`
}

type DeleteAssetsRequest struct {
	AssetIDs []string `json:"asset_ids" binding:"required"`
}

type AssetResponse struct {
	AssetID  string `json:"asset_id"`
	Name     string `json:"name"`
	Tag      string `json:"tag"`
	Location string `json:"location"`
	Category string `json:"category"`
	Status   string `json:"status"`
}

type Page struct {
	Limit  int
	Offset int
	Order  string
}

func toResponse(a *Asset) AssetResponse {
	return AssetResponse{
		AssetID:  a.AssetID,
		Name:     a.Name,
		Tag:      a.Tag,
		Location: a.Location,
		Category: a.Category,
		Status:   a.Status,
	}
}
