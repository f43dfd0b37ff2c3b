package domain

// ShopperContext describes the storefront user a campaign list is being
// resolved for. The HTTP layer builds it from query parameters.
type ShopperContext struct {
	UserID   string   `json:"userId"`
	Region   string   `json:"region"`
	Segments []string `json:"segments"`
	Age      int      `json:"age"`
}
