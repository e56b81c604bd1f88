package domain

// StockItem is the on-hand quantity for one SKU.
type StockItem struct {
	SkuCode  string
	Quantity int32
}

// StockStatus answers whether a single SKU can be sold right now.
type StockStatus struct {
	SkuCode   string `json:"skuCode"`
	IsInStock bool   `json:"isInStock"`
}
