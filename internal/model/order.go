package model

import (
	"time"
)

// AllCountries is the sentinel the dashboard sends when no country filter
// is applied.
const AllCountries = "全部国家"

type Order struct {
	ID           string    `db:"id" json:"id"`
	OrderTime    time.Time `db:"order_time" json:"orderTime"`
	Country      string    `db:"country" json:"country"`
	ASIN         string    `db:"asin" json:"asin"`
	Keywords     string    `db:"keywords" json:"keywords"`
	PositionPage int       `db:"position_page" json:"positionPage"`
	UnitPrice    float64   `db:"unit_price" json:"unitPrice"`
	HasGiftCard  bool      `db:"has_gift_card" json:"hasGiftCardImage"`
	BrandName    *string   `db:"brand_name" json:"brandName,omitempty"`
	StoreName    *string   `db:"store_name" json:"storeName,omitempty"`
	KeywordsCN   *string   `db:"product_keywords_cn" json:"productKeywordsChinese,omitempty"`
	TotalOrders  int       `db:"total_orders" json:"totalOrders"`
	DailyOrders  int       `db:"daily_orders" json:"dailyOrders"`
	Notes        *string   `db:"notes" json:"notes,omitempty"`
	CreatedAt    time.Time `db:"created_at" json:"createdAt"`
}

type CreateOrderParams struct {
	OrderTime    time.Time
	Country      string
	ASIN         string
	Keywords     string
	PositionPage int
	UnitPrice    float64
	HasGiftCard  bool
	BrandName    *string
	StoreName    *string
	KeywordsCN   *string
	TotalOrders  int
	DailyOrders  int
	Notes        *string
}

// UpdateOrderParams carries a partial update; nil fields are left untouched.
type UpdateOrderParams struct {
	OrderTime    *time.Time
	Country      *string
	ASIN         *string
	Keywords     *string
	PositionPage *int
	UnitPrice    *float64
	HasGiftCard  *bool
	BrandName    *string
	StoreName    *string
	KeywordsCN   *string
	TotalOrders  *int
	DailyOrders  *int
	Notes        *string
}

// OrderFilter is the set of optional predicates the dashboard can apply.
// Search matches asin, keywords and brand_name case-insensitively; Country
// is an exact match unless empty or the AllCountries sentinel; the date
// bounds are inclusive and apply to created_at.
type OrderFilter struct {
	Search   string
	Country  string
	DateFrom *time.Time
	DateTo   *time.Time
}

// HasDateBound reports whether either date bound is set; the export file
// name carries a "filtered" marker when true.
func (f OrderFilter) HasDateBound() bool {
	return f.DateFrom != nil || f.DateTo != nil
}

type OrderPage struct {
	Orders      []Order `json:"orders"`
	TotalCount  int     `json:"totalCount"`
	TotalPages  int     `json:"totalPages"`
	CurrentPage int     `json:"currentPage"`
}

type OrderStats struct {
	TotalOrders int `json:"totalOrders"`
	Today       int `json:"today"`
	Week        int `json:"week"`
	Countries   int `json:"countries"`
}
