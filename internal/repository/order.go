package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/orderdesk/intake-server-go/internal/model"
)

// OrderCursor marks the position of the last row of an export batch. The
// next batch resumes strictly after it in (created_at DESC, id DESC) order.
type OrderCursor struct {
	CreatedAt time.Time
	ID        string
}

type OrderRepository interface {
	FindByID(ctx context.Context, id string) (*model.Order, error)
	FindPage(ctx context.Context, filter model.OrderFilter, limit, offset int) ([]model.Order, error)
	Count(ctx context.Context, filter model.OrderFilter) (int, error)
	// FindBatch returns up to limit matching orders after the cursor; a nil
	// cursor starts from the newest row. Used by export to stream in batches.
	FindBatch(ctx context.Context, filter model.OrderFilter, cursor *OrderCursor, limit int) ([]model.Order, error)
	Create(ctx context.Context, params model.CreateOrderParams) (*model.Order, error)
	Update(ctx context.Context, id string, params model.UpdateOrderParams) (*model.Order, error)
	// Delete physically removes the row and reports whether it existed.
	Delete(ctx context.Context, id string) (bool, error)
	CountSince(ctx context.Context, since time.Time) (int, error)
	DistinctCountries(ctx context.Context) ([]string, error)
}

type orderRepo struct {
	db *sqlx.DB
}

func NewOrderRepository(db *sqlx.DB) OrderRepository {
	return &orderRepo{db: db}
}

// filterClauses translates the optional filter predicates into SQL
// conditions, appending bind arguments as it goes. The same clauses back
// both the paginated listing and the export, so the two can never disagree
// about which rows match.
func filterClauses(filter model.OrderFilter, args *[]interface{}) []string {
	var conds []string

	if filter.Search != "" {
		*args = append(*args, "%"+filter.Search+"%")
		n := len(*args)
		conds = append(conds, fmt.Sprintf(
			"(asin ILIKE $%d OR keywords ILIKE $%d OR brand_name ILIKE $%d)", n, n, n))
	}

	if filter.Country != "" && filter.Country != model.AllCountries {
		*args = append(*args, filter.Country)
		conds = append(conds, fmt.Sprintf("country = $%d", len(*args)))
	}

	if filter.DateFrom != nil {
		*args = append(*args, *filter.DateFrom)
		conds = append(conds, fmt.Sprintf("created_at >= $%d", len(*args)))
	}

	if filter.DateTo != nil {
		*args = append(*args, *filter.DateTo)
		conds = append(conds, fmt.Sprintf("created_at <= $%d", len(*args)))
	}

	return conds
}

func whereClause(conds []string) string {
	if len(conds) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(conds, " AND ")
}

// Ordering is newest-first with the id as a deterministic tie-break, so
// rows created at the same timestamp cannot shift between pages.
const orderByNewest = " ORDER BY created_at DESC, id DESC"

func (r *orderRepo) FindByID(ctx context.Context, id string) (*model.Order, error) {
	var order model.Order
	err := r.db.GetContext(ctx, &order, `SELECT * FROM customer_orders WHERE id = $1`, id)
	return HandleNotFound(&order, err)
}

func (r *orderRepo) FindPage(ctx context.Context, filter model.OrderFilter, limit, offset int) ([]model.Order, error) {
	var args []interface{}
	query := `SELECT * FROM customer_orders` + whereClause(filterClauses(filter, &args)) + orderByNewest

	args = append(args, limit)
	query += fmt.Sprintf(" LIMIT $%d", len(args))
	args = append(args, offset)
	query += fmt.Sprintf(" OFFSET $%d", len(args))

	var orders []model.Order
	err := r.db.SelectContext(ctx, &orders, query, args...)
	return orders, err
}

func (r *orderRepo) Count(ctx context.Context, filter model.OrderFilter) (int, error) {
	var args []interface{}
	query := `SELECT COUNT(*) FROM customer_orders` + whereClause(filterClauses(filter, &args))

	var count int
	err := r.db.GetContext(ctx, &count, query, args...)
	return count, err
}

func (r *orderRepo) FindBatch(ctx context.Context, filter model.OrderFilter, cursor *OrderCursor, limit int) ([]model.Order, error) {
	var args []interface{}
	conds := filterClauses(filter, &args)

	if cursor != nil {
		args = append(args, cursor.CreatedAt, cursor.ID)
		conds = append(conds, fmt.Sprintf("(created_at, id) < ($%d, $%d)", len(args)-1, len(args)))
	}

	query := `SELECT * FROM customer_orders` + whereClause(conds) + orderByNewest
	args = append(args, limit)
	query += fmt.Sprintf(" LIMIT $%d", len(args))

	var orders []model.Order
	err := r.db.SelectContext(ctx, &orders, query, args...)
	return orders, err
}

func (r *orderRepo) Create(ctx context.Context, params model.CreateOrderParams) (*model.Order, error) {
	var order model.Order
	err := r.db.GetContext(ctx, &order, `
		INSERT INTO customer_orders
			(order_time, country, asin, keywords, position_page, unit_price,
			 has_gift_card, brand_name, store_name, product_keywords_cn,
			 total_orders, daily_orders, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING *
	`, params.OrderTime, params.Country, params.ASIN, params.Keywords,
		params.PositionPage, params.UnitPrice, params.HasGiftCard,
		params.BrandName, params.StoreName, params.KeywordsCN,
		params.TotalOrders, params.DailyOrders, params.Notes)
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *orderRepo) Update(ctx context.Context, id string, params model.UpdateOrderParams) (*model.Order, error) {
	var sets []string
	var args []interface{}

	set := func(column string, value interface{}) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if params.OrderTime != nil {
		set("order_time", *params.OrderTime)
	}
	if params.Country != nil {
		set("country", *params.Country)
	}
	if params.ASIN != nil {
		set("asin", *params.ASIN)
	}
	if params.Keywords != nil {
		set("keywords", *params.Keywords)
	}
	if params.PositionPage != nil {
		set("position_page", *params.PositionPage)
	}
	if params.UnitPrice != nil {
		set("unit_price", *params.UnitPrice)
	}
	if params.HasGiftCard != nil {
		set("has_gift_card", *params.HasGiftCard)
	}
	if params.BrandName != nil {
		set("brand_name", *params.BrandName)
	}
	if params.StoreName != nil {
		set("store_name", *params.StoreName)
	}
	if params.KeywordsCN != nil {
		set("product_keywords_cn", *params.KeywordsCN)
	}
	if params.TotalOrders != nil {
		set("total_orders", *params.TotalOrders)
	}
	if params.DailyOrders != nil {
		set("daily_orders", *params.DailyOrders)
	}
	if params.Notes != nil {
		set("notes", *params.Notes)
	}

	if len(sets) == 0 {
		return r.FindByID(ctx, id)
	}

	args = append(args, id)
	query := fmt.Sprintf(`
		UPDATE customer_orders SET %s
		WHERE id = $%d
		RETURNING *
	`, strings.Join(sets, ", "), len(args))

	var order model.Order
	err := r.db.GetContext(ctx, &order, query, args...)
	return HandleNotFound(&order, err)
}

func (r *orderRepo) Delete(ctx context.Context, id string) (bool, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM customer_orders WHERE id = $1`, id)
	if err != nil {
		return false, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

func (r *orderRepo) CountSince(ctx context.Context, since time.Time) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count, `
		SELECT COUNT(*) FROM customer_orders WHERE created_at >= $1
	`, since)
	return count, err
}

func (r *orderRepo) DistinctCountries(ctx context.Context) ([]string, error) {
	var countries []string
	err := r.db.SelectContext(ctx, &countries, `
		SELECT DISTINCT country FROM customer_orders ORDER BY country
	`)
	return countries, err
}
