package repository

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/orderdesk/intake-server-go/internal/model"
)

func TestFilterClauses(t *testing.T) {
	t.Run("empty filter produces no conditions", func(t *testing.T) {
		var args []interface{}
		conds := filterClauses(model.OrderFilter{}, &args)

		assert.Empty(t, conds)
		assert.Empty(t, args)
		assert.Equal(t, "", whereClause(conds))
	})

	t.Run("search matches three columns with one argument", func(t *testing.T) {
		var args []interface{}
		conds := filterClauses(model.OrderFilter{Search: "B001"}, &args)

		assert.Equal(t, []string{"(asin ILIKE $1 OR keywords ILIKE $1 OR brand_name ILIKE $1)"}, conds)
		assert.Equal(t, []interface{}{"%B001%"}, args)
	})

	t.Run("country sentinel is not a predicate", func(t *testing.T) {
		var args []interface{}
		conds := filterClauses(model.OrderFilter{Country: model.AllCountries}, &args)

		assert.Empty(t, conds)
		assert.Empty(t, args)
	})

	t.Run("country is an exact match", func(t *testing.T) {
		var args []interface{}
		conds := filterClauses(model.OrderFilter{Country: "美国"}, &args)

		assert.Equal(t, []string{"country = $1"}, conds)
		assert.Equal(t, []interface{}{"美国"}, args)
	})

	t.Run("combined predicates keep placeholder order", func(t *testing.T) {
		from := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
		to := time.Date(2025, 6, 30, 23, 59, 59, 0, time.UTC)

		var args []interface{}
		conds := filterClauses(model.OrderFilter{
			Search:   "lamp",
			Country:  "德国",
			DateFrom: &from,
			DateTo:   &to,
		}, &args)

		assert.Equal(t, []string{
			"(asin ILIKE $1 OR keywords ILIKE $1 OR brand_name ILIKE $1)",
			"country = $2",
			"created_at >= $3",
			"created_at <= $4",
		}, conds)
		assert.Equal(t, []interface{}{"%lamp%", "德国", from, to}, args)
		assert.Equal(t,
			" WHERE (asin ILIKE $1 OR keywords ILIKE $1 OR brand_name ILIKE $1) AND country = $2 AND created_at >= $3 AND created_at <= $4",
			whereClause(conds))
	})
}

func TestOrderByNewestHasTieBreak(t *testing.T) {
	// Identical timestamps must not let rows shift between pages.
	assert.Equal(t, " ORDER BY created_at DESC, id DESC", orderByNewest)
}
