package handler

import (
	"net/http"
	"time"

	apperrors "github.com/orderdesk/intake-server-go/internal/errors"
	"github.com/orderdesk/intake-server-go/internal/model"
)

const dateLayout = "2006-01-02"

// parseOrderFilter reads the optional filter parameters shared by the
// listing and export endpoints. Date bounds are whole days: dateFrom is
// taken at 00:00:00 and dateTo at 23:59:59, both inclusive.
func parseOrderFilter(r *http.Request) (model.OrderFilter, error) {
	q := r.URL.Query()

	filter := model.OrderFilter{
		Search:  q.Get("search"),
		Country: q.Get("country"),
	}

	if v := q.Get("dateFrom"); v != "" {
		t, err := time.Parse(dateLayout, v)
		if err != nil {
			return filter, apperrors.InvalidInput("dateFrom", "expected YYYY-MM-DD")
		}
		filter.DateFrom = &t
	}

	if v := q.Get("dateTo"); v != "" {
		t, err := time.Parse(dateLayout, v)
		if err != nil {
			return filter, apperrors.InvalidInput("dateTo", "expected YYYY-MM-DD")
		}
		endOfDay := t.Add(23*time.Hour + 59*time.Minute + 59*time.Second)
		filter.DateTo = &endOfDay
	}

	return filter, nil
}
