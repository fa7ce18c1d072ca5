package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	apperrors "github.com/orderdesk/intake-server-go/internal/errors"
	"github.com/orderdesk/intake-server-go/internal/model"
	"github.com/orderdesk/intake-server-go/internal/service"
)

// OrderHandler is the public submission surface used by the customer form.
type OrderHandler struct {
	orderService *service.OrderService
}

func NewOrderHandler(orderService *service.OrderService) *OrderHandler {
	return &OrderHandler{orderService: orderService}
}

func (h *OrderHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Post("/", h.Create)
	return r
}

type createOrderRequest struct {
	OrderTime              string  `json:"orderTime"`
	Country                string  `json:"country"`
	ASIN                   string  `json:"asin"`
	Keywords               string  `json:"keywords"`
	PositionPage           int     `json:"positionPage"`
	UnitPrice              float64 `json:"unitPrice"`
	HasGiftCardImage       bool    `json:"hasGiftCardImage"`
	BrandName              string  `json:"brandName"`
	StoreName              string  `json:"storeName"`
	ProductKeywordsChinese string  `json:"productKeywordsChinese"`
	TotalOrders            int     `json:"totalOrders"`
	DailyOrders            int     `json:"dailyOrders"`
	Notes                  string  `json:"notes"`
}

// orderTimeLayouts accepts both full RFC 3339 timestamps and the value an
// HTML datetime-local input produces.
var orderTimeLayouts = []string{time.RFC3339, "2006-01-02T15:04"}

func parseOrderTime(s string) (time.Time, bool) {
	for _, layout := range orderTimeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func (req *createOrderRequest) validate() error {
	switch {
	case req.OrderTime == "":
		return apperrors.MissingRequired("orderTime")
	case req.Country == "":
		return apperrors.MissingRequired("country")
	case req.ASIN == "":
		return apperrors.MissingRequired("asin")
	case req.Keywords == "":
		return apperrors.MissingRequired("keywords")
	case req.PositionPage <= 0:
		return apperrors.MissingRequired("positionPage")
	case req.UnitPrice <= 0:
		return apperrors.MissingRequired("unitPrice")
	case req.TotalOrders <= 0:
		return apperrors.MissingRequired("totalOrders")
	case req.DailyOrders <= 0:
		return apperrors.MissingRequired("dailyOrders")
	}
	return nil
}

func nilIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func (h *OrderHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperrors.ValidationError("Invalid request body"))
		return
	}

	if err := req.validate(); err != nil {
		writeError(w, err)
		return
	}

	orderTime, ok := parseOrderTime(req.OrderTime)
	if !ok {
		writeError(w, apperrors.InvalidInput("orderTime", "expected an RFC 3339 timestamp"))
		return
	}

	order, err := h.orderService.Create(r.Context(), model.CreateOrderParams{
		OrderTime:    orderTime,
		Country:      req.Country,
		ASIN:         req.ASIN,
		Keywords:     req.Keywords,
		PositionPage: req.PositionPage,
		UnitPrice:    req.UnitPrice,
		HasGiftCard:  req.HasGiftCardImage,
		BrandName:    nilIfEmpty(req.BrandName),
		StoreName:    nilIfEmpty(req.StoreName),
		KeywordsCN:   nilIfEmpty(req.ProductKeywordsChinese),
		TotalOrders:  req.TotalOrders,
		DailyOrders:  req.DailyOrders,
		Notes:        nilIfEmpty(req.Notes),
	})
	if err != nil {
		log.Error().Err(err).Msg("failed to create order")
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, order)
}
