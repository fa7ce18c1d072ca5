package handler

import (
	"encoding/json"
	"net/http"
	"net/url"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/orderdesk/intake-server-go/internal/audit"
	apperrors "github.com/orderdesk/intake-server-go/internal/errors"
	"github.com/orderdesk/intake-server-go/internal/export"
	"github.com/orderdesk/intake-server-go/internal/middleware"
	"github.com/orderdesk/intake-server-go/internal/model"
	"github.com/orderdesk/intake-server-go/internal/service"
	"github.com/orderdesk/intake-server-go/internal/util"
)

type AdminHandler struct {
	authService  *service.AuthService
	orderService *service.OrderService
	guard        *middleware.AdminGuard
	loginLimiter *middleware.LoginRateLimiter
	isProduction bool
}

func NewAdminHandler(
	authService *service.AuthService,
	orderService *service.OrderService,
	guard *middleware.AdminGuard,
	loginLimiter *middleware.LoginRateLimiter,
	isProduction bool,
) *AdminHandler {
	return &AdminHandler{
		authService:  authService,
		orderService: orderService,
		guard:        guard,
		loginLimiter: loginLimiter,
		isProduction: isProduction,
	}
}

func (h *AdminHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.With(h.loginLimiter.Handler).Post("/api/login", h.Login)
	r.Post("/api/logout", h.Logout)

	r.Group(func(r chi.Router) {
		r.Use(h.guard.Handler)
		r.Get("/api/stats", h.Stats)
		r.Get("/api/countries", h.ListCountries)

		r.Get("/api/orders", h.ListOrders)
		r.Put("/api/orders", h.UpdateOrder)
		r.Delete("/api/orders", h.DeleteOrder)

		r.Get("/api/export", h.Export)
	})

	return r
}

func (h *AdminHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperrors.ValidationError("Invalid request body"))
		return
	}
	if req.Username == "" {
		writeError(w, apperrors.MissingRequired("username"))
		return
	}
	if req.Password == "" {
		writeError(w, apperrors.MissingRequired("password"))
		return
	}

	identity, sessionToken, err := h.authService.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		log.Error().Err(err).Msg("admin login error")
		writeError(w, err)
		return
	}

	if identity == nil {
		audit.LogFromRequest(r, audit.Event{
			Type:     audit.EventLoginFailure,
			Username: req.Username,
		})
		writeError(w, apperrors.Unauthorized("Invalid username or password"))
		return
	}

	audit.LogFromRequest(r, audit.Event{
		Type:     audit.EventLoginSuccess,
		AdminID:  identity.ID,
		Username: identity.Username,
	})

	middleware.SetSessionCookie(w, middleware.AdminTokenCookie, sessionToken, h.isProduction)
	writeJSON(w, http.StatusOK, map[string]any{
		"admin": identity,
	})
}

func (h *AdminHandler) Logout(w http.ResponseWriter, r *http.Request) {
	audit.LogFromRequest(r, audit.Event{Type: audit.EventLogout})

	// No server-side state to revoke; clearing the cookie is the logout.
	middleware.ClearSessionCookie(w, middleware.AdminTokenCookie)
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (h *AdminHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.orderService.Stats(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("failed to get stats")
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, stats)
}

func (h *AdminHandler) ListCountries(w http.ResponseWriter, r *http.Request) {
	countries, err := h.orderService.Countries(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("failed to list countries")
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"countries": countries})
}

func (h *AdminHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	filter, err := parseOrderFilter(r)
	if err != nil {
		writeError(w, err)
		return
	}
	p := ParsePagination(r)

	page, err := h.orderService.List(r.Context(), filter, p.Page, p.Limit)
	if err != nil {
		log.Error().Err(err).Msg("failed to list orders")
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, page)
}

type updateOrderRequest struct {
	ID                     string   `json:"id"`
	OrderTime              *string  `json:"orderTime"`
	Country                *string  `json:"country"`
	ASIN                   *string  `json:"asin"`
	Keywords               *string  `json:"keywords"`
	PositionPage           *int     `json:"positionPage"`
	UnitPrice              *float64 `json:"unitPrice"`
	HasGiftCardImage       *bool    `json:"hasGiftCardImage"`
	BrandName              *string  `json:"brandName"`
	StoreName              *string  `json:"storeName"`
	ProductKeywordsChinese *string  `json:"productKeywordsChinese"`
	TotalOrders            *int     `json:"totalOrders"`
	DailyOrders            *int     `json:"dailyOrders"`
	Notes                  *string  `json:"notes"`
}

func (h *AdminHandler) UpdateOrder(w http.ResponseWriter, r *http.Request) {
	var req updateOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperrors.ValidationError("Invalid request body"))
		return
	}
	if req.ID == "" {
		writeError(w, apperrors.MissingRequired("id"))
		return
	}
	if !util.IsValidUUID(req.ID) {
		writeError(w, apperrors.InvalidInput("id", "expected a UUID"))
		return
	}

	params := model.UpdateOrderParams{
		Country:      req.Country,
		ASIN:         req.ASIN,
		Keywords:     req.Keywords,
		PositionPage: req.PositionPage,
		UnitPrice:    req.UnitPrice,
		HasGiftCard:  req.HasGiftCardImage,
		BrandName:    req.BrandName,
		StoreName:    req.StoreName,
		KeywordsCN:   req.ProductKeywordsChinese,
		TotalOrders:  req.TotalOrders,
		DailyOrders:  req.DailyOrders,
		Notes:        req.Notes,
	}

	if req.OrderTime != nil {
		t, ok := parseOrderTime(*req.OrderTime)
		if !ok {
			writeError(w, apperrors.InvalidInput("orderTime", "expected an RFC 3339 timestamp"))
			return
		}
		params.OrderTime = &t
	}

	order, err := h.orderService.Update(r.Context(), req.ID, params)
	if err != nil {
		log.Error().Err(err).Msg("failed to update order")
		writeError(w, err)
		return
	}
	if order == nil {
		writeError(w, apperrors.NotFound("Order"))
		return
	}

	if identity := middleware.GetAdminIdentity(r.Context()); identity != nil {
		audit.LogFromRequest(r, audit.Event{
			Type:     audit.EventOrderUpdate,
			AdminID:  identity.ID,
			Username: identity.Username,
			Details:  map[string]interface{}{"order_id": order.ID},
		})
	}

	writeJSON(w, http.StatusOK, order)
}

func (h *AdminHandler) DeleteOrder(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("id")
	if id == "" {
		writeError(w, apperrors.MissingRequired("id"))
		return
	}
	if !util.IsValidUUID(id) {
		writeError(w, apperrors.InvalidInput("id", "expected a UUID"))
		return
	}

	existed, err := h.orderService.Delete(r.Context(), id)
	if err != nil {
		log.Error().Err(err).Msg("failed to delete order")
		writeError(w, err)
		return
	}
	if !existed {
		writeError(w, apperrors.NotFound("Order"))
		return
	}

	if identity := middleware.GetAdminIdentity(r.Context()); identity != nil {
		audit.LogFromRequest(r, audit.Event{
			Type:     audit.EventOrderDelete,
			AdminID:  identity.ID,
			Username: identity.Username,
			Details:  map[string]interface{}{"order_id": id},
		})
	}

	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (h *AdminHandler) Export(w http.ResponseWriter, r *http.Request) {
	filter, err := parseOrderFilter(r)
	if err != nil {
		writeError(w, err)
		return
	}

	format := export.ParseFormat(r.URL.Query().Get("format"))
	fileName := export.FileName(format, filter, time.Now())

	var total int
	if format == export.FormatExcel {
		total, err = h.exportExcel(w, r, filter, fileName)
	} else {
		total, err = h.exportCSV(w, r, filter, fileName, format)
	}
	if err != nil {
		return
	}

	if identity := middleware.GetAdminIdentity(r.Context()); identity != nil {
		audit.LogFromRequest(r, audit.Event{
			Type:     audit.EventExport,
			AdminID:  identity.ID,
			Username: identity.Username,
			Details: map[string]interface{}{
				"format": string(format),
				"rows":   total,
			},
		})
	}
}

// exportCSV streams rows as they arrive; the download headers are only
// committed when the first batch shows up, so an empty result can still
// answer 404.
func (h *AdminHandler) exportCSV(w http.ResponseWriter, r *http.Request, filter model.OrderFilter, fileName string, format export.Format) (int, error) {
	lw := &lazyDownloadWriter{
		w:           w,
		contentType: format.ContentType(),
		fileName:    fileName,
	}

	total, err := h.orderService.Export(r.Context(), filter, export.NewCSVEncoder(lw))
	if err != nil {
		log.Error().Err(err).Msg("export failed")
		if !lw.started {
			writeError(w, err)
		}
		return total, err
	}

	if total == 0 {
		writeError(w, apperrors.NotFound("No matching orders"))
		return 0, apperrors.NotFound("No matching orders")
	}

	return total, nil
}

func (h *AdminHandler) exportExcel(w http.ResponseWriter, r *http.Request, filter model.OrderFilter, fileName string) (int, error) {
	enc, err := export.NewExcelEncoder()
	if err != nil {
		log.Error().Err(err).Msg("failed to create excel encoder")
		writeError(w, apperrors.Internal("Export failed"))
		return 0, err
	}

	total, err := h.orderService.Export(r.Context(), filter, enc)
	if err != nil {
		log.Error().Err(err).Msg("export failed")
		writeError(w, err)
		return total, err
	}

	if total == 0 {
		writeError(w, apperrors.NotFound("No matching orders"))
		return 0, apperrors.NotFound("No matching orders")
	}

	setDownloadHeaders(w, export.FormatExcel.ContentType(), fileName)
	if err := enc.WriteTo(w); err != nil {
		log.Error().Err(err).Msg("failed to write workbook")
		return total, err
	}

	return total, nil
}

func setDownloadHeaders(w http.ResponseWriter, contentType, fileName string) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+url.QueryEscape(fileName)+`"`)
	w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
	w.Header().Set("Pragma", "no-cache")
	w.Header().Set("Expires", "0")
}

type lazyDownloadWriter struct {
	w           http.ResponseWriter
	contentType string
	fileName    string
	started     bool
}

func (lw *lazyDownloadWriter) Write(p []byte) (int, error) {
	if !lw.started {
		setDownloadHeaders(lw.w, lw.contentType, lw.fileName)
		lw.started = true
	}
	return lw.w.Write(p)
}
