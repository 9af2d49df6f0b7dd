// internal/api/handler/tracker.go
package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/kasho-dev/WorkFlow-Pay/internal/api/types"
	"github.com/kasho-dev/WorkFlow-Pay/internal/domain"
	"github.com/kasho-dev/WorkFlow-Pay/internal/salary"
	"github.com/kasho-dev/WorkFlow-Pay/internal/service"
	"github.com/kasho-dev/WorkFlow-Pay/internal/util"
)

// DefaultTimeout bounds request handling at the router level.
const DefaultTimeout = 60 * time.Second

// TrackerHandler handles HTTP requests of the keystroke dashboard API.
type TrackerHandler struct {
	service service.TrackerService
	logger  *slog.Logger
}

// NewTrackerHandler creates a new TrackerHandler.
func NewTrackerHandler(svc service.TrackerService, logger *slog.Logger) *TrackerHandler {
	return &TrackerHandler{
		service: svc,
		logger:  logger,
	}
}

// Helper function to send JSON responses.
func (h *TrackerHandler) respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		h.logger.Error("Failed to marshal JSON response", "error", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_, _ = w.Write(response)
}

// Helper function to send error responses. Every error is logged before the
// response goes out; internals are never leaked to the client.
func (h *TrackerHandler) respondWithError(w http.ResponseWriter, err error) {
	statusCode := http.StatusInternalServerError
	body := map[string]interface{}{"error": "Internal server error"}

	var fieldErrs util.FieldErrors
	var maxBytesErr *http.MaxBytesError

	switch {
	case errors.As(err, &fieldErrs):
		statusCode = http.StatusBadRequest
		body["error"] = util.ErrInvalidInput.Error()
		body["fields"] = fieldErrs
	case util.IsError(err, util.ErrInvalidInput):
		statusCode = http.StatusBadRequest
		body["error"] = err.Error()
	case util.IsError(err, util.ErrNotFound), util.IsError(err, util.ErrUserNotFound):
		statusCode = http.StatusNotFound
		body["error"] = "Resource not found"
	case errors.As(err, &maxBytesErr):
		statusCode = http.StatusRequestEntityTooLarge
		body["error"] = "request body too large"
	default:
		h.logger.Error("Unhandled service error", "error", err)
	}

	if statusCode != http.StatusInternalServerError {
		h.logger.Warn("Request failed", "status", statusCode, "error", err)
	}
	h.respondWithJSON(w, statusCode, body)
}

// decodeJSON decodes the request body into dst, translating decode failures
// into validation errors and oversized bodies into their own error.
func (h *TrackerHandler) decodeJSON(r *http.Request, dst interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			return maxBytesErr
		}
		return util.Invalid("body", "malformed JSON")
	}
	return nil
}

// parseDate accepts a bare calendar date or a full RFC 3339 timestamp.
func parseDate(s string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, s)
}

// userProfileResponse is a User with their most recent keystroke entries attached.
type userProfileResponse struct {
	*domain.User
	Keystrokes []domain.Keystroke `json:"keystrokes"`
}

// GetUser handles the user profile request.
// GET /api/user/{id}
func (h *TrackerHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "id")
	if userID == "" {
		h.respondWithError(w, util.Invalid("id", "must not be empty"))
		return
	}

	user, entries, err := h.service.GetUserProfile(r.Context(), userID)
	if err != nil {
		h.respondWithError(w, err)
		return
	}

	h.respondWithJSON(w, http.StatusOK, userProfileResponse{User: user, Keystrokes: entries})
}

// UpsertUserRequest represents the request body for user creation/update.
type UpsertUserRequest struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Currency string `json:"currency"`
}

// UpsertUser handles user creation or update, keyed by email.
// POST /api/user
func (h *TrackerHandler) UpsertUser(w http.ResponseWriter, r *http.Request) {
	var req UpsertUserRequest
	if err := h.decodeJSON(r, &req); err != nil {
		h.respondWithError(w, err)
		return
	}

	user, err := h.service.UpsertUser(r.Context(), req.Email, req.Name, req.Currency)
	if err != nil {
		h.respondWithError(w, err)
		return
	}

	h.respondWithJSON(w, http.StatusOK, user)
}

// RecordKeystrokesRequest represents the request body for recording keystrokes.
// Count is a pointer so a missing field is distinguishable from zero.
type RecordKeystrokesRequest struct {
	UserID string `json:"userId"`
	Count  *int64 `json:"count"`
	Date   string `json:"date"`
}

// RecordKeystrokesResponse is the stable response schema of the record
// endpoint. The keystroke and salaryCalculation fields are present unless
// the caller opts out with ?verbose=false; the schema itself never changes
// with deployment mode.
type RecordKeystrokesResponse struct {
	Success           bool                `json:"success"`
	ID                string              `json:"id"`
	Keystroke         *domain.Keystroke   `json:"keystroke,omitempty"`
	SalaryCalculation *salary.Calculation `json:"salaryCalculation,omitempty"`
}

// RecordKeystrokes handles the record keystrokes request.
// POST /api/keystrokes
func (h *TrackerHandler) RecordKeystrokes(w http.ResponseWriter, r *http.Request) {
	var req RecordKeystrokesRequest
	if err := h.decodeJSON(r, &req); err != nil {
		h.respondWithError(w, err)
		return
	}

	if req.Count == nil {
		h.respondWithError(w, util.Invalid("count", "is required"))
		return
	}

	var date *time.Time
	if req.Date != "" {
		parsed, err := parseDate(req.Date)
		if err != nil {
			h.respondWithError(w, util.Invalid("date", "must be a calendar date or RFC 3339 timestamp"))
			return
		}
		date = &parsed
	}

	entry, calc, err := h.service.RecordKeystrokes(r.Context(), req.UserID, *req.Count, date)
	if err != nil {
		h.respondWithError(w, err)
		return
	}

	resp := RecordKeystrokesResponse{Success: true, ID: entry.ID}
	if r.URL.Query().Get("verbose") != "false" {
		resp.Keystroke = entry
		resp.SalaryCalculation = &calc
	}

	h.respondWithJSON(w, http.StatusCreated, resp)
}

// ListKeystrokes handles the keystroke history request.
// GET /api/keystrokes/{userID}
func (h *TrackerHandler) ListKeystrokes(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	// Malformed paging parameters fall back to defaults, they never fail the request.
	limit, err := strconv.Atoi(r.URL.Query().Get("limit"))
	if err != nil || limit <= 0 {
		limit = 50
	}
	offset, err := strconv.Atoi(r.URL.Query().Get("offset"))
	if err != nil || offset < 0 {
		offset = 0
	}

	entries, totalCount, err := h.service.ListKeystrokes(r.Context(), userID, limit, offset)
	if err != nil {
		h.respondWithError(w, err)
		return
	}

	h.respondWithJSON(w, http.StatusOK, types.PaginatedResponse[domain.Keystroke]{
		Data:       entries,
		Limit:      limit,
		Offset:     offset,
		TotalCount: totalCount,
	})
}

// WeeklySummary handles the weekly summary request.
// GET /api/weekly-summary/{userID}
func (h *TrackerHandler) WeeklySummary(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	var start, end *time.Time
	if s := r.URL.Query().Get("startDate"); s != "" {
		parsed, err := parseDate(s)
		if err != nil {
			h.respondWithError(w, util.Invalid("startDate", "must be a calendar date or RFC 3339 timestamp"))
			return
		}
		start = &parsed
	}
	if s := r.URL.Query().Get("endDate"); s != "" {
		parsed, err := parseDate(s)
		if err != nil {
			h.respondWithError(w, util.Invalid("endDate", "must be a calendar date or RFC 3339 timestamp"))
			return
		}
		end = &parsed
	}

	summary, err := h.service.WeeklySummary(r.Context(), userID, start, end)
	if err != nil {
		h.respondWithError(w, err)
		return
	}

	h.respondWithJSON(w, http.StatusOK, summary)
}

// MonthlyAnalytics handles the monthly analytics request.
// GET /api/monthly-analytics/{userID}
func (h *TrackerHandler) MonthlyAnalytics(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	year, err := strconv.Atoi(r.URL.Query().Get("year"))
	if err != nil {
		h.respondWithError(w, util.Invalid("year", "must be an integer"))
		return
	}
	month, err := strconv.Atoi(r.URL.Query().Get("month"))
	if err != nil {
		h.respondWithError(w, util.Invalid("month", "must be an integer between 1 and 12"))
		return
	}

	analytics, err := h.service.MonthlyAnalytics(r.Context(), userID, year, month)
	if err != nil {
		h.respondWithError(w, err)
		return
	}

	h.respondWithJSON(w, http.StatusOK, analytics)
}

// ImportKeystrokesRequest represents the request body for a bulk import.
type ImportKeystrokesRequest struct {
	KeystrokesData []ImportKeystrokeItem `json:"keystrokesData"`
}

// ImportKeystrokeItem is one date/count pair of a bulk import.
type ImportKeystrokeItem struct {
	Date  string `json:"date"`
	Count int64  `json:"count"`
}

// ImportKeystrokes handles the bulk import request. The import is sequential
// and not atomic: entries created before a failure stay committed.
// POST /api/import-keystrokes/{userID}
func (h *TrackerHandler) ImportKeystrokes(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	var req ImportKeystrokesRequest
	if err := h.decodeJSON(r, &req); err != nil {
		h.respondWithError(w, err)
		return
	}

	items := make([]service.ImportItem, 0, len(req.KeystrokesData))
	for i, item := range req.KeystrokesData {
		date, err := parseDate(item.Date)
		if err != nil {
			h.respondWithError(w, util.Invalid(
				"keystrokesData["+strconv.Itoa(i)+"].date",
				"must be a calendar date or RFC 3339 timestamp"))
			return
		}
		items = append(items, service.ImportItem{Date: date, Count: item.Count})
	}

	imported, err := h.service.BulkImport(r.Context(), userID, items)
	if err != nil {
		h.respondWithError(w, err)
		return
	}

	h.respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"message":            "Imported " + strconv.Itoa(len(imported)) + " keystrokes entries",
		"importedKeystrokes": imported,
	})
}

// MemoRequest represents the request body for saving a memo.
type MemoRequest struct {
	Content string `json:"content"`
}

// SaveMemo handles the memo create/update request.
// PUT /api/memo/{userID}
func (h *TrackerHandler) SaveMemo(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	var req MemoRequest
	if err := h.decodeJSON(r, &req); err != nil {
		h.respondWithError(w, err)
		return
	}

	memo, err := h.service.SaveMemo(r.Context(), userID, req.Content)
	if err != nil {
		h.respondWithError(w, err)
		return
	}

	h.respondWithJSON(w, http.StatusOK, memo)
}

// GetMemo handles the memo read request.
// GET /api/memo/{userID}
func (h *TrackerHandler) GetMemo(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	memo, err := h.service.GetMemo(r.Context(), userID)
	if err != nil {
		h.respondWithError(w, err)
		return
	}

	h.respondWithJSON(w, http.StatusOK, memo)
}

// Health handles the liveness probe.
// GET /health
func (h *TrackerHandler) Health(w http.ResponseWriter, r *http.Request) {
	h.respondWithJSON(w, http.StatusOK, map[string]string{
		"status":    "ok",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}
