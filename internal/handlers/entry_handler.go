package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"agrobook-backend/internal/ledger"
	"agrobook-backend/internal/middleware"
	"agrobook-backend/internal/models"
	"agrobook-backend/internal/services"
	"agrobook-backend/pkg/utils"
)

type EntryHandler struct {
	EntryService *services.EntryService
}

func NewEntryHandler(entryService *services.EntryService) *EntryHandler {
	return &EntryHandler{EntryService: entryService}
}

func (h *EntryHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.CreateEntryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	userID := middleware.UserIDFromContext(r.Context())
	entry, err := h.EntryService.Create(r.Context(), userID, &req)
	if err != nil {
		writeError(w, err)
		return
	}
	utils.RespondJSON(w, http.StatusCreated, entry)
}

// parseStatusFilter maps the ?status= query value to an entry filter.
// "all" and an empty value both mean no status filtering.
func parseStatusFilter(raw string) (models.PaymentStatus, error) {
	switch models.PaymentStatus(raw) {
	case "", "all":
		return "", nil
	case models.StatusNotPaid, models.StatusPartiallyPaid, models.StatusFullPaid:
		return models.PaymentStatus(raw), nil
	default:
		return "", &ledger.ValidationError{Field: "status", Reason: "must be all, not_paid, partially_paid or full_paid"}
	}
}

// List supports ?status=, ?search= (person name), ?page= and ?page_size=.
func (h *EntryHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	status, err := parseStatusFilter(q.Get("status"))
	if err != nil {
		writeError(w, err)
		return
	}

	page, _ := strconv.Atoi(q.Get("page"))
	pageSize, _ := strconv.Atoi(q.Get("page_size"))

	filter := &models.EntryFilter{
		UserID:   middleware.UserIDFromContext(r.Context()),
		Status:   status,
		Search:   q.Get("search"),
		Page:     page,
		PageSize: pageSize,
	}

	list, err := h.EntryService.List(r.Context(), filter)
	if err != nil {
		writeError(w, err)
		return
	}
	utils.RespondJSON(w, http.StatusOK, list)
}

func (h *EntryHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	userID := middleware.UserIDFromContext(r.Context())
	entry, err := h.EntryService.Get(r.Context(), userID, id)
	if err != nil {
		writeError(w, err)
		return
	}
	utils.RespondJSON(w, http.StatusOK, entry)
}

func (h *EntryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	userID := middleware.UserIDFromContext(r.Context())
	if err := h.EntryService.Delete(r.Context(), userID, id); err != nil {
		writeError(w, err)
		return
	}
	utils.RespondJSON(w, http.StatusOK, map[string]string{"message": "entry deleted"})
}

func (h *EntryHandler) Summary(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserIDFromContext(r.Context())
	summary, err := h.EntryService.Summary(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}
	utils.RespondJSON(w, http.StatusOK, summary)
}
