package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"agrobook-backend/internal/middleware"
	"agrobook-backend/internal/models"
	"agrobook-backend/internal/services"
	"agrobook-backend/pkg/utils"

	"github.com/google/uuid"
)

type PaymentHandler struct {
	PaymentService *services.PaymentService
	ReceiptService *services.ReceiptService
	EntryService   *services.EntryService
}

func NewPaymentHandler(paymentService *services.PaymentService, receiptService *services.ReceiptService, entryService *services.EntryService) *PaymentHandler {
	return &PaymentHandler{
		PaymentService: paymentService,
		ReceiptService: receiptService,
		EntryService:   entryService,
	}
}

// Create applies a payment. An optional Idempotency-Key header (a UUID)
// makes client retries safe.
func (h *PaymentHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.CreatePaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	idempotencyKey := r.Header.Get("Idempotency-Key")
	if idempotencyKey != "" {
		if _, err := uuid.Parse(idempotencyKey); err != nil {
			utils.RespondError(w, http.StatusBadRequest, "Idempotency-Key must be a UUID")
			return
		}
	}

	userID := middleware.UserIDFromContext(r.Context())
	result, err := h.PaymentService.Create(r.Context(), userID, &req, idempotencyKey)
	if err != nil {
		writeError(w, err)
		return
	}
	utils.RespondJSON(w, http.StatusCreated, result)
}

func (h *PaymentHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	userID := middleware.UserIDFromContext(r.Context())
	payment, err := h.PaymentService.Get(r.Context(), userID, id)
	if err != nil {
		writeError(w, err)
		return
	}
	utils.RespondJSON(w, http.StatusOK, payment)
}

func (h *PaymentHandler) ListByEntry(w http.ResponseWriter, r *http.Request) {
	entryID, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	userID := middleware.UserIDFromContext(r.Context())
	payments, err := h.PaymentService.ListByEntry(r.Context(), userID, entryID)
	if err != nil {
		writeError(w, err)
		return
	}
	utils.RespondJSON(w, http.StatusOK, payments)
}

// Delete removes a payment and returns the entry with recomputed balances.
func (h *PaymentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	userID := middleware.UserIDFromContext(r.Context())
	entry, err := h.PaymentService.Delete(r.Context(), userID, id)
	if err != nil {
		writeError(w, err)
		return
	}
	utils.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"message": "payment deleted",
		"entry":   entry,
	})
}

// Receipt streams the payment's receipt as a PDF download.
func (h *PaymentHandler) Receipt(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	userID := middleware.UserIDFromContext(r.Context())
	payment, err := h.PaymentService.Get(r.Context(), userID, id)
	if err != nil {
		writeError(w, err)
		return
	}
	entry, err := h.EntryService.Get(r.Context(), userID, payment.EntryID)
	if err != nil {
		writeError(w, err)
		return
	}

	pdf, err := h.ReceiptService.GeneratePDF(r.Context(), payment, entry)
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s.pdf"`, payment.ReceiptNumber))
	w.Write(pdf)
}
