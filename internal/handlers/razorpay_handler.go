package handlers

import (
	"encoding/json"
	"io"
	"log"
	"net/http"

	"agrobook-backend/internal/middleware"
	"agrobook-backend/internal/models"
	"agrobook-backend/internal/services"
	"agrobook-backend/pkg/utils"
)

type RazorpayHandler struct {
	RazorpayService *services.RazorpayService
}

func NewRazorpayHandler(razorpayService *services.RazorpayService) *RazorpayHandler {
	return &RazorpayHandler{RazorpayService: razorpayService}
}

func (h *RazorpayHandler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	if !h.RazorpayService.Enabled() {
		utils.RespondError(w, http.StatusServiceUnavailable, "online payments not configured")
		return
	}

	var req models.CreateOnlinePaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	userID := middleware.UserIDFromContext(r.Context())
	resp, err := h.RazorpayService.CreateOrder(r.Context(), userID, &req)
	if err != nil {
		writeError(w, err)
		return
	}
	utils.RespondJSON(w, http.StatusCreated, resp)
}

func (h *RazorpayHandler) VerifyPayment(w http.ResponseWriter, r *http.Request) {
	var req models.VerifyPaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	userID := middleware.UserIDFromContext(r.Context())
	tx, err := h.RazorpayService.VerifyPayment(r.Context(), userID, &req)
	if err != nil {
		writeError(w, err)
		return
	}
	utils.RespondJSON(w, http.StatusOK, tx)
}

// HandleWebhook processes server-to-server Razorpay events. Unauthenticated;
// trust comes from the webhook signature. Always acknowledges with 200 once
// the signature checks out, so Razorpay does not retry known failures.
func (h *RazorpayHandler) HandleWebhook(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, 1<<20))
	if err != nil {
		utils.RespondError(w, http.StatusBadRequest, "failed to read body")
		return
	}

	if !h.RazorpayService.VerifyWebhookSignature(body, r.Header.Get("X-Razorpay-Signature")) {
		log.Printf("[Razorpay] Invalid webhook signature")
		utils.RespondError(w, http.StatusUnauthorized, "invalid signature")
		return
	}

	var payload struct {
		Event   string                 `json:"event"`
		Payload map[string]interface{} `json:"payload"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	if err := h.RazorpayService.ProcessWebhook(r.Context(), payload.Event, payload.Payload); err != nil {
		log.Printf("[Razorpay] Webhook %s processing error: %v", payload.Event, err)
	}
	utils.RespondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *RazorpayHandler) ListByEntry(w http.ResponseWriter, r *http.Request) {
	entryID, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	userID := middleware.UserIDFromContext(r.Context())
	txs, err := h.RazorpayService.ListByEntry(r.Context(), userID, entryID)
	if err != nil {
		writeError(w, err)
		return
	}
	utils.RespondJSON(w, http.StatusOK, txs)
}
