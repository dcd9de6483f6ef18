package handlers

import (
	"encoding/json"
	"net/http"

	"agrobook-backend/internal/middleware"
	"agrobook-backend/internal/models"
	"agrobook-backend/internal/services"
	"agrobook-backend/pkg/utils"
)

type TOTPHandler struct {
	TOTPService *services.TOTPService
}

func NewTOTPHandler(totpService *services.TOTPService) *TOTPHandler {
	return &TOTPHandler{TOTPService: totpService}
}

func (h *TOTPHandler) Setup(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserIDFromContext(r.Context())
	resp, err := h.TOTPService.GenerateSetup(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}
	utils.RespondJSON(w, http.StatusOK, resp)
}

func (h *TOTPHandler) Verify(w http.ResponseWriter, r *http.Request) {
	var req models.TOTPVerifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	userID := middleware.UserIDFromContext(r.Context())
	if err := h.TOTPService.VerifyAndEnable(r.Context(), userID, req.Code); err != nil {
		writeError(w, err)
		return
	}
	utils.RespondJSON(w, http.StatusOK, map[string]string{"message": "two-factor enabled"})
}

func (h *TOTPHandler) Disable(w http.ResponseWriter, r *http.Request) {
	var req models.TOTPVerifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	userID := middleware.UserIDFromContext(r.Context())
	if err := h.TOTPService.Disable(r.Context(), userID, req.Code); err != nil {
		writeError(w, err)
		return
	}
	utils.RespondJSON(w, http.StatusOK, map[string]string{"message": "two-factor disabled"})
}
