package handlers

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"agrobook-backend/internal/ledger"
	"agrobook-backend/internal/services"
	"agrobook-backend/pkg/utils"

	"github.com/gorilla/mux"
	"github.com/jackc/pgx/v5"
)

// writeError maps domain errors onto HTTP status codes. Anything unmapped is
// a 500 and gets logged; the client only ever sees a generic message for
// those.
func writeError(w http.ResponseWriter, err error) {
	var validation *ledger.ValidationError
	if errors.As(err, &validation) {
		utils.RespondJSON(w, http.StatusBadRequest, map[string]string{
			"error": validation.Error(),
			"field": validation.Field,
		})
		return
	}

	var insufficient *ledger.InsufficientRemainingError
	if errors.As(err, &insufficient) {
		utils.RespondJSON(w, http.StatusUnprocessableEntity, map[string]interface{}{
			"error":     insufficient.Error(),
			"requested": insufficient.Requested,
			"remaining": insufficient.Remaining,
		})
		return
	}

	switch {
	case errors.Is(err, pgx.ErrNoRows):
		utils.RespondError(w, http.StatusNotFound, "not found")
	case errors.Is(err, services.ErrEmailTaken):
		utils.RespondError(w, http.StatusConflict, err.Error())
	case errors.Is(err, services.ErrInvalidCredentials),
		errors.Is(err, services.ErrUserInactive),
		errors.Is(err, services.ErrTOTPInvalid):
		utils.RespondError(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, services.ErrTOTPRequired):
		// Distinguishable from bad credentials so the client can prompt
		// for the code.
		utils.RespondJSON(w, http.StatusUnauthorized, map[string]interface{}{
			"error":         err.Error(),
			"totp_required": true,
		})
	case errors.Is(err, services.ErrSignatureMismatch):
		utils.RespondError(w, http.StatusBadRequest, err.Error())
	default:
		log.Printf("[HTTP] Internal error: %v", err)
		utils.RespondError(w, http.StatusInternalServerError, "internal server error")
	}
}

func pathID(r *http.Request, name string) (int, error) {
	id, err := strconv.Atoi(mux.Vars(r)[name])
	if err != nil || id < 1 {
		return 0, &ledger.ValidationError{Field: name, Reason: "must be a positive integer"}
	}
	return id, nil
}
