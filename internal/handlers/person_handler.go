package handlers

import (
	"encoding/json"
	"net/http"

	"agrobook-backend/internal/middleware"
	"agrobook-backend/internal/models"
	"agrobook-backend/internal/services"
	"agrobook-backend/pkg/utils"
)

type PersonHandler struct {
	PersonService *services.PersonService
}

func NewPersonHandler(personService *services.PersonService) *PersonHandler {
	return &PersonHandler{PersonService: personService}
}

func (h *PersonHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.CreatePersonRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	userID := middleware.UserIDFromContext(r.Context())
	person, err := h.PersonService.Create(r.Context(), userID, &req)
	if err != nil {
		writeError(w, err)
		return
	}
	utils.RespondJSON(w, http.StatusCreated, person)
}

func (h *PersonHandler) List(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserIDFromContext(r.Context())
	persons, err := h.PersonService.List(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}
	utils.RespondJSON(w, http.StatusOK, persons)
}

func (h *PersonHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	userID := middleware.UserIDFromContext(r.Context())
	person, err := h.PersonService.Get(r.Context(), userID, id)
	if err != nil {
		writeError(w, err)
		return
	}
	utils.RespondJSON(w, http.StatusOK, person)
}

func (h *PersonHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	var req models.UpdatePersonRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	userID := middleware.UserIDFromContext(r.Context())
	person, err := h.PersonService.Update(r.Context(), userID, id, &req)
	if err != nil {
		writeError(w, err)
		return
	}
	utils.RespondJSON(w, http.StatusOK, person)
}

func (h *PersonHandler) Statement(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	userID := middleware.UserIDFromContext(r.Context())
	statement, err := h.PersonService.Statement(r.Context(), userID, id)
	if err != nil {
		writeError(w, err)
		return
	}
	utils.RespondJSON(w, http.StatusOK, statement)
}

func (h *PersonHandler) Recalculate(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	userID := middleware.UserIDFromContext(r.Context())
	person, err := h.PersonService.Recalculate(r.Context(), userID, id)
	if err != nil {
		writeError(w, err)
		return
	}
	utils.RespondJSON(w, http.StatusOK, person)
}
