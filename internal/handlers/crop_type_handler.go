package handlers

import (
	"encoding/json"
	"net/http"

	"agrobook-backend/internal/models"
	"agrobook-backend/internal/repositories"
	"agrobook-backend/pkg/utils"
)

type CropTypeHandler struct {
	Repo *repositories.CropTypeRepository
}

func NewCropTypeHandler(repo *repositories.CropTypeRepository) *CropTypeHandler {
	return &CropTypeHandler{Repo: repo}
}

func (h *CropTypeHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.CreateCropTypeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Name == "" {
		utils.RespondError(w, http.StatusBadRequest, "name is required")
		return
	}

	cropType := &models.CropType{Name: req.Name, Description: req.Description}
	if err := h.Repo.Create(r.Context(), cropType); err != nil {
		writeError(w, err)
		return
	}
	utils.RespondJSON(w, http.StatusCreated, cropType)
}

func (h *CropTypeHandler) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.Repo.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	utils.RespondJSON(w, http.StatusOK, items)
}

func (h *CropTypeHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	if err := h.Repo.Delete(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	utils.RespondJSON(w, http.StatusOK, map[string]string{"message": "crop type deleted"})
}
