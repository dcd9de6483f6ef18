package handlers

import (
	"encoding/json"
	"net/http"

	"agrobook-backend/internal/models"
	"agrobook-backend/internal/repositories"
	"agrobook-backend/pkg/utils"
)

// Equipment and crop types are shared reference data, so these handlers talk
// to the repositories directly.
type EquipmentHandler struct {
	Repo *repositories.EquipmentRepository
}

func NewEquipmentHandler(repo *repositories.EquipmentRepository) *EquipmentHandler {
	return &EquipmentHandler{Repo: repo}
}

func (h *EquipmentHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.CreateEquipmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Name == "" {
		utils.RespondError(w, http.StatusBadRequest, "name is required")
		return
	}
	if req.UnitType != models.UnitTypeBiga && req.UnitType != models.UnitTypeTrolley {
		utils.RespondError(w, http.StatusBadRequest, "unit_type must be 'biga' or 'trolley'")
		return
	}

	equipment := &models.Equipment{
		Name:        req.Name,
		Description: req.Description,
		UnitType:    req.UnitType,
	}
	if err := h.Repo.Create(r.Context(), equipment); err != nil {
		writeError(w, err)
		return
	}
	utils.RespondJSON(w, http.StatusCreated, equipment)
}

func (h *EquipmentHandler) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.Repo.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	utils.RespondJSON(w, http.StatusOK, items)
}

func (h *EquipmentHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	var req models.UpdateEquipmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	equipment, err := h.Repo.Get(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	if req.Name != "" {
		equipment.Name = req.Name
	}
	if req.Description != "" {
		equipment.Description = req.Description
	}
	if req.UnitType != "" {
		if req.UnitType != models.UnitTypeBiga && req.UnitType != models.UnitTypeTrolley {
			utils.RespondError(w, http.StatusBadRequest, "unit_type must be 'biga' or 'trolley'")
			return
		}
		equipment.UnitType = req.UnitType
	}
	if req.IsActive != nil {
		equipment.IsActive = *req.IsActive
	}

	if err := h.Repo.Update(r.Context(), equipment); err != nil {
		writeError(w, err)
		return
	}
	utils.RespondJSON(w, http.StatusOK, equipment)
}
