package handlers

import (
	"fmt"
	"net/http"
	"time"

	"agrobook-backend/internal/middleware"
	"agrobook-backend/internal/services"
)

type ReportHandler struct {
	ReportService *services.ReportService
	PersonService *services.PersonService
}

func NewReportHandler(reportService *services.ReportService, personService *services.PersonService) *ReportHandler {
	return &ReportHandler{ReportService: reportService, PersonService: personService}
}

// PersonsCSV downloads all person balances as a spreadsheet.
func (h *ReportHandler) PersonsCSV(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserIDFromContext(r.Context())
	data, err := h.ReportService.PersonsCSV(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}

	filename := fmt.Sprintf("persons-%s.csv", time.Now().Format("2006-01-02"))
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	w.Write(data)
}

// PersonStatementPDF downloads one person's full ledger statement.
func (h *ReportHandler) PersonStatementPDF(w http.ResponseWriter, r *http.Request) {
	personID, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	userID := middleware.UserIDFromContext(r.Context())
	// Ownership check before generating anything.
	if _, err := h.PersonService.Get(r.Context(), userID, personID); err != nil {
		writeError(w, err)
		return
	}

	data, err := h.ReportService.PersonStatementPDF(r.Context(), userID, personID)
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="statement-%d.pdf"`, personID))
	w.Write(data)
}
