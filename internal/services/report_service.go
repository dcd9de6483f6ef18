package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"strconv"

	"agrobook-backend/internal/repositories"
	"agrobook-backend/internal/timeutil"

	"github.com/jung-kurt/gofpdf/v2"
)

type ReportService struct {
	PersonRepo  *repositories.PersonRepository
	EntryRepo   *repositories.EntryRepository
	PaymentRepo *repositories.PaymentRepository
}

func NewReportService(personRepo *repositories.PersonRepository, entryRepo *repositories.EntryRepository, paymentRepo *repositories.PaymentRepository) *ReportService {
	return &ReportService{PersonRepo: personRepo, EntryRepo: entryRepo, PaymentRepo: paymentRepo}
}

// PersonsCSV exports every person's balance position for spreadsheet use.
func (s *ReportService) PersonsCSV(ctx context.Context, userID int) ([]byte, error) {
	persons, err := s.PersonRepo.List(ctx, userID)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	w.Write([]string{"Name", "Phone", "Village", "Total Amount", "Paid Amount", "Remaining Amount"})
	for _, p := range persons {
		w.Write([]string{
			p.Name,
			p.Phone,
			p.Village,
			strconv.FormatInt(p.TotalAmount, 10),
			strconv.FormatInt(p.PaidAmount, 10),
			strconv.FormatInt(p.RemainingAmount, 10),
		})
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// PersonStatementPDF renders a person's full ledger: every entry with its
// balance position, followed by the payment history.
func (s *ReportService) PersonStatementPDF(ctx context.Context, userID, personID int) ([]byte, error) {
	person, err := s.PersonRepo.Get(ctx, personID)
	if err != nil {
		return nil, err
	}
	entries, err := s.EntryRepo.ListByPerson(ctx, personID)
	if err != nil {
		return nil, err
	}
	payments, err := s.PaymentRepo.ListByPerson(ctx, personID)
	if err != nil {
		return nil, err
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 16)
	pdf.CellFormat(0, 10, "Account Statement", "", 1, "C", false, 0, "")
	pdf.SetFont("Arial", "", 11)
	pdf.CellFormat(0, 7, person.Name, "", 1, "C", false, 0, "")
	if person.Village != "" || person.Phone != "" {
		pdf.SetFont("Arial", "", 9)
		pdf.CellFormat(0, 5, fmt.Sprintf("%s  %s", person.Village, person.Phone), "", 1, "C", false, 0, "")
	}
	pdf.Ln(5)

	// Balance summary
	pdf.SetFont("Arial", "B", 10)
	pdf.SetFillColor(240, 240, 240)
	pdf.CellFormat(63, 8, "Total: "+formatINR(person.TotalAmount), "1", 0, "C", true, 0, "")
	pdf.CellFormat(63, 8, "Paid: "+formatINR(person.PaidAmount), "1", 0, "C", true, 0, "")
	pdf.CellFormat(64, 8, "Due: "+formatINR(person.RemainingAmount), "1", 1, "C", true, 0, "")
	pdf.Ln(6)

	pdf.SetFont("Arial", "B", 11)
	pdf.CellFormat(0, 8, "Entries", "", 1, "L", false, 0, "")
	pdf.SetFont("Arial", "B", 9)
	pdf.CellFormat(28, 7, "Date", "1", 0, "L", true, 0, "")
	pdf.CellFormat(22, 7, "Qty", "1", 0, "R", true, 0, "")
	pdf.CellFormat(30, 7, "Rate", "1", 0, "R", true, 0, "")
	pdf.CellFormat(35, 7, "Total", "1", 0, "R", true, 0, "")
	pdf.CellFormat(35, 7, "Remaining", "1", 0, "R", true, 0, "")
	pdf.CellFormat(40, 7, "Status", "1", 1, "L", true, 0, "")

	pdf.SetFont("Arial", "", 9)
	for _, e := range entries {
		pdf.CellFormat(28, 7, timeutil.FormatDate(e.EntryDate), "1", 0, "L", false, 0, "")
		pdf.CellFormat(22, 7, strconv.FormatInt(e.Quantity, 10), "1", 0, "R", false, 0, "")
		pdf.CellFormat(30, 7, formatINR(e.PricePerUnit), "1", 0, "R", false, 0, "")
		pdf.CellFormat(35, 7, formatINR(e.TotalPrice), "1", 0, "R", false, 0, "")
		pdf.CellFormat(35, 7, formatINR(e.RemainingAmount), "1", 0, "R", false, 0, "")
		pdf.CellFormat(40, 7, string(e.PaymentStatus), "1", 1, "L", false, 0, "")
	}
	pdf.Ln(6)

	pdf.SetFont("Arial", "B", 11)
	pdf.CellFormat(0, 8, "Payments", "", 1, "L", false, 0, "")
	pdf.SetFont("Arial", "B", 9)
	pdf.CellFormat(40, 7, "Receipt", "1", 0, "L", true, 0, "")
	pdf.CellFormat(30, 7, "Date", "1", 0, "L", true, 0, "")
	pdf.CellFormat(35, 7, "Amount", "1", 0, "R", true, 0, "")
	pdf.CellFormat(85, 7, "Notes", "1", 1, "L", true, 0, "")

	pdf.SetFont("Arial", "", 9)
	for _, p := range payments {
		pdf.CellFormat(40, 7, p.ReceiptNumber, "1", 0, "L", false, 0, "")
		pdf.CellFormat(30, 7, timeutil.FormatDate(p.PaymentDate), "1", 0, "L", false, 0, "")
		pdf.CellFormat(35, 7, formatINR(p.Amount), "1", 0, "R", false, 0, "")
		pdf.CellFormat(85, 7, p.Notes, "1", 1, "L", false, 0, "")
	}

	pdf.Ln(10)
	pdf.SetFont("Arial", "", 8)
	pdf.CellFormat(0, 5, "Generated on "+timeutil.FormatDate(timeutil.NowIST()), "", 1, "R", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
