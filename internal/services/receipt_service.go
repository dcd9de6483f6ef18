package services

import (
	"bytes"
	"context"
	"fmt"

	"agrobook-backend/internal/models"
	"agrobook-backend/internal/repositories"
	"agrobook-backend/internal/timeutil"

	"github.com/jung-kurt/gofpdf/v2"
)

type ReceiptService struct {
	PersonRepo    *repositories.PersonRepository
	EquipmentRepo *repositories.EquipmentRepository
	BusinessName  string
}

func NewReceiptService(personRepo *repositories.PersonRepository, equipmentRepo *repositories.EquipmentRepository, businessName string) *ReceiptService {
	if businessName == "" {
		businessName = "AgroBook"
	}
	return &ReceiptService{PersonRepo: personRepo, EquipmentRepo: equipmentRepo, BusinessName: businessName}
}

// GeneratePDF renders a printable receipt for one payment, including the
// entry's balance after this payment was applied.
func (s *ReceiptService) GeneratePDF(ctx context.Context, payment *models.Payment, entry *models.Entry) ([]byte, error) {
	person, err := s.PersonRepo.Get(ctx, entry.PersonID)
	if err != nil {
		return nil, err
	}
	equipment, err := s.EquipmentRepo.Get(ctx, entry.EquipmentID)
	if err != nil {
		return nil, err
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 18)
	pdf.CellFormat(0, 12, s.BusinessName, "", 1, "C", false, 0, "")
	pdf.SetFont("Arial", "", 11)
	pdf.CellFormat(0, 7, "Payment Receipt", "", 1, "C", false, 0, "")
	pdf.Ln(6)

	pdf.SetFont("Arial", "B", 11)
	pdf.CellFormat(50, 8, "Receipt No:", "", 0, "L", false, 0, "")
	pdf.SetFont("Arial", "", 11)
	pdf.CellFormat(0, 8, payment.ReceiptNumber, "", 1, "L", false, 0, "")

	pdf.SetFont("Arial", "B", 11)
	pdf.CellFormat(50, 8, "Date:", "", 0, "L", false, 0, "")
	pdf.SetFont("Arial", "", 11)
	pdf.CellFormat(0, 8, timeutil.FormatDate(payment.PaymentDate), "", 1, "L", false, 0, "")

	pdf.SetFont("Arial", "B", 11)
	pdf.CellFormat(50, 8, "Received From:", "", 0, "L", false, 0, "")
	pdf.SetFont("Arial", "", 11)
	name := person.Name
	if person.Village != "" {
		name += ", " + person.Village
	}
	pdf.CellFormat(0, 8, name, "", 1, "L", false, 0, "")
	pdf.Ln(4)

	// Work details
	pdf.SetFillColor(240, 240, 240)
	pdf.SetFont("Arial", "B", 10)
	pdf.CellFormat(70, 8, "Work", "1", 0, "L", true, 0, "")
	pdf.CellFormat(30, 8, "Quantity", "1", 0, "R", true, 0, "")
	pdf.CellFormat(40, 8, "Rate", "1", 0, "R", true, 0, "")
	pdf.CellFormat(50, 8, "Total", "1", 1, "R", true, 0, "")

	pdf.SetFont("Arial", "", 10)
	pdf.CellFormat(70, 8, fmt.Sprintf("%s (%s)", equipment.Name, equipment.UnitType), "1", 0, "L", false, 0, "")
	pdf.CellFormat(30, 8, fmt.Sprintf("%d", entry.Quantity), "1", 0, "R", false, 0, "")
	pdf.CellFormat(40, 8, formatINR(entry.PricePerUnit), "1", 0, "R", false, 0, "")
	pdf.CellFormat(50, 8, formatINR(entry.TotalPrice), "1", 1, "R", false, 0, "")
	pdf.Ln(6)

	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(50, 10, "Amount Paid:", "", 0, "L", false, 0, "")
	pdf.CellFormat(0, 10, formatINR(payment.Amount), "", 1, "L", false, 0, "")

	pdf.SetFont("Arial", "", 11)
	pdf.CellFormat(50, 8, "Total Paid:", "", 0, "L", false, 0, "")
	pdf.CellFormat(0, 8, formatINR(entry.TotalAmountPaid), "", 1, "L", false, 0, "")
	pdf.CellFormat(50, 8, "Balance Due:", "", 0, "L", false, 0, "")
	pdf.CellFormat(0, 8, formatINR(entry.RemainingAmount), "", 1, "L", false, 0, "")

	if payment.Notes != "" {
		pdf.Ln(4)
		pdf.SetFont("Arial", "I", 10)
		pdf.MultiCell(0, 6, "Notes: "+payment.Notes, "", "L", false)
	}

	pdf.Ln(12)
	pdf.SetFont("Arial", "", 9)
	pdf.CellFormat(0, 6, "This is a computer generated receipt.", "", 1, "C", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// formatINR renders a whole-rupee amount with Indian digit grouping:
// 1234567 -> Rs. 12,34,567.
func formatINR(amount int64) string {
	neg := amount < 0
	if neg {
		amount = -amount
	}
	s := fmt.Sprintf("%d", amount)
	if len(s) > 3 {
		head, tail := s[:len(s)-3], s[len(s)-3:]
		var parts []string
		for len(head) > 2 {
			parts = append([]string{head[len(head)-2:]}, parts...)
			head = head[:len(head)-2]
		}
		if head != "" {
			parts = append([]string{head}, parts...)
		}
		s = ""
		for _, p := range parts {
			s += p + ","
		}
		s += tail
	}
	if neg {
		return "Rs. -" + s
	}
	return "Rs. " + s
}
