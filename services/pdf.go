package services

import (
	"bytes"
	"fmt"
	"time"

	"tripbazaar/models"

	"github.com/jung-kurt/gofpdf"
)

// GenerateReceiptPDF renders a booking receipt and returns raw bytes
// (no filesystem needed).
func GenerateReceiptPDF(booking models.Booking) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(20, 20, 20)
	pdf.AddPage()

	// ── Header Bar ───────────────────────────────────────────
	pdf.SetFillColor(13, 24, 37)
	pdf.Rect(0, 0, 210, 28, "F")
	pdf.SetTextColor(255, 255, 255)
	pdf.SetFont("Helvetica", "B", 18)
	pdf.SetXY(20, 8)
	pdf.CellFormat(100, 10, "TripBazaar", "", 0, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.SetTextColor(212, 168, 67)
	pdf.SetXY(20, 18)
	pdf.CellFormat(170, 6, "Booking Receipt", "", 1, "L", false, 0, "")

	pdf.SetY(35)
	pdf.SetTextColor(0, 0, 0)

	// ── Section Helper ───────────────────────────────────────
	sectionHeader := func(title string) {
		pdf.SetFillColor(13, 24, 37)
		pdf.SetTextColor(255, 255, 255)
		pdf.SetFont("Helvetica", "B", 11)
		pdf.CellFormat(170, 8, "  "+title, "", 1, "L", true, 0, "")
		pdf.SetTextColor(0, 0, 0)
		pdf.Ln(2)
	}

	row := func(label, value string) {
		pdf.SetFont("Helvetica", "", 10)
		pdf.SetTextColor(100, 100, 100)
		pdf.CellFormat(55, 7, label, "", 0, "L", false, 0, "")
		pdf.SetTextColor(20, 20, 20)
		pdf.SetFont("Helvetica", "B", 10)
		pdf.CellFormat(115, 7, value, "", 1, "L", false, 0, "")
	}

	// ── Booking Details ───────────────────────────────────────
	sectionHeader("Booking Details")
	row("Booking ID", fmt.Sprintf("#%d", booking.ID))
	row("Type", string(booking.BookingType))
	row("Status", booking.Status)
	row("Booked On", fmtReceiptDate(booking.BookingDate))
	row("Travel Date", fmtReceiptDate(booking.TravelDate))
	pdf.Ln(4)

	// ── Passengers ────────────────────────────────────────────
	if len(booking.Passengers) > 0 {
		sectionHeader("Passengers")
		for i, p := range booking.Passengers {
			row(fmt.Sprintf("Passenger %d", i+1), p.FirstName+" "+p.LastName)
		}
		pdf.Ln(4)
	}

	// ── Payment ───────────────────────────────────────────────
	sectionHeader("Payment")
	row("Payment Status", booking.PaymentStatus)
	if booking.TransactionID != "" {
		row("Transaction ID", booking.TransactionID)
	}

	pdf.SetFillColor(212, 168, 67)
	pdf.SetTextColor(13, 24, 37)
	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(55, 9, "TOTAL PAID", "", 0, "L", true, 0, "")
	pdf.CellFormat(115, 9, fmt.Sprintf("INR %d", booking.TotalAmount), "", 1, "L", true, 0, "")
	pdf.SetTextColor(0, 0, 0)
	pdf.Ln(4)

	// ── Footer ────────────────────────────────────────────────
	pdf.SetY(-22)
	pdf.SetDrawColor(200, 200, 200)
	pdf.SetLineWidth(0.3)
	pdf.Line(20, pdf.GetY(), 190, pdf.GetY())
	pdf.SetFont("Helvetica", "I", 8)
	pdf.SetTextColor(150, 150, 150)
	pdf.CellFormat(0, 8,
		"Generated by TripBazaar · Keep this receipt for your records",
		"", 0, "C", false, 0, "")

	// ── Write to buffer ───────────────────────────────────────
	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("PDF output failed: %w", err)
	}
	return buf.Bytes(), nil
}

func fmtReceiptDate(iso string) string {
	t, err := time.Parse("2006-01-02", iso)
	if err != nil {
		return iso
	}
	return t.Format("02 Jan 2006 (Mon)")
}
