package booking

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/gosimple/slug"
	"github.com/jung-kurt/gofpdf"
)

// WriteReceipt renders a one-page PDF receipt into dir and returns its path.
func WriteReceipt(dir string, f FormData, c Confirmation, issued time.Time) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating receipt dir: %w", err)
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(20, 20, 20)
	pdf.SetTitle("Booking "+c.BookingID, true)
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 18)
	pdf.CellFormat(0, 12, "Booking receipt", "", 1, "L", false, 0, "")
	pdf.SetFont("Arial", "", 10)
	pdf.SetTextColor(110, 110, 110)
	pdf.CellFormat(0, 6, "Issued "+issued.Format("2006-01-02 15:04"), "", 1, "L", false, 0, "")
	pdf.Ln(6)

	rows := [][2]string{
		{"Booking ID", c.BookingID},
		{"Customer", f.Name},
		{"Phone", f.Phone},
		{"Address", f.Address},
		{"Service", string(f.ServiceType)},
		{"Provider", f.ProviderName()},
		{"Date", f.BookingDate.String()},
		{"Time slot", f.TimeSlot},
		{"Rate", "Rs. " + strconv.FormatFloat(f.RateCharge, 'f', 2, 64) + " / hour"},
	}

	pdf.SetTextColor(0, 0, 0)
	for i, row := range rows {
		fill := i%2 == 0
		pdf.SetFillColor(242, 242, 242)
		pdf.SetFont("Arial", "B", 11)
		pdf.CellFormat(45, 9, row[0], "", 0, "L", fill, 0, "")
		pdf.SetFont("Arial", "", 11)
		pdf.CellFormat(0, 9, row[1], "", 1, "L", fill, 0, "")
	}

	if c.Message != "" {
		pdf.Ln(6)
		pdf.SetFont("Arial", "I", 10)
		pdf.MultiCell(0, 6, c.Message, "", "L", false)
	}

	name := fmt.Sprintf("booking-%s.pdf", slug.Make(c.BookingID))
	path := filepath.Join(dir, name)
	if err := pdf.OutputFileAndClose(path); err != nil {
		return "", fmt.Errorf("writing receipt: %w", err)
	}
	return path, nil
}
