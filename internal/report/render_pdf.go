package report

import (
	"bytes"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"
)

var pdfColWidths = [9]float64{24, 14, 38, 19, 19, 19, 19, 19, 19}

// renderPDF: Başlık, aralık, opsiyonel çalışan bloğu, dört özet kutusu,
// detay tablosu ve üretim zamanı footer'ı sabit sırayla basılır. Sayfa
// taşarsa tablo başlığı yeni sayfada tekrar basılır.
func renderPDF(s Summary, rows []Row, generatedAt time.Time) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetCreationDate(generatedAt) // deterministik çıktı için
	tr := pdf.UnicodeTranslatorFromDescriptor("cp1254")

	pdf.SetFooterFunc(func() {
		pdf.SetY(-15)
		pdf.SetFont("Helvetica", "I", 8)
		footer := fmt.Sprintf("Oluşturulma: %s - Sayfa %d", generatedAt.Format("2006-01-02 15:04:05"), pdf.PageNo())
		pdf.CellFormat(0, 10, tr(footer), "", 0, "C", false, 0, "")
	})
	pdf.SetAutoPageBreak(false, 0)
	pdf.AddPage()

	// Başlık ve aralık
	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 10, tr(s.Title), "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(0, 6, tr(s.RangeLabel), "", 1, "C", false, 0, "")
	pdf.Ln(2)

	// Tek çalışana daraltılmışsa kimlik bloğu
	if s.Username != "" {
		pdf.SetFont("Helvetica", "B", 11)
		pdf.CellFormat(0, 6, tr(fmt.Sprintf("Çalışan: %s (%s)", s.Username, s.Email)), "", 1, "L", false, 0, "")
		pdf.Ln(2)
	}

	// Özet kutuları
	summaries := [4]struct {
		label string
		value string
	}{
		{"Satış", amount(s.Sales)},
		{"Kar", amount(s.Profit)},
		{"Kredi", amount(s.Credit)},
		{"Gider", amount(s.Expense)},
	}
	pdf.SetFont("Helvetica", "B", 10)
	for _, sb := range summaries {
		pdf.CellFormat(47.5, 8, tr(fmt.Sprintf("%s: %s %s", sb.label, sb.value, currencyLabel)), "1", 0, "C", false, 0, "")
	}
	pdf.Ln(12)

	writeHeader := func() {
		pdf.SetFont("Helvetica", "B", 9)
		pdf.SetFillColor(230, 230, 230)
		for i, col := range reportColumns {
			pdf.CellFormat(pdfColWidths[i], 7, tr(col), "1", 0, "C", true, 0, "")
		}
		pdf.Ln(-1)
	}
	writeHeader()

	pdf.SetFont("Helvetica", "", 9)
	for _, r := range rows {
		// Sayfa sınırı: yeni sayfa + tablo başlığı tekrar
		if pdf.GetY() > 265 {
			pdf.AddPage()
			writeHeader()
			pdf.SetFont("Helvetica", "", 9)
		}

		cells := [9]string{r.Date, r.FileRef, r.Name, r.Sales, r.Profit, r.Credit, r.Expense, r.VAT, r.Parts}
		for i, cell := range cells {
			align := "R"
			if i < 3 {
				align = "L"
			}
			pdf.CellFormat(pdfColWidths[i], 6, tr(cell), "1", 0, align, false, 0, "")
		}
		pdf.Ln(-1)
	}

	if pdf.Err() {
		return nil, &RenderError{Msg: "PDF üretilemedi", Err: pdf.Error()}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, &RenderError{Msg: "PDF yazılamadı", Err: err}
	}
	return buf.Bytes(), nil
}
