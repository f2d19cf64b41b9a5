package report

import (
	"fmt"
	"time"

	"satis-takip-backend/internal/models"

	"github.com/shopspring/decimal"
)

type Format string

const (
	FormatPDF   Format = "pdf"
	FormatExcel Format = "xlsx"
)

func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case FormatPDF, FormatExcel:
		return Format(s), nil
	}
	return "", NewValidationError("format geçersiz: %s (pdf|xlsx)", s)
}

// Para birimi etiketi sabittir, kayıt verisinden türetilmez
const currencyLabel = "TL"

// Sabit kolon seti; sıra anlamlıdır
var reportColumns = [9]string{"Tarih", "Dosya", "İsim", "Satış", "Kar", "Kredi", "Gider", "KDV", "Parça"}

type Summary struct {
	Title      string
	RangeLabel string

	// Rapor tek çalışana daraltıldıysa dolu
	Username string
	Email    string

	Sales   decimal.Decimal
	Profit  decimal.Decimal
	Credit  decimal.Decimal
	Expense decimal.Decimal
}

// Row: Detay tablosunun bir satırı, alanları reportColumns ile birebir.
// Parasal alanlar render anında iki haneye formatlanmış string'lerdir;
// eksik değer "0.00" olur, asla boş kalmaz.
type Row struct {
	Date    string
	FileRef string
	Name    string
	Sales   string
	Profit  string
	Credit  string
	Expense string
	VAT     string
	Parts   string
}

func amount(d decimal.Decimal) string {
	return d.StringFixed(2)
}

// BuildReportData: Pencere içi kayıtlardan özet + satır listesi üretir.
// Özet toplamları kayıt düzeyindeki alanlardan, kredi satır
// kalemlerinden gelir.
func BuildReportData(records []models.SalesRecord, title, rangeLabel string) (Summary, []Row) {
	s := Summary{
		Title:      title,
		RangeLabel: rangeLabel,
		Sales:      decimal.Zero,
		Profit:     decimal.Zero,
		Credit:     decimal.Zero,
		Expense:    decimal.Zero,
	}

	rows := make([]Row, 0)
	for i := range records {
		r := &records[i]
		s.Sales = s.Sales.Add(r.TotalSales)
		s.Profit = s.Profit.Add(r.TotalProfit)
		s.Expense = s.Expense.Add(r.TotalExpense)
		s.Credit = s.Credit.Add(r.TotalCredit())

		dateStr := r.CreatedAt.Format("2006-01-02")
		for _, li := range r.LineItems {
			rows = append(rows, Row{
				Date:    dateStr,
				FileRef: fmt.Sprintf("%d", li.FileRef),
				Name:    li.Name,
				Sales:   amount(li.Sales),
				Profit:  amount(li.Profit),
				Credit:  amount(li.Credit),
				Expense: amount(li.Expense),
				VAT:     amount(li.VAT),
				Parts:   amount(li.Parts),
			})
		}
	}

	return s, rows
}

// validateRows: Zorunlu alanı eksik satır varsa belge hiç üretilmez
// (fail fast, kısmi çıktı yok).
func validateRows(rows []Row) error {
	for i, r := range rows {
		if r.Date == "" || r.FileRef == "" || r.Name == "" {
			return &RenderError{Msg: fmt.Sprintf("satır %d eksik alan içeriyor", i+1)}
		}
		if r.Sales == "" || r.Profit == "" || r.Credit == "" || r.Expense == "" || r.VAT == "" || r.Parts == "" {
			return &RenderError{Msg: fmt.Sprintf("satır %d parasal alanı eksik", i+1)}
		}
	}
	return nil
}

// RenderReport: Özet + satırları istenen formatta byte dizisine çevirir.
// Aynı girdi ve aynı generatedAt ile çıktı deterministiktir.
func RenderReport(format Format, s Summary, rows []Row, generatedAt time.Time) ([]byte, error) {
	if err := validateRows(rows); err != nil {
		return nil, err
	}

	switch format {
	case FormatPDF:
		return renderPDF(s, rows, generatedAt)
	case FormatExcel:
		return renderExcel(s, rows, generatedAt)
	}
	return nil, NewValidationError("format geçersiz: %s", string(format))
}

// SuggestedFilename: Tek çalışan kapsamı için {username}_{tarih}.{ext}
func SuggestedFilename(format Format, username string, generatedAt time.Time) string {
	base := "rapor"
	if username != "" {
		base = username
	}
	return fmt.Sprintf("%s_%s.%s", base, generatedAt.Format("2006-01-02"), string(format))
}
