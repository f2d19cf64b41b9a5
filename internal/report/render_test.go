package report

import (
	"bytes"
	"testing"
	"time"

	"satis-takip-backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

var renderTime = time.Date(2024, 3, 15, 18, 30, 0, 0, time.Local)

func sampleRecords() []models.SalesRecord {
	return []models.SalesRecord{
		testRecord(1, time.Date(2024, 3, 5, 10, 0, 0, 0, time.Local), 100, 40, 10, 12.50),
		testRecord(2, time.Date(2024, 3, 6, 11, 0, 0, 0, time.Local), 50, 20, 5, 3),
	}
}

func TestBuildReportData_SummaryAndRows(t *testing.T) {
	summary, rows := BuildReportData(sampleRecords(), "Satış Raporu", "2024-03-01 - 2024-03-31")

	assert.Equal(t, "150.00", summary.Sales.StringFixed(2))
	assert.Equal(t, "60.00", summary.Profit.StringFixed(2))
	assert.Equal(t, "15.00", summary.Expense.StringFixed(2))
	// Kredi satır kalemlerinden türetilir
	assert.Equal(t, "15.50", summary.Credit.StringFixed(2))

	require.Len(t, rows, 2)
	assert.Equal(t, "2024-03-05", rows[0].Date)
	assert.Equal(t, "1000", rows[0].FileRef)
	assert.Equal(t, "12.50", rows[0].Credit)
}

func TestBuildReportData_EmptyWindowIsZeroReport(t *testing.T) {
	summary, rows := BuildReportData(nil, "Satış Raporu", "2024-03-01 - 2024-03-31")

	assert.Empty(t, rows)
	assert.Equal(t, "0.00", summary.Sales.StringFixed(2))
	assert.Equal(t, "0.00", summary.Profit.StringFixed(2))
	assert.Equal(t, "0.00", summary.Credit.StringFixed(2))
	assert.Equal(t, "0.00", summary.Expense.StringFixed(2))

	// Boş pencere hata değil: iki format da sıfır satırlı belge üretir
	for _, format := range []Format{FormatPDF, FormatExcel} {
		data, err := RenderReport(format, summary, rows, renderTime)
		require.NoError(t, err)
		assert.NotEmpty(t, data)
	}
}

func TestRenderReport_MissingFieldFailsFast(t *testing.T) {
	summary, rows := BuildReportData(sampleRecords(), "Satış Raporu", "2024-03-01 - 2024-03-31")
	rows[1].Name = ""

	for _, format := range []Format{FormatPDF, FormatExcel} {
		data, err := RenderReport(format, summary, rows, renderTime)
		require.Error(t, err)
		assert.IsType(t, &RenderError{}, err)
		// Kısmi çıktı asla dönmez
		assert.Nil(t, data)
	}
}

func TestRenderReport_PDFDeterministic(t *testing.T) {
	summary, rows := BuildReportData(sampleRecords(), "Satış Raporu", "2024-03-01 - 2024-03-31")

	first, err := RenderReport(FormatPDF, summary, rows, renderTime)
	require.NoError(t, err)
	second, err := RenderReport(FormatPDF, summary, rows, renderTime)
	require.NoError(t, err)

	assert.True(t, bytes.HasPrefix(first, []byte("%PDF")))
	assert.Equal(t, first, second)
}

func TestRenderReport_ExcelDeterministic(t *testing.T) {
	summary, rows := BuildReportData(sampleRecords(), "Satış Raporu", "2024-03-01 - 2024-03-31")

	first, err := RenderReport(FormatExcel, summary, rows, renderTime)
	require.NoError(t, err)
	second, err := RenderReport(FormatExcel, summary, rows, renderTime)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestRenderReport_ExcelLayout(t *testing.T) {
	summary, rows := BuildReportData(sampleRecords(), "Satış Raporu", "2024-03-01 - 2024-03-31")
	summary.Username = "zeynep"
	summary.Email = "zeynep@ornek.com"

	data, err := RenderReport(FormatExcel, summary, rows, renderTime)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	get := func(cell string) string {
		v, err := f.GetCellValue(excelSheet, cell)
		require.NoError(t, err)
		return v
	}

	assert.Equal(t, "Satış Raporu", get("A1"))
	assert.Equal(t, "2024-03-01 - 2024-03-31", get("A2"))
	assert.Equal(t, "Çalışan: zeynep (zeynep@ornek.com)", get("A3"))

	// Özet bloğu: dört skaler toplam
	assert.Equal(t, "Satış", get("A5"))
	assert.Equal(t, "150.00 TL", get("B5"))
	assert.Equal(t, "Gider", get("A8"))
	assert.Equal(t, "15.00 TL", get("B8"))

	// Sabit kolon seti, sıra anlamlı
	assert.Equal(t, "Tarih", get("A10"))
	assert.Equal(t, "Dosya", get("B10"))
	assert.Equal(t, "Parça", get("I10"))

	// İlk veri satırı
	assert.Equal(t, "2024-03-05", get("A11"))
	assert.Equal(t, "12.50", get("F11"))
}

func TestRenderReport_PDFPaginationSurvivesManyRows(t *testing.T) {
	records := make([]models.SalesRecord, 0, 60)
	day := time.Date(2024, 3, 1, 9, 0, 0, 0, time.Local)
	for i := 0; i < 60; i++ {
		records = append(records, testRecord(uint(i%5+1), day.Add(time.Duration(i)*time.Minute), 10, 5, 1, 1, 2))
	}
	summary, rows := BuildReportData(records, "Satış Raporu", "2024-03-01 - 2024-03-31")
	require.Len(t, rows, 120)

	data, err := RenderReport(FormatPDF, summary, rows, renderTime)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF")))
}

func TestSuggestedFilename(t *testing.T) {
	assert.Equal(t, "zeynep_2024-03-15.pdf", SuggestedFilename(FormatPDF, "zeynep", renderTime))
	assert.Equal(t, "zeynep_2024-03-15.xlsx", SuggestedFilename(FormatExcel, "zeynep", renderTime))
	assert.Equal(t, "rapor_2024-03-15.pdf", SuggestedFilename(FormatPDF, "", renderTime))
}

func TestParseFormat(t *testing.T) {
	_, err := ParseFormat("docx")
	require.Error(t, err)
	assert.IsType(t, &ValidationError{}, err)
}
