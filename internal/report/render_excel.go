package report

import (
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"
)

const excelSheet = "Rapor"

// renderExcel: PDF ile aynı mantıksal yerleşimi tek sayfaya yazar.
func renderExcel(s Summary, rows []Row, generatedAt time.Time) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", excelSheet); err != nil {
		return nil, &RenderError{Msg: "Sayfa adlandırılamadı", Err: err}
	}
	// docProps zaman damgaları sabitlenir ki aynı girdi aynı dosyayı üretsin
	created := generatedAt.UTC().Format(time.RFC3339)
	if err := f.SetDocProps(&excelize.DocProperties{Created: created, Modified: created}); err != nil {
		return nil, &RenderError{Msg: "Belge özellikleri yazılamadı", Err: err}
	}

	rowNo := 1
	setRow := func(values []interface{}) error {
		cell, err := excelize.CoordinatesToCellName(1, rowNo)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(excelSheet, cell, &values); err != nil {
			return err
		}
		rowNo++
		return nil
	}

	// Başlık + aralık + opsiyonel kimlik bloğu
	layout := [][]interface{}{
		{s.Title},
		{s.RangeLabel},
	}
	if s.Username != "" {
		layout = append(layout, []interface{}{fmt.Sprintf("Çalışan: %s (%s)", s.Username, s.Email)})
	}
	layout = append(layout,
		[]interface{}{""},
		[]interface{}{"Satış", amount(s.Sales) + " " + currencyLabel},
		[]interface{}{"Kar", amount(s.Profit) + " " + currencyLabel},
		[]interface{}{"Kredi", amount(s.Credit) + " " + currencyLabel},
		[]interface{}{"Gider", amount(s.Expense) + " " + currencyLabel},
		[]interface{}{""},
	)

	header := make([]interface{}, len(reportColumns))
	for i, col := range reportColumns {
		header[i] = col
	}
	layout = append(layout, header)

	for _, block := range layout {
		if err := setRow(block); err != nil {
			return nil, &RenderError{Msg: "Excel satırı yazılamadı", Err: err}
		}
	}

	for _, r := range rows {
		values := []interface{}{r.Date, r.FileRef, r.Name, r.Sales, r.Profit, r.Credit, r.Expense, r.VAT, r.Parts}
		if err := setRow(values); err != nil {
			return nil, &RenderError{Msg: "Excel satırı yazılamadı", Err: err}
		}
	}

	// Footer: üretim zamanı
	if err := setRow([]interface{}{""}); err != nil {
		return nil, &RenderError{Msg: "Excel satırı yazılamadı", Err: err}
	}
	if err := setRow([]interface{}{"Oluşturulma", generatedAt.Format("2006-01-02 15:04:05")}); err != nil {
		return nil, &RenderError{Msg: "Excel satırı yazılamadı", Err: err}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, &RenderError{Msg: "Excel yazılamadı", Err: err}
	}
	return buf.Bytes(), nil
}
