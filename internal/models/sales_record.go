package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// SalesRecord: Bir çalışanın bir güne ait satış kaydı.
// (owner_id, entry_date) unique index'i sayesinde aynı gün için
// ikinci kayıt insert anında reddedilir (check-then-write yarışı yok).
type SalesRecord struct {
	ID      uint `gorm:"primaryKey"`
	OwnerID uint `gorm:"not null;uniqueIndex:idx_sales_owner_day"`
	Owner   User

	// Takvim günü (raporlamanın tek zaman ekseni EntryDate + CreatedAt)
	EntryDate time.Time `gorm:"type:date;not null;uniqueIndex:idx_sales_owner_day"`

	TotalSales   decimal.Decimal `gorm:"type:numeric(14,2);not null"`
	TotalExpense decimal.Decimal `gorm:"type:numeric(14,2);not null"`
	// Girildiği gibi raporlanır, TotalSales - TotalExpense'ten yeniden hesaplanmaz
	TotalProfit decimal.Decimal `gorm:"type:numeric(14,2);not null"`

	// Giriş sırası korunur (position)
	LineItems []CustomerLine `gorm:"constraint:OnDelete:CASCADE"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

// TotalCredit: Kayıt düzeyinde ayrıca saklanmaz, her zaman satır
// kalemlerinden türetilir.
func (r *SalesRecord) TotalCredit() decimal.Decimal {
	total := decimal.Zero
	for _, li := range r.LineItems {
		total = total.Add(li.Credit)
	}
	return total
}

// CustomerLine: SalesRecord içine gömülü müşteri satırı, bağımsız
// yaşam döngüsü yok.
type CustomerLine struct {
	ID            uint `gorm:"primaryKey"`
	SalesRecordID uint `gorm:"index;not null"`

	Position    int    `gorm:"not null"` // giriş sırası
	FileRef     int    `gorm:"not null"` // dosya/fiş numarası
	Name        string `gorm:"size:100;not null"`
	Description string `gorm:"size:255"`

	Sales   decimal.Decimal `gorm:"type:numeric(14,2);not null"`
	Profit  decimal.Decimal `gorm:"type:numeric(14,2);not null"`
	Credit  decimal.Decimal `gorm:"type:numeric(14,2);not null"`
	Expense decimal.Decimal `gorm:"type:numeric(14,2);not null"`
	VAT     decimal.Decimal `gorm:"type:numeric(14,2);not null"`
	Parts   decimal.Decimal `gorm:"type:numeric(14,2);not null"`

	CreatedAt time.Time
	UpdatedAt time.Time
}
