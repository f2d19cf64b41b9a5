package report

import "time"

// Clock: "şimdi" enjekte edilebilir olmalı ki pencere çözümü ve
// "bugün" raporu deterministik test edilebilsin.
type Clock func() time.Time

type WindowKind string

const (
	WindowToday   WindowKind = "today"
	WindowDate    WindowKind = "date"
	WindowMonthly WindowKind = "monthly"
	WindowYearly  WindowKind = "yearly"
	WindowRange   WindowKind = "range"
)

type WindowParams struct {
	Date  string // "2006-01-02" (kind=date)
	From  string // "2006-01-02" (kind=range)
	To    string // "2006-01-02" (kind=range)
	Month int    // 1-12, 0 = içinde bulunulan ay
	Year  int    // 0 = içinde bulunulan yıl

	// İçinde bulunulan yıl için: true ise pencere "şimdi"de biter,
	// false ise 31 Aralık'ta
	PartialCurrentPeriod bool
}

type Window struct {
	Start time.Time
	End   time.Time
}

// Contains: kayıt tam olarak tek bir pencereye düşer, çift sayım yok
func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.Start) && !t.After(w.End)
}

const dateLayout = "2006-01-02"

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func endOfDay(t time.Time) time.Time {
	return startOfDay(t).AddDate(0, 0, 1).Add(-time.Nanosecond)
}

// ResolveWindow: İstenen rapor türünü somut bir [start, end] aralığına
// çevirir. Geçersiz parametre ValidationError üretir, asla sessizce
// "şimdi" ile değiştirilmez.
func ResolveWindow(kind WindowKind, p WindowParams, now Clock) (Window, error) {
	nowT := now()
	loc := nowT.Location()

	switch kind {
	case WindowToday:
		return Window{Start: startOfDay(nowT), End: endOfDay(nowT)}, nil

	case WindowDate:
		if p.Date == "" {
			return Window{}, NewValidationError("date zorunlu (YYYY-MM-DD)")
		}
		d, err := time.ParseInLocation(dateLayout, p.Date, loc)
		if err != nil {
			return Window{}, NewValidationError("date geçersiz: %s", p.Date)
		}
		return Window{Start: startOfDay(d), End: endOfDay(d)}, nil

	case WindowMonthly:
		month := p.Month
		year := p.Year
		if month == 0 {
			month = int(nowT.Month())
		}
		if year == 0 {
			year = nowT.Year()
		}
		if month < 1 || month > 12 {
			return Window{}, NewValidationError("month geçersiz (1-12)")
		}
		if year < 2000 {
			return Window{}, NewValidationError("year geçersiz")
		}

		firstDay := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, loc)
		// İçinde bulunulan ay: "bugüne kadar" (kısmi ay)
		if year == nowT.Year() && time.Month(month) == nowT.Month() {
			return Window{Start: firstDay, End: nowT}, nil
		}
		lastDay := firstDay.AddDate(0, 1, -1)
		return Window{Start: firstDay, End: endOfDay(lastDay)}, nil

	case WindowYearly:
		year := p.Year
		if year == 0 {
			year = nowT.Year()
		}
		if year < 2000 {
			return Window{}, NewValidationError("year geçersiz")
		}

		jan1 := time.Date(year, time.January, 1, 0, 0, 0, 0, loc)
		if year == nowT.Year() && p.PartialCurrentPeriod {
			return Window{Start: jan1, End: nowT}, nil
		}
		dec31 := time.Date(year, time.December, 31, 0, 0, 0, 0, loc)
		return Window{Start: jan1, End: endOfDay(dec31)}, nil

	case WindowRange:
		if p.From == "" || p.To == "" {
			return Window{}, NewValidationError("from ve to tarihleri zorunlu (YYYY-MM-DD)")
		}
		from, err := time.ParseInLocation(dateLayout, p.From, loc)
		if err != nil {
			return Window{}, NewValidationError("from tarihi geçersiz: %s", p.From)
		}
		to, err := time.ParseInLocation(dateLayout, p.To, loc)
		if err != nil {
			return Window{}, NewValidationError("to tarihi geçersiz: %s", p.To)
		}
		if to.Before(from) {
			return Window{}, NewValidationError("to, from tarihinden önce olamaz")
		}
		// Ay bucket'ları yıl bilgisi taşımaz; 12 takvim ayından uzun
		// aralıkta aynı ay numarası iki kez düşerdi
		monthsSpanned := (to.Year()-from.Year())*12 + int(to.Month()) - int(from.Month()) + 1
		if monthsSpanned > 12 {
			return Window{}, NewValidationError("aralık 12 aydan uzun olamaz")
		}
		return Window{Start: startOfDay(from), End: endOfDay(to)}, nil

	default:
		return Window{}, NewValidationError("bilinmeyen rapor türü: %s", string(kind))
	}
}
