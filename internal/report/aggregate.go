package report

import (
	"context"
	"sort"
	"time"

	"satis-takip-backend/internal/models"

	"github.com/shopspring/decimal"
)

type Metric string

const (
	MetricSales   Metric = "sales"
	MetricProfit  Metric = "profit"
	MetricExpense Metric = "expense"
	MetricCredit  Metric = "credit"
)

func ParseMetric(s string) (Metric, error) {
	switch Metric(s) {
	case MetricSales, MetricProfit, MetricExpense, MetricCredit:
		return Metric(s), nil
	}
	return "", NewValidationError("metric geçersiz: %s (sales|profit|expense|credit)", s)
}

// Store: Motorun tek veri kaynağı. gorm implementasyonu store.go'da,
// testler mock ile çalışır.
type Store interface {
	FindRecordsInWindow(ctx context.Context, ownerID *uint, w Window) ([]models.SalesRecord, error)
	FindUsersByIDs(ctx context.Context, ids []uint) ([]models.User, error)
	FindAdmins(ctx context.Context) ([]models.User, error)
}

// Engine: Pencere içi kayıtlar üzerinde saf toplama. Yazma yapmaz,
// paylaşılan durumu yoktur; eşzamanlı istekler koordinasyonsuz çalışır.
type Engine struct {
	store        Store
	clock        Clock
	queryTimeout time.Duration

	// Sahibi silinmiş kayıtların çalışan bazlı toplamda görünüp
	// görünmeyeceği (varsayılan: görünmez)
	includeOrphanOwners bool
}

func NewEngine(store Store, clock Clock, queryTimeout time.Duration, includeOrphanOwners bool) *Engine {
	if clock == nil {
		clock = time.Now
	}
	return &Engine{
		store:               store,
		clock:               clock,
		queryTimeout:        queryTimeout,
		includeOrphanOwners: includeOrphanOwners,
	}
}

func (e *Engine) Clock() Clock { return e.clock }

func (e *Engine) queryCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	if e.queryTimeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, e.queryTimeout)
}

// QueryContext: Store'a motoru atlayarak giden çağrılar da aynı sorgu
// zaman aşımını taşır.
func (e *Engine) QueryContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return e.queryCtx(ctx)
}

// Yıllık toplamda ay etiketleri sabit 12 elemanlı tablodan çözülür
var monthNames = [12]string{
	"January", "February", "March", "April", "May", "June",
	"July", "August", "September", "October", "November", "December",
}

type Bucket struct {
	Index int             `json:"index"` // gün (1-31) veya ay (1-12)
	Label string          `json:"label"` // gün için boş, ay için ay adı
	Total decimal.Decimal `json:"total"`
}

type EmployeeTotal struct {
	EmployeeID uint            `json:"employee_id"`
	Username   string          `json:"username"`
	Email      string          `json:"email"`
	Total      decimal.Decimal `json:"total"`
}

func metricValue(r *models.SalesRecord, metric Metric) decimal.Decimal {
	switch metric {
	case MetricSales:
		return r.TotalSales
	case MetricProfit:
		return r.TotalProfit
	case MetricExpense:
		return r.TotalExpense
	case MetricCredit:
		// Kredi her zaman satır kalemlerinden türetilir
		return r.TotalCredit()
	}
	return decimal.Zero
}

// sameMonth: pencere tek takvim ayına sığıyor mu (gün bazlı bucket)
func sameMonth(w Window) bool {
	return w.Start.Year() == w.End.Year() && w.Start.Month() == w.End.Month()
}

// BucketedAggregate: Pencere tek aya sığıyorsa ayın günü, değilse
// yılın ayı bazında toplar. Her kayıt tam olarak tek bucket'a düşer.
func (e *Engine) BucketedAggregate(ctx context.Context, metric Metric, w Window, ownerID *uint) ([]Bucket, error) {
	qctx, cancel := e.queryCtx(ctx)
	defer cancel()

	records, err := e.store.FindRecordsInWindow(qctx, ownerID, w)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return []Bucket{}, nil
	}

	byDay := sameMonth(w)
	sums := make(map[int]decimal.Decimal)
	for i := range records {
		r := &records[i]
		var idx int
		if byDay {
			idx = r.CreatedAt.Day()
		} else {
			idx = int(r.CreatedAt.Month())
		}
		sums[idx] = sums[idx].Add(metricValue(r, metric))
	}

	buckets := make([]Bucket, 0, len(sums))
	for idx, total := range sums {
		b := Bucket{Index: idx, Total: total}
		if !byDay {
			b.Label = monthNames[idx-1]
		}
		buckets = append(buckets, b)
	}
	sort.Slice(buckets, func(i, j int) bool { return buckets[i].Index < buckets[j].Index })

	return buckets, nil
}

// EmployeeAggregate: Pencere içindeki kayıtları sahibine göre gruplar,
// kullanıcı adı/e-postayı join eder ve toplamı azalan sıralar.
func (e *Engine) EmployeeAggregate(ctx context.Context, metric Metric, w Window) ([]EmployeeTotal, error) {
	qctx, cancel := e.queryCtx(ctx)
	defer cancel()

	records, err := e.store.FindRecordsInWindow(qctx, nil, w)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return []EmployeeTotal{}, nil
	}

	sums := make(map[uint]decimal.Decimal)
	order := make([]uint, 0) // kararlı sıra için ilk görülme sırası
	for i := range records {
		r := &records[i]
		if _, ok := sums[r.OwnerID]; !ok {
			order = append(order, r.OwnerID)
		}
		sums[r.OwnerID] = sums[r.OwnerID].Add(metricValue(r, metric))
	}

	users, err := e.store.FindUsersByIDs(qctx, order)
	if err != nil {
		return nil, err
	}
	byID := make(map[uint]models.User, len(users))
	for _, u := range users {
		byID[u.ID] = u
	}

	totals := make([]EmployeeTotal, 0, len(order))
	for _, ownerID := range order {
		u, ok := byID[ownerID]
		if !ok && !e.includeOrphanOwners {
			// Sahibi artık yoksa grup dışarıda bırakılır
			continue
		}
		totals = append(totals, EmployeeTotal{
			EmployeeID: ownerID,
			Username:   u.Username,
			Email:      u.Email,
			Total:      sums[ownerID],
		})
	}

	sort.SliceStable(totals, func(i, j int) bool {
		return totals[i].Total.GreaterThan(totals[j].Total)
	})

	return totals, nil
}
