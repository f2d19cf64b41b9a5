package digest

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"satis-takip-backend/internal/report"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Job: Her gün sabit saatte çalışan özet işi. Hiçbir hatası host
// process'i düşürmez, sonraki çalışmaları engellemez; tek görevi
// günün tablosunu admin'lere postalamaktır.
type Job struct {
	engine *report.Engine
	store  report.Store
	mailer Mailer
	log    *logrus.Logger

	mu sync.Mutex // çakışan çalışmalar beklemez, atlanır
}

func NewJob(engine *report.Engine, store report.Store, mailer Mailer, log *logrus.Logger) *Job {
	return &Job{engine: engine, store: store, mailer: mailer, log: log}
}

// Run: cron tarafından tetiklenir; dönüş değeri yok, tüm hatalar
// loglanıp yutulur.
func (j *Job) Run() {
	if !j.mu.TryLock() {
		j.log.Warn("Günlük özet zaten çalışıyor, bu tetikleme atlandı")
		return
	}
	defer j.mu.Unlock()

	log := j.log.WithField("run_id", uuid.NewString())
	now := j.engine.Clock()()

	w, err := report.ResolveWindow(report.WindowToday, report.WindowParams{}, j.engine.Clock())
	if err != nil {
		log.WithError(err).Error("Günlük özet penceresi çözülemedi")
		return
	}

	ctx, cancel := j.engine.QueryContext(context.Background())
	defer cancel()

	records, err := j.store.FindRecordsInWindow(ctx, nil, w)
	if err != nil {
		log.WithError(err).Error("Günlük özet verisi toplanamadı")
		return
	}
	if len(records) == 0 {
		// Bugün kayıt yoksa iş no-op'tur
		log.Info("Bugün için satış kaydı yok, özet gönderilmedi")
		return
	}

	// Liderlik sıralaması ham satış toplamlarıyla
	totals, err := j.engine.EmployeeAggregate(ctx, report.MetricSales, w)
	if err != nil {
		log.WithError(err).Error("Çalışan toplamları hesaplanamadı")
		return
	}

	admins, err := j.store.FindAdmins(ctx)
	if err != nil {
		log.WithError(err).Error("Admin listesi alınamadı")
		return
	}
	if len(admins) == 0 {
		log.Warn("Özet gönderilecek admin yok")
		return
	}

	dateStr := now.Format("2006-01-02")
	rangeLabel := fmt.Sprintf("%s - %s", w.Start.Format("2006-01-02"), w.End.Format("2006-01-02"))
	summary, rows := report.BuildReportData(records, "Günlük Satış Özeti", rangeLabel)

	pdfData, err := report.RenderReport(report.FormatPDF, summary, rows, now)
	if err != nil {
		log.WithError(err).Error("Özet PDF'i üretilemedi")
		return
	}

	var body strings.Builder
	fmt.Fprintf(&body, "%s günü satış özeti:\n\n", dateStr)
	for i, t := range totals {
		fmt.Fprintf(&body, "%d. %s (%s): %s TL\n", i+1, t.Username, t.Email, t.Total.StringFixed(2))
	}
	body.WriteString("\nDetaylar ekteki PDF raporunda.")

	addresses := make([]string, 0, len(admins))
	for _, a := range admins {
		addresses = append(addresses, a.Email)
	}

	subject := "Günlük Satış Özeti - " + dateStr
	filename := report.SuggestedFilename(report.FormatPDF, "", now)
	if err := j.mailer.Send(addresses, subject, body.String(), pdfData, filename); err != nil {
		log.WithError(err).Error("Günlük özet e-postası gönderilemedi")
		return
	}

	log.WithFields(logrus.Fields{
		"recipients": len(addresses),
		"records":    len(records),
	}).Info("Günlük özet gönderildi")
}
