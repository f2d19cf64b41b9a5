package digest

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"satis-takip-backend/internal/models"
	"satis-takip-backend/internal/report"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type mockStore struct {
	mock.Mock
}

func (m *mockStore) FindRecordsInWindow(ctx context.Context, ownerID *uint, w report.Window) ([]models.SalesRecord, error) {
	args := m.Called(ctx, ownerID, w)
	records, _ := args.Get(0).([]models.SalesRecord)
	return records, args.Error(1)
}

func (m *mockStore) FindUsersByIDs(ctx context.Context, ids []uint) ([]models.User, error) {
	args := m.Called(ctx, ids)
	users, _ := args.Get(0).([]models.User)
	return users, args.Error(1)
}

func (m *mockStore) FindAdmins(ctx context.Context) ([]models.User, error) {
	args := m.Called(ctx)
	admins, _ := args.Get(0).([]models.User)
	return admins, args.Error(1)
}

type mockMailer struct {
	mock.Mock
}

func (m *mockMailer) Send(to []string, subject, body string, attachment []byte, filename string) error {
	args := m.Called(to, subject, body, attachment, filename)
	return args.Error(0)
}

func testLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func digestClock() report.Clock {
	return func() time.Time {
		return time.Date(2024, 3, 15, 23, 0, 0, 0, time.Local)
	}
}

func digestRecord(owner uint, sales float64) models.SalesRecord {
	return models.SalesRecord{
		OwnerID:      owner,
		EntryDate:    time.Date(2024, 3, 15, 0, 0, 0, 0, time.Local),
		TotalSales:   decimal.NewFromFloat(sales),
		TotalProfit:  decimal.NewFromFloat(sales / 2),
		TotalExpense: decimal.NewFromFloat(1),
		CreatedAt:    time.Date(2024, 3, 15, 10, 0, 0, 0, time.Local),
	}
}

func TestJobRun_NoRecordsIsNoop(t *testing.T) {
	store := new(mockStore)
	mailer := new(mockMailer)

	store.On("FindRecordsInWindow", mock.Anything, (*uint)(nil), mock.Anything).
		Return([]models.SalesRecord{}, nil)

	engine := report.NewEngine(store, digestClock(), 0, false)
	job := NewJob(engine, store, mailer, testLogger())

	job.Run()

	// Kayıt yoksa ne admin sorgusu ne e-posta olur
	store.AssertNotCalled(t, "FindAdmins", mock.Anything)
	mailer.AssertNotCalled(t, "Send", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestJobRun_SendsDigestToAdmins(t *testing.T) {
	store := new(mockStore)
	mailer := new(mockMailer)

	records := []models.SalesRecord{
		digestRecord(1, 100),
		digestRecord(2, 250),
	}

	store.On("FindRecordsInWindow", mock.Anything, (*uint)(nil), mock.Anything).
		Return(records, nil)
	store.On("FindUsersByIDs", mock.Anything, []uint{1, 2}).
		Return([]models.User{
			{ID: 1, Username: "ayse", Email: "ayse@ornek.com"},
			{ID: 2, Username: "baran", Email: "baran@ornek.com"},
		}, nil)
	store.On("FindAdmins", mock.Anything).
		Return([]models.User{
			{ID: 9, Username: "patron", Email: "patron@ornek.com", IsAdmin: true},
		}, nil)

	var sentTo []string
	var sentBody string
	var attachment []byte
	var filename string
	mailer.On("Send", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			sentTo = args.Get(0).([]string)
			sentBody = args.Get(2).(string)
			attachment = args.Get(3).([]byte)
			filename = args.Get(4).(string)
		}).
		Return(nil)

	engine := report.NewEngine(store, digestClock(), 0, false)
	job := NewJob(engine, store, mailer, testLogger())

	job.Run()

	mailer.AssertNumberOfCalls(t, "Send", 1)
	assert.Equal(t, []string{"patron@ornek.com"}, sentTo)
	assert.Equal(t, "rapor_2024-03-15.pdf", filename)
	assert.True(t, len(attachment) > 0)
	// Liderlik gövdede azalan sırayla listelenir
	assert.Contains(t, sentBody, "1. baran")
	assert.Contains(t, sentBody, "2. ayse")
}

func TestJobRun_NoAdminsSkipsSend(t *testing.T) {
	store := new(mockStore)
	mailer := new(mockMailer)

	store.On("FindRecordsInWindow", mock.Anything, (*uint)(nil), mock.Anything).
		Return([]models.SalesRecord{digestRecord(1, 100)}, nil)
	store.On("FindUsersByIDs", mock.Anything, []uint{1}).
		Return([]models.User{{ID: 1, Username: "ayse", Email: "ayse@ornek.com"}}, nil)
	store.On("FindAdmins", mock.Anything).
		Return([]models.User{}, nil)

	engine := report.NewEngine(store, digestClock(), 0, false)
	job := NewJob(engine, store, mailer, testLogger())

	job.Run()

	mailer.AssertNotCalled(t, "Send", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

// Digest de store'a giden her sorguda motorun zaman aşımını taşır
func TestJobRun_StoreQueryCarriesTimeout(t *testing.T) {
	store := new(mockStore)
	mailer := new(mockMailer)

	var deadlineSet bool
	store.On("FindRecordsInWindow", mock.Anything, (*uint)(nil), mock.Anything).
		Run(func(args mock.Arguments) {
			ctx := args.Get(0).(context.Context)
			_, deadlineSet = ctx.Deadline()
		}).
		Return([]models.SalesRecord{}, nil)

	engine := report.NewEngine(store, digestClock(), 5*time.Second, false)
	job := NewJob(engine, store, mailer, testLogger())

	job.Run()

	assert.True(t, deadlineSet)
}

func TestJobRun_StoreErrorDoesNotPanic(t *testing.T) {
	store := new(mockStore)
	mailer := new(mockMailer)

	store.On("FindRecordsInWindow", mock.Anything, (*uint)(nil), mock.Anything).
		Return(nil, errors.New("bağlantı koptu"))

	engine := report.NewEngine(store, digestClock(), 0, false)
	job := NewJob(engine, store, mailer, testLogger())

	assert.NotPanics(t, func() { job.Run() })
	mailer.AssertNotCalled(t, "Send", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestJobRun_MailerErrorDoesNotPanic(t *testing.T) {
	store := new(mockStore)
	mailer := new(mockMailer)

	store.On("FindRecordsInWindow", mock.Anything, (*uint)(nil), mock.Anything).
		Return([]models.SalesRecord{digestRecord(1, 100)}, nil)
	store.On("FindUsersByIDs", mock.Anything, []uint{1}).
		Return([]models.User{{ID: 1, Username: "ayse", Email: "ayse@ornek.com"}}, nil)
	store.On("FindAdmins", mock.Anything).
		Return([]models.User{{ID: 9, Email: "patron@ornek.com", IsAdmin: true}}, nil)
	mailer.On("Send", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(&report.DeliveryError{Msg: "SMTP ulaşılamıyor"})

	engine := report.NewEngine(store, digestClock(), 0, false)
	job := NewJob(engine, store, mailer, testLogger())

	assert.NotPanics(t, func() { job.Run() })
}
