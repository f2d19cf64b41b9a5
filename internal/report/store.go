package report

import (
	"context"

	"satis-takip-backend/internal/models"

	"gorm.io/gorm"
)

// GormStore: Store arayüzünün gorm implementasyonu. Tek tutarlılık
// sınırı veritabanının kendisidir; sorgu başına read-committed snapshot.
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) FindRecordsInWindow(ctx context.Context, ownerID *uint, w Window) ([]models.SalesRecord, error) {
	var records []models.SalesRecord

	q := s.db.WithContext(ctx).
		Preload("LineItems", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		Where("created_at >= ? AND created_at <= ?", w.Start, w.End)

	if ownerID != nil {
		q = q.Where("owner_id = ?", *ownerID)
	}

	if err := q.Order("created_at ASC").Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

func (s *GormStore) FindUsersByIDs(ctx context.Context, ids []uint) ([]models.User, error) {
	if len(ids) == 0 {
		return []models.User{}, nil
	}

	var users []models.User
	if err := s.db.WithContext(ctx).Where("id IN ?", ids).Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

func (s *GormStore) FindAdmins(ctx context.Context) ([]models.User, error) {
	var admins []models.User
	if err := s.db.WithContext(ctx).Where("is_admin = ?", true).Find(&admins).Error; err != nil {
		return nil, err
	}
	return admins, nil
}
