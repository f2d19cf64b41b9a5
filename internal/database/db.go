package database

import (
	"satis-takip-backend/internal/config"
	"satis-takip-backend/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

func Init(cfg *config.Config) {
	var err error

	// TranslateError: unique index ihlali gorm.ErrDuplicatedKey olarak
	// döner (aynı gün ikinci satış kaydı kontrolü buna dayanır)
	DB, err = gorm.Open(postgres.Open(cfg.DatabaseDSN), &gorm.Config{TranslateError: true})
	if err != nil {
		config.Logger().Fatalf("Veritabanına bağlanılamadı: %v", err)
	}

	err = DB.AutoMigrate(
		&models.User{},
		&models.SalesRecord{},
		&models.CustomerLine{},
		&models.LeaveApplication{},
		&models.AuditLog{},
	)
	if err != nil {
		config.Logger().Fatalf("AutoMigrate hatası: %v", err)
	}

	config.Logger().Info("Veritabanı bağlantısı başarılı. Migration tamamlandı.")
}
