package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	HTTPPort    string
	DatabaseDSN string
	JWTSecret   string
	CORSOrigins string

	// Rapor davranışı
	DBQueryTimeout       time.Duration // store sorguları için üst sınır
	PartialCurrentPeriod bool          // içinde bulunulan yılın raporu "bugüne kadar" mı, "31 Aralık" mı
	IncludeOrphanOwners  bool          // sahibi silinmiş kayıtlar çalışan toplamlarında görünsün mü

	// Günlük özet (digest) ayarları
	DigestCronSpec string // örn: "0 19 * * *"
	SMTPHost       string
	SMTPPort       int
	SMTPUser       string
	SMTPPassword   string
	MailFrom       string
}

func Load() *Config {
	// .env varsa yükle, yoksa ortam değişkenleriyle devam et
	_ = godotenv.Load()

	cfg := &Config{
		HTTPPort:    getEnv("HTTP_PORT", "8080"),
		DatabaseDSN: getEnv("DATABASE_DSN", "host=localhost user=postgres password=postgres dbname=satistakip port=5432 sslmode=disable"),
		JWTSecret:   getEnv("JWT_SECRET", ""),
		CORSOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),

		DBQueryTimeout:       getEnvDuration("DB_QUERY_TIMEOUT", 10*time.Second),
		PartialCurrentPeriod: getEnvBool("REPORT_PARTIAL_CURRENT_PERIOD", true),
		IncludeOrphanOwners:  getEnvBool("REPORT_INCLUDE_ORPHAN_OWNERS", false),

		DigestCronSpec: getEnv("DIGEST_CRON", "0 19 * * *"),
		SMTPHost:       getEnv("SMTP_HOST", ""),
		SMTPPort:       getEnvInt("SMTP_PORT", 587),
		SMTPUser:       getEnv("SMTP_USER", ""),
		SMTPPassword:   getEnv("SMTP_PASSWORD", ""),
		MailFrom:       getEnv("MAIL_FROM", "rapor@satistakip.local"),
	}

	// Production güvenlik kontrolleri
	if cfg.JWTSecret == "" {
		Logger().Fatal("JWT_SECRET environment değişkeni tanımlanmamış! Production için zorunludur.")
	}
	if len(cfg.JWTSecret) < 32 {
		Logger().Fatal("JWT_SECRET en az 32 karakter olmalıdır! Güvenlik riski.")
	}
	if cfg.SMTPHost == "" {
		Logger().Warn("SMTP_HOST tanımlı değil, günlük özet e-postaları gönderilemeyecek.")
	}

	return cfg
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func getEnvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return def
}

func getEnvDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}
