package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds every runtime setting, grouped by concern.
// All values come from environment variables with development defaults.
type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Redis    RedisConfig
	JWT      JWTConfig
	Email    EmailConfig
	Loan     LoanConfig
}

type AppConfig struct {
	Environment string
	Port        string
	FrontendURL string
}

type DatabaseConfig struct {
	// Path to the SQLite database file.
	Path string
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

type JWTConfig struct {
	Secret string
	Expiry time.Duration
	Issuer string
}

type EmailConfig struct {
	SMTPHost string
	SMTPPort string
	Username string
	Password string
	From     string
	FromName string
	// LibrarianInbox receives every loan-request notification.
	LibrarianInbox string
}

// LoanConfig is the lending policy.
// BorrowDays applies to direct borrowing, ApprovalDays to approved
// loan requests. They default differently on purpose.
type LoanConfig struct {
	BorrowDays      int
	ApprovalDays    int
	RenewalDays     int
	RenewalLimit    int
	MemberLoanLimit int
	StaffLoanLimit  int
}

func Load() *Config {
	return &Config{
		App: AppConfig{
			Environment: getEnv("APP_ENV", "development"),
			Port:        getEnv("APP_PORT", "8080"),
			FrontendURL: getEnv("FRONTEND_URL", "http://localhost:5173"),
		},
		Database: DatabaseConfig{
			Path: getEnv("DB_PATH", "library.db"),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
		},
		JWT: JWTConfig{
			Secret: getEnv("JWT_SECRET", "dev-secret-change-me"),
			Expiry: time.Duration(getEnvInt("JWT_EXPIRY_HOURS", 168)) * time.Hour,
			Issuer: getEnv("JWT_ISSUER", "library-backend"),
		},
		Email: EmailConfig{
			SMTPHost:       getEnv("SMTP_HOST", "localhost"),
			SMTPPort:       getEnv("SMTP_PORT", "587"),
			Username:       getEnv("SMTP_USERNAME", ""),
			Password:       getEnv("SMTP_PASSWORD", ""),
			From:           getEnv("SMTP_FROM", "no-reply@example.com"),
			FromName:       getEnv("SMTP_FROM_NAME", "Sistema de Biblioteca"),
			LibrarianInbox: getEnv("LIBRARIAN_INBOX", "bibliotecario@example.com"),
		},
		Loan: LoanConfig{
			BorrowDays:      getEnvInt("LOAN_BORROW_DAYS", 14),
			ApprovalDays:    getEnvInt("LOAN_APPROVAL_DAYS", 15),
			RenewalDays:     getEnvInt("LOAN_RENEWAL_DAYS", 14),
			RenewalLimit:    getEnvInt("LOAN_RENEWAL_LIMIT", 3),
			MemberLoanLimit: getEnvInt("LOAN_MEMBER_LIMIT", 5),
			StaffLoanLimit:  getEnvInt("LOAN_STAFF_LIMIT", 10),
		},
	}
}

// Validate rejects configurations that must not reach production.
func (c *Config) Validate() error {
	if c.App.Environment == "production" {
		if c.JWT.Secret == "" || c.JWT.Secret == "dev-secret-change-me" {
			return fmt.Errorf("JWT_SECRET must be set in production")
		}
		if c.Email.SMTPHost == "localhost" {
			return fmt.Errorf("SMTP_HOST must be set in production")
		}
	}
	if c.Loan.BorrowDays <= 0 || c.Loan.ApprovalDays <= 0 || c.Loan.RenewalDays <= 0 {
		return fmt.Errorf("loan durations must be positive")
	}
	if c.Loan.MemberLoanLimit <= 0 || c.Loan.StaffLoanLimit <= 0 {
		return fmt.Errorf("loan limits must be positive")
	}
	return nil
}

func (c *RedisConfig) Addr() string {
	return c.Host + ":" + c.Port
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}
