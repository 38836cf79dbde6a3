// Package config содержит логику чтения конфигурации сервиса отправки заказов.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config содержит параметры конфигурации сервиса.
type Config struct {
	Debug         bool          `env:"DEBUG"`
	OrderDelay    time.Duration `env:"ORDER_DELAY" envDefault:"45s"`
	EmailTemplate string        `env:"EMAIL_TEMPLATE"`

	WooCommerce WooCommerce `envPrefix:"WC_"`
	Email       Email       `envPrefix:"EMAIL_"`
	Telegram    Telegram    `envPrefix:"TELEGRAM_"`
	Coupon      Coupon      `envPrefix:"COUPON_"`
}

// WooCommerce содержит параметры доступа к REST API магазина.
type WooCommerce struct {
	URL             string        `env:"URL,required,notEmpty"`
	UserKey         string        `env:"USER_KEY,required,notEmpty"`
	SecretKey       string        `env:"SECRET_KEY,required,notEmpty"`
	DebugEmail      string        `env:"DEBUG_EMAIL"`
	RedundantPhrase string        `env:"REDUNDANT_PHRASE" envDefault:" (материалы для преподавателей)"`
	FilesRoot       string        `env:"FILES_ROOT"`
	Timeout         time.Duration `env:"TIMEOUT" envDefault:"30s"`
}

// Email содержит параметры SMTP-отправителя.
type Email struct {
	Sender            string `env:"SENDER,required,notEmpty"`
	Password          string `env:"PASSWORD,required,notEmpty"`
	DisplayName       string `env:"DISPLAY_NAME"`
	SMTPServer        string `env:"SMTP_SERVER" envDefault:"smtp.yandex.ru"`
	SMTPPort          int    `env:"SMTP_PORT" envDefault:"465"`
	MaxAttachmentSize int64  `env:"MAX_ATTACHMENT_SIZE" envDefault:"26214400"`
}

// Telegram содержит параметры бота для отчётов.
type Telegram struct {
	BotToken string   `env:"BOT_TOKEN,required,notEmpty"`
	UsersID  []string `env:"USERS_ID" envSeparator:","`
}

// Coupon содержит параметры выпуска купонов.
type Coupon struct {
	Days               int           `env:"DAYS" envDefault:"7"`
	NoDiscountProducts []string      `env:"NO_DISCOUNT_PRODUCTS" envSeparator:"," envDefault:"оплата занятий"`
	RetryBase          time.Duration `env:"RETRY_BASE" envDefault:"1s"`
}

// Parse считывает конфигурацию из файла .env (если он есть) и переменных окружения.
func Parse() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.Email.MaxAttachmentSize <= 0 {
		return fmt.Errorf("EMAIL_MAX_ATTACHMENT_SIZE must be positive, got %d", c.Email.MaxAttachmentSize)
	}
	if c.Coupon.Days <= 0 {
		return fmt.Errorf("COUPON_DAYS must be positive, got %d", c.Coupon.Days)
	}
	if c.OrderDelay < 0 {
		return fmt.Errorf("ORDER_DELAY must not be negative, got %s", c.OrderDelay)
	}
	if c.Debug && c.WooCommerce.DebugEmail == "" {
		return errors.New("WC_DEBUG_EMAIL is required in debug mode")
	}
	return nil
}
