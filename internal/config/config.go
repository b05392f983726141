package config

import (
	"errors"
	"time"
)

type Config struct {
	Environment Environment
	Log         Log
	HTTP        HTTPServer

	DB       Database `envPrefix:"DB_"`
	Redis    Redis    `envPrefix:"REDIS_"`
	Cashbill Cashbill `envPrefix:"CASHBILL_"`
	JWT      JWT      `envPrefix:"JWT_"`
}

// Cashbill holds gateway credentials. BaseApiURL, when set, replaces the
// live/test endpoint pair.
type Cashbill struct {
	ShopID       string        `env:"SHOP_ID"`
	SecretKey    string        `env:"SECRET_KEY"`
	TestMode     bool          `env:"TEST_MODE" envDefault:"false"`
	BaseApiURL   string        `env:"BASE_API_URL"`
	Timeout      time.Duration `env:"TIMEOUT" envDefault:"20s"`
	Currency     string        `env:"CURRENCY" envDefault:"PLN"`
	Referer      string        `env:"REFERER" envDefault:"game-shop"`
	LanguageCode string        `env:"LANGUAGE_CODE" envDefault:"PL"`
}

type Database struct {
	Driver          string        `env:"DRIVER" envDefault:"mysql"` // mysql, postgres, sqlite
	URL             string        `env:"URL"`
	MaxIdleConns    int           `env:"MAX_IDLE_CONNS" envDefault:"10"`
	MaxOpenConns    int           `env:"MAX_OPEN_CONNS" envDefault:"50"`
	ConnMaxLifetime time.Duration `env:"CONN_MAX_LIFETIME" envDefault:"1h"`
}

type Redis struct {
	Addr          string        `env:"ADDR"`
	Password      string        `env:"PASSWORD"`
	DB            int           `env:"DB" envDefault:"0"`
	ProductsTTL   time.Duration `env:"PRODUCTS_TTL" envDefault:"1h"`
	CategoriesTTL time.Duration `env:"CATEGORIES_TTL" envDefault:"2h"`
}

type JWT struct {
	Secret string        `env:"SECRET"`
	TTL    time.Duration `env:"TTL" envDefault:"24h"`
}

type Environment struct {
	Name string `env:"ENVIRONMENT" envDefault:"development"`
}

type Log struct {
	Level  string `env:"LOG_LEVEL" envDefault:"info"`
	Format string `env:"LOG_FORMAT" envDefault:"json"`
}

type HTTPServer struct {
	Host            string        `env:"HTTP_HOST" envDefault:"0.0.0.0"`
	Port            string        `env:"HTTP_PORT" envDefault:"8080"`
	ReadTimeout     time.Duration `env:"HTTP_READ_TIMEOUT" envDefault:"15s"`
	WriteTimeout    time.Duration `env:"HTTP_WRITE_TIMEOUT" envDefault:"60s"`
	ShutdownTimeout time.Duration `env:"HTTP_SHUTDOWN_TIMEOUT" envDefault:"30s"`
}

func (c *Config) Validate() error {
	var errs []error
	if c.Cashbill.ShopID == "" {
		errs = append(errs, errors.New("CASHBILL_SHOP_ID is required"))
	}
	if c.Cashbill.SecretKey == "" {
		errs = append(errs, errors.New("CASHBILL_SECRET_KEY is required"))
	}
	if c.JWT.Secret == "" {
		errs = append(errs, errors.New("JWT_SECRET is required"))
	}
	if c.DB.URL == "" {
		errs = append(errs, errors.New("DB_URL is required"))
	}
	return errors.Join(errs...)
}
