// Package config предоставляет структуры и функцию для парсинга и загрузки конфига
package config

import (
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config общая структура для хранения настроек
type Config struct {
	Env                     string `yaml:"env" env:"ENV" env-default:"local"`
	StorageConnectionString string `yaml:"storage_connection_string" env:"STORAGE_CONNECTION_STRING"`
	MigrationsPath          string `yaml:"migrations_path" env:"MIGRATIONS_PATH" env-default:"./migrations"`
	RabbitMQConnection      string `yaml:"rabbitmq_connection" env:"RABBITMQ_CONNECTION"`
	RedisConnection         `yaml:"redis_connection"`
	HTTPServer              `yaml:"http_server"`
	JWTToken                `yaml:"jwttoken"`
	PayPal                  `yaml:"paypal"`
	SMTP                    `yaml:"smtp"`
}

// HTTPServer структура для настройки сервера
type HTTPServer struct {
	AddressHTTP string        `yaml:"addresshttp" env:"ADDRESS_HTTP" env-default:":8080"`
	TimeoutHTTP time.Duration `yaml:"timeouthttp" env-default:"5s"`
	IdleTimeout time.Duration `yaml:"idle_timeout" env-default:"60s"`
}

// RedisConnection структура для настройки подключения к redis
type RedisConnection struct {
	AddressRedis string        `yaml:"addressredis" env:"ADDRESS_REDIS"`
	Password     string        `yaml:"password" env:"REDIS_PASSWORD"`
	User         string        `yaml:"user" env:"REDIS_USER"`
	DB           int           `yaml:"db" env-default:"0"`
	MaxRetries   int           `yaml:"max_retries" env-default:"3"`
	DialTimeout  time.Duration `yaml:"dial_timeout" env-default:"5s"`
	TimeoutRedis time.Duration `yaml:"timeoutredis" env-default:"3s"`
}

// JWTToken структура для работы с jwt-токеном
type JWTToken struct {
	JWTSecretKey string        `yaml:"jwt_secret_key" env:"JWT_SECRET_KEY"`
	TokenTTL     time.Duration `yaml:"token_ttl" env-default:"24h"`
}

// PayPal структура для настройки клиента PayPal.
//
// WebhookID — идентификатор вебхука из панели разработчика PayPal,
// обязателен для проверки подписи входящих событий.
type PayPal struct {
	ClientID       string        `yaml:"client_id" env:"PAYPAL_CLIENT_ID"`
	ClientSecret   string        `yaml:"client_secret" env:"PAYPAL_CLIENT_SECRET"`
	Environment    string        `yaml:"environment" env:"PAYPAL_ENV" env-default:"sandbox"`
	WebhookID      string        `yaml:"webhook_id" env:"PAYPAL_WEBHOOK_ID"`
	PlanID         string        `yaml:"plan_id" env:"PAYPAL_PLAN_ID"`
	ReturnURL      string        `yaml:"return_url" env:"PAYPAL_RETURN_URL"`
	CancelURL      string        `yaml:"cancel_url" env:"PAYPAL_CANCEL_URL"`
	RequestTimeout time.Duration `yaml:"request_timeout" env-default:"10s"`
}

// SMTP структура для настройки почтового транспорта
type SMTP struct {
	SMTPHost    string `yaml:"smtp_host" env:"SMTP_HOST"`
	SMTPPort    string `yaml:"smtp_port" env:"SMTP_PORT" env-default:"587"`
	SMTPUser    string `yaml:"smtp_user" env:"SMTP_USER"`
	SMTPPass    string `yaml:"smtp_pass" env:"SMTP_PASS"`
	AdminEmail  string `yaml:"admin_email" env:"ADMIN_EMAIL"`
	SenderEmail string `yaml:"sender_email" env:"SENDER_EMAIL"`
}

// MustLoad функция для загрузки конфига, завершает процесс при любой ошибке чтения
func MustLoad() *Config {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		log.Fatal("CONFIG_PATH is not set")
	}
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		log.Fatalf("file: %s - does not exist", configPath)
	}
	var cfg Config

	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		log.Fatalf("cannot read config: %s", err)
	}
	return &cfg
}
