package config

import (
	"errors"
	"os"
)

// Config concentra todo lo que antes se leía con os.Getenv regado por el
// código. Se carga una vez en el arranque y se comparte en solo lectura.
type Config struct {
	Port        string
	DatabaseURL string
	JWTSecret   string

	RabbitUser string
	RabbitPass string
	RabbitHost string
	RabbitPort string

	RedisAddr string // opcional: vacío = sin caché

	MailHost string
	MailPort int
	MailUser string
	MailPass string
	MailFrom string

	WhatsAppToken   string
	WhatsAppPhoneID string

	// Defaults del formulario de la landing.
	LeadDefaultCity string
}

// Load lee el entorno. DATABASE_URL y JWT_SECRET son obligatorios: sin
// ellos el servidor no puede responder nada útil y preferimos fallar en
// el arranque con un mensaje claro en vez de un 500 misterioso después.
func Load() (*Config, error) {
	cfg := &Config{
		Port:            getenv("PORT", "8080"),
		DatabaseURL:     os.Getenv("DATABASE_URL"),
		JWTSecret:       os.Getenv("JWT_SECRET"),
		RabbitUser:      getenv("RABBITMQ_USER", "guest"),
		RabbitPass:      getenv("RABBITMQ_PASS", "guest"),
		RabbitHost:      getenv("RABBITMQ_HOST", "localhost"),
		RabbitPort:      getenv("RABBITMQ_PORT", "5672"),
		RedisAddr:       os.Getenv("REDIS_ADDR"),
		MailHost:        os.Getenv("MAIL_HOST"),
		MailPort:        587,
		MailUser:        os.Getenv("MAIL_USER"),
		MailPass:        os.Getenv("MAIL_PASS"),
		MailFrom:        getenv("MAIL_FROM", "hola@cocinavecinal.co"),
		WhatsAppToken:   os.Getenv("WHATSAPP_ACCESS_TOKEN"),
		WhatsAppPhoneID: os.Getenv("WHATSAPP_PHONE_ID"),
		LeadDefaultCity: os.Getenv("LEAD_DEFAULT_CITY"),
	}

	if cfg.DatabaseURL == "" {
		return nil, errors.New("DATABASE_URL no configurada")
	}
	if cfg.JWTSecret == "" {
		return nil, errors.New("JWT_SECRET no configurado")
	}

	return cfg, nil
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
