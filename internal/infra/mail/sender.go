package mail

import (
	"bytes"
	"fmt"
	"path/filepath"
	"text/template"

	"gopkg.in/gomail.v2"
)

type EmailSender struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string
}

func NewEmailSender(host string, port int, user, password, from string) *EmailSender {
	return &EmailSender{
		Host:     host,
		Port:     port,
		User:     user,
		Password: password,
		From:     from,
	}
}

type welcomeEmailData struct {
	Name string
}

// SendWelcome manda el correo de bienvenida de la landing.
func (s *EmailSender) SendWelcome(to, name string) error {
	if name == "" {
		name = "vecino"
	}

	tmplPath := filepath.Join("templates", "welcome.html")
	t, err := template.ParseFiles(tmplPath)
	if err != nil {
		return fmt.Errorf("error al leer template de correo: %w", err)
	}

	var body bytes.Buffer
	if err := t.Execute(&body, welcomeEmailData{Name: name}); err != nil {
		return fmt.Errorf("error al procesar template: %w", err)
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.From)
	m.SetHeader("To", to)
	m.SetHeader("Subject", fmt.Sprintf("¡Bienvenido a Cocina Vecinal, %s! 🍲", name))
	m.SetBody("text/html", body.String())

	d := gomail.NewDialer(s.Host, s.Port, s.User, s.Password)

	if err := d.DialAndSend(m); err != nil {
		return fmt.Errorf("error al enviar correo SMTP: %w", err)
	}

	return nil
}
