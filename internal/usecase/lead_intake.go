package usecase

import (
	"context"
	"errors"
	"log"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/cocinavecinal/cocina-vecinal-api/internal/entity"
	"github.com/cocinavecinal/cocina-vecinal-api/internal/infra/queue"
)

// Email simple (suficiente para landing).
var emailRegex = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// LeadPayload acepta todos los alias que el front usó en algún momento:
// el teléfono puede llegar como phone/tel/wa/whatsapp y el rol como
// role/interest. La precedencia es phone > tel > wa > whatsapp y
// role > interest.
type LeadPayload struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	City     string `json:"city"`
	Role     string `json:"role"`
	Interest string `json:"interest"`

	Phone    string `json:"phone"`
	Tel      string `json:"tel"`
	Wa       string `json:"wa"`
	Whatsapp string `json:"whatsapp"`

	// "repite tu teléfono" del front, si existe
	PhoneRepeat string `json:"phoneRepeat"`
	TelRepeat   string `json:"telRepeat"`

	// honeypot anti-bots
	Honeypot string `json:"honeypot"`
}

type RejectReason string

const (
	RejectInvalidEmail   RejectReason = "INVALID_EMAIL"
	RejectInvalidPhone   RejectReason = "INVALID_PHONE"
	RejectPhoneMismatch  RejectReason = "PHONE_MISMATCH"
	RejectDuplicateEmail RejectReason = "DUPLICATE_EMAIL"
	RejectDuplicatePhone RejectReason = "DUPLICATE_PHONE"
	RejectDuplicateOther RejectReason = "DUPLICATE_OTHER"
	RejectStorageFailure RejectReason = "STORAGE_FAILURE"
)

// Outcome es el resultado terminal de evaluar o persistir un lead.
// Nunca hay reintentos: el handler lo traduce a un status HTTP y listo.
type Outcome struct {
	Accepted bool
	Reason   RejectReason
	Message  string
	Lead     *entity.Lead // nil si fue honeypot o rechazo
}

const msgThanks = "Gracias, estás en la lista"

var rejectMessages = map[RejectReason]string{
	RejectInvalidEmail:   "Email inválido",
	RejectInvalidPhone:   "Teléfono inválido",
	RejectPhoneMismatch:  "Los teléfonos no coinciden",
	RejectDuplicateEmail: "Email ya registrado",
	RejectDuplicatePhone: "Teléfono ya registrado",
	RejectDuplicateOther: "Dato ya registrado",
	RejectStorageFailure: "No se pudo guardar el lead",
}

func rejected(reason RejectReason) Outcome {
	return Outcome{Reason: reason, Message: rejectMessages[reason]}
}

// LeadIntakeConfig fija los umbrales que las iteraciones de la landing
// fueron cambiando. Canónico: mínimo 7 dígitos, máximo 32, rol por
// defecto buyer, source "landing".
type LeadIntakeConfig struct {
	MinPhoneDigits int
	MaxPhoneDigits int
	DefaultRole    entity.Role
	DefaultCity    string
	Source         string
}

func DefaultLeadIntakeConfig() LeadIntakeConfig {
	return LeadIntakeConfig{
		MinPhoneDigits: 7,
		MaxPhoneDigits: 32,
		DefaultRole:    entity.RoleBuyer,
		Source:         "landing",
	}
}

type LeadIntake struct {
	Repo   entity.LeadRepositoryInterface
	Queue  queue.ProducerInterface // opcional: nil = sin bienvenida
	Config LeadIntakeConfig
}

func NewLeadIntake(repo entity.LeadRepositoryInterface, producer queue.ProducerInterface, cfg LeadIntakeConfig) *LeadIntake {
	return &LeadIntake{Repo: repo, Queue: producer, Config: cfg}
}

// Evaluate valida y normaliza el payload sin tocar la base de datos.
func (li *LeadIntake) Evaluate(payload LeadPayload) Outcome {
	// Honeypot: si viene relleno fingimos OK para no dar pistas a bots.
	// No se construye lead ni se toca storage.
	if strings.TrimSpace(payload.Honeypot) != "" {
		return Outcome{Accepted: true, Message: msgThanks}
	}

	email := strings.ToLower(strings.TrimSpace(payload.Email))
	if email == "" || !emailRegex.MatchString(email) {
		return rejected(RejectInvalidEmail)
	}

	phoneInput := firstNonEmpty(payload.Phone, payload.Tel, payload.Wa, payload.Whatsapp)

	var phone string
	if phoneInput != "" {
		var ok bool
		phone, ok = NormalizePhone(phoneInput, li.Config.MinPhoneDigits, li.Config.MaxPhoneDigits)
		if !ok {
			return rejected(RejectInvalidPhone)
		}
	}

	// Si el front mandó "repite tu teléfono", comparamos (solo si ambos vienen).
	repeatInput := firstNonEmpty(payload.PhoneRepeat, payload.TelRepeat)
	if phoneInput != "" && repeatInput != "" {
		repeat, ok := NormalizePhone(repeatInput, li.Config.MinPhoneDigits, li.Config.MaxPhoneDigits)
		if !ok {
			return rejected(RejectInvalidPhone)
		}
		if repeat != phone {
			return rejected(RejectPhoneMismatch)
		}
	}

	city := strings.TrimSpace(payload.City)
	if city == "" {
		city = li.Config.DefaultCity
	}

	lead := &entity.Lead{
		ID:        uuid.New().String(),
		Email:     email,
		Name:      strings.TrimSpace(payload.Name),
		City:      city,
		Role:      NormalizeRole(firstNonEmpty(payload.Role, payload.Interest), li.Config.DefaultRole),
		Phone:     phone,
		Source:    li.Config.Source,
		CreatedAt: time.Now(),
	}

	return Outcome{Accepted: true, Message: msgThanks, Lead: lead}
}

// Persist inserta el lead ya normalizado y traduce los errores del
// storage. El error crudo jamás llega al cliente.
func (li *LeadIntake) Persist(ctx context.Context, lead *entity.Lead) Outcome {
	if err := li.Repo.Insert(ctx, lead); err != nil {
		if reason, ok := ClassifyConflict(err); ok {
			return rejected(reason)
		}
		log.Printf("❌ [leads] error al insertar: %v", err)
		return rejected(RejectStorageFailure)
	}

	if li.Queue != nil {
		payload := queue.WelcomePayload{
			LeadID: lead.ID,
			Name:   lead.Name,
			Email:  lead.Email,
			Phone:  lead.Phone,
			City:   lead.City,
		}
		// La bienvenida es best-effort: si la fila falla, el lead ya
		// quedó guardado y el caller recibe éxito igual.
		if err := li.Queue.PublishWelcome(ctx, payload); err != nil {
			log.Printf("⚠️ [leads] no se pudo encolar bienvenida: %v", err)
		}
	}

	return Outcome{Accepted: true, Message: msgThanks, Lead: lead}
}

// NormalizePhone deja los dígitos y conserva un "+" inicial si venía.
// Es idempotente: normalizar un teléfono ya normalizado devuelve lo mismo.
func NormalizePhone(input string, minDigits, maxDigits int) (string, bool) {
	trimmed := strings.TrimSpace(input)
	hasPlus := strings.HasPrefix(trimmed, "+")

	var b strings.Builder
	for _, r := range trimmed {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	digits := b.String()

	if len(digits) < minDigits || len(digits) > maxDigits {
		return "", false
	}

	if hasPlus {
		return "+" + digits, true
	}
	return digits, true
}

// NormalizeRole mapea los textos históricos del front al enum cerrado.
// Valor desconocido o vacío cae al default configurado.
func NormalizeRole(input string, fallback entity.Role) entity.Role {
	switch strings.ToLower(strings.TrimSpace(input)) {
	case "buyer", "comprador", "cliente":
		return entity.RoleBuyer
	case "cook", "cocinero", "cocinera":
		return entity.RoleCook
	case "both", "ambos", "ambas":
		return entity.RoleBoth
	}
	return fallback
}

// ClassifyConflict decide, por el texto del error de Postgres, qué
// columna chocó en un unique violation (23505). Es heurístico a
// propósito: detrás de un pooler el constraint no siempre llega de
// forma estructurada, así que olfateamos "email" y "phone"/"tel".
func ClassifyConflict(err error) (RejectReason, bool) {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != "23505" {
		return "", false
	}

	text := strings.ToLower(pgErr.ConstraintName + " " + pgErr.Message + " " + pgErr.Detail)

	if strings.Contains(text, "email") {
		return RejectDuplicateEmail, true
	}
	if strings.Contains(text, "phone") || strings.Contains(text, "tel") {
		return RejectDuplicatePhone, true
	}
	return RejectDuplicateOther, true
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return ""
}
