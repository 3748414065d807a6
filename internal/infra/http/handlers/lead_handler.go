package handlers

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/cocinavecinal/cocina-vecinal-api/internal/infra/http/middleware"
	"github.com/cocinavecinal/cocina-vecinal-api/internal/usecase"
)

type LeadHandler struct {
	intake      *usecase.LeadIntake
	rateLimiter *RateLimiter
}

func NewLeadHandler(intake *usecase.LeadIntake) *LeadHandler {
	return &LeadHandler{
		intake:      intake,
		rateLimiter: NewRateLimiter(10, time.Minute), // 10 req/min por IP
	}
}

// LeadResponse es el contrato de la landing: {ok, message|error}.
type LeadResponse struct {
	OK      bool   `json:"ok"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

// Capture maneja POST /api/leads.
func (h *LeadHandler) Capture(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	clientIP := getClientIP(r)
	if !h.rateLimiter.Allow(clientIP) {
		writeJSON(w, http.StatusTooManyRequests, LeadResponse{
			OK:    false,
			Error: "Demasiadas solicitudes, intenta de nuevo en un minuto",
		})
		return
	}

	var payload usecase.LeadPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeJSON(w, http.StatusBadRequest, LeadResponse{OK: false, Error: "invalid body"})
		return
	}

	outcome := h.intake.Evaluate(payload)
	if !outcome.Accepted {
		middleware.RecordLeadCapture("rejected")
		writeJSON(w, statusFor(outcome.Reason), LeadResponse{OK: false, Error: outcome.Message})
		return
	}

	// Honeypot: Evaluate aceptó sin construir lead. Respondemos éxito
	// idéntico al real y no tocamos la base.
	if outcome.Lead == nil {
		middleware.RecordLeadCapture("honeypot")
		writeJSON(w, http.StatusOK, LeadResponse{OK: true, Message: outcome.Message})
		return
	}

	outcome = h.intake.Persist(ctx, outcome.Lead)
	if !outcome.Accepted {
		middleware.RecordLeadCapture("rejected")
		writeJSON(w, statusFor(outcome.Reason), LeadResponse{OK: false, Error: outcome.Message})
		return
	}

	middleware.RecordLeadCapture("accepted")
	writeJSON(w, http.StatusOK, LeadResponse{OK: true, Message: outcome.Message})
}

func statusFor(reason usecase.RejectReason) int {
	switch reason {
	case usecase.RejectInvalidEmail, usecase.RejectInvalidPhone, usecase.RejectPhoneMismatch:
		return http.StatusBadRequest
	case usecase.RejectDuplicateEmail, usecase.RejectDuplicatePhone, usecase.RejectDuplicateOther:
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

func getClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		return xff
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}
	return r.RemoteAddr
}

type RateLimiter struct {
	mu       sync.Mutex
	visitors map[string]*visitor
	limit    int
	window   time.Duration
}

type visitor struct {
	count     int
	lastReset time.Time
}

func NewRateLimiter(limit int, window time.Duration) *RateLimiter {
	rl := &RateLimiter{
		visitors: make(map[string]*visitor),
		limit:    limit,
		window:   window,
	}

	go rl.cleanup()
	return rl
}

func (rl *RateLimiter) Allow(ip string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	v, exists := rl.visitors[ip]
	now := time.Now()

	if !exists {
		rl.visitors[ip] = &visitor{count: 1, lastReset: now}
		return true
	}

	if now.Sub(v.lastReset) > rl.window {
		v.count = 1
		v.lastReset = now
		return true
	}

	v.count++
	return v.count <= rl.limit
}

func (rl *RateLimiter) cleanup() {
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		rl.mu.Lock()
		now := time.Now()
		for ip, v := range rl.visitors {
			if now.Sub(v.lastReset) > rl.window*2 {
				delete(rl.visitors, ip)
			}
		}
		rl.mu.Unlock()
	}
}
