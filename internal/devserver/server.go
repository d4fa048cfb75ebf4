// Package devserver is a stand-in for the portal backend so the client can be
// exercised offline. It honors the documented endpoint contract, including
// the status codes the transport classifies on. Not a production backend:
// accounts live in memory and vanish on restart.
package devserver

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"medai/internal/config"
	"medai/internal/domain"
	"medai/internal/logger"
)

const (
	maxFailedLogins = 5
	lockoutWindow   = time.Minute
)

type account struct {
	ID           string
	FullName     string
	Email        string
	PasswordHash []byte

	Age              string
	Gender           string
	Phone            string
	HealthID         string
	EmergencyContact domain.EmergencyContact
}

type failureRecord struct {
	count int
	last  time.Time
}

type Server struct {
	mu       sync.Mutex
	accounts map[string]*account
	failures map[string]*failureRecord

	jwtSecret []byte
	jwtExpiry time.Duration
	log       logger.Logger
}

func New(cfg *config.Config, log logger.Logger) *Server {
	s := &Server{
		accounts:  make(map[string]*account),
		failures:  make(map[string]*failureRecord),
		jwtSecret: []byte(cfg.JWTSecret),
		jwtExpiry: cfg.JWTExpiry,
		log:       log,
	}
	s.seedDemoAccount()
	return s
}

// requireMethod emulates Go 1.22+ "METHOD /path" ServeMux patterns on the
// Go 1.21 toolchain: wrong methods get 405 with an Allow header, and HEAD is
// accepted where GET is, matching the newer mux's behavior.
func requireMethod(method string, h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != method && !(method == http.MethodGet && r.Method == http.MethodHead) {
			w.Header().Set("Allow", method)
			http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
			return
		}
		h(w, r)
	}
}

func (s *Server) Router() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/health", requireMethod(http.MethodGet, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	}))

	mux.HandleFunc("/login", requireMethod(http.MethodPost, s.handleLogin))
	mux.HandleFunc("/signup", requireMethod(http.MethodPost, s.handleSignup))

	return mux
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req domain.Credentials
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	s.mu.Lock()
	acc, ok := s.accounts[req.Email]
	if ok && s.lockedOut(req.Email) {
		s.mu.Unlock()
		writeMessage(w, http.StatusTooManyRequests, "Too many attempts")
		return
	}
	s.mu.Unlock()

	if !ok {
		writeMessage(w, http.StatusNotFound, "Account not found")
		return
	}

	if err := bcrypt.CompareHashAndPassword(acc.PasswordHash, []byte(req.Password)); err != nil {
		s.recordFailure(req.Email)
		writeMessage(w, http.StatusUnauthorized, "Invalid email or password")
		return
	}

	s.clearFailures(req.Email)
	s.issueSession(w, http.StatusOK, acc)
}

func (s *Server) handleSignup(w http.ResponseWriter, r *http.Request) {
	var req domain.SignupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Email == "" || req.Password == "" || req.FullName == "" {
		writeMessage(w, http.StatusBadRequest, "Missing required fields")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		writeMessage(w, http.StatusInternalServerError, "Could not create account")
		return
	}

	acc := &account{
		ID:           uuid.NewString(),
		FullName:     req.FullName,
		Email:        req.Email,
		PasswordHash: hash,

		Age:              req.Age,
		Gender:           req.Gender,
		Phone:            req.Phone,
		HealthID:         req.HealthID,
		EmergencyContact: req.EmergencyContact,
	}

	s.mu.Lock()
	if _, exists := s.accounts[req.Email]; exists {
		s.mu.Unlock()
		writeMessage(w, http.StatusConflict, "An account with this email already exists")
		return
	}
	s.accounts[req.Email] = acc
	s.mu.Unlock()

	s.log.Info("account created", "email", acc.Email)
	s.issueSession(w, http.StatusCreated, acc)
}

func (s *Server) issueSession(w http.ResponseWriter, status int, acc *account) {
	claims := jwt.MapClaims{
		"sub":   acc.ID,
		"email": acc.Email,
		"exp":   time.Now().Add(s.jwtExpiry).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(s.jwtSecret)
	if err != nil {
		writeMessage(w, http.StatusInternalServerError, "Could not issue token")
		return
	}

	writeJSON(w, status, domain.AuthResponse{
		Token: tokenString,
		User: domain.UserProfile{
			"id":    acc.ID,
			"name":  acc.FullName,
			"email": acc.Email,
		},
	})
}

// lockedOut and recordFailure implement the 429 contract: repeated failed
// logins for one account inside the window get rejected before the password
// check runs. Callers of lockedOut hold s.mu.
func (s *Server) lockedOut(email string) bool {
	rec, ok := s.failures[email]
	if !ok {
		return false
	}
	if time.Since(rec.last) > lockoutWindow {
		delete(s.failures, email)
		return false
	}
	return rec.count >= maxFailedLogins
}

func (s *Server) recordFailure(email string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.failures[email]
	if !ok || time.Since(rec.last) > lockoutWindow {
		rec = &failureRecord{}
		s.failures[email] = rec
	}
	rec.count++
	rec.last = time.Now()
}

func (s *Server) clearFailures(email string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.failures, email)
}

func (s *Server) seedDemoAccount() {
	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	if err != nil {
		return
	}
	s.accounts["demo@medai.health"] = &account{
		ID:           uuid.NewString(),
		FullName:     "Demo Patient",
		Email:        "demo@medai.health",
		PasswordHash: hash,
	}
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

func writeMessage(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"message": message})
}
