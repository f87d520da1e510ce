// Package auth supplies bearer credentials for the gateway. The identity
// provider's login UI is out of scope; these sources only keep a usable
// token in hand for the HTTP client and the notification stream.
package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/pedrops164/ShortsCreator/domain/ports"
)

// ErrNoSession - ไม่มี token ให้ใช้ (session หมดหรือยังไม่ login)
var ErrNoSession = errors.New("auth: no active session")

// expiryBuffer - refresh ก่อนหมดอายุจริง 5 นาที
const expiryBuffer = 5 * time.Minute

// StaticTokenSource wraps a token handed in from outside (e.g. the host
// app's session layer). Invalidate ends the session for good.
type StaticTokenSource struct {
	mu        sync.RWMutex
	token     string
	expiresAt time.Time
}

var _ ports.TokenSource = (*StaticTokenSource)(nil)

func NewStaticTokenSource(token string) *StaticTokenSource {
	s := &StaticTokenSource{token: token}
	s.expiresAt = expiryFromJWT(token)
	return s
}

func (s *StaticTokenSource) Token(ctx context.Context) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.token == "" || s.expired() {
		return "", ErrNoSession
	}
	return s.token, nil
}

func (s *StaticTokenSource) Invalidate() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
	s.expiresAt = time.Time{}
}

func (s *StaticTokenSource) Authenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token != "" && !s.expired()
}

func (s *StaticTokenSource) expired() bool {
	return !s.expiresAt.IsZero() && !time.Now().Add(expiryBuffer).Before(s.expiresAt)
}

// PasswordTokenSource logs in with email/password and caches the token,
// re-logging in when it expires or is invalidated after a 401.
type PasswordTokenSource struct {
	loginURL   string
	email      string
	password   string
	httpClient *http.Client
	logger     *slog.Logger

	mu        sync.RWMutex
	token     string
	expiresAt time.Time
}

var _ ports.TokenSource = (*PasswordTokenSource)(nil)

func NewPasswordTokenSource(loginURL, email, password string) *PasswordTokenSource {
	return &PasswordTokenSource{
		loginURL: loginURL,
		email:    email,
		password: password,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger: slog.Default().With("component", "token_source"),
	}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token     string `json:"token"`
	ExpiresAt int64  `json:"expiresAt,omitempty"`
	Error     string `json:"error,omitempty"`
}

// Token คืน token ที่ยังใช้ได้ (login ใหม่ถ้าหมดอายุ)
func (s *PasswordTokenSource) Token(ctx context.Context) (string, error) {
	s.mu.RLock()
	if s.token != "" && time.Now().Add(expiryBuffer).Before(s.expiresAt) {
		token := s.token
		s.mu.RUnlock()
		return token, nil
	}
	s.mu.RUnlock()

	return s.login(ctx)
}

func (s *PasswordTokenSource) login(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Double-check after acquiring write lock
	if s.token != "" && time.Now().Add(expiryBuffer).Before(s.expiresAt) {
		return s.token, nil
	}

	jsonBody, err := json.Marshal(loginRequest{Email: s.email, Password: s.password})
	if err != nil {
		return "", fmt.Errorf("failed to marshal login request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.loginURL, bytes.NewReader(jsonBody))
	if err != nil {
		return "", fmt.Errorf("failed to create login request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	s.logger.InfoContext(ctx, "Logging in", "url", s.loginURL, "email", s.email)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("login request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("login failed: %d - %s", resp.StatusCode, string(body))
	}

	var loginResp loginResponse
	if err := json.NewDecoder(resp.Body).Decode(&loginResp); err != nil {
		return "", fmt.Errorf("failed to decode login response: %w", err)
	}
	if loginResp.Token == "" {
		return "", fmt.Errorf("login error: %s", loginResp.Error)
	}

	s.token = loginResp.Token
	if loginResp.ExpiresAt > 0 {
		s.expiresAt = time.Unix(loginResp.ExpiresAt, 0)
	} else if exp := expiryFromJWT(loginResp.Token); !exp.IsZero() {
		s.expiresAt = exp
	} else {
		s.expiresAt = time.Now().Add(7 * 24 * time.Hour)
	}

	s.logger.InfoContext(ctx, "Login successful", "email", s.email, "expires_at", s.expiresAt)
	return s.token, nil
}

// Invalidate ล้าง token (เรียกเมื่อได้ 401)
func (s *PasswordTokenSource) Invalidate() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
	s.expiresAt = time.Time{}
}

func (s *PasswordTokenSource) Authenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token != "" && time.Now().Add(expiryBuffer).Before(s.expiresAt)
}

// expiryFromJWT reads the exp claim without verifying the signature.
// Verification is the gateway's job; the client only needs to know when to
// stop presenting the token.
func expiryFromJWT(token string) time.Time {
	parser := jwt.NewParser()
	claims := jwt.MapClaims{}
	if _, _, err := parser.ParseUnverified(token, claims); err != nil {
		return time.Time{}
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}
	}
	return exp.Time
}
