package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"

	"github.com/redmonkez12/notebook-api/internal/httputil"
	"github.com/redmonkez12/notebook-api/internal/logging"
	"github.com/redmonkez12/notebook-api/internal/user"
)

const maxBodyBytes = 1 << 20

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	if err := v.RegisterValidation("notblank", validators.NotBlank); err != nil {
		panic(err)
	}
	return v
}

// RateLimiter reports whether another request for key may proceed.
type RateLimiter interface {
	Allow(ctx context.Context, ip, purpose string) (bool, error)
}

// Handler contains HTTP handlers for the account endpoints
type Handler struct {
	service     *Service
	rateLimiter RateLimiter
}

// NewHandler builds the handler. rateLimiter may be nil to disable limiting.
func NewHandler(service *Service, rateLimiter RateLimiter) *Handler {
	return &Handler{
		service:     service,
		rateLimiter: rateLimiter,
	}
}

// RegisterRequest represents the registration request body
type RegisterRequest struct {
	Email     string `json:"email"     validate:"required,email,max=254"`
	Password  string `json:"password"  validate:"notblank"`
	FirstName string `json:"firstName" validate:"notblank"`
	LastName  string `json:"lastName"  validate:"notblank"`
}

// Validate trims the free-text fields and checks the request shape before
// anything touches storage.
func (r *RegisterRequest) Validate() error {
	r.Email = strings.TrimSpace(r.Email)
	r.FirstName = strings.TrimSpace(r.FirstName)
	r.LastName = strings.TrimSpace(r.LastName)
	return validateStruct(r)
}

// LoginRequest represents the login request body
type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email,max=254"`
	Password string `json:"password" validate:"notblank"`
}

func (r *LoginRequest) Validate() error {
	r.Email = strings.TrimSpace(r.Email)
	return validateStruct(r)
}

func validateStruct(v any) error {
	if err := validate.Struct(v); err != nil {
		return fmt.Errorf("%w: %w", ErrValidation, err)
	}
	return nil
}

// AuthResult is the body of every Register and Login response.
type AuthResult struct {
	Success bool     `json:"success"`
	Token   string   `json:"token,omitempty"`
	Errors  []string `json:"errors,omitempty"`
}

// Register handles user registration
// @Summary      Register a new account
// @Description  Creates the identity and its profile, then returns an access token.
// @Tags         accounts
// @Accept       json
// @Produce      json
// @Param        request body RegisterRequest true "Registration payload"
// @Success      200 {object} AuthResult
// @Failure      400 {object} AuthResult "Invalid payload, email in use or password rejected"
// @Failure      429 {object} AuthResult "Too many requests"
// @Failure      500 {object} AuthResult "Internal server error"
// @Router       /api/v1/Accounts/Register [post]
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	if !h.allow(w, r, "register") {
		return
	}

	var req RegisterRequest
	if err := decode(w, r, &req); err != nil {
		logger.Warn("invalid registration request body", "error", err.Error())
		h.fail(w, r, ErrValidation)
		return
	}
	if err := req.Validate(); err != nil {
		logger.Warn("registration failed: invalid payload", "error", err.Error())
		h.fail(w, r, err)
		return
	}

	logger = logger.WithFields(map[string]any{"email": req.Email})

	token, err := h.service.Register(r.Context(), RegisterInput{
		Email:     req.Email,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
	})
	if err != nil {
		logger.Warn("registration failed", "error", err.Error())
		h.fail(w, r, err)
		return
	}

	logger.Info("user registered successfully")
	httputil.RespondJSON(w, AuthResult{Success: true, Token: token}, http.StatusOK)
}

// Login handles user login
// @Summary      Log in
// @Description  Verifies email and password and returns an access token.
// @Tags         accounts
// @Accept       json
// @Produce      json
// @Param        request body LoginRequest true "Login credentials"
// @Success      200 {object} AuthResult
// @Failure      400 {object} AuthResult "Invalid payload or invalid authentication request"
// @Failure      429 {object} AuthResult "Too many requests"
// @Failure      500 {object} AuthResult "Internal server error"
// @Router       /api/v1/Accounts/Login [post]
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	if !h.allow(w, r, "login") {
		return
	}

	var req LoginRequest
	if err := decode(w, r, &req); err != nil {
		logger.Warn("invalid login request body", "error", err.Error())
		h.fail(w, r, ErrValidation)
		return
	}
	if err := req.Validate(); err != nil {
		logger.Warn("login failed: invalid payload", "error", err.Error())
		h.fail(w, r, err)
		return
	}

	logger = logger.WithFields(map[string]any{"email": req.Email})

	token, err := h.service.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		logger.Warn("login failed", "error", err.Error())
		h.fail(w, r, err)
		return
	}

	logger.Info("user logged in successfully")
	httputil.RespondJSON(w, AuthResult{Success: true, Token: token}, http.StatusOK)
}

// Profile returns the caller's profile
// @Summary      Current user profile
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} user.User
// @Failure      401 {object} httputil.ErrorResponse
// @Failure      404 {object} httputil.ErrorResponse
// @Router       /api/v1/Users/Profile [get]
func (h *Handler) Profile(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	identityID, ok := GetUserIDFromContext(r.Context())
	if !ok {
		httputil.RespondErrorWithCode(w, "missing authentication", httputil.CodeMissingAuth, http.StatusUnauthorized)
		return
	}

	fields := map[string]any{"user_id": identityID.String()}
	if email, ok := GetUserEmailFromContext(r.Context()); ok {
		fields["email"] = email
	}
	if jti, ok := GetTokenIDFromContext(r.Context()); ok {
		fields["token_id"] = jti
	}
	logger = logger.WithFields(fields)

	profile, err := h.service.Profile(r.Context(), identityID)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			logger.Warn("profile not found")
			httputil.RespondErrorWithCode(w, "profile not found", httputil.CodeNotFound, http.StatusNotFound)
			return
		}
		logger.Error("profile lookup failed", "error", err.Error())
		httputil.RespondErrorWithCode(w, "failed to load profile", httputil.CodeInternalError, http.StatusInternalServerError)
		return
	}

	httputil.RespondJSON(w, profile, http.StatusOK)
}

// allow applies the rate limiter. Limiter failures are logged and the request proceeds.
func (h *Handler) allow(w http.ResponseWriter, r *http.Request, purpose string) bool {
	if h.rateLimiter == nil {
		return true
	}

	logger := logging.GetLoggerFromContext(r.Context())
	ip := clientIP(r)

	ok, err := h.rateLimiter.Allow(r.Context(), ip, purpose)
	if err != nil {
		logger.Error("failed to check rate limit", "error", err.Error())
		return true
	}
	if !ok {
		logger.Warn("rate limit exceeded", "ip", ip, "purpose", purpose)
		httputil.RespondJSON(w, AuthResult{Errors: []string{MsgTooManyRequests}}, http.StatusTooManyRequests)
		return false
	}
	return true
}

// fail converts err into the structured error body. Anything outside the
// request error taxonomy becomes a 500 with a generic message.
func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	if msgs, ok := ClientErrors(err); ok {
		httputil.RespondJSON(w, AuthResult{Errors: msgs}, http.StatusBadRequest)
		return
	}

	logging.GetLoggerFromContext(r.Context()).Error("request failed: internal error", "error", err.Error())
	httputil.RespondJSON(w, AuthResult{Errors: []string{MsgInternal}}, http.StatusInternalServerError)
}

var errTrailingData = errors.New("request body must contain a single JSON object")

// decode reads exactly one JSON value from the body.
func decode(w http.ResponseWriter, r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		return err
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return errTrailingData
	}
	return nil
}

// clientIP relies on chi's RealIP middleware having rewritten RemoteAddr.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
