package handler

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/Dan9191/deposit-service/internal/models"
	"github.com/Dan9191/deposit-service/internal/service"
	"github.com/Dan9191/deposit-service/internal/tool"
	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
)

// maxBodySize caps request bodies; tool arguments are a handful of fields
const maxBodySize = 64 << 10

// KeyRater returns the current central bank key rate
type KeyRater interface {
	KeyRate(ctx context.Context) (float64, error)
}

// Mailer selects a deposit and sends it to a client
type Mailer interface {
	EmailRecommendation(ctx context.Context, to string, prefs models.Preferences) (string, error)
}

// Authenticator exchanges operator credentials for a token
type Authenticator interface {
	Login(username, password string) (string, error)
}

type Handler struct {
	tools    *tool.Registry
	rates    KeyRater
	mailer   Mailer
	auth     Authenticator
	log      *logrus.Logger
	validate *validator.Validate
}

func NewHandler(tools *tool.Registry, rates KeyRater, mailer Mailer, auth Authenticator, log *logrus.Logger) *Handler {
	return &Handler{
		tools:    tools,
		rates:    rates,
		mailer:   mailer,
		auth:     auth,
		log:      log,
		validate: validator.New(),
	}
}

type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

type resultResponse struct {
	Result string `json:"result"`
}

type loginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type emailRequest struct {
	Email       string             `json:"email" validate:"required,email"`
	Preferences models.Preferences `json:"preferences"`
}

// ListTools returns the declarations of all tools an agent may call
func (h *Handler) ListTools(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, h.tools.List())
}

// CallTool executes the tool named in the path with the request body as arguments
func (h *Handler) CallTool(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]
	args, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodySize))
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid_request", "failed to read request body")
		return
	}

	result, err := h.tools.Execute(r.Context(), name, args)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, resultResponse{Result: result})
}

// KeyRate returns the Bank of Russia key rate
func (h *Handler) KeyRate(w http.ResponseWriter, r *http.Request) {
	rate, err := h.rates.KeyRate(r.Context())
	if err != nil {
		h.log.Errorf("Failed to get key rate: %v", err)
		h.writeError(w, http.StatusBadGateway, "upstream_error", "failed to get key rate")
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]float64{"key_rate": rate})
}

// Login handles operator authentication
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !h.decode(w, r, &req) {
		return
	}
	token, err := h.auth.Login(req.Username, req.Password)
	if errors.Is(err, service.ErrInvalidCredentials) {
		h.writeError(w, http.StatusUnauthorized, "invalid_credentials", err.Error())
		return
	}
	if err != nil {
		h.log.Errorf("Login failed: %v", err)
		h.writeError(w, http.StatusInternalServerError, "internal_error", "login failed")
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]string{"token": token})
}

// EmailRecommendation selects a deposit and mails it to the address in the request
func (h *Handler) EmailRecommendation(w http.ResponseWriter, r *http.Request) {
	var req emailRequest
	if !h.decode(w, r, &req) {
		return
	}
	result, err := h.mailer.EmailRecommendation(r.Context(), req.Email, req.Preferences)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, resultResponse{Result: result})
}

// decode reads a JSON body into dst and validates it, writing a 400 on failure
func (h *Handler) decode(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodySize))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid_request", "invalid request body")
		return false
	}
	if err := h.validate.Struct(dst); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return false
	}
	return true
}

func (h *Handler) writeDomainError(w http.ResponseWriter, err error) {
	var schemaErr *models.CatalogSchemaError
	switch {
	case errors.Is(err, tool.ErrToolNotFound):
		h.writeError(w, http.StatusNotFound, "tool_not_found", err.Error())
	case errors.Is(err, models.ErrInvalidPreferences):
		h.writeError(w, http.StatusBadRequest, "invalid_preferences", err.Error())
	case errors.Is(err, models.ErrNoMatchFound):
		h.writeError(w, http.StatusNotFound, "no_match", err.Error())
	case errors.As(err, &schemaErr):
		h.log.Errorf("Deposit catalog is malformed: %v", err)
		h.writeError(w, http.StatusInternalServerError, "catalog_schema", err.Error())
	default:
		h.log.Errorf("Request failed: %v", err)
		h.writeError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func (h *Handler) writeError(w http.ResponseWriter, status int, code, message string) {
	h.writeJSON(w, status, errorResponse{Error: code, Message: message})
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.log.Errorf("Failed to write response: %v", err)
	}
}
