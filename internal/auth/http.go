// Copyright (c) 2026 BCR. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/bcr-api/bcr/internal/platform/apperr"
	"github.com/bcr-api/bcr/internal/platform/middleware"
	"github.com/bcr-api/bcr/internal/platform/respond"
	requestutil "github.com/bcr-api/bcr/internal/platform/request"
)

// Handler implements authentication-related HTTP endpoints.
//
// # Scope
//
// Login, registration and the identity echo. Handlers contain no business
// logic; every error goes straight to [respond.Error].
type Handler struct {
	authService *Service
	decoder     middleware.TokenDecoder
}

// NewHandler constructs a new [Handler]. decoder guards GET /whoami.
func NewHandler(service *Service, decoder middleware.TokenDecoder) *Handler {
	return &Handler{authService: service, decoder: decoder}
}

// Routes registers the authentication routes on router.
//
// # Endpoints
//   - POST /login    : Verifies a credential and returns a bearer token.
//   - POST /register : Creates a customer account and returns a bearer token.
//   - GET  /whoami   : Returns the stored profile of the token's user.
func (handler *Handler) Routes(router chi.Router) {
	router.Post("/login", handler.login)
	router.Post("/register", handler.register)
	router.With(middleware.Authenticate(handler.decoder)).Get("/whoami", handler.whoami)
}

// loginRequest represents the JSON payload expected for authentication.
type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// login handles POST /login requests.
//
// # Returns
//   - Writes HTTP 201 Created with the token as a bare JSON string.
//   - Writes HTTP 404 for an unknown email, 401 for a wrong password.
//   - Writes HTTP 500 for missing input or any unexpected fault.
func (handler *Handler) login(writer http.ResponseWriter, request *http.Request) {
	// ── 1. Payload Extraction ─────────────────────────────────────────────

	var input loginRequest
	if err := json.NewDecoder(http.MaxBytesReader(writer, request.Body, 1<<16)).Decode(&input); err != nil {
		appErr := apperr.InvalidInput("Invalid JSON payload")
		appErr.Cause = err
		respond.Error(writer, request, appErr)
		return
	}

	// ── 2. Application Execution ──────────────────────────────────────────

	token, err := handler.authService.Login(request.Context(), Credential{
		Email:    input.Email,
		Password: input.Password,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	// ── 3. Presentation Output ────────────────────────────────────────────

	respond.Created(writer, token)
}

// registerRequest represents the JSON payload expected for account creation.
type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Image    string `json:"image"`
}

// register handles POST /register requests.
//
// # Returns
//   - Writes HTTP 201 Created with the token as a bare JSON string.
//   - Writes HTTP 422 for validation failures or a taken email.
func (handler *Handler) register(writer http.ResponseWriter, request *http.Request) {
	var input registerRequest
	if err := requestutil.DecodeJSON(writer, request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	token, err := handler.authService.Register(request.Context(), RegisterInput{
		Name:     input.Name,
		Email:    input.Email,
		Password: input.Password,
		Image:    input.Image,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, token)
}

// whoami handles GET /whoami requests.
func (handler *Handler) whoami(writer http.ResponseWriter, request *http.Request) {
	payload, err := requestutil.RequiredUser(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.authService.WhoAmI(request.Context(), *payload)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, user)
}
