// Copyright (c) 2026 BCR. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package car

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/bcr-api/bcr/internal/platform/apperr"
	"github.com/bcr-api/bcr/internal/platform/middleware"
	requestutil "github.com/bcr-api/bcr/internal/platform/request"
	"github.com/bcr-api/bcr/internal/platform/respond"
	"github.com/bcr-api/bcr/internal/platform/sec"
	"github.com/bcr-api/bcr/pkg/pagination"
)

// Handler exposes the car resource over HTTP.
type Handler struct {
	service *Service
	decoder middleware.TokenDecoder
}

// NewHandler constructs a new [Handler]. decoder guards the admin routes.
func NewHandler(service *Service, decoder middleware.TokenDecoder) *Handler {
	return &Handler{service: service, decoder: decoder}
}

// Routes returns a router for mounting under /v1/cars.
//
// # Endpoints
//   - GET    /      : Paginated list.
//   - GET    /{id}  : Single car.
//   - POST   /      : Create (ADMIN).
//   - PUT    /{id}  : Update (ADMIN).
//   - DELETE /{id}  : Delete (ADMIN).
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Get("/", handler.list)
	router.Get("/{id}", handler.get)

	router.Group(func(admin chi.Router) {
		admin.Use(middleware.Authorize(handler.decoder, sec.RoleAdmin))
		admin.Post("/", handler.create)
		admin.Put("/{id}", handler.update)
		admin.Delete("/{id}", handler.delete)
	})

	return router
}

func (handler *Handler) list(writer http.ResponseWriter, request *http.Request) {
	result, err := handler.service.List(request.Context(), pagination.FromRequest(request))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, result)
}

func (handler *Handler) get(writer http.ResponseWriter, request *http.Request) {
	id, ok := requestutil.Int64Param(request, "id")
	if !ok {
		respond.Error(writer, request, apperr.ResourceNotFound(resourceName))
		return
	}

	car, err := handler.service.Get(request.Context(), id)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, car)
}

// create handles POST /v1/cars.
//
// # Returns
//   - Writes HTTP 201 Created with the stored car.
//   - Writes HTTP 422 when the body is invalid.
func (handler *Handler) create(writer http.ResponseWriter, request *http.Request) {
	var input Input
	if err := requestutil.DecodeJSON(writer, request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	car, err := handler.service.Create(request.Context(), input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Created(writer, car)
}

func (handler *Handler) update(writer http.ResponseWriter, request *http.Request) {
	// ── 1. Payload Extraction ─────────────────────────────────────────────

	id, ok := requestutil.Int64Param(request, "id")
	if !ok {
		respond.Error(writer, request, apperr.ResourceNotFound(resourceName))
		return
	}

	var input Input
	if err := requestutil.DecodeJSON(writer, request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	// ── 2. Application Execution ──────────────────────────────────────────

	car, err := handler.service.Update(request.Context(), id, input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	// ── 3. Presentation Output ────────────────────────────────────────────

	respond.OK(writer, car)
}

func (handler *Handler) delete(writer http.ResponseWriter, request *http.Request) {
	id, ok := requestutil.Int64Param(request, "id")
	if !ok {
		respond.Error(writer, request, apperr.ResourceNotFound(resourceName))
		return
	}

	if err := handler.service.Delete(request.Context(), id); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.NoContent(writer)
}
