// Copyright (c) 2026 Veriface. All rights reserved.
// Author: dev@veriface.io

package audit

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/veriface/veriface/internal/platform/middleware"
	"github.com/veriface/veriface/internal/platform/respond"
	"github.com/veriface/veriface/internal/platform/validate"
	"github.com/veriface/veriface/pkg/pagination"
)

// Handler implements the HTTP layer for the authentication trail.
type Handler struct {
	auditService *Service
}

// NewHandler constructs a new audit [Handler] with its service dependency.
func NewHandler(service *Service) *Handler {
	return &Handler{auditService: service}
}

// Routes returns a [chi.Router] configured with the trail's endpoints.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth)
		r.Get("/", handler.list)
	})

	return router
}

/*
GET /api/v1/audit.

Description: Retrieves a paginated slice of the authentication trail, newest
first. Optional query parameters narrow the listing.

Request:
  - Query: page, limit, user_id (UUID), action

Response:
  - 200: []Entry: Paginated list
  - 400: ErrValidation: Malformed user_id filter
  - 401: ErrUnauthorized: Authentication required
*/
func (handler *Handler) list(writer http.ResponseWriter, request *http.Request) {
	paginationParams := pagination.FromRequest(request)

	filter := Filter{
		UserID: request.URL.Query().Get("user_id"),
		Action: request.URL.Query().Get("action"),
	}

	if filter.UserID != "" {
		validator := &validate.Validator{}
		if err := validator.UUID("user_id", filter.UserID).Err(); err != nil {
			respond.Error(writer, request, err)
			return
		}
	}

	entries, total, err := handler.auditService.List(request.Context(), filter, paginationParams.Limit, paginationParams.Offset())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if entries == nil {
		entries = []*Entry{}
	}

	respond.Paginated(writer, entries, pagination.NewMeta(paginationParams.Page, paginationParams.Limit, total))
}
