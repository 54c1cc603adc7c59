package me

import (
	"aiexchange/internal/core/domain/user"
	"aiexchange/internal/core/services"
	getcurrentuser "aiexchange/internal/core/services/get_current_user"
	"aiexchange/internal/http/handlers/response"
	"errors"
	"net/http"
)

type Handler struct {
	service services.Service[getcurrentuser.Input, getcurrentuser.Result]
}

func New(
	service services.Service[getcurrentuser.Input, getcurrentuser.Result],
) *Handler {
	if service == nil {
		panic("service must not be nil")
	}
	return &Handler{service: service}
}

func (h *Handler) ServeHTTP(rw http.ResponseWriter, r *http.Request) {
	result, err := h.service.Run(r.Context(), getcurrentuser.Input{})
	if errors.Is(err, user.ErrInvalidAccessToken) || errors.Is(err, user.ErrUserDoesNotExist) {
		response.RenderUnauthorized(rw)
		return
	}
	if errors.Is(err, user.ErrUserIsNotActive) {
		response.RenderError(rw, "Account is deactivated", http.StatusForbidden)
		return
	}
	if errors.Is(err, user.ErrUserIsNotApproved) {
		response.RenderError(rw, "Account is pending approval", http.StatusForbidden)
		return
	}
	if err != nil {
		response.RenderInternalError(rw)
		return
	}

	u := response.User{}
	u.FromDomainUser(result.User)
	response.Render(rw, u, http.StatusOK)
}
