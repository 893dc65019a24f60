// Package profile реализует HTTP-обработчик, проксирующий профиль вендора
// из внешнего API комплаенс-данных с пересылкой bearer-токена вызывающего.
package profile

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/compliance-portal/internal/http/middlewarectx"
	"github.com/magabrotheeeer/compliance-portal/internal/http/response"
	"github.com/magabrotheeeer/compliance-portal/internal/lib/sl"
)

// Client описывает клиент внешнего API комплаенс-данных.
type Client interface {
	GetVendorProfile(ctx context.Context, externalID, bearerToken string) (json.RawMessage, error)
}

// Handler обрабатывает запросы профиля вендора.
type Handler struct {
	log    *slog.Logger
	client Client
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, client Client) *Handler {
	return &Handler{log: log, client: client}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.vendors.profile"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	externalID := chi.URLParam(r, "externalID")
	token := middlewarectx.BearerTokenFromContext(r.Context())

	raw, err := h.client.GetVendorProfile(r.Context(), externalID, token)
	if err != nil {
		log.Error("failed to fetch vendor profile", sl.Vendor(externalID), sl.Err(err))
		w.WriteHeader(http.StatusBadGateway)
		render.JSON(w, r, response.Error("compliance api unavailable"))
		return
	}

	render.JSON(w, r, response.OKWithData(raw))
}
