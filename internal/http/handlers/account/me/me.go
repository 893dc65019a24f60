// Package me реализует HTTP-обработчик выдачи сводки текущей учётной записи.
package me

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/compliance-portal/internal/http/middlewarectx"
	"github.com/magabrotheeeer/compliance-portal/internal/http/response"
	"github.com/magabrotheeeer/compliance-portal/internal/lib/sl"
	"github.com/magabrotheeeer/compliance-portal/internal/models"
)

// AccountReader описывает чтение учётной записи по ID.
type AccountReader interface {
	GetAccount(ctx context.Context, id int64) (*models.Account, error)
}

// Handler обрабатывает запросы текущей учётной записи.
type Handler struct {
	log      *slog.Logger
	accounts AccountReader
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, accounts AccountReader) *Handler {
	return &Handler{log: log, accounts: accounts}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.account.me"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	subject, ok := middlewarectx.SubjectFromContext(r.Context())
	if !ok || subject == nil {
		log.Error("subject missing from context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("authentication required"))
		return
	}

	account, err := h.accounts.GetAccount(r.Context(), subject.ID)
	if err != nil {
		log.Error("failed to read account", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("internal service error"))
		return
	}

	render.JSON(w, r, response.OKWithData(map[string]any{
		"account":             account.Summary(),
		"subscription_status": string(account.SubscriptionStatus),
	}))
}
