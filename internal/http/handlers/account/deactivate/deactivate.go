// Package deactivate реализует HTTP-обработчик мягкой деактивации
// учётной записи. Строка в базе сохраняется, вход становится невозможен.
package deactivate

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/compliance-portal/internal/http/response"
	"github.com/magabrotheeeer/compliance-portal/internal/lib/sl"
	"github.com/magabrotheeeer/compliance-portal/internal/storage/repository"
)

// AccountDeactivator описывает мягкую деактивацию учётной записи.
type AccountDeactivator interface {
	DeactivateAccount(ctx context.Context, id int64) error
}

// Handler обрабатывает запросы деактивации учётных записей.
type Handler struct {
	log      *slog.Logger
	accounts AccountDeactivator
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, accounts AccountDeactivator) *Handler {
	return &Handler{log: log, accounts: accounts}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.account.deactivate"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid account id"))
		return
	}

	if err := h.accounts.DeactivateAccount(r.Context(), id); err != nil {
		if errors.Is(err, repository.ErrAccountNotFound) {
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("account not found"))
			return
		}
		log.Error("failed to deactivate account", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("internal service error"))
		return
	}

	log.Info("account deactivated", slog.Int64("account_id", id))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"message": "account deactivated",
	}))
}
