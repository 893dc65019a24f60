// Package answerlist реализует HTTP-обработчик выдачи списка ответов анкеты
// вендора. Перед выдачей охранник доступа вычисляется повторно: обработчик
// не полагается на то, что запрос прошёл пограничный слой.
package answerlist

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/compliance-portal/internal/http/middlewarectx"
	"github.com/magabrotheeeer/compliance-portal/internal/http/response"
	"github.com/magabrotheeeer/compliance-portal/internal/lib/rbac"
	"github.com/magabrotheeeer/compliance-portal/internal/lib/sl"
	"github.com/magabrotheeeer/compliance-portal/internal/models"
	access "github.com/magabrotheeeer/compliance-portal/internal/services/access"
	"github.com/magabrotheeeer/compliance-portal/internal/storage/repository"
)

// Handler обрабатывает запросы списка ответов анкеты.
type Handler struct {
	log      *slog.Logger
	answers  Service
	accounts middlewarectx.SubscriptionReader
}

// Service описывает интерфейс выдачи списков ответов.
type Service interface {
	List(ctx context.Context, vendorExternalID string) ([]*models.QuestionnaireAnswer, error)
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, answers Service, accounts middlewarectx.SubscriptionReader) *Handler {
	return &Handler{log: log, answers: answers, accounts: accounts}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.vendors.answerlist"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	// Повторная проверка теми же правилами, что и на границе:
	// возможность и шлюз подписки, со свежим снимком статуса.
	req := access.Requirement{
		Capability:                rbac.CapAccessTrustPortal,
		RequireActiveSubscription: true,
	}
	subject, _ := middlewarectx.SubjectFromContext(r.Context())
	subscription := models.SubscriptionNone
	if subject != nil {
		account, err := h.accounts.GetAccount(r.Context(), subject.ID)
		if err != nil {
			log.Error("failed to read subscription snapshot", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("internal service error"))
			return
		}
		subscription = account.SubscriptionStatus
	}
	decision := access.Decide(subject, subscription, req, r.URL.Path)
	if !decision.Allowed {
		w.WriteHeader(http.StatusForbidden)
		render.JSON(w, r, response.Error("access denied"))
		return
	}

	externalID := chi.URLParam(r, "externalID")
	answers, err := h.answers.List(r.Context(), externalID)
	if err != nil {
		if errors.Is(err, repository.ErrVendorNotFound) {
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("vendor not found"))
			return
		}
		log.Error("failed to list answers", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("internal service error"))
		return
	}

	render.JSON(w, r, response.OKWithData(map[string]any{
		"answers": answers,
		"count":   len(answers),
	}))
}
