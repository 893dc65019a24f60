package middlewarectx

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/compliance-portal/internal/http/response"
	"github.com/magabrotheeeer/compliance-portal/internal/lib/jwt"
	"github.com/magabrotheeeer/compliance-portal/internal/lib/sl"
	"github.com/magabrotheeeer/compliance-portal/internal/models"
	access "github.com/magabrotheeeer/compliance-portal/internal/services/access"
)

// SubscriptionReader описывает чтение снимка статуса подписки субъекта.
type SubscriptionReader interface {
	GetAccount(ctx context.Context, id int64) (*models.Account, error)
}

// GuardMiddleware возвращает middleware охранника доступа для группы
// маршрутов с общими требованиями. Статус подписки читается только когда
// требование его включает; соединение с базой не удерживается дольше
// одного запроса.
func GuardMiddleware(log *slog.Logger, maker jwt.Maker, accounts SubscriptionReader, req access.Requirement) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			const op = "middlewarectx.GuardMiddleware"

			reqLog := log.With(
				slog.String("op", op),
				slog.String("request_id", middleware.GetReqID(r.Context())),
			)

			token := TokenFromRequest(r)
			subject := SubjectFromToken(maker, token)

			subscription := models.SubscriptionNone
			if subject != nil && req.RequireActiveSubscription {
				account, err := accounts.GetAccount(r.Context(), subject.ID)
				if err != nil {
					reqLog.Error("failed to read subscription snapshot", sl.Err(err))
					w.WriteHeader(http.StatusInternalServerError)
					render.JSON(w, r, response.Error("internal service error"))
					return
				}
				subscription = account.SubscriptionStatus
			}

			decision := access.Decide(subject, subscription, req, r.URL.Path)
			if !decision.Allowed {
				writeDecision(w, r, decision)
				return
			}

			ctx := context.WithValue(r.Context(), SubjectKey, subject)
			ctx = context.WithValue(ctx, BearerTokenKey, token)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// writeDecision сериализует отказ охранника: статус-код по состоянию,
// маршрут перенаправления в теле ответа.
func writeDecision(w http.ResponseWriter, r *http.Request, decision access.Decision) {
	status := http.StatusForbidden
	msg := "access denied"
	switch decision.State {
	case access.StateUnauthenticated:
		status = http.StatusUnauthorized
		msg = "authentication required"
	case access.StateAuthenticatedNoRole:
		status = http.StatusForbidden
		msg = "role not recognized"
	case access.StateSubscriptionRequired:
		status = http.StatusForbidden
		msg = "active subscription required"
	case access.StateForbidden:
		status = http.StatusForbidden
		msg = "insufficient role"
	}
	w.WriteHeader(status)
	render.JSON(w, r, response.Response{
		Status: response.StatusError,
		Error:  msg,
		Data:   map[string]any{"redirect_to": decision.RedirectTo},
	})
}
