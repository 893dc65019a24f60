// Package middlewarectx содержит HTTP middleware охранника доступа.
//
// GuardMiddleware извлекает bearer-токен, проверяет его, строит субъекта
// и выносит решение той же функцией Decide, что используется внутри
// обработчиков. Решение на границе и внутри рендера всегда совпадает.
package middlewarectx

import (
	"context"
	"net/http"
	"strings"

	"github.com/magabrotheeeer/compliance-portal/internal/lib/jwt"
	"github.com/magabrotheeeer/compliance-portal/internal/models"
	access "github.com/magabrotheeeer/compliance-portal/internal/services/access"
)

// Key тип для ключей контекста HTTP-запроса.
type Key string

const (
	// SubjectKey — ключ аутентифицированного субъекта в контексте.
	SubjectKey Key = "subject"
	// BearerTokenKey — ключ исходного bearer-токена в контексте.
	// Нужен обработчикам, пересылающим токен внешнему API.
	BearerTokenKey Key = "bearer_token"
)

// SessionCookieName — имя cookie с сессионным токеном.
const SessionCookieName = "session_token"

// TokenFromRequest извлекает bearer-токен из запроса: сначала заголовок
// Authorization, затем cookie. Заголовок имеет приоритет.
func TokenFromRequest(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimPrefix(authHeader, "Bearer ")
	}
	if cookie, err := r.Cookie(SessionCookieName); err == nil {
		return cookie.Value
	}
	return ""
}

// SubjectFromToken проверяет токен и восстанавливает субъекта.
// Любая ошибка проверки даёт nil: неаутентифицированный запрос.
func SubjectFromToken(maker jwt.Maker, token string) *access.Subject {
	if token == "" {
		return nil
	}
	claims, err := maker.Verify(token)
	if err != nil {
		return nil
	}
	id, err := claims.SubjectID()
	if err != nil {
		return nil
	}
	subject := &access.Subject{
		ID:    id,
		Email: claims.Email,
	}
	if role, ok := models.ParseRole(claims.Role); ok {
		subject.Role = role
		subject.RoleKnown = true
	}
	return subject
}

// SubjectFromContext возвращает субъекта, положенного в контекст охранником.
func SubjectFromContext(ctx context.Context) (*access.Subject, bool) {
	subject, ok := ctx.Value(SubjectKey).(*access.Subject)
	return subject, ok
}

// BearerTokenFromContext возвращает исходный bearer-токен запроса.
func BearerTokenFromContext(ctx context.Context) string {
	token, _ := ctx.Value(BearerTokenKey).(string)
	return token
}
