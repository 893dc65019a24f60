// Package services реализует охранника доступа: единую машину состояний,
// выносящую решение по каждому запросу. Одна и та же функция Decide
// вызывается и на границе (middleware), и внутри обработчиков перед выдачей
// защищённых данных — клиент, миновавший границу, получает то же решение.
package services

import (
	"net/url"

	"github.com/magabrotheeeer/compliance-portal/internal/lib/rbac"
	"github.com/magabrotheeeer/compliance-portal/internal/models"
)

// GateOutcome — результат шлюза подписки.
type GateOutcome int

// Исходы шлюза подписки.
const (
	// GateNone — подписки нет либо она отменена: общий путь отказа.
	GateNone GateOutcome = iota
	// GateActive — подписка активна, доступ разрешён.
	GateActive
	// GatePastDue — просрочена оплата: отдельное, исправимое пользователем
	// состояние с собственным перенаправлением.
	GatePastDue
)

// EvaluateSubscription переводит статус подписки в исход шлюза.
// Функция чистая: снимок статуса передаётся, а не запрашивается.
func EvaluateSubscription(status models.SubscriptionStatus) GateOutcome {
	switch status {
	case models.SubscriptionActive:
		return GateActive
	case models.SubscriptionPastDue:
		return GatePastDue
	default:
		return GateNone
	}
}

// State — состояние машины охранника доступа.
type State string

// Состояния охранника доступа.
const (
	StateUnauthenticated         State = "unauthenticated"
	StateAuthenticatedNoRole     State = "authenticated_no_role"
	StateAuthorized              State = "authenticated_authorized"
	StateForbidden               State = "authenticated_forbidden"
	StateSubscriptionRequired    State = "authenticated_subscription_required"
)

// Subject — аутентифицированный субъект, восстановленный из claims токена.
type Subject struct {
	ID    int64
	Email string
	Role  models.Role
	// RoleKnown false, когда роль в токене отсутствует или не входит
	// в закрытый набор. Такой субъект доступа не получает.
	RoleKnown bool
}

// Requirement — требования целевого ресурса.
type Requirement struct {
	// Capability — требуемая возможность; пустое значение означает,
	// что достаточно аутентификации.
	Capability rbac.Capability
	// RequireActiveSubscription включает шлюз подписки.
	RequireActiveSubscription bool
}

// Decision — итог работы охранника для одного запроса.
type Decision struct {
	State      State
	Allowed    bool
	RedirectTo string // Пусто, когда доступ разрешён
}

// Decide выносит решение по запросу. subject == nil означает отсутствие или
// непрошедший проверку токен. Порядок проверок фиксирован: аутентификация,
// роль, подписка.
func Decide(subject *Subject, subscription models.SubscriptionStatus, req Requirement, originalPath string) Decision {
	if subject == nil {
		redirect := rbac.RouteLogin
		if originalPath != "" {
			// Исходный путь сохраняется для возврата после входа.
			redirect = rbac.RouteLogin + "?next=" + url.QueryEscape(originalPath)
		}
		return Decision{State: StateUnauthenticated, RedirectTo: redirect}
	}

	if !subject.RoleKnown {
		return Decision{State: StateAuthenticatedNoRole, RedirectTo: rbac.RouteLogin}
	}

	if req.Capability != "" && !rbac.HasCapability(subject.Role, req.Capability) {
		// Перенаправление на маршрут приземления роли, не на исходную цель.
		return Decision{State: StateForbidden, RedirectTo: rbac.DefaultLandingRoute(subject.Role)}
	}

	if req.RequireActiveSubscription {
		switch EvaluateSubscription(subscription) {
		case GatePastDue:
			return Decision{State: StateSubscriptionRequired, RedirectTo: rbac.RouteBillingUpdate}
		case GateNone:
			return Decision{State: StateSubscriptionRequired, RedirectTo: rbac.RoutePricing}
		case GateActive:
		}
	}

	return Decision{State: StateAuthorized, Allowed: true}
}
