// Package rbac реализует статическую матрицу роль → набор возможностей
// и маршруты приземления по умолчанию. Матрица неизменяема во время работы;
// неизвестная роль даёт пустой набор возможностей, а не повышение прав.
package rbac

import "github.com/magabrotheeeer/compliance-portal/internal/models"

// Capability — именованная возможность, проверяемая перед доступом к ресурсу.
type Capability string

// Закрытый набор возможностей системы.
const (
	CapManageVendors        Capability = "manage-vendors"
	CapReviewQuestionnaires Capability = "review-questionnaires"
	CapAccessTrustPortal    Capability = "access-trust-portal"
	CapRunReconciliation    Capability = "run-reconciliation"
	CapManageAccounts       Capability = "manage-accounts"
	CapViewDashboard        Capability = "view-dashboard"
)

// Маршруты приземления и служебные маршруты перенаправлений.
const (
	RouteLogin         = "/login"
	RouteDashboard     = "/dashboard"
	RouteTrustPortal   = "/trust-portal"
	RoutePricing       = "/pricing"
	RouteBillingUpdate = "/billing/update"
)

// matrix — единственный источник прав. Каждая роль закрытого набора имеет
// ровно одну запись.
var matrix = map[models.Role]map[Capability]struct{}{
	models.RoleAdmin: {
		CapManageVendors:        {},
		CapReviewQuestionnaires: {},
		CapAccessTrustPortal:    {},
		CapRunReconciliation:    {},
		CapManageAccounts:       {},
		CapViewDashboard:        {},
	},
	models.RoleVendor: {
		CapViewDashboard:     {},
		CapRunReconciliation: {},
	},
	models.RoleFounder: {
		CapAccessTrustPortal:    {},
		CapReviewQuestionnaires: {},
		CapViewDashboard:        {},
	},
	models.RoleSales: {
		CapManageVendors: {},
		CapViewDashboard: {},
	},
}

// HasCapability сообщает, обладает ли роль возможностью. Функция тотальна:
// неизвестная роль или возможность дают false без побочных эффектов.
func HasCapability(role models.Role, capability Capability) bool {
	caps, ok := matrix[role]
	if !ok {
		return false
	}
	_, ok = caps[capability]
	return ok
}

// DefaultLandingRoute возвращает маршрут по умолчанию для аутентифицированного
// пользователя. Для неизвестной роли маршрута нет: такой субъект отправляется
// обратно на вход.
func DefaultLandingRoute(role models.Role) string {
	switch role {
	case models.RoleFounder:
		return RouteTrustPortal
	case models.RoleAdmin, models.RoleVendor, models.RoleSales:
		return RouteDashboard
	default:
		return RouteLogin
	}
}
