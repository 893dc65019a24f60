package models

// Role — роль учётной записи из закрытого набора.
type Role string

// Закрытый набор ролей системы.
const (
	RoleAdmin   Role = "admin"
	RoleVendor  Role = "vendor"
	RoleFounder Role = "founder"
	RoleSales   Role = "sales"
)

// ParseRole проверяет принадлежность строки к закрытому набору ролей.
// Для неизвестного значения возвращает false.
func ParseRole(s string) (Role, bool) {
	switch Role(s) {
	case RoleAdmin, RoleVendor, RoleFounder, RoleSales:
		return Role(s), true
	}
	return "", false
}

// PublicSignupRoles — подмножество ролей, доступных при самостоятельной
// регистрации. Административная роль выдаётся только вручную.
var PublicSignupRoles = map[Role]struct{}{
	RoleVendor:  {},
	RoleFounder: {},
	RoleSales:   {},
}

// SubscriptionStatus — статус подписки организации.
type SubscriptionStatus string

// Закрытый набор статусов подписки.
const (
	SubscriptionNone     SubscriptionStatus = "none"
	SubscriptionActive   SubscriptionStatus = "active"
	SubscriptionPastDue  SubscriptionStatus = "past_due"
	SubscriptionCanceled SubscriptionStatus = "canceled"
)

// ParseSubscriptionStatus проверяет принадлежность строки к закрытому набору
// статусов подписки.
func ParseSubscriptionStatus(s string) (SubscriptionStatus, bool) {
	switch SubscriptionStatus(s) {
	case SubscriptionNone, SubscriptionActive, SubscriptionPastDue, SubscriptionCanceled:
		return SubscriptionStatus(s), true
	}
	return "", false
}
