// Package models содержит доменную модель учётной записи пользователя портала,
// включающую данные для аутентификации, роль и статус подписки организации.
// Структуры используются в бизнес‑логике и при работе с хранилищем.
package models

import "time"

// Account представляет зарегистрированную учётную запись системы.
//
// Email хранится в нижнем регистре и уникален без учёта регистра.
// Учётные записи не удаляются физически — деактивация через поле IsActive.
type Account struct {
	ID                 int64     // Суррогатный идентификатор учётной записи
	Email              string    // Электронная почта (нормализованная, уникальная)
	PasswordHash       string    // Bcrypt-хэш пароля
	FullName           string    // Отображаемое имя
	Role               Role      // Роль из закрытого набора
	Organization       string    // Название организации (опционально)
	SubscriptionStatus SubscriptionStatus
	IsActive           bool      // Флаг активности (мягкая деактивация)
	CreatedAt          time.Time // Дата создания
	UpdatedAt          time.Time // Дата последнего изменения
}

// AccountSummary — публичное представление учётной записи.
// Никогда не содержит хэш пароля.
type AccountSummary struct {
	ID           int64  `json:"id"`
	Email        string `json:"email"`
	FullName     string `json:"full_name"`
	Role         string `json:"role"`
	Organization string `json:"organization,omitempty"`
}

// Summary возвращает публичное представление учётной записи.
func (a *Account) Summary() AccountSummary {
	return AccountSummary{
		ID:           a.ID,
		Email:        a.Email,
		FullName:     a.FullName,
		Role:         string(a.Role),
		Organization: a.Organization,
	}
}
