// Package services содержит логику бизнес-уровня для аутентификации
// и регистрации учётных записей.
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/magabrotheeeer/compliance-portal/internal/lib/jwt"
	"github.com/magabrotheeeer/compliance-portal/internal/lib/password"
	"github.com/magabrotheeeer/compliance-portal/internal/lib/sl"
	"github.com/magabrotheeeer/compliance-portal/internal/metrics"
	"github.com/magabrotheeeer/compliance-portal/internal/models"
	"github.com/magabrotheeeer/compliance-portal/internal/storage/repository"
)

// Ошибки бизнес-уровня аутентификации.
var (
	// ErrInvalidCredentials — неверные учётные данные. Одна и та же ошибка
	// для несуществующего email и неверного пароля: перечисление учётных
	// записей по ответам невозможно.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrEmailTaken — email уже занят.
	ErrEmailTaken = errors.New("email already taken")
	// ErrRoleNotAllowed — роль недоступна при самостоятельной регистрации.
	ErrRoleNotAllowed = errors.New("role not allowed for signup")
)

// AccountRepository описывает контракт для работы с учётными записями в базе данных.
type AccountRepository interface {
	// CreateAccount сохраняет новую учётную запись и возвращает её ID.
	CreateAccount(ctx context.Context, account models.Account) (int64, error)

	// GetAccountByEmail возвращает учётную запись по нормализованному email
	// или ошибку, если не найдена.
	GetAccountByEmail(ctx context.Context, email string) (*models.Account, error)
}

// AuthService отвечает за регистрацию и вход с выпуском сессионных токенов.
type AuthService struct {
	accounts AccountRepository
	jwtMaker jwt.Maker
	metrics  *metrics.Metrics
	log      *slog.Logger
}

// NewAuthService создает новый экземпляр AuthService.
func NewAuthService(accounts AccountRepository, jwtMaker jwt.Maker, m *metrics.Metrics, log *slog.Logger) *AuthService {
	return &AuthService{
		accounts: accounts,
		jwtMaker: jwtMaker,
		metrics:  m,
		log:      log,
	}
}

// NormalizeEmail приводит email к форме хранения: без пробелов по краям,
// в нижнем регистре.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Authenticate проверяет учётные данные и выпускает сессионный токен.
// Пароль в логи не попадает ни при каком исходе.
func (s *AuthService) Authenticate(ctx context.Context, email, rawPassword string) (string, *models.Account, error) {
	const op = "services.auth.Authenticate"
	email = NormalizeEmail(email)

	account, err := s.accounts.GetAccountByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrAccountNotFound) {
			s.metrics.ObserveLogin("invalid_credentials")
			s.log.Info("login rejected", slog.String("op", op), slog.String("email", email))
			return "", nil, ErrInvalidCredentials
		}
		s.metrics.ObserveLogin("error")
		return "", nil, fmt.Errorf("%s: %w", op, err)
	}

	if !account.IsActive {
		s.metrics.ObserveLogin("invalid_credentials")
		s.log.Info("login rejected for deactivated account", slog.String("op", op), slog.String("email", email))
		return "", nil, ErrInvalidCredentials
	}

	if err := password.Compare(account.PasswordHash, rawPassword); err != nil {
		s.metrics.ObserveLogin("invalid_credentials")
		s.log.Info("login rejected", slog.String("op", op), slog.String("email", email))
		return "", nil, ErrInvalidCredentials
	}

	token, err := s.jwtMaker.Issue(account.ID, account.Email, string(account.Role))
	if err != nil {
		s.metrics.ObserveLogin("error")
		s.log.Error("failed to issue token", slog.String("op", op), sl.Err(err))
		return "", nil, fmt.Errorf("%s: %w", op, err)
	}

	s.metrics.ObserveLogin("success")
	s.log.Info("login success", slog.String("op", op), slog.String("email", email))
	return token, account, nil
}

// Register создает новую учётную запись с хэшированием пароля.
// Административные роли при самостоятельной регистрации недоступны.
func (s *AuthService) Register(ctx context.Context, email, rawPassword, fullName string, role models.Role, organization string) (*models.AccountSummary, error) {
	const op = "services.auth.Register"
	email = NormalizeEmail(email)

	if _, ok := models.PublicSignupRoles[role]; !ok {
		return nil, ErrRoleNotAllowed
	}

	hashed, err := password.Hash(rawPassword)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	account := models.Account{
		Email:              email,
		PasswordHash:       hashed,
		FullName:           fullName,
		Role:               role,
		Organization:       organization,
		SubscriptionStatus: models.SubscriptionNone,
		IsActive:           true,
	}
	id, err := s.accounts.CreateAccount(ctx, account)
	if err != nil {
		if errors.Is(err, repository.ErrEmailTaken) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	account.ID = id

	summary := account.Summary()
	return &summary, nil
}
