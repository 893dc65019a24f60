package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/magabrotheeeer/compliance-portal/internal/models"
)

// CreateAccount сохраняет новую учётную запись и возвращает её ID.
// Дубликат email (без учёта регистра) возвращает ErrEmailTaken.
func (s *Storage) CreateAccount(ctx context.Context, account models.Account) (int64, error) {
	const op = "storage.CreateAccount"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var newID int64
	query := `INSERT INTO accounts (email, password_hash, full_name, role, organization,
			      subscription_status, is_active)
			  VALUES ($1, $2, $3, $4, $5, $6, TRUE)
			  RETURNING id;`
	if err := s.DB.QueryRowContext(ctx, query,
		account.Email, account.PasswordHash, account.FullName, string(account.Role),
		account.Organization, string(account.SubscriptionStatus)).Scan(&newID); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return 0, fmt.Errorf("%s: %w", op, ErrEmailTaken)
		}
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// GetAccountByEmail возвращает учётную запись по нормализованному email.
// Вызывающая сторона обязана привести email к нижнему регистру.
func (s *Storage) GetAccountByEmail(ctx context.Context, email string) (*models.Account, error) {
	const op = "storage.GetAccountByEmail"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, email, password_hash, full_name, role, organization,
			      subscription_status, is_active, created_at, updated_at
			  FROM accounts
			  WHERE email = $1`
	return s.scanAccount(s.DB.QueryRowContext(ctx, query, email), op)
}

// GetAccount возвращает учётную запись по её ID.
func (s *Storage) GetAccount(ctx context.Context, id int64) (*models.Account, error) {
	const op = "storage.GetAccount"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, email, password_hash, full_name, role, organization,
			      subscription_status, is_active, created_at, updated_at
			  FROM accounts
			  WHERE id = $1`
	return s.scanAccount(s.DB.QueryRowContext(ctx, query, id), op)
}

// DeactivateAccount мягко деактивирует учётную запись, не удаляя строку.
func (s *Storage) DeactivateAccount(ctx context.Context, id int64) error {
	const op = "storage.DeactivateAccount"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE accounts
			  SET is_active = FALSE,
			      updated_at = NOW()
			  WHERE id = $1`
	res, err := s.DB.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if affected == 0 {
		return fmt.Errorf("%s: %w", op, ErrAccountNotFound)
	}
	return nil
}

func (s *Storage) scanAccount(row *sql.Row, op string) (*models.Account, error) {
	a := &models.Account{}
	var role, status string
	var organization sql.NullString
	if err := row.Scan(&a.ID, &a.Email, &a.PasswordHash, &a.FullName, &role,
		&organization, &status, &a.IsActive, &a.CreatedAt, &a.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, ErrAccountNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	// Неизвестные значения из базы отклоняются, а не приводятся к умолчанию.
	parsedRole, ok := models.ParseRole(role)
	if !ok {
		return nil, fmt.Errorf("%s: unknown role %q", op, role)
	}
	parsedStatus, ok := models.ParseSubscriptionStatus(status)
	if !ok {
		return nil, fmt.Errorf("%s: unknown subscription status %q", op, status)
	}
	a.Role = parsedRole
	a.SubscriptionStatus = parsedStatus
	if organization.Valid {
		a.Organization = organization.String
	}
	return a, nil
}
