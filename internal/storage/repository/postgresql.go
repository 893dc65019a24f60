// Package repository реализует хранилище данных на основе PostgreSQL
// для учётных записей, связок идентификаторов вендоров и таблиц опросников.
// Предоставляет методы чтения, записи и атомарного слияния записей.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	// Регистрация драйвера pgx для использования с database/sql.
	_ "github.com/jackc/pgx/v5/stdlib"
)

// Ошибки уровня хранилища, общие для всех реализаций.
var (
	// ErrAccountNotFound — учётная запись не найдена.
	ErrAccountNotFound = errors.New("account not found")
	// ErrEmailTaken — учётная запись с таким email уже существует.
	ErrEmailTaken = errors.New("email already taken")
	// ErrVendorNotFound — внешний идентификатор вендора не сопоставлен.
	ErrVendorNotFound = errors.New("vendor not found")
)

// Storage инкапсулирует соединение с базой данных PostgreSQL
// и реализует методы работы с учётными записями и таблицами опросников.
type Storage struct {
	DB *sql.DB
}

// New создаёт подключение к PostgreSQL и проверяет его доступность.
func New(storageConnectionString string) (*Storage, error) {
	const op = "storage.New"

	db, err := sql.Open("pgx", storageConnectionString)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err = db.PingContext(context.Background()); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &Storage{
		DB: db,
	}, nil
}

// CheckDatabaseReady проверяет готовность базы данных.
func CheckDatabaseReady(storage *Storage) error {
	var exists bool
	err := storage.DB.QueryRow(`SELECT EXISTS (
        SELECT FROM information_schema.tables
        WHERE table_name = 'accounts'
    )`).Scan(&exists)
	if err != nil || !exists {
		return fmt.Errorf("required table accounts missing or query error: %w", err)
	}
	return nil
}
