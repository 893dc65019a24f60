package repository

import (
	"context"
	"testing"
	"time"

	"github.com/docker/go-connections/nat"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/magabrotheeeer/compliance-portal/internal/models"
)

// TestDataFactory содержит методы для создания тестовых данных
type TestDataFactory struct {
	storage *Storage
}

// NewTestDataFactory создает новую фабрику тестовых данных
func NewTestDataFactory(storage *Storage) *TestDataFactory {
	return &TestDataFactory{storage: storage}
}

// CreateVendorLink создает связку вендора со случайным внешним идентификатором
// и возвращает пару ключей.
func (f *TestDataFactory) CreateVendorLink(t *testing.T) models.VendorLink {
	t.Helper()
	externalID := uuid.New().String()
	var internalID int64
	err := f.storage.DB.QueryRow(`INSERT INTO vendor_links (external_id)
		VALUES ($1) RETURNING id`, externalID).Scan(&internalID)
	require.NoError(t, err)
	return models.VendorLink{InternalID: internalID, ExternalID: externalID}
}

// CreateChecklistQuestion создает запись чек-листа и возвращает её ID.
func (f *TestDataFactory) CreateChecklistQuestion(t *testing.T, vendorID, checklistID int64,
	question, answer string, status models.ChecklistStatus, title string) int64 {
	t.Helper()
	var id int64
	err := f.storage.DB.QueryRow(`INSERT INTO checklist_questions
		(vendor_id, checklist_id, question, answer, status, title)
		VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`,
		vendorID, checklistID, question, answer, string(status), title).Scan(&id)
	require.NoError(t, err)
	return id
}

// CountQuestionnaireAnswers возвращает число строк ответов вендора.
func (f *TestDataFactory) CountQuestionnaireAnswers(t *testing.T, vendorID int64) int {
	t.Helper()
	var count int
	err := f.storage.DB.QueryRow(`SELECT COUNT(*) FROM questionnaire_answers
		WHERE vendor_id = $1`, vendorID).Scan(&count)
	require.NoError(t, err)
	return count
}

// setupTestDatabase создает тестовую БД с контейнером PostgreSQL
func setupTestDatabase(t *testing.T) (*Storage, func()) {
	ctx := context.Background()

	postgresContainer, err := tcpostgres.Run(ctx, "postgres:15-alpine",
		tcpostgres.WithDatabase("testdb"),
		tcpostgres.WithUsername("testuser"),
		tcpostgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForAll(
				wait.ForListeningPort(nat.Port("5432/tcp")),
				wait.ForLog("database system is ready to accept connections").WithOccurrence(2),
			).WithDeadline(3*time.Minute),
		),
	)
	require.NoError(t, err, "failed to start container")

	connStr, err := postgresContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err, "failed to get connection string")

	// Пробуем подключиться несколько раз с ретраями
	var storage *Storage
	for range 10 {
		storage, err = New(connStr)
		if err == nil {
			err = storage.DB.Ping()
			if err == nil {
				break
			}
		}
		time.Sleep(1 * time.Second)
	}
	require.NoError(t, err, "failed to create storage after retries")

	// Создаем таблицы
	_, err = storage.DB.Exec(`
        CREATE TABLE IF NOT EXISTS accounts (
            id                  BIGSERIAL PRIMARY KEY,
            email               TEXT NOT NULL,
            password_hash       TEXT NOT NULL,
            full_name           TEXT NOT NULL,
            role                TEXT NOT NULL,
            organization        TEXT,
            subscription_status TEXT NOT NULL DEFAULT 'none',
            is_active           BOOLEAN NOT NULL DEFAULT TRUE,
            created_at          TIMESTAMPTZ NOT NULL DEFAULT NOW(),
            updated_at          TIMESTAMPTZ NOT NULL DEFAULT NOW()
        );

        CREATE UNIQUE INDEX IF NOT EXISTS accounts_email_lower_idx ON accounts (LOWER(email));

        CREATE TABLE IF NOT EXISTS vendor_links (
            id          BIGSERIAL PRIMARY KEY,
            external_id TEXT NOT NULL UNIQUE
        );

        CREATE TABLE IF NOT EXISTS checklist_questions (
            id           BIGSERIAL PRIMARY KEY,
            vendor_id    BIGINT NOT NULL,
            checklist_id BIGINT NOT NULL,
            question     TEXT NOT NULL,
            answer       TEXT,
            status       TEXT NOT NULL,
            title        TEXT
        );

        CREATE INDEX IF NOT EXISTS checklist_questions_vendor_idx
            ON checklist_questions (vendor_id, checklist_id);

        CREATE TABLE IF NOT EXISTS questionnaire_answers (
            id                 BIGSERIAL PRIMARY KEY,
            vendor_id          BIGINT NOT NULL,
            source_question_id BIGINT NOT NULL,
            question           TEXT NOT NULL,
            answer             TEXT,
            status             TEXT NOT NULL,
            title              TEXT,
            updated_at         TIMESTAMPTZ NOT NULL DEFAULT NOW(),
            CONSTRAINT questionnaire_answers_vendor_question_key
                UNIQUE (vendor_id, source_question_id)
        );
    `)
	require.NoError(t, err, "failed to create tables")

	cleanup := func() {
		if storage != nil && storage.DB != nil {
			_ = storage.DB.Close()
		}
		if postgresContainer != nil {
			_ = postgresContainer.Terminate(ctx)
		}
	}

	return storage, cleanup
}
