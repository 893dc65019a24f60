package services_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/compliance-portal/internal/models"
	services "github.com/magabrotheeeer/compliance-portal/internal/services/reconcile"
	"github.com/magabrotheeeer/compliance-portal/internal/storage/repository"
)

// Мок для ChecklistRepository
type ChecklistRepoMock struct {
	mock.Mock
}

func (m *ChecklistRepoMock) FindVendorInternalID(ctx context.Context, externalID string) (int64, error) {
	args := m.Called(ctx, externalID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *ChecklistRepoMock) ListChecklistQuestions(ctx context.Context, vendorID, checklistID int64) ([]*models.ChecklistQuestion, error) {
	args := m.Called(ctx, vendorID, checklistID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.ChecklistQuestion), args.Error(1)
}

func (m *ChecklistRepoMock) UpsertQuestionnaireAnswer(ctx context.Context, answer models.QuestionnaireAnswer) error {
	args := m.Called(ctx, answer)
	return args.Error(0)
}

// Мок для Cache
type CacheMock struct {
	mock.Mock
}

func (m *CacheMock) Invalidate(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

// Мок для EventPublisher
type PublisherMock struct {
	mock.Mock
}

func (m *PublisherMock) Publish(routingKey string, message any) error {
	args := m.Called(routingKey, message)
	return args.Error(0)
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

func sampleQuestions() []*models.ChecklistQuestion {
	return []*models.ChecklistQuestion{
		{ID: 101, VendorID: 42, ChecklistID: 7, Question: "Is data encrypted at rest?", Answer: "Yes, AES-256", Status: models.ChecklistCompleted, Title: "Encryption"},
		{ID: 102, VendorID: 42, ChecklistID: 7, Question: "Is there an incident response plan?", Answer: "", Status: models.ChecklistInProgress, Title: "IR"},
		{ID: 103, VendorID: 42, ChecklistID: 7, Question: "Section intro", Answer: "", Status: models.ChecklistNeedsSupport, Title: models.SectionTitleSentinel},
	}
}

func TestReconcile_PartialFailure(t *testing.T) {
	repo := new(ChecklistRepoMock)
	cache := new(CacheMock)
	events := new(PublisherMock)

	repo.On("FindVendorInternalID", mock.Anything, "acme-corp").Return(int64(42), nil).Once()
	repo.On("ListChecklistQuestions", mock.Anything, int64(42), int64(0)).Return(sampleQuestions(), nil).Once()
	repo.On("UpsertQuestionnaireAnswer", mock.Anything, mock.MatchedBy(func(a models.QuestionnaireAnswer) bool {
		return a.SourceQuestionID == 101
	})).Return(nil).Once()
	repo.On("UpsertQuestionnaireAnswer", mock.Anything, mock.MatchedBy(func(a models.QuestionnaireAnswer) bool {
		return a.SourceQuestionID == 102
	})).Return(errors.New("deadlock detected")).Once()
	repo.On("UpsertQuestionnaireAnswer", mock.Anything, mock.MatchedBy(func(a models.QuestionnaireAnswer) bool {
		return a.SourceQuestionID == 103
	})).Return(nil).Once()
	cache.On("Invalidate", mock.Anything, "answers:42").Return(nil).Once()
	events.On("Publish", "reconcile.completed", mock.MatchedBy(func(e services.CompletedEvent) bool {
		return e.VendorExternalID == "acme-corp" && e.SyncedCount == 2 &&
			e.TotalConsidered == 3 && len(e.FailedIDs) == 1 && e.FailedIDs[0] == 102
	})).Return(nil).Once()

	svc := services.New(repo, cache, events, nil, newNoopLogger())
	result, err := svc.Reconcile(context.Background(), "acme-corp", 0)

	require.NoError(t, err)
	assert.Equal(t, 2, result.SyncedCount)
	assert.Equal(t, 3, result.TotalConsidered)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, int64(102), result.Errors[0].SourceQuestionID)
	assert.Contains(t, result.Errors[0].Message, "deadlock")
	repo.AssertExpectations(t)
	cache.AssertExpectations(t)
	events.AssertExpectations(t)
}

// Повторный запуск на неизменных данных возвращает тот же результат.
func TestReconcile_Idempotent(t *testing.T) {
	repo := new(ChecklistRepoMock)
	cache := new(CacheMock)

	repo.On("FindVendorInternalID", mock.Anything, "acme-corp").Return(int64(42), nil).Twice()
	repo.On("ListChecklistQuestions", mock.Anything, int64(42), int64(7)).Return(sampleQuestions(), nil).Twice()
	repo.On("UpsertQuestionnaireAnswer", mock.Anything, mock.Anything).Return(nil).Times(6)
	cache.On("Invalidate", mock.Anything, "answers:42").Return(nil).Twice()

	svc := services.New(repo, cache, nil, nil, newNoopLogger())

	first, err := svc.Reconcile(context.Background(), "acme-corp", 7)
	require.NoError(t, err)
	second, err := svc.Reconcile(context.Background(), "acme-corp", 7)
	require.NoError(t, err)

	assert.Equal(t, first.SyncedCount, second.SyncedCount)
	assert.Equal(t, first.TotalConsidered, second.TotalConsidered)
	assert.Empty(t, second.Errors)
	repo.AssertExpectations(t)
}

// Неизвестный внешний идентификатор прерывает запуск целиком.
func TestReconcile_VendorNotFound(t *testing.T) {
	repo := new(ChecklistRepoMock)
	repo.On("FindVendorInternalID", mock.Anything, "ghost-vendor").
		Return(int64(0), repository.ErrVendorNotFound).Once()

	svc := services.New(repo, new(CacheMock), nil, nil, newNoopLogger())
	result, err := svc.Reconcile(context.Background(), "ghost-vendor", 0)

	assert.ErrorIs(t, err, services.ErrVendorNotFound)
	assert.Nil(t, result)
	repo.AssertExpectations(t)
}

// Сбой инвалидации кеша и публикации события не портит результат.
func TestReconcile_CacheAndEventFailuresAreNonFatal(t *testing.T) {
	repo := new(ChecklistRepoMock)
	cache := new(CacheMock)
	events := new(PublisherMock)

	repo.On("FindVendorInternalID", mock.Anything, "acme-corp").Return(int64(42), nil).Once()
	repo.On("ListChecklistQuestions", mock.Anything, int64(42), int64(0)).Return(sampleQuestions(), nil).Once()
	repo.On("UpsertQuestionnaireAnswer", mock.Anything, mock.Anything).Return(nil).Times(3)
	cache.On("Invalidate", mock.Anything, "answers:42").Return(errors.New("redis down")).Once()
	events.On("Publish", "reconcile.completed", mock.Anything).Return(errors.New("amqp closed")).Once()

	svc := services.New(repo, cache, events, nil, newNoopLogger())
	result, err := svc.Reconcile(context.Background(), "acme-corp", 0)

	require.NoError(t, err)
	assert.Equal(t, 3, result.SyncedCount)
}

// Статусы чек-листа транслируются в статусы ответов при слиянии.
func TestReconcile_StatusMapping(t *testing.T) {
	repo := new(ChecklistRepoMock)
	cache := new(CacheMock)

	repo.On("FindVendorInternalID", mock.Anything, "acme-corp").Return(int64(42), nil).Once()
	repo.On("ListChecklistQuestions", mock.Anything, int64(42), int64(0)).Return(sampleQuestions(), nil).Once()

	var seen []models.QuestionnaireAnswer
	repo.On("UpsertQuestionnaireAnswer", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			seen = append(seen, args.Get(1).(models.QuestionnaireAnswer))
		}).Return(nil).Times(3)
	cache.On("Invalidate", mock.Anything, mock.Anything).Return(nil).Once()

	svc := services.New(repo, cache, nil, nil, newNoopLogger())
	_, err := svc.Reconcile(context.Background(), "acme-corp", 0)
	require.NoError(t, err)

	require.Len(t, seen, 3)
	assert.Equal(t, models.AnswerCompleted, seen[0].Status)
	assert.Equal(t, models.AnswerInProgress, seen[1].Status)
	assert.Equal(t, models.AnswerNeedsSupport, seen[2].Status)
	assert.Equal(t, models.SectionTitleSentinel, seen[2].Title)
}

func TestResolver_NumericFastPath(t *testing.T) {
	repo := new(ChecklistRepoMock)

	resolver := services.NewResolver(repo)
	id, err := resolver.Resolve(context.Background(), "42")

	require.NoError(t, err)
	assert.Equal(t, int64(42), id)
	repo.AssertNotCalled(t, "FindVendorInternalID", mock.Anything, mock.Anything)
}

func TestResolver_Memoization(t *testing.T) {
	repo := new(ChecklistRepoMock)
	repo.On("FindVendorInternalID", mock.Anything, "acme-corp").Return(int64(42), nil).Once()

	resolver := services.NewResolver(repo)

	first, err := resolver.Resolve(context.Background(), "acme-corp")
	require.NoError(t, err)
	second, err := resolver.Resolve(context.Background(), "acme-corp")
	require.NoError(t, err)

	assert.Equal(t, first, second)
	repo.AssertExpectations(t)
	repo.AssertNumberOfCalls(t, "FindVendorInternalID", 1)
}

func TestResolver_NotFound(t *testing.T) {
	repo := new(ChecklistRepoMock)
	repo.On("FindVendorInternalID", mock.Anything, "ghost").
		Return(int64(0), repository.ErrVendorNotFound).Once()

	resolver := services.NewResolver(repo)
	_, err := resolver.Resolve(context.Background(), "ghost")

	assert.ErrorIs(t, err, repository.ErrVendorNotFound)
}

// Число, не помещающееся в int64, ищется в хранилище как внешний
// идентификатор, а не превращается в ошибку разбора.
func TestResolver_NumericOverflowGoesToStore(t *testing.T) {
	const overflowed = "92233720368547758080" // больше math.MaxInt64

	repo := new(ChecklistRepoMock)
	repo.On("FindVendorInternalID", mock.Anything, overflowed).
		Return(int64(0), repository.ErrVendorNotFound).Once()

	resolver := services.NewResolver(repo)
	_, err := resolver.Resolve(context.Background(), overflowed)

	assert.ErrorIs(t, err, repository.ErrVendorNotFound)
	repo.AssertExpectations(t)
}
