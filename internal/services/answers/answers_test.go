package services_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/compliance-portal/internal/models"
	services "github.com/magabrotheeeer/compliance-portal/internal/services/answers"
	"github.com/magabrotheeeer/compliance-portal/internal/storage/repository"
)

// Мок для AnswerRepository
type AnswerRepoMock struct {
	mock.Mock
}

func (m *AnswerRepoMock) FindVendorInternalID(ctx context.Context, externalID string) (int64, error) {
	args := m.Called(ctx, externalID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *AnswerRepoMock) ListQuestionnaireAnswers(ctx context.Context, vendorID int64) ([]*models.QuestionnaireAnswer, error) {
	args := m.Called(ctx, vendorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.QuestionnaireAnswer), args.Error(1)
}

// Мок для Cache
type CacheMock struct {
	mock.Mock
}

func (m *CacheMock) Get(ctx context.Context, key string, result any) (bool, error) {
	args := m.Called(ctx, key, result)
	return args.Bool(0), args.Error(1)
}

func (m *CacheMock) Set(ctx context.Context, key string, value any, expiration time.Duration) error {
	args := m.Called(ctx, key, value, expiration)
	return args.Error(0)
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

func sampleAnswers() []*models.QuestionnaireAnswer {
	return []*models.QuestionnaireAnswer{
		{ID: 1, VendorID: 42, SourceQuestionID: 101, Question: "Is data encrypted at rest?", Answer: "Yes, AES-256", Status: models.AnswerCompleted},
		{ID: 2, VendorID: 42, SourceQuestionID: 102, Question: "Is there an incident response plan?", Status: models.AnswerInProgress},
	}
}

func TestAnswersList_CacheMiss(t *testing.T) {
	repo := new(AnswerRepoMock)
	cache := new(CacheMock)

	repo.On("FindVendorInternalID", mock.Anything, "acme-corp").Return(int64(42), nil).Once()
	cache.On("Get", mock.Anything, "answers:42", mock.Anything).Return(false, nil).Once()
	repo.On("ListQuestionnaireAnswers", mock.Anything, int64(42)).Return(sampleAnswers(), nil).Once()
	cache.On("Set", mock.Anything, "answers:42", mock.Anything, time.Hour).Return(nil).Once()

	svc := services.New(repo, cache, newNoopLogger())
	answers, err := svc.List(context.Background(), "acme-corp")

	require.NoError(t, err)
	require.Len(t, answers, 2)
	assert.Equal(t, int64(101), answers[0].SourceQuestionID)
	repo.AssertExpectations(t)
	cache.AssertExpectations(t)
}

// При попадании в кеш хранилище не опрашивается.
func TestAnswersList_CacheHit(t *testing.T) {
	repo := new(AnswerRepoMock)
	cache := new(CacheMock)

	repo.On("FindVendorInternalID", mock.Anything, "acme-corp").Return(int64(42), nil).Once()
	cache.On("Get", mock.Anything, "answers:42", mock.Anything).
		Run(func(args mock.Arguments) {
			out := args.Get(2).(*[]*models.QuestionnaireAnswer)
			*out = sampleAnswers()
		}).Return(true, nil).Once()

	svc := services.New(repo, cache, newNoopLogger())
	answers, err := svc.List(context.Background(), "acme-corp")

	require.NoError(t, err)
	require.Len(t, answers, 2)
	repo.AssertNotCalled(t, "ListQuestionnaireAnswers", mock.Anything, mock.Anything)
	cache.AssertNotCalled(t, "Set", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

// Сбой чтения кеша деградирует до похода в хранилище.
func TestAnswersList_CacheErrorFallsBackToStorage(t *testing.T) {
	repo := new(AnswerRepoMock)
	cache := new(CacheMock)

	repo.On("FindVendorInternalID", mock.Anything, "acme-corp").Return(int64(42), nil).Once()
	cache.On("Get", mock.Anything, "answers:42", mock.Anything).Return(false, errors.New("redis down")).Once()
	repo.On("ListQuestionnaireAnswers", mock.Anything, int64(42)).Return(sampleAnswers(), nil).Once()
	cache.On("Set", mock.Anything, "answers:42", mock.Anything, time.Hour).Return(errors.New("redis down")).Once()

	svc := services.New(repo, cache, newNoopLogger())
	answers, err := svc.List(context.Background(), "acme-corp")

	require.NoError(t, err)
	assert.Len(t, answers, 2)
	repo.AssertExpectations(t)
}

func TestAnswersList_UnknownVendor(t *testing.T) {
	repo := new(AnswerRepoMock)
	repo.On("FindVendorInternalID", mock.Anything, "ghost").
		Return(int64(0), repository.ErrVendorNotFound).Once()

	svc := services.New(repo, new(CacheMock), newNoopLogger())
	answers, err := svc.List(context.Background(), "ghost")

	assert.ErrorIs(t, err, repository.ErrVendorNotFound)
	assert.Nil(t, answers)
}
