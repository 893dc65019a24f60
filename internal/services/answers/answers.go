// Package services содержит бизнес-логику выдачи списков ответов анкет
// с кешированием в Redis.
package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/magabrotheeeer/compliance-portal/internal/lib/sl"
	"github.com/magabrotheeeer/compliance-portal/internal/models"
	reconcileservice "github.com/magabrotheeeer/compliance-portal/internal/services/reconcile"
)

// AnswerRepository описывает чтение ответов анкет из хранилища.
type AnswerRepository interface {
	reconcileservice.VendorLinkRepository
	// ListQuestionnaireAnswers возвращает упорядоченный список ответов
	// вендора без служебной псевдозаписи заголовка.
	ListQuestionnaireAnswers(ctx context.Context, vendorID int64) ([]*models.QuestionnaireAnswer, error)
}

// Cache описывает методы для кэширования данных.
type Cache interface {
	// Get пытается получить значение из кеша по ключу.
	Get(ctx context.Context, key string, result any) (bool, error)
	// Set сохраняет значение в кеш с временем жизни.
	Set(ctx context.Context, key string, value any, expiration time.Duration) error
}

// Service реализует выдачу списков ответов анкет, включая кеширование.
type Service struct {
	repo  AnswerRepository
	cache Cache
	log   *slog.Logger
}

// New создает новый экземпляр Service.
func New(repo AnswerRepository, cache Cache, log *slog.Logger) *Service {
	return &Service{
		repo:  repo,
		cache: cache,
		log:   log,
	}
}

// List возвращает ответы анкеты вендора по внешнему идентификатору.
// Список кешируется, кеш инвалидируется движком реконсиляции.
func (s *Service) List(ctx context.Context, vendorExternalID string) ([]*models.QuestionnaireAnswer, error) {
	const op = "services.answers.List"

	resolver := reconcileservice.NewResolver(s.repo)
	vendorID, err := resolver.Resolve(ctx, vendorExternalID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	cacheKey := reconcileservice.AnswersCacheKey(vendorID)
	var cached []*models.QuestionnaireAnswer
	found, err := s.cache.Get(ctx, cacheKey, &cached)
	if err != nil {
		s.log.Warn("failed to read answers cache", slog.String("key", cacheKey), sl.Err(err))
	}
	if found {
		return cached, nil
	}

	answers, err := s.repo.ListQuestionnaireAnswers(ctx, vendorID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := s.cache.Set(ctx, cacheKey, answers, time.Hour); err != nil {
		s.log.Warn("failed to cache answers", slog.String("key", cacheKey), sl.Err(err))
	}
	return answers, nil
}
