package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/magabrotheeeer/compliance-portal/internal/lib/rabbitmq"
	"github.com/magabrotheeeer/compliance-portal/internal/lib/sl"
	"github.com/magabrotheeeer/compliance-portal/internal/metrics"
	"github.com/magabrotheeeer/compliance-portal/internal/models"
	"github.com/magabrotheeeer/compliance-portal/internal/storage/repository"
)

// ErrVendorNotFound — внешний идентификатор вендора не сопоставлен.
// Прерывает весь запуск реконсиляции.
var ErrVendorNotFound = repository.ErrVendorNotFound

// ChecklistRepository описывает чтение чек-листов и атомарную запись
// ответов анкеты.
type ChecklistRepository interface {
	VendorLinkRepository
	// ListChecklistQuestions возвращает записи чек-листов вендора,
	// при checklistID > 0 — одного чек-листа.
	ListChecklistQuestions(ctx context.Context, vendorID, checklistID int64) ([]*models.ChecklistQuestion, error)
	// UpsertQuestionnaireAnswer атомарно вставляет либо перезаписывает
	// строку ответа по ключу (vendor_id, source_question_id).
	UpsertQuestionnaireAnswer(ctx context.Context, answer models.QuestionnaireAnswer) error
}

// Cache описывает инвалидацию кеша списков ответов.
type Cache interface {
	Invalidate(ctx context.Context, key string) error
}

// EventPublisher описывает публикацию доменных событий.
type EventPublisher interface {
	Publish(routingKey string, message any) error
}

// RecordError — ошибка обработки одной записи чек-листа.
type RecordError struct {
	SourceQuestionID int64  `json:"source_question_id"`
	Message          string `json:"message"`
}

// Result — итог запуска реконсиляции.
type Result struct {
	SyncedCount     int           `json:"synced_count"`
	TotalConsidered int           `json:"total_questions"`
	Errors          []RecordError `json:"errors,omitempty"`
}

// CompletedEvent — событие завершения реконсиляции для внешних воркеров.
type CompletedEvent struct {
	VendorExternalID string  `json:"vendor_external_id"`
	SyncedCount      int     `json:"synced_count"`
	TotalConsidered  int     `json:"total_questions"`
	FailedIDs        []int64 `json:"failed_ids,omitempty"`
}

// Service — движок реконсиляции: идемпотентно сливает записи чек-листов
// в таблицу ответов анкет.
type Service struct {
	repo    ChecklistRepository
	cache   Cache
	events  EventPublisher
	metrics *metrics.Metrics
	log     *slog.Logger
}

// New создаёт новый экземпляр движка реконсиляции.
func New(repo ChecklistRepository, cache Cache, events EventPublisher, m *metrics.Metrics, log *slog.Logger) *Service {
	return &Service{
		repo:    repo,
		cache:   cache,
		events:  events,
		metrics: m,
		log:     log,
	}
}

// AnswersCacheKey — ключ кеша списка ответов вендора.
func AnswersCacheKey(vendorID int64) string {
	return fmt.Sprintf("answers:%d", vendorID)
}

// Reconcile сливает записи чек-листов вендора в таблицу ответов анкет.
//
// Неизвестный внешний идентификатор прерывает запуск целиком. Ошибка одной
// записи накапливается в результате и не прерывает обработку остальных.
// Повторный запуск на неизменных данных оставляет таблицу в том же состоянии
// и возвращает тот же SyncedCount. Уже записанные строки при таймауте
// не откатываются.
func (s *Service) Reconcile(ctx context.Context, vendorExternalID string, checklistID int64) (*Result, error) {
	const op = "services.reconcile.Reconcile"
	log := s.log.With(slog.String("op", op), sl.Vendor(vendorExternalID))

	resolver := NewResolver(s.repo)
	vendorID, err := resolver.Resolve(ctx, vendorExternalID)
	if err != nil {
		if errors.Is(err, repository.ErrVendorNotFound) {
			s.metrics.ObserveReconcileRun("vendor_not_found")
			return nil, ErrVendorNotFound
		}
		s.metrics.ObserveReconcileRun("error")
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	questions, err := s.repo.ListChecklistQuestions(ctx, vendorID, checklistID)
	if err != nil {
		s.metrics.ObserveReconcileRun("error")
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	result := &Result{TotalConsidered: len(questions)}
	for _, q := range questions {
		answer := models.QuestionnaireAnswer{
			VendorID:         vendorID,
			SourceQuestionID: q.ID,
			Question:         q.Question,
			Answer:           q.Answer,
			Status:           models.MapChecklistStatus(q.Status, q.Answer),
			Title:            q.Title,
		}
		if err := s.repo.UpsertQuestionnaireAnswer(ctx, answer); err != nil {
			log.Error("failed to upsert answer", slog.Int64("source_question_id", q.ID), sl.Err(err))
			s.metrics.ObserveReconcileRecord("failed")
			result.Errors = append(result.Errors, RecordError{
				SourceQuestionID: q.ID,
				Message:          err.Error(),
			})
			continue
		}
		s.metrics.ObserveReconcileRecord("synced")
		result.SyncedCount++
	}

	if err := s.cache.Invalidate(ctx, AnswersCacheKey(vendorID)); err != nil {
		log.Warn("failed to invalidate answers cache", sl.Err(err))
	}

	s.publishCompleted(vendorExternalID, result, log)
	s.metrics.ObserveReconcileRun("completed")
	log.Info("reconciliation completed",
		slog.Int("synced", result.SyncedCount),
		slog.Int("total", result.TotalConsidered),
		slog.Int("failed", len(result.Errors)))
	return result, nil
}

// publishCompleted отправляет событие завершения. Сбой публикации
// логируется и не влияет на результат запуска.
func (s *Service) publishCompleted(vendorExternalID string, result *Result, log *slog.Logger) {
	if s.events == nil {
		return
	}
	event := CompletedEvent{
		VendorExternalID: vendorExternalID,
		SyncedCount:      result.SyncedCount,
		TotalConsidered:  result.TotalConsidered,
	}
	for _, recErr := range result.Errors {
		event.FailedIDs = append(event.FailedIDs, recErr.SourceQuestionID)
	}
	if err := s.events.Publish(rabbitmq.RoutingKeyReconcileCompleted, event); err != nil {
		log.Warn("failed to publish reconcile event", sl.Err(err))
	}
}
