package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/magabrotheeeer/compliance-portal/internal/models"
)

// FindVendorInternalID возвращает внутренний ключ вендора по внешнему
// идентификатору. Отсутствие связки возвращает ErrVendorNotFound, новый
// идентификатор никогда не создаётся.
func (s *Storage) FindVendorInternalID(ctx context.Context, externalID string) (int64, error) {
	const op = "storage.FindVendorInternalID"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id FROM vendor_links WHERE external_id = $1`
	var internalID int64
	if err := s.DB.QueryRowContext(ctx, query, externalID).Scan(&internalID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, fmt.Errorf("%s: %w", op, ErrVendorNotFound)
		}
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return internalID, nil
}

// ListChecklistQuestions возвращает записи чек-листов вендора.
// При checklistID > 0 выборка ограничивается одним чек-листом.
func (s *Storage) ListChecklistQuestions(ctx context.Context, vendorID, checklistID int64) ([]*models.ChecklistQuestion, error) {
	const op = "storage.ListChecklistQuestions"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, vendor_id, checklist_id, question, answer, status, title
			  FROM checklist_questions
			  WHERE vendor_id = $1 AND ($2 = 0 OR checklist_id = $2)
			  ORDER BY id`
	rows, err := s.DB.QueryContext(ctx, query, vendorID, checklistID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.ChecklistQuestion
	for rows.Next() {
		var q models.ChecklistQuestion
		var answer, title sql.NullString
		var status string
		if err = rows.Scan(&q.ID, &q.VendorID, &q.ChecklistID, &q.Question,
			&answer, &status, &title); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		q.Status = models.ChecklistStatus(status)
		if answer.Valid {
			q.Answer = answer.String
		}
		if title.Valid {
			q.Title = title.String
		}
		result = append(result, &q)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// UpsertQuestionnaireAnswer атомарно вставляет либо перезаписывает строку
// ответа анкеты по ключу (vendor_id, source_question_id). Разрешение
// конфликта выполняет база, а не чтение-перед-записью: одновременные
// реконсиляции одного вендора не создают дубликатов.
func (s *Storage) UpsertQuestionnaireAnswer(ctx context.Context, answer models.QuestionnaireAnswer) error {
	const op = "storage.UpsertQuestionnaireAnswer"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO questionnaire_answers
			      (vendor_id, source_question_id, question, answer, status, title, updated_at)
			  VALUES ($1, $2, $3, $4, $5, $6, NOW())
			  ON CONFLICT (vendor_id, source_question_id) DO UPDATE
			  SET question = EXCLUDED.question,
			      answer = EXCLUDED.answer,
			      status = EXCLUDED.status,
			      title = EXCLUDED.title,
			      updated_at = NOW()`
	_, err := s.DB.ExecContext(ctx, query,
		answer.VendorID, answer.SourceQuestionID, answer.Question,
		answer.Answer, string(answer.Status), answer.Title)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// ListQuestionnaireAnswers возвращает упорядоченный список ответов анкеты
// вендора, исключая служебную псевдозапись заголовка раздела.
func (s *Storage) ListQuestionnaireAnswers(ctx context.Context, vendorID int64) ([]*models.QuestionnaireAnswer, error) {
	const op = "storage.ListQuestionnaireAnswers"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, vendor_id, source_question_id, question, answer, status, title, updated_at
			  FROM questionnaire_answers
			  WHERE vendor_id = $1 AND title IS DISTINCT FROM $2
			  ORDER BY source_question_id`
	rows, err := s.DB.QueryContext(ctx, query, vendorID, models.SectionTitleSentinel)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.QuestionnaireAnswer
	for rows.Next() {
		var a models.QuestionnaireAnswer
		var answer, title sql.NullString
		var status string
		if err = rows.Scan(&a.ID, &a.VendorID, &a.SourceQuestionID, &a.Question,
			&answer, &status, &title, &a.UpdatedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		a.Status = models.AnswerStatus(status)
		if answer.Valid {
			a.Answer = answer.String
		}
		if title.Valid {
			a.Title = title.String
		}
		result = append(result, &a)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}
