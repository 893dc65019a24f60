package models

import "time"

// VendorLink связывает публичный внешний идентификатор вендора
// с внутренним суррогатным ключом, используемым унаследованными таблицами.
// Для каждого вендора отображение взаимно однозначно.
type VendorLink struct {
	InternalID int64  // Внутренний целочисленный ключ
	ExternalID string // Внешний непрозрачный идентификатор
}

// ChecklistStatus — статус записи в подсистеме чек-листов.
type ChecklistStatus string

// Статусы подсистемы чек-листов.
const (
	ChecklistCompleted    ChecklistStatus = "completed"
	ChecklistInProgress   ChecklistStatus = "in_progress"
	ChecklistNeedsSupport ChecklistStatus = "needs_support"
)

// AnswerStatus — статус записи в таблице ответов анкеты.
type AnswerStatus string

// Статусы ответов анкеты.
const (
	AnswerCompleted    AnswerStatus = "Completed"
	AnswerInProgress   AnswerStatus = "In Progress"
	AnswerNeedsSupport AnswerStatus = "Needs Support"
	AnswerPending      AnswerStatus = "Pending"
)

// SectionTitleSentinel — служебная псевдозапись с заголовком раздела.
// Исключается из публичных списков ответов.
const SectionTitleSentinel = "__section_title__"

// ChecklistQuestion — запись подсистемы чек-листов.
type ChecklistQuestion struct {
	ID          int64           // Идентификатор вопроса в чек-листе
	VendorID    int64           // Внутренний идентификатор вендора
	ChecklistID int64           // Идентификатор чек-листа
	Question    string          // Текст вопроса
	Answer      string          // Текущий ответ (может быть пустым)
	Status      ChecklistStatus // Статус в терминах чек-листа
	Title       string          // Заголовок раздела
}

// QuestionnaireAnswer — запись таблицы ответов анкеты.
// Для пары (vendor_id, source_question_id) существует не более одной строки.
type QuestionnaireAnswer struct {
	ID               int64        `json:"id"`
	VendorID         int64        `json:"vendor_id"`
	SourceQuestionID int64        `json:"source_question_id"`
	Question         string       `json:"question"`
	Answer           string       `json:"answer"`
	Status           AnswerStatus `json:"status"`
	Title            string       `json:"title,omitempty"`
	UpdatedAt        time.Time    `json:"updated_at"`
}

// MapChecklistStatus переводит статус чек-листа в статус анкеты.
// Функция тотальна: любое неизвестное значение даёт Pending.
// Результат зависит только от исходной записи, не от прежнего статуса анкеты.
func MapChecklistStatus(status ChecklistStatus, answer string) AnswerStatus {
	switch {
	case status == ChecklistCompleted && answer != "":
		return AnswerCompleted
	case status == ChecklistInProgress:
		return AnswerInProgress
	case status == ChecklistNeedsSupport:
		return AnswerNeedsSupport
	default:
		return AnswerPending
	}
}
