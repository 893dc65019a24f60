// Package reconcilerun реализует HTTP-обработчик запуска реконсиляции
// чек-листов вендора с таблицей ответов анкет.
//
// Запуск идемпотентен; ошибки отдельных записей возвращаются в теле ответа
// и не считаются отказом всей операции.
package reconcilerun

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/compliance-portal/internal/http/response"
	"github.com/magabrotheeeer/compliance-portal/internal/lib/sl"
	reconcileservice "github.com/magabrotheeeer/compliance-portal/internal/services/reconcile"
)

// Request — необязательное тело запроса с ограничением по чек-листу.
type Request struct {
	ChecklistID int64 `json:"checklist_id"`
}

// Handler обрабатывает запросы запуска реконсиляции.
type Handler struct {
	log       *slog.Logger
	reconcile Service
}

// Service описывает интерфейс движка реконсиляции.
type Service interface {
	Reconcile(ctx context.Context, vendorExternalID string, checklistID int64) (*reconcileservice.Result, error)
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, reconcile Service) *Handler {
	return &Handler{log: log, reconcile: reconcile}
}

// ServeHTTP godoc
// @Summary Запуск реконсиляции вендора
// @Description Идемпотентно сливает записи чек-листов в таблицу ответов анкеты.
// @Tags Vendors
// @Accept  json
// @Produce  json
// @Param externalID path string true "Внешний идентификатор вендора"
// @Param request body Request false "Ограничение по чек-листу"
// @Success 200 {object} map[string]any "Итог реконсиляции"
// @Failure 404 {object} response.ErrorResponse "Вендор не найден"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /vendors/{externalID}/reconcile [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.vendors.reconcilerun"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	externalID := chi.URLParam(r, "externalID")
	if externalID == "" {
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("vendor external id is required"))
		return
	}

	// Тело запроса необязательно: пустое тело означает полный охват.
	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		log.Error("failed to decode request body", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	result, err := h.reconcile.Reconcile(r.Context(), externalID, req.ChecklistID)
	if err != nil {
		if errors.Is(err, reconcileservice.ErrVendorNotFound) {
			log.Error("vendor not found", sl.Vendor(externalID))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("vendor not found"))
			return
		}
		log.Error("reconciliation failed", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("internal service error"))
		return
	}

	render.JSON(w, r, response.OKWithData(map[string]any{
		"message":         "reconciliation completed",
		"synced_count":    result.SyncedCount,
		"total_questions": result.TotalConsidered,
		"errors":          result.Errors,
	}))
}
