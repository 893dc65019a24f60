package register

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/compliance-portal/internal/http/response"
	"github.com/magabrotheeeer/compliance-portal/internal/lib/sl"
	"github.com/magabrotheeeer/compliance-portal/internal/models"
	authservice "github.com/magabrotheeeer/compliance-portal/internal/services/auth"
)

// Request — входные данные для регистрации
type Request struct {
	Email        string `json:"email" validate:"required,email"`
	Password     string `json:"password" validate:"required,min=8"`
	FullName     string `json:"full_name" validate:"required,min=1,max=120"`
	Role         string `json:"role" validate:"required"`
	Organization string `json:"organization" validate:"max=120"`
}

// Handler обрабатывает HTTP-запросы на регистрацию.
type Handler struct {
	log      *slog.Logger
	auth     Service
	validate *validator.Validate
}

// Service описывает интерфейс регистрации учётных записей.
type Service interface {
	Register(ctx context.Context, email, password, fullName string, role models.Role, organization string) (*models.AccountSummary, error)
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, auth Service) *Handler {
	return &Handler{
		log:      log,
		auth:     auth,
		validate: validator.New(),
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.register"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	role, ok := models.ParseRole(req.Role)
	if !ok {
		log.Error("unknown role", slog.String("role", req.Role))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("unknown role"))
		return
	}

	summary, err := h.auth.Register(r.Context(), req.Email, req.Password, req.FullName, role, req.Organization)
	if err != nil {
		switch {
		case errors.Is(err, authservice.ErrEmailTaken):
			w.WriteHeader(http.StatusConflict)
			render.JSON(w, r, response.Error("email already taken"))
		case errors.Is(err, authservice.ErrRoleNotAllowed):
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error("role not allowed for signup"))
		default:
			log.Error("registration failed", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("failed to register account"))
		}
		return
	}

	render.JSON(w, r, response.OKWithData(summary))
}
