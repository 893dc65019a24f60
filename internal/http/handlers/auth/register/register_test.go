package register_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/compliance-portal/internal/http/handlers/auth/register"
	"github.com/magabrotheeeer/compliance-portal/internal/models"
	authservice "github.com/magabrotheeeer/compliance-portal/internal/services/auth"
)

// Мок для Service
type AuthServiceMock struct {
	mock.Mock
}

func (m *AuthServiceMock) Register(ctx context.Context, email, password, fullName string, role models.Role, organization string) (*models.AccountSummary, error) {
	args := m.Called(ctx, email, password, fullName, role, organization)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.AccountSummary), args.Error(1)
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

func TestRegisterHandler(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		setup      func(svc *AuthServiceMock)
		wantStatus int
		wantError  string
	}{
		{
			name: "success",
			body: `{"email": "new@b.com", "password": "long-enough-password", "full_name": "New User", "role": "vendor", "organization": "Acme"}`,
			setup: func(svc *AuthServiceMock) {
				svc.On("Register", mock.Anything, "new@b.com", "long-enough-password", "New User", models.RoleVendor, "Acme").
					Return(&models.AccountSummary{ID: 77, Email: "new@b.com", Role: "vendor"}, nil).Once()
			},
			wantStatus: http.StatusOK,
		},
		{
			name:       "password shorter than eight characters",
			body:       `{"email": "new@b.com", "password": "short12", "full_name": "New User", "role": "vendor"}`,
			setup:      func(_ *AuthServiceMock) {},
			wantStatus: http.StatusBadRequest,
			wantError:  "field Password must be at least 8 characters long",
		},
		{
			name:       "unknown role rejected before service call",
			body:       `{"email": "new@b.com", "password": "long-enough-password", "full_name": "New User", "role": "superuser"}`,
			setup:      func(_ *AuthServiceMock) {},
			wantStatus: http.StatusBadRequest,
			wantError:  "unknown role",
		},
		{
			name: "admin role not allowed",
			body: `{"email": "new@b.com", "password": "long-enough-password", "full_name": "New User", "role": "admin"}`,
			setup: func(svc *AuthServiceMock) {
				svc.On("Register", mock.Anything, "new@b.com", "long-enough-password", "New User", models.RoleAdmin, "").
					Return(nil, authservice.ErrRoleNotAllowed).Once()
			},
			wantStatus: http.StatusBadRequest,
			wantError:  "role not allowed for signup",
		},
		{
			name: "duplicate email",
			body: `{"email": "new@b.com", "password": "long-enough-password", "full_name": "New User", "role": "founder"}`,
			setup: func(svc *AuthServiceMock) {
				svc.On("Register", mock.Anything, "new@b.com", "long-enough-password", "New User", models.RoleFounder, "").
					Return(nil, authservice.ErrEmailTaken).Once()
			},
			wantStatus: http.StatusConflict,
			wantError:  "email already taken",
		},
		{
			name:       "malformed json",
			body:       `{"email":`,
			setup:      func(_ *AuthServiceMock) {},
			wantStatus: http.StatusBadRequest,
			wantError:  "invalid request body",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(AuthServiceMock)
			tt.setup(svc)

			handler := register.New(newNoopLogger(), svc)
			req := httptest.NewRequest(http.MethodPost, "/api/v1/register", strings.NewReader(tt.body))
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)

			var resp struct {
				Status string `json:"status"`
				Error  string `json:"error"`
			}
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

			if tt.wantError != "" {
				assert.Equal(t, "Error", resp.Status)
				assert.Contains(t, resp.Error, tt.wantError)
			} else {
				assert.Equal(t, "OK", resp.Status)
			}
			svc.AssertExpectations(t)
		})
	}
}
