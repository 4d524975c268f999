package passwordreset

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"regexp"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/tech-arch1tect/cadence/middleware/cors"
	"github.com/tech-arch1tect/cadence/openapi"
	"github.com/tech-arch1tect/cadence/services/identity"
	"github.com/tech-arch1tect/cadence/services/logging"
	reset "github.com/tech-arch1tect/cadence/services/passwordreset"
	"github.com/tech-arch1tect/cadence/services/resettoken"
	"github.com/tech-arch1tect/cadence/testutils"
	"go.uber.org/zap/zapcore"
	"golang.org/x/crypto/bcrypt"
)

type mockResetter struct {
	mock.Mock
}

func (m *mockResetter) Generate(ctx context.Context, email string) error {
	return m.Called(email).Error(0)
}

func (m *mockResetter) Verify(ctx context.Context, email, code, newPassword string) error {
	return m.Called(email, code, newPassword).Error(0)
}

func newTestServer(resetter Resetter, logger *logging.Service) *echo.Echo {
	e := echo.New()
	e.Use(cors.Default())
	NewHandler(resetter, logger).Register(e, "/password-reset")
	return e
}

func send(e *echo.Echo, method, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, "/password-reset", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestHandler_Generate(t *testing.T) {
	resetter := &mockResetter{}
	resetter.On("Generate", "user@example.com").Return(nil)
	e := newTestServer(resetter, logging.NewNop())

	rec := send(e, http.MethodPost, `{"action":"generate","email":"user@example.com"}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"success":true,"message":"Reset code sent to your email"}`, rec.Body.String())
	assert.Equal(t, "*", rec.Header().Get(echo.HeaderAccessControlAllowOrigin))
	resetter.AssertExpectations(t)
}

func TestHandler_Verify(t *testing.T) {
	resetter := &mockResetter{}
	resetter.On("Verify", "user@example.com", "482913", "NewPass1!").Return(nil)
	e := newTestServer(resetter, logging.NewNop())

	rec := send(e, http.MethodPost, `{"action":"verify","email":"user@example.com","token":"482913","newPassword":"NewPass1!"}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"success":true,"message":"Password updated successfully"}`, rec.Body.String())
	resetter.AssertExpectations(t)
}

func TestHandler_Errors(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantError  string
	}{
		{
			name:       "invalid input keeps its message",
			err:        fmt.Errorf("%w: password must be at least 8 characters", reset.ErrInvalidInput),
			wantStatus: http.StatusBadRequest,
			wantError:  "Password must be at least 8 characters",
		},
		{
			name:       "bare invalid input",
			err:        reset.ErrInvalidInput,
			wantStatus: http.StatusBadRequest,
			wantError:  "Invalid request",
		},
		{
			name:       "bad code",
			err:        reset.ErrInvalidOrExpiredCode,
			wantStatus: http.StatusBadRequest,
			wantError:  "Invalid or expired reset code",
		},
		{
			name:       "unknown user reads like a bad code",
			err:        fmt.Errorf("%w: nobody@example.com", reset.ErrUserNotFound),
			wantStatus: http.StatusBadRequest,
			wantError:  "Invalid or expired reset code",
		},
		{
			name:       "credential update",
			err:        reset.ErrCredentialUpdateFailed,
			wantStatus: http.StatusBadRequest,
			wantError:  "Failed to update password. Please request a new reset code",
		},
		{
			name:       "email delivery",
			err:        reset.ErrEmailDeliveryFailed,
			wantStatus: http.StatusBadRequest,
			wantError:  "Failed to send reset code email",
		},
		{
			name:       "unexpected",
			err:        errors.New("database is locked"),
			wantStatus: http.StatusInternalServerError,
			wantError:  "Internal server error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resetter := &mockResetter{}
			resetter.On("Verify", "user@example.com", "123456", "pw").Return(tt.err)
			e := newTestServer(resetter, logging.NewNop())

			rec := send(e, http.MethodPost, `{"action":"verify","email":"user@example.com","token":"123456","newPassword":"pw"}`)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.JSONEq(t, fmt.Sprintf(`{"error":%q}`, tt.wantError), rec.Body.String())
			assert.NotContains(t, rec.Body.String(), "database is locked")
		})
	}
}

func TestHandler_UnknownAction(t *testing.T) {
	resetter := &mockResetter{}
	e := newTestServer(resetter, logging.NewNop())

	for _, body := range []string{`{"action":"delete","email":"user@example.com"}`, `{}`} {
		rec := send(e, http.MethodPost, body)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.JSONEq(t, `{"error":"Invalid action"}`, rec.Body.String())
	}
	resetter.AssertNotCalled(t, "Generate", mock.Anything)
	resetter.AssertNotCalled(t, "Verify", mock.Anything, mock.Anything, mock.Anything)
}

func TestHandler_MalformedBody(t *testing.T) {
	e := newTestServer(&mockResetter{}, logging.NewNop())

	rec := send(e, http.MethodPost, `{"action":`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"error":"Invalid request body"}`, rec.Body.String())
}

func TestHandler_Preflight(t *testing.T) {
	resetter := &mockResetter{}
	e := newTestServer(resetter, logging.NewNop())

	rec := send(e, http.MethodOptions, "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Body.String())
	assert.Equal(t, "*", rec.Header().Get(echo.HeaderAccessControlAllowOrigin))
	assert.Equal(t, "authorization, x-client-info, apikey, content-type", rec.Header().Get(echo.HeaderAccessControlAllowHeaders))
	assert.Equal(t, "POST, OPTIONS", rec.Header().Get(echo.HeaderAccessControlAllowMethods))
	resetter.AssertNotCalled(t, "Generate", mock.Anything)
}

func TestHandler_PreflightSkipsMiddleware(t *testing.T) {
	e := echo.New()
	blocked := func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			return c.NoContent(http.StatusForbidden)
		}
	}
	NewHandler(&mockResetter{}, logging.NewNop()).Register(e.Group("/api"), "/password-reset", blocked)

	req := httptest.NewRequest(http.MethodOptions, "/api/password-reset", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	req = httptest.NewRequest(http.MethodPost, "/api/password-reset", nil)
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestHandler_LogsFailures(t *testing.T) {
	logger, logs := testutils.NewObservedLogger()
	resetter := &mockResetter{}
	resetter.On("Generate", "user@example.com").Return(errors.New("disk full"))
	e := newTestServer(resetter, logger)

	send(e, http.MethodPost, `{"action":"generate","email":"user@example.com"}`)

	entries := logs.FilterMessage("password reset request failed").All()
	require.Len(t, entries, 1)
	assert.Equal(t, zapcore.ErrorLevel, entries[0].Level)
	assert.Equal(t, "generate", entries[0].ContextMap()["action"])
}

var codePattern = regexp.MustCompile(`<strong>(\d{6})</strong>`)

func TestHandler_EndToEnd(t *testing.T) {
	ctx := context.Background()
	db := testutils.SetupTestDB(t, &resettoken.ResetToken{}, &identity.Account{})
	local := identity.NewLocalProvider(db, bcrypt.MinCost, logging.NewNop())
	_, err := local.CreateAccount(ctx, "user@example.com", "OldPass1!")
	require.NoError(t, err)

	mailer := &testutils.RecordingMailer{}
	service := reset.NewService(testutils.GetTestConfig(), resettoken.NewGormStore(db), mailer, local, logging.NewNop())
	e := newTestServer(service, logging.NewNop())

	rec := send(e, http.MethodPost, `{"action":"generate","email":"User@Example.com"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	msg, ok := mailer.Last()
	require.True(t, ok)
	match := codePattern.FindStringSubmatch(msg.HTML)
	require.Len(t, match, 2)
	code := match[1]

	rec = send(e, http.MethodPost, fmt.Sprintf(`{"action":"verify","email":"user@example.com","token":%q,"newPassword":"NewPass1!"}`, code))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NoError(t, local.VerifyPassword(ctx, "user@example.com", "NewPass1!"))

	rec = send(e, http.MethodPost, fmt.Sprintf(`{"action":"verify","email":"user@example.com","token":%q,"newPassword":"Another1!"}`, code))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"error":"Invalid or expired reset code"}`, rec.Body.String())

	rec = send(e, http.MethodPost, `{"action":"verify","email":"user@example.com","token":"000000","newPassword":"Another1!"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"error":"Invalid or expired reset code"}`, rec.Body.String())
}

func TestHandler_Document(t *testing.T) {
	doc := openapi.New("Cadence API", "1.0.0")
	NewHandler(&mockResetter{}, logging.NewNop()).Document(doc, "/password-reset")

	require.NoError(t, doc.Validate(context.Background()))
	item := doc.Spec().Paths.Find("/password-reset")
	require.NotNil(t, item)
	require.NotNil(t, item.Post)
	require.NotNil(t, item.Options)
	assert.NotNil(t, item.Post.Responses.Value("429"))
}
