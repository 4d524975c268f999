package contact

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/tech-arch1tect/cadence/internal/validation"
	"github.com/tech-arch1tect/cadence/openapi"
	"github.com/tech-arch1tect/cadence/services/logging"
	"github.com/tech-arch1tect/cadence/services/mail"
	"github.com/tech-arch1tect/cadence/testutils"
)

const validEnquiry = `{
	"type": "Quote",
	"name": " Ana Silva ",
	"email": "Ana@Example.com",
	"phone": "+44 20 7946 0958",
	"message": "Four track EP, mixing and mastering.",
	"service": "Mixing",
	"preferredDate": "2026-03-14"
}`

func newTestServer(h *Handler) *echo.Echo {
	e := echo.New()
	e.Validator = validation.New()
	h.Register(e, "/contact")
	return e
}

func submit(e *echo.Echo, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/contact", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestHandler_Submit(t *testing.T) {
	mailer := &testutils.RecordingMailer{}
	e := newTestServer(NewHandler(testutils.GetTestConfig(), mailer, logging.NewNop()))

	rec := submit(e, validEnquiry)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"success":true`)
	require.Len(t, mailer.Messages, 2)

	enquiry := mailer.Messages[0]
	assert.Equal(t, "desk@example.com", enquiry.To)
	assert.Equal(t, "ana@example.com", enquiry.ReplyTo)
	assert.Equal(t, "New quote request from Ana Silva", enquiry.Subject)
	assert.Contains(t, enquiry.HTML, "Mixing")
	assert.Contains(t, enquiry.HTML, "2026-03-14")
	assert.Contains(t, enquiry.HTML, "+44 20 7946 0958")

	reply := mailer.Messages[1]
	assert.Equal(t, "ana@example.com", reply.To)
	assert.Equal(t, "desk@example.com", reply.ReplyTo)
	assert.Contains(t, reply.HTML, "Thanks, Ana Silva")
}

func TestHandler_EscapesUserInput(t *testing.T) {
	mailer := &testutils.RecordingMailer{}
	e := newTestServer(NewHandler(testutils.GetTestConfig(), mailer, logging.NewNop()))

	rec := submit(e, `{"type":"contact","name":"Eve","email":"eve@example.com","message":"<script>alert(1)</script>"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, mailer.Messages[0].HTML, "<script>")
	assert.Contains(t, mailer.Messages[0].HTML, "&lt;script&gt;")
	assert.Equal(t, "New message from Eve", mailer.Messages[0].Subject)
}

func TestHandler_AutoReplyDisabled(t *testing.T) {
	cfg := testutils.GetTestConfig()
	cfg.Contact.SendAutoReply = false
	mailer := &testutils.RecordingMailer{}
	e := newTestServer(NewHandler(cfg, mailer, logging.NewNop()))

	rec := submit(e, validEnquiry)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, mailer.Messages, 1)
}

func TestHandler_InboxFallsBackToSender(t *testing.T) {
	cfg := testutils.GetTestConfig()
	cfg.Contact.Inbox = ""
	mailer := &testutils.RecordingMailer{}
	e := newTestServer(NewHandler(cfg, mailer, logging.NewNop()))

	submit(e, validEnquiry)

	require.NotEmpty(t, mailer.Messages)
	assert.Equal(t, "studio@example.com", mailer.Messages[0].To)
}

func TestHandler_Validation(t *testing.T) {
	tests := []struct {
		name      string
		body      string
		wantField string
	}{
		{
			name:      "unknown type",
			body:      `{"type":"complaint","name":"Ana","email":"ana@example.com","message":"hi"}`,
			wantField: "type",
		},
		{
			name:      "missing name",
			body:      `{"type":"contact","email":"ana@example.com","message":"hi"}`,
			wantField: "name",
		},
		{
			name:      "bad email",
			body:      `{"type":"contact","name":"Ana","email":"ana","message":"hi"}`,
			wantField: "email",
		},
		{
			name:      "blank message",
			body:      `{"type":"contact","name":"Ana","email":"ana@example.com","message":"   "}`,
			wantField: "message",
		},
		{
			name:      "bad date",
			body:      `{"type":"booking","name":"Ana","email":"ana@example.com","message":"hi","preferredDate":"14/03/2026"}`,
			wantField: "preferredDate",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mailer := &testutils.MockMailer{}
			e := newTestServer(NewHandler(testutils.GetTestConfig(), mailer, logging.NewNop()))

			rec := submit(e, tt.body)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Contains(t, rec.Body.String(), `"`+tt.wantField+`":`)
			mailer.AssertNotCalled(t, "Send", mock.Anything, mock.Anything)
		})
	}
}

func TestHandler_MalformedBody(t *testing.T) {
	e := newTestServer(NewHandler(testutils.GetTestConfig(), &testutils.MockMailer{}, logging.NewNop()))

	rec := submit(e, `{"type":`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"error":"Invalid request body"}`, rec.Body.String())
}

func TestHandler_DeliveryFailure(t *testing.T) {
	logger, logs := testutils.NewObservedLogger()
	mailer := &testutils.MockMailer{}
	mailer.On("Send", mock.Anything, mock.MatchedBy(func(msg mail.Message) bool {
		return msg.To == "desk@example.com"
	})).Return(false)
	e := newTestServer(NewHandler(testutils.GetTestConfig(), mailer, logger))

	rec := submit(e, validEnquiry)

	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.JSONEq(t, `{"error":"Failed to send your message. Please try again later"}`, rec.Body.String())
	assert.Equal(t, 1, logs.FilterMessage("enquiry was not delivered").Len())
	mailer.AssertNumberOfCalls(t, "Send", 1)
}

func TestHandler_AutoReplyFailureIsIgnored(t *testing.T) {
	mailer := &testutils.MockMailer{}
	mailer.On("Send", mock.Anything, mock.MatchedBy(func(msg mail.Message) bool {
		return msg.To == "desk@example.com"
	})).Return(true)
	mailer.On("Send", mock.Anything, mock.MatchedBy(func(msg mail.Message) bool {
		return msg.To == "ana@example.com"
	})).Return(false)
	e := newTestServer(NewHandler(testutils.GetTestConfig(), mailer, logging.NewNop()))

	rec := submit(e, validEnquiry)

	assert.Equal(t, http.StatusOK, rec.Code)
	mailer.AssertExpectations(t)
}

func TestHandler_Document(t *testing.T) {
	doc := openapi.New("Cadence API", "1.0.0")
	NewHandler(testutils.GetTestConfig(), &testutils.RecordingMailer{}, logging.NewNop()).Document(doc, "/contact")

	require.NoError(t, doc.Validate(context.Background()))
	item := doc.Spec().Paths.Find("/contact")
	require.NotNil(t, item)
	assert.Equal(t, "createEnquiry", item.Post.OperationID)
}
