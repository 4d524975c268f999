package openapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

type sessionRequest struct {
	Type    string     `json:"type" validate:"required,oneof=contact quote booking" doc:"Kind of enquiry"`
	Email   string     `json:"email" validate:"required,email" example:"ana@example.com"`
	Phone   string     `json:"phone,omitempty"`
	Date    *time.Time `json:"date,omitempty"`
	Ignored string     `json:"-"`
	Tags    []string   `json:"tags,omitempty"`
}

type okResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

func newTestDocument() *Document {
	doc := New("Cadence API", "1.0.0").
		Description("Studio backend").
		Server("http://localhost:8080", "local").
		Tag("contact", "Enquiries")

	doc.Operation("post", "/contact").
		Summary("Send an enquiry").
		OperationID("createEnquiry").
		Tags("contact").
		Body(sessionRequest{}, "Enquiry").
		Response(http.StatusOK, okResponse{}, "Sent").
		Response(http.StatusBadRequest, nil, "Invalid").
		Build()

	return doc
}

func TestDocument_Build(t *testing.T) {
	doc := newTestDocument()
	spec := doc.Spec()

	assert.Equal(t, "Cadence API", spec.Info.Title)
	assert.Equal(t, "Studio backend", spec.Info.Description)
	require.Len(t, spec.Servers, 1)

	item := spec.Paths.Find("/contact")
	require.NotNil(t, item)
	require.NotNil(t, item.Post)
	assert.Equal(t, "createEnquiry", item.Post.OperationID)
	assert.NotNil(t, item.Post.Responses.Value("200"))
	assert.NotNil(t, item.Post.Responses.Value("400"))

	assert.NoError(t, doc.Validate(context.Background()))
}

func TestDocument_EchoPaths(t *testing.T) {
	doc := New("Cadence API", "1.0.0")
	doc.Operation("get", "/bookings/:id").Response(http.StatusOK, okResponse{}, "Booking").Build()

	item := doc.Spec().Paths.Find("/bookings/{id}")
	require.NotNil(t, item)
	assert.NotNil(t, item.Get)
}

func TestDocument_Schemas(t *testing.T) {
	doc := newTestDocument()
	schemas := doc.Spec().Components.Schemas

	req, ok := schemas["sessionRequest"]
	require.True(t, ok)
	props := req.Value.Properties

	assert.ElementsMatch(t, []string{"type", "email"}, req.Value.Required)
	assert.NotContains(t, props, "Ignored")
	assert.Equal(t, "email", props["email"].Value.Format)
	assert.Equal(t, "ana@example.com", props["email"].Value.Example)
	assert.Equal(t, "Kind of enquiry", props["type"].Value.Description)
	assert.Equal(t, []any{"contact", "quote", "booking"}, props["type"].Value.Enum)
	assert.Equal(t, "date-time", props["date"].Value.Format)
	assert.True(t, props["date"].Value.Nullable)
	assert.True(t, props["tags"].Value.Type.Is("array"))

	resp, ok := schemas["okResponse"]
	require.True(t, ok)
	assert.ElementsMatch(t, []string{"success", "message"}, resp.Value.Required)
}

func TestDocument_Handlers(t *testing.T) {
	doc := newTestDocument()
	e := echo.New()
	doc.Register(e, "/openapi")

	t.Run("json", func(t *testing.T) {
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/openapi.json", nil))

		require.Equal(t, http.StatusOK, rec.Code)
		var body map[string]any
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, "3.0.3", body["openapi"])
	})

	t.Run("yaml", func(t *testing.T) {
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/openapi.yaml", nil))

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "application/yaml", rec.Header().Get(echo.HeaderContentType))
		var body map[string]any
		require.NoError(t, yaml.Unmarshal(rec.Body.Bytes(), &body))
		assert.Contains(t, body, "paths")
	})
}

func TestEchoPathToOpenAPI(t *testing.T) {
	assert.Equal(t, "/users/{id}/sessions/{sid}", echoPathToOpenAPI("/users/:id/sessions/:sid"))
	assert.Equal(t, "/password-reset", echoPathToOpenAPI("/password-reset"))
}
