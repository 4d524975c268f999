package contact

import (
	"net/http"

	"github.com/tech-arch1tect/cadence/openapi"
)

func (h *Handler) Document(doc *openapi.Document, path string) {
	doc.Operation(http.MethodPost, path).
		Summary("Send a contact, quote or booking enquiry").
		OperationID("createEnquiry").
		Tags("contact").
		Body(Request{}, "Enquiry").
		Response(http.StatusOK, SuccessResponse{}, "Forwarded to the studio").
		Response(http.StatusBadRequest, ErrorResponse{}, "Validation failed").
		Response(http.StatusTooManyRequests, ErrorResponse{}, "Rate limited").
		Response(http.StatusBadGateway, ErrorResponse{}, "Email could not be delivered").
		Build()
}
