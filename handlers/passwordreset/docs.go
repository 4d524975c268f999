package passwordreset

import (
	"net/http"

	"github.com/tech-arch1tect/cadence/openapi"
)

func (h *Handler) Document(doc *openapi.Document, path string) {
	doc.Operation(http.MethodPost, path).
		Summary("Request or redeem a password reset code").
		Description("With action=generate a six digit code is emailed to the address. " +
			"With action=verify the code is redeemed once and the password replaced.").
		OperationID("passwordReset").
		Tags("password-reset").
		Body(Request{}, "Reset action").
		Response(http.StatusOK, SuccessResponse{}, "Action completed").
		Response(http.StatusBadRequest, ErrorResponse{}, "Rejected; the message is safe to display").
		Response(http.StatusTooManyRequests, ErrorResponse{}, "Rate limited").
		Response(http.StatusInternalServerError, ErrorResponse{}, "Unexpected failure").
		Build()

	doc.Operation(http.MethodOptions, path).
		Summary("CORS preflight").
		OperationID("passwordResetPreflight").
		Tags("password-reset").
		Response(http.StatusOK, nil, "Empty response with CORS headers").
		Build()
}
