package httpclient

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	apperrors "github.com/0097eo/ideal-furniture/pkg/errors"
)

// errorBody mirrors the error payloads the storefront backend returns.
// Depending on the endpoint the message arrives under "message" or "error".
type errorBody struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}

func (b errorBody) text() string {
	if b.Message != "" {
		return b.Message
	}
	return b.Error
}

// ParseResponseError reads the body of a non-2xx HTTP response and translates
// it into the client error taxonomy. The server's message, when present, is
// preserved verbatim so it can be surfaced to the user.
//
// The caller should only invoke this when resp.StatusCode indicates an error.
// The response body is fully consumed and closed.
func ParseResponseError(resp *http.Response, operation string) error {
	defer func() { _ = resp.Body.Close() }()

	bodyBytes, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return apperrors.Server(resp.StatusCode,
			fmt.Sprintf("%s returned status %d (failed to read body: %v)", operation, resp.StatusCode, err))
	}

	var body errorBody
	_ = json.Unmarshal(bodyBytes, &body)
	message := body.text()
	if message == "" {
		message = fmt.Sprintf("%s returned status %d", operation, resp.StatusCode)
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return apperrors.Unauthorized(message)
	case resp.StatusCode == http.StatusNotFound:
		return &apperrors.AppError{
			Code:    "NOT_FOUND",
			Message: message,
			Status:  http.StatusNotFound,
			Err:     apperrors.ErrNotFound,
		}
	case resp.StatusCode == http.StatusBadRequest,
		resp.StatusCode == http.StatusUnprocessableEntity,
		resp.StatusCode == http.StatusConflict:
		return apperrors.Validation(message)
	case resp.StatusCode >= 500:
		return apperrors.Server(resp.StatusCode, message)
	default:
		return &apperrors.AppError{
			Code:    "HTTP_ERROR",
			Message: message,
			Status:  resp.StatusCode,
		}
	}
}
