package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/skurlov/identsvc/internal/logging"
)

// responseHeader carries request metadata alongside every response body.
// ResponseMessage is addressed to API consumers, CustomerMessage is safe to
// show to an end user verbatim.
type responseHeader struct {
	RequestRefID    string `json:"requestRefId"`
	ResponseCode    int    `json:"responseCode"`
	ResponseMessage string `json:"responseMessage"`
	CustomerMessage string `json:"customerMessage"`
	Timestamp       string `json:"timestamp"`
}

type apiResponse struct {
	Header responseHeader `json:"header"`
	Body   any            `json:"body"`
}

func newHeader(status int, developerMessage, customerMessage string) responseHeader {
	return responseHeader{
		RequestRefID:    uuid.NewString(),
		ResponseCode:    status,
		ResponseMessage: developerMessage,
		CustomerMessage: customerMessage,
		Timestamp:       time.Now().UTC().Format(time.RFC3339),
	}
}

func writeJSON(ctx context.Context, logger logging.Logger, w http.ResponseWriter, status int, resp apiResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		logger.Error(ctx, "response encoding failed", "error", err)
	}
}
