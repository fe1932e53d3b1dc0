package web

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/JonMunkholm/sheetclean/internal/core"
	"github.com/JonMunkholm/sheetclean/internal/logging"
)

// maxJSONBody bounds small JSON request bodies.
const maxJSONBody = 1 << 20

var errInvalidBody = core.UserMessage{
	Message: "Request body is not valid JSON",
	Action:  `Send a JSON object such as {"table": "name"}`,
	Code:    "REQ001",
	Status:  http.StatusBadRequest,
}

// decodeJSONBody decodes a small JSON object from the request body.
func decodeJSONBody(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBody)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return core.NewUserError(errInvalidBody, err)
	}
	return nil
}

// logger returns the request-scoped logger.
func (s *Server) logger(r *http.Request) *slog.Logger {
	return logging.FromContext(r.Context())
}
