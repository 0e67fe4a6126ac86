// internal/server/proxy.go
package server

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"workorder-assistant/internal/models"
)

// The ERP endpoint accepts only the operations the dispatcher knows.
// Callers name an intent and pass entities; free-form model or domain
// arguments are not forwarded upstream.
var erpRequestSchema = gojsonschema.NewStringLoader(`{
	"type": "object",
	"required": ["intent"],
	"additionalProperties": false,
	"properties": {
		"intent": {
			"type": "string",
			"enum": [` + quotedIntentList() + `]
		},
		"entities": {
			"type": "object",
			"additionalProperties": {"type": "string"}
		}
	}
}`)

func quotedIntentList() string {
	quoted := make([]string, len(models.KnownIntents))
	for i, intent := range models.KnownIntents {
		quoted[i] = `"` + intent + `"`
	}
	return strings.Join(quoted, ", ")
}

type erpRequest struct {
	Intent   string            `json:"intent"`
	Entities map[string]string `json:"entities"`
}

// handleERP executes one named operation against the ERP. The request is
// validated against the closed schema before anything touches the gateway.
func (s *Server) handleERP(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, 1<<16))
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "Request body too large or unreadable")
		return
	}

	result, err := gojsonschema.Validate(erpRequestSchema, gojsonschema.NewBytesLoader(body))
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}
	if !result.Valid() {
		details := make([]string, 0, len(result.Errors()))
		for _, desc := range result.Errors() {
			details = append(details, desc.String())
		}
		writeJSON(w, http.StatusBadRequest, map[string]interface{}{
			"error":   "Request does not match any supported operation",
			"details": details,
		})
		return
	}

	var req erpRequest
	if err := json.Unmarshal(body, &req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	sess, _ := sessionFromContext(r.Context())
	resp := s.dispatcher.Process(r.Context(), sess.Token, sess.Username, &models.ParsedQuery{
		Intent:     req.Intent,
		Entities:   req.Entities,
		Confidence: 1.0,
	})
	writeJSON(w, http.StatusOK, resp)
}
