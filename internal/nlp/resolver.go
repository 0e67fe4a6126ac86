// internal/nlp/resolver.go
package nlp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"workorder-assistant/internal/common/config"
	"workorder-assistant/internal/common/errors"
	commonhttp "workorder-assistant/internal/common/http"
	"workorder-assistant/internal/common/logger"
	"workorder-assistant/internal/models"
)

// Resolver turns raw user text into an intent plus extracted entities.
type Resolver interface {
	Resolve(ctx context.Context, text string) (*models.ParsedQuery, error)
}

// parseResponse mirrors the Rasa-style /model/parse payload.
type parseResponse struct {
	Intent struct {
		Name       string  `json:"name"`
		Confidence float64 `json:"confidence"`
	} `json:"intent"`
	Entities []struct {
		Entity string `json:"entity"`
		Value  string `json:"value"`
	} `json:"entities"`
	Text string `json:"text"`
}

// HTTPResolver calls an external NLP model server.
type HTTPResolver struct {
	cfg        config.NLPConfig
	httpClient *commonhttp.Client
	log        logger.Logger
}

func NewHTTPResolver(cfg config.NLPConfig, log logger.Logger) *HTTPResolver {
	return &HTTPResolver{
		cfg:        cfg,
		httpClient: commonhttp.NewClient(time.Duration(cfg.Timeout) * time.Millisecond),
		log:        log,
	}
}

// Resolve classifies the text. Results below the confidence threshold
// collapse to the unknown intent so the caller never acts on a guess.
func (r *HTTPResolver) Resolve(ctx context.Context, text string) (*models.ParsedQuery, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return &models.ParsedQuery{
			Intent:       models.IntentUnknown,
			Entities:     map[string]string{},
			OriginalText: text,
		}, nil
	}

	payload, err := json.Marshal(map[string]string{"text": trimmed})
	if err != nil {
		return nil, errors.NewInternalError(err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.cfg.ParseURL, bytes.NewReader(payload))
	if err != nil {
		return nil, errors.NewInternalError(err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.httpClient.Do(req)
	if err != nil {
		r.log.WithError(err).Error("nlp parse request failed", nil)
		return nil, errors.NewNLPUnavailableError(err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.NewNLPUnavailableError(err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, errors.NewNLPUnavailableError(fmt.Errorf("parse endpoint returned status %d", resp.StatusCode))
	}

	var parsed parseResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, errors.NewNLPUnavailableError(fmt.Errorf("failed to decode parse response: %w", err))
	}

	result := &models.ParsedQuery{
		Intent:       parsed.Intent.Name,
		Entities:     map[string]string{},
		OriginalText: trimmed,
		Confidence:   parsed.Intent.Confidence,
	}
	for _, e := range parsed.Entities {
		result.Entities[e.Entity] = e.Value
	}

	if result.Intent == "" || parsed.Intent.Confidence < r.cfg.ConfidenceThreshold {
		r.log.Debug("intent below confidence threshold", map[string]interface{}{
			"intent":     result.Intent,
			"confidence": parsed.Intent.Confidence,
		})
		result.Intent = models.IntentUnknown
	}

	return result, nil
}
