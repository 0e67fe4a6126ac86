// internal/dispatch/dispatcher.go
package dispatch

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"workorder-assistant/internal/common/errors"
	"workorder-assistant/internal/common/logger"
	"workorder-assistant/internal/common/metrics"
	"workorder-assistant/internal/models"
	"workorder-assistant/internal/nlp"
	"workorder-assistant/internal/report"
	"workorder-assistant/internal/workorder"
)

// UnknownIntentResponse is the fixed reply for queries the model could
// not classify confidently. It is returned before any gateway call.
const UnknownIntentResponse = "The app is under modification. Please look for what you need manually"

// PermissionDeniedResponse is the reply for callers the authorizer rejects.
const PermissionDeniedResponse = "Permission denied."

// Authorizer decides whether a user may run an intent.
type Authorizer interface {
	Authorized(ctx context.Context, username, intent string) bool
}

// AllowAll authorizes every request. Used where the surrounding surface
// already authenticated the caller.
type AllowAll struct{}

func (AllowAll) Authorized(ctx context.Context, username, intent string) bool { return true }

// Notifier receives one audit record per processed turn. Implementations
// must not block the response path.
type Notifier interface {
	Record(ctx context.Context, entry *models.QueryLog)
}

// Response is one completed conversational turn. Result carries the
// structured lookup result behind the formatted text so API callers and
// the audit trail get the raw data, not only the rendering.
type Response struct {
	Text             string      `json:"response"`
	Intent           string      `json:"intent"`
	Success          bool        `json:"success"`
	Result           interface{} `json:"result,omitempty"`
	ErrorCode        string      `json:"error_code,omitempty"`
	ProcessingTimeMs int64       `json:"processing_time_ms"`
}

// handler answers one intent: the structured result plus its body text
// on success, error otherwise. needsHeader marks the work-order-scoped
// intents that carry the summary header above their body.
type handler struct {
	needsHeader bool
	run         func(ctx context.Context, parsed *models.ParsedQuery) (interface{}, string, error)
}

// Dispatcher routes parsed queries to their intent handlers through a
// closed registry, gates them behind the authorizer, and reports every
// turn to the audit notifier.
type Dispatcher struct {
	resolver nlp.Resolver
	svc      *workorder.Service
	composer *report.Composer
	auth     Authorizer
	notifier Notifier
	log      logger.Logger

	registry map[string]handler
}

func NewDispatcher(resolver nlp.Resolver, svc *workorder.Service, composer *report.Composer,
	auth Authorizer, notifier Notifier, log logger.Logger) *Dispatcher {

	d := &Dispatcher{
		resolver: resolver,
		svc:      svc,
		composer: composer,
		auth:     auth,
		notifier: notifier,
		log:      log,
	}
	d.registry = map[string]handler{
		models.IntentWorkOrderDetails:   {needsHeader: true, run: d.runDetails},
		models.IntentWorkOrderFinances:  {needsHeader: true, run: d.runFinances},
		models.IntentWorkOrderPapers:    {needsHeader: true, run: d.runPapers},
		models.IntentTimeTaken:          {needsHeader: true, run: d.runTime},
		models.IntentGetWorkOrders:      {needsHeader: false, run: d.runListing},
		models.IntentWorkOrderEmployees: {needsHeader: true, run: d.runEmployees},
	}
	return d
}

// ProcessText runs a complete turn: NLP resolution, authorization,
// intent dispatch, report composition, and audit. Panics inside a
// handler degrade to the apology response instead of killing the turn.
func (d *Dispatcher) ProcessText(ctx context.Context, sessionID, username, text string) *Response {
	start := time.Now()

	parsed, err := d.resolver.Resolve(ctx, text)
	if err != nil {
		std := errors.Normalize(err)
		d.log.WithError(err).Error("nlp resolution failed", map[string]interface{}{"query": text})
		resp := &Response{
			Text:      UnknownIntentResponse,
			Intent:    models.IntentUnknown,
			Success:   false,
			ErrorCode: string(std.Code),
		}
		d.finish(ctx, sessionID, text, parsed, resp, start)
		return resp
	}

	return d.process(ctx, sessionID, username, parsed, start)
}

// Process dispatches an already-parsed query.
func (d *Dispatcher) Process(ctx context.Context, sessionID, username string, parsed *models.ParsedQuery) *Response {
	return d.process(ctx, sessionID, username, parsed, time.Now())
}

func (d *Dispatcher) process(ctx context.Context, sessionID, username string, parsed *models.ParsedQuery, start time.Time) (resp *Response) {
	defer func() {
		if r := recover(); r != nil {
			d.log.Error("handler panicked", map[string]interface{}{
				"intent": parsed.Intent,
				"panic":  fmt.Sprint(r),
			})
			resp = &Response{
				Text:      UnknownIntentResponse,
				Intent:    parsed.Intent,
				Success:   false,
				ErrorCode: string(errors.ErrCodeInternal),
			}
		}
		d.finish(ctx, sessionID, parsed.OriginalText, parsed, resp, start)
	}()

	if parsed.Intent == models.IntentUnknown {
		return &Response{
			Text:      UnknownIntentResponse,
			Intent:    models.IntentUnknown,
			Success:   false,
			ErrorCode: string(errors.ErrCodeInvalidIntent),
		}
	}

	if !d.auth.Authorized(ctx, username, parsed.Intent) {
		d.log.Warn("intent not authorized", map[string]interface{}{
			"username": username,
			"intent":   parsed.Intent,
		})
		return &Response{
			Text:      PermissionDeniedResponse,
			Intent:    parsed.Intent,
			Success:   false,
			ErrorCode: string(errors.ErrCodePermissionDenied),
		}
	}

	h, ok := d.registry[parsed.Intent]
	if !ok {
		return &Response{
			Text:      UnknownIntentResponse,
			Intent:    parsed.Intent,
			Success:   false,
			ErrorCode: string(errors.ErrCodeInvalidIntent),
		}
	}

	result, body, err := h.run(ctx, parsed)
	if err != nil {
		std := errors.Normalize(err)
		return &Response{
			Text:      std.Message,
			Intent:    parsed.Intent,
			Success:   false,
			ErrorCode: string(std.Code),
		}
	}

	text := body
	if h.needsHeader {
		// A failed header read degrades to the bare body; the turn
		// still succeeds on the strength of the intent result.
		header, headerErr := d.svc.Header(ctx, d.workOrderRef(parsed))
		if headerErr != nil {
			d.log.WithError(headerErr).Warn("header lookup failed", map[string]interface{}{
				"intent": parsed.Intent,
			})
			header = nil
		}
		text = d.composer.Compose(parsed.Intent, header, body)
	}

	return &Response{
		Text:    text,
		Intent:  parsed.Intent,
		Success: true,
		Result:  result,
	}
}

// finish stamps the processing time, records metrics, and hands the turn
// to the audit notifier off the response path.
func (d *Dispatcher) finish(ctx context.Context, sessionID, text string, parsed *models.ParsedQuery, resp *Response, start time.Time) {
	if resp == nil {
		return
	}
	resp.ProcessingTimeMs = time.Since(start).Milliseconds()

	intent := models.IntentUnknown
	if parsed != nil {
		intent = parsed.Intent
	}

	metrics.QueriesProcessed.WithLabelValues(intent).Inc()
	metrics.QueryDuration.WithLabelValues(intent).Observe(time.Since(start).Seconds())
	if !resp.Success {
		metrics.QueriesFailed.WithLabelValues(intent, resp.ErrorCode).Inc()
	}

	if d.notifier == nil {
		return
	}

	entities := "{}"
	if parsed != nil && parsed.Entities != nil {
		if data, err := json.Marshal(parsed.Entities); err == nil {
			entities = string(data)
		}
	}

	erpResult := ""
	if resp.Result != nil {
		if data, err := json.Marshal(resp.Result); err == nil {
			erpResult = string(data)
		}
	}

	errorMessage := ""
	if !resp.Success {
		errorMessage = resp.Text
	}

	d.notifier.Record(ctx, &models.QueryLog{
		SessionID:        sessionID,
		UserQuery:        text,
		Intent:           intent,
		Entities:         entities,
		ResponseText:     resp.Text,
		ErpResult:        erpResult,
		Success:          resp.Success,
		ErrorCode:        resp.ErrorCode,
		ErrorMessage:     errorMessage,
		ProcessingTimeMs: resp.ProcessingTimeMs,
		CreatedAt:        time.Now().UTC(),
	})
}

// workOrderRef pulls the reference entity, falling back to scanning the
// raw query when the model tagged nothing.
func (d *Dispatcher) workOrderRef(parsed *models.ParsedQuery) string {
	if ref := parsed.Entity("wo_ref_no"); ref != "" {
		return ref
	}
	return nlp.ExtractWorkOrderRef(parsed.OriginalText)
}

func (d *Dispatcher) runDetails(ctx context.Context, parsed *models.ParsedQuery) (interface{}, string, error) {
	result, err := d.svc.Details(ctx, d.workOrderRef(parsed), parsed.Entity("required"))
	if err != nil {
		return nil, "", err
	}
	return result, d.composer.Details(result), nil
}

func (d *Dispatcher) runFinances(ctx context.Context, parsed *models.ParsedQuery) (interface{}, string, error) {
	result, err := d.svc.Finances(ctx, d.workOrderRef(parsed), parsed.Entity("required"))
	if err != nil {
		return nil, "", err
	}
	return result, d.composer.Finances(result), nil
}

func (d *Dispatcher) runPapers(ctx context.Context, parsed *models.ParsedQuery) (interface{}, string, error) {
	result, err := d.svc.Papers(ctx, d.workOrderRef(parsed), parsed.Entity("required"))
	if err != nil {
		return nil, "", err
	}
	return result, d.composer.Papers(result), nil
}

func (d *Dispatcher) runTime(ctx context.Context, parsed *models.ParsedQuery) (interface{}, string, error) {
	result, err := d.svc.Time(ctx, d.workOrderRef(parsed), parsed.Entity("required"))
	if err != nil {
		return nil, "", err
	}
	return result, d.composer.Time(result), nil
}

func (d *Dispatcher) runListing(ctx context.Context, parsed *models.ParsedQuery) (interface{}, string, error) {
	// Listing filters are positional: every entity value is a candidate.
	// Keys are sorted so the filter cascade tries them in a stable order.
	keys := make([]string, 0, len(parsed.Entities))
	for k := range parsed.Entities {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	values := make([]string, 0, len(keys))
	for _, k := range keys {
		values = append(values, parsed.Entities[k])
	}
	result, err := d.svc.List(ctx, values)
	if err != nil {
		return nil, "", err
	}
	return result, d.composer.WorkOrders(result), nil
}

func (d *Dispatcher) runEmployees(ctx context.Context, parsed *models.ParsedQuery) (interface{}, string, error) {
	result, err := d.svc.Employees(ctx, d.workOrderRef(parsed), parsed.Entity("required"))
	if err != nil {
		return nil, "", err
	}
	return result, d.composer.Employees(result), nil
}
