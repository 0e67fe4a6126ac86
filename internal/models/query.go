// internal/models/query.go
package models

// Intent labels produced by the NLP resolver.
const (
	IntentWorkOrderDetails   = "work_order_details"
	IntentWorkOrderFinances  = "work_order_finances"
	IntentWorkOrderPapers    = "work_order_papers"
	IntentTimeTaken          = "time_taken"
	IntentGetWorkOrders      = "get_work_orders"
	IntentWorkOrderEmployees = "work_order_employees"
	IntentUnknown            = "unknown"
)

// KnownIntents lists every intent the dispatcher can route.
var KnownIntents = []string{
	IntentWorkOrderDetails,
	IntentWorkOrderFinances,
	IntentWorkOrderPapers,
	IntentTimeTaken,
	IntentGetWorkOrders,
	IntentWorkOrderEmployees,
}

// ParsedQuery is the structured result of NLP inference on a raw user query.
type ParsedQuery struct {
	Intent       string            `json:"intent"`
	Entities     map[string]string `json:"entities"`
	OriginalText string            `json:"original_query"`
	Confidence   float64           `json:"confidence"`
}

// Entity returns the named entity value, or "" if absent.
func (p *ParsedQuery) Entity(name string) string {
	if p.Entities == nil {
		return ""
	}
	return p.Entities[name]
}

// HasEntity reports whether the named entity was extracted.
func (p *ParsedQuery) HasEntity(name string) bool {
	if p.Entities == nil {
		return false
	}
	_, ok := p.Entities[name]
	return ok
}
