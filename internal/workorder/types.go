// internal/workorder/types.go
package workorder

// Header carries the identifying fields shown at the top of most reports.
type Header struct {
	ID         int64   `json:"id"`
	Name       string  `json:"name"`
	ClientName string  `json:"client_name"`
	Contract   string  `json:"contract"`
	Amount     float64 `json:"wo_amount"`
	City       string  `json:"city"`
	Type       string  `json:"wo_type"`
	CreatedOn  string  `json:"create_date"`
	CreatedBy  string  `json:"create_uid"`
}

// PurchaseOrder is one purchase order line attached to a work order.
type PurchaseOrder struct {
	OrderRef  string  `json:"order_ref"`
	Vendor    string  `json:"vendor"`
	Subtotal  float64 `json:"price_subtotal"`
	Tax       float64 `json:"price_tax"`
	Total     float64 `json:"price_total"`
	State     string  `json:"state,omitempty"`
	CreatedOn string  `json:"create_date"`
	CreatedBy string  `json:"create_uid"`
}

// Invoice is one customer or vendor invoice attached to a work order.
type Invoice struct {
	ID           int64   `json:"id"`
	Number       string  `json:"number"`
	Date         string  `json:"invoice_date"`
	Vendor       string  `json:"vendor"`
	Client       string  `json:"client"`
	PaymentState string  `json:"payment_state"`
	Total        float64 `json:"amount_total"`
}

// Distribution is the budgeted engineering spend split by discipline.
// TotalEng is always the sum of the four discipline amounts.
type Distribution struct {
	ProjectEng    float64 `json:"project_eng_amount"`
	MechanicalEng float64 `json:"mechanical_eng_amount"`
	ElectricalEng float64 `json:"electrical_eng_amount"`
	ITEng         float64 `json:"it_eng_amount"`
	TotalEng      float64 `json:"total_eng_amount"`
}

// FinanceMode tags which finance branch a result carries, so the
// composer never has to infer it from zero-vs-absent field values.
type FinanceMode string

const (
	FinanceModeFull         FinanceMode = "full"
	FinanceModeExpense      FinanceMode = "expense"
	FinanceModeCost         FinanceMode = "cost"
	FinanceModeProfit       FinanceMode = "profit"
	FinanceModeDistribution FinanceMode = "distribution"
)

// Verdict labels whether engineering spend stayed within the order amount.
const (
	VerdictGain = "GAIN"
	VerdictLoss = "LOSS"
)

// FinanceResult is the output of the finances query. Which fields are
// populated depends on Mode; nil pointers mean the branch excluded them.
type FinanceResult struct {
	Mode           FinanceMode     `json:"mode"`
	PurchaseOrders []PurchaseOrder `json:"purchase_orders,omitempty"`
	PettyCashTotal float64         `json:"petty_cash_total"`
	TimesheetTotal float64         `json:"timesheet_total"`
	Cost           *float64        `json:"cost,omitempty"`
	Verdict        string          `json:"profit,omitempty"`
	Distribution   *Distribution   `json:"distribution,omitempty"`
}

// Timeline carries scheduling fields plus the assigned manager.
type Timeline struct {
	StartDate      string  `json:"start_date"`
	EndDate        string  `json:"end_date"`
	Duration       float64 `json:"duration"`
	ProjectManager string  `json:"project_manager"`
}

// DetailsMode tags which details branch a result carries.
type DetailsMode string

const (
	DetailsModeFull     DetailsMode = "full"
	DetailsModeTimeline DetailsMode = "details"
	DetailsModePaid     DetailsMode = "paid"
	DetailsModeUnpaid   DetailsMode = "unpaid"
)

// DetailsResult is the output of the details query.
type DetailsResult struct {
	Mode           DetailsMode     `json:"mode"`
	Timeline       *Timeline       `json:"details,omitempty"`
	PurchaseOrders []PurchaseOrder `json:"purchase_orders,omitempty"`
	Invoices       []Invoice       `json:"invoices,omitempty"`
	Balance        *float64        `json:"balance,omitempty"`
}

// Attachment is one stored document linked to a work order.
type Attachment struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	MimeType string `json:"mimetype"`
}

// AttachmentGroup bundles a document group with its count.
type AttachmentGroup struct {
	Count int          `json:"count"`
	Items []Attachment `json:"items"`
}

type InvoiceGroup struct {
	Count int       `json:"count"`
	Items []Invoice `json:"items"`
}

type PurchaseOrderGroup struct {
	Count int             `json:"count"`
	Items []PurchaseOrder `json:"items"`
}

// PapersResult groups the paperwork of a work order. A nil group means
// the selector excluded it; an empty group means nothing was found.
type PapersResult struct {
	Attachments    *AttachmentGroup    `json:"attachments,omitempty"`
	Invoices       *InvoiceGroup       `json:"invoices,omitempty"`
	PurchaseOrders *PurchaseOrderGroup `json:"purchase_orders,omitempty"`
}

// TimeResult carries only the timing fields the selector asked for.
type TimeResult struct {
	StartDate *string  `json:"start_date,omitempty"`
	EndDate   *string  `json:"end_date,omitempty"`
	Duration  *float64 `json:"duration,omitempty"`
}

// Employee is one person assigned to a work order role.
type Employee struct {
	Role     string `json:"role"`
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Position string `json:"position"`
}

// EmployeesResult lists the assigned staff for the requested roles.
type EmployeesResult struct {
	Employees []Employee `json:"employees"`
}

// WorkOrderSummary is one row of a listing result.
type WorkOrderSummary struct {
	Ref  string `json:"wo_ref_no"`
	Name string `json:"name"`
}

// ListingResult is the output of the listing query.
type ListingResult struct {
	WorkOrders []WorkOrderSummary `json:"work_orders"`
	Count      int                `json:"count"`
}
