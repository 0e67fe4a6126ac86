// internal/workorder/details.go
package workorder

import (
	"context"

	"workorder-assistant/internal/common/errors"
	"workorder-assistant/internal/erp"
)

func detailsMode(selector string) DetailsMode {
	switch normalizeSelector(selector) {
	case "details":
		return DetailsModeTimeline
	case "paid":
		return DetailsModePaid
	case "unpaid", "unfinished":
		return DetailsModeUnpaid
	}
	return DetailsModeFull
}

// Details answers the details query: project timeline, attached purchase
// orders and invoices, optionally filtered by payment status, and for
// the full branch the remaining balance against the order amount.
func (s *Service) Details(ctx context.Context, ref, selector string) (*DetailsResult, error) {
	id, err := s.resolveRef(ctx, ref)
	if err != nil {
		return nil, err
	}

	mode := detailsMode(selector)

	recs, err := s.gw.Read(ctx, resourceProject, []int64{id}, []string{
		"id", "name", "wo_amount", "partner_id",
		"date_start", "date", "estimated_duration", "user_id",
	})
	if err != nil {
		return nil, err
	}
	if len(recs) == 0 {
		return nil, errors.NewWorkOrderNotFoundError(ref)
	}
	proj := recs[0]

	timeline := &Timeline{
		StartDate:      proj.Str("date_start"),
		EndDate:        proj.Str("date"),
		Duration:       proj.Float("estimated_duration"),
		ProjectManager: proj.RelName("user_id"),
	}

	result := &DetailsResult{Mode: mode}

	if mode == DetailsModeTimeline {
		result.Timeline = timeline
		return result, nil
	}

	pos, err := s.fetchPurchaseOrdersWithState(ctx, id)
	if err != nil {
		return nil, err
	}

	invs, err := s.fetchInvoices(ctx, id, nil)
	if err != nil {
		return nil, err
	}

	switch mode {
	case DetailsModePaid:
		result.PurchaseOrders = filterPOsByState(pos, "purchase", "done")
		result.Invoices = filterInvoicesByPayment(invs, "paid", "partial")

	case DetailsModeUnpaid:
		result.PurchaseOrders = filterPOsByState(pos, "to approve", "approved")
		result.Invoices = filterInvoicesByPayment(invs, "not_paid", "in_payment")

	default:
		balance := proj.Float("wo_amount")
		for _, po := range pos {
			balance -= po.Total
		}
		result.Timeline = timeline
		result.PurchaseOrders = pos
		result.Invoices = invs
		result.Balance = &balance
	}

	return result, nil
}

func (s *Service) fetchPurchaseOrdersWithState(ctx context.Context, projectID int64) ([]PurchaseOrder, error) {
	ids, err := s.gw.Search(ctx, resourcePOLine, []interface{}{
		[]interface{}{"project_id", "=", projectID},
	})
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return nil, nil
	}

	recs, err := s.gw.Read(ctx, resourcePOLine, ids, []string{
		"order_id", "partner_id", "price_total", "state",
	})
	if err != nil {
		return nil, err
	}

	return decodePOLines(recs, true), nil
}

// fetchInvoices reads the invoices of a project. extraDomain narrows the
// search beyond the project link.
func (s *Service) fetchInvoices(ctx context.Context, projectID int64, extraDomain []interface{}) ([]Invoice, error) {
	domain := []interface{}{
		[]interface{}{"project", "=", projectID},
	}
	domain = append(domain, extraDomain...)

	ids, err := s.gw.Search(ctx, resourceInvoice, domain)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return nil, nil
	}

	recs, err := s.gw.Read(ctx, resourceInvoice, ids, []string{
		"id", "name", "invoice_date", "amount_total",
		"partner_id", "client", "payment_state",
	})
	if err != nil {
		return nil, err
	}

	invs := make([]Invoice, 0, len(recs))
	for _, rec := range recs {
		invs = append(invs, decodeInvoice(rec))
	}
	return invs, nil
}

func decodeInvoice(rec erp.Record) Invoice {
	return Invoice{
		ID:           rec.Int("id"),
		Number:       rec.Str("name"),
		Date:         rec.Str("invoice_date"),
		Vendor:       rec.RelName("partner_id"),
		Client:       rec.Str("client"),
		PaymentState: rec.Str("payment_state"),
		Total:        rec.Float("amount_total"),
	}
}

func filterPOsByState(pos []PurchaseOrder, states ...string) []PurchaseOrder {
	var out []PurchaseOrder
	for _, po := range pos {
		for _, st := range states {
			if po.State == st {
				out = append(out, po)
				break
			}
		}
	}
	return out
}

func filterInvoicesByPayment(invs []Invoice, states ...string) []Invoice {
	var out []Invoice
	for _, inv := range invs {
		for _, st := range states {
			if inv.PaymentState == st {
				out = append(out, inv)
				break
			}
		}
	}
	return out
}
