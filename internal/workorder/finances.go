// internal/workorder/finances.go
package workorder

import (
	"context"
	"math"
	"strconv"

	"workorder-assistant/internal/common/errors"
	"workorder-assistant/internal/erp"
)

// financeMode maps the selector keyword to its branch. Anything else
// falls back to the full result.
func financeMode(selector string) FinanceMode {
	switch normalizeSelector(selector) {
	case "expense", "expenses":
		return FinanceModeExpense
	case "cost":
		return FinanceModeCost
	case "profit":
		return FinanceModeProfit
	case "distribution":
		return FinanceModeDistribution
	}
	return FinanceModeFull
}

// Finances answers the finances query for one work order. The selector
// picks which of the expense, cost, profit, or distribution branches is
// populated; the mode tag travels with the result so downstream
// rendering never infers it from field presence.
func (s *Service) Finances(ctx context.Context, ref, selector string) (*FinanceResult, error) {
	id, err := s.resolveRef(ctx, ref)
	if err != nil {
		return nil, err
	}
	return s.FinancesByID(ctx, id, selector)
}

// FinancesByID is Finances for callers that already hold the project ID.
func (s *Service) FinancesByID(ctx context.Context, id int64, selector string) (*FinanceResult, error) {
	mode := financeMode(selector)

	recs, err := s.gw.Read(ctx, resourceProject, []int64{id}, []string{
		"id", "wo_amount", "analytic_account_id",
		"project_eng_amount", "mechanical_eng_amount",
		"electrical_eng_amount", "it_eng_amount",
	})
	if err != nil {
		return nil, err
	}
	if len(recs) == 0 {
		return nil, errors.NewWorkOrderNotFoundError(strconv.FormatInt(id, 10))
	}
	proj := recs[0]

	dist := &Distribution{
		ProjectEng:    proj.Float("project_eng_amount"),
		MechanicalEng: proj.Float("mechanical_eng_amount"),
		ElectricalEng: proj.Float("electrical_eng_amount"),
		ITEng:         proj.Float("it_eng_amount"),
	}
	dist.TotalEng = dist.ProjectEng + dist.MechanicalEng + dist.ElectricalEng + dist.ITEng

	cost := proj.Float("wo_amount")
	verdict := VerdictGain
	if dist.TotalEng > cost {
		verdict = VerdictLoss
	}

	result := &FinanceResult{Mode: mode}

	switch mode {
	case FinanceModeCost:
		result.Cost = &cost
		return result, nil

	case FinanceModeProfit:
		result.Verdict = verdict
		result.Distribution = dist
		return result, nil

	case FinanceModeDistribution:
		result.Distribution = dist
		return result, nil
	}

	// Expense and full branches need the spend sub-queries.
	pos, err := s.fetchApprovedPurchaseOrders(ctx, id)
	if err != nil {
		return nil, err
	}
	result.PurchaseOrders = pos

	petty, err := s.fetchPettyCashTotal(ctx, proj.RelID("analytic_account_id"))
	if err != nil {
		return nil, err
	}
	result.PettyCashTotal = petty

	ts, err := s.fetchTimesheetTotal(ctx, id)
	if err != nil {
		return nil, err
	}
	result.TimesheetTotal = ts

	if mode == FinanceModeFull {
		result.Cost = &cost
		result.Verdict = verdict
		result.Distribution = dist
	}

	return result, nil
}

// fetchApprovedPurchaseOrders reads the PO lines of completed orders.
func (s *Service) fetchApprovedPurchaseOrders(ctx context.Context, projectID int64) ([]PurchaseOrder, error) {
	ids, err := s.gw.Search(ctx, resourcePOLine, []interface{}{
		[]interface{}{"project_id", "=", projectID},
		[]interface{}{"order_id.state", "=", "done"},
	})
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return nil, nil
	}

	recs, err := s.gw.Read(ctx, resourcePOLine, ids, []string{
		"order_id", "create_date", "create_uid",
		"partner_id", "price_subtotal", "price_tax", "price_total",
	})
	if err != nil {
		return nil, err
	}

	return decodePOLines(recs, false), nil
}

// fetchPettyCashTotal sums validated expense sheets booked against the
// work order's analytic account.
func (s *Service) fetchPettyCashTotal(ctx context.Context, analyticAccountID int64) (float64, error) {
	if analyticAccountID == 0 {
		return 0, nil
	}

	ids, err := s.gw.Search(ctx, resourceExpense, []interface{}{
		[]interface{}{"analytic_account_id", "=", analyticAccountID},
		[]interface{}{"sheet_id.state", "=", "done"},
	})
	if err != nil {
		return 0, err
	}
	if len(ids) == 0 {
		return 0, nil
	}

	recs, err := s.gw.Read(ctx, resourceExpense, ids, []string{"amount"})
	if err != nil {
		return 0, err
	}

	total := 0.0
	for _, rec := range recs {
		total += rec.Float("amount")
	}
	return total, nil
}

// fetchTimesheetTotal sums the analytic lines of the project. Timesheet
// amounts are booked as negative costs, so the absolute value is the spend.
func (s *Service) fetchTimesheetTotal(ctx context.Context, projectID int64) (float64, error) {
	ids, err := s.gw.Search(ctx, resourceTimesheet, []interface{}{
		[]interface{}{"project_id", "=", projectID},
	})
	if err != nil {
		return 0, err
	}
	if len(ids) == 0 {
		return 0, nil
	}

	recs, err := s.gw.Read(ctx, resourceTimesheet, ids, []string{"amount"})
	if err != nil {
		return 0, err
	}

	total := 0.0
	for _, rec := range recs {
		total += rec.Float("amount")
	}
	return math.Abs(total), nil
}

// decodePOLines maps raw PO line records into PurchaseOrder values.
// withState additionally carries the order state for status filtering.
func decodePOLines(recs []erp.Record, withState bool) []PurchaseOrder {
	pos := make([]PurchaseOrder, 0, len(recs))
	for _, rec := range recs {
		po := PurchaseOrder{
			OrderRef:  rec.RelName("order_id"),
			Vendor:    rec.RelName("partner_id"),
			Subtotal:  rec.Float("price_subtotal"),
			Tax:       rec.Float("price_tax"),
			Total:     rec.Float("price_total"),
			CreatedOn: rec.Str("create_date"),
			CreatedBy: rec.RelName("create_uid"),
		}
		if withState {
			po.State = rec.Str("state")
		}
		pos = append(pos, po)
	}
	return pos
}
