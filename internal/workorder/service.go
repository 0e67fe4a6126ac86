// internal/workorder/service.go
package workorder

import (
	"context"
	"strconv"
	"strings"

	"workorder-assistant/internal/common/errors"
	"workorder-assistant/internal/common/logger"
	"workorder-assistant/internal/erp"
)

// Resource names on the ERP side.
const (
	resourceProject    = "project.project"
	resourcePOLine     = "purchase.order.line"
	resourceExpense    = "hr.expense"
	resourceTimesheet  = "account.analytic.line"
	resourceInvoice    = "account.move"
	resourceAttachment = "ir.attachment"
	resourceEmployee   = "hr.employee"
	resourceUser       = "res.users"
	resourcePartner    = "res.partner"
)

// Service answers the per-intent work order queries. Every method takes
// the work order reference plus the free-text selector narrowing the
// response shape; an unrecognized selector returns everything.
type Service struct {
	gw  erp.Gateway
	log logger.Logger
}

func NewService(gw erp.Gateway, log logger.Logger) *Service {
	return &Service{gw: gw, log: log}
}

// resolveRef maps a work order reference to its backing project ID.
// Matching is case-insensitive. When several records share one ref the
// first search hit wins; zero hits is a not-found error and the caller
// makes no further gateway calls.
func (s *Service) resolveRef(ctx context.Context, ref string) (int64, error) {
	trimmed := strings.TrimSpace(ref)
	if trimmed == "" {
		return 0, errors.NewWorkOrderNotFoundError(ref)
	}

	ids, err := s.gw.Search(ctx, resourceProject, []interface{}{
		[]interface{}{"wo_ref_no", "=ilike", trimmed},
	})
	if err != nil {
		return 0, err
	}
	if len(ids) == 0 {
		s.log.Debug("work order not found", map[string]interface{}{"ref": trimmed})
		return 0, errors.NewWorkOrderNotFoundError(trimmed)
	}

	return ids[0], nil
}

// Header reads the identifying fields rendered at the top of reports.
func (s *Service) Header(ctx context.Context, ref string) (*Header, error) {
	id, err := s.resolveRef(ctx, ref)
	if err != nil {
		return nil, err
	}
	return s.HeaderByID(ctx, id)
}

// HeaderByID is Header for callers that already hold the project ID.
func (s *Service) HeaderByID(ctx context.Context, id int64) (*Header, error) {
	recs, err := s.gw.Read(ctx, resourceProject, []int64{id}, []string{
		"id", "name", "create_date", "create_uid",
		"wo_amount", "partner_id", "agreement_id", "city_id", "wo_type",
	})
	if err != nil {
		return nil, err
	}
	if len(recs) == 0 {
		return nil, errors.NewWorkOrderNotFoundError(strconv.FormatInt(id, 10))
	}

	rec := recs[0]
	return &Header{
		ID:         rec.Int("id"),
		Name:       rec.Str("name"),
		ClientName: rec.RelName("partner_id"),
		Contract:   rec.RelName("agreement_id"),
		Amount:     rec.Float("wo_amount"),
		City:       rec.RelName("city_id"),
		Type:       rec.Str("wo_type"),
		CreatedOn:  rec.Str("create_date"),
		CreatedBy:  rec.RelName("create_uid"),
	}, nil
}

// normalizeSelector lower-cases and trims the free-text selector.
func normalizeSelector(selector string) string {
	return strings.ToLower(strings.TrimSpace(selector))
}
