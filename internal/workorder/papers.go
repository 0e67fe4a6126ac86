// internal/workorder/papers.go
package workorder

import "context"

// papersGroups resolves the selector to the paperwork groups it names.
// Nothing recognized means all three.
func papersGroups(selector string) (attachments, invoices, pos bool) {
	switch normalizeSelector(selector) {
	case "attachments", "attachment":
		attachments = true
	case "invoices", "invoice":
		invoices = true
	case "pos", "purchase orders", "lpo", "lpos":
		pos = true
	}
	if !attachments && !invoices && !pos {
		return true, true, true
	}
	return attachments, invoices, pos
}

// Papers answers the paperwork query: the attachments, posted invoices,
// and purchase order lines of a work order, each with its count. Groups
// the selector excluded stay nil so rendering can omit them entirely.
func (s *Service) Papers(ctx context.Context, ref, selector string) (*PapersResult, error) {
	id, err := s.resolveRef(ctx, ref)
	if err != nil {
		return nil, err
	}

	wantAtts, wantInvs, wantPOs := papersGroups(selector)
	result := &PapersResult{}

	if wantAtts {
		atts, err := s.fetchAttachments(ctx, id)
		if err != nil {
			return nil, err
		}
		result.Attachments = &AttachmentGroup{Count: len(atts), Items: atts}
	}

	if wantInvs {
		invs, err := s.fetchInvoices(ctx, id, []interface{}{
			[]interface{}{"invoice_type", "=", "done"},
		})
		if err != nil {
			return nil, err
		}
		result.Invoices = &InvoiceGroup{Count: len(invs), Items: invs}
	}

	if wantPOs {
		pos, err := s.fetchAllPurchaseOrders(ctx, id)
		if err != nil {
			return nil, err
		}
		result.PurchaseOrders = &PurchaseOrderGroup{Count: len(pos), Items: pos}
	}

	return result, nil
}

func (s *Service) fetchAttachments(ctx context.Context, projectID int64) ([]Attachment, error) {
	ids, err := s.gw.Search(ctx, resourceAttachment, []interface{}{
		[]interface{}{"res_model", "=", resourceProject},
		[]interface{}{"res_id", "=", projectID},
	})
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return nil, nil
	}

	recs, err := s.gw.Read(ctx, resourceAttachment, ids, []string{"id", "name", "mimetype"})
	if err != nil {
		return nil, err
	}

	atts := make([]Attachment, 0, len(recs))
	for _, rec := range recs {
		atts = append(atts, Attachment{
			ID:       rec.Int("id"),
			Name:     rec.Str("name"),
			MimeType: rec.Str("mimetype"),
		})
	}
	return atts, nil
}

// fetchAllPurchaseOrders reads every PO line regardless of order state.
func (s *Service) fetchAllPurchaseOrders(ctx context.Context, projectID int64) ([]PurchaseOrder, error) {
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
		"order_id", "create_date", "create_uid",
		"partner_id", "price_subtotal", "price_tax", "price_total",
	})
	if err != nil {
		return nil, err
	}

	return decodePOLines(recs, false), nil
}
