// internal/workorder/papers_test.go
package workorder

import (
	"context"
	"testing"

	"workorder-assistant/internal/erp"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func papersGateway(withAttachments bool) *mockGateway {
	return &mockGateway{
		searchFn: func(resource string, domain []interface{}) ([]int64, error) {
			switch resource {
			case resourceProject:
				return []int64{10}, nil
			case resourceAttachment:
				if withAttachments {
					return []int64{61}, nil
				}
				return nil, nil
			case resourceInvoice:
				return []int64{51}, nil
			case resourcePOLine:
				return []int64{21}, nil
			}
			return nil, nil
		},
		readFn: func(resource string, ids []int64, fields []string) ([]erp.Record, error) {
			switch resource {
			case resourceAttachment:
				return []erp.Record{{
					"id":       float64(61),
					"name":     "contract.pdf",
					"mimetype": "application/pdf",
				}}, nil
			case resourceInvoice:
				return []erp.Record{{
					"id":            float64(51),
					"name":          "INV/2024/0051",
					"invoice_date":  "2024-02-01",
					"amount_total":  2500.0,
					"partner_id":    rel(8, "Acme LLC"),
					"client":        "Acme LLC",
					"payment_state": "paid",
				}}, nil
			case resourcePOLine:
				return []erp.Record{{
					"order_id":       rel(21, "P00021"),
					"create_date":    "2024-03-01 10:00:00",
					"create_uid":     rel(2, "Admin"),
					"partner_id":     rel(8, "Gulf Supplies"),
					"price_subtotal": 950.0,
					"price_tax":      47.5,
					"price_total":    997.5,
				}}, nil
			}
			return nil, nil
		},
	}
}

func TestService_Papers_AllGroups(t *testing.T) {
	svc := newTestService(papersGateway(true))

	result, err := svc.Papers(context.Background(), "WO/2024/0010", "")

	require.NoError(t, err)
	require.NotNil(t, result.Attachments)
	require.NotNil(t, result.Invoices)
	require.NotNil(t, result.PurchaseOrders)

	assert.Equal(t, 1, result.Attachments.Count)
	assert.Equal(t, "contract.pdf", result.Attachments.Items[0].Name)
	assert.Equal(t, 1, result.Invoices.Count)
	assert.Equal(t, 1, result.PurchaseOrders.Count)
}

func TestService_Papers_SelectorExcludesGroups(t *testing.T) {
	gw := papersGateway(true)
	svc := newTestService(gw)

	result, err := svc.Papers(context.Background(), "WO/2024/0010", "attachments")

	require.NoError(t, err)
	require.NotNil(t, result.Attachments)

	// Excluded groups are nil, not empty, and their queries never fire.
	assert.Nil(t, result.Invoices)
	assert.Nil(t, result.PurchaseOrders)
	assert.Equal(t, 0, gw.callsFor("search", resourceInvoice))
	assert.Equal(t, 0, gw.callsFor("search", resourcePOLine))
}

func TestService_Papers_EmptyGroupIsPresent(t *testing.T) {
	svc := newTestService(papersGateway(false))

	result, err := svc.Papers(context.Background(), "WO/2024/0010", "attachments")

	require.NoError(t, err)
	require.NotNil(t, result.Attachments)
	assert.Equal(t, 0, result.Attachments.Count)
	assert.Empty(t, result.Attachments.Items)
}

func TestPapersGroups_SelectorAliases(t *testing.T) {
	tests := []struct {
		selector string
		atts     bool
		invs     bool
		pos      bool
	}{
		{"attachments", true, false, false},
		{"attachment", true, false, false},
		{"invoices", false, true, false},
		{"pos", false, false, true},
		{"lpo", false, false, true},
		{"purchase orders", false, false, true},
		{"", true, true, true},
		{"everything", true, true, true},
	}

	for _, tt := range tests {
		t.Run(tt.selector, func(t *testing.T) {
			atts, invs, pos := papersGroups(tt.selector)
			assert.Equal(t, tt.atts, atts)
			assert.Equal(t, tt.invs, invs)
			assert.Equal(t, tt.pos, pos)
		})
	}
}
