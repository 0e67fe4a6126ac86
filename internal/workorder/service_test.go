// internal/workorder/service_test.go
package workorder

import (
	"context"
	"testing"

	"workorder-assistant/internal/common/errors"
	"workorder-assistant/internal/common/logger"
	"workorder-assistant/internal/erp"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==========================
// Test Helper Functions
// ==========================

type gatewayCall struct {
	Op       string
	Resource string
	Domain   []interface{}
	IDs      []int64
	Fields   []string
}

// mockGateway records every call and answers from caller-supplied funcs.
type mockGateway struct {
	calls    []gatewayCall
	searchFn func(resource string, domain []interface{}) ([]int64, error)
	readFn   func(resource string, ids []int64, fields []string) ([]erp.Record, error)
}

func (m *mockGateway) Authenticate(ctx context.Context) error { return nil }

func (m *mockGateway) Search(ctx context.Context, resource string, domain []interface{}) ([]int64, error) {
	m.calls = append(m.calls, gatewayCall{Op: "search", Resource: resource, Domain: domain})
	if m.searchFn != nil {
		return m.searchFn(resource, domain)
	}
	return nil, nil
}

func (m *mockGateway) Read(ctx context.Context, resource string, ids []int64, fields []string) ([]erp.Record, error) {
	m.calls = append(m.calls, gatewayCall{Op: "read", Resource: resource, IDs: ids, Fields: fields})
	if m.readFn != nil {
		return m.readFn(resource, ids, fields)
	}
	return nil, nil
}

func (m *mockGateway) callsFor(op, resource string) int {
	n := 0
	for _, c := range m.calls {
		if c.Op == op && c.Resource == resource {
			n++
		}
	}
	return n
}

func newTestService(gw *mockGateway) *Service {
	return NewService(gw, logger.NewNoOpLogger())
}

// rel builds a many2one value as the wire encodes it.
func rel(id int64, name string) []interface{} {
	return []interface{}{float64(id), name}
}

// ==========================
// Reference Resolution Tests
// ==========================

func TestService_ResolveRef_NotFound(t *testing.T) {
	gw := &mockGateway{
		searchFn: func(resource string, domain []interface{}) ([]int64, error) {
			return nil, nil
		},
	}
	svc := newTestService(gw)

	_, err := svc.Finances(context.Background(), "WO/2024/9999", "")

	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeWorkOrderNotFound))
	assert.Contains(t, err.Error(), "WO/2024/9999")

	// Not-found stops the pipeline: the one failed search is the only call.
	assert.Len(t, gw.calls, 1)
}

func TestService_ResolveRef_CaseInsensitive(t *testing.T) {
	gw := &mockGateway{
		searchFn: func(resource string, domain []interface{}) ([]int64, error) {
			filter := domain[0].([]interface{})
			assert.Equal(t, "wo_ref_no", filter[0])
			assert.Equal(t, "=ilike", filter[1])
			return []int64{5}, nil
		},
		readFn: func(resource string, ids []int64, fields []string) ([]erp.Record, error) {
			return []erp.Record{{"id": float64(5), "wo_amount": 100.0}}, nil
		},
	}
	svc := newTestService(gw)

	result, err := svc.Finances(context.Background(), "wo/2024/0042", "cost")

	require.NoError(t, err)
	require.NotNil(t, result.Cost)
	assert.Equal(t, 100.0, *result.Cost)
}

func TestService_ResolveRef_FirstMatchWins(t *testing.T) {
	gw := &mockGateway{
		searchFn: func(resource string, domain []interface{}) ([]int64, error) {
			return []int64{7, 8, 9}, nil
		},
		readFn: func(resource string, ids []int64, fields []string) ([]erp.Record, error) {
			assert.Equal(t, []int64{7}, ids)
			return []erp.Record{{"id": float64(7)}}, nil
		},
	}
	svc := newTestService(gw)

	_, err := svc.Time(context.Background(), "WO/2024/0001", "")

	require.NoError(t, err)
}

// ==========================
// Empty Read Tests
// ==========================

// A Read can legitimately return no records for a valid-looking id, for
// example when the record was deleted between search and read. Every
// service method must surface that as not-found rather than panic.

func TestService_FinancesByID_EmptyRead(t *testing.T) {
	gw := &mockGateway{
		readFn: func(resource string, ids []int64, fields []string) ([]erp.Record, error) {
			return nil, nil
		},
	}
	svc := newTestService(gw)

	_, err := svc.FinancesByID(context.Background(), 999, "cost")

	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeWorkOrderNotFound))
	assert.Contains(t, err.Error(), "999")
}

func TestService_Details_EmptyRead(t *testing.T) {
	gw := &mockGateway{
		searchFn: func(resource string, domain []interface{}) ([]int64, error) {
			return []int64{4}, nil
		},
		readFn: func(resource string, ids []int64, fields []string) ([]erp.Record, error) {
			return nil, nil
		},
	}
	svc := newTestService(gw)

	_, err := svc.Details(context.Background(), "WO/2024/0004", "")

	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeWorkOrderNotFound))
	assert.Contains(t, err.Error(), "WO/2024/0004")
}

func TestService_Time_EmptyRead(t *testing.T) {
	gw := &mockGateway{
		searchFn: func(resource string, domain []interface{}) ([]int64, error) {
			return []int64{4}, nil
		},
		readFn: func(resource string, ids []int64, fields []string) ([]erp.Record, error) {
			return nil, nil
		},
	}
	svc := newTestService(gw)

	_, err := svc.Time(context.Background(), "WO/2024/0004", "duration")

	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeWorkOrderNotFound))
}

func TestService_Employees_EmptyRead(t *testing.T) {
	gw := &mockGateway{
		searchFn: func(resource string, domain []interface{}) ([]int64, error) {
			return []int64{4}, nil
		},
		readFn: func(resource string, ids []int64, fields []string) ([]erp.Record, error) {
			return nil, nil
		},
	}
	svc := newTestService(gw)

	_, err := svc.Employees(context.Background(), "WO/2024/0004", "civil engineer")

	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeWorkOrderNotFound))
}

// ==========================
// Header Tests
// ==========================

func TestService_Header(t *testing.T) {
	gw := &mockGateway{
		searchFn: func(resource string, domain []interface{}) ([]int64, error) {
			return []int64{3}, nil
		},
		readFn: func(resource string, ids []int64, fields []string) ([]erp.Record, error) {
			return []erp.Record{{
				"id":           float64(3),
				"name":         "Tower Maintenance",
				"create_date":  "2024-02-01 08:00:00",
				"create_uid":   rel(2, "Admin"),
				"wo_amount":    50000.0,
				"partner_id":   rel(8, "Acme LLC"),
				"agreement_id": rel(4, "FM-2024"),
				"city_id":      rel(1, "Dubai"),
				"wo_type":      "maintenance",
			}}, nil
		},
	}
	svc := newTestService(gw)

	header, err := svc.Header(context.Background(), "WO/2024/0003")

	require.NoError(t, err)
	assert.Equal(t, int64(3), header.ID)
	assert.Equal(t, "Tower Maintenance", header.Name)
	assert.Equal(t, "Acme LLC", header.ClientName)
	assert.Equal(t, "FM-2024", header.Contract)
	assert.Equal(t, 50000.0, header.Amount)
	assert.Equal(t, "Dubai", header.City)
	assert.Equal(t, "Admin", header.CreatedBy)
}
