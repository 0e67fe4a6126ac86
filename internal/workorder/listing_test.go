// internal/workorder/listing_test.go
package workorder

import (
	"context"
	"testing"

	"workorder-assistant/internal/common/errors"
	"workorder-assistant/internal/erp"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==========================
// Date Filter Tests
// ==========================

func TestParseDateFilter(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  *dateFilter
	}{
		{"exact date", "2025-07-01", &dateFilter{Exact: "2025-07-01"}},
		{"bare year", "2024", &dateFilter{Start: "2024-01-01", End: "2024-12-31"}},
		{"year month", "2024-02", &dateFilter{Start: "2024-02-01", End: "2024-02-29"}},
		{"named month", "March 2024", &dateFilter{Start: "2024-03-01", End: "2024-03-31"}},
		{"abbreviated month", "feb 2023", &dateFilter{Start: "2023-02-01", End: "2023-02-28"}},
		{"invalid month number", "2024-13", nil},
		{"not a date", "Acme Corp", nil},
		{"plain number too short", "123", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, parseDateFilter(tt.input))
		})
	}
}

// ==========================
// Listing Tests
// ==========================

func TestService_List_DateFilterWins(t *testing.T) {
	gw := &mockGateway{
		searchFn: func(resource string, domain []interface{}) ([]int64, error) {
			if resource == resourceProject {
				first := domain[0].([]interface{})
				assert.Equal(t, "date_start", first[0])
				return []int64{10, 11}, nil
			}
			t.Fatalf("unexpected search on %s", resource)
			return nil, nil
		},
		readFn: func(resource string, ids []int64, fields []string) ([]erp.Record, error) {
			return []erp.Record{
				{"wo_ref_no": "WO/2025/0001", "name": "Tower A"},
				{"wo_ref_no": "WO/2025/0002", "name": "Tower B"},
			}, nil
		},
	}
	svc := newTestService(gw)

	// A date entity takes precedence over the client-looking one.
	result, err := svc.List(context.Background(), []string{"Acme Corp", "2025-07-01"})

	require.NoError(t, err)
	assert.Equal(t, 2, result.Count)
	assert.Equal(t, "WO/2025/0001", result.WorkOrders[0].Ref)

	// No partner or user lookups happened.
	assert.Equal(t, 0, gw.callsFor("search", resourcePartner))
	assert.Equal(t, 0, gw.callsFor("search", resourceUser))
}

func TestService_List_ClientFallback(t *testing.T) {
	gw := &mockGateway{
		searchFn: func(resource string, domain []interface{}) ([]int64, error) {
			switch resource {
			case resourcePartner:
				return []int64{8}, nil
			case resourceProject:
				first := domain[0].([]interface{})
				if first[0] == "partner_id" {
					return []int64{10}, nil
				}
				return nil, nil
			}
			return nil, nil
		},
		readFn: func(resource string, ids []int64, fields []string) ([]erp.Record, error) {
			return []erp.Record{{"wo_ref_no": "WO/2024/0010", "name": "Warehouse Fitout"}}, nil
		},
	}
	svc := newTestService(gw)

	result, err := svc.List(context.Background(), []string{"Acme Corp"})

	require.NoError(t, err)
	assert.Equal(t, 1, result.Count)
	assert.Equal(t, "Warehouse Fitout", result.WorkOrders[0].Name)
}

func TestService_List_ManagerFallback(t *testing.T) {
	gw := &mockGateway{
		searchFn: func(resource string, domain []interface{}) ([]int64, error) {
			switch resource {
			case resourcePartner:
				return nil, nil
			case resourceUser:
				return []int64{5}, nil
			case resourceProject:
				first := domain[0].([]interface{})
				if first[0] == "user_id" {
					return []int64{12}, nil
				}
				return nil, nil
			}
			return nil, nil
		},
		readFn: func(resource string, ids []int64, fields []string) ([]erp.Record, error) {
			return []erp.Record{{"wo_ref_no": "WO/2024/0012", "name": "Clinic Renovation"}}, nil
		},
	}
	svc := newTestService(gw)

	result, err := svc.List(context.Background(), []string{"Sara Haddad"})

	require.NoError(t, err)
	assert.Equal(t, 1, result.Count)
}

func TestService_List_NumericManagerID(t *testing.T) {
	gw := &mockGateway{
		searchFn: func(resource string, domain []interface{}) ([]int64, error) {
			switch resource {
			case resourcePartner:
				return nil, nil
			case resourceUser:
				t.Fatal("numeric entity must not hit the user registry")
				return nil, nil
			case resourceProject:
				first := domain[0].([]interface{})
				if first[0] == "user_id" {
					assert.Equal(t, []int64{5}, first[2])
					return []int64{12}, nil
				}
				return nil, nil
			}
			return nil, nil
		},
		readFn: func(resource string, ids []int64, fields []string) ([]erp.Record, error) {
			return []erp.Record{{"wo_ref_no": "WO/2024/0012", "name": "Clinic Renovation"}}, nil
		},
	}
	svc := newTestService(gw)

	result, err := svc.List(context.Background(), []string{"5"})

	require.NoError(t, err)
	assert.Equal(t, 1, result.Count)
}

func TestService_List_NoFilterMatches(t *testing.T) {
	gw := &mockGateway{
		searchFn: func(resource string, domain []interface{}) ([]int64, error) {
			return nil, nil
		},
	}
	svc := newTestService(gw)

	_, err := svc.List(context.Background(), []string{"nothing useful"})

	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeInvalidFilter))
	assert.Equal(t, ErrNoListingFilter, errors.Normalize(err).Message)
}
