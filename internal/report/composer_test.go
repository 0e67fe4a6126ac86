// internal/report/composer_test.go
package report

import (
	"strings"
	"testing"

	"workorder-assistant/internal/models"
	"workorder-assistant/internal/workorder"

	"github.com/stretchr/testify/assert"
)

// ==========================
// Formatting Tests
// ==========================

func TestMoney(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{12345.67, "AED 12,345.67"},
		{0, "AED 0.00"},
		{1000000, "AED 1,000,000.00"},
		{99.9, "AED 99.90"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, Money(tt.in))
	}
}

// ==========================
// Finance Report Tests
// ==========================

func TestComposer_Finances_CostOnly(t *testing.T) {
	cost := 12345.67
	result := &workorder.FinanceResult{
		Mode: workorder.FinanceModeCost,
		Cost: &cost,
	}

	got := NewComposer().Finances(result)

	want := "**Work Order Cost:** AED 12,345.67\n" + Separator
	assert.Equal(t, want, got)

	// Cost-only reports never show the purchase-order section.
	assert.NotContains(t, got, "Purchase Orders")
}

func TestComposer_Finances_ProfitOnly(t *testing.T) {
	result := &workorder.FinanceResult{
		Mode:    workorder.FinanceModeProfit,
		Verdict: workorder.VerdictLoss,
		Distribution: &workorder.Distribution{
			ProjectEng: 4000, MechanicalEng: 3000, ElectricalEng: 2000, ITEng: 1000,
			TotalEng: 10000,
		},
	}

	got := NewComposer().Finances(result)

	assert.Contains(t, got, "Total Engineering Amount: AED 10,000.00")
	assert.Contains(t, got, "**Profit Status:** LOSS")
	assert.NotContains(t, got, "Petty Cash")
}

func TestComposer_Finances_DistributionOnly(t *testing.T) {
	result := &workorder.FinanceResult{
		Mode: workorder.FinanceModeDistribution,
		Distribution: &workorder.Distribution{
			ProjectEng: 1000, MechanicalEng: 2000, ElectricalEng: 3000, ITEng: 500,
			TotalEng: 6500,
		},
	}

	got := NewComposer().Finances(result)

	assert.Contains(t, got, "**Expense Distribution:**")
	assert.Contains(t, got, "• Project Engineering Amount: AED 1,000.00")
	assert.Contains(t, got, "• IT Engineering Amount: AED 500.00")
	assert.Contains(t, got, "• **Total Engineering Amount:** AED 6,500.00")
}

func TestComposer_Finances_ExpenseWithPOs(t *testing.T) {
	result := &workorder.FinanceResult{
		Mode: workorder.FinanceModeExpense,
		PurchaseOrders: []workorder.PurchaseOrder{
			{OrderRef: "P00021", Vendor: "Gulf Supplies", Total: 997.5, Tax: 47.5, Subtotal: 950,
				CreatedOn: "2024-03-01 10:00:00", CreatedBy: "Admin"},
		},
		PettyCashTotal: 200,
		TimesheetTotal: 450,
	}

	got := NewComposer().Finances(result)

	assert.Contains(t, got, "Associated Expenses (Purchase Orders):")
	assert.Contains(t, got, "**PO #:** P00021")
	assert.Contains(t, got, "• **Vendor:** Gulf Supplies")
	assert.Contains(t, got, "**Petty Cash Total:** AED 200.00")
	assert.Contains(t, got, "**Total Timesheet Amount:** AED 450.00")
	assert.Contains(t, got, "**Total Expenses (POs):** AED 997.50")
	assert.NotContains(t, got, "**Work Order Cost:**")
	assert.NotContains(t, got, "**Profit Status:**")
}

func TestComposer_Finances_ExpenseEmptyPOs(t *testing.T) {
	result := &workorder.FinanceResult{Mode: workorder.FinanceModeExpense}

	got := NewComposer().Finances(result)

	assert.Contains(t, got, "– None found")
	assert.Contains(t, got, "**Total Expenses (POs):** AED 0.00")
}

func TestComposer_Finances_Idempotent(t *testing.T) {
	cost := 500.0
	result := &workorder.FinanceResult{Mode: workorder.FinanceModeCost, Cost: &cost}
	c := NewComposer()

	assert.Equal(t, c.Finances(result), c.Finances(result))
}

// ==========================
// Details Report Tests
// ==========================

func TestComposer_Details_FullReport(t *testing.T) {
	balance := 5500.0
	result := &workorder.DetailsResult{
		Mode: workorder.DetailsModeFull,
		Timeline: &workorder.Timeline{
			StartDate: "2024-01-15", EndDate: "2024-06-30",
			Duration: 120, ProjectManager: "Sara Haddad",
		},
		PurchaseOrders: []workorder.PurchaseOrder{
			{OrderRef: "P00021", Vendor: "Gulf Supplies", Total: 3000},
		},
		Invoices: []workorder.Invoice{
			{Number: "INV/2024/0051", Date: "2024-02-01", Vendor: "Acme LLC",
				Client: "Acme LLC", PaymentState: "paid", Total: 2500},
		},
		Balance: &balance,
	}

	got := NewComposer().Details(result)

	assert.True(t, strings.HasPrefix(got, "Work Order Details Report\n"+Separator))
	assert.Contains(t, got, "🔹 **Start Date:** 2024-01-15")
	assert.Contains(t, got, "🔹 **Project Manager:** Sara Haddad")
	assert.Contains(t, got, "📦 Purchase Orders:")
	assert.Contains(t, got, "🧾 Invoices:")
	assert.Contains(t, got, "✅ **Remaining Balance:** AED 5,500.00")
}

func TestComposer_Details_TimelineOnlyOmitsSections(t *testing.T) {
	result := &workorder.DetailsResult{
		Mode:     workorder.DetailsModeTimeline,
		Timeline: &workorder.Timeline{StartDate: "2024-01-15"},
	}

	got := NewComposer().Details(result)

	assert.NotContains(t, got, "Purchase Orders")
	assert.NotContains(t, got, "Invoices")
	assert.NotContains(t, got, "Remaining Balance")
}

// ==========================
// Papers Report Tests
// ==========================

func TestComposer_Papers_OmitsExcludedGroups(t *testing.T) {
	result := &workorder.PapersResult{
		Attachments: &workorder.AttachmentGroup{
			Count: 1,
			Items: []workorder.Attachment{{ID: 61, Name: "contract.pdf", MimeType: "application/pdf"}},
		},
	}

	got := NewComposer().Papers(result)

	assert.Contains(t, got, "Attachments:")
	assert.Contains(t, got, "**Attachment ID:** 61")
	// nil groups were excluded by the selector and leave no trace
	assert.NotContains(t, got, "Invoices:")
	assert.NotContains(t, got, "Purchase Orders:")
}

func TestComposer_Papers_EmptyGroupRendersPlaceholder(t *testing.T) {
	result := &workorder.PapersResult{
		Attachments: &workorder.AttachmentGroup{Count: 0, Items: nil},
	}

	got := NewComposer().Papers(result)

	assert.Contains(t, got, "Attachments:")
	assert.Contains(t, got, "– None found")
}

// ==========================
// Time / Listing / Employees Tests
// ==========================

func TestComposer_Time(t *testing.T) {
	start := "2024-01-15"
	dur := 120.0
	result := &workorder.TimeResult{StartDate: &start, Duration: &dur}

	got := NewComposer().Time(result)

	assert.Contains(t, got, "🔹 Start Date: 2024-01-15")
	assert.Contains(t, got, "🔹 Duration: 120")
	assert.NotContains(t, got, "End Date")
}

func TestComposer_Time_NothingFetched(t *testing.T) {
	got := NewComposer().Time(&workorder.TimeResult{})

	assert.Contains(t, got, "– No timing information found")
}

func TestComposer_WorkOrders(t *testing.T) {
	result := &workorder.ListingResult{
		WorkOrders: []workorder.WorkOrderSummary{
			{Ref: "WO/2025/0001", Name: "Tower A"},
			{Ref: "WO/2025/0002", Name: "Tower B"},
		},
		Count: 2,
	}

	got := NewComposer().WorkOrders(result)

	assert.Contains(t, got, "Number of work orders: 2")
	assert.Contains(t, got, "WO/2025/0001 – Tower A")
}

func TestComposer_WorkOrders_Empty(t *testing.T) {
	got := NewComposer().WorkOrders(&workorder.ListingResult{})

	assert.Contains(t, got, "Number of work orders: 0")
	assert.Contains(t, got, "– No work orders found for your query.")
}

func TestComposer_Employees(t *testing.T) {
	result := &workorder.EmployeesResult{
		Employees: []workorder.Employee{
			{Role: "civil", ID: 101, Name: "Omar Nasser", Position: "Civil Engineer"},
			{Role: "pm", ID: 5, Name: "Sara Haddad", Position: "Project Manager"},
		},
	}

	got := NewComposer().Employees(result)

	assert.Contains(t, got, "**Role:** Civil")
	assert.Contains(t, got, "• **Name:** Omar Nasser")
	assert.Contains(t, got, "**Role:** Pm")
	assert.Contains(t, got, "• **Position:** Project Manager")
}

func TestComposer_Employees_Empty(t *testing.T) {
	got := NewComposer().Employees(&workorder.EmployeesResult{})

	assert.Contains(t, got, "– No employees found for this work order.")
}

// ==========================
// Assembly Tests
// ==========================

func TestComposer_Compose_HeaderOnTop(t *testing.T) {
	header := &workorder.Header{ID: 3, Name: "Tower Maintenance", Amount: 50000}

	got := NewComposer().Compose(models.IntentWorkOrderFinances, header, "BODY")

	assert.True(t, strings.HasPrefix(got, "Report Summary"))
	assert.Contains(t, got, "🔹 Work Order Amount: AED 50,000.00")
	assert.True(t, strings.HasSuffix(got, "BODY"))
}

func TestComposer_Compose_ListingStandsAlone(t *testing.T) {
	header := &workorder.Header{ID: 3}

	got := NewComposer().Compose(models.IntentGetWorkOrders, header, "BODY")

	assert.Equal(t, "BODY", got)
}
