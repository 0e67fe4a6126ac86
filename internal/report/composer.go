// internal/report/composer.go
package report

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"workorder-assistant/internal/models"
	"workorder-assistant/internal/workorder"
)

var roleTitler = cases.Title(language.English)

// Composer renders query results as markdown-flavored text reports.
// Every render function is pure: same result in, same text out.
type Composer struct{}

func NewComposer() *Composer {
	return &Composer{}
}

// Header renders the identifying block shown above most reports.
func (c *Composer) Header(h *workorder.Header) string {
	lines := []string{
		"Report Summary",
		Separator,
		fmt.Sprintf("🔹 Project Name: %s", h.Name),
		fmt.Sprintf("🔹 Project ID: %d", h.ID),
		fmt.Sprintf("🔹 Client: %s", h.ClientName),
		fmt.Sprintf("🔹 Contract: %s", h.Contract),
		fmt.Sprintf("🔹 Work Order Amount: %s", Money(h.Amount)),
		fmt.Sprintf("🔹 City:  %s", h.City),
		"",
		fmt.Sprintf("🔹 Created On: %s", h.CreatedOn),
		fmt.Sprintf("🔹 Created By: %s", h.CreatedBy),
		"",
	}
	return strings.Join(lines, "\n")
}

// Finances renders the finance report. The branch is picked by the mode
// tag carried on the result, never re-inferred from field values.
func (c *Composer) Finances(r *workorder.FinanceResult) string {
	switch r.Mode {
	case workorder.FinanceModeCost:
		cost := 0.0
		if r.Cost != nil {
			cost = *r.Cost
		}
		return strings.Join([]string{
			fmt.Sprintf("**Work Order Cost:** %s", Money(cost)),
			Separator,
		}, "\n")

	case workorder.FinanceModeProfit:
		totalEng := 0.0
		if r.Distribution != nil {
			totalEng = r.Distribution.TotalEng
		}
		return strings.Join([]string{
			fmt.Sprintf("Total Engineering Amount: %s", Money(totalEng)),
			fmt.Sprintf("**Profit Status:** %s", r.Verdict),
			Separator,
		}, "\n")

	case workorder.FinanceModeDistribution:
		lines := []string{
			"**Expense Distribution:**",
			Separator,
		}
		lines = append(lines, distributionLines(r.Distribution)...)
		lines = append(lines, Separator)
		return strings.Join(lines, "\n")
	}

	// Expense and full branches share the itemized layout.
	lines := []string{
		"Associated Expenses (Purchase Orders):",
		Separator,
	}

	totalPO := 0.0
	if len(r.PurchaseOrders) == 0 {
		lines = append(lines, "– None found")
	} else {
		for i, po := range r.PurchaseOrders {
			totalPO += po.Total
			lines = append(lines,
				fmt.Sprintf("%d️⃣ **PO #:** %s  ", i+1, po.OrderRef),
				fmt.Sprintf("   • **Vendor:** %s  ", po.Vendor),
				fmt.Sprintf("   • **Total Amount:** %s  ", Money(po.Total)),
				fmt.Sprintf("   • **Tax Amount:** %s  ", Money(po.Tax)),
				fmt.Sprintf("   • **Net Amount:** %s  ", Money(po.Subtotal)),
				fmt.Sprintf("   • **Date:** %s  ", po.CreatedOn),
				fmt.Sprintf("   • **Created By:** %s", po.CreatedBy),
				"",
			)
		}
	}

	lines = append(lines,
		fmt.Sprintf("**Petty Cash Total:** %s", Money(r.PettyCashTotal)),
		fmt.Sprintf("**Total Timesheet Amount:** %s", Money(r.TimesheetTotal)),
		Separator,
		fmt.Sprintf("**Total Expenses (POs):** %s", Money(totalPO)),
		"",
	)

	if r.Cost != nil {
		lines = append(lines, fmt.Sprintf("**Work Order Cost:** %s", Money(*r.Cost)))
	}
	if r.Verdict != "" {
		lines = append(lines, fmt.Sprintf("**Profit Status:** %s", r.Verdict))
	}
	if r.Distribution != nil {
		lines = append(lines, "", "**Expense Distribution:**")
		lines = append(lines, distributionLines(r.Distribution)...)
	}

	return strings.Join(lines, "\n")
}

func distributionLines(d *workorder.Distribution) []string {
	if d == nil {
		d = &workorder.Distribution{}
	}
	return []string{
		fmt.Sprintf("• Project Engineering Amount: %s", Money(d.ProjectEng)),
		fmt.Sprintf("• Mechanical Engineering Amount: %s", Money(d.MechanicalEng)),
		fmt.Sprintf("• Electrical Engineering Amount: %s", Money(d.ElectricalEng)),
		fmt.Sprintf("• IT Engineering Amount: %s", Money(d.ITEng)),
		fmt.Sprintf("• **Total Engineering Amount:** %s", Money(d.TotalEng)),
	}
}

// Details renders the details report: timeline, purchase orders,
// invoices, and remaining balance, each section only when present.
func (c *Composer) Details(r *workorder.DetailsResult) string {
	lines := []string{
		"Work Order Details Report",
		Separator,
	}

	if r.Timeline != nil {
		lines = append(lines,
			fmt.Sprintf("🔹 **Start Date:** %s", r.Timeline.StartDate),
			fmt.Sprintf("🔹 **End Date:** %s", r.Timeline.EndDate),
			fmt.Sprintf("🔹 **Duration:** %g", r.Timeline.Duration),
			fmt.Sprintf("🔹 **Project Manager:** %s", r.Timeline.ProjectManager),
			"",
		)
	}

	if len(r.PurchaseOrders) > 0 {
		lines = append(lines, "📦 Purchase Orders:", Separator)
		for i, po := range r.PurchaseOrders {
			lines = append(lines,
				fmt.Sprintf("%d️⃣ **PO #:** %s  ", i+1, po.OrderRef),
				fmt.Sprintf("   • **Partner:** %s  ", po.Vendor),
				fmt.Sprintf("   • **Total:** %s  ", Money(po.Total)),
				"",
			)
		}
	}

	if len(r.Invoices) > 0 {
		lines = append(lines, "🧾 Invoices:", Separator)
		for i, inv := range r.Invoices {
			lines = append(lines,
				fmt.Sprintf("%d️⃣ **Invoice #:** %s  ", i+1, inv.Number),
				fmt.Sprintf("   • **Date:** %s  ", inv.Date),
				fmt.Sprintf("   • **Vendor:** %s  ", inv.Vendor),
				fmt.Sprintf("   • **Client:** %s  ", inv.Client),
				fmt.Sprintf("   • **Payment:** %s  ", inv.PaymentState),
				fmt.Sprintf("   • **Total:** %s  ", Money(inv.Total)),
				"",
			)
		}
	}

	if r.Balance != nil {
		lines = append(lines,
			Separator,
			fmt.Sprintf("✅ **Remaining Balance:** %s", Money(*r.Balance)),
			Separator,
		)
	}

	return strings.Join(lines, "\n")
}

// Papers renders the paperwork report. Sections whose group is nil were
// excluded by the selector and are omitted; empty groups render a
// placeholder line instead.
func (c *Composer) Papers(r *workorder.PapersResult) string {
	var lines []string

	if r.Attachments != nil {
		lines = append(lines, "Attachments:", Separator)
		if len(r.Attachments.Items) == 0 {
			lines = append(lines, "– None found")
		} else {
			for i, att := range r.Attachments.Items {
				lines = append(lines,
					fmt.Sprintf("%d️⃣ **Attachment ID:** %d  ", i+1, att.ID),
					fmt.Sprintf("   • **Name:** %s  ", att.Name),
					fmt.Sprintf("   • **MIME Type:** %s  ", att.MimeType),
					"",
				)
			}
		}
	}

	if r.Invoices != nil {
		lines = append(lines, "🧾 Invoices:", Separator)
		if len(r.Invoices.Items) == 0 {
			lines = append(lines, "– None found")
		} else {
			for i, inv := range r.Invoices.Items {
				lines = append(lines,
					fmt.Sprintf("%d️⃣ Invoice #: %s  ", i+1, inv.Number),
					fmt.Sprintf("   • Date: %s  ", inv.Date),
					fmt.Sprintf("   • Vendor: %s  ", inv.Vendor),
					fmt.Sprintf("   • Client: %s  ", inv.Client),
					fmt.Sprintf("   • Payment: %s  ", inv.PaymentState),
					fmt.Sprintf("   • Total Amount: %s  ", Money(inv.Total)),
					"",
				)
			}
		}
	}

	if r.PurchaseOrders != nil {
		lines = append(lines, "Purchase Orders:", Separator)
		if len(r.PurchaseOrders.Items) == 0 {
			lines = append(lines, "– None found")
		} else {
			for i, po := range r.PurchaseOrders.Items {
				lines = append(lines,
					fmt.Sprintf("%d️⃣ **PO #:** %s  ", i+1, po.OrderRef),
					fmt.Sprintf("   • **Vendor:** %s  ", po.Vendor),
					fmt.Sprintf("   • **Total Amount:** %s  ", Money(po.Total)),
					fmt.Sprintf("   • **Tax Amount:** %s  ", Money(po.Tax)),
					fmt.Sprintf("   • **Net Amount:** %s  ", Money(po.Subtotal)),
					fmt.Sprintf("   • **Date:** %s  ", po.CreatedOn),
					fmt.Sprintf("   • **Created By:** %s", po.CreatedBy),
					"",
				)
			}
		}
	}

	return strings.Join(lines, "\n")
}

// Time renders the timing report with only the fetched fields.
func (c *Composer) Time(r *workorder.TimeResult) string {
	lines := []string{
		"Time Report Summary",
		Separator,
	}

	if r.StartDate != nil {
		lines = append(lines, fmt.Sprintf("🔹 Start Date: %s", *r.StartDate))
	}
	if r.EndDate != nil {
		lines = append(lines, fmt.Sprintf("🔹 End Date: %s", *r.EndDate))
	}
	if r.Duration != nil {
		lines = append(lines, fmt.Sprintf("🔹 Duration: %g", *r.Duration))
	}

	if r.StartDate == nil && r.EndDate == nil && r.Duration == nil {
		lines = append(lines, "– No timing information found")
	}

	lines = append(lines, Separator)
	return strings.Join(lines, "\n")
}

// WorkOrders renders the listing report.
func (c *Composer) WorkOrders(r *workorder.ListingResult) string {
	lines := []string{
		fmt.Sprintf("Number of work orders: %d", r.Count),
		"Work Orders Summary",
		Separator,
	}

	if len(r.WorkOrders) == 0 {
		lines = append(lines, "– No work orders found for your query.")
	} else {
		for i, wo := range r.WorkOrders {
			lines = append(lines, fmt.Sprintf("%d️⃣ %s – %s", i+1, wo.Ref, wo.Name))
		}
	}

	lines = append(lines, Separator)
	return strings.Join(lines, "\n")
}

// Employees renders the staffing report.
func (c *Composer) Employees(r *workorder.EmployeesResult) string {
	lines := []string{
		"Work Order Employees Report",
		Separator,
	}

	if len(r.Employees) == 0 {
		lines = append(lines, "– No employees found for this work order.")
	} else {
		for i, emp := range r.Employees {
			role := roleTitler.String(strings.ReplaceAll(emp.Role, "_", " "))
			lines = append(lines,
				fmt.Sprintf("%d️⃣ **Role:** %s  ", i+1, role),
				fmt.Sprintf("   • **ID:** %d  ", emp.ID),
				fmt.Sprintf("   • **Name:** %s  ", emp.Name),
				fmt.Sprintf("   • **Position:** %s  ", emp.Position),
				"",
			)
		}
	}

	lines = append(lines, Separator)
	return strings.Join(lines, "\n")
}

// Compose assembles the final response for an intent: the report header
// on top of the intent body, except listings which stand alone because
// they cover many work orders.
func (c *Composer) Compose(intent string, header *workorder.Header, body string) string {
	if intent == models.IntentGetWorkOrders || header == nil {
		return body
	}
	return c.Header(header) + "\n" + body
}
