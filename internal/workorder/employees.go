// internal/workorder/employees.go
package workorder

import (
	"context"
	"regexp"

	"workorder-assistant/internal/common/errors"
)

// Assignment roles and the project fields holding them. roleOrder fixes
// the rendering order since map iteration is unordered.
var roleFields = map[string]string{
	"civil":      "project_eng_id",
	"mechanical": "mechanical_eng_id",
	"electrical": "electrical_eng_id",
	"it":         "it_eng_id",
	"pm":         "user_id",
}

var roleOrder = []string{"civil", "mechanical", "electrical", "it", "pm"}

var genericRolePattern = regexp.MustCompile(`\b(all|employees|engineers?)\b`)

var rolePatterns = func() map[string]*regexp.Regexp {
	patterns := make(map[string]*regexp.Regexp, len(roleOrder))
	for _, role := range roleOrder {
		patterns[role] = regexp.MustCompile(`\b` + role + `\b`)
	}
	return patterns
}()

// requestedRoles parses the selector for role keywords, whole words
// only. Generic terms or no match mean every role.
func requestedRoles(selector string) []string {
	sel := normalizeSelector(selector)

	var roles []string
	for _, role := range roleOrder {
		if rolePatterns[role].MatchString(sel) {
			roles = append(roles, role)
		}
	}

	if len(roles) == 0 || genericRolePattern.MatchString(sel) {
		return roleOrder
	}
	return roles
}

// Employees answers the staffing query: who holds each requested role on
// the work order. Engineers live in hr.employee, the project manager in
// res.users. Roles with no assignee are skipped rather than rendered empty.
func (s *Service) Employees(ctx context.Context, ref, selector string) (*EmployeesResult, error) {
	id, err := s.resolveRef(ctx, ref)
	if err != nil {
		return nil, err
	}

	roles := requestedRoles(selector)

	fields := make([]string, 0, len(roles))
	for _, role := range roles {
		fields = append(fields, roleFields[role])
	}

	recs, err := s.gw.Read(ctx, resourceProject, []int64{id}, fields)
	if err != nil {
		return nil, err
	}
	if len(recs) == 0 {
		return nil, errors.NewWorkOrderNotFoundError(ref)
	}
	proj := recs[0]

	roleToID := map[string]int64{}
	var engineerIDs []int64
	var managerID int64
	for _, role := range roles {
		eid := proj.RelID(roleFields[role])
		if eid == 0 {
			continue
		}
		roleToID[role] = eid
		if role == "pm" {
			managerID = eid
		} else {
			engineerIDs = append(engineerIDs, eid)
		}
	}

	if len(roleToID) == 0 {
		return &EmployeesResult{Employees: []Employee{}}, nil
	}

	engineers := map[int64]Employee{}
	if len(engineerIDs) > 0 {
		engRecs, err := s.gw.Read(ctx, resourceEmployee, engineerIDs, []string{"id", "name", "job_id"})
		if err != nil {
			return nil, err
		}
		for _, rec := range engRecs {
			engineers[rec.Int("id")] = Employee{
				ID:       rec.Int("id"),
				Name:     rec.Str("name"),
				Position: rec.RelName("job_id"),
			}
		}
	}

	var manager *Employee
	if managerID > 0 {
		mgrRecs, err := s.gw.Read(ctx, resourceUser, []int64{managerID}, []string{"id", "name"})
		if err == nil && len(mgrRecs) > 0 {
			manager = &Employee{
				Role:     "pm",
				ID:       mgrRecs[0].Int("id"),
				Name:     mgrRecs[0].Str("name"),
				Position: "Project Manager",
			}
		}
	}

	employees := []Employee{}
	for _, role := range roles {
		if role == "pm" {
			if manager != nil {
				employees = append(employees, *manager)
			}
			continue
		}
		eid, ok := roleToID[role]
		if !ok {
			continue
		}
		if emp, found := engineers[eid]; found {
			emp.Role = role
			employees = append(employees, emp)
		}
	}

	return &EmployeesResult{Employees: employees}, nil
}

// ManagerByID returns the project manager of a project, or nil when the
// role is unassigned.
func (s *Service) ManagerByID(ctx context.Context, id int64) (*Employee, error) {
	recs, err := s.gw.Read(ctx, resourceProject, []int64{id}, []string{"user_id"})
	if err != nil {
		return nil, err
	}
	if len(recs) == 0 {
		return nil, nil
	}

	uid := recs[0].RelID("user_id")
	if uid == 0 {
		return nil, nil
	}

	mgrRecs, err := s.gw.Read(ctx, resourceUser, []int64{uid}, []string{"id", "name"})
	if err != nil {
		return nil, err
	}
	if len(mgrRecs) == 0 {
		return nil, nil
	}

	return &Employee{
		Role:     "pm",
		ID:       mgrRecs[0].Int("id"),
		Name:     mgrRecs[0].Str("name"),
		Position: "Project Manager",
	}, nil
}
