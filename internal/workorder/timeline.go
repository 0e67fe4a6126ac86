// internal/workorder/timeline.go
package workorder

import (
	"context"

	"workorder-assistant/internal/common/errors"
)

// Time answers the timing query. The selector picks a single field
// (start date, end date, or duration); anything else fetches all three.
// Only the requested fields are read from the gateway.
func (s *Service) Time(ctx context.Context, ref, selector string) (*TimeResult, error) {
	id, err := s.resolveRef(ctx, ref)
	if err != nil {
		return nil, err
	}

	sel := normalizeSelector(selector)
	wantStart := sel == "start date" || sel == "start_date"
	wantEnd := sel == "end date" || sel == "end_date"
	wantDur := sel == "duration"

	anySpecific := wantStart || wantEnd || wantDur
	fetchStart := wantStart || !anySpecific
	fetchEnd := wantEnd || !anySpecific
	fetchDur := wantDur || !anySpecific

	var fields []string
	if fetchStart {
		fields = append(fields, "date_start")
	}
	if fetchEnd {
		fields = append(fields, "date")
	}
	if fetchDur {
		fields = append(fields, "estimated_duration")
	}

	recs, err := s.gw.Read(ctx, resourceProject, []int64{id}, fields)
	if err != nil {
		return nil, err
	}
	if len(recs) == 0 {
		return nil, errors.NewWorkOrderNotFoundError(ref)
	}
	proj := recs[0]

	result := &TimeResult{}
	if fetchStart {
		start := proj.Str("date_start")
		result.StartDate = &start
	}
	if fetchEnd {
		end := proj.Str("date")
		result.EndDate = &end
	}
	if fetchDur {
		dur := proj.Float("estimated_duration")
		result.Duration = &dur
	}

	return result, nil
}
