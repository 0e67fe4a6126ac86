// internal/workorder/listing.go
package workorder

import (
	"context"
	"strconv"
	"strings"

	"workorder-assistant/internal/common/errors"
)

// ErrNoListingFilter is the user-facing message when no entity resolves
// to a usable filter.
const ErrNoListingFilter = "No valid client, project manager, or start date found in your query."

// List finds work orders matching the first usable filter among the
// extracted entities. Filters are tried in a fixed precedence order:
// start date, then client name, then project manager. The first filter
// producing any match wins; later filters are not consulted.
func (s *Service) List(ctx context.Context, entities []string) (*ListingResult, error) {
	var projIDs []int64
	var err error

	for _, ent := range entities {
		if filter := parseDateFilter(ent); filter != nil {
			projIDs, err = s.gw.Search(ctx, resourceProject, filter.domain())
			if err != nil {
				return nil, err
			}
			break
		}
	}

	if len(projIDs) == 0 {
		projIDs, err = s.searchByClient(ctx, entities)
		if err != nil {
			return nil, err
		}
	}

	if len(projIDs) == 0 {
		projIDs, err = s.searchByManager(ctx, entities)
		if err != nil {
			return nil, err
		}
	}

	if len(projIDs) == 0 {
		return nil, errors.NewInvalidFilterError(ErrNoListingFilter)
	}

	recs, err := s.gw.Read(ctx, resourceProject, projIDs, []string{"wo_ref_no", "name"})
	if err != nil {
		return nil, err
	}

	orders := make([]WorkOrderSummary, 0, len(recs))
	for _, rec := range recs {
		orders = append(orders, WorkOrderSummary{
			Ref:  rec.Str("wo_ref_no"),
			Name: rec.Str("name"),
		})
	}

	return &ListingResult{WorkOrders: orders, Count: len(orders)}, nil
}

// searchByClient tries each entity as a client name, fuzzy-matched
// against the partner registry.
func (s *Service) searchByClient(ctx context.Context, entities []string) ([]int64, error) {
	for _, ent := range entities {
		name := strings.TrimSpace(ent)
		if name == "" {
			continue
		}

		partnerIDs, err := s.gw.Search(ctx, resourcePartner, []interface{}{
			[]interface{}{"name", "ilike", name},
		})
		if err != nil {
			return nil, err
		}
		if len(partnerIDs) == 0 {
			continue
		}

		return s.gw.Search(ctx, resourceProject, []interface{}{
			[]interface{}{"partner_id", "in", partnerIDs},
		})
	}
	return nil, nil
}

// searchByManager tries each entity as a project manager, either a
// numeric user ID or a name looked up in the user registry.
func (s *Service) searchByManager(ctx context.Context, entities []string) ([]int64, error) {
	for _, ent := range entities {
		trimmed := strings.TrimSpace(ent)
		if trimmed == "" {
			continue
		}

		var userIDs []int64
		if id, err := strconv.ParseInt(trimmed, 10, 64); err == nil {
			userIDs = []int64{id}
		} else {
			found, err := s.gw.Search(ctx, resourceUser, []interface{}{
				[]interface{}{"name", "ilike", trimmed},
			})
			if err != nil {
				return nil, err
			}
			userIDs = found
		}
		if len(userIDs) == 0 {
			continue
		}

		projIDs, err := s.gw.Search(ctx, resourceProject, []interface{}{
			[]interface{}{"user_id", "in", userIDs},
		})
		if err != nil {
			return nil, err
		}
		if len(projIDs) > 0 {
			return projIDs, nil
		}
	}
	return nil, nil
}
