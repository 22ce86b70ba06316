package inbox

import (
	"slices"
	"strings"

	"github.com/heartmarshall/catering-backend/internal/domain"
)

// sourcePlan is the query for one source, or skip when the filter excludes it.
type sourcePlan struct {
	Type  domain.EntityType
	Query domain.SourceQuery
}

// plan partitions f across the sources. A status subset is split by enum
// membership and a source with none of the statuses is skipped. Priority
// only exists on inquiries, so other sources are skipped when it is set.
func (s *Service) plan(f domain.InboxFilter, limit int) []sourcePlan {
	types := f.Types
	if len(types) == 0 {
		types = domain.InboxEntityTypes
	}

	var plans []sourcePlan
	for _, t := range domain.InboxEntityTypes {
		if !slices.Contains(types, t) {
			continue
		}

		var statuses []string
		for _, st := range f.Statuses {
			if domain.IsValidStatus(t, st) && !slices.Contains(statuses, st) {
				statuses = append(statuses, st)
			}
		}
		if len(f.Statuses) > 0 && len(statuses) == 0 {
			continue
		}
		if len(f.Priorities) > 0 && t != domain.EntityTypeInquiry {
			continue
		}

		q := domain.SourceQuery{
			Search:     strings.TrimSpace(f.Search),
			Statuses:   statuses,
			AssignedTo: f.AssignedTo,
			From:       f.From,
			To:         f.To,
			TimeKey:    domain.BookingByCreatedAt,
			Ranked:     f.Ranked(),
			Limit:      limit,
		}
		if t == domain.EntityTypeInquiry {
			q.Priorities = f.Priorities
		}
		if t == domain.EntityTypeBooking {
			q.TimeKey = s.cfg.BookingTimeKey
		}
		plans = append(plans, sourcePlan{Type: t, Query: q})
	}
	return plans
}
