package realtime

import (
	"strings"

	"github.com/google/uuid"

	"github.com/heartmarshall/catering-backend/internal/domain"
)

// View names a derived read model that can go stale.
type View string

const (
	// ViewAll is delivered after a resync; every view must be treated as stale.
	ViewAll        View = "*"
	ViewInboxList  View = "inbox:list"
	ViewInboxCount View = "inbox:counts"
	ViewOpenTasks  View = "tasks:open"
)

// ItemView is the detail view of one inbox item.
func ItemView(t domain.EntityType, id uuid.UUID) View {
	return View("inbox:item:" + string(t) + ":" + id.String())
}

// ActivityView is the activity timeline of one entity.
func ActivityView(t domain.EntityType, id uuid.UUID) View {
	return View("activity:" + string(t) + ":" + id.String())
}

// InquiryTasksView is the task list of one inquiry.
func InquiryTasksView(inquiryID uuid.UUID) View {
	return View("tasks:inquiry:" + inquiryID.String())
}

// Covers reports whether an invalidation of v also invalidates other.
func (v View) Covers(other View) bool {
	return v == ViewAll || v == other
}

// IsItem reports whether v is an inbox item detail view.
func (v View) IsItem() bool {
	return strings.HasPrefix(string(v), "inbox:item:")
}

// ViewsForChange maps a row change to the views it makes stale.
func ViewsForChange(c domain.Change) []View {
	if t, ok := domain.SourceEntityType(c.Table); ok {
		return []View{ViewInboxList, ViewInboxCount, ItemView(t, c.ID)}
	}

	switch c.Table {
	case domain.TableActivityLogs:
		if c.EntityID == nil || !c.EntityType.IsValid() {
			return nil
		}
		views := []View{ActivityView(c.EntityType, *c.EntityID)}
		if c.EntityType.IsInboxType() {
			views = append(views, ViewInboxList, ViewInboxCount, ItemView(c.EntityType, *c.EntityID))
		}
		return views

	case domain.TableTasks:
		views := []View{ViewInboxCount, ViewOpenTasks}
		if c.InquiryID != nil {
			views = append(views,
				InquiryTasksView(*c.InquiryID),
				ItemView(domain.EntityTypeInquiry, *c.InquiryID),
				ViewInboxList,
			)
		}
		return views
	}
	return nil
}
