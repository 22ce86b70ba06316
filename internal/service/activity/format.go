package activity

import (
	"fmt"
	"strings"

	"github.com/heartmarshall/catering-backend/internal/domain"
)

const missing = "–"

// Format renders e as a German one-liner. Unknown actions fall back to the
// action name with underscores replaced by spaces.
func Format(e domain.ActivityLogEntry) string {
	switch e.Action {
	case domain.ActionCreated:
		return "Erstellt"
	case domain.ActionStatusChanged:
		return fmt.Sprintf("Status geändert: %s → %s", value(e.OldValue, "status"), value(e.NewValue, "status"))
	case domain.ActionPriorityChanged:
		return fmt.Sprintf("Priorität geändert: %s → %s", value(e.OldValue, "priority"), value(e.NewValue, "priority"))
	case domain.ActionAssigned:
		who := value(e.NewValue, "assignee_email")
		if who == missing {
			who = value(e.NewValue, "assigned_to")
		}
		return "Zugewiesen an " + who
	case domain.ActionUnassigned:
		return "Zuweisung entfernt"
	case domain.ActionNoteUpdated:
		return "Notiz aktualisiert"
	case domain.ActionMenuConfirmed:
		return "Menü bestätigt"
	case domain.ActionPriceUpdated:
		return fmt.Sprintf("Preis geändert: %s → %s", value(e.OldValue, "price"), value(e.NewValue, "price"))
	case domain.ActionTaskCreated:
		return "Aufgabe erstellt: " + taskTitle(e)
	case domain.ActionTaskCompleted:
		return "Aufgabe erledigt: " + taskTitle(e)
	case domain.ActionTaskCancelled:
		return "Aufgabe abgebrochen: " + taskTitle(e)
	case domain.ActionEmailSent:
		return "E-Mail gesendet an " + value(e.Metadata, "recipient")
	case domain.ActionInvoiceCreated:
		return "Rechnung erstellt: " + value(e.NewValue, "voucher_id")
	case domain.ActionPaymentReceived:
		return "Zahlung eingegangen"
	}
	return strings.ReplaceAll(string(e.Action), "_", " ")
}

// taskTitle reads the title task entries carry in Metadata. Entries written
// before titles moved there kept it in NewValue.
func taskTitle(e domain.ActivityLogEntry) string {
	if t := value(e.Metadata, "title"); t != missing {
		return t
	}
	return value(e.NewValue, "title")
}

func value(m map[string]any, key string) string {
	v, ok := m[key]
	if !ok || v == nil {
		return missing
	}
	s := fmt.Sprint(v)
	if s == "" {
		return missing
	}
	return s
}
