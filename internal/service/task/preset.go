package task

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/heartmarshall/catering-backend/internal/domain"
)

// Preset is a predefined follow-up with a fixed title and due offset.
type Preset string

const (
	PresetCallBack    Preset = "call_back"
	PresetSendOffer   Preset = "send_offer"
	PresetConfirmMenu Preset = "confirm_menu"
	PresetFollowUp    Preset = "follow_up"
)

type presetDef struct {
	title string
	due   time.Duration
}

var presets = map[Preset]presetDef{
	PresetCallBack:    {title: "Kunden zurückrufen", due: 24 * time.Hour},
	PresetSendOffer:   {title: "Angebot senden", due: 48 * time.Hour},
	PresetConfirmMenu: {title: "Menü bestätigen lassen", due: 7 * 24 * time.Hour},
	PresetFollowUp:    {title: "Nachfassen", due: 72 * time.Hour},
}

func (p Preset) IsValid() bool {
	_, ok := presets[p]
	return ok
}

// FromPreset builds a pending task for p, due relative to now.
func FromPreset(p Preset, inquiryID *uuid.UUID, createdBy uuid.UUID, now time.Time) (*domain.Task, error) {
	def, ok := presets[p]
	if !ok {
		return nil, domain.NewValidationError("preset", fmt.Sprintf("unknown preset %q", p))
	}
	due := now.Add(def.due)
	return &domain.Task{
		ID:        uuid.New(),
		InquiryID: inquiryID,
		Title:     def.title,
		DueDate:   &due,
		Status:    domain.TaskStatusPending,
		Priority:  domain.PriorityNormal,
		CreatedBy: createdBy,
		CreatedAt: now,
	}, nil
}
