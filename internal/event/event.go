package event

import (
	"time"

	"github.com/google/uuid"
)

type Type string

const (
	TypeSessionStarted    Type = "session.started"
	TypeSessionEnded      Type = "session.ended"
	TypeBedAssigned       Type = "bed.assigned"
	TypeBedDischarged     Type = "bed.discharged"
	TypeMedicineDispensed Type = "medicine.dispensed"
	TypeMedicineRestocked Type = "medicine.restocked"
	TypeInvoicePaid       Type = "invoice.paid"
)

type Event struct {
	ID        string `json:"id"`
	Type      Type   `json:"type"`
	Payload   any    `json:"payload"`
	Timestamp string `json:"timestamp"`
	Actor     string `json:"actor,omitempty"` // subject of the session that caused it
}

func New(eventType Type, actor string, payload any) Event {
	return Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		Payload:   payload,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Actor:     actor,
	}
}

type Bus interface {
	Publish(e Event)
	Subscribe() (<-chan Event, func()) // Returns channel and unsubscribe function
}
