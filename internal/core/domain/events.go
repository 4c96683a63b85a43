package domain

// EventType defines the type of real-time event.
type EventType string

const (
	// Server -> client pushes.
	EventReceiveMessage         EventType = "ReceiveMessage"
	EventShowSatisfactionSurvey EventType = "ShowSatisfactionSurvey"
	EventTicketCreated          EventType = "TicketCreated"
	EventError                  EventType = "Error"
)

// Event is the payload sent over WebSocket.
type Event struct {
	Type    EventType   `json:"type"`
	Payload interface{} `json:"payload"`
}
