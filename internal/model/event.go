package model

// EventKind identifies a reported integrity event.
type EventKind string

const (
	EventBlur             EventKind = "blur"
	EventContextMenu      EventKind = "context_menu"
	EventDevtoolsShortcut EventKind = "devtools_shortcut"
)

// IntegrityEvent is a fire-and-forget report sent to /log_event. The
// server assigns the timestamp; the client retains nothing.
type IntegrityEvent struct {
	QuizID  string    `json:"quiz_id"`
	Student string    `json:"student"`
	Event   EventKind `json:"event"`
}
