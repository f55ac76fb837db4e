package websocket

// Message defines the structure for websocket messages.
type Message struct {
	Action  string `json:"action"`
	Payload any    `json:"payload"`
}

// ActionError is sent back when a client message cannot be handled.
const ActionError = "error"

// NewErrorMessage builds an error message addressed to a single client.
func NewErrorMessage(text string) Message {
	return Message{Action: ActionError, Payload: map[string]string{"message": text}}
}
