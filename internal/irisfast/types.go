package irisfast

// Message is one inbound chat event pushed by the Iris bridge over the
// websocket feed.
type Message struct {
	Room   string       `json:"room"`
	Msg    string       `json:"msg"`
	Sender *string      `json:"sender,omitempty"`
	JSON   *MessageJSON `json:"json,omitempty"`
}

type MessageJSON struct {
	UserID string `json:"userId"`
}

// Config is the bridge's /config payload, used by the connectivity probe.
type Config struct {
	Port              int    `json:"port"`
	PollingSpeed      int    `json:"pollingSpeed"`
	MessageRate       int    `json:"messageRate"`
	WebserverEndpoint string `json:"webserverEndpoint"`
}

type ReplyRequest struct {
	Type string `json:"type"`
	Room string `json:"room"`
	Data string `json:"data"`
}

// ReplyResponse carries the bridge-assigned id of the delivered message.
// The id is opaque; it only has to round-trip into /edit and /message.
type ReplyResponse struct {
	MessageID string `json:"messageId"`
}

type EditRequest struct {
	Room      string `json:"room"`
	MessageID string `json:"messageId"`
	Data      string `json:"data"`
}

type MessageLookup struct {
	MessageID string `json:"messageId"`
	Data      string `json:"data"`
}

type WebSocketState string

const (
	WSStateDisconnected WebSocketState = "disconnected"
	WSStateConnecting   WebSocketState = "connecting"
	WSStateConnected    WebSocketState = "connected"
	WSStateReconnecting WebSocketState = "reconnecting"
	WSStateFailed       WebSocketState = "failed"
)

// MessageHandler receives inbound chat events.
type MessageHandler func(message *Message)

// StateHandler observes websocket state transitions.
type StateHandler func(state WebSocketState)
