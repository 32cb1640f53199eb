package model

// EventKind tags the variant carried by an Event.
type EventKind int

const (
	EventUnknown EventKind = iota
	EventMessage
	EventCallback
	EventInlineQuery
)

func (k EventKind) String() string {
	switch k {
	case EventMessage:
		return "message"
	case EventCallback:
		return "callback"
	case EventInlineQuery:
		return "inline_query"
	default:
		return "unknown"
	}
}

// Message is an incoming chat message.
type Message struct {
	ID     int
	ChatID int64
	From   *User
	Text   string
}

// MessageRef points at a message sent to a regular chat.
type MessageRef struct {
	ChatID    int64
	MessageID int
}

// Callback is a press on an inline keyboard button. Exactly one of Message and
// InlineMessageID is set when Telegram still knows the originating message.
type Callback struct {
	ID              string
	From            User
	Data            string
	Message         *MessageRef
	InlineMessageID string
}

// InlineQuery is a query typed after the bot's @handle in any chat.
type InlineQuery struct {
	ID    string
	From  User
	Query string
}

// Event is one inbound update. Exactly the field matching Kind is set.
type Event struct {
	UpdateID    int
	Kind        EventKind
	Message     *Message
	Callback    *Callback
	InlineQuery *InlineQuery
}

// SenderID returns the Telegram id of whoever caused the event, or 0.
func (e Event) SenderID() int64 {
	switch {
	case e.Message != nil && e.Message.From != nil:
		return e.Message.From.ID
	case e.Callback != nil:
		return e.Callback.From.ID
	case e.InlineQuery != nil:
		return e.InlineQuery.From.ID
	}
	return 0
}
