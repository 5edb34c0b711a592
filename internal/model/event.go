package model

// EventKind discriminates inbound platform events
type EventKind string

const (
	EventMembership EventKind = "membership" // Bot membership changed in a chat
	EventCallback   EventKind = "callback"   // Inline keyboard button pressed
	EventText       EventKind = "text"       // Text message / command
	EventUnknown    EventKind = "unknown"    // Anything the bot does not care about
)

// MemberStatus is the bot's membership status reported by the platform
type MemberStatus string

const (
	MemberStatusMember MemberStatus = "member"
	MemberStatusLeft   MemberStatus = "left"
)

// Actor identifies the user who produced an event
type Actor struct {
	ID        PlayerID
	Username  string
	FirstName string
	LastName  string
}

// MembershipChange is the payload of an EventMembership event
type MembershipChange struct {
	// SubjectID is the user whose membership changed (the bot itself,
	// for the events this system reacts to)
	SubjectID PlayerID
	NewStatus MemberStatus
}

// CallbackAction is the payload of an EventCallback event
type CallbackAction struct {
	// ID is the callback query id, echoed back in answer-callback
	ID string
	// MessageID is the message carrying the pressed keyboard
	MessageID int
	// Action is the opaque action tag attached to the button
	Action string
}

// TextMessage is the payload of an EventText event
type TextMessage struct {
	Text string
}

// Event is one inbound platform event. Seq is the platform's
// monotonically increasing update id, echoed back as the poll cursor.
// Exactly one payload field is set, matching Kind.
type Event struct {
	Seq    int64
	ChatID ChatID
	Kind   EventKind
	Actor  Actor

	Membership *MembershipChange
	Callback   *CallbackAction
	Text       *TextMessage
}
