package model

// CommandKind discriminates outbound message commands
type CommandKind string

const (
	CommandSendText       CommandKind = "send_text"
	CommandEditText       CommandKind = "edit_text"
	CommandSendPhoto      CommandKind = "send_photo"
	CommandAnswerCallback CommandKind = "answer_callback"
)

// Button is one inline keyboard button carrying an opaque action tag
type Button struct {
	Text   string
	Action string
}

// Keyboard is an inline keyboard, rows of buttons
type Keyboard struct {
	Rows [][]Button
}

// Command is an immutable outbound message command. The dispatcher
// selects the sink operation by Kind alone.
type Command struct {
	Kind CommandKind

	ChatID    ChatID
	MessageID int
	Text      string
	PhotoRef  string

	CallbackID string
	ShowAlert  bool

	Keyboard *Keyboard
}

// SendText builds a send-text command
func SendText(chatID ChatID, text string, kb *Keyboard) Command {
	return Command{Kind: CommandSendText, ChatID: chatID, Text: text, Keyboard: kb}
}

// EditText builds an edit-text command for an existing message
func EditText(chatID ChatID, messageID int, text string, kb *Keyboard) Command {
	return Command{Kind: CommandEditText, ChatID: chatID, MessageID: messageID, Text: text, Keyboard: kb}
}

// SendPhoto builds a send-photo command from a platform photo reference
func SendPhoto(chatID ChatID, photoRef string, kb *Keyboard) Command {
	return Command{Kind: CommandSendPhoto, ChatID: chatID, PhotoRef: photoRef, Keyboard: kb}
}

// AnswerCallback builds an answer-callback command
func AnswerCallback(callbackID, text string, alert bool) Command {
	return Command{Kind: CommandAnswerCallback, CallbackID: callbackID, Text: text, ShowAlert: alert}
}
