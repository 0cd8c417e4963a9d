package bot

// Event is one inbound user turn delivered by the chat transport:
// either a command or free text, always bound to a user and chat.
type Event struct {
	UserID    int64
	ChatID    int64
	FirstName string
	// Command is the command name without the leading slash, empty
	// for plain text messages.
	Command string
	Text    string
}

// Reply is one outbound message. Options are short selectable labels
// rendered by the transport (a reply keyboard in telegram terms).
type Reply struct {
	ChatID int64
	Text   string
	// Options, when set, are offered as tappable choices.
	Options []string
	// RemoveOptions clears a previously offered keyboard.
	RemoveOptions bool
}

// Sender is the outbound half of the chat transport. The state
// machine emits at least one reply per turn through it.
type Sender interface {
	Send(reply Reply) error
}
