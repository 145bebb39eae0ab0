package engine

// Intent is the abstract input set shared by all input devices. Keyboard,
// pointer, and on-screen buttons all reduce to these.
type Intent int

// Supported intents.
const (
	IntentNone Intent = iota
	IntentUp
	IntentDown
	IntentLeft
	IntentRight
	IntentAction
	IntentStart
	IntentTogglePause
	IntentRestart
)
