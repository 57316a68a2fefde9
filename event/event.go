package event

// Type identifies the source of the message
type Type int

const (
	UserAction    Type = iota // A key or mouse action from the UI
	SystemControl             // Connection and lifecycle control
	AsyncResult               // Async work completion dispatched onto the session loop
)

func (t Type) String() string {
	switch t {
	case UserAction:
		return "user_action"
	case SystemControl:
		return "system_control"
	case AsyncResult:
		return "async_result"
	}
	return "unknown"
}

// Action is a user intent decoded from input.
type Action int

const (
	ActionNone Action = iota
	ActionQuit
	ActionTogglePause
	ActionNext
	ActionPrevious
	ActionSeekForward
	ActionSeekBackward
	ActionVolumeUp
	ActionVolumeDown
	ActionToggleRepeat
	ActionToggleRandom
	ActionToggleSingle
	ActionToggleConsume
	ActionHelp
	ActionBack
)

var actionNames = [...]string{
	ActionNone:          "none",
	ActionQuit:          "quit",
	ActionTogglePause:   "toggle_pause",
	ActionNext:          "next",
	ActionPrevious:      "previous",
	ActionSeekForward:   "seek_forward",
	ActionSeekBackward:  "seek_backward",
	ActionVolumeUp:      "volume_up",
	ActionVolumeDown:    "volume_down",
	ActionToggleRepeat:  "toggle_repeat",
	ActionToggleRandom:  "toggle_random",
	ActionToggleSingle:  "toggle_single",
	ActionToggleConsume: "toggle_consume",
	ActionHelp:          "help",
	ActionBack:          "back",
}

func (a Action) String() string {
	if a >= 0 && int(a) < len(actionNames) {
		return actionNames[a]
	}
	return "unknown"
}

// Control action constants
const (
	ControlQuit    = "quit"
	ControlConnect = "connect"
)

// ControlOp contains control operation details
type ControlOp struct {
	Action string // Use Control* constants
}

// Event is the universal packet sent to the Orchestrator
type Event struct {
	Type     Type
	Action   Action    // For UserAction events
	Callback func()    // For AsyncResult events
	Control  ControlOp // For SystemControl events
}
