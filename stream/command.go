package stream

// Command types accepted from clients.
const (
	CommandPause  = "pause"
	CommandResume = "resume"
	CommandSpeed  = "speed"
)

// Command is a control message from a client.
type Command struct {
	Type  string `json:"type"`
	Value int    `json:"value,omitempty"`
}

// Controller is what commands act on.
type Controller interface {
	SetPaused(paused bool)
	SetSpeed(n int)
}

// Valid reports whether the command type is known.
func (c Command) Valid() bool {
	switch c.Type {
	case CommandPause, CommandResume, CommandSpeed:
		return true
	}
	return false
}

// Apply performs the command on ctrl. Unknown commands are ignored.
func (c Command) Apply(ctrl Controller) {
	switch c.Type {
	case CommandPause:
		ctrl.SetPaused(true)
	case CommandResume:
		ctrl.SetPaused(false)
	case CommandSpeed:
		ctrl.SetSpeed(c.Value)
	}
}
