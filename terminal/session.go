package terminal

// Mode is the state of the console input state machine.
type Mode int

const (
	ModeNormal Mode = iota
	ModeEscape
)

func (m Mode) String() string {
	if m == ModeEscape {
		return "escape"
	}
	return "normal"
}

// Session is the live interactive state, owned by the Mux.
type Session struct {
	Mode       Mode
	EscapeChar byte
	Timestamp  bool
}

// NewSession returns a session in normal mode.
func NewSession(escape byte, timestamp bool) *Session {
	return &Session{
		EscapeChar: escape,
		Timestamp:  timestamp,
	}
}

// HandleConsole runs one batch of console input through the state machine.
// It returns the bytes to write to the line, if any, and the command the
// batch selected.
//
// In normal mode a batch that is exactly the escape character switches to
// escape mode; anything else goes to the line untouched. In escape mode the
// first byte of the batch is a command key and the rest of the batch is
// dropped.
func (s *Session) HandleConsole(batch []byte) ([]byte, Command) {
	if len(batch) == 0 {
		return nil, CmdNone
	}

	if s.Mode == ModeNormal {
		if len(batch) == 1 && batch[0] == s.EscapeChar {
			s.Mode = ModeEscape
			return nil, CmdNone
		}
		return batch, CmdNone
	}

	s.Mode = ModeNormal
	cmd := LookupCommand(batch[0], s.EscapeChar)
	switch cmd {
	case CmdLiteralEscape:
		return []byte{s.EscapeChar}, cmd
	case CmdToggleTimestamp:
		s.Timestamp = !s.Timestamp
	}
	return nil, cmd
}
