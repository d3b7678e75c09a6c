package terminal

// Command is an action selected by the key typed after the escape character.
type Command int

const (
	CmdNone Command = iota // unrecognized key, ignored
	CmdLiteralEscape
	CmdToggleTimestamp
	CmdRemoteCommand
	CmdSendFile
	CmdSendLine
	CmdExit
)

var commandNames = map[Command]string{
	CmdNone:            "none",
	CmdLiteralEscape:   "literal escape",
	CmdToggleTimestamp: "toggle timestamp",
	CmdRemoteCommand:   "remote command",
	CmdSendFile:        "send file",
	CmdSendLine:        "send line",
	CmdExit:            "exit",
}

func (c Command) String() string {
	if name, ok := commandNames[c]; ok {
		return name
	}
	return "unknown"
}

var commandKeys = map[byte]Command{
	't': CmdToggleTimestamp,
	'c': CmdRemoteCommand,
	's': CmdSendFile,
	'h': CmdSendLine,
	'x': CmdExit,
}

// LookupCommand maps a command key to its command. The escape character
// itself stands for a literal escape; letters are case-insensitive.
func LookupCommand(key, escape byte) Command {
	if key == escape {
		return CmdLiteralEscape
	}
	if key >= 'A' && key <= 'Z' {
		key += 'a' - 'A'
	}
	return commandKeys[key]
}
