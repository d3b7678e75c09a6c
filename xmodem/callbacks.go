package xmodem

// Callbacks provides hooks for transfer events.
// All callbacks are optional - nil callbacks use default behavior.
type Callbacks struct {
	// OnFileStart is called once the file is open, before the handshake.
	OnFileStart func(filename string, size int64)

	// OnProgress is called every ProgressEvery packets.
	// sent: bytes acknowledged so far
	// total: file size from stat (0 if empty)
	// packets: data packets acknowledged so far
	OnProgress func(filename string, sent, total int64, packets int)

	// OnFileComplete is called after the receiver acknowledged EOT.
	OnFileComplete func(filename string, summary *Summary)

	// OnError is called when a transfer aborts.
	// context: description of where the error occurred
	OnError func(err error, context string)
}

// defaultCallbacks returns a set of callbacks with default implementations.
func defaultCallbacks() *Callbacks {
	return &Callbacks{
		OnFileStart:    func(string, int64) {},
		OnProgress:     func(string, int64, int64, int) {},
		OnFileComplete: func(string, *Summary) {},
		OnError:        func(error, string) {},
	}
}

// mergeCallbacks merges user callbacks with defaults.
// User callbacks override defaults, nil callbacks use defaults.
func mergeCallbacks(user *Callbacks) *Callbacks {
	result := defaultCallbacks()
	if user == nil {
		return result
	}

	if user.OnFileStart != nil {
		result.OnFileStart = user.OnFileStart
	}
	if user.OnProgress != nil {
		result.OnProgress = user.OnProgress
	}
	if user.OnFileComplete != nil {
		result.OnFileComplete = user.OnFileComplete
	}
	if user.OnError != nil {
		result.OnError = user.OnError
	}

	return result
}
