package terminal

import (
	"errors"
	"io"
	"io/fs"
	"os"
	"strings"
	"sync"

	"golang.org/x/term"
)

// Prompter reads one line of operator input.
// It returns io.EOF when the operator ends input instead of entering a line.
type Prompter interface {
	PromptLine(prompt string) (string, error)
}

// LineEditor prompts on the raw console with golang.org/x/term line editing.
// Writes go through the same terminal, which turns "\n" into "\r\n".
type LineEditor struct {
	t *term.Terminal
}

// NewLineEditor edits lines read from in and echoed to out.
func NewLineEditor(in io.Reader, out io.Writer) *LineEditor {
	rw := struct {
		io.Reader
		io.Writer
	}{in, out}
	return &LineEditor{t: term.NewTerminal(rw, "")}
}

func (e *LineEditor) PromptLine(prompt string) (string, error) {
	e.t.SetPrompt(prompt)
	return e.t.ReadLine()
}

func (e *LineEditor) Write(p []byte) (int, error) {
	return e.t.Write(p)
}

// Recall lets the operator step through h with the arrow keys.
func (e *LineEditor) Recall(h *History) {
	e.t.History = recall{h}
}

// recall exposes a History to term.Terminal. Callers of PromptLine record
// lines themselves, so the terminal's own Add is ignored.
type recall struct {
	h *History
}

func (r recall) Add(string) {}

func (r recall) Len() int {
	return r.h.Len()
}

func (r recall) At(idx int) string {
	return r.h.At(idx)
}

// History retains the non-empty lines entered at prompts. Lines from earlier
// sessions are loaded from a file and new ones appended to it when the
// session ends.
type History struct {
	mu    sync.Mutex
	path  string
	lines []string
	saved int
}

// NewHistory returns a history saved to path. An empty path keeps the
// history in memory only.
func NewHistory(path string) *History {
	return &History{path: path}
}

// Add records a line. Empty lines are ignored.
func (h *History) Add(line string) {
	if line == "" {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	h.lines = append(h.lines, line)
}

// Load reads the lines saved by earlier sessions. It must be called before
// Add. A missing file is an empty history.
func (h *History) Load() error {
	if h.path == "" {
		return nil
	}
	data, err := os.ReadFile(h.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return err
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for _, line := range strings.Split(string(data), "\n") {
		if line != "" {
			h.lines = append(h.lines, line)
		}
	}
	h.saved = len(h.lines)
	return nil
}

// Len returns the number of lines recorded.
func (h *History) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.lines)
}

// At returns a line counting back from the most recent, which is 0.
func (h *History) At(idx int) string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.lines[len(h.lines)-1-idx]
}

// Lines returns the lines recorded so far.
func (h *History) Lines() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]string(nil), h.lines...)
}

// Save appends the lines not yet saved to the history file.
func (h *History) Save() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.path == "" || h.saved == len(h.lines) {
		return nil
	}
	f, err := os.OpenFile(h.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
	if err != nil {
		return err
	}
	defer f.Close()

	if _, err := f.WriteString(strings.Join(h.lines[h.saved:], "\n") + "\n"); err != nil {
		return err
	}
	h.saved = len(h.lines)
	return nil
}
