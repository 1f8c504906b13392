package prompt

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	log "github.com/sirupsen/logrus"
	"golang.org/x/term"
)

// ErrAborted is returned when no answer can be read, e.g. stdin is closed or not a terminal
var ErrAborted = errors.New("confirmation aborted")

var isTerminal = term.IsTerminal

// Terminal asks yes/no questions on a reader/writer pair
type Terminal struct {
	in          *bufio.Reader
	out         io.Writer
	assumeYes   bool
	interactive bool
}

// NewTerminal creates a Terminal reading answers from in and writing questions to out.
// With assumeYes every question is answered with yes without reading input.
func NewTerminal(in io.Reader, out io.Writer, assumeYes bool) *Terminal {
	return &Terminal{
		in:          bufio.NewReader(in),
		out:         out,
		assumeYes:   assumeYes,
		interactive: true,
	}
}

// NewStdinTerminal creates a Terminal bound to the process stdin and the given output.
// When stdin is not a terminal, questions are aborted unless assumeYes is set.
func NewStdinTerminal(out io.Writer, assumeYes bool) *Terminal {
	return newFileTerminal(os.Stdin, out, assumeYes)
}

func newFileTerminal(in *os.File, out io.Writer, assumeYes bool) *Terminal {
	t := NewTerminal(in, out, assumeYes)
	t.interactive = isTerminal(int(in.Fd()))
	if !t.interactive && !assumeYes {
		log.Debugf("%s is not a terminal, confirmations will be aborted", in.Name())
	}
	return t
}

// Confirm prints message and waits for a yes/no answer. An empty answer selects def.
func (t *Terminal) Confirm(message string, def bool) (bool, error) {
	hint := "[y/N]"
	if def {
		hint = "[Y/n]"
	}

	if t.assumeYes {
		fmt.Fprintf(t.out, "%s %s: y\n", message, hint)
		return true, nil
	}

	if !t.interactive {
		fmt.Fprintf(t.out, "%s %s: input is not a terminal, rerun with --yes to confirm\n", message, hint)
		return false, ErrAborted
	}

	for {
		fmt.Fprintf(t.out, "%s %s: ", message, hint)

		line, err := t.in.ReadString('\n')
		if err != nil && (!errors.Is(err, io.EOF) || line == "") {
			fmt.Fprintln(t.out)
			if errors.Is(err, io.EOF) {
				return false, ErrAborted
			}
			return false, fmt.Errorf("read confirmation: %w", err)
		}

		switch strings.ToLower(strings.TrimSpace(line)) {
		case "":
			return def, nil
		case "y", "yes":
			return true, nil
		case "n", "no":
			return false, nil
		}

		fmt.Fprintln(t.out, "Error: invalid input")
	}
}
