package protocol

import (
	"errors"
	"strings"
)

// ErrInvalidArgument is returned when a command or argument string contains
// a byte that cannot appear on the wire (a bare newline).
var ErrInvalidArgument = errors.New("protocol: argument contains a newline")

// ErrInvalidCommandName is returned when a command's name is empty,
// contains a byte outside [A-Za-z_], or is a command_list_* verb (those are
// synthesized by RawCommandList.Render, never issued directly).
var ErrInvalidCommandName = errors.New("protocol: invalid command name")

// RawCommand is a single MPD command with its already-rendered argument
// strings. Use NewRawCommand to build one; the zero value is not usable.
type RawCommand struct {
	name string
	args []string
}

// NewRawCommand starts building a command with the given verb (e.g. "play").
func NewRawCommand(name string) *RawCommand {
	return &RawCommand{name: name}
}

// Argument appends a pre-rendered argument. Use Escape to render values
// that may contain whitespace or quote characters.
func (c *RawCommand) Argument(arg string) *RawCommand {
	c.args = append(c.args, arg)
	return c
}

// render writes the command as a single wire line, without the trailing
// newline.
func (c *RawCommand) render(sb *strings.Builder) error {
	if !validCommandName(c.name) {
		return ErrInvalidCommandName
	}
	sb.WriteString(c.name)
	for _, a := range c.args {
		if strings.ContainsAny(a, "\n\r") {
			return ErrInvalidArgument
		}
		sb.WriteByte(' ')
		sb.WriteString(a)
	}
	return nil
}

// Render returns the command as a single wire line, without the trailing
// newline.
func (c *RawCommand) Render() (string, error) {
	var sb strings.Builder
	if err := c.render(&sb); err != nil {
		return "", err
	}
	return sb.String(), nil
}

// RawCommandList is a sequence of commands sent in one round trip through
// the idle loop. Two or more commands go out as a single
// command_list_ok_begin ... command_list_end block; a single command goes
// out as its bare line.
type RawCommandList struct {
	commands []*RawCommand
}

// NewRawCommandList builds a command list out of one or more commands. A
// single-command list is not wrapped: it goes out as the plain command line
// and its response is a single OK-terminated frame.
func NewRawCommandList(cmds ...*RawCommand) *RawCommandList {
	return &RawCommandList{commands: cmds}
}

// Len returns the number of commands in the list.
func (l *RawCommandList) Len() int {
	return len(l.commands)
}

// Render returns the full wire representation of the command list, with a
// terminating newline on every line. Lists of two or more commands include
// the command_list_ok_begin/command_list_end wrapper; a one-command list is
// rendered as just that command.
func (l *RawCommandList) Render() (string, error) {
	var sb strings.Builder
	if len(l.commands) == 1 {
		if err := l.commands[0].render(&sb); err != nil {
			return "", err
		}
		sb.WriteByte('\n')
		return sb.String(), nil
	}

	sb.WriteString("command_list_ok_begin\n")
	for _, c := range l.commands {
		if err := c.render(&sb); err != nil {
			return "", err
		}
		sb.WriteByte('\n')
	}
	sb.WriteString("command_list_end\n")
	return sb.String(), nil
}

// Escape renders an argument per the MPD escaping law: wrap in double quotes
// if the value contains a space or a tab, and backslash-escape '"', '\\' and '\''
// wherever they occur. Returns an error if the value contains a newline,
// which cannot be represented on the wire at all.
func Escape(value string) (string, error) {
	if strings.ContainsAny(value, "\n\r") {
		return "", ErrInvalidArgument
	}

	needsQuoting := strings.ContainsAny(value, " \t")

	var sb strings.Builder
	if needsQuoting {
		sb.WriteByte('"')
	}
	for _, r := range value {
		switch r {
		case '"', '\\', '\'':
			sb.WriteByte('\\')
			sb.WriteRune(r)
		default:
			sb.WriteRune(r)
		}
	}
	if needsQuoting {
		sb.WriteByte('"')
	}
	return sb.String(), nil
}

// MustEscape is like Escape but panics on error; intended for call sites
// building commands from compile-time constant arguments.
func MustEscape(value string) string {
	s, err := Escape(value)
	if err != nil {
		panic(err)
	}
	return s
}

// validCommandName reports whether name is non-empty, consists only of
// ASCII letters and underscores, and is not a command_list_* verb (those
// are synthesized by RawCommandList.Render and must never be issued
// directly by a caller).
func validCommandName(name string) bool {
	if name == "" || strings.HasPrefix(name, "command_list_") {
		return false
	}
	for _, r := range name {
		if !(r >= 'A' && r <= 'Z') && !(r >= 'a' && r <= 'z') && r != '_' {
			return false
		}
	}
	return true
}
