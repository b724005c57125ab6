package tui

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

type commandKind int

const (
	cmdSend commandKind = iota
	cmdAdd
	cmdOpen
	cmdForward
	cmdQuit
)

type command struct {
	kind  commandKind
	text  string
	email string
	// 1-based positions as shown on screen
	chat    int
	message int
}

var errEmptyInput = errors.New("nothing to send")

// parseCommand turns an input line into a command. Anything that does not
// start with a slash is a message for the active chat.
func parseCommand(line string) (command, error) {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		return command{}, errEmptyInput
	}
	if !strings.HasPrefix(trimmed, "/") {
		return command{kind: cmdSend, text: trimmed}, nil
	}

	fields := strings.Fields(trimmed)
	switch fields[0] {
	case "/quit", "/q":
		return command{kind: cmdQuit}, nil
	case "/add":
		if len(fields) != 2 {
			return command{}, errors.New("usage: /add <email>")
		}
		return command{kind: cmdAdd, email: fields[1]}, nil
	case "/open":
		if len(fields) != 2 {
			return command{}, errors.New("usage: /open <chat#>")
		}
		n, err := position(fields[1])
		if err != nil {
			return command{}, err
		}
		return command{kind: cmdOpen, chat: n}, nil
	case "/fwd":
		if len(fields) != 3 {
			return command{}, errors.New("usage: /fwd <msg#> <chat#>")
		}
		msg, err := position(fields[1])
		if err != nil {
			return command{}, err
		}
		chat, err := position(fields[2])
		if err != nil {
			return command{}, err
		}
		return command{kind: cmdForward, message: msg, chat: chat}, nil
	default:
		return command{}, fmt.Errorf("unknown command %s", fields[0])
	}
}

func position(raw string) (int, error) {
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 0, fmt.Errorf("%q is not a list number", raw)
	}
	return n, nil
}
