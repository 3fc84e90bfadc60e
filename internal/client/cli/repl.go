package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printlnFn and printFn are test seams for REPL output.
var (
	printlnFn = fmt.Println
	printFn   = fmt.Print
)

// execIface is the command surface the REPL drives. App satisfies it; tests
// provide a stub.
type execIface interface {
	isLoggedIn() bool
	takeExpired() bool
	panelInteraction(inside bool)

	Register(ctx context.Context) error
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	Verify(ctx context.Context) error
	WhoAmI(ctx context.Context) error
	Profile(ctx context.Context) error
	Passwd(ctx context.Context) error

	Notifications(ctx context.Context) error
	Read(ctx context.Context, id string) error
	Refresh(ctx context.Context) error

	Bookmarks(ctx context.Context) error
	Bookmark(ctx context.Context, jobID string) error
	Unbookmark(ctx context.Context, jobID string) error
	Applied(ctx context.Context) error
}

// panelCommands address the notification panel; every other command counts
// as an interaction outside it.
var panelCommands = map[string]struct{}{
	"notifications": {}, "n": {}, "read": {}, "refresh": {},
}

// runREPL reads commands line by line and dispatches them to a until EOF,
// "exit" or "quit".
//
//	Not logged in: help, register, login, verify, exit
//	Logged in:     help, whoami, profile, passwd, notifications, read <id>,
//	               refresh, close, bookmarks, bookmark <job id>,
//	               unbookmark <job id>, applied, logout, exit
//
// Handler errors are not shown here; handlers print their own feedback.
//
// Commands share reader with the prompts they issue, so no input is
// buffered away from them.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		if a.takeExpired() {
			printlnFn(SessionExpiredMessage)
		}

		printFn(fmt.Sprintf("hirehub %s> ", statusFn()))
		line, err := reader.ReadString('\n')
		if err != nil && line == "" {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		_, inside := panelCommands[cmd]
		a.panelInteraction(inside)

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn("Available commands: whoami, profile, passwd, (n)otifications, read <id>, refresh, close, bookmarks, bookmark <job id>, unbookmark <job id>, applied, logout, exit")
			} else {
				printlnFn("Available commands: register, login, verify, exit")
			}

		case "register":
			_ = a.Register(ctx)

		case "login":
			_ = a.Login(ctx)

		case "verify":
			_ = a.Verify(ctx)

		case "logout":
			_ = a.Logout(ctx)

		case "whoami":
			_ = a.WhoAmI(ctx)

		case "profile":
			_ = a.Profile(ctx)

		case "passwd":
			_ = a.Passwd(ctx)

		case "n", "notifications":
			_ = a.Notifications(ctx)

		case "read":
			if len(args) == 0 {
				printlnFn("Usage: read <id>")
				continue
			}
			_ = a.Read(ctx, args[0])

		case "refresh":
			_ = a.Refresh(ctx)

		case "bookmarks":
			_ = a.Bookmarks(ctx)

		case "bookmark", "unbookmark":
			if len(args) == 0 {
				printlnFn("Usage:", cmd, "<job id>")
				continue
			}
			if cmd == "bookmark" {
				_ = a.Bookmark(ctx, args[0])
			} else {
				_ = a.Unbookmark(ctx, args[0])
			}

		case "applied":
			_ = a.Applied(ctx)

		case "close":
			// closing happened above: "close" is outside the panel

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}
