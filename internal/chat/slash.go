package chat

import (
	"sort"
	"strings"
	"unicode"

	"github.com/sahilm/fuzzy"
)

// Command is one builtin slash command.
type Command string

const (
	CommandTools   Command = "tools"
	CommandConnect Command = "connect"
	CommandStatus  Command = "status"
	CommandModel   Command = "model"
	CommandClear   Command = "clear"
	CommandCopy    Command = "copy"
	CommandHelp    Command = "help"
	CommandQuit    Command = "quit"
)

type commandItem struct {
	Command     Command
	Description string
}

func builtinCommands() []commandItem {
	return []commandItem{
		{CommandTools, "list the simulation tools the server exposes"},
		{CommandConnect, "re-check the server and refresh the tool list"},
		{CommandStatus, "show server connection and model status"},
		{CommandModel, "override the chat model for this session"},
		{CommandClear, "clear the conversation"},
		{CommandCopy, "copy the last assistant reply"},
		{CommandHelp, "show available commands"},
		{CommandQuit, "exit the chat"},
	}
}

// slashState tracks the command menu while the input line starts with '/'.
type slashState struct {
	items    []commandItem
	matches  []commandItem
	selected int
	open     bool
}

func newSlashState() *slashState {
	return &slashState{items: builtinCommands()}
}

// SyncInput refilters the menu against the current input line. The menu is
// only open while the cursor is still inside the command token.
func (s *slashState) SyncInput(value string) {
	token, _, found := splitSlashToken(value)
	if !found || strings.ContainsFunc(value, unicode.IsSpace) {
		s.open = false
		s.matches = nil
		return
	}
	s.open = true
	s.matches = filterCommands(s.items, token)
	if s.selected >= len(s.matches) {
		s.selected = 0
	}
}

func (s *slashState) Open() bool { return s.open }

func (s *slashState) Close() {
	s.open = false
	s.matches = nil
	s.selected = 0
}

func (s *slashState) Move(delta int) {
	if len(s.matches) == 0 {
		return
	}
	s.selected = (s.selected + delta + len(s.matches)) % len(s.matches)
}

// Selected returns the highlighted command, if any.
func (s *slashState) Selected() (Command, bool) {
	if !s.open || len(s.matches) == 0 {
		return "", false
	}
	return s.matches[s.selected].Command, true
}

// View renders the menu rows for display under the input.
func (s *slashState) View() []commandItem {
	if !s.open {
		return nil
	}
	return s.matches
}

// ResolveSubmit parses a submitted line into a command and its arguments.
// Only exact command names resolve on submit; prefixes are menu business.
func ResolveSubmit(value string) (Command, string, bool) {
	token, args, found := splitSlashToken(value)
	if !found || token == "" {
		return "", "", false
	}
	for _, item := range builtinCommands() {
		if strings.EqualFold(string(item.Command), token) {
			return item.Command, args, true
		}
	}
	return "", "", false
}

func splitSlashToken(value string) (token, args string, found bool) {
	line := strings.TrimRight(value, "\n")
	if !strings.HasPrefix(line, "/") {
		return "", "", false
	}
	rest := line[1:]
	if idx := strings.IndexFunc(rest, unicode.IsSpace); idx >= 0 {
		return rest[:idx], strings.TrimSpace(rest[idx:]), true
	}
	return rest, "", true
}

func filterCommands(items []commandItem, query string) []commandItem {
	trimmed := strings.ToLower(strings.TrimSpace(query))
	if trimmed == "" {
		return items
	}
	keys := make([]string, len(items))
	for i, item := range items {
		keys[i] = string(item.Command)
	}
	results := fuzzy.Find(trimmed, keys)
	sort.SliceStable(results, func(i, j int) bool {
		if results[i].Score == results[j].Score {
			return keys[results[i].Index] < keys[results[j].Index]
		}
		return results[i].Score > results[j].Score
	})
	out := make([]commandItem, 0, len(results))
	for _, res := range results {
		out = append(out, items[res.Index])
	}
	return out
}
