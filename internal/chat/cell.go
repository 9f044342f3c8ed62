package chat

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"flexsim-mcp/internal/agent"
)

const maxToolOutputLines = 40

var (
	userStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#00AAAA")).Bold(true)
	assistantTint = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFFFFF"))
	toolStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#7D56F4")).Bold(true)
	okStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("#00AA00")).Bold(true)
	errStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#CC0000")).Bold(true)
	dimStyle      = lipgloss.NewStyle().Faint(true)
)

// historyCell is an append-only transcript block.
type historyCell interface {
	// ID correlates streamed updates with an existing cell; empty means
	// append-only.
	ID() string
	Render(width int) []string
}

type userCell struct {
	text string
}

func (c userCell) ID() string { return "" }

func (c userCell) Render(width int) []string {
	lines := wrapText(c.text, width-2)
	out := make([]string, 0, len(lines))
	for i, line := range lines {
		prefix := "  "
		if i == 0 {
			prefix = userStyle.Render("> ")
		}
		out = append(out, prefix+line)
	}
	return out
}

type assistantCell struct {
	id   string
	text string
}

func (c *assistantCell) ID() string { return c.id }

func (c *assistantCell) Append(chunk string) { c.text += chunk }

func (c *assistantCell) Text() string { return c.text }

func (c *assistantCell) Render(width int) []string {
	text := strings.TrimRight(c.text, "\n")
	if text == "" {
		return nil
	}
	lines := wrapText(text, width)
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		out = append(out, assistantTint.Render(line))
	}
	return out
}

type toolCallCell struct {
	call agent.ToolCall
}

func (c toolCallCell) ID() string { return c.call.ID }

func (c toolCallCell) Render(width int) []string {
	args := compactJSON(c.call.Arguments)
	line := toolStyle.Render("⚒ calling ") + c.call.Name
	if args != "" && args != "{}" {
		line += dimStyle.Render(" " + args)
	}
	return []string{truncateLine(line, width)}
}

type toolResultCell struct {
	callID  string
	name    string
	content string
	isError bool
}

func (c toolResultCell) ID() string { return c.callID }

func (c toolResultCell) Render(width int) []string {
	icon := okStyle.Render("✓ ")
	status := "completed"
	if c.isError {
		icon = errStyle.Render("✗ ")
		status = "failed"
	}
	out := []string{icon + toolStyle.Render(c.name) + dimStyle.Render(" "+status)}
	body := strings.TrimRight(c.content, "\n")
	if body == "" {
		return out
	}
	lines := wrapText(body, width-4)
	if len(lines) > maxToolOutputLines {
		lines = append(lines[:maxToolOutputLines], "…")
	}
	for _, line := range lines {
		out = append(out, dimStyle.Render("  └ "+line))
	}
	return out
}

type systemCell struct {
	text string
}

func (c systemCell) ID() string { return "" }

func (c systemCell) Render(width int) []string {
	lines := wrapText(c.text, width)
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		out = append(out, dimStyle.Render(line))
	}
	return out
}

func compactJSON(raw json.RawMessage) string {
	var buf bytes.Buffer
	if err := json.Compact(&buf, raw); err != nil {
		return strings.TrimSpace(string(raw))
	}
	return buf.String()
}

func wrapText(text string, width int) []string {
	if width <= 0 {
		width = 80
	}
	var lines []string
	for _, raw := range strings.Split(text, "\n") {
		if raw == "" {
			lines = append(lines, "")
			continue
		}
		lines = append(lines, wrapLineWords(raw, width)...)
	}
	return lines
}

func wrapLineWords(line string, width int) []string {
	if width <= 0 || runewidth.StringWidth(line) <= width {
		return []string{line}
	}
	var out []string
	cur := ""
	for _, word := range strings.Fields(line) {
		if cur == "" {
			cur = word
			continue
		}
		if runewidth.StringWidth(cur)+1+runewidth.StringWidth(word) <= width {
			cur += " " + word
			continue
		}
		out = append(out, cur)
		cur = word
	}
	if cur != "" {
		out = append(out, cur)
	}
	if len(out) == 0 {
		return []string{line}
	}
	return out
}

func truncateLine(line string, width int) string {
	if width <= 0 {
		return line
	}
	return runewidth.Truncate(line, width, "…")
}
