package chat

import (
	"context"
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"

	"flexsim-mcp/internal/agent"
	"flexsim-mcp/internal/logger"
	"flexsim-mcp/internal/mcp"
)

const inputHeight = 3

var (
	statusStyle = lipgloss.NewStyle().Faint(true)
	menuStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#7D56F4"))
	menuSelKey  = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFFFFF")).Bold(true)
)

// Options wires the chat UI to its collaborators.
type Options struct {
	Client     agent.ModelClient
	Broker     ToolBroker
	Specs      []agent.ToolSpec
	ToolNames  []string
	ModelName  string
	ServerInfo mcp.Implementation
	Banner     string
}

type turnEventMsg struct {
	ev TurnEvent
	ok bool
}

// Model is the bubbletea state for the chat front end.
type Model struct {
	opts  Options
	ta    textarea.Model
	vp    viewport.Model
	spin  spinner.Model
	slash *slashState
	log   *logger.LogEntry

	cells     []historyCell
	active    *assistantCell
	history   []agent.Message
	turn      *Turn
	cancel    context.CancelFunc
	modelName string
	lastReply string
	pending   bool
	ready     bool
	width     int
	height    int
	err       error
}

// New builds the chat model; the tea program drives it.
func New(opts Options) *Model {
	ta := textarea.New()
	ta.Placeholder = "Ask about the simulation, or type / for commands"
	ta.ShowLineNumbers = false
	ta.SetHeight(1)
	ta.Focus()

	spin := spinner.New()
	spin.Spinner = spinner.MiniDot

	m := &Model{
		opts:      opts,
		ta:        ta,
		spin:      spin,
		slash:     newSlashState(),
		log:       logger.Named("chat-ui"),
		modelName: opts.ModelName,
	}
	if opts.Banner != "" {
		m.cells = append(m.cells, systemCell{text: opts.Banner})
	}
	return m
}

// History returns the conversation as it stood when the UI exited.
func (m *Model) History() []agent.Message {
	return m.history
}

func (m *Model) Init() tea.Cmd {
	return textarea.Blink
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		vpHeight := msg.Height - inputHeight - 2
		if vpHeight < 1 {
			vpHeight = 1
		}
		if !m.ready {
			m.vp = viewport.New(msg.Width, vpHeight)
			m.ready = true
		} else {
			m.vp.Width = msg.Width
			m.vp.Height = vpHeight
		}
		m.ta.SetWidth(msg.Width - 2)
		m.refreshTranscript()
		return m, nil

	case spinner.TickMsg:
		if !m.pending {
			return m, nil
		}
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case turnEventMsg:
		return m.handleTurnEvent(msg)

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	var cmd tea.Cmd
	m.ta, cmd = m.ta.Update(msg)
	m.slash.SyncInput(m.ta.Value())
	return m, cmd
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		m.stopTurn()
		return m, tea.Quit
	case "ctrl+y":
		m.copyLastReply()
		return m, nil
	case "esc":
		if m.slash.Open() {
			m.slash.Close()
			return m, nil
		}
		if m.pending {
			m.stopTurn()
			m.appendCell(systemCell{text: "Interrupted."})
			return m, nil
		}
		return m, nil
	case "up", "ctrl+p":
		if m.slash.Open() {
			m.slash.Move(-1)
			return m, nil
		}
	case "down", "ctrl+n":
		if m.slash.Open() {
			m.slash.Move(1)
			return m, nil
		}
	case "pgup":
		m.vp.HalfViewUp()
		return m, nil
	case "pgdown":
		m.vp.HalfViewDown()
		return m, nil
	case "tab":
		if cmd, ok := m.slash.Selected(); ok {
			m.ta.SetValue("/" + string(cmd) + " ")
			m.ta.CursorEnd()
			m.slash.Close()
			return m, nil
		}
	case "enter":
		if cmd, ok := m.slash.Selected(); ok {
			m.slash.Close()
			m.ta.Reset()
			return m.runCommand(cmd, "")
		}
		return m.submit()
	}

	var cmd tea.Cmd
	m.ta, cmd = m.ta.Update(msg)
	m.slash.SyncInput(m.ta.Value())
	return m, cmd
}

func (m *Model) submit() (tea.Model, tea.Cmd) {
	text := strings.TrimSpace(m.ta.Value())
	if text == "" {
		return m, nil
	}
	if cmd, args, ok := ResolveSubmit(text); ok {
		m.ta.Reset()
		m.slash.Close()
		return m.runCommand(cmd, args)
	}
	if strings.HasPrefix(text, "/") {
		m.appendCell(systemCell{text: "Unknown command. Type /help for the list."})
		return m, nil
	}
	if m.pending {
		return m, nil
	}

	m.ta.Reset()
	m.appendCell(userCell{text: text})
	m.history = append(m.history, agent.UserMessage(text))
	m.active = nil
	m.pending = true

	ctx, cancel := context.WithCancel(context.Background())
	m.cancel = cancel
	m.turn = StartTurn(ctx, m.opts.Client, m.opts.Broker, m.opts.Specs, m.modelName, m.history)
	return m, tea.Batch(waitTurn(m.turn), m.spin.Tick)
}

func (m *Model) runCommand(cmd Command, args string) (tea.Model, tea.Cmd) {
	switch cmd {
	case CommandQuit:
		m.stopTurn()
		return m, tea.Quit
	case CommandClear:
		m.cells = nil
		m.history = nil
		m.active = nil
		m.lastReply = ""
		m.refreshTranscript()
		return m, nil
	case CommandCopy:
		m.copyLastReply()
		return m, nil
	case CommandTools:
		if len(m.opts.ToolNames) == 0 {
			m.appendCell(systemCell{text: "No tools advertised by the server."})
			return m, nil
		}
		var sb strings.Builder
		fmt.Fprintf(&sb, "Available tools (%d):\n", len(m.opts.ToolNames))
		for _, name := range m.opts.ToolNames {
			sb.WriteString("  • " + name + "\n")
		}
		m.appendCell(systemCell{text: strings.TrimRight(sb.String(), "\n")})
		return m, nil
	case CommandConnect:
		descriptors, err := m.opts.Broker.ListTools()
		if err != nil {
			m.appendCell(systemCell{text: "Server unreachable: " + err.Error()})
			return m, nil
		}
		names := make([]string, 0, len(descriptors))
		for _, d := range descriptors {
			names = append(names, d.Name)
		}
		m.opts.Specs = SpecsFromDescriptors(descriptors)
		m.opts.ToolNames = names
		m.appendCell(systemCell{text: connectBanner(m.opts.ServerInfo, names)})
		return m, nil
	case CommandStatus:
		text := fmt.Sprintf("Server: %s %s\nModel: %s\nTools: %d",
			m.opts.ServerInfo.Name, m.opts.ServerInfo.Version, m.modelName, len(m.opts.ToolNames))
		m.appendCell(systemCell{text: text})
		return m, nil
	case CommandModel:
		if strings.TrimSpace(args) == "" {
			m.appendCell(systemCell{text: "Current model: " + m.modelName})
			return m, nil
		}
		m.modelName = strings.TrimSpace(args)
		m.appendCell(systemCell{text: "Model set to " + m.modelName})
		return m, nil
	case CommandHelp:
		var sb strings.Builder
		sb.WriteString("Commands:\n")
		for _, item := range builtinCommands() {
			fmt.Fprintf(&sb, "  /%-8s %s\n", item.Command, item.Description)
		}
		sb.WriteString("Keys: ctrl+y copy last reply, esc interrupt, ctrl+c quit")
		m.appendCell(systemCell{text: sb.String()})
		return m, nil
	}
	return m, nil
}

func (m *Model) handleTurnEvent(msg turnEventMsg) (tea.Model, tea.Cmd) {
	if !msg.ok {
		m.pending = false
		m.turn = nil
		return m, nil
	}
	ev := msg.ev
	switch ev.Kind {
	case TurnChunk:
		if m.active == nil {
			m.active = &assistantCell{id: uuid.NewString()}
			m.cells = append(m.cells, m.active)
		}
		m.active.Append(ev.Text)
		m.refreshTranscript()
	case TurnToolCall:
		if ev.Call != nil {
			m.active = nil
			m.appendCell(toolCallCell{call: *ev.Call})
		}
	case TurnToolResult:
		if ev.Call != nil && ev.Result != nil {
			m.appendCell(toolResultCell{
				callID:  ev.Result.CallID,
				name:    ev.Call.Name,
				content: ev.Result.Content,
				isError: ev.Result.IsError,
			})
		}
	case TurnDone:
		m.history = ev.History
		m.finishTurn()
	case TurnFailed:
		m.history = ev.History
		m.err = ev.Err
		m.log.WithField("error", fmt.Sprint(ev.Err)).Error("turn failed")
		m.appendCell(systemCell{text: fmt.Sprintf("Error: %v", ev.Err)})
		m.finishTurn()
	}
	if m.turn != nil {
		return m, waitTurn(m.turn)
	}
	return m, nil
}

func (m *Model) finishTurn() {
	m.pending = false
	m.turn = nil
	if m.cancel != nil {
		m.cancel()
		m.cancel = nil
	}
	if m.active != nil {
		m.lastReply = m.active.Text()
		m.active = nil
	}
}

func (m *Model) stopTurn() {
	if m.cancel != nil {
		m.cancel()
		m.cancel = nil
	}
	m.pending = false
	m.turn = nil
	m.active = nil
}

func (m *Model) copyLastReply() {
	if strings.TrimSpace(m.lastReply) == "" {
		return
	}
	if err := clipboard.WriteAll(m.lastReply); err != nil {
		m.appendCell(systemCell{text: "Clipboard unavailable: " + err.Error()})
		return
	}
	m.appendCell(systemCell{text: "Copied last reply."})
}

func (m *Model) appendCell(cell historyCell) {
	m.cells = append(m.cells, cell)
	m.refreshTranscript()
}

func (m *Model) refreshTranscript() {
	if !m.ready {
		return
	}
	width := m.vp.Width
	var lines []string
	for _, cell := range m.cells {
		rendered := cell.Render(width)
		if len(rendered) == 0 {
			continue
		}
		if len(lines) > 0 {
			lines = append(lines, "")
		}
		lines = append(lines, rendered...)
	}
	m.vp.SetContent(strings.Join(lines, "\n"))
	m.vp.GotoBottom()
}

func (m *Model) View() string {
	if !m.ready {
		return "starting…"
	}
	var sb strings.Builder
	sb.WriteString(m.vp.View())
	sb.WriteString("\n")
	sb.WriteString(m.statusLine())
	sb.WriteString("\n")
	sb.WriteString(m.ta.View())
	if menu := m.slash.View(); len(menu) > 0 {
		sb.WriteString("\n")
		sel, _ := m.slash.Selected()
		for _, item := range menu {
			marker := "  "
			name := menuStyle.Render("/" + string(item.Command))
			if item.Command == sel {
				marker = "> "
				name = menuSelKey.Render("/" + string(item.Command))
			}
			sb.WriteString(fmt.Sprintf("%s%-24s %s\n", marker, name, statusStyle.Render(item.Description)))
		}
	}
	return sb.String()
}

func (m *Model) statusLine() string {
	status := fmt.Sprintf("%s · %s", m.opts.ServerInfo.Name, m.modelName)
	if m.pending {
		status = m.spin.View() + " thinking · " + status
	}
	return statusStyle.Render(status)
}

func waitTurn(t *Turn) tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-t.Events()
		return turnEventMsg{ev: ev, ok: ok}
	}
}
