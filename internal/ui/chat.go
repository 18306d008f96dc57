package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
)

// chatMessage is one rendered turn.
type chatMessage struct {
	fromUser bool
	content  string
}

// Chat is the root Bubble Tea model for the chat session.
// IMPORTANT: Chat does NOT hold the orchestrator. It receives replies via
// messages; send returns a Cmd that runs the turn.
type Chat struct {
	send func(message string) tea.Cmd

	input    textarea.Model
	viewport viewport.Model
	spinner  spinner.Model

	messages []chatMessage
	waiting  bool
	ready    bool
	width    int
	height   int
}

// NewChat creates a Chat wired to the given send function.
func NewChat(send func(message string) tea.Cmd) Chat {
	ti := textarea.New()
	ti.Placeholder = "Ask about a trend..."
	ti.Focus()
	ti.SetHeight(2)
	ti.ShowLineNumbers = false

	vp := viewport.New(80, 20)

	s := spinner.New()
	s.Spinner = spinner.Dot

	return Chat{
		send:     send,
		input:    ti,
		viewport: vp,
		spinner:  s,
		messages: []chatMessage{
			{content: "Hi! Ask me about social trends: what's popular, where, and how popular it is."},
		},
	}
}

// Init initializes the model.
func (c Chat) Init() tea.Cmd {
	return textarea.Blink
}

// Update handles messages and returns the updated model and any commands.
func (c Chat) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			return c, tea.Quit

		case "enter":
			input := strings.TrimSpace(c.input.Value())
			if input == "" || c.waiting {
				return c, nil
			}
			c.messages = append(c.messages, chatMessage{fromUser: true, content: input})
			c.input.Reset()
			c.waiting = true
			c.refreshViewport()
			return c, tea.Batch(c.spinner.Tick, c.send(input))
		}

	case tea.WindowSizeMsg:
		c.width = msg.Width
		c.height = msg.Height
		c.ready = true
		c.input.SetWidth(msg.Width - 4)
		c.viewport.Width = msg.Width
		c.viewport.Height = msg.Height - c.input.Height() - 3
		c.refreshViewport()
		return c, nil

	case ReplyReceived:
		c.waiting = false
		c.messages = append(c.messages, chatMessage{content: msg.Content})
		c.refreshViewport()
		return c, nil

	case spinner.TickMsg:
		if !c.waiting {
			return c, nil
		}
		var cmd tea.Cmd
		c.spinner, cmd = c.spinner.Update(msg)
		return c, cmd
	}

	var cmd tea.Cmd
	c.input, cmd = c.input.Update(msg)
	cmds = append(cmds, cmd)

	c.viewport, cmd = c.viewport.Update(msg)
	cmds = append(cmds, cmd)

	return c, tea.Batch(cmds...)
}

// refreshViewport rerenders the transcript and pins the view to the bottom.
func (c *Chat) refreshViewport() {
	var b strings.Builder
	for i, m := range c.messages {
		if i > 0 {
			b.WriteString("\n\n")
		}
		label := BotLabel.Render("TrendSpotter")
		if m.fromUser {
			label = UserLabel.Render("You")
		}
		b.WriteString(label)
		b.WriteString("\n")
		b.WriteString(MessageText.Render(m.content))
	}
	c.viewport.SetContent(b.String())
	c.viewport.GotoBottom()
}

// View renders the UI.
func (c Chat) View() string {
	if !c.ready {
		return "Loading..."
	}

	status := HintText.Render("enter: send • esc: quit")
	if c.waiting {
		status = c.spinner.View() + " thinking..."
	}

	return c.viewport.View() + "\n" +
		c.input.View() + "\n" +
		StatusBar.Width(c.width).Render(status)
}

// Messages returns the rendered transcript contents (for testing).
func (c Chat) Messages() []string {
	out := make([]string, len(c.messages))
	for i, m := range c.messages {
		out[i] = m.content
	}
	return out
}

// Waiting reports whether a turn is in flight (for testing).
func (c Chat) Waiting() bool {
	return c.waiting
}
