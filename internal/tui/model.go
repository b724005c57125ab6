package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/saeid-a/ChatAppBack/internal/chatstate"
	"github.com/saeid-a/ChatAppBack/internal/models"
)

// API is the slice of the REST client the terminal UI needs.
type API interface {
	Register(ctx context.Context, name, email, password string) error
	Login(ctx context.Context, email, password string) (models.PublicUser, error)
	ListChats(ctx context.Context) ([]models.Chat, error)
	AddToChat(ctx context.Context, email string) (models.Chat, error)
}

type chatAddedMsg struct{ chat models.Chat }

const sidebarWidth = 28

type Model struct {
	api  API
	opts Options

	login loginForm
	user  *models.PublicUser
	chats *container
	state chatstate.State

	input    textinput.Model
	thread   viewport.Model
	width    int
	height   int
	status   string
	failed   bool
	quitting bool
}

func New(api API, opts Options) Model {
	in := textinput.New()
	in.Placeholder = "Type a message or /add <email>"
	in.Prompt = "┃ "
	in.CharLimit = 2000

	return Model{
		api:    api,
		opts:   opts,
		login:  newLoginForm(),
		input:  in,
		thread: viewport.New(60, 12),
		state:  chatstate.NewState(),
	}
}

// LoggedIn reports whether the session reached the chat screen.
func (m Model) LoggedIn() bool {
	return m.user != nil
}

// Close stops the reply and draft timers.
func (m Model) Close() {
	if m.chats != nil {
		m.chats.close()
	}
}

func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.resize()
		m.refresh()
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			m.quitting = true
			return m, tea.Quit
		}
		if m.user == nil {
			return m.updateLogin(msg)
		}
		return m.updateChat(msg)
	case errMsg:
		m.setError(msg.err)
		return m, nil
	case loggedInMsg:
		m.user = &msg.user
		m.chats = newContainer(msg.chats, m.opts)
		m.input.Focus()
		m.setStatus(fmt.Sprintf("Logged in as %s", msg.user.Name))
		m.refresh()
		return m, m.chats.waitForChange()
	case chatAddedMsg:
		if m.chats == nil {
			return m, nil
		}
		chat := chatstate.ChatFromMembership(msg.chat)
		m.state = m.chats.store.Dispatch(chatstate.AddChat{Chat: chat})
		m.setStatus(fmt.Sprintf("%s added", chat.Name))
		m.refresh()
		return m, nil
	case stateChangedMsg:
		if m.chats == nil {
			return m, nil
		}
		m.refresh()
		return m, m.chats.waitForChange()
	}

	if m.user == nil {
		var cmd tea.Cmd
		m.login, cmd = m.login.update(msg)
		return m, cmd
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) updateLogin(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyTab, tea.KeyDown:
		m.login.moveFocus(1)
		return m, nil
	case tea.KeyShiftTab, tea.KeyUp:
		m.login.moveFocus(-1)
		return m, nil
	case tea.KeyCtrlR:
		m.login.toggleMode()
		return m, nil
	case tea.KeyEnter:
		m.setStatus("Signing in...")
		return m, m.login.submit(m.api)
	}
	var cmd tea.Cmd
	m.login, cmd = m.login.update(msg)
	return m, cmd
}

func (m Model) updateChat(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter:
		return m.submitLine()
	case tea.KeyPgUp, tea.KeyPgDown:
		var cmd tea.Cmd
		m.thread, cmd = m.thread.Update(msg)
		return m, cmd
	}

	before := m.input.Value()
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	after := m.input.Value()
	if after != before && !strings.HasPrefix(after, "/") {
		if active := m.state.ActiveChatID; active != "" {
			m.chats.drafts.Edit(active, after)
		}
	}
	return m, cmd
}

func (m Model) submitLine() (tea.Model, tea.Cmd) {
	cmd, err := parseCommand(m.input.Value())
	if errors.Is(err, errEmptyInput) {
		return m, nil
	}
	if err != nil {
		m.setError(err)
		return m, nil
	}

	switch cmd.kind {
	case cmdQuit:
		m.quitting = true
		return m, tea.Quit
	case cmdAdd:
		m.input.Reset()
		m.setStatus("Adding " + cmd.email + "...")
		return m, m.addChat(cmd.email)
	case cmdOpen:
		chat, ok := m.chatAt(cmd.chat)
		if !ok {
			m.setError(fmt.Errorf("no chat #%d", cmd.chat))
			return m, nil
		}
		m.state = m.chats.store.Dispatch(chatstate.SetActiveChat{ChatID: chat.ID})
		m.input.SetValue(m.state.Draft(chat.ID))
		m.input.CursorEnd()
		m.setStatus("Chatting with " + chat.Name)
	case cmdForward:
		if err := m.forward(cmd.message, cmd.chat); err != nil {
			m.setError(err)
			return m, nil
		}
		m.input.Reset()
	case cmdSend:
		active := m.state.ActiveChatID
		if active == "" {
			m.setError(errors.New("open a chat first with /open <chat#>"))
			return m, nil
		}
		m.chats.drafts.Cancel(active)
		m.state = m.chats.store.Dispatch(chatstate.SendMessage{ChatID: active, Text: cmd.text})
		m.input.Reset()
	}
	m.refresh()
	return m, nil
}

func (m *Model) forward(msgPos, chatPos int) error {
	thread := m.state.MessagesFor(m.state.ActiveChatID)
	if msgPos > len(thread) {
		return fmt.Errorf("no message #%d in this chat", msgPos)
	}
	target, ok := m.chatAt(chatPos)
	if !ok {
		return fmt.Errorf("no chat #%d", chatPos)
	}
	m.state = m.chats.store.Dispatch(chatstate.ForwardMessage{Message: thread[msgPos-1], ToChatID: target.ID})
	m.setStatus("Forwarded to " + target.Name)
	return nil
}

func (m Model) addChat(email string) tea.Cmd {
	api := m.api
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		chat, err := api.AddToChat(ctx, email)
		if err != nil {
			return errMsg{err}
		}
		return chatAddedMsg{chat: chat}
	}
}

func (m Model) chatAt(pos int) (chatstate.Chat, bool) {
	if pos < 1 || pos > len(m.state.Chats) {
		return chatstate.Chat{}, false
	}
	return m.state.Chats[pos-1], true
}

func (m *Model) setStatus(s string) {
	m.status = s
	m.failed = false
}

func (m *Model) setError(err error) {
	m.status = err.Error()
	m.failed = true
}

func (m *Model) resize() {
	w := m.width - sidebarWidth - 6
	if w < 20 {
		w = 20
	}
	h := m.height - 8
	if h < 5 {
		h = 5
	}
	m.thread.Width = w
	m.thread.Height = h
	m.input.Width = w
}

func (m *Model) refresh() {
	if m.chats != nil {
		m.state = m.chats.store.Snapshot()
	}
	m.thread.SetContent(m.renderThread())
	m.thread.GotoBottom()
}

func (m Model) renderThread() string {
	active, ok := m.state.ActiveChat()
	if !ok {
		return mutedStyle.Render("No chat open. Use /open <chat#>.")
	}
	thread := m.state.MessagesFor(active.ID)
	if len(thread) == 0 {
		return mutedStyle.Render("No messages yet.")
	}

	var b strings.Builder
	for i, msg := range thread {
		sender := otherStyle.Render(active.Name)
		if msg.SenderID == m.state.CurrentUserID {
			sender = meStyle.Render("you")
		}
		at := time.UnixMilli(msg.Timestamp).Format("15:04")
		fmt.Fprintf(&b, "%s %s %s\n", mutedStyle.Render(fmt.Sprintf("[%d]", i+1)), sender, mutedStyle.Render(at))
		if msg.Forwarded {
			b.WriteString(forwardStyle.Render("forwarded from "+msg.ForwardedFrom) + "\n")
		}
		body := msg.Text
		if msg.Type != chatstate.TypeText {
			body = fmt.Sprintf("[%s] %s", msg.Type, msg.Text)
		}
		b.WriteString(body + "\n\n")
	}
	return b.String()
}

func (m Model) renderSidebar() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Chats") + "\n\n")
	if len(m.state.Chats) == 0 {
		b.WriteString(mutedStyle.Render("/add <email>"))
	}
	for i, chat := range m.state.Chats {
		line := fmt.Sprintf("%d. %s", i+1, chat.Name)
		if chat.ID == m.state.ActiveChatID {
			line = activeStyle.Render(line)
		}
		if chat.Unread > 0 {
			line += " " + unreadStyle.Render(fmt.Sprint(chat.Unread))
		}
		b.WriteString(line + "\n")
		if chat.LastMessage != "" {
			b.WriteString(mutedStyle.Render("   "+truncate(chat.LastMessage, sidebarWidth-4)) + "\n")
		}
	}
	return sidebarStyle.Width(sidebarWidth).Render(b.String())
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	footer := ""
	if m.status != "" {
		if m.failed {
			footer = errorStyle.Render(m.status)
		} else {
			footer = mutedStyle.Render(m.status)
		}
	}

	if m.user == nil {
		return m.login.view() + "\n\n" + footer + "\n"
	}

	header := titleStyle.Render("Chats for "+m.user.Name) +
		mutedStyle.Render(fmt.Sprintf("  %d unread", m.state.TotalUnread()))
	title := "Select a chat"
	if active, ok := m.state.ActiveChat(); ok {
		title = active.Name + " <" + active.Email + ">"
	}
	main := threadStyle.Render(title + "\n" + m.thread.View())
	body := lipgloss.JoinHorizontal(lipgloss.Top, m.renderSidebar(), main)
	help := mutedStyle.Render("/open <chat#>  /add <email>  /fwd <msg#> <chat#>  /quit")

	return lipgloss.JoinVertical(lipgloss.Left, header, body, m.input.View(), help, footer)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
