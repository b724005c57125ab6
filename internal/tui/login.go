package tui

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/saeid-a/ChatAppBack/internal/models"
)

const requestTimeout = 10 * time.Second

type loggedInMsg struct {
	user  models.PublicUser
	chats []models.Chat
}

type errMsg struct{ err error }

type loginForm struct {
	registering bool
	focus       int
	name        textinput.Model
	email       textinput.Model
	password    textinput.Model
}

func newLoginForm() loginForm {
	f := loginForm{}

	f.name = textinput.New()
	f.name.Placeholder = "Name"
	f.name.CharLimit = 64

	f.email = textinput.New()
	f.email.Placeholder = "Email"
	f.email.CharLimit = 254
	f.email.Focus()

	f.password = textinput.New()
	f.password.Placeholder = "Password"
	f.password.EchoMode = textinput.EchoPassword
	f.password.EchoCharacter = '•'

	return f
}

func (f *loginForm) inputs() []*textinput.Model {
	if f.registering {
		return []*textinput.Model{&f.name, &f.email, &f.password}
	}
	return []*textinput.Model{&f.email, &f.password}
}

func (f *loginForm) moveFocus(delta int) {
	inputs := f.inputs()
	f.focus = (f.focus + delta + len(inputs)) % len(inputs)
	for i, in := range inputs {
		if i == f.focus {
			in.Focus()
		} else {
			in.Blur()
		}
	}
}

func (f *loginForm) toggleMode() {
	f.registering = !f.registering
	f.focus = 0
	f.name.Blur()
	f.email.Blur()
	f.password.Blur()
	f.inputs()[0].Focus()
}

func (f loginForm) update(msg tea.Msg) (loginForm, tea.Cmd) {
	var cmds [3]tea.Cmd
	f.name, cmds[0] = f.name.Update(msg)
	f.email, cmds[1] = f.email.Update(msg)
	f.password, cmds[2] = f.password.Update(msg)
	return f, tea.Batch(cmds[:]...)
}

// submit registers first when in register mode, then logs in and loads the
// user's chats.
func (f loginForm) submit(api API) tea.Cmd {
	name := strings.TrimSpace(f.name.Value())
	email := strings.TrimSpace(f.email.Value())
	password := f.password.Value()
	registering := f.registering

	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		if registering {
			if err := api.Register(ctx, name, email, password); err != nil {
				return errMsg{err}
			}
		}
		user, err := api.Login(ctx, email, password)
		if err != nil {
			return errMsg{err}
		}
		chats, err := api.ListChats(ctx)
		if err != nil {
			return errMsg{err}
		}
		return loggedInMsg{user: user, chats: chats}
	}
}

func (f loginForm) view() string {
	var b strings.Builder
	if f.registering {
		b.WriteString(titleStyle.Render("Create account") + "\n\n")
		b.WriteString(f.name.View() + "\n")
	} else {
		b.WriteString(titleStyle.Render("Login") + "\n\n")
	}
	b.WriteString(f.email.View() + "\n")
	b.WriteString(f.password.View() + "\n\n")
	b.WriteString(mutedStyle.Render("tab to move, enter to submit, ctrl+r to switch login/register, ctrl+c to quit"))
	return b.String()
}
