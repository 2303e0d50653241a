package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/pageza/recipe-finder/internal/service"
)

// form is a login or signup surface
type form struct {
	kind    service.Form
	title   string
	labels  []string
	inputs  []textinput.Model
	focus   int
	message string
}

func newInput(placeholder string, secret bool) textinput.Model {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.CharLimit = 128
	ti.Width = 32
	if secret {
		ti.EchoMode = textinput.EchoPassword
		ti.EchoCharacter = '•'
	}
	return ti
}

func newLoginForm() *form {
	return &form{
		kind:   service.FormLogin,
		title:  "Log in",
		labels: []string{"Username", "Password"},
		inputs: []textinput.Model{
			newInput("username or email", false),
			newInput("password", true),
		},
	}
}

func newSignupForm() *form {
	return &form{
		kind:   service.FormSignup,
		title:  "Sign up",
		labels: []string{"First name", "Last name", "Username", "Password", "Confirm password"},
		inputs: []textinput.Model{
			newInput("first name", false),
			newInput("last name", false),
			newInput("username or email", false),
			newInput("at least 8 characters", true),
			newInput("repeat password", true),
		},
	}
}

// open focuses the first field
func (f *form) open() tea.Cmd {
	f.focus = 0
	return f.refocus()
}

func (f *form) refocus() tea.Cmd {
	var cmd tea.Cmd
	for i := range f.inputs {
		if i == f.focus {
			cmd = f.inputs[i].Focus()
			continue
		}
		f.inputs[i].Blur()
	}
	return cmd
}

func (f *form) move(delta int) tea.Cmd {
	n := len(f.inputs)
	f.focus = ((f.focus+delta)%n + n) % n
	return f.refocus()
}

func (f *form) reset() {
	for i := range f.inputs {
		f.inputs[i].Reset()
	}
	f.focus = 0
	f.refocus()
}

func (f *form) value(i int) string {
	return f.inputs[i].Value()
}

func (f *form) update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
	return cmd
}

func (f *form) signup() service.SignupForm {
	return service.SignupForm{
		FirstName:       f.value(0),
		LastName:        f.value(1),
		Identifier:      f.value(2),
		Password:        f.value(3),
		ConfirmPassword: f.value(4),
	}
}

func (f *form) view() string {
	var b strings.Builder
	b.WriteString(labelStyle.Render(f.title))
	b.WriteString("\n\n")
	for i, in := range f.inputs {
		b.WriteString(dimStyle.Render(f.labels[i]))
		b.WriteString("\n")
		b.WriteString(in.View())
		b.WriteString("\n")
	}
	if f.message != "" {
		b.WriteString("\n")
		b.WriteString(statusStyle.Render(f.message))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(helpStyle.Render("enter submit  tab next field  esc close"))
	return formStyle.Render(b.String())
}
