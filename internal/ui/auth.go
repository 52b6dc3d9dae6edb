package ui

import (
	"errors"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/kfranzen/pokedeck/internal/backend"
)

// authFields returns the indexes of the inputs active in the current mode.
// Email only exists on the register form.
func (m Model) authFields() []int {
	if m.registerMode {
		return []int{0, 1, 2}
	}
	return []int{0, 2}
}

func (m Model) handleAuthKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// One credential exchange at a time: the store serializes them anyway,
	// but the form should not queue a second submit behind the first.
	if m.authBusy {
		return m, nil
	}

	switch msg.String() {
	case "tab", "down":
		return m.cycleAuthFocus(1)

	case "shift+tab", "up":
		return m.cycleAuthFocus(-1)

	case "ctrl+t":
		m.registerMode = !m.registerMode
		m.authErr = ""
		return m.focusAuthField(0)

	case "enter":
		return m.submitAuth()
	}

	var cmd tea.Cmd
	m.authInputs[m.authFocus], cmd = m.authInputs[m.authFocus].Update(msg)
	return m, cmd
}

func (m Model) cycleAuthFocus(delta int) (tea.Model, tea.Cmd) {
	fields := m.authFields()
	pos := 0
	for i, f := range fields {
		if f == m.authFocus {
			pos = i
			break
		}
	}
	pos = (pos + delta + len(fields)) % len(fields)
	return m.focusAuthField(fields[pos])
}

func (m Model) focusAuthField(index int) (tea.Model, tea.Cmd) {
	for i := range m.authInputs {
		m.authInputs[i].Blur()
	}
	m.authFocus = index
	m.authInputs[index].Focus()
	return m, nil
}

func (m Model) submitAuth() (tea.Model, tea.Cmd) {
	username := strings.TrimSpace(m.authInputs[0].Value())
	email := strings.TrimSpace(m.authInputs[1].Value())
	password := m.authInputs[2].Value()

	if username == "" || password == "" || (m.registerMode && email == "") {
		m.authErr = "Please fill in all fields."
		return m, nil
	}

	m.authBusy = true
	m.authErr = ""
	if m.registerMode {
		return m, registerCmd(m.ctx, m.session, username, email, password)
	}
	return m, loginCmd(m.ctx, m.session, username, password)
}

func (m Model) handleAuthDone(msg authDoneMsg) (tea.Model, tea.Cmd) {
	m.authBusy = false
	m.sessionSnap = m.session.Snapshot()

	if msg.err != nil {
		if errors.Is(msg.err, backend.ErrUnauthorized) {
			m.authErr = "Invalid username or password."
		} else {
			m.authErr = "Could not reach the server. Please try again."
		}
		return m, nil
	}

	for i := range m.authInputs {
		m.authInputs[i].Reset()
		m.authInputs[i].Blur()
	}
	m.view = ViewBuilder
	m.focus = focusSearch
	m.searchInput.Focus()
	m.builderSnap = m.builder.Snapshot()
	return m, textinput.Blink
}
