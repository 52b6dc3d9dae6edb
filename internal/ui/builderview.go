package ui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/kfranzen/pokedeck/internal/builder"
)

func (m Model) handleBuilderKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+t":
		return m.enterTeams()

	case "ctrl+l":
		return m.logout()

	case "ctrl+s":
		if m.builderSnap.Saving {
			return m, nil
		}
		m.builder.SetTeamName(m.nameInput.Value())
		return m, saveCmd(m.ctx, m.builder)

	case "tab":
		return m.cycleBuilderFocus(1), nil

	case "shift+tab":
		return m.cycleBuilderFocus(-1), nil
	}

	switch m.focus {
	case focusSearch:
		return m.handleSearchKey(msg)
	case focusSlots:
		return m.handleSlotsKey(msg)
	case focusName:
		var cmd tea.Cmd
		m.nameInput, cmd = m.nameInput.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) cycleBuilderFocus(delta int) Model {
	m.searchInput.Blur()
	m.nameInput.Blur()

	order := []builderFocus{focusSearch, focusSlots, focusName}
	pos := 0
	for i, f := range order {
		if f == m.focus {
			pos = i
			break
		}
	}
	m.focus = order[(pos+delta+len(order))%len(order)]

	switch m.focus {
	case focusSearch:
		m.searchInput.Focus()
	case focusName:
		m.nameInput.Focus()
	}
	return m
}

func (m Model) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		if m.builderSnap.Searching {
			return m, nil
		}
		m.builder.SetSearchTerm(m.searchInput.Value())
		return m, searchCmd(m.ctx, m.builder)

	case "ctrl+a":
		// Add the current result without leaving the search box.
		return m.addResult()
	}

	var cmd tea.Cmd
	m.searchInput, cmd = m.searchInput.Update(msg)
	return m, cmd
}

func (m Model) handleSlotsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		if m.slotCursor > 0 {
			m.slotCursor--
		}
	case "down", "j":
		if m.slotCursor < builder.SlotCount-1 {
			m.slotCursor++
		}
	case "x", "delete", "backspace":
		if err := m.builder.Remove(m.slotCursor); err == nil {
			m.builderSnap = m.builder.Snapshot()
		}
	case "a", "enter":
		return m.addResult()
	}
	return m, nil
}

func (m Model) addResult() (tea.Model, tea.Cmd) {
	result := m.builderSnap.Result
	if result == nil {
		return m, nil
	}
	m.builder.Add(*result)
	m.builderSnap = m.builder.Snapshot()
	m.searchInput.Reset()
	return m, m.scheduleBuilderExpiry()
}
