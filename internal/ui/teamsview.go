package ui

import (
	tea "github.com/charmbracelet/bubbletea"
)

func (m Model) handleTeamsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.confirmDelete != noConfirm {
		return m.handleConfirmKey(msg)
	}

	switch msg.String() {
	case "ctrl+t", "esc":
		m.leaveTeams()
		m.view = ViewBuilder
		return m, nil

	case "ctrl+l":
		return m.logout()

	case "r":
		return m.enterTeams()

	case "up", "k":
		if m.teamCursor > 0 {
			m.teamCursor--
		}
		return m, nil

	case "down", "j":
		if m.teamCursor < len(m.teamsSnap.Teams)-1 {
			m.teamCursor++
		}
		return m, nil

	case "d", "x":
		if m.teamCursor < len(m.teamsSnap.Teams) {
			m.confirmDelete = m.teamsSnap.Teams[m.teamCursor].ID
		}
		return m, nil
	}
	return m, nil
}

func (m Model) handleConfirmKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "enter":
		id := m.confirmDelete
		m.confirmDelete = noConfirm
		return m, deleteTeamCmd(m.ctx, m.teams, id)

	case "n", "esc":
		m.confirmDelete = noConfirm
		return m, nil
	}
	return m, nil
}
