package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/kfranzen/pokedeck/internal/builder"
	"github.com/kfranzen/pokedeck/internal/teamlist"
)

func (m Model) renderHeader() string {
	title := titleStyle.Render("POKEDECK")

	var tabs string
	if m.view == ViewAuth {
		mode := "login"
		if m.registerMode {
			mode = "register"
		}
		tabs = tabStyle.Render(mode)
	} else {
		bTab, tTab := tabStyle, tabStyle
		if m.view == ViewBuilder {
			bTab = activeTabStyle
		} else {
			tTab = activeTabStyle
		}
		tabs = bTab.Render("builder") + tTab.Render("my teams")
	}

	user := ""
	if m.sessionSnap.User != nil {
		user = mutedStyle.Render("@" + m.sessionSnap.User.Username)
	}

	return lipgloss.JoinHorizontal(lipgloss.Center, title, " ", tabs, " ", user)
}

func (m Model) renderFooter() string {
	var help string
	switch m.view {
	case ViewAuth:
		help = "enter submit · tab next field · ctrl+t login/register · ctrl+c quit"
	case ViewBuilder:
		help = "tab cycle focus · enter search · a add · x remove · ctrl+s save · ctrl+t teams · ctrl+l logout · ctrl+c quit"
	case ViewTeams:
		if m.confirmDelete != noConfirm {
			help = "y confirm delete · n cancel"
		} else {
			help = "j/k move · d delete · r reload · esc builder · ctrl+l logout · ctrl+c quit"
		}
	}
	return helpStyle.Render(help)
}

func (m Model) renderAuth() string {
	var b strings.Builder

	heading := "Log in"
	if m.registerMode {
		heading = "Create an account"
	}
	b.WriteString(activeTabStyle.Render(heading))
	b.WriteString("\n\n")

	for _, i := range m.authFields() {
		b.WriteString(m.authInputs[i].View())
		b.WriteString("\n")
	}

	if m.authBusy {
		b.WriteString("\n" + m.spin.View() + " signing in...")
	}
	if m.authErr != "" {
		b.WriteString("\n" + errorStyle.Render(m.authErr))
	}

	return panelStyle.Render(b.String())
}

func (m Model) renderBuilder() string {
	snap := m.builderSnap

	search := m.renderSearchPanel(snap)
	slots := m.renderSlotsPanel(snap)
	save := m.renderSavePanel(snap)

	body := lipgloss.JoinVertical(lipgloss.Left, search, slots, save)

	if snap.Status != "" {
		body += "\n" + statusStyle.Render(snap.Status)
	}
	return body
}

func (m Model) renderSearchPanel(snap builder.Snapshot) string {
	var b strings.Builder
	b.WriteString(m.searchInput.View())
	b.WriteString("\n")

	switch {
	case snap.Searching:
		b.WriteString(m.spin.View() + " searching...")
	case snap.Result != nil:
		r := snap.Result
		b.WriteString(fmt.Sprintf("#%03d %s  %s\n", r.ID, r.Name, typeStyle.Render(strings.Join(r.Types, "/"))))
		b.WriteString(mutedStyle.Render(r.ImageURL))
	default:
		b.WriteString(mutedStyle.Render("no result"))
	}

	style := panelStyle
	if m.focus == focusSearch {
		style = focusedPanelStyle
	}
	return style.Render(b.String())
}

func (m Model) renderSlotsPanel(snap builder.Snapshot) string {
	var b strings.Builder
	for i, slot := range snap.Slots {
		marker := "  "
		if m.focus == focusSlots && i == m.slotCursor {
			marker = cursorStyle.Render("> ")
		}
		if slot == nil {
			b.WriteString(fmt.Sprintf("%s%d. %s", marker, i+1, mutedStyle.Render("empty")))
		} else {
			b.WriteString(fmt.Sprintf("%s%d. %s  %s", marker, i+1, slot.Name, typeStyle.Render(strings.Join(slot.Types, "/"))))
		}
		if i < len(snap.Slots)-1 {
			b.WriteString("\n")
		}
	}

	style := panelStyle
	if m.focus == focusSlots {
		style = focusedPanelStyle
	}
	return style.Render(b.String())
}

func (m Model) renderSavePanel(snap builder.Snapshot) string {
	var b strings.Builder
	b.WriteString(m.nameInput.View())
	if snap.Saving {
		b.WriteString("\n" + m.spin.View() + " saving...")
	}

	style := panelStyle
	if m.focus == focusName {
		style = focusedPanelStyle
	}
	return style.Render(b.String())
}

func (m Model) renderTeams() string {
	snap := m.teamsSnap
	var b strings.Builder

	switch {
	case snap.Loading:
		b.WriteString(m.spin.View() + " loading teams...")
	case len(snap.Teams) == 0:
		b.WriteString(mutedStyle.Render("No saved teams yet."))
	default:
		cursor := m.teamCursor
		if cursor >= len(snap.Teams) {
			cursor = len(snap.Teams) - 1
		}
		for i, team := range snap.Teams {
			marker := "  "
			if i == cursor {
				marker = cursorStyle.Render("> ")
			}
			b.WriteString(fmt.Sprintf("%s%s %s\n", marker, team.Name, mutedStyle.Render(fmt.Sprintf("(#%d)", team.ID))))
			for _, member := range team.Members {
				b.WriteString("     " + renderMember(member) + "\n")
			}
		}
	}

	out := panelStyle.Render(strings.TrimRight(b.String(), "\n"))

	if m.confirmDelete != noConfirm {
		out += "\n" + errorStyle.Render(fmt.Sprintf("Delete team #%d? (y/n)", m.confirmDelete))
	}
	if snap.Status != "" {
		out += "\n" + statusStyle.Render(snap.Status)
	}
	return out
}

func renderMember(member teamlist.Member) string {
	if member.ImageURL == teamlist.PlaceholderSprite {
		return member.Name + " " + mutedStyle.Render("[no sprite]")
	}
	return member.Name
}
