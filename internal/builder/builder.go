// Package builder holds the team-composition view-model: a search box, a
// single lookup result, six roster slots, and a save operation.
package builder

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/kfranzen/pokedeck/internal/backend"
	"github.com/kfranzen/pokedeck/internal/pokeapi"
)

// SlotCount is the fixed number of roster slots. Occupancy is sparse:
// removing a slot leaves a hole, and insertion always fills the
// lowest-index empty slot.
const SlotCount = 6

// Creator is the slice of the backend client needed to save a team.
type Creator interface {
	CreateTeam(ctx context.Context, team backend.TeamCreate) (backend.Team, error)
}

// Session gates saving on authentication.
type Session interface {
	Authenticated() bool
}

// Status messages shown by the view-model. Kept as constants so tests can
// assert on them without string duplication.
const (
	StatusNotFound    = "Pokemon not found. Please try a different name."
	StatusTeamFull    = "Team is full! Remove a Pokemon to add another."
	StatusLoginFirst  = "Please log in to save teams."
	StatusNameNeeded  = "Please enter a team name."
	StatusRosterEmpty = "Please add at least one Pokemon to your team."
	StatusSaved       = "Team saved successfully!"
	StatusSaveFailed  = "Failed to save team. Please try again."
)

// Snapshot is a copy of the builder state at one point in time.
type Snapshot struct {
	SearchTerm string
	Result     *pokeapi.Species
	Slots      [SlotCount]*pokeapi.Species
	TeamName   string
	Searching  bool
	Saving     bool
	Status     string
	StatusSeq  int
}

// Model is the team-composition view-model. All mutation is serialized by
// the model's mutex; blocking I/O happens with the mutex released so
// snapshots stay available while a search or save is in flight.
type Model struct {
	mu      sync.Mutex
	lookup  pokeapi.Lookup
	teams   Creator
	session Session

	searchTerm string
	result     *pokeapi.Species
	slots      [SlotCount]*pokeapi.Species
	teamName   string
	searching  bool
	saving     bool
	status     string
	statusSeq  int
}

// New builds an empty Model.
func New(lookup pokeapi.Lookup, teams Creator, session Session) *Model {
	return &Model{
		lookup:  lookup,
		teams:   teams,
		session: session,
	}
}

// SetSearchTerm replaces the current search term.
func (m *Model) SetSearchTerm(term string) {
	m.mu.Lock()
	m.searchTerm = term
	m.mu.Unlock()
}

// SetTeamName replaces the current team name.
func (m *Model) SetTeamName(name string) {
	m.mu.Lock()
	m.teamName = name
	m.mu.Unlock()
}

// Search resolves the current search term against the species service and
// replaces the single lookup result. A term that trims to empty is a no-op
// that never touches the searching flag. On lookup failure the result is
// cleared and a not-found status is set.
func (m *Model) Search(ctx context.Context) {
	m.mu.Lock()
	term := strings.TrimSpace(m.searchTerm)
	if term == "" {
		m.mu.Unlock()
		return
	}
	m.searching = true
	m.mu.Unlock()

	species, err := m.lookup.Lookup(ctx, term)

	m.mu.Lock()
	defer m.mu.Unlock()
	m.searching = false
	if err != nil {
		m.result = nil
		m.setStatusLocked(StatusNotFound)
		return
	}
	m.result = &species
}

// Add places the species into the lowest-index empty slot and clears the
// search term and result. With all six slots occupied nothing changes and a
// team-full status is set.
func (m *Model) Add(species pokeapi.Species) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i, slot := range m.slots {
		if slot == nil {
			s := species
			m.slots[i] = &s
			m.searchTerm = ""
			m.result = nil
			return
		}
	}
	m.setStatusLocked(StatusTeamFull)
}

// Remove empties the slot at index. The index must be in [0, SlotCount).
func (m *Model) Remove(index int) error {
	if index < 0 || index >= SlotCount {
		return fmt.Errorf("slot index %d out of range [0,%d)", index, SlotCount)
	}
	m.mu.Lock()
	m.slots[index] = nil
	m.mu.Unlock()
	return nil
}

// Save validates (authenticated, then non-empty name, then at least one
// occupied slot, stopping at the first violation) and creates the team on
// the backend with the occupied slots' names in roster order. Success
// resets the name and all six slots.
func (m *Model) Save(ctx context.Context) {
	m.mu.Lock()
	if !m.session.Authenticated() {
		m.setStatusLocked(StatusLoginFirst)
		m.mu.Unlock()
		return
	}
	name := strings.TrimSpace(m.teamName)
	if name == "" {
		m.setStatusLocked(StatusNameNeeded)
		m.mu.Unlock()
		return
	}
	var members []backend.TeamMember
	for _, slot := range m.slots {
		if slot != nil {
			members = append(members, backend.TeamMember{Name: slot.Name})
		}
	}
	if len(members) == 0 {
		m.setStatusLocked(StatusRosterEmpty)
		m.mu.Unlock()
		return
	}
	m.saving = true
	m.mu.Unlock()

	_, err := m.teams.CreateTeam(ctx, backend.TeamCreate{Name: name, Pokemon: members})

	m.mu.Lock()
	defer m.mu.Unlock()
	m.saving = false
	if err != nil {
		m.setStatusLocked(StatusSaveFailed)
		return
	}
	m.teamName = ""
	m.slots = [SlotCount]*pokeapi.Species{}
	m.setStatusLocked(StatusSaved)
}

// ClearStatus clears the status message, but only if seq still identifies
// the current message. An expiry timer scheduled for an older message can
// therefore never clobber a newer one.
func (m *Model) ClearStatus(seq int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if seq == m.statusSeq {
		m.status = ""
	}
}

// Snapshot returns a copy of the current builder state.
func (m *Model) Snapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()

	snap := Snapshot{
		SearchTerm: m.searchTerm,
		TeamName:   m.teamName,
		Searching:  m.searching,
		Saving:     m.saving,
		Status:     m.status,
		StatusSeq:  m.statusSeq,
	}
	if m.result != nil {
		r := *m.result
		snap.Result = &r
	}
	for i, slot := range m.slots {
		if slot != nil {
			s := *slot
			snap.Slots[i] = &s
		}
	}
	return snap
}

func (m *Model) setStatusLocked(msg string) {
	m.status = msg
	m.statusSeq++
}
