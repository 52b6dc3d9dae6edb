// Package teamlist holds the saved-teams view-model: fetch-all with
// per-member sprite enrichment, and delete with no optimistic removal.
package teamlist

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/kfranzen/pokedeck/internal/backend"
	"github.com/kfranzen/pokedeck/internal/pokeapi"
)

// PlaceholderSprite is substituted when a member's species lookup fails.
// An app scheme rather than an external placeholder host, so rendering a
// fallback never depends on a third party being up.
const PlaceholderSprite = "pokedeck://sprites/unknown"

// Status messages shown by the view-model.
const (
	StatusLoadFailed   = "Failed to load teams. Please try again."
	StatusDeleteFailed = "Failed to delete team. Please try again."
)

// API is the slice of the backend client this view-model uses.
type API interface {
	ListTeams(ctx context.Context) ([]backend.Team, error)
	DeleteTeam(ctx context.Context, id int) error
}

// Member is a roster entry enriched with a sprite image.
type Member struct {
	Name     string
	ImageURL string
}

// Team is a saved team as displayed: the backend record with every member
// carrying a freshly resolved sprite.
type Team struct {
	ID      int
	Name    string
	OwnerID int
	Members []Member
}

// Snapshot is a copy of the list state at one point in time.
type Snapshot struct {
	Teams     []Team
	Loading   bool
	Status    string
	StatusSeq int
}

// Model is the saved-teams view-model. Refreshes are generational: each
// Refresh claims a new generation, and its result is dropped if another
// refresh (or Invalidate) has claimed a newer one by the time it lands.
type Model struct {
	mu     sync.Mutex
	api    API
	lookup pokeapi.Lookup

	teams      []Team
	loading    bool
	status     string
	statusSeq  int
	generation int
}

// New builds an empty Model.
func New(api API, lookup pokeapi.Lookup) *Model {
	return &Model{api: api, lookup: lookup}
}

// Refresh fetches all teams and resolves every member's sprite. All member
// lookups across all teams run concurrently; a failed lookup substitutes
// PlaceholderSprite for that member instead of failing the team. The
// assembled result replaces the list only once every lookup has resolved
// and only if no newer refresh has started since.
func (m *Model) Refresh(ctx context.Context) {
	m.mu.Lock()
	m.loading = true
	m.generation++
	gen := m.generation
	m.mu.Unlock()

	fetched, err := m.api.ListTeams(ctx)
	if err != nil {
		m.mu.Lock()
		if gen == m.generation {
			m.loading = false
			m.setStatusLocked(StatusLoadFailed)
		}
		m.mu.Unlock()
		return
	}

	teams := make([]Team, len(fetched))
	g, gctx := errgroup.WithContext(ctx)
	for i, t := range fetched {
		teams[i] = Team{
			ID:      t.ID,
			Name:    t.Name,
			OwnerID: t.OwnerID,
			Members: make([]Member, len(t.Pokemon)),
		}
		for j, member := range t.Pokemon {
			name := member.Name
			g.Go(func() error {
				// Each goroutine writes a distinct element; failures are
				// isolated per member, so the group never errors.
				species, err := m.lookup.Lookup(gctx, name)
				if err != nil {
					teams[i].Members[j] = Member{Name: name, ImageURL: PlaceholderSprite}
					return nil
				}
				teams[i].Members[j] = Member{Name: name, ImageURL: species.ImageURL}
				return nil
			})
		}
	}
	_ = g.Wait()

	m.mu.Lock()
	defer m.mu.Unlock()
	if gen != m.generation {
		return
	}
	m.teams = teams
	m.loading = false
}

// Delete removes the team on the backend, then drops it from the local list.
// On failure the list is left unchanged and an error status is set.
// Interactive confirmation is the caller's job.
func (m *Model) Delete(ctx context.Context, id int) {
	err := m.api.DeleteTeam(ctx, id)

	m.mu.Lock()
	defer m.mu.Unlock()
	if err != nil {
		m.setStatusLocked(StatusDeleteFailed)
		return
	}
	kept := m.teams[:0:0]
	for _, t := range m.teams {
		if t.ID != id {
			kept = append(kept, t)
		}
	}
	m.teams = kept
}

// Invalidate discards any in-flight refresh's eventual result. Called when
// the viewing context changes so stale data cannot land afterwards.
func (m *Model) Invalidate() {
	m.mu.Lock()
	m.generation++
	m.loading = false
	m.mu.Unlock()
}

// ClearStatus clears the status message if seq still identifies it.
func (m *Model) ClearStatus(seq int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if seq == m.statusSeq {
		m.status = ""
	}
}

// Snapshot returns a copy of the current list state.
func (m *Model) Snapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()

	snap := Snapshot{
		Loading:   m.loading,
		Status:    m.status,
		StatusSeq: m.statusSeq,
	}
	snap.Teams = make([]Team, len(m.teams))
	for i, t := range m.teams {
		dup := t
		dup.Members = make([]Member, len(t.Members))
		copy(dup.Members, t.Members)
		snap.Teams[i] = dup
	}
	return snap
}

func (m *Model) setStatusLocked(msg string) {
	m.status = msg
	m.statusSeq++
}
