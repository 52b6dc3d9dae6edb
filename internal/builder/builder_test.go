package builder

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kfranzen/pokedeck/internal/backend"
	"github.com/kfranzen/pokedeck/internal/pokeapi"
)

// ---- fakes ----

type fakeLookup struct {
	species map[string]pokeapi.Species
}

func (f *fakeLookup) Lookup(ctx context.Context, name string) (pokeapi.Species, error) {
	if s, ok := f.species[name]; ok {
		return s, nil
	}
	return pokeapi.Species{}, &pokeapi.NotFoundError{Name: name}
}

type fakeCreator struct {
	created []backend.TeamCreate
	err     error
}

func (f *fakeCreator) CreateTeam(ctx context.Context, team backend.TeamCreate) (backend.Team, error) {
	if f.err != nil {
		return backend.Team{}, f.err
	}
	f.created = append(f.created, team)
	return backend.Team{ID: 1, Name: team.Name, OwnerID: 7, Pokemon: team.Pokemon}, nil
}

type fakeSession struct{ authed bool }

func (f *fakeSession) Authenticated() bool { return f.authed }

func species(name string) pokeapi.Species {
	return pokeapi.Species{ID: 1, Name: name, ImageURL: "https://sprites.example/" + name + ".png"}
}

func newModel(t *testing.T) (*Model, *fakeCreator, *fakeSession) {
	t.Helper()
	lookup := &fakeLookup{species: map[string]pokeapi.Species{
		"pikachu": species("pikachu"),
	}}
	creator := &fakeCreator{}
	sess := &fakeSession{authed: true}
	return New(lookup, creator, sess), creator, sess
}

// ---- roster ----

func TestAdd_FirstEmptyWins(t *testing.T) {
	m, _, _ := newModel(t)

	m.Add(species("pikachu"))
	m.Add(species("bulbasaur"))

	snap := m.Snapshot()
	require.Equal(t, "pikachu", snap.Slots[0].Name)
	require.Equal(t, "bulbasaur", snap.Slots[1].Name)
	for i := 2; i < SlotCount; i++ {
		require.Nil(t, snap.Slots[i])
	}
}

func TestAdd_FillsHoleLeftByRemove(t *testing.T) {
	m, _, _ := newModel(t)
	for _, name := range []string{"a", "b", "c"} {
		m.Add(species(name))
	}

	require.NoError(t, m.Remove(1))
	m.Add(species("d"))

	snap := m.Snapshot()
	require.Equal(t, "a", snap.Slots[0].Name)
	require.Equal(t, "d", snap.Slots[1].Name)
	require.Equal(t, "c", snap.Slots[2].Name)
}

func TestAdd_FullRosterUnchangedWithStatus(t *testing.T) {
	m, _, _ := newModel(t)
	names := []string{"a", "b", "c", "d", "e", "f"}
	for _, name := range names {
		m.Add(species(name))
	}

	m.Add(species("mew"))

	snap := m.Snapshot()
	for i, name := range names {
		require.Equal(t, name, snap.Slots[i].Name)
	}
	require.Equal(t, StatusTeamFull, snap.Status)
}

func TestAdd_ClearsSearchState(t *testing.T) {
	m, _, _ := newModel(t)
	m.SetSearchTerm("pikachu")
	m.Search(context.Background())
	require.NotNil(t, m.Snapshot().Result)

	m.Add(*m.Snapshot().Result)

	snap := m.Snapshot()
	require.Empty(t, snap.SearchTerm)
	require.Nil(t, snap.Result)
}

func TestRemove_OutOfRangeIsAnError(t *testing.T) {
	m, _, _ := newModel(t)
	require.Error(t, m.Remove(-1))
	require.Error(t, m.Remove(SlotCount))
	require.NoError(t, m.Remove(0))
	require.NoError(t, m.Remove(SlotCount-1))
}

// ---- search ----

func TestSearch_EmptyTermIsNoOp(t *testing.T) {
	m, _, _ := newModel(t)
	m.SetSearchTerm("   ")

	m.Search(context.Background())

	snap := m.Snapshot()
	require.False(t, snap.Searching)
	require.Nil(t, snap.Result)
	require.Empty(t, snap.Status)
}

func TestSearch_NotFoundClearsResultAndSetsStatus(t *testing.T) {
	m, _, _ := newModel(t)
	m.SetSearchTerm("pikachu")
	m.Search(context.Background())
	require.NotNil(t, m.Snapshot().Result)

	m.SetSearchTerm("missingno")
	m.Search(context.Background())

	snap := m.Snapshot()
	require.False(t, snap.Searching)
	require.Nil(t, snap.Result)
	require.Equal(t, StatusNotFound, snap.Status)
}

// ---- save ----

func TestSave_RequiresAuthentication(t *testing.T) {
	m, creator, sess := newModel(t)
	sess.authed = false
	m.SetTeamName("Kanto")
	m.Add(species("pikachu"))

	m.Save(context.Background())

	require.Empty(t, creator.created)
	require.Equal(t, StatusLoginFirst, m.Snapshot().Status)
}

func TestSave_EmptyNameNeverCallsBackend(t *testing.T) {
	m, creator, _ := newModel(t)
	m.Add(species("pikachu"))
	m.SetTeamName("   ")

	m.Save(context.Background())

	require.Empty(t, creator.created)
	require.Equal(t, StatusNameNeeded, m.Snapshot().Status)
}

func TestSave_EmptyRosterNeverCallsBackend(t *testing.T) {
	m, creator, _ := newModel(t)
	m.SetTeamName("Kanto")

	m.Save(context.Background())

	require.Empty(t, creator.created)
	require.Equal(t, StatusRosterEmpty, m.Snapshot().Status)
}

func TestSave_SendsOccupiedSlotsInOrderAndResets(t *testing.T) {
	m, creator, _ := newModel(t)
	for _, name := range []string{"a", "b", "c"} {
		m.Add(species(name))
	}
	require.NoError(t, m.Remove(1)) // leave a hole; empties are excluded
	m.SetTeamName("  Kanto  ")

	m.Save(context.Background())

	require.Len(t, creator.created, 1)
	created := creator.created[0]
	require.Equal(t, "Kanto", created.Name)
	require.Equal(t, []backend.TeamMember{{Name: "a"}, {Name: "c"}}, created.Pokemon)

	snap := m.Snapshot()
	require.Empty(t, snap.TeamName)
	for i := 0; i < SlotCount; i++ {
		require.Nil(t, snap.Slots[i])
	}
	require.Equal(t, StatusSaved, snap.Status)
	require.False(t, snap.Saving)
}

func TestSave_BackendFailureKeepsRoster(t *testing.T) {
	m, creator, _ := newModel(t)
	creator.err = errors.New("boom")
	m.Add(species("pikachu"))
	m.SetTeamName("Kanto")

	m.Save(context.Background())

	snap := m.Snapshot()
	require.Equal(t, StatusSaveFailed, snap.Status)
	require.NotNil(t, snap.Slots[0])
	require.Equal(t, "Kanto", snap.TeamName)
	require.False(t, snap.Saving)
}

// ---- status expiry ----

func TestClearStatus_OnlyClearsCurrentMessage(t *testing.T) {
	m, _, _ := newModel(t)
	m.Add(species("a"))
	// Fill up to trigger two consecutive statuses.
	for _, name := range []string{"b", "c", "d", "e", "f"} {
		m.Add(species(name))
	}
	m.Add(species("mew"))
	first := m.Snapshot().StatusSeq

	m.Add(species("mewtwo"))
	second := m.Snapshot().StatusSeq
	require.NotEqual(t, first, second)

	// Expiry of the older message must not clear the newer one.
	m.ClearStatus(first)
	require.Equal(t, StatusTeamFull, m.Snapshot().Status)

	m.ClearStatus(second)
	require.Empty(t, m.Snapshot().Status)
}
