// Package app wires the pokedeck client together: config, API clients,
// session restore, view-models, and the TUI.
package app

import (
	"context"
	"fmt"

	"github.com/kfranzen/pokedeck/internal/backend"
	"github.com/kfranzen/pokedeck/internal/builder"
	"github.com/kfranzen/pokedeck/internal/config"
	"github.com/kfranzen/pokedeck/internal/pokeapi"
	"github.com/kfranzen/pokedeck/internal/session"
	"github.com/kfranzen/pokedeck/internal/teamlist"
	"github.com/kfranzen/pokedeck/internal/ui"
)

// Options configure the pokedeck application.
type Options struct {
	ConfigPath string
}

// Run boots the pokedeck TUI until the context is cancelled.
func Run(ctx context.Context, opts Options) error {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	api, err := backend.NewClient(cfg.APIURL)
	if err != nil {
		return fmt.Errorf("init backend client: %w", err)
	}

	dex, err := pokeapi.NewClient(cfg.PokeAPIURL)
	if err != nil {
		return fmt.Errorf("init species client: %w", err)
	}

	sess := session.New(api, cfg.TokenPath)

	// Restore the persisted session before the UI starts so the first frame
	// already knows whether the user is logged in. A stale token degrades to
	// the logged-out state inside Initialize.
	sess.Initialize(ctx)

	uiOpts := ui.Options{
		Context: ctx,
		Session: sess,
		Builder: builder.New(dex, api, sess),
		Teams:   teamlist.New(api, dex),
	}
	return ui.Run(uiOpts)
}
