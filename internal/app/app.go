package app

import (
	"context"

	"github.com/GrigstonJC/boardgame-app/internal/api"
	"github.com/GrigstonJC/boardgame-app/internal/auth"
	"github.com/GrigstonJC/boardgame-app/internal/config"
	"github.com/GrigstonJC/boardgame-app/internal/session"
)

// App holds everything a command needs: one API client, one credential
// store, one auth flow.
type App struct {
	Client *api.Client
	Store  session.Store
	Flow   *auth.Flow

	cleanup func() error
}

func New(ctx context.Context, cfg config.Config) (*App, error) {
	store, cleanup, err := setupStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	client := api.New(cfg.APIBaseURL, cfg.HTTPTimeout)

	return &App{
		Client:  client,
		Store:   store,
		Flow:    auth.NewFlow(client, store, cfg.CallbackAddr),
		cleanup: cleanup,
	}, nil
}

func (a *App) Close() error {
	if a.cleanup != nil {
		return a.cleanup()
	}
	return nil
}
