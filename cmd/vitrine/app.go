package main

import (
	"go.uber.org/zap"

	"vitrine/internal/admin"
	"vitrine/internal/api"
	"vitrine/internal/auth"
	"vitrine/internal/cart"
	"vitrine/internal/catalog"
	"vitrine/internal/config"
	"vitrine/internal/order"
)

// App holds the wired stores and services every command runs against. All of
// them share one API client, which reads the bearer token from the token
// store on every request.
type App struct {
	Config config.Config
	Dir    string

	Tokens  *auth.TokenStore
	Client  *api.Client
	Session *auth.Session
	Catalog *catalog.Service
	Cart    *cart.Store
	Orders  *order.Service
	Admin   *admin.Service
}

// newApp wires the dependency graph: token store first, then the client that
// reads from it, then everything that talks through the client.
func newApp(cfg config.Config, dir string, logger *zap.Logger) (*App, error) {
	tokens := auth.NewTokenStore(dir)

	client, err := api.NewClient(api.Config{
		BaseURL: cfg.APIURL,
		Timeout: cfg.Timeout(),
	}, tokens, logger)
	if err != nil {
		return nil, err
	}

	return &App{
		Config:  cfg,
		Dir:     dir,
		Tokens:  tokens,
		Client:  client,
		Session: auth.NewSession(client, tokens, logger),
		Catalog: catalog.NewService(client),
		Cart:    cart.NewStore(client, logger),
		Orders:  order.NewService(client),
		Admin:   admin.NewService(client, logger),
	}, nil
}
