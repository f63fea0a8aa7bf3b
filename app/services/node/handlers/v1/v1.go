// Package v1 contains the full set of handler functions and routes
// supported by the v1 web api.
package v1

import (
	"net/http"

	"github.com/ardanlabs/blockcoin/app/services/node/handlers/v1/public"
	"github.com/ardanlabs/blockcoin/foundation/events"
	"github.com/ardanlabs/blockcoin/foundation/node"
	"github.com/ardanlabs/blockcoin/foundation/web"
	"go.uber.org/zap"
)

const version = "v1"

// Config contains all the mandatory systems required by handlers.
type Config struct {
	Log  *zap.SugaredLogger
	Node *node.Node
	Evts *events.Events
}

// PublicRoutes binds all the version 1 public routes.
func PublicRoutes(app *web.App, cfg Config) {
	pbl := public.Handlers{
		Log:  cfg.Log,
		Node: cfg.Node,
		Evts: cfg.Evts,
	}

	app.Handle(http.MethodGet, version, "/events", pbl.Events)

	app.Handle(http.MethodPost, version, "/wallets", pbl.CreateWallet)
	app.Handle(http.MethodPost, version, "/wallets/open", pbl.OpenWallet)
	app.Handle(http.MethodGet, version, "/wallets/:id", pbl.Wallet)
	app.Handle(http.MethodDelete, version, "/wallets/:id", pbl.DeleteWallet)
	app.Handle(http.MethodPost, version, "/wallets/:id/send", pbl.Send)
	app.Handle(http.MethodPost, version, "/wallets/:id/reset", pbl.Reset)

	app.Handle(http.MethodGet, version, "/wallets/:id/chain", pbl.Chain)
	app.Handle(http.MethodGet, version, "/wallets/:id/chain/blocks/:number", pbl.Block)
	app.Handle(http.MethodGet, version, "/wallets/:id/chain/pending", pbl.Pending)

	app.Handle(http.MethodGet, version, "/wallets/:id/mining", pbl.Mining)
	app.Handle(http.MethodPost, version, "/wallets/:id/mining/start", pbl.StartMining)
	app.Handle(http.MethodPost, version, "/wallets/:id/mining/stop", pbl.StopMining)
	app.Handle(http.MethodPut, version, "/wallets/:id/mining/power", pbl.HashPower)

	app.Handle(http.MethodGet, version, "/wallets/:id/market", pbl.Market)
}
