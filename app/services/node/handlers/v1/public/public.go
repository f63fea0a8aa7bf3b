// Package public maintains the group of handlers for public access.
package public

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/ardanlabs/blockcoin/business/web/errs"
	"github.com/ardanlabs/blockcoin/foundation/blockchain/state"
	"github.com/ardanlabs/blockcoin/foundation/blockchain/wallet"
	"github.com/ardanlabs/blockcoin/foundation/events"
	"github.com/ardanlabs/blockcoin/foundation/node"
	"github.com/ardanlabs/blockcoin/foundation/validate"
	"github.com/ardanlabs/blockcoin/foundation/web"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// Handlers manages the set of wallet endpoints.
type Handlers struct {
	Log  *zap.SugaredLogger
	Node *node.Node
	WS   websocket.Upgrader
	Evts *events.Events
}

// Events handles a web socket to provide record change events to a client.
// The optional wallet query parameter limits the stream to one wallet.
func (h Handlers) Events(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	v, err := web.GetValues(ctx)
	if err != nil {
		return web.NewShutdownError("web value missing from context")
	}

	h.WS.CheckOrigin = func(r *http.Request) bool { return true }

	c, err := h.WS.Upgrade(w, r, nil)
	if err != nil {
		return err
	}
	defer c.Close()

	walletID := r.URL.Query().Get("wallet")

	ch := h.Evts.Acquire(v.TraceID)
	defer h.Evts.Release(v.TraceID)

	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case evt, wd := <-ch:
			if !wd {
				return nil
			}

			if walletID != "" && evt.WalletID != walletID {
				continue
			}

			if err := c.WriteJSON(evt); err != nil {
				return err
			}

		case <-ticker.C:
			if err := c.WriteMessage(websocket.PingMessage, []byte("ping")); err != nil {
				return nil
			}
		}
	}
}

// CreateWallet generates a passphrase and opens a new wallet for it.
func (h Handlers) CreateWallet(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	passphrase, sess, err := h.Node.CreateWallet()
	if err != nil {
		return fmt.Errorf("create wallet: %w", err)
	}

	h.Log.Infow("create wallet", "traceid", web.GetTraceID(ctx), "walletid", sess.WalletID)

	resp := walletCreated{
		WalletID:   sess.WalletID,
		Address:    sess.State.RetrieveWallet().Address,
		Passphrase: passphrase,
	}

	return web.Respond(ctx, w, resp, http.StatusCreated)
}

// OpenWallet opens the wallet belonging to the passphrase.
func (h Handlers) OpenWallet(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	var req openRequest
	if err := web.Decode(r, &req); err != nil {
		return decodeError(err)
	}

	if !wallet.IsMnemonic(req.Passphrase) {
		h.Log.Infow("open wallet", "traceid", web.GetTraceID(ctx), "status", "passphrase is not a mnemonic")
	}

	sess, err := h.Node.OpenWallet(req.Passphrase)
	if err != nil {
		return trusted(err)
	}

	resp := walletOpened{
		WalletID: sess.WalletID,
		Wallet:   sess.State.RetrieveWallet(),
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}

// Wallet returns the wallet record.
func (h Handlers) Wallet(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	sess, err := h.session(r)
	if err != nil {
		return err
	}

	return web.Respond(ctx, w, sess.State.RetrieveWallet(), http.StatusOK)
}

// DeleteWallet stops mining for the wallet and clears all of its records.
func (h Handlers) DeleteWallet(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	if err := h.Node.Delete(web.Param(r, "id")); err != nil {
		return trusted(err)
	}

	return web.Respond(ctx, w, nil, http.StatusNoContent)
}

// Send submits a transfer out of the wallet.
func (h Handlers) Send(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	sess, err := h.session(r)
	if err != nil {
		return err
	}

	var req sendRequest
	if err := web.Decode(r, &req); err != nil {
		return decodeError(err)
	}

	tx, err := sess.State.SubmitSend(req.To, req.Amount)
	if err != nil {
		return trusted(err)
	}

	h.Log.Infow("send", "traceid", web.GetTraceID(ctx), "walletid", sess.WalletID, "to", req.To, "amount", req.Amount)

	return web.Respond(ctx, w, tx, http.StatusOK)
}

// Chain returns the wallet's copy of the chain.
func (h Handlers) Chain(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	sess, err := h.session(r)
	if err != nil {
		return err
	}

	c := sess.State.RetrieveChain()

	resp := chain{
		Genesis:      sess.State.RetrieveGenesis(),
		Length:       len(c.Blocks),
		Difficulty:   c.Difficulty,
		MiningReward: c.MiningReward,
		LatestBlock:  c.LatestBlock(),
		Blocks:       c.Blocks,
		Pending:      c.PendingTransactions,
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}

// Reset stops mining and puts the wallet's records back to their starting
// values.
func (h Handlers) Reset(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	sess, err := h.session(r)
	if err != nil {
		return err
	}

	if err := sess.Worker.StopWait(ctx); err != nil {
		return fmt.Errorf("stop mining: %w", err)
	}

	if err := sess.State.Reset(); err != nil {
		return fmt.Errorf("reset: %w", err)
	}

	h.Log.Infow("reset", "traceid", web.GetTraceID(ctx), "walletid", sess.WalletID)

	return web.Respond(ctx, w, sess.State.RetrieveWallet(), http.StatusOK)
}

// Block returns the block with the specified number.
func (h Handlers) Block(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	sess, err := h.session(r)
	if err != nil {
		return err
	}

	num, err := strconv.ParseUint(web.Param(r, "number"), 10, 64)
	if err != nil {
		return errs.NewTrusted(fmt.Errorf("invalid block number: %w", err), http.StatusBadRequest)
	}

	block, err := sess.State.RetrieveBlock(num)
	if err != nil {
		return trusted(err)
	}

	return web.Respond(ctx, w, block, http.StatusOK)
}

// Pending returns the transactions waiting for the next block.
func (h Handlers) Pending(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	sess, err := h.session(r)
	if err != nil {
		return err
	}

	return web.Respond(ctx, w, sess.State.RetrievePending(), http.StatusOK)
}

// Mining returns the worker status and the mining stats.
func (h Handlers) Mining(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	sess, err := h.session(r)
	if err != nil {
		return err
	}

	resp := mining{
		Status: sess.Worker.Status(),
		Stats:  sess.State.RetrieveStats(),
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}

// StartMining signals the wallet's worker to begin mining.
func (h Handlers) StartMining(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	sess, err := h.session(r)
	if err != nil {
		return err
	}

	sess.Worker.Start()

	resp := struct {
		Status string `json:"status"`
	}{
		Status: "mining signaled",
	}

	return web.Respond(ctx, w, resp, http.StatusAccepted)
}

// StopMining signals the wallet's worker to stop mining.
func (h Handlers) StopMining(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	sess, err := h.session(r)
	if err != nil {
		return err
	}

	sess.Worker.Stop()

	resp := struct {
		Status string `json:"status"`
	}{
		Status: "stop signaled",
	}

	return web.Respond(ctx, w, resp, http.StatusAccepted)
}

// HashPower sets the hash power used by the next mining round.
func (h Handlers) HashPower(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	sess, err := h.session(r)
	if err != nil {
		return err
	}

	var req powerRequest
	if err := web.Decode(r, &req); err != nil {
		return decodeError(err)
	}

	if err := sess.State.SetHashPower(req.HashPower); err != nil {
		return trusted(err)
	}

	return web.Respond(ctx, w, sess.State.RetrieveStats(), http.StatusOK)
}

// Market returns the simulated market data.
func (h Handlers) Market(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	sess, err := h.session(r)
	if err != nil {
		return err
	}

	return web.Respond(ctx, w, sess.State.RetrieveMarket(), http.StatusOK)
}

// =============================================================================

// session looks up the open wallet named by the id parameter.
func (h Handlers) session(r *http.Request) (*node.Session, error) {
	sess, err := h.Node.Session(web.Param(r, "id"))
	if err != nil {
		return nil, trusted(err)
	}

	return sess, nil
}

// decodeError reports a malformed payload as a client error. Validation
// failures pass through so the field messages reach the client.
func decodeError(err error) error {
	if validate.IsFieldErrors(err) {
		return err
	}

	return errs.NewTrusted(err, http.StatusBadRequest)
}

// statusRules lists the errors a client can act on.
var statusRules = []errs.Rule{
	{
		Status: http.StatusNotFound,
		Errs:   []error{node.ErrWalletNotFound, state.ErrNotFound},
	},
	{
		Status: http.StatusBadRequest,
		Errs: []error{
			state.ErrInvalidRecipient,
			state.ErrInvalidAmount,
			state.ErrInsufficientFunds,
			state.ErrInvalidHashPower,
			wallet.ErrEmptyPassphrase,
		},
	},
}

// trusted marks the errors in statusRules for the client. Anything else is
// reported as a 500.
func trusted(err error) error {
	return errs.Classify(err, statusRules...)
}
