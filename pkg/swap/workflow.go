package swap

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"zen-swap/pkg/client"
	"zen-swap/pkg/types"
	"zen-swap/pkg/wallet"
)

// Quoter fetches a quote for a swap request
type Quoter interface {
	GetQuote(ctx context.Context, req types.SwapRequest) (*client.QuoteResponse, error)
}

// Wallet is the part of the wallet connector the workflow needs
type Wallet interface {
	Connect(ctx context.Context) (common.Address, error)
	CheckConnection(ctx context.Context) (common.Address, bool, error)
	Signer() (*wallet.Signer, error)
}

// HistoryStore persists confirmed swaps
type HistoryStore interface {
	Append(record types.TransactionRecord) error
	Records() []types.TransactionRecord
}

// Notifier shows transient notifications to the user
type Notifier interface {
	Success(message string)
	Failure(message string)
}

// User facing messages
const (
	MsgEnterAmount      = "Enter an amount"
	MsgWalletConnected  = "Wallet connected!"
	MsgConnectFailed    = "Connection failed!"
	MsgSimulated        = "Simulation succeeded!"
	MsgSimulationFailed = "Simulation failed!"
	MsgSwapExecuted     = "Swap executed successfully!"
	MsgSwapFailed       = "Swap failed!"
	prefixConnectError  = "Failed to connect wallet: "
	prefixSimulateError = "Simulation failed: "
	prefixConfirmError  = "Swap failed: "
)

// State is a snapshot of the workflow
type State struct {
	Request      types.SwapRequest
	Simulation   *types.SimulationResult
	ErrorMessage string
	Loading      bool
	ConfirmOpen  bool
	Account      common.Address
	Connected    bool
}

// Workflow drives quote simulation and swap confirmation. It is safe for
// concurrent use; only the response to the most recent Simulate call is
// applied.
type Workflow struct {
	quoter   Quoter
	wallet   Wallet
	history  HistoryStore
	notifier Notifier
	logger   *logrus.Logger
	now      func() time.Time

	mu          sync.Mutex
	request     types.SwapRequest
	simulation  *types.SimulationResult
	errMsg      string
	loading     bool
	generation  uint64
	confirmOpen bool
	account     common.Address
	connected   bool
}

// NewWorkflow creates a workflow with the given collaborators and initial
// request. The slippage is used as given, zero included.
func NewWorkflow(quoter Quoter, w Wallet, history HistoryStore, notifier Notifier, initial types.SwapRequest, logger *logrus.Logger) *Workflow {
	return &Workflow{
		quoter:   quoter,
		wallet:   w,
		history:  history,
		notifier: notifier,
		logger:   logger,
		now:      time.Now,
		request:  initial,
	}
}

// SetClock replaces the time source used for history timestamps
func (w *Workflow) SetClock(now func() time.Time) {
	w.now = now
}

// SetFromToken updates the source token
func (w *Workflow) SetFromToken(symbol string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.request.FromToken = symbol
}

// SetToToken updates the destination token
func (w *Workflow) SetToToken(symbol string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.request.ToToken = symbol
}

// SetAmount updates the amount exactly as entered
func (w *Workflow) SetAmount(amount string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.request.Amount = amount
}

// SetSlippage parses and sets the slippage percentage. On a parse error the
// previous value is kept.
func (w *Workflow) SetSlippage(value string) error {
	slippage, err := decimal.NewFromString(strings.TrimSpace(value))
	if err != nil {
		return errors.Wrapf(err, "invalid slippage %q", value)
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	w.request.Slippage = slippage
	return nil
}

// SetRequest replaces all inputs at once
func (w *Workflow) SetRequest(req types.SwapRequest) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.request = req
}

// State returns a snapshot of the workflow
func (w *Workflow) State() State {
	w.mu.Lock()
	defer w.mu.Unlock()

	state := State{
		Request:      w.request,
		ErrorMessage: w.errMsg,
		Loading:      w.loading,
		ConfirmOpen:  w.confirmOpen,
		Account:      w.account,
		Connected:    w.connected,
	}
	if w.simulation != nil {
		sim := *w.simulation
		state.Simulation = &sim
	}
	return state
}

// ErrorMessage returns the inline error message of the last failure
func (w *Workflow) ErrorMessage() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.errMsg
}

// Simulation returns the current simulation, or nil
func (w *Workflow) Simulation() *types.SimulationResult {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.simulation == nil {
		return nil
	}
	sim := *w.simulation
	return &sim
}

// SimulationStale reports whether the inputs changed since the current
// simulation was produced. A stale simulation can still be confirmed.
func (w *Workflow) SimulationStale() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.staleLocked()
}

func (w *Workflow) staleLocked() bool {
	if w.simulation == nil {
		return false
	}
	return !sameRequest(w.simulation.Request, w.request)
}

func sameRequest(a, b types.SwapRequest) bool {
	return a.FromToken == b.FromToken &&
		a.ToToken == b.ToToken &&
		a.Amount == b.Amount &&
		a.Slippage.Equal(b.Slippage)
}

// CheckConnection picks up an already authorized wallet account without
// prompting. Failures are logged and returned but not shown to the user.
func (w *Workflow) CheckConnection(ctx context.Context) (common.Address, bool, error) {
	if w.wallet == nil {
		return common.Address{}, false, types.ErrWalletUnavailable
	}

	account, ok, err := w.wallet.CheckConnection(ctx)
	if err != nil {
		w.logger.WithError(err).Debug("Wallet connection check failed")
		return common.Address{}, false, err
	}

	if ok {
		w.mu.Lock()
		w.account = account
		w.connected = true
		w.mu.Unlock()
	}
	return account, ok, nil
}

// ConnectWallet asks the wallet for an account and registers the chain
func (w *Workflow) ConnectWallet(ctx context.Context) (common.Address, error) {
	if w.wallet == nil {
		w.fail(prefixConnectError+types.ErrWalletUnavailable.Error(), MsgConnectFailed)
		return common.Address{}, types.ErrWalletUnavailable
	}

	account, err := w.wallet.Connect(ctx)
	if err != nil {
		w.fail(prefixConnectError+err.Error(), MsgConnectFailed)
		return common.Address{}, err
	}

	w.mu.Lock()
	w.account = account
	w.connected = true
	w.mu.Unlock()

	w.notifier.Success(MsgWalletConnected)
	return account, nil
}

// Simulate requests a quote for the current inputs and stores the result.
// A failure keeps the previous result. If another Simulate starts before
// this one returns, this call's outcome is discarded and
// types.ErrQuoteSuperseded is returned.
func (w *Workflow) Simulate(ctx context.Context) (*types.SimulationResult, error) {
	w.mu.Lock()
	req := w.request
	if strings.TrimSpace(req.Amount) == "" {
		w.errMsg = MsgEnterAmount
		w.mu.Unlock()
		return nil, types.ErrMissingAmount
	}
	w.generation++
	gen := w.generation
	w.loading = true
	w.mu.Unlock()

	log := w.logger.WithFields(logrus.Fields{
		"from":       req.FromToken,
		"to":         req.ToToken,
		"amount":     req.Amount,
		"generation": gen,
	})
	log.Debug("Simulating swap")

	quote, err := w.quoter.GetQuote(ctx, req)

	w.mu.Lock()
	if gen != w.generation {
		w.mu.Unlock()
		log.Debug("Discarding superseded quote")
		return nil, types.ErrQuoteSuperseded
	}
	w.loading = false

	if err != nil {
		w.errMsg = prefixSimulateError + err.Error()
		w.mu.Unlock()
		log.WithError(err).Warn("Simulation failed")
		w.notifier.Failure(MsgSimulationFailed)
		return nil, err
	}

	result := BuildSimulation(quote, req, w.now())
	w.simulation = &result
	w.mu.Unlock()

	log.WithField("route", result.Route).Debug("Simulation stored")
	w.notifier.Success(MsgSimulated)

	out := result
	return &out, nil
}

// RequestConfirmation opens the confirmation prompt. It does nothing and
// returns false when there is no simulation.
func (w *Workflow) RequestConfirmation() bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.simulation == nil {
		return false
	}
	w.confirmOpen = true
	return true
}

// Cancel closes the confirmation prompt
func (w *Workflow) Cancel() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.confirmOpen = false
}

// Confirm records the swap in the history. No transaction is submitted.
// Without a simulation and an open prompt it is a no-op returning
// types.ErrConfirmationWithoutSimulation, with no notification. The prompt
// is closed for the duration of the call, so concurrent calls record at
// most one swap; a failure reopens it.
func (w *Workflow) Confirm(ctx context.Context) (*types.TransactionRecord, error) {
	w.mu.Lock()
	if w.simulation == nil || !w.confirmOpen {
		w.mu.Unlock()
		return nil, types.ErrConfirmationWithoutSimulation
	}
	// closed while confirming so a concurrent Confirm sees no prompt
	w.confirmOpen = false
	stale := w.staleLocked()
	req := w.request
	w.mu.Unlock()

	if err := ctx.Err(); err != nil {
		w.reopen()
		w.fail(prefixConfirmError+err.Error(), MsgSwapFailed)
		return nil, err
	}

	if stale {
		w.logger.WithFields(logrus.Fields{
			"from":   req.FromToken,
			"to":     req.ToToken,
			"amount": req.Amount,
		}).Warn("Confirming with inputs changed since the last simulation")
	}

	if w.wallet == nil {
		w.reopen()
		w.fail(prefixConfirmError+types.ErrSigningUnavailable.Error(), MsgSwapFailed)
		return nil, types.ErrSigningUnavailable
	}
	signer, err := w.wallet.Signer()
	if err != nil {
		w.reopen()
		w.fail(prefixConfirmError+err.Error(), MsgSwapFailed)
		return nil, err
	}

	record := types.NewTransactionRecord(req, w.now())
	if err := w.history.Append(record); err != nil {
		w.reopen()
		w.fail(prefixConfirmError+err.Error(), MsgSwapFailed)
		return nil, errors.Wrap(err, "failed to save swap")
	}

	w.logger.WithFields(logrus.Fields{
		"signer": signer.Address().Hex(),
		"from":   record.From,
		"to":     record.To,
		"amount": record.Amount,
	}).Info("Swap confirmed")
	w.notifier.Success(MsgSwapExecuted)

	return &record, nil
}

// History returns the persisted swaps in order
func (w *Workflow) History() []types.TransactionRecord {
	return w.history.Records()
}

// reopen restores the prompt after a failed confirmation
func (w *Workflow) reopen() {
	w.mu.Lock()
	w.confirmOpen = true
	w.mu.Unlock()
}

// fail sets the inline message and raises a failure notification
func (w *Workflow) fail(inline, toast string) {
	w.mu.Lock()
	w.errMsg = inline
	w.mu.Unlock()
	w.notifier.Failure(toast)
}
