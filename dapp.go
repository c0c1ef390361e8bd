// Package dapp sends native XLM payments and mints NFTs on a Soroban
// contract, with signatures coming from an external, user-controlled agent.
//
// Every action runs the same pipeline: validate, load the account, build,
// simulate and assemble (contract calls only), sign, submit and classify.
// The result is always exactly one types.Outcome.
package dapp

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/stellar/go/txnbuild"
	"github.com/stellar/go/xdr"

	"github.com/pratikshakalbhor/stellar-whitebelt-dapp/builder"
	"github.com/pratikshakalbhor/stellar-whitebelt-dapp/clients"
	"github.com/pratikshakalbhor/stellar-whitebelt-dapp/logger"
	"github.com/pratikshakalbhor/stellar-whitebelt-dapp/metrics"
	"github.com/pratikshakalbhor/stellar-whitebelt-dapp/outcome"
	"github.com/pratikshakalbhor/stellar-whitebelt-dapp/settlement"
	"github.com/pratikshakalbhor/stellar-whitebelt-dapp/signer"
	"github.com/pratikshakalbhor/stellar-whitebelt-dapp/simulation"
	"github.com/pratikshakalbhor/stellar-whitebelt-dapp/types"
	"github.com/pratikshakalbhor/stellar-whitebelt-dapp/utils"
)

// BalanceHandler receives the refreshed native balance of an account,
// formatted with two decimals.
type BalanceHandler func(address string, balance string)

// Dapp is the main struct that runs the transaction pipeline
type Dapp struct {
	config *types.DappConfig

	accounts  clients.AccountLoader
	fees      clients.FeeOracle
	simulator *simulation.SimulationService
	settler   *settlement.SettlementService
	builder   *builder.Builder
	bridge    *signer.Bridge

	// set by options, consumed by New
	agent           signer.Agent
	simEndpoint     clients.SimulationEndpoint
	paySubmitter    clients.SubmissionEndpoint
	invokeSubmitter clients.SubmissionEndpoint
	closers         []func()

	logger       logger.Logger
	metrics      metrics.Recorder
	timeout      time.Duration
	refreshDelay time.Duration
	onBalance    BalanceHandler

	mu   sync.Mutex
	busy map[string]struct{}

	refreshers sync.WaitGroup
	done       chan struct{}
	closeOnce  sync.Once
}

// New creates a Dapp for config. Collaborators not supplied through options
// are created from the configured Horizon and Soroban RPC URLs.
func New(config *types.DappConfig, opts ...Option) (*Dapp, error) {
	if config == nil {
		config = types.DefaultDappConfig()
	}
	if err := utils.ValidateStruct(config); err != nil {
		return nil, types.NewError(types.ErrConfigError, "invalid dapp config", err)
	}

	d := &Dapp{
		config:       config,
		logger:       &logger.NoopLogger{},
		metrics:      metrics.NoopRecorder{},
		timeout:      config.RequestTimeout,
		refreshDelay: config.RefreshDelay,
		busy:         make(map[string]struct{}),
		done:         make(chan struct{}),
	}
	for _, opt := range opts {
		opt(d)
	}

	if d.accounts == nil || d.paySubmitter == nil || (d.fees == nil && config.FeeMode == types.FeeModeLive) {
		horizon := clients.NewHorizonClient(config.Network, config.HorizonURL, d.timeout)
		if d.accounts == nil {
			d.accounts = horizon
		}
		if d.paySubmitter == nil {
			d.paySubmitter = horizon
		}
		if d.fees == nil && config.FeeMode == types.FeeModeLive {
			d.fees = horizon
		}
	}
	if d.fees == nil {
		d.fees = clients.FixedFee(txnbuild.MinBaseFee)
	}

	if d.simEndpoint == nil || d.invokeSubmitter == nil {
		soroban, err := clients.NewSorobanClient(context.Background(), config.Network, config.SorobanRPCURL)
		if err != nil {
			return nil, types.NewError(types.ErrConfigError, "failed to create Soroban client", err)
		}
		d.closers = append(d.closers, soroban.Close)
		if d.simEndpoint == nil {
			d.simEndpoint = soroban
		}
		if d.invokeSubmitter == nil {
			d.invokeSubmitter = soroban
		}
	}

	d.builder = builder.New(
		builder.WithTimeout(config.TxTimeout),
		builder.WithContract(config.ContractID, builder.NFTContract),
	)
	d.simulator = simulation.NewSimulationService(d.simEndpoint, d.timeout)

	d.settler = settlement.NewSettlementService(config.Network, d.timeout)
	d.settler.AddHorizonClient(d.paySubmitter)
	d.settler.AddSorobanClient(d.invokeSubmitter)

	if d.agent != nil {
		d.bridge = signer.NewBridge(d.agent,
			signer.WithDeclinePhrases(config.DeclinePhrases),
			signer.WithLogger(d.logger),
		)
	}

	return d, nil
}

// SendPayment sends a native payment from req.Source to req.Destination.
func (d *Dapp) SendPayment(ctx context.Context, req types.PaymentRequest) types.Outcome {
	if err := utils.ValidateStruct(&req); err != nil {
		return d.reject(types.OperationPayment, err)
	}

	return d.Run(ctx, strings.TrimSpace(req.Source), types.Payment{
		Destination: strings.TrimSpace(req.Destination),
		Amount:      strings.TrimSpace(req.Amount),
	})
}

// MintNFT mints an NFT named req.Name owned by req.Owner, who also signs and
// pays for the transaction.
func (d *Dapp) MintNFT(ctx context.Context, req types.MintRequest) types.Outcome {
	req.Owner = strings.TrimSpace(req.Owner)
	req.Name = utils.NormalizeSymbol(req.Name)
	req.ImageID = utils.NormalizeSymbol(req.ImageID)

	if err := utils.ValidateStruct(&req); err != nil {
		return d.reject(types.OperationContractInvoke, err)
	}
	if err := utils.ValidateImageID(req.ImageID, d.config.ImageIDs); err != nil {
		return d.reject(types.OperationContractInvoke, types.NewError(types.ErrInvalidInput, err.Error(), nil))
	}

	invoke, err := builder.MintNFT(d.config.ContractID, req.Owner, req.Name, req.ImageID)
	if err != nil {
		return d.reject(types.OperationContractInvoke, err)
	}

	return d.Run(ctx, req.Owner, invoke)
}

// Invoke calls an arbitrary contract function signed by req.Source.
func (d *Dapp) Invoke(ctx context.Context, req types.InvokeRequest) types.Outcome {
	if err := utils.ValidateStruct(&req); err != nil {
		return d.reject(types.OperationContractInvoke, err)
	}

	return d.Run(ctx, req.Source, types.ContractInvoke{
		ContractID: req.ContractID,
		Function:   req.Function,
		Args:       req.Args,
	})
}

// Run takes op through the whole pipeline with source as the transaction
// source and signer. Only one run per source account may be in flight; a
// second one fails with BUSY without any I/O.
func (d *Dapp) Run(ctx context.Context, source string, op types.Operation) types.Outcome {
	kind := operationKind(op)
	source = strings.TrimSpace(source)

	if err := validateRun(source, op); err != nil {
		return d.reject(kind, err)
	}

	if !d.acquire(source) {
		return d.reject(kind, types.NewError(types.ErrBusy,
			fmt.Sprintf("a transaction for %s is already in progress", source), nil))
	}
	defer d.release(source)

	start := time.Now()
	hash, err := d.execute(ctx, source, op)
	out := outcome.Classify(outcome.Termination{Hash: hash, Err: err})
	d.metrics.ObserveLatency("pipeline", time.Since(start), d.labels(kind, ""))
	d.report(kind, out, err)

	if out.IsSuccess() {
		d.scheduleRefresh(source)
	}
	return out
}

// execute runs the stages in order and returns the submitted hash. Panics
// are turned into UNKNOWN errors.
func (d *Dapp) execute(ctx context.Context, source string, op types.Operation) (hash string, err error) {
	defer func() {
		if r := recover(); r != nil {
			hash, err = "", outcome.Recovered(r)
		}
	}()

	kind := op.Kind()

	if err := d.checkpoint(ctx, "load_account"); err != nil {
		return "", err
	}
	snapshot, err := timed(d, "load_account", func() (*types.AccountSnapshot, error) {
		return d.accounts.LoadAccount(ctx, source)
	})
	if err != nil {
		return "", d.stageError(ctx, "load account", err)
	}

	if err := d.checkpoint(ctx, "base_fee"); err != nil {
		return "", err
	}
	fee, err := timed(d, "base_fee", func() (int64, error) {
		return d.fees.BaseFee(ctx)
	})
	if err != nil {
		return "", d.stageError(ctx, "read base fee", err)
	}
	if fee < txnbuild.MinBaseFee {
		fee = txnbuild.MinBaseFee
	}

	tx, err := d.builder.Build(snapshot, fee, d.config.Network, op)
	if err != nil {
		return "", err
	}
	d.logger.Debug("transaction built", map[string]any{
		"source":   source,
		"sequence": tx.Sequence,
		"fee":      tx.MaxFee,
		"kind":     kind.String(),
	})

	if kind == types.OperationContractInvoke {
		if err := d.checkpoint(ctx, "simulate"); err != nil {
			return "", err
		}
		sim, err := timed(d, "simulate", func() (*types.SimulationResult, error) {
			return d.simulator.Simulate(ctx, tx)
		})
		if err != nil {
			return "", d.stageError(ctx, "simulate", err)
		}

		tx, err = d.builder.Assemble(tx, sim)
		if err != nil {
			return "", err
		}
		d.logger.Debug("transaction assembled", map[string]any{
			"resource_fee":  tx.ResourceFee,
			"latest_ledger": sim.LatestLedger,
		})
	}

	if d.bridge == nil {
		return "", types.NewError(types.ErrConfigError, "no signing agent configured", nil)
	}
	if err := d.checkpoint(ctx, "sign"); err != nil {
		return "", err
	}
	env, err := timed(d, "sign", func() (*types.SignedEnvelope, error) {
		return d.bridge.Sign(ctx, tx)
	})
	if err != nil {
		return "", d.stageError(ctx, "sign", err)
	}

	// From here on the caller can no longer cancel.
	result, err := timed(d, "submit", func() (*types.SettlementResult, error) {
		return d.settler.Settle(ctx, env, kind)
	})
	if err != nil {
		return "", err
	}

	return result.TxHash, nil
}

// Balance returns the native balance of address with two decimals.
func (d *Dapp) Balance(ctx context.Context, address string) (string, error) {
	address = strings.TrimSpace(address)
	if err := utils.ValidateAddress(address); err != nil {
		return "", types.NewError(types.ErrInvalidInput, "invalid address", err)
	}

	snapshot, err := d.accounts.LoadAccount(ctx, address)
	if err != nil {
		return "", err
	}

	native, ok := snapshot.NativeBalance()
	if !ok {
		return "", types.NewError(types.ErrMalformedResponse, "account has no native balance", nil)
	}

	formatted, err := utils.FormatBalance(native, 2)
	if err != nil {
		return "", types.NewError(types.ErrMalformedResponse, "invalid balance", err)
	}
	return formatted, nil
}

// QueryContract simulates a read-only call of fn on the configured contract
// with source as the transaction source, and returns the value it produced.
func (d *Dapp) QueryContract(ctx context.Context, source string, fn string, args ...xdr.ScVal) (xdr.ScVal, error) {
	snapshot, err := d.querySource(ctx, source)
	if err != nil {
		return xdr.ScVal{}, err
	}
	return d.query(ctx, snapshot, fn, args...)
}

// querySource loads the account read-only calls are simulated from. Its
// sequence number is never consumed.
func (d *Dapp) querySource(ctx context.Context, source string) (*types.AccountSnapshot, error) {
	source = strings.TrimSpace(source)
	if err := utils.ValidateAddress(source); err != nil {
		return nil, types.NewError(types.ErrInvalidInput, "invalid source address", err)
	}
	return d.accounts.LoadAccount(ctx, source)
}

func (d *Dapp) query(ctx context.Context, snapshot *types.AccountSnapshot, fn string, args ...xdr.ScVal) (xdr.ScVal, error) {
	tx, err := d.builder.Build(snapshot, txnbuild.MinBaseFee, d.config.Network, types.ContractInvoke{
		ContractID: d.config.ContractID,
		Function:   fn,
		Args:       args,
	})
	if err != nil {
		return xdr.ScVal{}, err
	}

	sim, err := d.simulator.Simulate(ctx, tx)
	if err != nil {
		return xdr.ScVal{}, err
	}

	var val xdr.ScVal
	if err := xdr.SafeUnmarshalBase64(sim.RetVal, &val); err != nil {
		return xdr.ScVal{}, types.NewError(types.ErrMalformedResponse, "invalid simulation return value", err)
	}
	return val, nil
}

// NFTTotal returns the number of NFTs minted so far.
func (d *Dapp) NFTTotal(ctx context.Context, source string) (uint64, error) {
	val, err := d.QueryContract(ctx, source, builder.FnGetTotal)
	if err != nil {
		return 0, err
	}
	return builder.UintValue(val)
}

// ExplorerURL returns the block explorer page of a transaction.
func (d *Dapp) ExplorerURL(hash string) string {
	return strings.TrimRight(d.config.ExplorerURL, "/") + "/tx/" + hash
}

// Network returns the network transactions are built for
func (d *Dapp) Network() types.Network {
	return d.config.Network
}

// Close stops pending balance refreshes and closes owned connections.
func (d *Dapp) Close() {
	d.closeOnce.Do(func() {
		close(d.done)
		d.refreshers.Wait()
		for _, c := range d.closers {
			c()
		}
	})
}

func (d *Dapp) acquire(account string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, ok := d.busy[account]; ok {
		return false
	}
	d.busy[account] = struct{}{}
	return true
}

func (d *Dapp) release(account string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.busy, account)
}

func (d *Dapp) checkpoint(ctx context.Context, stage string) error {
	if err := ctx.Err(); err != nil {
		return types.NewError(types.ErrCancelled, fmt.Sprintf("cancelled before %s", stage), err)
	}
	return nil
}

// stageError keeps typed errors as they are, except that any failure after
// the caller cancelled is reported as a cancellation.
func (d *Dapp) stageError(ctx context.Context, stage string, err error) error {
	if ctx.Err() != nil && !types.HasCode(err, types.ErrSignerDeclined) {
		return types.NewError(types.ErrCancelled, fmt.Sprintf("cancelled during %s", stage), err)
	}
	if types.ErrorCode(err) == types.ErrUnknown {
		return types.NewError(types.ErrNetworkError, fmt.Sprintf("failed to %s", stage), err)
	}
	return err
}

func (d *Dapp) reject(kind types.OperationKind, err error) types.Outcome {
	out := outcome.Classify(outcome.Termination{Err: err})
	d.report(kind, out, err)
	return out
}

func (d *Dapp) report(kind types.OperationKind, out types.Outcome, err error) {
	d.metrics.IncCounter("outcome", d.labels(kind, string(out.Status)))

	fields := map[string]any{
		"network":   d.config.Network.String(),
		"operation": kind.String(),
		"status":    string(out.Status),
	}
	switch {
	case out.IsSuccess():
		fields["hash"] = out.Hash
		fields["explorer"] = d.ExplorerURL(out.Hash)
		d.logger.Info("transaction submitted", fields)
	case out.IsCancelled():
		fields["reason"] = out.Reason
		d.logger.Info("transaction cancelled", fields)
	default:
		fields["reason"] = out.Reason
		fields["code"] = out.Code
		if len(out.OperationCodes) > 0 {
			fields["operation_codes"] = out.OperationCodes
		}
		if err != nil {
			fields["error"] = err
		}
		d.logger.Warn("transaction failed", fields)
	}
}

func (d *Dapp) labels(kind types.OperationKind, status string) map[string]string {
	return map[string]string{
		"network":   d.config.Network.String(),
		"operation": kind.String(),
		"status":    status,
	}
}

func timed[T any](d *Dapp, stage string, fn func() (T, error)) (T, error) {
	start := time.Now()
	v, err := fn()
	d.metrics.ObserveLatency(stage, time.Since(start), map[string]string{"network": d.config.Network.String()})
	return v, err
}

func operationKind(op types.Operation) types.OperationKind {
	if op == nil {
		return ""
	}
	return op.Kind()
}

// validateRun rejects input that is wrong before any I/O happens.
func validateRun(source string, op types.Operation) error {
	if err := utils.ValidateAddress(source); err != nil {
		return types.NewError(types.ErrInvalidInput, "invalid source address", err)
	}

	switch o := op.(type) {
	case types.Payment:
		if err := utils.ValidateAddress(o.Destination); err != nil {
			return types.NewError(types.ErrInvalidInput, "invalid destination address", err)
		}
		if _, err := utils.ValidateAmount(o.Amount); err != nil {
			return types.NewError(types.ErrInvalidInput, "invalid amount", err)
		}
	case types.ContractInvoke:
		if err := utils.ValidateContractID(o.ContractID); err != nil {
			return types.NewError(types.ErrInvalidInput, "invalid contract id", err)
		}
		if err := utils.ValidateSymbol(o.Function); err != nil {
			return types.NewError(types.ErrInvalidInput, "invalid function name", err)
		}
	case nil:
		return types.NewError(types.ErrInvalidInput, "missing operation", nil)
	}
	return nil
}
