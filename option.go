package dapp

import (
	"time"

	"github.com/pratikshakalbhor/stellar-whitebelt-dapp/clients"
	"github.com/pratikshakalbhor/stellar-whitebelt-dapp/logger"
	"github.com/pratikshakalbhor/stellar-whitebelt-dapp/metrics"
	"github.com/pratikshakalbhor/stellar-whitebelt-dapp/signer"
)

type Option func(*Dapp)

func WithLogger(l logger.Logger) Option {
	return func(d *Dapp) {
		d.logger = l
	}
}

func WithMetrics(r metrics.Recorder) Option {
	return func(d *Dapp) {
		d.metrics = r
	}
}

// WithTimeout bounds every network call of a run
func WithTimeout(t time.Duration) Option {
	return func(d *Dapp) {
		d.timeout = t
	}
}

func WithRefreshDelay(t time.Duration) Option {
	return func(d *Dapp) {
		d.refreshDelay = t
	}
}

// WithBalanceHandler enables the balance refresh after successful runs.
func WithBalanceHandler(h BalanceHandler) Option {
	return func(d *Dapp) {
		d.onBalance = h
	}
}

// WithAgent sets the signing agent. Without one, runs fail at signing.
func WithAgent(a signer.Agent) Option {
	return func(d *Dapp) {
		d.agent = a
	}
}

func WithAccountLoader(l clients.AccountLoader) Option {
	return func(d *Dapp) {
		d.accounts = l
	}
}

func WithFeeOracle(f clients.FeeOracle) Option {
	return func(d *Dapp) {
		d.fees = f
	}
}

func WithSimulationEndpoint(e clients.SimulationEndpoint) Option {
	return func(d *Dapp) {
		d.simEndpoint = e
	}
}

// WithPaymentSubmitter sets where signed payments are submitted.
func WithPaymentSubmitter(e clients.SubmissionEndpoint) Option {
	return func(d *Dapp) {
		d.paySubmitter = e
	}
}

// WithContractSubmitter sets where signed contract invocations are submitted.
func WithContractSubmitter(e clients.SubmissionEndpoint) Option {
	return func(d *Dapp) {
		d.invokeSubmitter = e
	}
}
