package builder

import (
	"fmt"
	"time"

	"github.com/stellar/go/txnbuild"
	"github.com/stellar/go/xdr"

	"github.com/pratikshakalbhor/stellar-whitebelt-dapp/types"
	"github.com/pratikshakalbhor/stellar-whitebelt-dapp/utils"
)

// DefaultTimeout is the validity window of a built transaction.
const DefaultTimeout = 30 * time.Second

// Builder turns an account snapshot and one operation into an unsigned
// envelope. It performs no I/O.
type Builder struct {
	timeout   time.Duration
	contracts map[string]ContractSpec
	now       func() time.Time
}

type Option func(*Builder)

// WithTimeout sets the validity window of built transactions
func WithTimeout(d time.Duration) Option {
	return func(b *Builder) {
		if d > 0 {
			b.timeout = d
		}
	}
}

// WithContract registers the declared interface of a deployed contract.
// Invocations of a registered function are checked against it.
func WithContract(contractID string, spec ContractSpec) Option {
	return func(b *Builder) {
		b.contracts[contractID] = spec
	}
}

func New(opts ...Option) *Builder {
	b := &Builder{
		timeout:   DefaultTimeout,
		contracts: make(map[string]ContractSpec),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Build creates an unsigned transaction consuming the next sequence number of
// snapshot. Contract invocations come out unassembled.
func (b *Builder) Build(
	snapshot *types.AccountSnapshot,
	fee int64,
	network types.Network,
	op types.Operation,
) (*types.UnsignedTransaction, error) {
	if snapshot == nil {
		return nil, invalidOperation("missing account snapshot", nil)
	}
	if err := utils.ValidateAddress(snapshot.AccountID); err != nil {
		return nil, invalidOperation("invalid source account", err)
	}
	if fee < txnbuild.MinBaseFee {
		return nil, invalidOperation(fmt.Sprintf("fee %d below minimum %d", fee, txnbuild.MinBaseFee), nil)
	}
	if !network.IsValid() {
		return nil, invalidOperation(fmt.Sprintf("unknown network %q", network), nil)
	}

	var (
		txOp txnbuild.Operation
		err  error
	)
	switch o := op.(type) {
	case types.Payment:
		txOp, err = PaymentOperation(o)
	case types.ContractInvoke:
		if err = b.checkInvoke(o); err == nil {
			txOp, err = InvokeOperation(o, nil, nil)
		}
	case nil:
		err = invalidOperation("missing operation", nil)
	default:
		err = invalidOperation(fmt.Sprintf("unsupported operation %T", op), nil)
	}
	if err != nil {
		return nil, err
	}

	unsigned := &types.UnsignedTransaction{
		Source:    snapshot.AccountID,
		Sequence:  snapshot.Sequence + 1,
		BaseFee:   fee,
		Network:   network,
		Operation: op,
		MaxTime:   b.now().Add(b.timeout).Unix(),
	}

	tx, err := newTransaction(unsigned, fee, txOp)
	if err != nil {
		return nil, err
	}
	return finish(unsigned, tx)
}

// Assemble merges a successful simulation into an unassembled contract
// invocation. The result keeps the sequence number and validity window of tx
// and pays the resource fee on top of the base fee.
func (b *Builder) Assemble(tx *types.UnsignedTransaction, sim *types.SimulationResult) (*types.UnsignedTransaction, error) {
	if tx == nil || tx.Operation == nil {
		return nil, invalidOperation("missing transaction", nil)
	}
	invoke, ok := tx.Operation.(types.ContractInvoke)
	if !ok {
		return nil, invalidOperation("only contract invocations are assembled", nil)
	}
	if tx.Assembled {
		return nil, invalidOperation("transaction already assembled", nil)
	}
	if sim == nil || sim.Error != "" || sim.TransactionData == "" {
		return nil, types.NewError(types.ErrSimulationFailed, "cannot assemble a failed simulation", nil)
	}

	var data xdr.SorobanTransactionData
	if err := xdr.SafeUnmarshalBase64(sim.TransactionData, &data); err != nil {
		return nil, types.NewError(types.ErrMalformedResponse, "invalid simulation transaction data", err)
	}
	if int64(data.ResourceFee) < sim.MinResourceFee {
		data.ResourceFee = xdr.Int64(sim.MinResourceFee)
	}

	auth := make([]xdr.SorobanAuthorizationEntry, 0, len(sim.Auth))
	for i, raw := range sim.Auth {
		var entry xdr.SorobanAuthorizationEntry
		if err := xdr.SafeUnmarshalBase64(raw, &entry); err != nil {
			return nil, types.NewError(types.ErrMalformedResponse, fmt.Sprintf("invalid auth entry %d", i), err)
		}
		auth = append(auth, entry)
	}

	txOp, err := InvokeOperation(invoke, &data, auth)
	if err != nil {
		return nil, err
	}

	assembled := *tx
	assembled.Assembled = true
	assembled.ResourceFee = int64(data.ResourceFee)

	built, err := newTransaction(&assembled, tx.BaseFee, txOp)
	if err != nil {
		return nil, err
	}
	// txnbuild versions differ in whether the resource fee is added for us.
	if built.MaxFee() < tx.BaseFee+assembled.ResourceFee {
		built, err = newTransaction(&assembled, tx.BaseFee+assembled.ResourceFee, txOp)
		if err != nil {
			return nil, err
		}
	}

	return finish(&assembled, built)
}

// PaymentOperation builds the native payment operation for p.
func PaymentOperation(p types.Payment) (txnbuild.Operation, error) {
	if err := utils.ValidateAddress(p.Destination); err != nil {
		return nil, invalidOperation("invalid destination", err)
	}
	amount, err := utils.ValidateAmount(p.Amount)
	if err != nil {
		return nil, invalidOperation("invalid amount", err)
	}

	return &txnbuild.Payment{
		Destination: p.Destination,
		Amount:      amount.String(),
		Asset:       txnbuild.NativeAsset{},
	}, nil
}

// InvokeOperation builds the host function call for c. data and auth come
// from simulation and are nil before it.
func InvokeOperation(
	c types.ContractInvoke,
	data *xdr.SorobanTransactionData,
	auth []xdr.SorobanAuthorizationEntry,
) (txnbuild.Operation, error) {
	addr, err := contractAddress(c.ContractID)
	if err != nil {
		return nil, invalidOperation("invalid contract id", err)
	}

	op := &txnbuild.InvokeHostFunction{
		HostFunction: xdr.HostFunction{
			Type: xdr.HostFunctionTypeHostFunctionTypeInvokeContract,
			InvokeContract: &xdr.InvokeContractArgs{
				ContractAddress: addr,
				FunctionName:    xdr.ScSymbol(c.Function),
				Args:            c.Args,
			},
		},
		Auth: auth,
	}
	if data != nil {
		op.Ext = xdr.TransactionExt{V: 1, SorobanData: data}
	}
	return op, nil
}

func (b *Builder) checkInvoke(c types.ContractInvoke) error {
	if err := utils.ValidateContractID(c.ContractID); err != nil {
		return invalidOperation("invalid contract id", err)
	}
	if err := utils.ValidateSymbol(c.Function); err != nil {
		return invalidOperation("invalid function name", err)
	}

	if spec, ok := b.contracts[c.ContractID]; ok {
		declared, err := spec.Check(c.Function, c.Args)
		if err != nil {
			return invalidOperation("arguments do not match contract signature", err)
		}
		if declared {
			return nil
		}
	}

	if len(c.Args) == 0 {
		return invalidOperation(fmt.Sprintf("%s: empty argument list", c.Function), nil)
	}
	return nil
}

func newTransaction(t *types.UnsignedTransaction, baseFee int64, op txnbuild.Operation) (*txnbuild.Transaction, error) {
	account := txnbuild.NewSimpleAccount(t.Source, t.Sequence)

	tx, err := txnbuild.NewTransaction(txnbuild.TransactionParams{
		SourceAccount:        &account,
		IncrementSequenceNum: false,
		Operations:           []txnbuild.Operation{op},
		BaseFee:              baseFee,
		Preconditions: txnbuild.Preconditions{
			TimeBounds: txnbuild.NewTimebounds(0, t.MaxTime),
		},
	})
	if err != nil {
		return nil, invalidOperation("failed to build transaction", err)
	}
	return tx, nil
}

func finish(t *types.UnsignedTransaction, tx *txnbuild.Transaction) (*types.UnsignedTransaction, error) {
	envelope, err := tx.Base64()
	if err != nil {
		return nil, invalidOperation("failed to encode transaction", err)
	}
	hash, err := tx.HashHex(t.Network.Passphrase())
	if err != nil {
		return nil, invalidOperation("failed to hash transaction", err)
	}

	t.XDR = envelope
	t.Hash = hash
	t.MaxFee = tx.MaxFee()
	return t, nil
}

func invalidOperation(msg string, err error) error {
	return types.NewError(types.ErrInvalidOperation, msg, err)
}
