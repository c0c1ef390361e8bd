package builder

import (
	"testing"
	"time"

	"github.com/stellar/go/keypair"
	"github.com/stellar/go/txnbuild"
	"github.com/stellar/go/xdr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pratikshakalbhor/stellar-whitebelt-dapp/types"
	"github.com/pratikshakalbhor/stellar-whitebelt-dapp/utils"
)

const nftContractID = "CBT2NS4ZF3JZFQUJEI6UMWABIOUX7NRBVYBN52OTDPIS4WVJ6BGMXNQC"

var fixedNow = time.Unix(1_700_000_000, 0)

func newTestBuilder() *Builder {
	b := New(WithContract(nftContractID, NFTContract))
	b.now = func() time.Time { return fixedNow }
	return b
}

func snapshot(seq int64) *types.AccountSnapshot {
	return &types.AccountSnapshot{
		AccountID: keypair.MustRandom().Address(),
		Sequence:  seq,
	}
}

func simulationData(t *testing.T, resourceFee int64) string {
	t.Helper()
	data, err := xdr.MarshalBase64(xdr.SorobanTransactionData{ResourceFee: xdr.Int64(resourceFee)})
	require.NoError(t, err)
	return data
}

func TestBuild_Payment(t *testing.T) {
	b := newTestBuilder()
	dest := keypair.MustRandom().Address()

	unsigned, err := b.Build(snapshot(5), 100, types.NetworkTestnet, types.Payment{Destination: dest, Amount: "10.5"})
	require.NoError(t, err)

	assert.Equal(t, int64(6), unsigned.Sequence)
	assert.Equal(t, int64(100), unsigned.MaxFee)
	assert.Equal(t, fixedNow.Add(DefaultTimeout).Unix(), unsigned.MaxTime)
	assert.True(t, unsigned.Submittable())
	assert.NoError(t, utils.ValidateTransactionHash(unsigned.Hash))

	tx, err := utils.DecodeTransaction(unsigned.XDR)
	require.NoError(t, err)
	assert.Equal(t, int64(6), tx.SequenceNumber())
	require.Len(t, tx.Operations(), 1)

	payment, ok := tx.Operations()[0].(*txnbuild.Payment)
	require.True(t, ok)
	assert.Equal(t, dest, payment.Destination)
	assert.Equal(t, "10.5000000", payment.Amount)
	assert.True(t, payment.Asset.IsNative())

	hash, err := utils.TransactionHash(tx, types.NetworkTestnet.Passphrase())
	require.NoError(t, err)
	assert.Equal(t, unsigned.Hash, hash)
}

func TestBuild_PaymentRejected(t *testing.T) {
	b := newTestBuilder()
	dest := keypair.MustRandom().Address()

	tests := []struct {
		name        string
		destination string
		amount      string
	}{
		{"zero amount", dest, "0"},
		{"negative amount", dest, "-1"},
		{"non numeric amount", dest, "ten"},
		{"empty amount", dest, ""},
		{"too many decimals", dest, "1.12345678"},
		{"malformed destination", "invalid", "10"},
		{"empty destination", "", "10"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := b.Build(snapshot(1), 100, types.NetworkTestnet, types.Payment{Destination: tt.destination, Amount: tt.amount})
			require.Error(t, err)
			assert.Equal(t, types.ErrInvalidOperation, types.ErrorCode(err))
		})
	}
}

func TestBuild_StructuralFailures(t *testing.T) {
	b := newTestBuilder()
	payment := types.Payment{Destination: keypair.MustRandom().Address(), Amount: "1"}

	tests := []struct {
		name     string
		snapshot *types.AccountSnapshot
		fee      int64
		network  types.Network
		op       types.Operation
	}{
		{"missing snapshot", nil, 100, types.NetworkTestnet, payment},
		{"bad source", &types.AccountSnapshot{AccountID: "GBAD", Sequence: 1}, 100, types.NetworkTestnet, payment},
		{"fee below minimum", snapshot(1), 99, types.NetworkTestnet, payment},
		{"unknown network", snapshot(1), 100, types.Network("devnet"), payment},
		{"missing operation", snapshot(1), 100, types.NetworkTestnet, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := b.Build(tt.snapshot, tt.fee, tt.network, tt.op)
			require.Error(t, err)
			assert.Equal(t, types.ErrInvalidOperation, types.ErrorCode(err))
		})
	}
}

func TestBuild_ContractInvoke(t *testing.T) {
	b := newTestBuilder()
	owner := keypair.MustRandom().Address()

	invoke, err := MintNFT(nftContractID, owner, "mynft", "img1")
	require.NoError(t, err)

	unsigned, err := b.Build(snapshot(10), 100, types.NetworkTestnet, invoke)
	require.NoError(t, err)

	assert.Equal(t, int64(11), unsigned.Sequence)
	assert.False(t, unsigned.Assembled)
	assert.False(t, unsigned.Submittable())
}

func TestBuild_ContractSignature(t *testing.T) {
	b := newTestBuilder()
	owner, err := AddressArg(keypair.MustRandom().Address())
	require.NoError(t, err)
	name, err := SymbolArg("MYNFT")
	require.NoError(t, err)

	tests := []struct {
		name    string
		invoke  types.ContractInvoke
		wantErr bool
	}{
		{
			name:   "mint matches signature",
			invoke: types.ContractInvoke{ContractID: nftContractID, Function: FnMintNFT, Args: []xdr.ScVal{owner, name, name}},
		},
		{
			name:    "mint missing argument",
			invoke:  types.ContractInvoke{ContractID: nftContractID, Function: FnMintNFT, Args: []xdr.ScVal{owner, name}},
			wantErr: true,
		},
		{
			name:    "mint arguments out of order",
			invoke:  types.ContractInvoke{ContractID: nftContractID, Function: FnMintNFT, Args: []xdr.ScVal{name, owner, name}},
			wantErr: true,
		},
		{
			name:   "declared function without arguments",
			invoke: types.ContractInvoke{ContractID: nftContractID, Function: FnGetTotal},
		},
		{
			name:    "undeclared function without arguments",
			invoke:  types.ContractInvoke{ContractID: nftContractID, Function: "burn"},
			wantErr: true,
		},
		{
			name:   "undeclared function with arguments",
			invoke: types.ContractInvoke{ContractID: nftContractID, Function: "burn", Args: []xdr.ScVal{U32Arg(1)}},
		},
		{
			name:    "invalid contract id",
			invoke:  types.ContractInvoke{ContractID: "CNOTACONTRACT", Function: FnGetTotal},
			wantErr: true,
		},
		{
			name:    "invalid function name",
			invoke:  types.ContractInvoke{ContractID: nftContractID, Function: "get-total", Args: []xdr.ScVal{U32Arg(1)}},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := b.Build(snapshot(1), 100, types.NetworkTestnet, tt.invoke)
			if tt.wantErr {
				require.Error(t, err)
				assert.Equal(t, types.ErrInvalidOperation, types.ErrorCode(err))
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestAssemble(t *testing.T) {
	b := newTestBuilder()
	invoke, err := MintNFT(nftContractID, keypair.MustRandom().Address(), "MYNFT", "IMG1")
	require.NoError(t, err)

	unsigned, err := b.Build(snapshot(10), 100, types.NetworkTestnet, invoke)
	require.NoError(t, err)

	assembled, err := b.Assemble(unsigned, &types.SimulationResult{
		TransactionData: simulationData(t, 4000),
		MinResourceFee:  5000,
	})
	require.NoError(t, err)

	assert.True(t, assembled.Assembled)
	assert.True(t, assembled.Submittable())
	assert.Equal(t, unsigned.Sequence, assembled.Sequence)
	assert.Equal(t, unsigned.MaxTime, assembled.MaxTime)
	assert.Equal(t, int64(5000), assembled.ResourceFee)
	assert.GreaterOrEqual(t, assembled.MaxFee, int64(5100))
	assert.NotEqual(t, unsigned.Hash, assembled.Hash)

	// the input is left untouched
	assert.False(t, unsigned.Assembled)
	assert.Zero(t, unsigned.ResourceFee)

	var env xdr.TransactionEnvelope
	require.NoError(t, xdr.SafeUnmarshalBase64(assembled.XDR, &env))
	require.NotNil(t, env.V1)
	assert.Equal(t, int32(1), env.V1.Tx.Ext.V)
	require.NotNil(t, env.V1.Tx.Ext.SorobanData)
	assert.Equal(t, xdr.Int64(5000), env.V1.Tx.Ext.SorobanData.ResourceFee)
	assert.Equal(t, xdr.SequenceNumber(11), env.V1.Tx.SeqNum)
}

func TestAssemble_Errors(t *testing.T) {
	b := newTestBuilder()

	invoke, err := MintNFT(nftContractID, keypair.MustRandom().Address(), "MYNFT", "IMG1")
	require.NoError(t, err)
	unsigned, err := b.Build(snapshot(10), 100, types.NetworkTestnet, invoke)
	require.NoError(t, err)

	payment, err := b.Build(snapshot(10), 100, types.NetworkTestnet, types.Payment{
		Destination: keypair.MustRandom().Address(), Amount: "1",
	})
	require.NoError(t, err)

	good := &types.SimulationResult{TransactionData: simulationData(t, 100), MinResourceFee: 100}
	assembled, err := b.Assemble(unsigned, good)
	require.NoError(t, err)

	tests := []struct {
		name     string
		tx       *types.UnsignedTransaction
		sim      *types.SimulationResult
		wantCode string
	}{
		{"payment", payment, good, types.ErrInvalidOperation},
		{"already assembled", assembled, good, types.ErrInvalidOperation},
		{"nil transaction", nil, good, types.ErrInvalidOperation},
		{"simulation error", unsigned, &types.SimulationResult{Error: "trapped"}, types.ErrSimulationFailed},
		{"missing data", unsigned, &types.SimulationResult{}, types.ErrSimulationFailed},
		{"garbage data", unsigned, &types.SimulationResult{TransactionData: "%%%"}, types.ErrMalformedResponse},
		{"garbage auth", unsigned, &types.SimulationResult{TransactionData: good.TransactionData, Auth: []string{"%%%"}}, types.ErrMalformedResponse},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := b.Assemble(tt.tx, tt.sim)
			require.Error(t, err)
			assert.Equal(t, tt.wantCode, types.ErrorCode(err))
		})
	}
}

func TestMintNFT(t *testing.T) {
	owner := keypair.MustRandom().Address()

	invoke, err := MintNFT(nftContractID, owner, " mynft ", "img2")
	require.NoError(t, err)

	assert.Equal(t, FnMintNFT, invoke.Function)
	require.Len(t, invoke.Args, 3)
	assert.Equal(t, xdr.ScValTypeScvAddress, invoke.Args[0].Type)
	assert.Equal(t, xdr.ScSymbol("MYNFT"), *invoke.Args[1].Sym)
	assert.Equal(t, xdr.ScSymbol("IMG2"), *invoke.Args[2].Sym)

	accountID, err := invoke.Args[0].Address.AccountId.GetAddress()
	require.NoError(t, err)
	assert.Equal(t, owner, accountID)

	_, err = MintNFT(nftContractID, "invalid", "MYNFT", "IMG1")
	assert.Equal(t, types.ErrInvalidInput, types.ErrorCode(err))

	_, err = MintNFT(nftContractID, owner, "MY NFT", "IMG1")
	assert.Equal(t, types.ErrInvalidInput, types.ErrorCode(err))
}

func TestContractSpec_Check(t *testing.T) {
	declared, err := NFTContract.Check(FnGetOwner, []xdr.ScVal{U32Arg(3)})
	assert.True(t, declared)
	assert.NoError(t, err)

	declared, err = NFTContract.Check(FnGetOwner, nil)
	assert.True(t, declared)
	assert.Error(t, err)

	declared, err = NFTContract.Check("transfer", nil)
	assert.False(t, declared)
	assert.NoError(t, err)
}
