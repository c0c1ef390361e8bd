package utils_test

import (
	"testing"

	"github.com/stellar/go/keypair"
	"github.com/stellar/go/network"
	"github.com/stellar/go/txnbuild"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pratikshakalbhor/stellar-whitebelt-dapp/utils"
)

func buildTx(t *testing.T, kp *keypair.Full) *txnbuild.Transaction {
	t.Helper()

	account := txnbuild.NewSimpleAccount(kp.Address(), 5)
	tx, err := txnbuild.NewTransaction(txnbuild.TransactionParams{
		SourceAccount:        &account,
		IncrementSequenceNum: true,
		Operations: []txnbuild.Operation{&txnbuild.Payment{
			Destination: keypair.MustRandom().Address(),
			Amount:      "1",
			Asset:       txnbuild.NativeAsset{},
		}},
		BaseFee:       txnbuild.MinBaseFee,
		Preconditions: txnbuild.Preconditions{TimeBounds: txnbuild.NewInfiniteTimeout()},
	})
	require.NoError(t, err)
	return tx
}

func TestDecodeTransaction(t *testing.T) {
	kp := keypair.MustRandom()
	tx := buildTx(t, kp)
	envelope, err := tx.Base64()
	require.NoError(t, err)

	decoded, err := utils.DecodeTransaction(envelope)
	require.NoError(t, err)
	assert.Equal(t, int64(6), decoded.SequenceNumber())

	want, err := utils.TransactionHash(tx, network.TestNetworkPassphrase)
	require.NoError(t, err)
	got, err := utils.TransactionHash(decoded, network.TestNetworkPassphrase)
	require.NoError(t, err)
	assert.Equal(t, want, got)
	assert.Len(t, got, 64)

	_, err = utils.DecodeTransaction("not-xdr")
	assert.Error(t, err)
}

func TestDecodeTransaction_RejectsFeeBump(t *testing.T) {
	kp := keypair.MustRandom()
	inner, err := buildTx(t, kp).Sign(network.TestNetworkPassphrase, kp)
	require.NoError(t, err)

	bump, err := txnbuild.NewFeeBumpTransaction(txnbuild.FeeBumpTransactionParams{
		Inner:      inner,
		FeeAccount: kp.Address(),
		BaseFee:    txnbuild.MinBaseFee * 2,
	})
	require.NoError(t, err)
	envelope, err := bump.Base64()
	require.NoError(t, err)

	_, err = utils.DecodeTransaction(envelope)
	assert.Error(t, err)
}

func TestVerifyEnvelopeSignature(t *testing.T) {
	kp := keypair.MustRandom()
	tx := buildTx(t, kp)

	assert.Error(t, utils.VerifyEnvelopeSignature(tx, network.TestNetworkPassphrase, kp.Address()), "unsigned")

	signed, err := tx.Sign(network.TestNetworkPassphrase, kp)
	require.NoError(t, err)

	assert.NoError(t, utils.VerifyEnvelopeSignature(signed, network.TestNetworkPassphrase, kp.Address()))
	assert.Error(t, utils.VerifyEnvelopeSignature(signed, network.PublicNetworkPassphrase, kp.Address()))
	assert.Error(t, utils.VerifyEnvelopeSignature(signed, network.TestNetworkPassphrase, keypair.MustRandom().Address()))
	assert.Error(t, utils.VerifyEnvelopeSignature(signed, network.TestNetworkPassphrase, "invalid"))
}
