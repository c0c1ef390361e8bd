package mocks

import (
	"errors"

	"github.com/stellar/go/keypair"
)

// Values shared by tests across packages.
var (
	GenericError = errors.New("dummy error")

	GenericHash = "abcd1234"

	GenericSequence = int64(5)

	GenericBaseFee = int64(100)

	GenericContractID = "CBT2NS4ZF3JZFQUJEI6UMWABIOUX7NRBVYBN52OTDPIS4WVJ6BGMXNQC"

	// GenericSimulationData is an empty base64 SorobanTransactionData.
	GenericSimulationData = "AAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA="
)

// GenericKeypair returns a fresh random keypair.
func GenericKeypair() *keypair.Full {
	return keypair.MustRandom()
}
