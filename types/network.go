package types

import "github.com/stellar/go/network"

// Network represents the supported Stellar networks
type Network string

const (
	NetworkTestnet   Network = "testnet"
	NetworkPublic    Network = "public"
	NetworkFuturenet Network = "futurenet"
)

// Networks lists every supported network.
var Networks = []Network{NetworkTestnet, NetworkPublic, NetworkFuturenet}

// Passphrase returns the network passphrase transactions are bound to.
// Unknown networks return an empty string.
func (n Network) Passphrase() string {
	switch n {
	case NetworkTestnet:
		return network.TestNetworkPassphrase
	case NetworkPublic:
		return network.PublicNetworkPassphrase
	case NetworkFuturenet:
		return network.FutureNetworkPassphrase
	default:
		return ""
	}
}

// AgentName is the network name signing agents expect alongside the passphrase.
func (n Network) AgentName() string {
	switch n {
	case NetworkTestnet:
		return "TESTNET"
	case NetworkPublic:
		return "PUBLIC"
	case NetworkFuturenet:
		return "FUTURENET"
	default:
		return ""
	}
}

func (n Network) IsValid() bool {
	return n.Passphrase() != ""
}

func (n Network) IsTestnet() bool {
	return n == NetworkTestnet || n == NetworkFuturenet
}

func (n Network) String() string {
	return string(n)
}
