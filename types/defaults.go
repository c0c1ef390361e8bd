package types

import "time"

// Defaults for a testnet deployment of the NFT dApp.
const (
	DefaultNetwork        = NetworkTestnet
	DefaultHorizonURL     = "https://horizon-testnet.stellar.org"
	DefaultSorobanRPCURL  = "https://soroban-testnet.stellar.org"
	DefaultContractID     = "CBT2NS4ZF3JZFQUJEI6UMWABIOUX7NRBVYBN52OTDPIS4WVJ6BGMXNQC"
	DefaultFeeMode        = FeeModeLive
	DefaultTxTimeout      = 30 * time.Second
	DefaultRequestTimeout = 30 * time.Second
	DefaultRefreshDelay   = 2 * time.Second
	DefaultExplorerURL    = "https://stellar.expert/explorer/testnet"
	DefaultListenAddr     = ":8080"
	DefaultLogLevel       = "info"
)

// DefaultImageIDs is the catalogue of images an NFT may reference.
var DefaultImageIDs = []string{"IMG1", "IMG2", "IMG3"}

// DefaultDappConfig returns a configuration pointing at testnet.
func DefaultDappConfig() *DappConfig {
	return &DappConfig{
		Network:        DefaultNetwork,
		HorizonURL:     DefaultHorizonURL,
		SorobanRPCURL:  DefaultSorobanRPCURL,
		ContractID:     DefaultContractID,
		FeeMode:        DefaultFeeMode,
		TxTimeout:      DefaultTxTimeout,
		RequestTimeout: DefaultRequestTimeout,
		RefreshDelay:   DefaultRefreshDelay,
		ExplorerURL:    DefaultExplorerURL,
		ImageIDs:       append([]string(nil), DefaultImageIDs...),
		ListenAddr:     DefaultListenAddr,
		LogLevel:       DefaultLogLevel,
	}
}
