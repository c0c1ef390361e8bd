package signer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/rpc"

	"github.com/pratikshakalbhor/stellar-whitebelt-dapp/types"
)

var _ Agent = (*RPCAgent)(nil)

// RPCAgent reaches a wallet bridge over JSON-RPC 2.0. The bridge is expected
// to answer signTransaction(envelope, opts) the way browser wallets do.
type RPCAgent struct {
	url    string
	client *rpc.Client
}

func NewRPCAgent(ctx context.Context, url string) (*RPCAgent, error) {
	client, err := rpc.DialContext(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to signer bridge: %w", err)
	}

	return &RPCAgent{
		url:    url,
		client: client,
	}, nil
}

// SignTransaction returns the raw result of the bridge. A response without a
// result comes back as an empty payload.
func (r *RPCAgent) SignTransaction(ctx context.Context, envelope string, opts types.SignOptions) ([]byte, error) {
	var result json.RawMessage
	if err := r.client.CallContext(ctx, &result, "signTransaction", envelope, opts); err != nil {
		if errors.Is(err, rpc.ErrNoResult) {
			return nil, nil
		}
		// Only errors the bridge itself answered with carry wallet text.
		var rpcErr rpc.Error
		if errors.As(err, &rpcErr) {
			return nil, err
		}
		return nil, &TransportError{Err: err}
	}
	return result, nil
}

// TransportError reports that the agent could not be reached or answered
// garbage. Its text is not checked against decline phrases.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("signer transport: %v", e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

func (r *RPCAgent) Close() {
	r.client.Close()
}
