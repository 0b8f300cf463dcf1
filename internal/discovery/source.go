package discovery

import (
	"context"
	"fmt"

	"solana-pool-sentinel/internal/solana"
)

// Source lists program signatures and fetches transaction logs.
type Source interface {
	// RecentSignatures returns up to limit signatures mentioning program, newest first.
	RecentSignatures(ctx context.Context, program string, limit int) ([]string, error)

	// TransactionLogs returns the log lines of a transaction.
	TransactionLogs(ctx context.Context, signature string) ([]string, error)
}

// RPCSource adapts a Solana RPC client to Source.
type RPCSource struct {
	rpc solana.RPCClient
}

// NewRPCSource creates an RPC-backed Source.
func NewRPCSource(rpc solana.RPCClient) *RPCSource {
	return &RPCSource{rpc: rpc}
}

// RecentSignatures calls getSignaturesForAddress. Failed transactions are kept:
// the cursor must still advance past them.
func (s *RPCSource) RecentSignatures(ctx context.Context, program string, limit int) ([]string, error) {
	infos, err := s.rpc.GetSignaturesForAddress(ctx, program, &solana.SignaturesOpts{Limit: limit})
	if err != nil {
		return nil, fmt.Errorf("get signatures: %w", err)
	}

	sigs := make([]string, 0, len(infos))
	for _, info := range infos {
		sigs = append(sigs, info.Signature)
	}
	return sigs, nil
}

// TransactionLogs calls getTransaction. A missing transaction has no logs.
func (s *RPCSource) TransactionLogs(ctx context.Context, signature string) ([]string, error) {
	tx, err := s.rpc.GetTransaction(ctx, signature)
	if err != nil {
		return nil, fmt.Errorf("get transaction %s: %w", signature, err)
	}
	return tx.Logs(), nil
}
