// Package multicall executes many read-only contract calls in a single eth_call through the
// Multicall3 contract.
package multicall

import (
	"context"
	"fmt"
	"time"

	"github.com/cowprotocol/token-lists/pkg/common"
	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	ethCommon "github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"
)

// DefaultChunkSize is the number of calls sent in one eth_call.
const DefaultChunkSize = 500

// Call is a single contract call. Field names match the Multicall3 tuple.
type Call struct {
	Target   ethCommon.Address
	CallData []byte
}

// Result is the outcome of a single call. Success is false when the target reverted or has no code.
type Result struct {
	Success    bool
	ReturnData []byte
}

// Multicaller executes a batch of calls and returns one result per call, in input order. An error is
// returned only when the batch as a whole could not be executed.
type Multicaller interface {
	TryAggregate(ctx context.Context, calls []Call) ([]Result, error)
}

// Client is a Multicaller backed by a Multicall3 deployment.
type Client struct {
	caller    ethereum.ContractCaller
	address   ethCommon.Address
	chunkSize int
	logger    *zap.Logger
}

type Option func(*Client)

// WithChunkSize sets the maximum number of calls per eth_call.
func WithChunkSize(n int) Option {
	return func(c *Client) {
		if n > 0 {
			c.chunkSize = n
		}
	}
}

// WithAddress overrides the Multicall3 contract address.
func WithAddress(addr ethCommon.Address) Option {
	return func(c *Client) {
		c.address = addr
	}
}

func NewClient(caller ethereum.ContractCaller, logger *zap.Logger, opts ...Option) (*Client, error) {
	c := &Client{
		caller:    caller,
		address:   DefaultAddress,
		chunkSize: DefaultChunkSize,
		logger:    logger.With(zap.String("component", "multicall")),
	}
	for _, opt := range opts {
		opt(c)
	}

	if caller == nil {
		return nil, fmt.Errorf("%w: multicall requires a contract caller", common.ErrConfig)
	}
	if c.address == common.ZeroAddress {
		return nil, fmt.Errorf("%w: multicall address is the zero address", common.ErrConfig)
	}
	return c, nil
}

// Address returns the Multicall3 contract address used by the client.
func (c *Client) Address() ethCommon.Address {
	return c.address
}

// TryAggregate executes calls in chunks and joins the results in input order. Individual failures
// are reported through Result.Success; any transport failure fails the whole batch.
func (c *Client) TryAggregate(ctx context.Context, calls []Call) ([]Result, error) {
	results := make([]Result, 0, len(calls))
	for start := 0; start < len(calls); start += c.chunkSize {
		end := start + c.chunkSize
		if end > len(calls) {
			end = len(calls)
		}

		chunk, err := c.tryAggregate(ctx, calls[start:end])
		if err != nil {
			return nil, fmt.Errorf("multicall chunk [%d:%d] of %d: %w", start, end, len(calls), err)
		}
		results = append(results, chunk...)
	}
	return results, nil
}

func (c *Client) tryAggregate(ctx context.Context, calls []Call) ([]Result, error) {
	data, err := ABI.Pack(tryAggregateMethod, false, calls)
	if err != nil {
		return nil, fmt.Errorf("failed to pack tryAggregate: %w", err)
	}

	start := time.Now()
	out, err := c.caller.CallContract(ctx, ethereum.CallMsg{
		To:   &c.address,
		Data: data,
	}, nil)
	batchLatency.Observe(time.Since(start).Seconds())

	if err != nil {
		batches.WithLabelValues("rpc_error").Inc()
		c.logger.Error("multicall eth_call failed",
			zap.Int("calls", len(calls)),
			zap.Error(err))
		return nil, fmt.Errorf("failed to call multicall contract %s: %w", c.address.Hex(), err)
	}

	results, err := UnpackResults(out)
	if err != nil {
		batches.WithLabelValues("decode_error").Inc()
		return nil, err
	}
	if len(results) != len(calls) {
		batches.WithLabelValues("length_mismatch").Inc()
		return nil, fmt.Errorf("multicall returned %d results for %d calls", len(results), len(calls))
	}

	batches.WithLabelValues("success").Inc()
	c.logger.Debug("multicall batch executed",
		zap.Int("calls", len(calls)),
		zap.Duration("took", time.Since(start)))

	return results, nil
}

// UnpackResults decodes the return data of tryAggregate.
func UnpackResults(data []byte) ([]Result, error) {
	out, err := ABI.Unpack(tryAggregateMethod, data)
	if err != nil {
		return nil, fmt.Errorf("failed to unpack tryAggregate result: %w", err)
	}
	if len(out) != 1 {
		return nil, fmt.Errorf("unexpected tryAggregate output count %d", len(out))
	}
	return *abi.ConvertType(out[0], new([]Result)).(*[]Result), nil
}
