package bridge

import (
	"context"
	"fmt"

	"github.com/cowprotocol/token-lists/pkg/common"
	"github.com/cowprotocol/token-lists/pkg/multicall"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/holiman/uint256"
	"go.uber.org/zap"
)

// PackTotalSupplyCall creates call data for the ERC-20 totalSupply() function.
func PackTotalSupplyCall() []byte {
	return crypto.Keccak256([]byte("totalSupply()"))[:4]
}

// ParseTotalSupply decodes the first word of a totalSupply() result.
func ParseTotalSupply(data []byte) (*uint256.Int, error) {
	if len(data) < 32 {
		return nil, fmt.Errorf("invalid uint256 data length: got %d want 32", len(data))
	}
	return uint256.NewInt(0).SetBytes(data[:32]), nil
}

type validityFilter struct {
	cfg    *config
	mc     multicall.Multicaller
	logger *zap.Logger
}

// filter keeps the mappings whose target reports a total supply above the threshold.
func (v *validityFilter) filter(ctx context.Context, mappings []AddressMapping) ([]AddressMapping, error) {
	calls := make([]multicall.Call, len(mappings))
	data := PackTotalSupplyCall()
	for i, m := range mappings {
		calls[i] = multicall.Call{Target: m.Resolved, CallData: data}
	}

	results, err := v.mc.TryAggregate(ctx, calls)
	if err != nil {
		return nil, fmt.Errorf("total supply check: %w", err)
	}
	if len(results) != len(calls) {
		return nil, fmt.Errorf("total supply check returned %d results for %d calls", len(results), len(calls))
	}

	valid := make([]AddressMapping, 0, len(mappings))
	for i, m := range mappings {
		res := results[i]
		fields := []zap.Field{
			zap.String("symbol", m.Source.Symbol),
			zap.String("source", m.Source.Address),
			zap.String("target", common.AddressString(m.Resolved)),
			zap.String("returnData", hexData(res.ReturnData)),
		}

		if !res.Success {
			v.drop("total supply call failed", fields)
			continue
		}
		supply, err := ParseTotalSupply(res.ReturnData)
		if err != nil {
			v.drop("total supply undecodable", fields)
			continue
		}
		if !supply.Gt(v.cfg.threshold) {
			v.drop("total supply below threshold", append(fields, zap.Stringer("supply", supply.ToBig())))
			continue
		}
		valid = append(valid, m)
	}

	v.logger.Info("total supply check done",
		zap.Int("checked", len(mappings)),
		zap.Int("valid", len(valid)))
	return valid, nil
}

func (v *validityFilter) drop(reason string, fields []zap.Field) {
	tokensDropped.WithLabelValues(v.cfg.chainID.String(), reason).Inc()
	v.logger.Info("dropping token", append(fields, zap.String("reason", reason))...)
}

func hexData(b []byte) string {
	if len(b) == 0 {
		return "0x"
	}
	return hexutil.Encode(b)
}
