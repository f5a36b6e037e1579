package bridge

import (
	"context"
	"fmt"
	"strconv"

	"github.com/cowprotocol/token-lists/pkg/common"
	"github.com/cowprotocol/token-lists/pkg/multicall"
	"github.com/cowprotocol/token-lists/pkg/tokenlist"
	ethCommon "github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"
)

// AddressMapping pairs an origin chain token with its address on the target chain.
type AddressMapping struct {
	Source   tokenlist.TokenRecord
	Resolved ethCommon.Address
}

type resolver struct {
	cfg    *config
	mc     multicall.Multicaller
	logger *zap.Logger
}

// resolve maps every eligible origin token to the target chain. Tokens the bridge does not know
// about, or whose lookup reverted, are dropped unless an override or bridgeInfo extension names
// the target address. Only a batch failure is returned as an error.
func (r *resolver) resolve(ctx context.Context, tokens []tokenlist.TokenRecord) ([]AddressMapping, error) {
	eligible := make([]tokenlist.TokenRecord, 0, len(tokens))
	calls := make([]multicall.Call, 0, len(tokens))

	for _, token := range tokens {
		if token.ChainID != int64(r.cfg.origin) {
			continue
		}
		if r.cfg.filter != nil && !r.cfg.filter(token) {
			r.drop(token, "filtered")
			continue
		}

		src, err := common.ParseAddress(token.Address)
		if err != nil {
			r.drop(token, "invalid_address", zap.Error(err))
			continue
		}
		if target, ok := r.cfg.overrides[common.NormalizeAddress(token.Address)]; ok && target == nil {
			r.drop(token, "replaced_with_null")
			continue
		}

		data, err := r.cfg.abi.Pack(r.cfg.method, src)
		if err != nil {
			return nil, fmt.Errorf("%w: failed to encode %s(%s): %w", common.ErrConfig, r.cfg.method, token.Address, err)
		}
		if len(data) == 0 {
			return nil, fmt.Errorf("%w: empty call data for %s(%s)", common.ErrConfig, r.cfg.method, token.Address)
		}

		eligible = append(eligible, token)
		calls = append(calls, multicall.Call{Target: r.cfg.bridge, CallData: data})
	}

	r.logger.Info("resolving bridged addresses",
		zap.Int("sourceTokens", len(tokens)),
		zap.Int("calls", len(calls)))

	results, err := r.mc.TryAggregate(ctx, calls)
	if err != nil {
		return nil, fmt.Errorf("bridge lookup: %w", err)
	}
	if len(results) != len(calls) {
		return nil, fmt.Errorf("bridge lookup returned %d results for %d calls", len(results), len(calls))
	}

	mappings := make([]AddressMapping, 0, len(eligible))
	for i, token := range eligible {
		if resolved, ok := r.pick(token, results[i]); ok {
			tokensResolved.WithLabelValues(r.cfg.chainID.String()).Inc()
			mappings = append(mappings, AddressMapping{Source: token, Resolved: resolved})
		}
	}
	return mappings, nil
}

// pick applies the precedence override > bridgeInfo extension > bridge answer.
func (r *resolver) pick(token tokenlist.TokenRecord, res multicall.Result) (ethCommon.Address, bool) {
	bridged, reason := decodeAddress(res)

	if target, ok := r.cfg.overrides[common.NormalizeAddress(token.Address)]; ok && target != nil {
		r.logger.Info("replacing bridged address",
			zap.String("symbol", token.Symbol),
			zap.String("source", token.Address),
			zap.String("bridged", common.AddressString(bridged)),
			zap.String("replacement", common.AddressString(*target)))
		return *target, true
	}

	if ext, ok := bridgeInfoAddress(token, r.cfg.chainID); ok {
		switch {
		case reason != "":
			r.logger.Info("bridge contract has no answer, using bridgeInfo extension",
				zap.String("symbol", token.Symbol),
				zap.String("source", token.Address),
				zap.String("reason", reason),
				zap.String("extension", common.AddressString(ext)))
		case ext != bridged:
			r.logger.Warn("bridgeInfo extension disagrees with bridge contract, using extension",
				zap.String("symbol", token.Symbol),
				zap.String("source", token.Address),
				zap.String("bridged", common.AddressString(bridged)),
				zap.String("extension", common.AddressString(ext)))
		}
		return ext, true
	}

	if reason != "" {
		r.drop(token, reason, zap.String("returnData", hexData(res.ReturnData)))
		return ethCommon.Address{}, false
	}

	r.logger.Debug("token bridged",
		zap.String("symbol", token.Symbol),
		zap.String("source", token.Address),
		zap.String("target", common.AddressString(bridged)))
	return bridged, true
}

func (r *resolver) drop(token tokenlist.TokenRecord, reason string, fields ...zap.Field) {
	tokensDropped.WithLabelValues(r.cfg.chainID.String(), reason).Inc()
	fields = append([]zap.Field{
		zap.String("symbol", token.Symbol),
		zap.String("source", token.Address),
		zap.String("reason", reason),
	}, fields...)
	r.logger.Info("dropping token", fields...)
}

// decodeAddress returns the address held in the last 20 bytes of the return data, or the reason
// the result does not name one.
func decodeAddress(res multicall.Result) (ethCommon.Address, string) {
	if !res.Success {
		return ethCommon.Address{}, "bridge call reverted"
	}
	if len(res.ReturnData) < ethCommon.AddressLength {
		return ethCommon.Address{}, "bridge returned short data"
	}
	addr := ethCommon.BytesToAddress(res.ReturnData)
	if addr == common.ZeroAddress {
		return addr, "bridge has no mapping"
	}
	return addr, ""
}

// bridgeInfoAddress reads extensions.bridgeInfo[chainId].tokenAddress.
func bridgeInfoAddress(token tokenlist.TokenRecord, chainID common.ChainID) (ethCommon.Address, bool) {
	info, ok := token.Extensions["bridgeInfo"].(map[string]any)
	if !ok {
		return ethCommon.Address{}, false
	}
	entry, ok := info[strconv.FormatUint(uint64(chainID), 10)].(map[string]any)
	if !ok {
		return ethCommon.Address{}, false
	}
	s, ok := entry["tokenAddress"].(string)
	if !ok {
		return ethCommon.Address{}, false
	}
	addr, err := common.ParseAddress(s)
	if err != nil || addr == common.ZeroAddress {
		return ethCommon.Address{}, false
	}
	return addr, true
}
