package bridge

import (
	"fmt"
	"strings"

	"github.com/cowprotocol/token-lists/pkg/common"
	"github.com/cowprotocol/token-lists/pkg/multicall"
	"github.com/cowprotocol/token-lists/pkg/tokenlist"
	"github.com/ethereum/go-ethereum/accounts/abi"
	ethCommon "github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
	"go.uber.org/zap"
)

// DefaultSupplyThreshold is the total supply, in raw units, a bridged token has to exceed.
const DefaultSupplyThreshold = 10

// Params configures one bridged list generation.
type Params struct {
	// ChainID is the chain the list is generated for.
	ChainID common.ChainID
	// TokenListSource is a URL or file path of the origin chain list. Ignored when SourceList is set.
	TokenListSource string
	// SourceList is an already loaded origin chain list.
	SourceList *tokenlist.TokenList

	BridgeContractAddress string
	// BridgeContractABI is a JSON ABI fragment containing MethodName.
	BridgeContractABI string
	// MethodName must take a single address and return a single address.
	MethodName string

	OutputFilePath string

	// TokensToReplace maps lower-cased origin addresses to the address to use on ChainID. A nil
	// target drops the token.
	TokensToReplace map[string]*ethCommon.Address
	// TokenFilter, when set, keeps only the origin tokens it returns true for.
	TokenFilter func(tokenlist.TokenRecord) bool
	// TokensToAdd are merged into the discovered tokens by symbol.
	TokensToAdd []tokenlist.TokenRecord

	// OriginChainID defaults to mainnet.
	OriginChainID common.ChainID
	// SupplyThreshold defaults to DefaultSupplyThreshold.
	SupplyThreshold *uint256.Int
	// ListName defaults to the name of the source list.
	ListName string
}

// Deps are the collaborators of a generation.
type Deps struct {
	Multicaller multicall.Multicaller
	// Getter fetches TokenListSource when it is a URL.
	Getter tokenlist.Getter
	Logger *zap.Logger
}

// config is the validated form of Params.
type config struct {
	chainID   common.ChainID
	origin    common.ChainID
	bridge    ethCommon.Address
	abi       abi.ABI
	method    string
	overrides map[string]*ethCommon.Address
	filter    func(tokenlist.TokenRecord) bool
	threshold *uint256.Int
}

func (p *Params) validate() (*config, error) {
	if p.ChainID == 0 {
		return nil, fmt.Errorf("%w: chain id is not set", common.ErrConfig)
	}
	if p.SourceList == nil && strings.TrimSpace(p.TokenListSource) == "" {
		return nil, fmt.Errorf("%w: token list source is not set", common.ErrConfig)
	}
	if strings.TrimSpace(p.OutputFilePath) == "" {
		return nil, fmt.Errorf("%w: output file path is not set", common.ErrConfig)
	}

	bridge, err := common.ParseAddress(p.BridgeContractAddress)
	if err != nil {
		return nil, fmt.Errorf("%w: bridge contract address: %w", common.ErrConfig, err)
	}
	if bridge == common.ZeroAddress {
		return nil, fmt.Errorf("%w: bridge contract address is the zero address", common.ErrConfig)
	}

	if strings.TrimSpace(p.MethodName) == "" {
		return nil, fmt.Errorf("%w: bridge method name is empty", common.ErrConfig)
	}
	parsed, err := abi.JSON(strings.NewReader(p.BridgeContractABI))
	if err != nil {
		return nil, fmt.Errorf("%w: bridge contract abi: %w", common.ErrConfig, err)
	}
	method, ok := parsed.Methods[p.MethodName]
	if !ok {
		return nil, fmt.Errorf("%w: method %s not found in bridge contract abi", common.ErrConfig, p.MethodName)
	}
	if len(method.Inputs) != 1 || method.Inputs[0].Type.T != abi.AddressTy ||
		len(method.Outputs) != 1 || method.Outputs[0].Type.T != abi.AddressTy {
		return nil, fmt.Errorf("%w: method %s must be (address) -> address, got %s", common.ErrConfig, p.MethodName, method.String())
	}
	if data, err := parsed.Pack(p.MethodName, common.ZeroAddress); err != nil || len(data) == 0 {
		return nil, fmt.Errorf("%w: method %s produces no call data: %v", common.ErrConfig, p.MethodName, err)
	}

	overrides := make(map[string]*ethCommon.Address, len(p.TokensToReplace))
	for src, target := range p.TokensToReplace {
		if _, err := common.ParseAddress(src); err != nil {
			return nil, fmt.Errorf("%w: replacement source: %w", common.ErrConfig, err)
		}
		if target != nil && *target == common.ZeroAddress {
			return nil, fmt.Errorf("%w: replacement target for %s is the zero address", common.ErrConfig, src)
		}
		overrides[common.NormalizeAddress(src)] = target
	}

	origin := p.OriginChainID
	if origin == 0 {
		origin = common.ChainIDMainnet
	}
	threshold := p.SupplyThreshold
	if threshold == nil {
		threshold = uint256.NewInt(DefaultSupplyThreshold)
	}

	return &config{
		chainID:   p.ChainID,
		origin:    origin,
		bridge:    bridge,
		abi:       parsed,
		method:    p.MethodName,
		overrides: overrides,
		filter:    p.TokenFilter,
		threshold: threshold,
	}, nil
}
