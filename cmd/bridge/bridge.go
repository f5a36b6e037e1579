package bridge

import (
	"context"
	"fmt"
	"os"

	"github.com/cowprotocol/token-lists/pkg/bridge"
	"github.com/cowprotocol/token-lists/pkg/common"
	"github.com/cowprotocol/token-lists/pkg/multicall"
	"github.com/cowprotocol/token-lists/pkg/tokenlist"
	"github.com/ethereum/go-ethereum/ethclient"
	ipfslog "github.com/ipfs/go-log/v2"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

var (
	chains *string
	source *string

	multicallAddr *string
	chunkSize     *int

	statusAddr *string

	logLevel *string
)

func init() {
	chains = BridgeCmd.Flags().String("chain", "gnosis,arbitrum", "Target chains (comma-separated ids or names)")
	source = BridgeCmd.Flags().String("source", "coingecko", "Source list: coingecko, uniswap, or a URL or file path")

	BridgeCmd.Flags().String("outputDir", "src/public", "Directory the bridged lists are written to")

	multicallAddr = BridgeCmd.Flags().String("multicall", multicall.DefaultAddress.Hex(), "Multicall3 contract address")
	chunkSize = BridgeCmd.Flags().Int("chunkSize", multicall.DefaultChunkSize, "Maximum number of calls per eth_call")

	statusAddr = BridgeCmd.Flags().String("statusAddr", "", "Listen address for status server (disabled if blank)")

	logLevel = BridgeCmd.Flags().String("logLevel", "info", "Logging level (debug, info, warn, error, dpanic, panic, fatal)")

	_ = viper.BindPFlag("outputDir", BridgeCmd.Flags().Lookup("outputDir"))
}

// BridgeCmd maps a mainnet token list to other chains through their canonical bridges.
var BridgeCmd = &cobra.Command{
	Use:   "bridge",
	Short: "Generate bridged token lists",
	Long: `Maps the tokens of a mainnet token list to their bridged addresses on the target chains.

The RPC endpoint of every target chain is read from the rpc.<chainId> config key (env RPC_<chainId>).
Operator curated tokens are read from bridge.<chainId>.tokensToAdd (a JSON array of tokens) and the
liquidity filter can be replaced with bridge.<chainId>.liquidSymbols.`,
	Run: runBridge,
}

func runBridge(cmd *cobra.Command, args []string) {
	lvl, err := ipfslog.LevelFromString(*logLevel)
	if err != nil {
		fmt.Println("Invalid log level")
		os.Exit(1)
	}

	logger := ipfslog.Logger("tokenlists-bridge").Desugar()

	ipfslog.SetAllLoggers(lvl)

	common.StartStatusServer(*statusAddr, logger)

	targets, err := common.ParseChainIDs(*chains)
	if err != nil {
		logger.Fatal("invalid --chain", zap.Error(err))
	}
	if len(targets) == 0 {
		logger.Fatal("Please specify --chain")
	}
	mcAddr, err := common.ParseAddress(*multicallAddr)
	if err != nil {
		logger.Fatal("invalid --multicall", zap.Error(err))
	}
	outputDir := viper.GetString("outputDir")

	ctx, cancel := common.WithSysExit(context.Background(), logger)
	defer cancel()

	fetcher := common.NewFetcher(logger)

	location, _ := bridge.ResolveSource(*source)
	logger.Info("loading source token list", zap.String("source", location))
	src, err := tokenlist.Load(ctx, location, fetcher)
	if err != nil {
		logger.Fatal("failed to load source token list", zap.String("source", location), zap.Error(err))
	}

	jobs := make([]bridge.Job, 0, len(targets))
	for _, chain := range targets {
		preset, ok := bridge.PresetFor(chain)
		if !ok {
			logger.Fatal("chain does not support bridge mapping", zap.Stringer("chain", chain))
		}

		rpcKey := fmt.Sprintf("rpc.%d", uint64(chain))
		rpcURL := viper.GetString(rpcKey)
		if rpcURL == "" {
			logger.Fatal("missing rpc endpoint", zap.Stringer("chain", chain), zap.String("key", rpcKey))
		}

		client, err := ethclient.DialContext(ctx, rpcURL)
		if err != nil {
			logger.Fatal("failed to connect to rpc", zap.Stringer("chain", chain), zap.Error(err))
		}
		defer client.Close()

		mc, err := multicall.NewClient(client, logger, multicall.WithAddress(mcAddr), multicall.WithChunkSize(*chunkSize))
		if err != nil {
			logger.Fatal("failed to create multicall client", zap.Error(err))
		}

		params := preset.Params(*source, outputDir)
		params.SourceList = src

		chainKey := fmt.Sprintf("bridge.%d", uint64(chain))
		if path := viper.GetString(chainKey + ".tokensToAdd"); path != "" {
			tokens, err := tokenlist.ReadTokensFile(path)
			if err != nil {
				logger.Fatal("failed to read tokens to add", zap.String("path", path), zap.Error(err))
			}
			params.TokensToAdd = tokens
		}
		if symbols := viper.GetStringSlice(chainKey + ".liquidSymbols"); len(symbols) > 0 {
			params.TokenFilter = bridge.SymbolFilter(symbols)
		}

		logger.Info("mapping tokens from mainnet",
			zap.Stringer("chain", chain),
			zap.String("bridge", preset.BridgeAddress),
			zap.String("method", preset.MethodName),
			zap.String("output", params.OutputFilePath))

		jobs = append(jobs, bridge.Job{
			Params: params,
			Deps:   bridge.Deps{Multicaller: mc, Getter: fetcher, Logger: logger},
		})
	}

	results, err := bridge.GenerateAll(ctx, jobs)
	for _, r := range results {
		if r.Err != nil {
			continue
		}
		logger.Info("bridged token list is up to date",
			zap.Stringer("chain", r.ChainID),
			zap.Stringer("version", r.List.Version),
			zap.Int("tokens", r.Count))
	}
	if err != nil {
		logger.Fatal("failed to generate bridged token lists", zap.Error(err))
	}
}
