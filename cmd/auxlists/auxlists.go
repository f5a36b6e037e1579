package auxlists

import (
	"context"
	"fmt"
	"os"

	"github.com/cowprotocol/token-lists/pkg/auxlists"
	"github.com/cowprotocol/token-lists/pkg/bridge"
	"github.com/cowprotocol/token-lists/pkg/coingecko"
	"github.com/cowprotocol/token-lists/pkg/common"
	ipfslog "github.com/ipfs/go-log/v2"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

var (
	chains        *string
	uniswapSource *string
	topTokens     *int
	requestRate   *float64
	overridesPath *string

	statusAddr *string

	logLevel *string
)

func init() {
	chains = AuxListsCmd.Flags().String("chain", "", "Chains to generate lists for (comma-separated ids or names, default all)")
	uniswapSource = AuxListsCmd.Flags().String("uniswapSource", bridge.UniswapListURL, "Uniswap token list URL or path (Uniswap lists are skipped if blank)")
	topTokens = AuxListsCmd.Flags().Int("top", auxlists.DefaultTopTokens, "Number of tokens in the CoinGecko lists")
	requestRate = AuxListsCmd.Flags().Float64("coingeckoRps", coingecko.DefaultRequestsPerSecond, "CoinGecko requests per second (0 disables the limit)")
	overridesPath = AuxListsCmd.Flags().String("overrides", "", "JSON file with per-chain token overrides")

	AuxListsCmd.Flags().String("outputDir", "src/public", "Directory the lists are written to")
	AuxListsCmd.Flags().String("coingeckoApiKey", "", "CoinGecko pro API key (env COINGECKOAPIKEY)")

	statusAddr = AuxListsCmd.Flags().String("statusAddr", "", "Listen address for status server (disabled if blank)")

	logLevel = AuxListsCmd.Flags().String("logLevel", "info", "Logging level (debug, info, warn, error, dpanic, panic, fatal)")

	_ = viper.BindPFlag("coingeckoApiKey", AuxListsCmd.Flags().Lookup("coingeckoApiKey"))
}

// AuxListsCmd generates the CoinGecko and Uniswap auxiliary lists.
var AuxListsCmd = &cobra.Command{
	Use:   "aux-lists",
	Short: "Generate CoinGecko top tokens and Uniswap lists per chain",
	Run:   runAuxLists,
}

func runAuxLists(cmd *cobra.Command, args []string) {
	lvl, err := ipfslog.LevelFromString(*logLevel)
	if err != nil {
		fmt.Println("Invalid log level")
		os.Exit(1)
	}

	logger := ipfslog.Logger("tokenlists-auxlists").Desugar()

	ipfslog.SetAllLoggers(lvl)

	common.StartStatusServer(*statusAddr, logger)

	targets := coingecko.Chains()
	if *chains != "" {
		targets, err = common.ParseChainIDs(*chains)
		if err != nil {
			logger.Fatal("invalid --chain", zap.Error(err))
		}
	}

	apiKey := viper.GetString("coingeckoApiKey")
	if apiKey == "" {
		logger.Fatal("Please specify --coingeckoApiKey")
	}

	outputDir := flagOrConfig(cmd.Flags(), "outputDir")

	var opts []auxlists.Option
	opts = append(opts, auxlists.WithTopTokens(*topTokens))
	if *overridesPath != "" {
		overrides, err := auxlists.ReadOverridesFile(*overridesPath)
		if err != nil {
			logger.Fatal("failed to read overrides", zap.String("path", *overridesPath), zap.Error(err))
		}
		opts = append(opts, auxlists.WithOverrides(overrides))
	}

	ctx, cancel := common.WithSysExit(context.Background(), logger)
	defer cancel()

	client := coingecko.NewClient(apiKey, logger, coingecko.WithRequestsPerSecond(*requestRate))
	generator := auxlists.NewGenerator(client, outputDir, logger, opts...)

	err = generator.Run(ctx, auxlists.RunParams{
		Chains:        targets,
		UniswapSource: *uniswapSource,
		Getter:        common.NewFetcher(logger),
		IDs:           client,
	})
	if err != nil {
		logger.Fatal("failed to generate auxiliary lists", zap.Error(err))
	}
	logger.Info("auxiliary lists generated", zap.String("outputDir", outputDir))
}

// flagOrConfig returns the flag value when it was set on the command line, else the config value,
// else the flag default.
func flagOrConfig(flags *pflag.FlagSet, name string) string {
	value, _ := flags.GetString(name)
	if !flags.Changed(name) && viper.IsSet(name) {
		return viper.GetString(name)
	}
	return value
}
