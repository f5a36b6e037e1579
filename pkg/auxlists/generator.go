package auxlists

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/cowprotocol/token-lists/pkg/coingecko"
	"github.com/cowprotocol/token-lists/pkg/common"
	"github.com/cowprotocol/token-lists/pkg/tokenlist"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// IDMapBuilder builds the CoinGecko id map. *coingecko.Client implements it.
type IDMapBuilder interface {
	BuildIDMap(ctx context.Context) (*coingecko.IDMap, error)
}

// Generator writes the auxiliary lists of several chains.
type Generator struct {
	coingecko CoinGeckoAPI
	outputDir string
	topN      int
	overrides map[common.ChainID]Overrides
	logger    *zap.Logger
}

type Option func(*Generator)

// WithTopTokens sets the size of the CoinGecko lists.
func WithTopTokens(n int) Option {
	return func(g *Generator) {
		if n > 0 {
			g.topN = n
		}
	}
}

// WithOverrides sets the per-chain token overrides.
func WithOverrides(overrides map[common.ChainID]Overrides) Option {
	return func(g *Generator) {
		g.overrides = overrides
	}
}

func NewGenerator(api CoinGeckoAPI, outputDir string, logger *zap.Logger, opts ...Option) *Generator {
	g := &Generator{
		coingecko: api,
		outputDir: outputDir,
		topN:      DefaultTopTokens,
		logger:    logger.With(zap.String("component", "auxlists")),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// RunParams selects the lists written by Run.
type RunParams struct {
	Chains []common.ChainID
	// UniswapSource is the URL or path of the Uniswap list. Empty skips the Uniswap lists.
	UniswapSource string
	Getter        tokenlist.Getter
	IDs           IDMapBuilder
}

// Run builds the id map once and writes a CoinGecko list for every chain with a CoinGecko platform
// and a Uniswap list for every such chain but mainnet. Lists are generated concurrently; a failing
// list does not stop the others and all failures are returned joined.
func (g *Generator) Run(ctx context.Context, p RunParams) error {
	logger := g.logger.With(zap.String("runId", uuid.NewString()))

	ids, err := p.IDs.BuildIDMap(ctx)
	if err != nil {
		return fmt.Errorf("%w: coingecko id map: %w", tokenlist.ErrFetch, err)
	}

	var uniTokens []tokenlist.TokenRecord
	if p.UniswapSource != "" {
		uni, err := tokenlist.Load(ctx, p.UniswapSource, p.Getter)
		if err != nil {
			return err
		}
		uniTokens = uni.Tokens
	}

	var tasks []func() error
	for _, chain := range p.Chains {
		chain := chain
		if !coingecko.IsPlatformSupported(chain) {
			logger.Info("skipping chain without coingecko platform", zap.Stringer("chain", chain))
			continue
		}
		tasks = append(tasks, func() error {
			_, err := g.CoinGeckoTop(ctx, chain, ids)
			if err != nil {
				return fmt.Errorf("%s list of %s: %w", CoinGeckoPrefix, chain, err)
			}
			return nil
		})
		if p.UniswapSource != "" && chain != common.ChainIDMainnet {
			tasks = append(tasks, func() error {
				_, err := g.Uniswap(ctx, chain, uniTokens, ids)
				if err != nil {
					return fmt.Errorf("%s list of %s: %w", UniswapPrefix, chain, err)
				}
				return nil
			})
		}
	}

	errC := make(chan error, len(tasks))
	var wg sync.WaitGroup
	for _, task := range tasks {
		wg.Add(1)
		go func(task func() error) {
			defer wg.Done()
			if err := task(); err != nil {
				logger.Error("failed to generate auxiliary list", zap.Error(err))
				errC <- err
			}
		}(task)
	}
	wg.Wait()
	close(errC)

	var errs []error
	for err := range errC {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}
