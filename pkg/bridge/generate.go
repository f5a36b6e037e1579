// Package bridge maps a token list of an origin chain to a target chain through an on-chain
// bridge contract.
package bridge

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/cowprotocol/token-lists/pkg/common"
	"github.com/cowprotocol/token-lists/pkg/tokenlist"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Generate builds the bridged list described by params and saves it to params.OutputFilePath. It
// returns the list as stored after the run and its token count. Configuration errors wrap
// common.ErrConfig, unreachable sources or RPC wrap tokenlist.ErrFetch and a failed write wraps
// tokenlist.ErrWrite.
func Generate(ctx context.Context, params Params, deps Deps) (*tokenlist.TokenList, int, error) {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.With(
		zap.String("component", "bridge"),
		zap.Stringer("chain", params.ChainID),
		zap.String("runId", uuid.NewString()))

	list, err := generate(ctx, params, deps, logger)
	if err != nil {
		generations.WithLabelValues(params.ChainID.String(), "error").Inc()
		logger.Error("failed to generate bridged token list", zap.Error(err))
		return nil, 0, err
	}
	generations.WithLabelValues(params.ChainID.String(), "success").Inc()
	return list, len(list.Tokens), nil
}

func generate(ctx context.Context, params Params, deps Deps, logger *zap.Logger) (*tokenlist.TokenList, error) {
	cfg, err := params.validate()
	if err != nil {
		return nil, err
	}
	if deps.Multicaller == nil {
		return nil, fmt.Errorf("%w: no multicaller configured", common.ErrConfig)
	}

	source := params.SourceList
	if source == nil {
		logger.Info("loading source token list", zap.String("source", params.TokenListSource))
		source, err = tokenlist.Load(ctx, params.TokenListSource, deps.Getter)
		if err != nil {
			return nil, err
		}
	}

	r := &resolver{cfg: cfg, mc: deps.Multicaller, logger: logger}
	mappings, err := r.resolve(ctx, source.Tokens)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", tokenlist.ErrFetch, err)
	}

	v := &validityFilter{cfg: cfg, mc: deps.Multicaller, logger: logger}
	mappings, err = v.filter(ctx, mappings)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", tokenlist.ErrFetch, err)
	}

	tokens := assemble(cfg, mappings, params.TokensToAdd, logger)

	name := params.ListName
	if name == "" {
		name = source.Name
	}
	out := &tokenlist.TokenList{
		Name:     name,
		LogoURI:  source.LogoURI,
		Keywords: source.Keywords,
		Tags:     source.Tags,
		Tokens:   tokens,
	}

	saved, _, err := tokenlist.Save(params.OutputFilePath, out, logger)
	if err != nil {
		return nil, err
	}

	logger.Info("bridged token list generated",
		zap.String("path", params.OutputFilePath),
		zap.Stringer("version", saved.Version),
		zap.Int("tokens", len(saved.Tokens)))
	return saved, nil
}

// assemble turns the mappings into target chain records and merges in the manual tokens.
func assemble(cfg *config, mappings []AddressMapping, manual []tokenlist.TokenRecord, logger *zap.Logger) []tokenlist.TokenRecord {
	discovered := make([]tokenlist.TokenRecord, 0, len(mappings))
	for _, m := range mappings {
		t := m.Source.Clone()
		t.ChainID = int64(cfg.chainID)
		t.Address = common.AddressString(m.Resolved)
		t.Extensions = nil
		discovered = append(discovered, t)
	}

	added := make([]tokenlist.TokenRecord, 0, len(manual))
	for _, t := range manual {
		t = t.Clone()
		if t.ChainID == 0 {
			t.ChainID = int64(cfg.chainID)
		}
		t.Address = common.NormalizeAddress(t.Address)
		added = append(added, t)
	}

	kept, dropped := tokenlist.Dedupe(tokenlist.MergeBySymbol(discovered, added))
	for _, t := range dropped {
		tokensDropped.WithLabelValues(cfg.chainID.String(), "duplicate_address").Inc()
		logger.Info("dropping token",
			zap.String("symbol", t.Symbol),
			zap.String("target", t.Address),
			zap.String("reason", "duplicate target address"))
	}
	return kept
}

// Job is one generation of GenerateAll.
type Job struct {
	Params Params
	Deps   Deps
}

// Result is the outcome of one Job.
type Result struct {
	ChainID common.ChainID
	List    *tokenlist.TokenList
	Count   int
	Err     error
}

// GenerateAll runs the jobs concurrently. Jobs share only read-only inputs and write distinct
// files. Results are returned in job order along with the joined errors of failed jobs.
func GenerateAll(ctx context.Context, jobs []Job) ([]Result, error) {
	results := make([]Result, len(jobs))
	errC := make(chan error, len(jobs))

	var wg sync.WaitGroup
	for i, job := range jobs {
		wg.Add(1)
		go func(i int, job Job) {
			defer wg.Done()
			list, count, err := Generate(ctx, job.Params, job.Deps)
			results[i] = Result{ChainID: job.Params.ChainID, List: list, Count: count, Err: err}
			if err != nil {
				errC <- fmt.Errorf("chain %s: %w", job.Params.ChainID, err)
			}
		}(i, job)
	}
	wg.Wait()
	close(errC)

	var errs []error
	for err := range errC {
		errs = append(errs, err)
	}
	return results, errors.Join(errs...)
}
