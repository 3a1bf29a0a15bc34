package pipeline

import (
	"context"
	"encoding/json"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/molline/pkg/cache"
	"github.com/matzehuels/molline/pkg/errors"
	"github.com/matzehuels/molline/pkg/line"
	"github.com/matzehuels/molline/pkg/observability"
)

// cacheKeyType labels line cache entries in metrics.
const cacheKeyType = "line"

// Runner encapsulates record execution with caching.
// Both CLI and API use it to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache and logger. Multiple
// goroutines can safely use the same Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// cachedRecord is the cache payload of a serialized record.
type cachedRecord struct {
	Text     string         `json:"text"`
	Warnings []line.Warning `json:"warnings,omitempty"`
	Atoms    int            `json:"atoms"`
}

// Execute canonicalizes all inputs concurrently on opts.Workers workers.
// Per-record failures are reported in the records; the returned error is
// non-nil only for invalid options or a cancelled context.
func (r *Runner) Execute(ctx context.Context, inputs []Input, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	logger := r.logger(opts)
	start := time.Now()

	records := make([]Record, len(inputs))
	var finished atomic.Int64
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.Workers)
	for i, in := range inputs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			records[i] = r.canonicalize(gctx, in, opts, logger)
			if opts.Progress != nil {
				opts.Progress(int(finished.Add(1)), len(inputs))
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	res := &Result{Records: records}
	for i := range records {
		res.Stats.add(&records[i])
	}
	res.Stats.Duration = time.Since(start)

	logger.Info("batch complete",
		"records", res.Stats.Records,
		"failed", res.Stats.Failed,
		"cache_hits", res.Stats.CacheHits,
		"warnings", res.Stats.Warnings,
		"duration", res.Stats.Duration)
	return res, nil
}

// Canonicalize runs a single input. The record's error is also returned.
func (r *Runner) Canonicalize(ctx context.Context, in Input, opts Options) (Record, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return Record{}, err
	}
	rec := r.canonicalize(ctx, in, opts, r.logger(opts))
	return rec, rec.Err
}

func (r *Runner) canonicalize(ctx context.Context, in Input, opts Options, logger *log.Logger) Record {
	rec := Record{ID: in.ID}
	format := in.Format
	if format == "" {
		format = opts.Format
	}
	if err := ValidateFormat(format); err != nil {
		rec.fail(err)
		return rec
	}

	key := r.Keyer.LineKey(cache.InputHash(format, []byte(in.Data)), opts.Line)
	if !opts.Refresh && r.fromCache(ctx, key, &rec, logger) {
		return rec
	}

	hooks := observability.Serialize()
	t := time.Now()
	m, err := Parse(in.Data, format)
	rec.ParseTime = time.Since(t)
	if err != nil {
		hooks.OnParse(ctx, format, 0, rec.ParseTime, err)
		rec.fail(err)
		logger.Debug("parse failed", "id", in.ID, "err", err)
		return rec
	}
	rec.Atoms = m.AtomCount()
	hooks.OnParse(ctx, format, rec.Atoms, rec.ParseTime, nil)
	if rec.ID == "" {
		rec.ID = m.Name
	}

	hooks.OnSerializeStart(ctx, rec.Atoms)
	t = time.Now()
	res, err := line.Serialize(m, opts.Line)
	rec.SerializeTime = time.Since(t)
	if err != nil {
		hooks.OnSerializeComplete(ctx, rec.Atoms, 0, rec.SerializeTime, err)
		rec.fail(err)
		if errors.IsInternal(err) {
			logger.Error("serializer defect", "id", rec.ID, "input", in.Data, "err", err)
		} else {
			logger.Debug("serialize failed", "id", rec.ID, "err", err)
		}
		return rec
	}
	hooks.OnSerializeComplete(ctx, rec.Atoms, len(res.Warnings), rec.SerializeTime, nil)
	rec.Text = res.Text
	rec.Warnings = res.Warnings
	for _, w := range res.Warnings {
		logger.Warn("stereo dropped", "id", rec.ID, "code", w.Code, "msg", w.Message)
	}
	logger.Debug("serialized", "id", rec.ID, "atoms", rec.Atoms, "duration", rec.SerializeTime)

	data, err := json.Marshal(cachedRecord{Text: rec.Text, Warnings: rec.Warnings, Atoms: rec.Atoms})
	if err == nil {
		if err := r.Cache.Set(ctx, key, data, opts.CacheTTL); err != nil {
			logger.Warn("cache write failed", "err", err)
		} else {
			observability.Cache().OnCacheSet(ctx, cacheKeyType, len(data))
		}
	}
	return rec
}

func (r *Runner) fromCache(ctx context.Context, key string, rec *Record, logger *log.Logger) bool {
	data, hit, err := r.Cache.Get(ctx, key)
	if err != nil {
		logger.Warn("cache read failed", "err", err)
	}
	if hit {
		var c cachedRecord
		if err := json.Unmarshal(data, &c); err == nil {
			observability.Cache().OnCacheHit(ctx, cacheKeyType)
			rec.Text, rec.Warnings, rec.Atoms, rec.CacheHit = c.Text, c.Warnings, c.Atoms, true
			return true
		}
	}
	observability.Cache().OnCacheMiss(ctx, cacheKeyType)
	return false
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

func (r *Runner) logger(opts Options) *log.Logger {
	if opts.Logger != nil {
		return opts.Logger
	}
	return r.Logger
}
