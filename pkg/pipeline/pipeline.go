// Package pipeline runs the parse → serialize path for batches of records.
//
// This package implements the record-level workflow shared by the CLI and
// the HTTP service. By centralizing it, both entry points read inputs,
// consult the cache, report errors and count statistics the same way.
//
// # Architecture
//
// Every record goes through two stages:
//
//  1. Parse: read SMILES text or a JSON graph into a molecule
//  2. Serialize: write the molecule with the configured line options
//
// Records are independent. A batch runs them concurrently on a bounded
// number of workers, and a failing record is reported in its [Record]
// without stopping the others.
//
// # Usage
//
// Create a Runner and execute a batch:
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	inputs, err := pipeline.ReadInputs(file, pipeline.FormatSMILES)
//	if err != nil {
//	    return err
//	}
//	res, err := runner.Execute(ctx, inputs, pipeline.Options{Line: line.DefaultOptions()})
//	if err != nil {
//	    return err
//	}
//	err = pipeline.WriteRecords(os.Stdout, res.Records, opts.Line)
//
// Canonicalize a single record:
//
//	rec, err := runner.Canonicalize(ctx, pipeline.Input{Data: "OCC"}, opts)
package pipeline

import (
	"io"
	"runtime"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/molline/pkg/errors"
	"github.com/matzehuels/molline/pkg/line"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and API
// =============================================================================

const (
	// DefaultCacheTTL is how long serialized records stay cached.
	DefaultCacheTTL = 7 * 24 * time.Hour

	// DefaultFormat is the input format when none is given.
	DefaultFormat = FormatSMILES
)

// Input formats.
const (
	FormatSMILES = "smiles"
	FormatJSON   = "json"
)

// ValidFormats is the set of supported input formats.
var ValidFormats = map[string]bool{
	FormatSMILES: true,
	FormatJSON:   true,
}

// DefaultWorkers returns the default batch concurrency.
func DefaultWorkers() int {
	return runtime.NumCPU()
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for a pipeline run.
type Options struct {
	// Line controls the output dialect.
	Line line.Options `toml:"line" yaml:"line" json:"line"`

	// Format is the input format of records that do not name one.
	Format string `toml:"format" yaml:"format" json:"format,omitempty"`

	// Workers bounds concurrent records in a batch.
	Workers int `toml:"workers" yaml:"workers" json:"workers,omitempty"`

	// CacheTTL is the expiry of cached records.
	CacheTTL time.Duration `toml:"cache_ttl" yaml:"cache_ttl" json:"cache_ttl,omitempty"`

	// Refresh skips cache reads; results are still written back.
	Refresh bool `toml:"-" yaml:"-" json:"refresh,omitempty"`

	// Logger overrides the runner's logger for this run.
	Logger *log.Logger `toml:"-" yaml:"-" json:"-"`

	// Progress, when set, is called by Execute after each finished record.
	// Calls come from worker goroutines.
	Progress func(done, total int) `toml:"-" yaml:"-" json:"-"`
}

// ValidateFormat checks that an input format is supported.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidFormat, "invalid format: %q (must be one of: smiles, json)", format)
	}
	return nil
}

// ValidateAndSetDefaults checks the options and fills defaults. It is
// idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.Format == "" {
		o.Format = DefaultFormat
	}
	if err := ValidateFormat(o.Format); err != nil {
		return err
	}
	if o.Workers < 0 {
		return errors.New(errors.ErrCodeInvalidOption, "workers must be >= 0, got %d", o.Workers)
	}
	if o.Workers == 0 {
		o.Workers = DefaultWorkers()
	}
	if o.CacheTTL < 0 {
		return errors.New(errors.ErrCodeInvalidOption, "cache_ttl must be >= 0, got %s", o.CacheTTL)
	}
	if o.CacheTTL == 0 {
		o.CacheTTL = DefaultCacheTTL
	}
	if err := o.Line.Validate(); err != nil {
		return err
	}
	o.Line.SetDefaults()
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return nil
}

// =============================================================================
// Records
// =============================================================================

// Input is one record to canonicalize.
type Input struct {
	// ID names the record in logs and output, e.g. "line 12" or a name
	// that followed the SMILES on its line.
	ID string `json:"id,omitempty"`
	// Format overrides Options.Format for this record.
	Format string `json:"format,omitempty"`
	// Data is the SMILES string or JSON graph document.
	Data string `json:"data"`
}

// Record is the outcome for one input. Exactly one of Text and Err is set.
type Record struct {
	ID       string         `json:"id,omitempty"`
	Text     string         `json:"text,omitempty"`
	Warnings []line.Warning `json:"warnings,omitempty"`
	Atoms    int            `json:"atoms"`
	CacheHit bool           `json:"cache_hit,omitempty"`

	Err   error       `json:"-"`
	Error string      `json:"error,omitempty"`
	Code  errors.Code `json:"code,omitempty"`

	ParseTime     time.Duration `json:"-"`
	SerializeTime time.Duration `json:"-"`
}

func (r *Record) fail(err error) {
	r.Err = err
	r.Error = errors.UserMessage(err)
	r.Code = errors.GetCode(err)
	if r.Code == "" {
		r.Code = errors.ErrCodeInternal
	}
}

// OK reports whether the record was serialized.
func (r *Record) OK() bool { return r.Err == nil }

// Result contains the outputs of a batch run, in input order.
type Result struct {
	Records []Record
	Stats   Stats
}

// Stats contains batch execution statistics. ParseTime and SerializeTime
// are summed over records, so they may exceed Duration.
type Stats struct {
	Records       int
	Succeeded     int
	Failed        int
	Internal      int // failures caused by engine defects
	CacheHits     int
	Warnings      int
	ParseTime     time.Duration
	SerializeTime time.Duration
	Duration      time.Duration
}

func (s *Stats) add(r *Record) {
	s.Records++
	switch {
	case r.OK():
		s.Succeeded++
	case errors.IsInternal(r.Err):
		s.Failed++
		s.Internal++
	default:
		s.Failed++
	}
	if r.CacheHit {
		s.CacheHits++
	}
	s.Warnings += len(r.Warnings)
	s.ParseTime += r.ParseTime
	s.SerializeTime += r.SerializeTime
}
