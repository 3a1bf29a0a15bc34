package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/molline/pkg/pipeline"
)

// batchOpts holds the command-line flags for the batch command.
type batchOpts struct {
	output  string
	format  string
	workers int
	noCache bool
	refresh bool
	line    lineFlags
}

// batchCommand creates the batch command, which canonicalizes a file of
// records concurrently and writes one output line per input record.
func (c *CLI) batchCommand() *cobra.Command {
	var opts batchOpts

	cmd := &cobra.Command{
		Use:   "batch [file]",
		Short: "Canonicalize a file of molecules",
		Long: `Canonicalize every record of a file concurrently.

With --format smiles (the default) each line holds a SMILES string,
optionally followed by whitespace and a name. With --format json each
line holds one JSON graph document. Blank lines and lines starting with
'#' are skipped. Use "-" to read standard input.

Output keeps the input order. A record that fails leaves an empty line,
so line N of the output always belongs to record N.`,
		Example: `  molline batch molecules.smi
  molline batch -o canonical.smi --workers 8 molecules.smi
  cat graphs.jsonl | molline batch --format json -`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			popts, err := c.options(cmd, &opts.line)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("format") {
				if err := pipeline.ValidateFormat(opts.format); err != nil {
					return err
				}
				popts.Format = opts.format
			}
			if cmd.Flags().Changed("workers") {
				popts.Workers = opts.workers
			}
			popts.Refresh = opts.refresh
			return c.runBatch(cmd.Context(), args[0], opts.output, popts, opts.noCache)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default stdout)")
	cmd.Flags().StringVar(&opts.format, "format", pipeline.DefaultFormat, "input format: smiles, json")
	cmd.Flags().IntVar(&opts.workers, "workers", pipeline.DefaultWorkers(), "number of concurrent workers")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the result cache")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "recompute even when cached results exist")
	opts.line.register(cmd)

	return cmd
}

func (c *CLI) runBatch(ctx context.Context, path, output string, opts pipeline.Options, noCache bool) error {
	logger := loggerFromContext(ctx)
	prog := newProgress(logger)

	inputs, err := readBatch(path, opts.Format)
	if err != nil {
		return err
	}
	logger.Debug("read batch", "path", path, "records", len(inputs), "format", opts.Format)

	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Canonicalizing %d records...", len(inputs)))
	spinner.Start()
	opts.Progress = func(done, total int) {
		spinner.Update(fmt.Sprintf("Canonicalizing records %d/%d...", done, total))
	}
	res, err := runner.Execute(ctx, inputs, opts)
	if err != nil {
		spinner.StopWithError("Batch failed")
		return err
	}
	spinner.Stop()

	for _, r := range res.Records {
		if !r.OK() {
			logger.Warn("record failed", "id", r.ID, "code", r.Code, "err", r.Error)
		}
	}

	w, closeOut, err := createOutput(c.out, output)
	if err != nil {
		return err
	}
	if err := pipeline.WriteRecords(w, res.Records, opts); err != nil {
		closeOut()
		return fmt.Errorf("write records: %w", err)
	}
	if err := closeOut(); err != nil {
		return fmt.Errorf("close output: %w", err)
	}

	prog.done(fmt.Sprintf("Canonicalized %d records", res.Stats.Records))
	printSuccess("Batch complete")
	if output != "" {
		printFile(output)
	}
	printBatchStats(res.Stats)

	if res.Stats.Internal > 0 {
		return fmt.Errorf("%d records hit internal errors", res.Stats.Internal)
	}
	return nil
}
