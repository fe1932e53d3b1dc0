package core

import (
	"context"
	"fmt"
	"log/slog"
	"math"

	"golang.org/x/sync/errgroup"
)

// ComparisonSuffix is appended to a column name for its coerced copy in the
// comparison table.
const ComparisonSuffix = "_clean"

// Defaults for Options.
const (
	DefaultThreshold           = 0.90
	DefaultDateCandidateMaxLen = 30
)

// Options controls a cleaning run. The zero value is not usable; start from
// DefaultOptions.
type Options struct {
	// Threshold is the minimum parse ratio, within [0, 1], for the NUMERIC
	// and DATETIME hypotheses.
	Threshold float64

	Vocabulary Vocabulary

	// DateCandidateMaxLen excludes values this long or longer from the
	// DATETIME ratio numerator.
	DateCandidateMaxLen int

	// Workers bounds how many columns are inferred concurrently.
	Workers int

	// Logger receives per-column decisions at debug level. Nil means slog.Default().
	Logger *slog.Logger
}

// DefaultOptions returns options with the default threshold and vocabulary.
func DefaultOptions() Options {
	return Options{
		Threshold:           DefaultThreshold,
		Vocabulary:          DefaultVocabulary(),
		DateCandidateMaxLen: DefaultDateCandidateMaxLen,
		Workers:             1,
	}
}

func (o Options) normalize() (Options, error) {
	if math.IsNaN(o.Threshold) || o.Threshold < 0 || o.Threshold > 1 {
		return o, fmt.Errorf("%w: got %v", ErrInvalidThreshold, o.Threshold)
	}
	v := o.Vocabulary
	if v.Junk == nil && v.True == nil && v.False == nil && v.Currency == nil {
		o.Vocabulary = DefaultVocabulary()
	}
	if err := o.Vocabulary.Validate(); err != nil {
		return o, err
	}
	o.Vocabulary = o.Vocabulary.compiled()
	if o.DateCandidateMaxLen <= 0 {
		o.DateCandidateMaxLen = DefaultDateCandidateMaxLen
	}
	if o.Workers <= 0 {
		o.Workers = 1
	}
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
	return o, nil
}

// Result holds the four views produced by a cleaning run.
type Result struct {
	// Comparison holds the retained raw columns under sanitized names,
	// followed by a "<name>_clean" column of coerced values for each.
	Comparison *Table

	// LoadReady holds one coerced column per sanitized name.
	LoadReady *Table

	// Quarantine holds original_index, quarantine_reason and every raw
	// column for each row with at least one coercion failure.
	Quarantine *Table

	Types   TypeReport
	Records []QuarantineRecord

	DroppedRows    int
	DroppedColumns int
}

// QuarantinedRows returns the number of distinct quarantined rows.
func (r *Result) QuarantinedRows() int {
	return r.Quarantine.NumRows()
}

// CleanGeneric cleans raw with the default vocabulary and the given
// threshold.
func CleanGeneric(raw *Table, threshold float64) (*Result, error) {
	opts := DefaultOptions()
	opts.Threshold = threshold
	return CleanTable(context.Background(), raw, opts)
}

// CleanTable sanitizes column names, drops all-empty columns and rows,
// infers and coerces every column, and assembles the output views.
//
// Columns are inferred on up to opts.Workers goroutines; results are merged
// by column position so the output does not depend on scheduling.
func CleanTable(ctx context.Context, raw *Table, opts Options) (*Result, error) {
	opts, err := opts.normalize()
	if err != nil {
		return nil, err
	}
	if err := raw.Validate(); err != nil {
		return nil, err
	}

	kept, droppedRows, droppedCols := raw.dropEmpty()
	names, err := sanitizeHeaders(kept.Names(), opts.Vocabulary)
	if err != nil {
		return nil, err
	}

	inferred := make([]ColumnInference, kept.NumCols())
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.Workers)
	for j := range kept.Columns {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			inferred[j] = opts.inferColumn(kept.Columns[j].Cells)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("infer columns: %w", err)
	}

	res := &Result{
		Types:          make(TypeReport, len(names)),
		DroppedRows:    droppedRows,
		DroppedColumns: droppedCols,
	}
	for j, inf := range inferred {
		name := names[j]
		res.Types[j] = ColumnType{Name: name, Type: inf.Type}
		res.Records = append(res.Records,
			collectFailures(name, inf.Type, kept.RowIDs, kept.Columns[j].Cells, inf.Standardized, inf.Coerced)...)

		opts.Logger.Debug("column classified",
			"column", name,
			"source", kept.Columns[j].Name,
			"type", inf.Type,
			"present", countPresent(inf.Standardized),
		)
	}

	res.Comparison, res.LoadReady = assembleViews(kept, names, inferred)
	res.Quarantine = buildQuarantineTable(raw, res.Records)
	return res, nil
}

func assembleViews(kept *Table, names []string, inferred []ColumnInference) (comparison, loadReady *Table) {
	comparison = &Table{RowIDs: kept.RowIDs, Columns: make([]Column, 0, 2*len(names))}
	loadReady = &Table{RowIDs: kept.RowIDs, Columns: make([]Column, 0, len(names))}

	for j, name := range names {
		comparison.Columns = append(comparison.Columns, Column{Name: name, Cells: kept.Columns[j].Cells})
	}
	for j, name := range names {
		cells := inferred[j].Coerced
		if cells == nil {
			cells = inferred[j].Standardized
		}
		comparison.Columns = append(comparison.Columns, Column{Name: name + ComparisonSuffix, Cells: cells})
		loadReady.Columns = append(loadReady.Columns, Column{Name: name, Cells: cells})
	}
	return comparison, loadReady
}
