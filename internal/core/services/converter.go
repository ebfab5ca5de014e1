package services

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/custodia-labs/bmeconv/internal/core/domain"
	"github.com/custodia-labs/bmeconv/internal/core/ports/driven"
	"github.com/custodia-labs/bmeconv/internal/core/ports/driving"
	"github.com/custodia-labs/bmeconv/internal/logger"
)

// Ensure Converter implements the interface.
var _ driving.ConversionService = (*Converter)(nil)

// LogSuffix is appended to a document's base name to form its log file name.
const LogSuffix = "_log.txt"

// Converter sequences encoding discovery, dialect sniffing, parsing and
// output for one document at a time.
type Converter struct {
	prober    driven.EncodingProber
	sniffer   driven.DialectSniffer
	parser    driven.TreeParser
	flattener driven.Flattener
	writer    driven.TableWriter
	extractor driven.CatalogExtractor
	settings  domain.Settings
	log       *zap.Logger

	// now is replaced in tests.
	now func() time.Time
}

// NewConverter creates a converter.
// The extractor is optional - if nil, catalog documents are validated but
// produce no output.
func NewConverter(
	prober driven.EncodingProber,
	sniffer driven.DialectSniffer,
	parser driven.TreeParser,
	flattener driven.Flattener,
	writer driven.TableWriter,
	extractor driven.CatalogExtractor,
	settings domain.Settings,
	log *zap.Logger,
) *Converter {
	if log == nil {
		log = zap.NewNop()
	}
	if settings.OutputDir == "" {
		settings.OutputDir = domain.DefaultOutputDir
	}
	return &Converter{
		prober:    prober,
		sniffer:   sniffer,
		parser:    parser,
		flattener: flattener,
		writer:    writer,
		extractor: extractor,
		settings:  settings,
		log:       log,
		now:       time.Now,
	}
}

// run carries one document through the state machine.
type run struct {
	result *domain.Result
	log    *zap.Logger
}

func (r *run) advance(state domain.State) {
	r.result.State = state
	r.log.Debug("State", zap.String("state", string(state)))
}

// fail records err against the current state, logs it and returns it.
func (r *run) fail(err error) error {
	r.result.FailedIn = r.result.State
	r.result.State = domain.StateFailed
	r.result.Err = err
	r.log.Error("Conversion failed",
		zap.String("state", string(r.result.FailedIn)),
		zap.Error(err))
	return err
}

// Convert runs the pipeline for the document at path.
// The returned result is non-nil whenever the document was started.
func (c *Converter) Convert(ctx context.Context, path string) (*domain.Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	result := &domain.Result{
		RunID:     uuid.New().String(),
		Source:    path,
		BaseName:  BaseName(path),
		State:     domain.StateStart,
		StartedAt: c.now(),
	}
	defer func() { result.FinishedAt = c.now() }()

	fields := []zap.Field{zap.String("run_id", result.RunID), zap.String("file", path)}
	log := c.log.With(fields...)
	r := &run{result: result, log: log}

	if err := os.MkdirAll(c.settings.OutputDir, 0755); err != nil {
		return result, r.fail(fmt.Errorf("%w: create output directory: %w", domain.ErrIO, err))
	}

	if c.settings.LogToFile {
		logPath := filepath.Join(c.settings.OutputDir, result.BaseName+LogSuffix)
		fileLog, closeLog, err := logger.Tee(log, logPath, logger.ParseLevel(string(c.settings.LogLevel)), fields...)
		if err != nil {
			log.Warn("Document log unavailable", zap.String("path", logPath), zap.Error(err))
		} else {
			r.log = fileLog
			defer func() { _ = closeLog() }()
		}
	}

	r.log.Info("Processing file")
	if err := c.convert(ctx, r, path); err != nil {
		return result, err
	}
	r.log.Info("Conversion finished",
		zap.String("path", string(result.Path)),
		zap.Strings("outputs", result.Outputs))
	return result, nil
}

func (c *Converter) convert(ctx context.Context, r *run, path string) error {
	result := r.result

	enc, err := c.resolveEncoding(path, r.log)
	if err != nil {
		return r.fail(err)
	}
	result.Encoding = enc
	r.advance(domain.StateEncodingResolved)

	verdict, err := c.sniffer.Sniff(path, enc, r.log)
	if err != nil {
		return r.fail(err)
	}
	result.Verdict = verdict
	r.advance(domain.StateDialectKnown)

	tree, err := c.parser.Parse(path, enc, r.log)
	if err != nil {
		return r.fail(err)
	}
	result.Namespace = tree.Namespace

	if verdict.IsCatalog {
		result.Path = domain.PathCatalog
		r.advance(domain.StateCatalogParsed)
		c.extract(ctx, r, tree)
	} else {
		result.Path = domain.PathGeneric
		if err := c.flatten(r, tree); err != nil {
			return r.fail(err)
		}
	}

	r.advance(domain.StateDone)
	return nil
}

// resolveEncoding probes path and applies the configured fallback when no
// candidate decodes it.
func (c *Converter) resolveEncoding(path string, log *zap.Logger) (domain.ResolvedEncoding, error) {
	enc, err := c.prober.Probe(path, log)
	if err == nil {
		return enc, nil
	}
	if !errors.Is(err, domain.ErrEncodingExhausted) || c.settings.FallbackEncoding == "" {
		return domain.ResolvedEncoding{}, err
	}

	log.Warn("No candidate encoding decoded the file, using fallback",
		zap.String("encoding", c.settings.FallbackEncoding))
	return domain.ResolvedEncoding{
		Name:  c.settings.FallbackEncoding,
		Trial: c.settings.FallbackEncoding,
	}, nil
}

// extract hands a parsed catalog to the extractor. Its failures are logged
// and kept on the result, never returned.
func (c *Converter) extract(ctx context.Context, r *run, tree *domain.NormalizedTree) {
	if c.extractor == nil {
		r.log.Info("Catalog validated, no extractor configured")
		return
	}

	outputs, err := c.callExtractor(ctx, r.log, tree, r.result.BaseName)
	r.result.Outputs = append(r.result.Outputs, outputs...)
	if err != nil {
		if !errors.Is(err, domain.ErrExtraction) {
			err = fmt.Errorf("%w: %w", domain.ErrExtraction, err)
		}
		r.result.Err = err
		r.log.Error("Catalog extraction failed", zap.Error(err))
	}
}

func (c *Converter) callExtractor(
	ctx context.Context, log *zap.Logger, tree *domain.NormalizedTree, baseName string,
) (outputs []string, err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("%w: extractor panicked: %v", domain.ErrExtraction, p)
		}
	}()
	return c.extractor.Extract(ctx, tree, c.settings.OutputDir, baseName, log)
}

// flatten writes the generic table. No matching elements is logged and
// leaves no file, but does not fail the document.
func (c *Converter) flatten(r *run, tree *domain.NormalizedTree) error {
	table, err := c.flattener.Flatten(tree)
	if errors.Is(err, domain.ErrNoMatchingElements) {
		r.result.Err = err
		r.log.Error("No matching elements found")
		r.advance(domain.StateGenericFlattened)
		return nil
	}
	if err != nil {
		return err
	}
	r.advance(domain.StateGenericFlattened)

	out := filepath.Join(c.settings.OutputDir, r.result.BaseName+".csv")
	if err := c.writer.Write(out, table); err != nil {
		return err
	}
	r.result.Outputs = append(r.result.Outputs, out)
	r.result.Rows = len(table.Rows)
	r.log.Info("CSV written", zap.String("output", out), zap.Int("rows", len(table.Rows)))
	return nil
}

// ConvertAll converts each path in order. Document failures are reported in
// the results; only cancellation stops the batch early.
func (c *Converter) ConvertAll(ctx context.Context, paths []string) ([]*domain.Result, error) {
	results := make([]*domain.Result, 0, len(paths))
	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			c.log.Warn("Interrupted", zap.Int("remaining", len(paths)-len(results)))
			return results, err
		}
		result, _ := c.Convert(ctx, path)
		if result != nil {
			results = append(results, result)
		}
	}
	return results, nil
}

// Inspect probes, sniffs and parses path without writing anything.
func (c *Converter) Inspect(ctx context.Context, path string) (*driving.Inspection, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	log := c.log.With(zap.String("file", path))

	enc, err := c.resolveEncoding(path, log)
	if err != nil {
		return nil, err
	}
	verdict, err := c.sniffer.Sniff(path, enc, log)
	if err != nil {
		return nil, err
	}

	inspection := &driving.Inspection{Encoding: enc, Verdict: verdict}
	tree, err := c.parser.Parse(path, enc, log)
	switch {
	case errors.Is(err, domain.ErrIO):
		return nil, err
	case err != nil:
		inspection.ParseErr = err
	default:
		inspection.Namespaces = tree.Namespaces
	}
	return inspection, nil
}

// BaseName returns the file name of path without directory or extension.
func BaseName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
