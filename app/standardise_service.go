package app

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"ethnicityfacts/adapters/tabular"
	"ethnicityfacts/domain/core"
	"ethnicityfacts/internal"
	apperrors "ethnicityfacts/internal/errors"
	"ethnicityfacts/internal/ethnicity"
	"ethnicityfacts/internal/metrics"
	"ethnicityfacts/internal/storage"
)

// StandardiseService runs uploaded datasets through a configured lookup
type StandardiseService struct {
	registry *ethnicity.Registry
	storage  storage.FileStorage
	metrics  *metrics.Metrics
	logger   *internal.Logger
}

// StandardiseRequest describes one dataset to standardise
type StandardiseRequest struct {
	Lookup          string // may be empty when only one lookup is configured
	Filename        string
	Format          tabular.Format // detected from Filename when empty
	OutputFormat    tabular.Format // defaults to the input format
	EthnicityColumn string
	TypeColumn      string
	Body            io.Reader
}

// StandardiseResult carries the processed rows and what happened to them
type StandardiseResult struct {
	ID           core.ID          `json:"id"`
	Lookup       string           `json:"lookup"`
	Filename     string           `json:"filename"`
	OutputFormat tabular.Format   `json:"output_format"`
	Rows         [][]string       `json:"-"`
	Report       ethnicity.Report `json:"report"`
	SourceHash   core.Hash        `json:"source_hash,omitempty"`
	SourceKey    string           `json:"source_key,omitempty"`
	OutputKey    string           `json:"output_key,omitempty"`
	RuntimeMs    int64            `json:"runtime_ms"`
}

// downloadLinkExpiry bounds presigned links handed out for stored files
const downloadLinkExpiry = 15 * time.Minute

// StoredFile is a kept source or output. Stores that presign set URL and
// leave Body nil; the caller closes Body otherwise.
type StoredFile struct {
	Key         string
	ContentType string
	URL         string
	Body        io.ReadCloser
}

// NewStandardiseService creates the service. Storage and metrics are optional.
func NewStandardiseService(registry *ethnicity.Registry, store storage.FileStorage, m *metrics.Metrics) *StandardiseService {
	return &StandardiseService{
		registry: registry,
		storage:  store,
		metrics:  m,
		logger:   internal.DefaultLogger.WithPrefix("Standardise"),
	}
}

// Lookups lists the configured lookup names
func (s *StandardiseService) Lookups() []string {
	return s.registry.Names()
}

// Standardise reads the request body, appends the lookup's columns and, when
// storage is configured, keeps both the source and the output.
func (s *StandardiseService) Standardise(ctx context.Context, req StandardiseRequest) (*StandardiseResult, error) {
	started := time.Now()

	name, lookup, err := s.registry.Resolve(req.Lookup)
	if err != nil {
		return nil, err
	}
	if req.Body == nil {
		return nil, apperrors.InvalidInput("no dataset supplied")
	}

	format, outFormat, err := resolveFormats(req)
	if err != nil {
		return nil, err
	}

	raw, err := io.ReadAll(req.Body)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to read upload")
	}
	result := &StandardiseResult{
		ID:           core.NewID(),
		Lookup:       name,
		Filename:     req.Filename,
		OutputFormat: outFormat,
		SourceHash:   core.NewHash(raw),
	}

	if s.storage != nil {
		key, err := s.storage.Store(ctx, req.Filename, bytes.NewReader(raw), format.ContentType())
		if err != nil {
			return nil, apperrors.Wrap(err, "failed to store source dataset")
		}
		result.SourceKey = key
	}

	rows, err := tabular.ReadRows(bytes.NewReader(raw), format)
	if err != nil {
		return nil, err
	}
	s.apply(result, lookup, rows, req, started)

	if s.storage != nil {
		var out bytes.Buffer
		if err := tabular.WriteRows(&out, result.Rows, outFormat); err != nil {
			return nil, err
		}
		key, err := s.storage.Store(ctx, OutputName(req.Filename, outFormat), &out, outFormat.ContentType())
		if err != nil {
			return nil, apperrors.Wrap(err, "failed to store standardised dataset")
		}
		result.OutputKey = key
	}

	result.RuntimeMs = time.Since(started).Milliseconds()
	return result, nil
}

// OpenStored fetches a file kept by Standardise, by its SourceKey or OutputKey
func (s *StandardiseService) OpenStored(ctx context.Context, key string) (*StoredFile, error) {
	if err := s.checkStored(ctx, key); err != nil {
		return nil, err
	}

	file := &StoredFile{Key: key, ContentType: "application/octet-stream"}
	if format, err := tabular.DetectFormat(key); err == nil {
		file.ContentType = format.ContentType()
	}

	if p, ok := s.storage.(storage.Presigner); ok {
		url, err := p.PresignURL(ctx, key, downloadLinkExpiry)
		if err != nil {
			return nil, err
		}
		file.URL = url
		return file, nil
	}

	body, err := s.storage.Open(ctx, key)
	if err != nil {
		return nil, err
	}
	file.Body = body
	return file, nil
}

// DeleteStored removes a kept file
func (s *StandardiseService) DeleteStored(ctx context.Context, key string) error {
	if err := s.checkStored(ctx, key); err != nil {
		return err
	}
	if err := s.storage.Delete(ctx, key); err != nil {
		return err
	}
	s.logger.Info("deleted stored file %s", key)
	return nil
}

func (s *StandardiseService) checkStored(ctx context.Context, key string) error {
	if s.storage == nil {
		return fmt.Errorf("%w: %s (no storage configured)", core.ErrObjectNotFound, key)
	}
	exists, err := s.storage.Exists(ctx, key)
	if err != nil {
		return err
	}
	if !exists {
		return fmt.Errorf("%w: %s", core.ErrObjectNotFound, key)
	}
	return nil
}

// StandardiseFile standardises the file at inPath and writes the result to
// outPath, whose extension selects the output format.
func (s *StandardiseService) StandardiseFile(ctx context.Context, inPath, outPath string, req StandardiseRequest) (*StandardiseResult, error) {
	started := time.Now()

	name, lookup, err := s.registry.Resolve(req.Lookup)
	if err != nil {
		return nil, err
	}
	outFormat, err := tabular.DetectFormat(outPath)
	if err != nil {
		return nil, err
	}
	reader, err := tabular.NewDataReader(inPath)
	if err != nil {
		return nil, err
	}
	rows, err := reader.ReadRows()
	if err != nil {
		return nil, err
	}

	req.Filename = filepath.Base(inPath)
	result := &StandardiseResult{ID: core.NewID(), Lookup: name, Filename: req.Filename, OutputFormat: outFormat}
	s.apply(result, lookup, rows, req, started)

	if err := os.MkdirAll(filepath.Dir(outPath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}
	out, err := os.Create(outPath)
	if err != nil {
		return nil, fmt.Errorf("failed to create %s: %w", outPath, err)
	}
	if err := tabular.WriteRows(out, result.Rows, outFormat); err != nil {
		out.Close()
		return nil, err
	}
	if err := out.Close(); err != nil {
		return nil, fmt.Errorf("failed to write %s: %w", outPath, err)
	}

	result.RuntimeMs = time.Since(started).Milliseconds()
	return result, nil
}

func (s *StandardiseService) apply(result *StandardiseResult, lookup *ethnicity.DictionaryLookup, rows [][]string, req StandardiseRequest, started time.Time) {
	result.Rows, result.Report = lookup.ProcessWithReport(rows, req.EthnicityColumn, req.TypeColumn)
	s.observe(result.Lookup, result.Report, time.Since(started))

	label := req.Filename
	if result.SourceHash != "" {
		label += " (" + result.SourceHash.Short() + ")"
	}
	if !result.Report.Applied {
		s.logger.Warn("%s: no ethnicity column found, dataset returned unchanged", label)
		return
	}
	s.logger.Info("%s via %s: %d rows, %d matched, %d fallback, %d unmatched, %d skipped",
		label, result.Lookup, result.Report.Processed, result.Report.Matched,
		result.Report.FallbackMatched, result.Report.Unmatched, result.Report.Skipped)
}

func (s *StandardiseService) observe(lookup string, r ethnicity.Report, elapsed time.Duration) {
	s.metrics.ObserveRun(lookup, metrics.RunCounts{
		Applied:   r.Applied,
		Matched:   r.Matched,
		Fallback:  r.FallbackMatched,
		Unmatched: r.Unmatched,
		Skipped:   r.Skipped,
	}, elapsed)
}

func resolveFormats(req StandardiseRequest) (tabular.Format, tabular.Format, error) {
	format := req.Format
	if format == "" {
		detected, err := tabular.DetectFormat(req.Filename)
		if err != nil {
			return "", "", err
		}
		format = detected
	}
	outFormat := req.OutputFormat
	if outFormat == "" {
		outFormat = format
	}
	return format, outFormat, nil
}

// OutputName turns "survey.xlsx" into "survey-standardised.csv" for a CSV output
func OutputName(filename string, format tabular.Format) string {
	base := strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))
	if base == "" || base == "." {
		base = "dataset"
	}
	return base + "-standardised" + format.Extension()
}
