package reports

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/avakros/stockfolio/internal/domain"
	"github.com/avakros/stockfolio/internal/modules/valuation"
)

// Format identifies an export artifact type
type Format string

const (
	FormatText Format = "txt"
	FormatCSV  Format = "csv"
	FormatPDF  Format = "pdf"
)

// ParseFormat validates a raw format string
func ParseFormat(raw string) (Format, error) {
	switch Format(raw) {
	case FormatText, FormatCSV, FormatPDF:
		return Format(raw), nil
	default:
		return "", domain.Validationf("unknown export format %q (want txt, csv or pdf)", raw)
	}
}

// ExportRecorder records that an export occurred. Satisfied by the ledger
// repository; the export service is the only report-side caller back into
// the store.
type ExportRecorder interface {
	RecordExport(format, filename string) (string, error)
}

// Service generates report files and records each export event
type Service struct {
	recorder ExportRecorder
	dir      string
	log      zerolog.Logger
}

// NewService creates a new export service writing into dir
func NewService(recorder ExportRecorder, dir string, log zerolog.Logger) *Service {
	return &Service{
		recorder: recorder,
		dir:      dir,
		log:      log.With().Str("component", "exports").Logger(),
	}
}

// Export writes the report for the given positions and total in the
// requested format, records the export event, and returns the filename.
func (s *Service) Export(format Format, positions []valuation.Position, total float64) (string, error) {
	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create export directory: %w", err)
	}

	filename := filepath.Join(s.dir, "portfolio_summary."+string(format))
	file, err := os.Create(filename)
	if err != nil {
		return "", fmt.Errorf("failed to create export file: %w", err)
	}

	switch format {
	case FormatText:
		err = WriteText(file, SummaryLines(positions, total))
	case FormatCSV:
		err = WriteCSV(file, positions, total)
	case FormatPDF:
		err = WritePDF(file, SummaryLines(positions, total))
	default:
		err = domain.Validationf("unknown export format %q", format)
	}
	if closeErr := file.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return "", fmt.Errorf("failed to write %s export: %w", format, err)
	}

	exportID, err := s.recorder.RecordExport(string(format), filename)
	if err != nil {
		return "", err
	}

	s.log.Info().
		Str("export_id", exportID).
		Str("format", string(format)).
		Str("filename", filename).
		Int("positions", len(positions)).
		Msg("Report exported")
	return filename, nil
}
