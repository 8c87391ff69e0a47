package archive

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/zachmeador/pineneedle/pkg/errors"
)

// Renderer turns resume markdown into PDF bytes in a named visual style.
type Renderer interface {
	Render(ctx context.Context, markdown, style string) ([]byte, error)
	Styles() []string
}

// ExportResult describes one PDF export.
type ExportResult struct {
	Path      string
	SizeBytes int64
	Reused    bool
}

// ExportPDF renders a resume version (timestamp "" means latest) to PDF in the
// given style. Re-exporting the same version and style reuses the recorded
// file unless force is set.
func (s *Store) ExportPDF(ctx context.Context, renderer Renderer, jobID, timestamp, style string, force bool) (*ExportResult, error) {
	logger := slog.With("component", "archive", "operation", "export_pdf", "job_id", jobID, "style", style)

	resumePath, err := s.GetVersion(jobID, timestamp)
	if err != nil {
		return nil, err
	}
	resumeFilename := filepath.Base(resumePath)

	if !force {
		if record, ok := s.FindPDFRecord(jobID, resumeFilename, style); ok {
			existing := filepath.Join(s.jobDir(jobID), record.PDFFilename)
			if info, statErr := os.Stat(existing); statErr == nil {
				logger.Debug("reusing existing pdf", "file", record.PDFFilename)
				return &ExportResult{Path: existing, SizeBytes: info.Size(), Reused: true}, nil
			}
			// Record exists but the file is gone; fall through and re-render.
		}
	}

	markdown, err := os.ReadFile(resumePath)
	if err != nil {
		return nil, errors.NotFound(jobID, fmt.Sprintf("resume file %s is unreadable", resumeFilename))
	}

	pdfBytes, err := renderer.Render(ctx, string(markdown), style)
	if err != nil {
		return nil, err
	}

	pdfFilename := strings.TrimSuffix(resumeFilename, ".md") + "_" + style + ".pdf"
	pdfPath := filepath.Join(s.jobDir(jobID), pdfFilename)
	if err := os.WriteFile(pdfPath, pdfBytes, 0o644); err != nil {
		return nil, fmt.Errorf("failed to write pdf for job %s: %w", jobID, err)
	}

	size := int64(len(pdfBytes))
	if err := s.RecordPDF(jobID, resumeFilename, style, pdfFilename, size); err != nil {
		return nil, err
	}

	logger.Info("exported pdf", "file", pdfFilename, "size_bytes", size)
	return &ExportResult{Path: pdfPath, SizeBytes: size}, nil
}
