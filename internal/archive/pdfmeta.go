package archive

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/zachmeador/pineneedle/internal/store"
	"github.com/zachmeador/pineneedle/pkg/types"
)

// pdfMetadataFile sits next to a job's resume versions and records which
// (resume, style) pairs already have a rendered PDF.
const pdfMetadataFile = "pdf_metadata.json"

type pdfTable struct {
	Records []types.PDFRecord `json:"records"`
}

func (s *Store) pdfMetaPath(jobID string) string {
	return filepath.Join(s.jobDir(jobID), pdfMetadataFile)
}

func (s *Store) loadPDFTable(jobID string) pdfTable {
	var table pdfTable
	// An absent or unreadable table just means nothing is recorded yet.
	_ = store.ReadJSON(s.pdfMetaPath(jobID), &table)
	return table
}

// FindPDFRecord looks up a prior export for this resume file and style.
func (s *Store) FindPDFRecord(jobID, resumeFilename, style string) (*types.PDFRecord, bool) {
	table := s.loadPDFTable(jobID)
	for i := range table.Records {
		r := &table.Records[i]
		if r.ResumeFilename == resumeFilename && r.Style == style {
			return r, true
		}
	}
	return nil, false
}

// RecordPDF upserts the export record for a (resume, style) pair.
func (s *Store) RecordPDF(jobID, resumeFilename, style, pdfFilename string, sizeBytes int64) error {
	table := s.loadPDFTable(jobID)

	record := types.PDFRecord{
		ResumeFilename: resumeFilename,
		Style:          style,
		PDFFilename:    pdfFilename,
		GeneratedAt:    s.now().Format(time.RFC3339),
		SizeBytes:      sizeBytes,
	}

	replaced := false
	for i := range table.Records {
		if table.Records[i].ResumeFilename == resumeFilename && table.Records[i].Style == style {
			table.Records[i] = record
			replaced = true
			break
		}
	}
	if !replaced {
		table.Records = append(table.Records, record)
	}

	if err := store.WriteJSON(s.pdfMetaPath(jobID), table); err != nil {
		return fmt.Errorf("failed to write pdf metadata for job %s: %w", jobID, err)
	}
	return nil
}
