package archive

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/zachmeador/pineneedle/internal/store"
	"github.com/zachmeador/pineneedle/pkg/errors"
	"github.com/zachmeador/pineneedle/pkg/types"
)

// TimestampFormat keys archive versions at second granularity. Two archive
// calls for the same job within one second overwrite; the zero-padded
// fixed-width format keeps lexical sort chronological.
const TimestampFormat = "2006-01-02_15-04-05"

// Store is the immutable, timestamped history of generation attempts per
// job posting, backed by the profile's resumes directory.
type Store struct {
	fs *store.FS

	// now is swappable so tests can pin the version timestamp.
	now func() time.Time
}

func NewStore(fs *store.FS) *Store {
	return &Store{fs: fs, now: time.Now}
}

// Version is one archived generation attempt.
type Version struct {
	Timestamp string
	Path      string
}

func (s *Store) jobDir(jobID string) string {
	return s.fs.ProfilePath("resumes", jobID)
}

// Archive writes one version: the resume markdown and its metadata document,
// plus refreshed "latest" copies. Returns the version's resume path.
func (s *Store) Archive(
	job types.JobPosting,
	content types.ResumeContent,
	request types.GenerationRequest,
	modelUsed types.ModelConfig,
	iterationCount int,
) (string, error) {
	now := s.now()
	timestamp := now.Format(TimestampFormat)

	record := types.ResumeArchive{
		JobPostingID:      job.ID,
		JobPosting:        job,
		GenerationRequest: request,
		ResumeContent:     content,
		CreatedAt:         now.Format(time.RFC3339),
		ModelUsed:         modelUsed,
		IterationCount:    iterationCount,
	}

	dir := s.jobDir(job.ID)
	resumePath := filepath.Join(dir, timestamp+"_resume.md")
	if err := store.WriteText(resumePath, content.ResumeMarkdown); err != nil {
		return "", fmt.Errorf("failed to write resume version for job %s: %w", job.ID, err)
	}
	if err := store.WriteJSON(filepath.Join(dir, timestamp+"_metadata.json"), record); err != nil {
		return "", fmt.Errorf("failed to write archive metadata for job %s: %w", job.ID, err)
	}

	// Latest is a separate copy, not a symlink, so the tree stays portable.
	if err := store.WriteText(filepath.Join(dir, "latest_resume.md"), content.ResumeMarkdown); err != nil {
		return "", fmt.Errorf("failed to refresh latest resume for job %s: %w", job.ID, err)
	}
	if err := store.WriteJSON(filepath.Join(dir, "latest_metadata.json"), record); err != nil {
		return "", fmt.Errorf("failed to refresh latest metadata for job %s: %w", job.ID, err)
	}

	slog.Info("archived resume version",
		"job_id", job.ID,
		"version", timestamp,
		"iterations", iterationCount)

	return resumePath, nil
}

// ListVersions returns all versions for a job, newest first.
func (s *Store) ListVersions(jobID string) ([]Version, error) {
	files, err := filepath.Glob(filepath.Join(s.jobDir(jobID), "*_metadata.json"))
	if err != nil {
		return nil, fmt.Errorf("failed to scan versions for job %s: %w", jobID, err)
	}

	var versions []Version
	for _, file := range files {
		name := filepath.Base(file)
		if strings.HasPrefix(name, "latest_") || name == pdfMetadataFile {
			continue
		}
		timestamp := strings.TrimSuffix(name, "_metadata.json")
		versions = append(versions, Version{
			Timestamp: timestamp,
			Path:      filepath.Join(s.jobDir(jobID), timestamp+"_resume.md"),
		})
	}

	sort.Slice(versions, func(i, j int) bool {
		return versions[i].Timestamp > versions[j].Timestamp
	})
	return versions, nil
}

// GetVersion resolves a version's resume path. An empty timestamp means
// latest.
func (s *Store) GetVersion(jobID, timestamp string) (string, error) {
	if timestamp == "" {
		return s.latestResumePath(jobID)
	}

	path := filepath.Join(s.jobDir(jobID), timestamp+"_resume.md")
	if _, err := os.Stat(path); err != nil {
		return "", errors.NotFound(jobID, fmt.Sprintf("no resume version %s", timestamp))
	}
	return path, nil
}

func (s *Store) latestResumePath(jobID string) (string, error) {
	latest := filepath.Join(s.jobDir(jobID), "latest_resume.md")
	if _, err := os.Stat(latest); err == nil {
		return latest, nil
	}

	// Fall back to the newest timestamped version when the alias is gone.
	versions, err := s.ListVersions(jobID)
	if err != nil {
		return "", err
	}
	if len(versions) == 0 {
		return "", errors.NotFound(jobID, "no resume versions exist")
	}
	return versions[0].Path, nil
}

// LoadMetadata reads a version's archive record. An empty timestamp means
// latest. A metadata file missing its resume counterpart (or vice versa) is
// possible after a crash; the record is still returned if it parses.
func (s *Store) LoadMetadata(jobID, timestamp string) (*types.ResumeArchive, error) {
	name := "latest_metadata.json"
	if timestamp != "" {
		name = timestamp + "_metadata.json"
	}
	path := filepath.Join(s.jobDir(jobID), name)
	if _, err := os.Stat(path); err != nil {
		return nil, errors.NotFound(jobID, fmt.Sprintf("no archive metadata for version %q", timestamp))
	}

	var record types.ResumeArchive
	if err := store.ReadJSON(path, &record); err != nil {
		return nil, errors.Corrupt(jobID, fmt.Sprintf("archive metadata failed to parse: %v", err))
	}
	return &record, nil
}

// DeleteVersion removes one version's files and any PDFs derived from its
// resume filename. Deleting the last version removes the job's directory.
// Deleting the newest of several versions leaves the latest copies holding
// the removed content; they refresh on the next archive call.
func (s *Store) DeleteVersion(jobID, timestamp string) error {
	dir := s.jobDir(jobID)
	resumeName := timestamp + "_resume.md"
	targets := []string{
		filepath.Join(dir, resumeName),
		filepath.Join(dir, timestamp+"_metadata.json"),
	}

	found := false
	for _, target := range targets {
		if err := os.Remove(target); err == nil {
			found = true
		}
	}
	if !found {
		return errors.NotFound(jobID, fmt.Sprintf("no resume version %s", timestamp))
	}

	pdfs, _ := filepath.Glob(filepath.Join(dir, strings.TrimSuffix(resumeName, ".md")+"_*.pdf"))
	for _, pdf := range pdfs {
		os.Remove(pdf)
	}

	remaining, err := s.ListVersions(jobID)
	if err == nil && len(remaining) == 0 {
		s.removeLatestAndDirIfEmpty(dir)
	}
	return nil
}

// DeleteAllVersions wipes the job's entire resume directory.
func (s *Store) DeleteAllVersions(jobID string) error {
	if err := os.RemoveAll(s.jobDir(jobID)); err != nil {
		return fmt.Errorf("failed to delete resume versions for job %s: %w", jobID, err)
	}
	return nil
}

func (s *Store) removeLatestAndDirIfEmpty(dir string) {
	os.Remove(filepath.Join(dir, "latest_resume.md"))
	os.Remove(filepath.Join(dir, "latest_metadata.json"))
	os.Remove(filepath.Join(dir, pdfMetadataFile))
	// Only succeeds when nothing else is left.
	os.Remove(dir)
}
