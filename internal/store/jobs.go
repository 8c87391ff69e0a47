package store

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/zachmeador/pineneedle/pkg/errors"
	"github.com/zachmeador/pineneedle/pkg/types"
)

// JobStore is durable CRUD for job postings in the active profile, one JSON
// file per record with a self-describing filename.
type JobStore struct {
	fs *FS
}

func NewJobStore(fs *FS) *JobStore {
	return &JobStore{fs: fs}
}

func (s *JobStore) dir() string {
	return s.fs.ProfilePath("job_postings")
}

var (
	nonWordChars = regexp.MustCompile(`[^a-z0-9\s_-]`)
	separators   = regexp.MustCompile(`[\s_-]+`)

	// Ids are the 14-digit timestamp or a caller-chosen token. Path and glob
	// metacharacters are rejected before any filename is built from them.
	validJobID = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)
)

// SanitizeFilename converts text to a filename-safe token: lowercase,
// non-alphanumerics dropped, runs of separators collapsed to one underscore.
// Idempotent; output contains only [a-z0-9_].
func SanitizeFilename(text string) string {
	sanitized := nonWordChars.ReplaceAllString(strings.ToLower(text), "")
	sanitized = separators.ReplaceAllString(sanitized, "_")
	sanitized = strings.Trim(sanitized, "_")
	if sanitized == "" {
		return "unknown"
	}
	return sanitized
}

// Filename derives the storage name: id_company_title_location.json.
// Location falls back to "remote" when the posting has none.
func Filename(posting types.JobPosting) string {
	location := posting.Location
	if location == "" {
		location = "remote"
	}
	return fmt.Sprintf("%s_%s_%s_%s.json",
		posting.ID,
		SanitizeFilename(posting.Company),
		SanitizeFilename(posting.Title),
		SanitizeFilename(location))
}

// Save persists the posting and returns its id. Writing an id that already
// has a file overwrites it; there is no merge.
func (s *JobStore) Save(posting types.JobPosting) (string, error) {
	path := filepath.Join(s.dir(), Filename(posting))
	if err := WriteJSON(path, posting); err != nil {
		return "", fmt.Errorf("failed to save job posting %s: %w", posting.ID, err)
	}
	return posting.ID, nil
}

// Load finds a posting by id: exact filename first for legacy records, then
// prefix match. An ambiguous prefix takes the first lexical match.
func (s *JobStore) Load(id string) (*types.JobPosting, error) {
	if !validJobID.MatchString(id) {
		return nil, errors.Input(id, "job posting id contains unsupported characters")
	}

	exact := filepath.Join(s.dir(), id+".json")
	if _, err := os.Stat(exact); err == nil {
		return s.readPosting(exact, id)
	}

	matches, err := filepath.Glob(filepath.Join(s.dir(), id+"_*.json"))
	if err != nil || len(matches) == 0 {
		return nil, errors.NotFound(id, "job posting does not exist")
	}
	sort.Strings(matches)
	return s.readPosting(matches[0], id)
}

func (s *JobStore) readPosting(path, id string) (*types.JobPosting, error) {
	var posting types.JobPosting
	if err := ReadJSON(path, &posting); err != nil {
		return nil, errors.Corrupt(id, fmt.Sprintf("job posting file failed to parse: %v", err))
	}
	return &posting, nil
}

// List returns all postings newest-first along with the number of corrupted
// files skipped. A bad record never aborts the enumeration.
func (s *JobStore) List() ([]types.JobPosting, int, error) {
	files, err := filepath.Glob(filepath.Join(s.dir(), "*.json"))
	if err != nil {
		return nil, 0, fmt.Errorf("failed to scan job postings: %w", err)
	}

	// Filenames start with the numeric id, so reverse lexical order is
	// newest-first.
	sort.Sort(sort.Reverse(sort.StringSlice(files)))

	postings := make([]types.JobPosting, 0, len(files))
	skipped := 0
	for _, file := range files {
		var posting types.JobPosting
		if err := ReadJSON(file, &posting); err != nil {
			slog.Warn("skipping unparseable job posting", "file", filepath.Base(file), "error", err)
			skipped++
			continue
		}
		if posting.CreatedAt == "" {
			posting.CreatedAt = backfillCreatedAt(file)
		}
		postings = append(postings, posting)
	}
	return postings, skipped, nil
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// backfillCreatedAt recovers a creation time for legacy records that predate
// the created_at field: the 14-digit filename id if present, else file mtime.
func backfillCreatedAt(path string) string {
	stem := strings.TrimSuffix(filepath.Base(path), ".json")
	idPart, _, _ := strings.Cut(stem, "_")
	if len(idPart) == 14 {
		if ts, err := time.ParseInLocation("20060102150405", idPart, time.Local); err == nil {
			return ts.Format(time.RFC3339)
		}
	}
	if info, err := os.Stat(path); err == nil {
		return info.ModTime().Format(time.RFC3339)
	}
	return ""
}

// Delete removes the posting's file(s). Resume versions referencing the id
// are left in place, orphaned but readable.
func (s *JobStore) Delete(id string) error {
	if !validJobID.MatchString(id) {
		return errors.Input(id, "job posting id contains unsupported characters")
	}

	matches, err := filepath.Glob(filepath.Join(s.dir(), id+"_*.json"))
	if err != nil {
		return fmt.Errorf("failed to scan job postings: %w", err)
	}
	if exact := filepath.Join(s.dir(), id+".json"); fileExists(exact) {
		matches = append(matches, exact)
	}
	if len(matches) == 0 {
		return errors.NotFound(id, "job posting does not exist")
	}
	for _, file := range matches {
		if err := os.Remove(file); err != nil {
			return fmt.Errorf("failed to delete job posting %s: %w", id, err)
		}
	}
	return nil
}
