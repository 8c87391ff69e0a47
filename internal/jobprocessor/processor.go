package jobprocessor

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/zachmeador/pineneedle/internal/archive"
	"github.com/zachmeador/pineneedle/internal/config"
	"github.com/zachmeador/pineneedle/internal/generator"
	"github.com/zachmeador/pineneedle/internal/llm"
	"github.com/zachmeador/pineneedle/internal/store"
	"github.com/zachmeador/pineneedle/internal/template"
	"github.com/zachmeador/pineneedle/pkg/types"
)

// ClientFactory builds a model client for a resolved config. Swappable so
// tests can run the full pipeline without network access.
type ClientFactory func(ctx context.Context, cfg types.ModelConfig) (llm.Client, error)

// Service wires storage, templates, the model clients, and the archive into
// the operations the front ends call. One Service serves one data root; the
// active profile can change over its lifetime.
type Service struct {
	env       config.Env
	fs        *store.FS
	jobs      *store.JobStore
	profiles  *store.ProfileStore
	tones     *store.ToneLibrary
	archive   *archive.Store
	templates *template.Engine
	renderer  archive.Renderer
	newClient ClientFactory
}

// New builds a Service rooted at env.DataDir and activates the profile the
// workspace config points at, creating the default workspace on first run.
func New(env config.Env, renderer archive.Renderer, newClient ClientFactory) (*Service, error) {
	fs := store.NewFS(env.DataDir)
	profiles := store.NewProfileStore(fs, env.DefaultModel)

	cfg, err := profiles.LoadConfig()
	if err != nil {
		return nil, err
	}
	if err := profiles.EnsureExamples(); err != nil {
		return nil, err
	}
	if err := profiles.Switch(cfg.CurrentProfile); err != nil {
		return nil, err
	}
	// A model pinned in config.json outranks the environment default.
	if cfg.DefaultModel.Provider != "" && cfg.DefaultModel.ModelName != "" {
		env.DefaultModel = cfg.DefaultModel
	}

	tones := store.NewToneLibrary(fs.DataPath("tones"))
	if err := tones.EnsureDefaults(); err != nil {
		return nil, err
	}

	s := &Service{
		env:       env,
		fs:        fs,
		jobs:      store.NewJobStore(fs),
		profiles:  profiles,
		tones:     tones,
		archive:   archive.NewStore(fs),
		templates: template.NewEngine(fs.ProfilePath("templates")),
		renderer:  renderer,
		newClient: newClient,
	}

	slog.Info("workspace ready", "data_dir", env.DataDir, "profile", fs.Profile())
	return s, nil
}

// =============== JOB POSTINGS ===============

// IngestPosting parses raw job-ad text through the model and persists the
// result. A nil model uses the workspace default.
func (s *Service) IngestPosting(ctx context.Context, raw string, model *types.ModelConfig) (*types.JobPosting, error) {
	client, err := s.client(ctx, s.resolveModel(model, nil))
	if err != nil {
		return nil, err
	}

	posting, err := llm.NewExtractor(client).ExtractJobPosting(ctx, raw, "")
	if err != nil {
		return nil, err
	}

	if _, err := s.jobs.Save(*posting); err != nil {
		return nil, err
	}
	return posting, nil
}

// ListPostings returns stored postings newest-first plus the count of
// unreadable files skipped.
func (s *Service) ListPostings() ([]types.JobPosting, int, error) {
	return s.jobs.List()
}

func (s *Service) LoadPosting(id string) (*types.JobPosting, error) {
	return s.jobs.Load(id)
}

// DeletePosting removes the posting record only. Archived resumes for the id
// survive until deleted explicitly.
func (s *Service) DeletePosting(id string) error {
	return s.jobs.Delete(id)
}

// =============== RESUME GENERATION ===============

// GenerateResume runs the full tailoring pipeline for a stored posting and
// archives the validated result. Returns the archived resume path alongside
// the content.
func (s *Service) GenerateResume(ctx context.Context, req types.GenerationRequest, templateName string) (*types.ResumeContent, string, error) {
	logger := slog.With("component", "processor", "operation", "generate_resume", "job_id", req.JobPostingID)

	posting, err := s.jobs.Load(req.JobPostingID)
	if err != nil {
		return nil, "", err
	}

	if templateName == "" {
		templateName = "default"
	}
	tmpl, err := s.templates.Load(templateName)
	if err != nil {
		return nil, "", err
	}

	background := store.LoadUserBackground(s.fs)
	tone, toneModel := s.resolveTone(req.Tone)
	modelCfg := s.resolveModel(req.ModelConfig, toneModel)

	client, err := s.client(ctx, modelCfg)
	if err != nil {
		return nil, "", err
	}

	content, iterations, err := generator.New(client).Generate(ctx, generator.Deps{
		JobPosting:   *posting,
		Background:   background,
		Template:     tmpl,
		Tone:         tone,
		UserFeedback: req.UserFeedback,
	})
	if err != nil {
		return nil, "", err
	}

	path, err := s.archive.Archive(*posting, *content, req, modelCfg, iterations)
	if err != nil {
		return nil, "", err
	}

	logger.Info("resume generated",
		"company", posting.Company,
		"title", posting.Title,
		"iterations", iterations,
		"path", path)
	return content, path, nil
}

// resolveTone maps a requested tone name through the tone library. Library
// hits use the stored description and may carry a model override; unknown
// names pass through as free-form tone text.
func (s *Service) resolveTone(name string) (string, *types.ModelConfig) {
	if name == "" {
		return "", nil
	}
	tone, ok := s.tones.Get(name)
	if !ok {
		return name, nil
	}
	var override *types.ModelConfig
	if tone.ModelProvider != "" && tone.ModelName != "" {
		override = &types.ModelConfig{
			Provider:    tone.ModelProvider,
			ModelName:   tone.ModelName,
			Temperature: s.env.DefaultModel.Temperature,
		}
	}
	return tone.Description, override
}

// resolveModel picks the model config: explicit request, then tone override,
// then the workspace default.
func (s *Service) resolveModel(explicit, toneOverride *types.ModelConfig) types.ModelConfig {
	if explicit != nil {
		return *explicit
	}
	if toneOverride != nil {
		return *toneOverride
	}
	return s.env.DefaultModel
}

func (s *Service) client(ctx context.Context, cfg types.ModelConfig) (llm.Client, error) {
	if s.newClient != nil {
		return s.newClient(ctx, cfg)
	}
	return llm.New(ctx, cfg)
}

// =============== ARCHIVE & EXPORT ===============

func (s *Service) ListVersions(jobID string) ([]archive.Version, error) {
	return s.archive.ListVersions(jobID)
}

func (s *Service) GetVersion(jobID, timestamp string) (string, error) {
	return s.archive.GetVersion(jobID, timestamp)
}

func (s *Service) LoadVersionMetadata(jobID, timestamp string) (*types.ResumeArchive, error) {
	return s.archive.LoadMetadata(jobID, timestamp)
}

func (s *Service) DeleteVersion(jobID, timestamp string) error {
	return s.archive.DeleteVersion(jobID, timestamp)
}

func (s *Service) DeleteAllVersions(jobID string) error {
	return s.archive.DeleteAllVersions(jobID)
}

// ExportPDF renders an archived resume version to PDF. Timestamp "" exports
// the latest version; force re-renders even when a PDF already exists.
func (s *Service) ExportPDF(ctx context.Context, jobID, timestamp, style string, force bool) (*archive.ExportResult, error) {
	if s.renderer == nil {
		return nil, fmt.Errorf("no pdf renderer configured")
	}
	return s.archive.ExportPDF(ctx, s.renderer, jobID, timestamp, style, force)
}

// =============== PROFILES & WORKSPACE ===============

func (s *Service) CurrentProfile() (types.ProfileInfo, error) {
	return s.profiles.Current()
}

func (s *Service) ListProfiles() ([]types.ProfileInfo, error) {
	return s.profiles.List()
}

func (s *Service) CreateProfile(name, displayName, description string) error {
	return s.profiles.Create(name, displayName, description)
}

// SwitchProfile activates another profile. Profile-relative components are
// rebound to the new paths.
func (s *Service) SwitchProfile(name string) error {
	if err := s.profiles.Switch(name); err != nil {
		return err
	}
	s.templates = template.NewEngine(s.fs.ProfilePath("templates"))
	return nil
}

func (s *Service) DeleteProfile(name string) error {
	if err := s.profiles.Delete(name); err != nil {
		return err
	}
	s.templates = template.NewEngine(s.fs.ProfilePath("templates"))
	return nil
}

// ListTones returns the workspace tone library plus the count of unreadable
// tone files skipped.
func (s *Service) ListTones() ([]types.Tone, int) {
	return s.tones.Load()
}
