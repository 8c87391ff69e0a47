package types

// =============== JOB POSTING TYPES ===============

// JobPostingContent is what the model extracts from raw job-ad text.
// It carries no identity; the system wraps it into a JobPosting.
type JobPostingContent struct {
	Title                string   `json:"title"`
	Company              string   `json:"company"`
	Location             string   `json:"location,omitempty"`
	Requirements         []string `json:"requirements"`
	Responsibilities     []string `json:"responsibilities"`
	Keywords             []string `json:"keywords"`
	ToneReasoning        string   `json:"tone_reasoning"`
	Pay                  string   `json:"pay,omitempty"`
	Industry             string   `json:"industry"`
	PracticalDescription string   `json:"practical_description"`
}

// JobPosting is the persisted record: extracted content plus system metadata.
// ID is a 14-digit numeric timestamp and is immutable once assigned.
type JobPosting struct {
	JobPostingContent
	ID            string `json:"id"`
	CreatedAt     string `json:"created_at"`
	RawContent    string `json:"raw_content"`
	ModelProvider string `json:"model_provider"`
	ModelName     string `json:"model_name"`
}

// NewJobPosting stamps extracted content with system metadata.
func NewJobPosting(content JobPostingContent, id, createdAt, provider, model, raw string) JobPosting {
	return JobPosting{
		JobPostingContent: content,
		ID:                id,
		CreatedAt:         createdAt,
		RawContent:        raw,
		ModelProvider:     provider,
		ModelName:         model,
	}
}

// =============== BACKGROUND & TEMPLATE TYPES ===============

// UserBackground holds the raw markdown blobs from the profile's background
// directory. Missing files resolve to empty strings, never an error.
type UserBackground struct {
	ExperienceMD string `json:"experience_md"`
	EducationMD  string `json:"education_md"`
	ContactMD    string `json:"contact_md"`
	ReferenceMD  string `json:"reference_md"`
}

// TemplateSection declares one section of the resume contract.
type TemplateSection struct {
	Name        string `json:"name" yaml:"name"`
	DisplayName string `json:"display_name" yaml:"display_name"`
	Required    bool   `json:"required" yaml:"required"`
	Format      string `json:"format" yaml:"format"`
	MinLength   int    `json:"min_length" yaml:"min_length"`
	MaxLength   int    `json:"max_length,omitempty" yaml:"max_length,omitempty"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
}

// TemplateSchema is the set of sections a generated resume must satisfy.
// Section names are unique within a schema.
type TemplateSchema struct {
	Sections []TemplateSection `json:"sections" yaml:"sections"`
}

// Template pairs raw markdown content with its section schema.
type Template struct {
	Name    string
	Content string
	Schema  TemplateSchema
}

// =============== GENERATION TYPES ===============

// ModelConfig selects a provider/model pair for an LLM call.
type ModelConfig struct {
	Provider    string  `json:"provider"`
	ModelName   string  `json:"model_name"`
	Temperature float32 `json:"temperature"`
}

// GenerationRequest carries the parameters of one resume generation.
type GenerationRequest struct {
	JobPostingID string       `json:"job_posting_id"`
	Tone         string       `json:"tone,omitempty"`
	ModelConfig  *ModelConfig `json:"llm_config,omitempty"`
	UserFeedback string       `json:"user_feedback,omitempty"`
}

// ResumeContent is a generated resume. Sections is populated only after
// validation passes; never trust it before that.
type ResumeContent struct {
	ResumeMarkdown string            `json:"resume_markdown"`
	Sections       map[string]string `json:"sections,omitempty"`
}

// ResumeArchive is one immutable, timestamped generation snapshot.
type ResumeArchive struct {
	JobPostingID      string            `json:"job_posting_id"`
	JobPosting        JobPosting        `json:"job_posting"`
	GenerationRequest GenerationRequest `json:"generation_request"`
	ResumeContent     ResumeContent     `json:"resume_content"`
	CreatedAt         string            `json:"created_at"`
	ModelUsed         ModelConfig       `json:"model_used"`
	IterationCount    int               `json:"iteration_count"`
}

// =============== WORKSPACE TYPES ===============

// ProfileInfo describes a registered profile.
type ProfileInfo struct {
	Name        string `json:"name"`
	DisplayName string `json:"display_name"`
	Description string `json:"description,omitempty"`
	CreatedAt   string `json:"created_at"`
}

// WorkspaceConfig is the workspace-level config.json: the active profile
// pointer, the registered profiles, and the default model.
type WorkspaceConfig struct {
	CurrentProfile string                 `json:"current_profile"`
	Profiles       map[string]ProfileInfo `json:"profiles"`
	DefaultModel   ModelConfig            `json:"default_model"`
}

// Tone is a reusable style instruction for the generator.
type Tone struct {
	Name          string `yaml:"name"`
	Description   string `yaml:"description"`
	ModelProvider string `yaml:"model_provider,omitempty"`
	ModelName     string `yaml:"model_name,omitempty"`
}

// PDFRecord links a resume version + style to a rendered file, so re-exports
// can be detected without regenerating.
type PDFRecord struct {
	ResumeFilename string `json:"resume_filename"`
	Style          string `json:"style"`
	PDFFilename    string `json:"pdf_filename"`
	GeneratedAt    string `json:"generated_at"`
	SizeBytes      int64  `json:"size_bytes"`
}
