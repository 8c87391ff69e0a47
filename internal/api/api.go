package api

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/zachmeador/pineneedle/internal/jobprocessor"
	"github.com/zachmeador/pineneedle/pkg/types"
)

// Server is the local HTTP front end over the processing service. It binds
// loopback-style usage; there is no auth layer.
type Server struct {
	port int
	svc  *jobprocessor.Service
}

func NewServer(port int, svc *jobprocessor.Service) *Server {
	return &Server{port: port, svc: svc}
}

func enableCORS(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next(w, r)
	}
}

func chain(h http.HandlerFunc, methods ...string) http.HandlerFunc {
	return RequestID(Logger(Recover(enableCORS(MethodChecker(methods...)(h)))))
}

func (s *Server) Start() error {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/postings", chain(s.handlePostings, http.MethodGet, http.MethodPost))
	mux.HandleFunc("/api/postings/delete", chain(s.handleDeletePosting, http.MethodPost))
	mux.HandleFunc("/api/generate", chain(s.handleGenerate, http.MethodPost))
	mux.HandleFunc("/api/versions", chain(s.handleVersions, http.MethodGet))
	mux.HandleFunc("/api/versions/delete", chain(s.handleDeleteVersion, http.MethodPost))
	mux.HandleFunc("/api/export", chain(s.handleExport, http.MethodPost))
	mux.HandleFunc("/api/profiles", chain(s.handleProfiles, http.MethodGet, http.MethodPost))
	mux.HandleFunc("/api/profiles/switch", chain(s.handleSwitchProfile, http.MethodPost))

	addr := fmt.Sprintf(":%d", s.port)
	slog.Info("Starting API server", "port", s.port)
	return http.ListenAndServe(addr, mux)
}

// handlePostings ingests on POST, lists on GET.
func (s *Server) handlePostings(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodGet {
		postings, skipped, err := s.svc.ListPostings()
		if err != nil {
			RespondWithError(w, r, err)
			return
		}
		RespondWithJSON(w, http.StatusOK, map[string]any{
			"postings": postings,
			"skipped":  skipped,
		})
		return
	}

	var request struct {
		RawContent string             `json:"raw_content"`
		Model      *types.ModelConfig `json:"model,omitempty"`
	}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		RespondWithJSON(w, http.StatusBadRequest, errorBody(r, "invalid request body"))
		return
	}

	posting, err := s.svc.IngestPosting(r.Context(), request.RawContent, request.Model)
	if err != nil {
		RespondWithError(w, r, err)
		return
	}
	RespondWithJSON(w, http.StatusCreated, posting)
}

func (s *Server) handleDeletePosting(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("id")
	if id == "" {
		RespondWithJSON(w, http.StatusBadRequest, errorBody(r, "no posting id provided"))
		return
	}
	if err := s.svc.DeletePosting(id); err != nil {
		RespondWithError(w, r, err)
		return
	}
	RespondWithJSON(w, http.StatusOK, map[string]string{"deleted": id})
}

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	var request struct {
		types.GenerationRequest
		Template string `json:"template,omitempty"`
	}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		RespondWithJSON(w, http.StatusBadRequest, errorBody(r, "invalid request body"))
		return
	}
	if request.JobPostingID == "" {
		RespondWithJSON(w, http.StatusBadRequest, errorBody(r, "no job posting id provided"))
		return
	}

	content, path, err := s.svc.GenerateResume(r.Context(), request.GenerationRequest, request.Template)
	if err != nil {
		RespondWithError(w, r, err)
		return
	}
	RespondWithJSON(w, http.StatusOK, map[string]any{
		"resume": content,
		"path":   path,
	})
}

func (s *Server) handleVersions(w http.ResponseWriter, r *http.Request) {
	jobID := r.URL.Query().Get("job_id")
	if jobID == "" {
		RespondWithJSON(w, http.StatusBadRequest, errorBody(r, "no job id provided"))
		return
	}
	versions, err := s.svc.ListVersions(jobID)
	if err != nil {
		RespondWithError(w, r, err)
		return
	}
	RespondWithJSON(w, http.StatusOK, versions)
}

func (s *Server) handleDeleteVersion(w http.ResponseWriter, r *http.Request) {
	jobID := r.URL.Query().Get("job_id")
	if jobID == "" {
		RespondWithJSON(w, http.StatusBadRequest, errorBody(r, "no job id provided"))
		return
	}

	var err error
	if timestamp := r.URL.Query().Get("version"); timestamp != "" {
		err = s.svc.DeleteVersion(jobID, timestamp)
	} else {
		err = s.svc.DeleteAllVersions(jobID)
	}
	if err != nil {
		RespondWithError(w, r, err)
		return
	}
	RespondWithJSON(w, http.StatusOK, map[string]string{"deleted": jobID})
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	var request struct {
		JobID   string `json:"job_id"`
		Version string `json:"version,omitempty"`
		Style   string `json:"style,omitempty"`
		Force   bool   `json:"force,omitempty"`
	}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		RespondWithJSON(w, http.StatusBadRequest, errorBody(r, "invalid request body"))
		return
	}
	if request.JobID == "" {
		RespondWithJSON(w, http.StatusBadRequest, errorBody(r, "no job id provided"))
		return
	}
	if request.Style == "" {
		request.Style = "professional"
	}

	result, err := s.svc.ExportPDF(r.Context(), request.JobID, request.Version, request.Style, request.Force)
	if err != nil {
		RespondWithError(w, r, err)
		return
	}
	RespondWithJSON(w, http.StatusOK, map[string]any{
		"path":       result.Path,
		"size_bytes": result.SizeBytes,
		"reused":     result.Reused,
	})
}

// handleProfiles lists on GET, creates on POST.
func (s *Server) handleProfiles(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodGet {
		profiles, err := s.svc.ListProfiles()
		if err != nil {
			RespondWithError(w, r, err)
			return
		}
		current, err := s.svc.CurrentProfile()
		if err != nil {
			RespondWithError(w, r, err)
			return
		}
		RespondWithJSON(w, http.StatusOK, map[string]any{
			"profiles": profiles,
			"current":  current.Name,
		})
		return
	}

	var request struct {
		Name        string `json:"name"`
		DisplayName string `json:"display_name,omitempty"`
		Description string `json:"description,omitempty"`
	}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		RespondWithJSON(w, http.StatusBadRequest, errorBody(r, "invalid request body"))
		return
	}
	if request.DisplayName == "" {
		request.DisplayName = request.Name
	}

	if err := s.svc.CreateProfile(request.Name, request.DisplayName, request.Description); err != nil {
		RespondWithError(w, r, err)
		return
	}
	RespondWithJSON(w, http.StatusCreated, map[string]string{"created": request.Name})
}

func (s *Server) handleSwitchProfile(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("name")
	if name == "" {
		RespondWithJSON(w, http.StatusBadRequest, errorBody(r, "no profile name provided"))
		return
	}
	if err := s.svc.SwitchProfile(name); err != nil {
		RespondWithError(w, r, err)
		return
	}
	RespondWithJSON(w, http.StatusOK, map[string]string{"current": name})
}
