package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"poe2/pickit/internal/catalog"
	"poe2/pickit/internal/config"
	"poe2/pickit/internal/domain"
	"poe2/pickit/internal/output"
	"poe2/pickit/internal/source"
	"poe2/pickit/internal/store"

	log "github.com/sirupsen/logrus"
)

type categoriesResponse struct {
	Ninja  []domain.CategoryInfo  `json:"ninja"`
	Scout  []domain.CategoryInfo  `json:"scout"`
	Static []catalog.CategoryInfo `json:"static"`
}

type generateResponse struct {
	Success    bool     `json:"success"`
	Result     string   `json:"result"`
	Logs       []string `json:"logs"`
	TotalItems int      `json:"totalItems"`
	DownloadID string   `json:"downloadId,omitempty"`
}

type errorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

type pageSource struct {
	Type       domain.SourceType
	Name       string
	Prefix     string
	Categories []domain.CategoryInfo
}

type pageData struct {
	Sources  []pageSource
	Static   []catalog.CategoryInfo
	Defaults config.DefaultsConfig
	FileName string
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	data := pageData{
		Static:   s.service.Catalog().Infos(),
		Defaults: s.defaults,
		FileName: output.FileName,
	}
	for _, src := range s.service.Sources() {
		data.Sources = append(data.Sources, pageSource{
			Type:       src.Type(),
			Name:       src.Name(),
			Prefix:     src.Type().FormPrefix(),
			Categories: source.CategoryInfos(src),
		})
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.page.Execute(w, data); err != nil {
		log.Errorf("❌ Failed to render form: %v", err)
	}
}

func (s *Server) handleCategories(w http.ResponseWriter, r *http.Request) {
	resp := categoriesResponse{
		Ninja:  []domain.CategoryInfo{},
		Scout:  []domain.CategoryInfo{},
		Static: s.service.Catalog().Infos(),
	}
	for _, src := range s.service.Sources() {
		switch src.Type() {
		case domain.SourceTypeNinja:
			resp.Ninja = source.CategoryInfos(src)
		case domain.SourceTypeScout:
			resp.Scout = source.CategoryInfos(src)
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	opts, err := parseRunOptions(r, s.service.Sources(), s.service.Catalog(), s.defaults)
	if err != nil {
		writeError(w, err)
		return
	}

	result, err := s.service.Process(r.Context(), opts)
	if err != nil {
		log.Errorf("❌ Error processing request: %v", err)
		writeError(w, err)
		return
	}

	resp := generateResponse{
		Success:    true,
		Result:     result.Result,
		Logs:       result.Logs,
		TotalItems: result.TotalItems,
	}
	if result.Downloadable {
		resp.DownloadID = result.RunID
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleDownload(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	doc, err := s.service.Download(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			http.Error(w, "document not found or expired", http.StatusNotFound)
			return
		}
		log.Errorf("❌ Failed to load document %s: %v", id, err)
		http.Error(w, "failed to load document", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+output.FileName+`"`)
	_, _ = w.Write([]byte(doc))
}

func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	var validationErr *domain.ValidationError
	if errors.As(err, &validationErr) {
		status = http.StatusBadRequest
	}
	writeJSON(w, status, errorResponse{Success: false, Error: err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Warnf("⚠ Failed to write response: %v", err)
	}
}
