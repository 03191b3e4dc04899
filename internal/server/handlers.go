package server

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/hyperjump/kensho/internal/models"
)

func (s *Server) handleVerify(w http.ResponseWriter, r *http.Request) {
	var article models.Article
	if err := json.NewDecoder(r.Body).Decode(&article); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if article.Title == "" && article.Content == "" {
		s.respondError(w, http.StatusBadRequest, "article title or content is required")
		return
	}
	s.logger.Debug("verify request", zap.String("title", article.Title), zap.String("source", article.Source))
	verification, err := s.engine.Verify(r.Context(), &article)
	if err != nil {
		s.logger.Error("verification failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.respondJSON(w, http.StatusOK, verification)
}

type citationRequest struct {
	Citing     string `json:"citing"`
	Cited      string `json:"cited"`
	ArticleURL string `json:"article_url,omitempty"`
}

func (s *Server) handleAddCitation(w http.ResponseWriter, r *http.Request) {
	var req citationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Citing == "" || req.Cited == "" {
		s.respondError(w, http.StatusBadRequest, "citing and cited are required")
		return
	}
	edge := s.graph.AddCitation(r.Context(), req.Citing, req.Cited, req.ArticleURL)
	s.respondJSON(w, http.StatusCreated, edge)
}

func (s *Server) handleTrustScore(w http.ResponseWriter, r *http.Request) {
	source := chi.URLParam(r, "source")
	score := s.graph.TrustScore(r.Context(), source)
	s.respondJSON(w, http.StatusOK, map[string]interface{}{
		"source":      source,
		"trust_score": score,
	})
}

func (s *Server) handleCircular(w http.ResponseWriter, r *http.Request) {
	source := chi.URLParam(r, "source")
	s.respondJSON(w, http.StatusOK, s.graph.DetectCircular(r.Context(), source))
}

func (s *Server) handleNetwork(w http.ResponseWriter, r *http.Request) {
	source := chi.URLParam(r, "source")
	depth := 2
	if v := r.URL.Query().Get("depth"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			s.respondError(w, http.StatusBadRequest, "depth must be a positive integer")
			return
		}
		depth = n
	}
	s.respondJSON(w, http.StatusOK, s.graph.Network(r.Context(), source, depth))
}

func (s *Server) handleEchoChambers(w http.ResponseWriter, r *http.Request) {
	chambers := s.graph.EchoChambers()
	s.respondJSON(w, http.StatusOK, map[string]interface{}{
		"echo_chambers": chambers,
		"count":         len(chambers),
	})
}

type claimRequest struct {
	Text       string `json:"text"`
	Source     string `json:"source"`
	ArticleURL string `json:"article_url,omitempty"`
}

func (s *Server) handleAddClaim(w http.ResponseWriter, r *http.Request) {
	var req claimRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Text == "" || req.Source == "" {
		s.respondError(w, http.StatusBadRequest, "text and source are required")
		return
	}
	claim := s.timeline.AddClaim(r.Context(), req.Text, req.Source, req.ArticleURL)
	s.respondJSON(w, http.StatusCreated, claim)
}

func (s *Server) handleTimeline(w http.ResponseWriter, r *http.Request) {
	source := chi.URLParam(r, "source")
	claims := s.timeline.SourceTimeline(source)
	s.respondJSON(w, http.StatusOK, map[string]interface{}{
		"source": source,
		"claims": claims,
		"count":  len(claims),
	})
}

func (s *Server) handleNarrativeShift(w http.ResponseWriter, r *http.Request) {
	source := chi.URLParam(r, "source")
	days := 0
	if v := r.URL.Query().Get("days"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			s.respondError(w, http.StatusBadRequest, "days must be a positive integer")
			return
		}
		days = n
	}
	s.respondJSON(w, http.StatusOK, s.timeline.NarrativeShift(source, days))
}

func (s *Server) handleFlagged(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			s.respondError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = n
	}
	entries := s.engine.Flagged().Recent(limit)
	s.respondJSON(w, http.StatusOK, map[string]interface{}{
		"flagged": entries,
		"count":   len(entries),
	})
}

func (s *Server) handleFlaggedStats(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, s.engine.Flagged().Stats())
}

func (s *Server) handleAddVerdict(w http.ResponseWriter, r *http.Request) {
	if s.verdicts == nil {
		s.respondError(w, http.StatusNotImplemented, "verdict index not enabled")
		return
	}
	var verdict models.Verdict
	if err := json.NewDecoder(r.Body).Decode(&verdict); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if verdict.Title == "" || verdict.Verdict == "" {
		s.respondError(w, http.StatusBadRequest, "title and verdict are required")
		return
	}
	if err := s.verdicts.Add(r.Context(), &verdict); err != nil {
		s.logger.Error("verdict indexing failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.respondJSON(w, http.StatusCreated, map[string]string{"id": verdict.ID, "status": "recorded"})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	resp := map[string]interface{}{
		"sources":        s.graph.Sources(),
		"citation_edges": s.graph.EdgeCount(),
		"claims":         s.timeline.TotalClaims(),
		"flagged":        s.engine.Flagged().Len(),
	}
	if s.verdicts != nil {
		if count, err := s.verdicts.Count(); err == nil {
			resp["verdicts"] = count
		}
	}
	s.respondJSON(w, http.StatusOK, resp)
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func (s *Server) respondError(w http.ResponseWriter, status int, message string) {
	s.respondJSON(w, status, map[string]string{"error": message})
}
