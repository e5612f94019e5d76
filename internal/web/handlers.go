package web

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/KaramelBytes/conectividad/internal/dataset"
	"github.com/KaramelBytes/conectividad/internal/export"
	"github.com/KaramelBytes/conectividad/internal/filter"
	"github.com/KaramelBytes/conectividad/internal/markers"
	"github.com/KaramelBytes/conectividad/internal/rubric"
	"github.com/KaramelBytes/conectividad/internal/session"
	"github.com/gorilla/mux"
)

const maxBodyBytes = 1 << 20

type sessionResponse struct {
	ID        string           `json:"id"`
	Options   dataset.Options  `json:"options"`
	Selection filter.Selection `json:"selection"`
	Layer     markers.Layer    `json:"layer"`
}

type rubricResponse struct {
	Intro    string         `json:"intro"`
	Entries  []rubric.Entry `json:"entries"`
	MaxScore int            `json:"max_score"`
}

type healthResponse struct {
	Status   string `json:"status"`
	Dataset  string `json:"dataset"`
	Loaded   int    `json:"loaded"`
	Sites    int    `json:"sites"`
	Sessions int    `json:"sessions"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	data := s.store.Dataset()
	writeJSON(w, http.StatusOK, healthResponse{
		Status:   "ok",
		Dataset:  data.Name,
		Loaded:   data.Loaded,
		Sites:    data.Table.Len(),
		Sessions: s.store.Len(),
	})
}

func (s *Server) handleOptions(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.store.Dataset().Options)
}

func (s *Server) handleRubric(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, rubricResponse{
		Intro:    rubric.Intro,
		Entries:  rubric.Entries(),
		MaxScore: rubric.MaxScore(),
	})
}

func (s *Server) handleCreateSession(w http.ResponseWriter, _ *http.Request) {
	sess := s.store.Create()
	snap, err := sess.Snapshot()
	if err != nil {
		s.internalError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, sessionResponse{
		ID:        sess.ID,
		Options:   s.store.Dataset().Options,
		Selection: snap.Selection,
		Layer:     snap.Layer,
	})
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.lookup(w, r)
	if !ok {
		return
	}
	snap, err := sess.Snapshot()
	if err != nil {
		s.internalError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

func (s *Server) handleUpdateSelection(w http.ResponseWriter, r *http.Request) {
	var c session.Change
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&c); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid body: %v", err))
		return
	}
	snap, err := s.store.Update(mux.Vars(r)["id"], c)
	switch {
	case errors.Is(err, session.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, markers.ErrUnknownLayer):
		writeError(w, http.StatusBadRequest, err.Error())
	case err != nil:
		s.internalError(w, err)
	default:
		writeJSON(w, http.StatusOK, snap)
	}
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.lookup(w, r)
	if !ok {
		return
	}
	s.store.Delete(sess.ID)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.lookup(w, r)
	if !ok {
		return
	}
	b, err := sess.ExportXLSX()
	if err != nil {
		s.internalError(w, err)
		return
	}
	w.Header().Set("Content-Type", export.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", export.FileName))
	w.Header().Set("Content-Length", strconv.Itoa(len(b)))
	_, _ = w.Write(b)
}

func (s *Server) handleChart(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.lookup(w, r)
	if !ok {
		return
	}
	var buf bytes.Buffer
	if err := sess.Chart(&buf); err != nil {
		s.internalError(w, err)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-store")
	_, _ = w.Write(buf.Bytes())
}

func (s *Server) lookup(w http.ResponseWriter, r *http.Request) (*session.Session, bool) {
	sess, err := s.store.Get(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return nil, false
	}
	return sess, true
}

func (s *Server) internalError(w http.ResponseWriter, err error) {
	slog.Error("request failed", "err", err)
	writeError(w, http.StatusInternalServerError, "internal server error")
}
