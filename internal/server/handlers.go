package server

import (
	"fmt"
	"mime"
	"net/http"
	"strconv"

	"github.com/c4-modeller/engine/internal/codec"
	"github.com/c4-modeller/engine/internal/diagram"
	"github.com/c4-modeller/engine/internal/exchange"
	"github.com/c4-modeller/engine/internal/result"
	"github.com/c4-modeller/engine/internal/templates"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleGetModel(w http.ResponseWriter, r *http.Request) {
	data, err := codec.Serialize(s.store.ExportModel())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write(data)
}

type importSummary struct {
	Format        string           `json:"format"`
	Metadata      diagram.Metadata `json:"metadata"`
	Elements      int              `json:"elements"`
	Relationships int              `json:"relationships"`
}

func (s *Server) replaceModel(w http.ResponseWriter, snap diagram.Snapshot, format string) {
	s.store.ImportModel(snap)
	s.writeJSON(w, http.StatusOK, importSummary{
		Format:        format,
		Metadata:      s.store.Metadata(),
		Elements:      snap.Len(),
		Relationships: len(snap.Relationships),
	})
}

// handlePutModel replaces the model with a native JSON document.
func (s *Server) handlePutModel(w http.ResponseWriter, r *http.Request) {
	data, err := readBody(w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	snap, err := codec.Deserialize(data)
	s.observeImport(exchange.FormatJSON, err)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.replaceModel(w, snap, exchange.FormatJSON)
}

// handleImport replaces the model with native or Structurizr JSON. The
// format is detected unless ?format= names one.
func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	data, err := readBody(w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	format := r.URL.Query().Get("format")
	var snap diagram.Snapshot
	if format == "" || format == "auto" {
		snap, format, err = exchange.Import(data)
	} else {
		snap, err = exchange.ImportAs(data, format)
	}
	s.observeImport(format, err)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.log.Info("model imported over http", "format", format, "entities", snap.Len())
	s.replaceModel(w, snap, format)
}

func (s *Server) observeImport(format string, err error) {
	if s.metrics != nil {
		s.metrics.ObserveImport(format, err)
	}
}

func (s *Server) handleClearModel(w http.ResponseWriter, r *http.Request) {
	s.store.ClearAll()
	w.WriteHeader(http.StatusNoContent)
}

type levelBody struct {
	Level diagram.Level `json:"level"`
}

func (s *Server) handleGetLevel(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, levelBody{Level: s.store.CurrentLevel()})
}

func (s *Server) handlePutLevel(w http.ResponseWriter, r *http.Request) {
	var body levelBody
	if err := decodeJSON(w, r, &body); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := s.store.SetCurrentLevel(body.Level); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, levelBody{Level: s.store.CurrentLevel()})
}

func (s *Server) handleGetMetadata(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.store.Metadata())
}

func (s *Server) handlePutMetadata(w http.ResponseWriter, r *http.Request) {
	var m diagram.Metadata
	if err := decodeJSON(w, r, &m); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := s.store.SetMetadata(m); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, s.store.Metadata())
}

type entityList struct {
	Level    diagram.Level    `json:"level"`
	Entities []diagram.Entity `json:"entities"`
}

func (s *Server) handleListEntities(w http.ResponseWriter, r *http.Request) {
	visible := false
	if v := r.URL.Query().Get("visible"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			s.writeError(w, r, &diagram.ValidationError{Field: "visible", Msg: "must be a boolean"})
			return
		}
		visible = b
	}
	entities := s.store.AllEntities()
	if visible {
		entities = s.store.VisibleEntities()
	}
	s.writeJSON(w, http.StatusOK, entityList{Level: s.store.CurrentLevel(), Entities: entities})
}

func (s *Server) handleAddEntity(w http.ResponseWriter, r *http.Request) {
	t, err := diagram.ParseEntityType(r.PathValue("type"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	p, err := diagram.DecodeEntityPatch(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	e, err := s.store.AddEntity(t, p)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, e)
}

// entityOfType returns the entity with id, which must have type t.
func (s *Server) entityOfType(t diagram.EntityType, id string) (diagram.Entity, error) {
	e, err := s.store.EntityByID(id)
	if err != nil {
		return diagram.Entity{}, err
	}
	if e.Type != t {
		return diagram.Entity{}, fmt.Errorf("%s %q: %w", t, id, diagram.ErrNotFound)
	}
	return e, nil
}

func (s *Server) handleUpdateEntity(w http.ResponseWriter, r *http.Request) {
	t, err := diagram.ParseEntityType(r.PathValue("type"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	id := r.PathValue("id")
	if _, err := s.entityOfType(t, id); err != nil {
		s.writeError(w, r, err)
		return
	}
	p, err := diagram.DecodeEntityPatch(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := s.store.UpdateEntity(t, id, p); err != nil {
		s.writeError(w, r, err)
		return
	}
	e, err := s.store.EntityByID(id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, e)
}

// handleDeleteEntity is idempotent: deleting a missing entity succeeds.
func (s *Server) handleDeleteEntity(w http.ResponseWriter, r *http.Request) {
	t, err := diagram.ParseEntityType(r.PathValue("type"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := s.store.DeleteEntity(t, r.PathValue("id")); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleListRelationships(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.store.Relationships())
}

func (s *Server) handleAddRelationship(w http.ResponseWriter, r *http.Request) {
	p, err := diagram.DecodeRelationshipPatch(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if p.From == nil || p.To == nil {
		s.writeError(w, r, &diagram.ValidationError{Field: "from/to", Msg: "both endpoints are required"})
		return
	}
	rel, err := s.store.AddRelationship(p)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, rel)
}

func (s *Server) handleUpdateRelationship(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if _, err := s.store.RelationshipByID(id); err != nil {
		s.writeError(w, r, err)
		return
	}
	p, err := diagram.DecodeRelationshipPatch(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := s.store.UpdateRelationship(id, p); err != nil {
		s.writeError(w, r, err)
		return
	}
	rel, err := s.store.RelationshipByID(id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, rel)
}

func (s *Server) handleDeleteRelationship(w http.ResponseWriter, r *http.Request) {
	s.store.DeleteRelationship(r.PathValue("id"))
	w.WriteHeader(http.StatusNoContent)
}

type selectionBody struct {
	ElementID string `json:"elementId,omitempty"`
	EdgeID    string `json:"edgeId,omitempty"`
}

func (s *Server) handleGetSelection(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.store.Selection())
}

// handlePutSelection selects an element or an edge; an empty body object
// clears the selection.
func (s *Server) handlePutSelection(w http.ResponseWriter, r *http.Request) {
	var body selectionBody
	if err := decodeJSON(w, r, &body); err != nil {
		s.writeError(w, r, err)
		return
	}
	var err error
	switch {
	case body.ElementID != "" && body.EdgeID != "":
		err = &diagram.ValidationError{Field: "selection", Msg: "select an element or an edge, not both"}
	case body.ElementID != "":
		err = s.store.SelectElement(body.ElementID)
	case body.EdgeID != "":
		err = s.store.SelectEdge(body.EdgeID)
	default:
		s.store.ClearSelection()
	}
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, s.store.Selection())
}

type validateBody struct {
	Level    diagram.Level    `json:"level"`
	Warnings []result.Warning `json:"warnings"`
	Counts   result.Counts    `json:"counts"`
}

func (s *Server) handleValidate(w http.ResponseWriter, r *http.Request) {
	ws := s.store.ValidateModel()
	s.writeJSON(w, http.StatusOK, validateBody{
		Level:    s.store.CurrentLevel(),
		Warnings: ws,
		Counts:   result.Count(ws),
	})
}

// handleExport returns the model as a download in the named format.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	f, err := exchange.Lookup(r.PathValue("format"))
	if err != nil {
		s.writeJSON(w, http.StatusNotFound, errorBody{Error: err.Error()})
		return
	}
	snap := s.store.ExportModel()
	data, err := f.Render(snap)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if s.metrics != nil {
		s.metrics.ObserveExport(f.Name)
	}
	name := exchange.FileName(snap.Metadata.Name, f)
	w.Header().Set("Content-Type", f.ContentType)
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": name}))
	w.Write(data)
}

func (s *Server) handleListTemplates(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, templates.Names())
}

func (s *Server) handleApplyTemplate(w http.ResponseWriter, r *http.Request) {
	key := r.PathValue("key")
	if !templates.Has(key) {
		s.writeError(w, r, fmt.Errorf("template %q: %w", key, diagram.ErrNotFound))
		return
	}
	s.replaceModel(w, templates.Get(key), "template")
}
