package fakeapi

import (
	"errors"
	"net/http"
	"slices"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/go-chi/chi/v5"
	"github.com/mytherion/client/types"
)

const maxSummaryLength = 1000

// EntityHandler provides HTTP handlers for entities.
type EntityHandler struct {
	mem *memory
	now func() time.Time
}

func entityRouter(r chi.Router, h *EntityHandler) {
	r.Route("/{entityID}", func(r chi.Router) {
		r.Get("/", h.GetEntity)
		r.Patch("/", h.UpdateEntity)
		r.Delete("/", h.DeleteEntity)
	})
}

// ListEntities serves GET /projects/{projectID}/entities. type, tags and
// search narrow the list; an entity must carry every requested tag.
func (h *EntityHandler) ListEntities(w http.ResponseWriter, r *http.Request) {
	userID, projectID, ok := h.projectScope(w, r)
	if !ok {
		return
	}
	page, size, err := parsePagination(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	query := r.URL.Query()
	var entityType types.EntityType
	if raw := strings.TrimSpace(query.Get("type")); raw != "" {
		if entityType, err = types.ParseEntityType(raw); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid entity type")
			return
		}
	}
	var tags []string
	for _, tag := range strings.Split(query.Get("tags"), ",") {
		if tag = strings.TrimSpace(tag); tag != "" {
			tags = append(tags, tag)
		}
	}
	search := strings.ToLower(strings.TrimSpace(query.Get("search")))

	if _, err := h.mem.project(userID, projectID); err != nil {
		writeError(w, http.StatusNotFound, "Project not found")
		return
	}

	matched := make([]types.Entity, 0)
	for _, e := range h.mem.projectEntities(projectID) {
		if entityType != "" && e.Type != entityType {
			continue
		}
		if !hasAllTags(e.Tags, tags) {
			continue
		}
		if search != "" && !matchesSearch(e, search) {
			continue
		}
		matched = append(matched, e)
	}

	writeJSON(w, http.StatusOK, paginate(matched, page, size))
}

func hasAllTags(have, want []string) bool {
	for _, tag := range want {
		if !slices.Contains(have, tag) {
			return false
		}
	}
	return true
}

func matchesSearch(e types.Entity, search string) bool {
	for _, field := range []string{e.Name, e.Summary, e.Description} {
		if strings.Contains(strings.ToLower(field), search) {
			return true
		}
	}
	return false
}

func (h *EntityHandler) CreateEntity(w http.ResponseWriter, r *http.Request) {
	userID, projectID, ok := h.projectScope(w, r)
	if !ok {
		return
	}

	var req types.CreateEntityRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request")
		return
	}
	if !req.Type.Valid() {
		writeError(w, http.StatusBadRequest, "Invalid entity type")
		return
	}
	name, err := entityName(req.Name)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := checkEntityFields(req.Summary, req.Tags); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if _, err := h.mem.project(userID, projectID); err != nil {
		writeError(w, http.StatusNotFound, "Project not found")
		return
	}

	now := types.NewTimestamp(h.now())
	tags := req.Tags
	if tags == nil {
		tags = []string{}
	}
	entity := h.mem.createEntity(types.Entity{
		ProjectID:   projectID,
		Type:        req.Type,
		Name:        name,
		Summary:     req.Summary,
		Description: req.Description,
		Tags:        tags,
		Metadata:    req.Metadata,
		CreatedAt:   now,
		UpdatedAt:   now,
	})
	writeJSON(w, http.StatusCreated, entity)
}

func (h *EntityHandler) GetEntity(w http.ResponseWriter, r *http.Request) {
	userID, entityID, ok := h.entityScope(w, r)
	if !ok {
		return
	}

	entity, err := h.mem.entity(userID, entityID)
	if err != nil {
		writeError(w, http.StatusNotFound, "Entity not found")
		return
	}
	writeJSON(w, http.StatusOK, entity)
}

// UpdateEntity applies a partial update. The type of an entity is fixed.
func (h *EntityHandler) UpdateEntity(w http.ResponseWriter, r *http.Request) {
	userID, entityID, ok := h.entityScope(w, r)
	if !ok {
		return
	}

	var req types.UpdateEntityRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request")
		return
	}
	var name string
	if req.Name != nil {
		var err error
		if name, err = entityName(*req.Name); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
	}
	var summary string
	if req.Summary != nil {
		summary = *req.Summary
	}
	var tags []string
	if req.Tags != nil {
		tags = *req.Tags
	}
	if err := checkEntityFields(summary, tags); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	entity, err := h.mem.updateEntity(userID, entityID, func(e *types.Entity) {
		if req.Name != nil {
			e.Name = name
		}
		if req.Summary != nil {
			e.Summary = *req.Summary
		}
		if req.Description != nil {
			e.Description = *req.Description
		}
		if req.Tags != nil {
			e.Tags = append([]string{}, *req.Tags...)
		}
		if req.Metadata != nil {
			e.Metadata = *req.Metadata
		}
		e.UpdatedAt = types.NewTimestamp(h.now())
	})
	if err != nil {
		writeError(w, http.StatusNotFound, "Entity not found")
		return
	}
	writeJSON(w, http.StatusOK, entity)
}

func (h *EntityHandler) DeleteEntity(w http.ResponseWriter, r *http.Request) {
	userID, entityID, ok := h.entityScope(w, r)
	if !ok {
		return
	}

	if err := h.mem.deleteEntity(userID, entityID); err != nil {
		writeError(w, http.StatusNotFound, "Entity not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *EntityHandler) projectScope(w http.ResponseWriter, r *http.Request) (int64, int64, bool) {
	return scopeOf(w, r, "projectID", "Invalid project id")
}

func (h *EntityHandler) entityScope(w http.ResponseWriter, r *http.Request) (int64, int64, bool) {
	return scopeOf(w, r, "entityID", "Invalid entity id")
}

func scopeOf(w http.ResponseWriter, r *http.Request, param, invalid string) (int64, int64, bool) {
	userID, err := userIDFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "Not authenticated")
		return 0, 0, false
	}
	id, err := parseID(r, param)
	if err != nil {
		writeError(w, http.StatusBadRequest, invalid)
		return 0, 0, false
	}
	return userID, id, true
}

func entityName(raw string) (string, error) {
	name := strings.TrimSpace(raw)
	if name == "" {
		return "", errors.New("Name is required")
	}
	if utf8.RuneCountInString(name) > maxNameLength {
		return "", errors.New("Name must be 255 characters or less")
	}
	return name, nil
}

func checkEntityFields(summary string, tags []string) error {
	if utf8.RuneCountInString(summary) > maxSummaryLength {
		return errors.New("Summary must be 1000 characters or less")
	}
	seen := make(map[string]struct{}, len(tags))
	for _, tag := range tags {
		if _, dup := seen[tag]; dup {
			return errors.New("Duplicate tags are not allowed")
		}
		seen[tag] = struct{}{}
	}
	return nil
}
