package fakeapi

import (
	"errors"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/go-chi/chi/v5"
	"github.com/mytherion/client/types"
)

const maxNameLength = 255

// ProjectHandler provides HTTP handlers for projects.
type ProjectHandler struct {
	mem *memory
	now func() time.Time
}

func projectRouter(r chi.Router, h *ProjectHandler, entities *EntityHandler) {
	r.Get("/", h.ListProjects)
	r.Post("/", h.CreateProject)
	r.Route("/{projectID}", func(r chi.Router) {
		r.Get("/", h.GetProject)
		r.Put("/", h.UpdateProject)
		r.Delete("/", h.DeleteProject)
		r.Get("/stats", h.ProjectStats)
		r.Get("/entities", entities.ListEntities)
		r.Post("/entities", entities.CreateEntity)
	})
}

func (h *ProjectHandler) ListProjects(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "Not authenticated")
		return
	}
	page, size, err := parsePagination(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, paginate(h.mem.listProjects(userID), page, size))
}

func (h *ProjectHandler) GetProject(w http.ResponseWriter, r *http.Request) {
	userID, projectID, ok := h.scope(w, r)
	if !ok {
		return
	}

	project, err := h.mem.project(userID, projectID)
	if err != nil {
		writeError(w, http.StatusNotFound, "Project not found")
		return
	}
	writeJSON(w, http.StatusOK, project)
}

func (h *ProjectHandler) CreateProject(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "Not authenticated")
		return
	}

	var req types.CreateProjectRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request")
		return
	}
	name, err := projectName(req.Name)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	now := types.NewTimestamp(h.now())
	project := h.mem.createProject(userID, types.Project{
		Name:        name,
		Description: strings.TrimSpace(req.Description),
		CreatedAt:   now,
		UpdatedAt:   now,
	})
	writeJSON(w, http.StatusCreated, project)
}

func (h *ProjectHandler) UpdateProject(w http.ResponseWriter, r *http.Request) {
	userID, projectID, ok := h.scope(w, r)
	if !ok {
		return
	}

	var req types.UpdateProjectRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request")
		return
	}
	var name string
	if req.Name != nil {
		var err error
		if name, err = projectName(*req.Name); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
	}

	project, err := h.mem.updateProject(userID, projectID, func(p *types.Project) {
		if req.Name != nil {
			p.Name = name
		}
		if req.Description != nil {
			p.Description = strings.TrimSpace(*req.Description)
		}
		p.UpdatedAt = types.NewTimestamp(h.now())
	})
	if err != nil {
		writeError(w, http.StatusNotFound, "Project not found")
		return
	}
	writeJSON(w, http.StatusOK, project)
}

func (h *ProjectHandler) DeleteProject(w http.ResponseWriter, r *http.Request) {
	userID, projectID, ok := h.scope(w, r)
	if !ok {
		return
	}

	if err := h.mem.deleteProject(userID, projectID); err != nil {
		writeError(w, http.StatusNotFound, "Project not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ProjectStats counts the project's entities, with every type present.
func (h *ProjectHandler) ProjectStats(w http.ResponseWriter, r *http.Request) {
	userID, projectID, ok := h.scope(w, r)
	if !ok {
		return
	}

	project, err := h.mem.project(userID, projectID)
	if err != nil {
		writeError(w, http.StatusNotFound, "Project not found")
		return
	}

	byType := make(map[types.EntityType]int64, len(types.EntityTypes))
	for _, t := range types.EntityTypes {
		byType[t] = 0
	}
	entities := h.mem.projectEntities(projectID)
	for _, e := range entities {
		byType[e.Type]++
	}

	writeJSON(w, http.StatusOK, types.ProjectStats{
		ID:                project.ID,
		Name:              project.Name,
		Description:       project.Description,
		EntityCount:       int64(len(entities)),
		EntityCountByType: byType,
		CreatedAt:         project.CreatedAt,
		UpdatedAt:         project.UpdatedAt,
	})
}

// scope resolves the session user and the project id of the route.
func (h *ProjectHandler) scope(w http.ResponseWriter, r *http.Request) (int64, int64, bool) {
	return scopeOf(w, r, "projectID", "Invalid project id")
}

func projectName(raw string) (string, error) {
	name := strings.TrimSpace(raw)
	if name == "" {
		return "", errors.New("Project name is required")
	}
	if utf8.RuneCountInString(name) > maxNameLength {
		return "", errors.New("Project name must be less than 255 characters")
	}
	return name, nil
}
