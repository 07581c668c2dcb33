package services

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/mytherion/client/internal/api"
	"github.com/mytherion/client/internal/logger"
	"github.com/mytherion/client/types"
)

// ProjectService encapsulates project use-cases.
type ProjectService struct {
	transport Transport
	log       *logger.Logger
}

func NewProjectService(transport Transport, log *logger.Logger) *ProjectService {
	return &ProjectService{
		transport: transport,
		log:       log.Child(logger.Fields{"service": "projectService"}),
	}
}

// List fetches one page of the caller's projects.
func (s *ProjectService) List(ctx context.Context, page, size int) (types.Page[types.Project], error) {
	page, size = types.NormalizePage(page, size)
	log := s.log.Child(logger.Fields{"operation": "list", "page": page, "size": size})
	log.Debug("Fetching projects")

	query := url.Values{}
	query.Set("page", strconv.Itoa(page))
	query.Set("size", strconv.Itoa(size))

	var out types.Page[types.Project]
	err := s.transport.Do(ctx, api.Request{
		Method:   http.MethodGet,
		Path:     "/projects",
		Query:    query,
		Fallback: "Failed to fetch projects",
	}, &out)
	if err != nil {
		log.Error("Failed to fetch projects", err)
		return types.Page[types.Project]{}, err
	}

	log.Debug("Projects fetched", logger.Fields{"count": len(out.Content), "totalElements": out.TotalElements})
	return out, nil
}

func (s *ProjectService) Get(ctx context.Context, id int64) (types.Project, error) {
	if err := api.CheckID("project", id); err != nil {
		return types.Project{}, err
	}
	log := s.log.Child(logger.Fields{"operation": "get", "projectId": id})
	log.Debug("Fetching project")

	var project types.Project
	err := s.transport.Do(ctx, api.Request{
		Method:   http.MethodGet,
		Path:     idPath("/projects", id, ""),
		Fallback: "Failed to fetch project",
	}, &project)
	if err != nil {
		log.Error("Failed to fetch project", err)
		return types.Project{}, err
	}
	return project, nil
}

func (s *ProjectService) Create(ctx context.Context, req types.CreateProjectRequest) (types.Project, error) {
	log := s.log.Child(logger.Fields{"operation": "create", "name": req.Name})
	log.Info("Creating project")

	var project types.Project
	err := s.transport.Do(ctx, api.Request{
		Method:   http.MethodPost,
		Path:     "/projects",
		Body:     req,
		Fallback: "Failed to create project",
	}, &project)
	if err != nil {
		log.Error("Failed to create project", err)
		return types.Project{}, err
	}

	log.Info("Project created", logger.Fields{"projectId": project.ID})
	return project, nil
}

func (s *ProjectService) Update(ctx context.Context, id int64, req types.UpdateProjectRequest) (types.Project, error) {
	if err := api.CheckID("project", id); err != nil {
		return types.Project{}, err
	}
	log := s.log.Child(logger.Fields{"operation": "update", "projectId": id, "fields": req.Fields()})
	log.Info("Updating project")

	var project types.Project
	err := s.transport.Do(ctx, api.Request{
		Method:   http.MethodPut,
		Path:     idPath("/projects", id, ""),
		Body:     req,
		Fallback: "Failed to update project",
	}, &project)
	if err != nil {
		log.Error("Failed to update project", err)
		return types.Project{}, err
	}

	log.Info("Project updated")
	return project, nil
}

func (s *ProjectService) Delete(ctx context.Context, id int64) error {
	if err := api.CheckID("project", id); err != nil {
		return err
	}
	log := s.log.Child(logger.Fields{"operation": "delete", "projectId": id})
	log.Info("Deleting project")

	err := s.transport.Do(ctx, api.Request{
		Method:   http.MethodDelete,
		Path:     idPath("/projects", id, ""),
		Fallback: "Failed to delete project",
	}, nil)
	if err != nil {
		log.Error("Failed to delete project", err)
		return err
	}

	log.Info("Project deleted")
	return nil
}

// Stats fetches the entity counts of a project. The counts are recomputed
// by the API on every call.
func (s *ProjectService) Stats(ctx context.Context, id int64) (types.ProjectStats, error) {
	if err := api.CheckID("project", id); err != nil {
		return types.ProjectStats{}, err
	}
	log := s.log.Child(logger.Fields{"operation": "stats", "projectId": id})
	log.Debug("Fetching project stats")

	var stats types.ProjectStats
	err := s.transport.Do(ctx, api.Request{
		Method:   http.MethodGet,
		Path:     idPath("/projects", id, "/stats"),
		Fallback: "Failed to fetch project stats",
	}, &stats)
	if err != nil {
		log.Error("Failed to fetch project stats", err)
		return types.ProjectStats{}, err
	}

	if !stats.Consistent() {
		log.Warn("Entity counts do not sum to entityCount", logger.Fields{
			"entityCount":       stats.EntityCount,
			"entityCountByType": stats.EntityCountByType,
		})
	}
	return stats, nil
}
