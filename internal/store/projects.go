package store

import (
	"context"

	"github.com/mytherion/client/internal/api"
	"github.com/mytherion/client/internal/logger"
	"github.com/mytherion/client/types"
)

// ProjectAPI is the project surface the projects slice dispatches into.
type ProjectAPI interface {
	List(ctx context.Context, page, size int) (types.Page[types.Project], error)
	Get(ctx context.Context, id int64) (types.Project, error)
	Create(ctx context.Context, req types.CreateProjectRequest) (types.Project, error)
	Update(ctx context.Context, id int64, req types.UpdateProjectRequest) (types.Project, error)
	Delete(ctx context.Context, id int64) error
	Stats(ctx context.Context, id int64) (types.ProjectStats, error)
}

type ProjectsState struct {
	Projects       []types.Project
	CurrentProject *types.Project
	// Stats belongs to the current view and is dropped with it.
	Stats      *types.ProjectStats
	Pagination types.Pagination
	Status
}

// Projects is the projects slice.
type Projects struct {
	*slice[ProjectsState]
	svc ProjectAPI
}

func newProjects(projectAPI ProjectAPI, log *logger.Logger) *Projects {
	initial := ProjectsState{Projects: []types.Project{}, Pagination: types.DefaultPagination()}
	return &Projects{
		slice: newSlice("projects", initial, func(s *ProjectsState) *Status { return &s.Status }, log),
		svc:   projectAPI,
	}
}

// FetchProjects replaces the list and its pagination with one page. A page
// past the end of the list is served as the last page.
func (p *Projects) FetchProjects(ctx context.Context, page, size int) (types.Page[types.Project], error) {
	ticket := p.begin("list")
	result, err := p.svc.List(ctx, page, size)
	if err == nil {
		result, err = lastPage(p.log, result, func(page int) (types.Page[types.Project], error) {
			return p.svc.List(ctx, page, size)
		})
	}
	if err != nil {
		p.reject("list", ticket, api.Message(err, "Failed to fetch projects"))
		return types.Page[types.Project]{}, err
	}
	p.fulfill("list", ticket, func(s *ProjectsState) {
		s.Projects = nonNil(result.Content)
		s.Pagination = types.PaginationOf(result).Clamp()
	})
	return result, nil
}

func (p *Projects) FetchProject(ctx context.Context, id int64) (types.Project, error) {
	ticket := p.begin("current")
	project, err := p.svc.Get(ctx, id)
	if err != nil {
		p.reject("current", ticket, api.Message(err, "Failed to fetch project"))
		return types.Project{}, err
	}
	p.fulfill("current", ticket, func(s *ProjectsState) {
		s.CurrentProject = ptr(project)
	})
	return project, nil
}

// CreateProject prepends the created project to the list.
func (p *Projects) CreateProject(ctx context.Context, req types.CreateProjectRequest) (types.Project, error) {
	key := p.uniqueKey("create")
	ticket := p.begin(key)
	project, err := p.svc.Create(ctx, req)
	if err != nil {
		p.reject(key, ticket, api.Message(err, "Failed to create project"))
		return types.Project{}, err
	}
	p.fulfill(key, ticket, func(s *ProjectsState) {
		s.Projects = prepend(s.Projects, project)
	})
	return project, nil
}

func (p *Projects) UpdateProject(ctx context.Context, id int64, req types.UpdateProjectRequest) (types.Project, error) {
	key := ticketKey("update", id)
	ticket := p.begin(key)
	project, err := p.svc.Update(ctx, id, req)
	if err != nil {
		p.reject(key, ticket, api.Message(err, "Failed to update project"))
		return types.Project{}, err
	}
	p.fulfill(key, ticket, func(s *ProjectsState) {
		s.Projects = replace(s.Projects, project)
		if s.CurrentProject != nil && s.CurrentProject.ID == project.ID {
			s.CurrentProject = ptr(project)
		}
	})
	return project, nil
}

// DeleteProject removes the project and, when it is current, its view.
func (p *Projects) DeleteProject(ctx context.Context, id int64) error {
	key := ticketKey("delete", id)
	ticket := p.begin(key)
	if err := p.svc.Delete(ctx, id); err != nil {
		p.reject(key, ticket, api.Message(err, "Failed to delete project"))
		return err
	}
	p.fulfill(key, ticket, func(s *ProjectsState) {
		s.Projects = remove(s.Projects, id)
		if s.CurrentProject != nil && s.CurrentProject.ID == id {
			s.CurrentProject = nil
			s.Stats = nil
		}
	})
	return nil
}

func (p *Projects) FetchProjectStats(ctx context.Context, id int64) (types.ProjectStats, error) {
	ticket := p.begin("stats")
	stats, err := p.svc.Stats(ctx, id)
	if err != nil {
		p.reject("stats", ticket, api.Message(err, "Failed to fetch project stats"))
		return types.ProjectStats{}, err
	}
	p.fulfill("stats", ticket, func(s *ProjectsState) {
		s.Stats = ptr(stats)
	})
	return stats, nil
}

func (p *Projects) ClearError() {
	p.update(func(s *ProjectsState) { s.Error = "" })
}

// ClearCurrentProject leaves the project view.
func (p *Projects) ClearCurrentProject() {
	p.update(func(s *ProjectsState) {
		s.CurrentProject = nil
		s.Stats = nil
	})
}

// Reset restores the initial state; results still in flight are dropped.
func (p *Projects) Reset() {
	p.reset()
}

func nonNil[T any](list []T) []T {
	if list == nil {
		return []T{}
	}
	return list
}
