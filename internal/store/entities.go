package store

import (
	"context"
	"slices"

	"github.com/mytherion/client/internal/api"
	"github.com/mytherion/client/internal/logger"
	"github.com/mytherion/client/types"
)

// EntityAPI is the entity surface the entities slice dispatches into.
type EntityAPI interface {
	List(ctx context.Context, q types.EntityQuery) (types.Page[types.Entity], error)
	Get(ctx context.Context, id int64) (types.Entity, error)
	Create(ctx context.Context, projectID int64, req types.CreateEntityRequest) (types.Entity, error)
	Update(ctx context.Context, id int64, req types.UpdateEntityRequest) (types.Entity, error)
	Delete(ctx context.Context, id int64) error
}

type EntitiesState struct {
	Entities      []types.Entity
	CurrentEntity *types.Entity
	// Filters are the list view's current filters. They are only applied
	// when passed to FetchEntities, see Query.
	Filters    types.EntityFilters
	Pagination types.Pagination
	Status
}

// Query builds a listing of projectID with the slice's filters.
func (s EntitiesState) Query(projectID int64, page, size int) types.EntityQuery {
	return types.EntityQuery{ProjectID: projectID, Filters: s.Filters, Page: page, Size: size}
}

// Entities is the entities slice.
type Entities struct {
	*slice[EntitiesState]
	svc EntityAPI
}

func newEntities(entityAPI EntityAPI, log *logger.Logger) *Entities {
	initial := EntitiesState{Entities: []types.Entity{}, Pagination: types.DefaultPagination()}
	return &Entities{
		slice: newSlice("entities", initial, func(s *EntitiesState) *Status { return &s.Status }, log),
		svc:   entityAPI,
	}
}

// FetchEntities replaces the list and its pagination with one page. A page
// past the end of the list is served as the last page.
func (e *Entities) FetchEntities(ctx context.Context, q types.EntityQuery) (types.Page[types.Entity], error) {
	ticket := e.begin("list")
	result, err := e.svc.List(ctx, q)
	if err == nil {
		result, err = lastPage(e.log, result, func(page int) (types.Page[types.Entity], error) {
			last := q
			last.Page = page
			return e.svc.List(ctx, last)
		})
	}
	if err != nil {
		e.reject("list", ticket, api.Message(err, "Failed to fetch entities"))
		return types.Page[types.Entity]{}, err
	}
	e.fulfill("list", ticket, func(s *EntitiesState) {
		s.Entities = nonNil(result.Content)
		s.Pagination = types.PaginationOf(result).Clamp()
	})
	return result, nil
}

func (e *Entities) FetchEntity(ctx context.Context, id int64) (types.Entity, error) {
	ticket := e.begin("current")
	entity, err := e.svc.Get(ctx, id)
	if err != nil {
		e.reject("current", ticket, api.Message(err, "Failed to fetch entity"))
		return types.Entity{}, err
	}
	e.fulfill("current", ticket, func(s *EntitiesState) {
		s.CurrentEntity = ptr(entity)
	})
	return entity, nil
}

// CreateEntity prepends the created entity and makes it current.
func (e *Entities) CreateEntity(ctx context.Context, projectID int64, req types.CreateEntityRequest) (types.Entity, error) {
	key := e.uniqueKey("create")
	ticket := e.begin(key)
	entity, err := e.svc.Create(ctx, projectID, req)
	if err != nil {
		e.reject(key, ticket, api.Message(err, "Failed to create entity"))
		return types.Entity{}, err
	}
	e.fulfill(key, ticket, func(s *EntitiesState) {
		s.Entities = prepend(s.Entities, entity)
		s.CurrentEntity = ptr(entity)
	})
	return entity, nil
}

func (e *Entities) UpdateEntity(ctx context.Context, id int64, req types.UpdateEntityRequest) (types.Entity, error) {
	key := ticketKey("update", id)
	ticket := e.begin(key)
	entity, err := e.svc.Update(ctx, id, req)
	if err != nil {
		e.reject(key, ticket, api.Message(err, "Failed to update entity"))
		return types.Entity{}, err
	}
	e.fulfill(key, ticket, func(s *EntitiesState) {
		s.Entities = replace(s.Entities, entity)
		if s.CurrentEntity != nil && s.CurrentEntity.ID == entity.ID {
			s.CurrentEntity = ptr(entity)
		}
	})
	return entity, nil
}

func (e *Entities) DeleteEntity(ctx context.Context, id int64) error {
	key := ticketKey("delete", id)
	ticket := e.begin(key)
	if err := e.svc.Delete(ctx, id); err != nil {
		e.reject(key, ticket, api.Message(err, "Failed to delete entity"))
		return err
	}
	e.fulfill(key, ticket, func(s *EntitiesState) {
		s.Entities = remove(s.Entities, id)
		if s.CurrentEntity != nil && s.CurrentEntity.ID == id {
			s.CurrentEntity = nil
		}
	})
	return nil
}

func (e *Entities) SetFilters(filters types.EntityFilters) {
	filters.Tags = slices.Clone(filters.Tags)
	e.update(func(s *EntitiesState) { s.Filters = filters })
}

func (e *Entities) ClearFilters() {
	e.update(func(s *EntitiesState) { s.Filters = types.EntityFilters{} })
}

func (e *Entities) ClearError() {
	e.update(func(s *EntitiesState) { s.Error = "" })
}

func (e *Entities) ClearCurrentEntity() {
	e.update(func(s *EntitiesState) { s.CurrentEntity = nil })
}

// Reset restores the initial state; results still in flight are dropped.
func (e *Entities) Reset() {
	e.reset()
}
