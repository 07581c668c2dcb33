package services

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/mytherion/client/internal/api"
	"github.com/mytherion/client/internal/logger"
	"github.com/mytherion/client/types"
)

// EntityService encapsulates entity use-cases.
type EntityService struct {
	transport Transport
	log       *logger.Logger
}

func NewEntityService(transport Transport, log *logger.Logger) *EntityService {
	return &EntityService{
		transport: transport,
		log:       log.Child(logger.Fields{"service": "entityService"}),
	}
}

// List fetches one page of a project's entities matching q.Filters.
func (s *EntityService) List(ctx context.Context, q types.EntityQuery) (types.Page[types.Entity], error) {
	if err := api.CheckID("project", q.ProjectID); err != nil {
		return types.Page[types.Entity]{}, err
	}
	query := entityQuery(q)
	log := s.log.Child(logger.Fields{"operation": "list", "projectId": q.ProjectID, "query": query.Encode()})
	log.Debug("Fetching entities")

	var out types.Page[types.Entity]
	err := s.transport.Do(ctx, api.Request{
		Method:   http.MethodGet,
		Path:     idPath("/projects", q.ProjectID, "/entities"),
		Query:    query,
		Fallback: "Failed to fetch entities",
	}, &out)
	if err != nil {
		log.Error("Failed to fetch entities", err)
		return types.Page[types.Entity]{}, err
	}

	log.Debug("Entities fetched", logger.Fields{"count": len(out.Content), "totalElements": out.TotalElements})
	return out, nil
}

// entityQuery serializes only the filters that are set. page and size are
// always present.
func entityQuery(q types.EntityQuery) url.Values {
	page, size := types.NormalizePage(q.Page, q.Size)

	values := url.Values{}
	if q.Filters.Type != "" {
		values.Set("type", string(q.Filters.Type))
	}
	tags := make([]string, 0, len(q.Filters.Tags))
	for _, tag := range q.Filters.Tags {
		if tag = strings.TrimSpace(tag); tag != "" {
			tags = append(tags, tag)
		}
	}
	if len(tags) > 0 {
		values.Set("tags", strings.Join(tags, ","))
	}
	if search := strings.TrimSpace(q.Filters.Search); search != "" {
		values.Set("search", search)
	}
	values.Set("page", strconv.Itoa(page))
	values.Set("size", strconv.Itoa(size))
	return values
}

func (s *EntityService) Get(ctx context.Context, id int64) (types.Entity, error) {
	if err := api.CheckID("entity", id); err != nil {
		return types.Entity{}, err
	}
	log := s.log.Child(logger.Fields{"operation": "get", "entityId": id})
	log.Debug("Fetching entity")

	var entity types.Entity
	err := s.transport.Do(ctx, api.Request{
		Method:   http.MethodGet,
		Path:     idPath("/entities", id, ""),
		Fallback: "Failed to fetch entity",
	}, &entity)
	if err != nil {
		log.Error("Failed to fetch entity", err)
		return types.Entity{}, err
	}
	return entity, nil
}

func (s *EntityService) Create(ctx context.Context, projectID int64, req types.CreateEntityRequest) (types.Entity, error) {
	if err := api.CheckID("project", projectID); err != nil {
		return types.Entity{}, err
	}
	log := s.log.Child(logger.Fields{
		"operation": "create",
		"projectId": projectID,
		"type":      req.Type,
		"name":      req.Name,
	})
	log.Info("Creating entity")

	var entity types.Entity
	err := s.transport.Do(ctx, api.Request{
		Method:   http.MethodPost,
		Path:     idPath("/projects", projectID, "/entities"),
		Body:     req,
		Fallback: "Failed to create entity",
	}, &entity)
	if err != nil {
		log.Error("Failed to create entity", err)
		return types.Entity{}, err
	}

	log.Info("Entity created", logger.Fields{"entityId": entity.ID})
	return entity, nil
}

func (s *EntityService) Update(ctx context.Context, id int64, req types.UpdateEntityRequest) (types.Entity, error) {
	if err := api.CheckID("entity", id); err != nil {
		return types.Entity{}, err
	}
	log := s.log.Child(logger.Fields{"operation": "update", "entityId": id, "fields": req.Fields()})
	log.Info("Updating entity")

	var entity types.Entity
	err := s.transport.Do(ctx, api.Request{
		Method:   http.MethodPatch,
		Path:     idPath("/entities", id, ""),
		Body:     req,
		Fallback: "Failed to update entity",
	}, &entity)
	if err != nil {
		log.Error("Failed to update entity", err)
		return types.Entity{}, err
	}

	log.Info("Entity updated")
	return entity, nil
}

func (s *EntityService) Delete(ctx context.Context, id int64) error {
	if err := api.CheckID("entity", id); err != nil {
		return err
	}
	log := s.log.Child(logger.Fields{"operation": "delete", "entityId": id})
	log.Info("Deleting entity")

	err := s.transport.Do(ctx, api.Request{
		Method:   http.MethodDelete,
		Path:     idPath("/entities", id, ""),
		Fallback: "Failed to delete entity",
	}, nil)
	if err != nil {
		log.Error("Failed to delete entity", err)
		return err
	}

	log.Info("Entity deleted")
	return nil
}
