package store_test

import (
	"context"
	"errors"
	"testing"

	"github.com/mytherion/client/internal/api"
	"github.com/mytherion/client/internal/store"
	"github.com/mytherion/client/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seededEntities(t *testing.T, entities *stubEntities, seed ...types.Entity) *store.Store {
	t.Helper()
	list := entities.list
	entities.list = func(types.EntityQuery) (types.Page[types.Entity], error) {
		return entityPage(seed...), nil
	}
	s := newStore(nil, nil, entities)
	_, err := s.Entities.FetchEntities(context.Background(), types.EntityQuery{ProjectID: 5})
	require.NoError(t, err)
	if list != nil {
		entities.list = list
	}
	return s
}

func TestFetchEntitiesNetworkErrorKeepsList(t *testing.T) {
	seed := []types.Entity{{ID: 1, ProjectID: 5, Type: types.EntityItem}, {ID: 2, ProjectID: 5, Type: types.EntityItem}}
	var received types.EntityQuery
	entities := &stubEntities{list: func(q types.EntityQuery) (types.Page[types.Entity], error) {
		received = q
		return types.Page[types.Entity]{}, &api.RequestError{
			Message: "Failed to fetch entities",
			Err:     errors.New("dial tcp 127.0.0.1:8080: connect: connection refused"),
		}
	}}
	s := seededEntities(t, entities, seed...)
	before := s.Entities.State()

	query := types.EntityQuery{ProjectID: 5, Filters: types.EntityFilters{Type: types.EntityItem}, Page: 0, Size: 20}
	_, err := s.Entities.FetchEntities(context.Background(), query)
	require.Error(t, err)
	assert.Equal(t, query, received)

	state := s.Entities.State()
	assert.Equal(t, before.Entities, state.Entities)
	assert.Equal(t, before.Pagination, state.Pagination)
	assert.Equal(t, err.Error(), state.Error)
	assert.False(t, state.Loading)
}

func TestFetchEntitiesPastLastPage(t *testing.T) {
	var requested []types.EntityQuery
	entities := &stubEntities{list: func(q types.EntityQuery) (types.Page[types.Entity], error) {
		requested = append(requested, q)
		result := types.Page[types.Entity]{
			Pageable:      types.Pageable{PageNumber: q.Page, PageSize: q.Size},
			TotalElements: 3,
			TotalPages:    2,
		}
		if q.Page == 1 {
			result.Content = []types.Entity{{ID: 3, ProjectID: 5, Type: types.EntityItem}}
		}
		return result, nil
	}}
	s := newStore(nil, nil, entities)

	query := types.EntityQuery{ProjectID: 5, Filters: types.EntityFilters{Type: types.EntityItem}, Page: 4, Size: 2}
	_, err := s.Entities.FetchEntities(context.Background(), query)
	require.NoError(t, err)

	require.Len(t, requested, 2)
	assert.Equal(t, 1, requested[1].Page)
	assert.Equal(t, query.Filters, requested[1].Filters)

	state := s.Entities.State()
	assert.True(t, state.Pagination.Valid())
	assert.Equal(t, types.Pagination{Page: 1, Size: 2, TotalPages: 2, TotalElements: 3}, state.Pagination)
	require.Len(t, state.Entities, 1)
	assert.Equal(t, int64(3), state.Entities[0].ID)
}

func TestDeleteEntityClearsCurrent(t *testing.T) {
	entities := &stubEntities{
		get:    func(id int64) (types.Entity, error) { return types.Entity{ID: id, ProjectID: 5}, nil },
		delete: func(int64) error { return nil },
	}
	s := seededEntities(t, entities, types.Entity{ID: 8}, types.Entity{ID: 9})
	ctx := context.Background()

	_, err := s.Entities.FetchEntity(ctx, 9)
	require.NoError(t, err)
	require.NotNil(t, s.Entities.State().CurrentEntity)

	require.NoError(t, s.Entities.DeleteEntity(ctx, 9))

	state := s.Entities.State()
	assert.Nil(t, state.CurrentEntity)
	for _, entity := range state.Entities {
		assert.NotEqualValues(t, 9, entity.ID)
	}
	assert.Len(t, state.Entities, 1)
}

func TestDeleteEntityKeepsOtherCurrent(t *testing.T) {
	entities := &stubEntities{
		get:    func(id int64) (types.Entity, error) { return types.Entity{ID: id}, nil },
		delete: func(int64) error { return nil },
	}
	s := seededEntities(t, entities, types.Entity{ID: 8}, types.Entity{ID: 9})
	ctx := context.Background()

	_, err := s.Entities.FetchEntity(ctx, 8)
	require.NoError(t, err)
	require.NoError(t, s.Entities.DeleteEntity(ctx, 9))
	assert.EqualValues(t, 8, s.Entities.State().CurrentEntity.ID)
}

func TestCreateEntityPrependsAndSelects(t *testing.T) {
	created := types.Entity{ID: 12, ProjectID: 5, Type: types.EntityCharacter, Name: "Aria"}
	entities := &stubEntities{create: func(projectID int64, req types.CreateEntityRequest) (types.Entity, error) {
		assert.EqualValues(t, 5, projectID)
		return created, nil
	}}
	s := seededEntities(t, entities, types.Entity{ID: 8})

	_, err := s.Entities.CreateEntity(context.Background(), 5, types.CreateEntityRequest{Type: types.EntityCharacter, Name: "Aria"})
	require.NoError(t, err)

	state := s.Entities.State()
	require.Len(t, state.Entities, 2)
	assert.Equal(t, created, state.Entities[0])
	assert.Equal(t, &created, state.CurrentEntity)
}

func TestUpdateEntityOnlyTouchesMatchingRecord(t *testing.T) {
	updated := types.Entity{ID: 9, Name: "Sword of Dawn", Tags: []string{"relic"}}
	entities := &stubEntities{update: func(id int64, req types.UpdateEntityRequest) (types.Entity, error) {
		assert.EqualValues(t, 9, id)
		return updated, nil
	}}
	others := []types.Entity{{ID: 7, Name: "Shield"}, {ID: 8, Name: "Helm"}}
	s := seededEntities(t, entities, others[0], types.Entity{ID: 9, Name: "Sword"}, others[1])

	name := "Sword of Dawn"
	_, err := s.Entities.UpdateEntity(context.Background(), 9, types.UpdateEntityRequest{Name: &name})
	require.NoError(t, err)

	state := s.Entities.State()
	assert.Equal(t, []types.Entity{others[0], updated, others[1]}, state.Entities)
	assert.Nil(t, state.CurrentEntity)
}

func TestUpdateEntityRejected(t *testing.T) {
	entities := &stubEntities{update: func(int64, types.UpdateEntityRequest) (types.Entity, error) {
		return types.Entity{}, &api.RequestError{Status: 404, Message: "Entity not found"}
	}}
	s := seededEntities(t, entities, types.Entity{ID: 9, Name: "Sword"})

	_, err := s.Entities.UpdateEntity(context.Background(), 9, types.UpdateEntityRequest{})
	require.Error(t, err)
	assert.Equal(t, "Entity not found", s.Entities.State().Error)
	assert.Equal(t, "Sword", s.Entities.State().Entities[0].Name)
}

func TestEntityFilters(t *testing.T) {
	s := newStore(nil, nil, nil)

	tags := []string{"magic"}
	s.Entities.SetFilters(types.EntityFilters{Type: types.EntityItem, Tags: tags, Search: "sword"})
	tags[0] = "mutated"

	state := s.Entities.State()
	assert.Equal(t, []string{"magic"}, state.Filters.Tags)

	query := state.Query(5, 1, 10)
	assert.Equal(t, types.EntityQuery{
		ProjectID: 5,
		Filters:   types.EntityFilters{Type: types.EntityItem, Tags: []string{"magic"}, Search: "sword"},
		Page:      1,
		Size:      10,
	}, query)

	s.Entities.ClearFilters()
	assert.True(t, s.Entities.State().Filters.Empty())
}

func TestEntitySyncReducers(t *testing.T) {
	entities := &stubEntities{
		get: func(id int64) (types.Entity, error) {
			return types.Entity{}, &api.RequestError{Status: 404, Message: "Entity not found"}
		},
	}
	s := seededEntities(t, entities, types.Entity{ID: 1})
	ctx := context.Background()

	_, err := s.Entities.FetchEntity(ctx, 2)
	require.Error(t, err)
	s.Entities.ClearError()
	assert.Empty(t, s.Entities.State().Error)

	s.Entities.ClearCurrentEntity()
	assert.Nil(t, s.Entities.State().CurrentEntity)

	s.Entities.Reset()
	state := s.Entities.State()
	assert.Empty(t, state.Entities)
	assert.True(t, state.Filters.Empty())
	assert.Equal(t, types.DefaultPagination(), state.Pagination)
}
