package store_test

import (
	"context"

	"github.com/mytherion/client/internal/store"
	"github.com/mytherion/client/types"
)

// The stubs answer through function fields so each test scripts only the
// calls it makes.

type stubAuth struct {
	register    func(types.RegisterRequest) (types.User, error)
	login       func(types.LoginRequest) (types.User, error)
	logout      func() error
	currentUser func() (types.User, error)
	verifyEmail func(string) (types.User, error)
	resend      func(string) error
}

func (s *stubAuth) Register(_ context.Context, req types.RegisterRequest) (types.User, error) {
	return s.register(req)
}

func (s *stubAuth) Login(_ context.Context, req types.LoginRequest) (types.User, error) {
	return s.login(req)
}

func (s *stubAuth) Logout(context.Context) error {
	return s.logout()
}

func (s *stubAuth) CurrentUser(context.Context) (types.User, error) {
	return s.currentUser()
}

func (s *stubAuth) VerifyEmail(_ context.Context, token string) (types.User, error) {
	return s.verifyEmail(token)
}

func (s *stubAuth) ResendVerification(_ context.Context, email string) error {
	return s.resend(email)
}

type stubProjects struct {
	list   func(page, size int) (types.Page[types.Project], error)
	get    func(id int64) (types.Project, error)
	create func(types.CreateProjectRequest) (types.Project, error)
	update func(int64, types.UpdateProjectRequest) (types.Project, error)
	delete func(int64) error
	stats  func(int64) (types.ProjectStats, error)
}

func (s *stubProjects) List(_ context.Context, page, size int) (types.Page[types.Project], error) {
	return s.list(page, size)
}

func (s *stubProjects) Get(_ context.Context, id int64) (types.Project, error) {
	return s.get(id)
}

func (s *stubProjects) Create(_ context.Context, req types.CreateProjectRequest) (types.Project, error) {
	return s.create(req)
}

func (s *stubProjects) Update(_ context.Context, id int64, req types.UpdateProjectRequest) (types.Project, error) {
	return s.update(id, req)
}

func (s *stubProjects) Delete(_ context.Context, id int64) error {
	return s.delete(id)
}

func (s *stubProjects) Stats(_ context.Context, id int64) (types.ProjectStats, error) {
	return s.stats(id)
}

type stubEntities struct {
	list   func(types.EntityQuery) (types.Page[types.Entity], error)
	get    func(int64) (types.Entity, error)
	create func(int64, types.CreateEntityRequest) (types.Entity, error)
	update func(int64, types.UpdateEntityRequest) (types.Entity, error)
	delete func(int64) error
}

func (s *stubEntities) List(_ context.Context, q types.EntityQuery) (types.Page[types.Entity], error) {
	return s.list(q)
}

func (s *stubEntities) Get(_ context.Context, id int64) (types.Entity, error) {
	return s.get(id)
}

func (s *stubEntities) Create(_ context.Context, projectID int64, req types.CreateEntityRequest) (types.Entity, error) {
	return s.create(projectID, req)
}

func (s *stubEntities) Update(_ context.Context, id int64, req types.UpdateEntityRequest) (types.Entity, error) {
	return s.update(id, req)
}

func (s *stubEntities) Delete(_ context.Context, id int64) error {
	return s.delete(id)
}

func newStore(auth *stubAuth, projects *stubProjects, entities *stubEntities) *store.Store {
	if auth == nil {
		auth = &stubAuth{}
	}
	if projects == nil {
		projects = &stubProjects{}
	}
	if entities == nil {
		entities = &stubEntities{}
	}
	return store.New(store.Deps{Auth: auth, Projects: projects, Entities: entities})
}

func projectPage(projects ...types.Project) types.Page[types.Project] {
	return types.Page[types.Project]{
		Content:       projects,
		Pageable:      types.Pageable{PageNumber: 0, PageSize: 20},
		TotalElements: int64(len(projects)),
		TotalPages:    1,
	}
}

func entityPage(entities ...types.Entity) types.Page[types.Entity] {
	return types.Page[types.Entity]{
		Content:       entities,
		Pageable:      types.Pageable{PageNumber: 0, PageSize: 20},
		TotalElements: int64(len(entities)),
		TotalPages:    1,
	}
}
