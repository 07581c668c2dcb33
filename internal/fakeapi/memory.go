package fakeapi

import (
	"errors"
	"slices"
	"sort"
	"strings"
	"sync"

	"github.com/mytherion/client/types"
)

var (
	// ErrNotFound is returned when a record does not exist or belongs to
	// another user.
	ErrNotFound      = errors.New("not found")
	ErrEmailTaken    = errors.New("email already registered")
	ErrUsernameTaken = errors.New("username already taken")
)

type account struct {
	user         types.User
	passwordHash string
	verifyToken  string
}

type ownedProject struct {
	project types.Project
	ownerID int64
}

// memory is the backing store of the fake API. Every accessor returns
// copies.
type memory struct {
	mu sync.RWMutex

	accounts map[int64]*account
	projects map[int64]ownedProject
	entities map[int64]types.Entity

	nextUserID    int64
	nextProjectID int64
	nextEntityID  int64
}

func newMemory() *memory {
	return &memory{
		accounts: make(map[int64]*account),
		projects: make(map[int64]ownedProject),
		entities: make(map[int64]types.Entity),
	}
}

func (m *memory) createAccount(user types.User, passwordHash, verifyToken string) (types.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, existing := range m.accounts {
		if strings.EqualFold(existing.user.Email, user.Email) {
			return types.User{}, ErrEmailTaken
		}
		if strings.EqualFold(existing.user.Username, user.Username) {
			return types.User{}, ErrUsernameTaken
		}
	}

	m.nextUserID++
	user.ID = m.nextUserID
	m.accounts[user.ID] = &account{user: user, passwordHash: passwordHash, verifyToken: verifyToken}
	return user, nil
}

func (m *memory) accountByEmail(email string) (account, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, acc := range m.accounts {
		if strings.EqualFold(acc.user.Email, email) {
			return *acc, nil
		}
	}
	return account{}, ErrNotFound
}

func (m *memory) userByID(id int64) (types.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	acc, ok := m.accounts[id]
	if !ok {
		return types.User{}, ErrNotFound
	}
	return acc.user, nil
}

// verify marks the account owning token as verified and consumes the token.
func (m *memory) verify(token string) (types.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, acc := range m.accounts {
		if acc.verifyToken != "" && acc.verifyToken == token {
			acc.user.EmailVerified = true
			acc.verifyToken = ""
			return acc.user, nil
		}
	}
	return types.User{}, ErrNotFound
}

// rotateToken replaces the pending verification token of an unverified
// account. It reports false when there is nothing to verify.
func (m *memory) rotateToken(email, token string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, acc := range m.accounts {
		if strings.EqualFold(acc.user.Email, email) && !acc.user.EmailVerified {
			acc.verifyToken = token
			return true
		}
	}
	return false
}

func (m *memory) pendingToken(email string) (string, bool) {
	acc, err := m.accountByEmail(email)
	if err != nil || acc.verifyToken == "" {
		return "", false
	}
	return acc.verifyToken, true
}

// listProjects returns the owner's projects, newest first.
func (m *memory) listProjects(ownerID int64) []types.Project {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]types.Project, 0)
	for _, p := range m.projects {
		if p.ownerID == ownerID {
			out = append(out, p.project)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt.Time) {
			return out[i].CreatedAt.After(out[j].CreatedAt.Time)
		}
		return out[i].ID > out[j].ID
	})
	return out
}

func (m *memory) project(ownerID, id int64) (types.Project, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.projects[id]
	if !ok || p.ownerID != ownerID {
		return types.Project{}, ErrNotFound
	}
	return p.project, nil
}

func (m *memory) createProject(ownerID int64, project types.Project) types.Project {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextProjectID++
	project.ID = m.nextProjectID
	m.projects[project.ID] = ownedProject{project: project, ownerID: ownerID}
	return project
}

func (m *memory) updateProject(ownerID, id int64, apply func(*types.Project)) (types.Project, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.projects[id]
	if !ok || p.ownerID != ownerID {
		return types.Project{}, ErrNotFound
	}
	apply(&p.project)
	m.projects[id] = p
	return p.project, nil
}

// deleteProject removes the project with its entities.
func (m *memory) deleteProject(ownerID, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.projects[id]
	if !ok || p.ownerID != ownerID {
		return ErrNotFound
	}
	delete(m.projects, id)
	for entityID, e := range m.entities {
		if e.ProjectID == id {
			delete(m.entities, entityID)
		}
	}
	return nil
}

func (m *memory) projectEntities(projectID int64) []types.Entity {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]types.Entity, 0)
	for _, e := range m.entities {
		if e.ProjectID == projectID {
			e.Tags = slices.Clone(e.Tags)
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt.Time) {
			return out[i].CreatedAt.After(out[j].CreatedAt.Time)
		}
		return out[i].ID > out[j].ID
	})
	return out
}

// entity returns an entity whose project belongs to ownerID.
func (m *memory) entity(ownerID, id int64) (types.Entity, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	e, ok := m.entities[id]
	if !ok {
		return types.Entity{}, ErrNotFound
	}
	if p, ok := m.projects[e.ProjectID]; !ok || p.ownerID != ownerID {
		return types.Entity{}, ErrNotFound
	}
	e.Tags = slices.Clone(e.Tags)
	return e, nil
}

func (m *memory) createEntity(entity types.Entity) types.Entity {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextEntityID++
	entity.ID = m.nextEntityID
	entity.Tags = slices.Clone(entity.Tags)
	m.entities[entity.ID] = entity
	return entity
}

func (m *memory) updateEntity(ownerID, id int64, apply func(*types.Entity)) (types.Entity, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.entities[id]
	if !ok {
		return types.Entity{}, ErrNotFound
	}
	if p, ok := m.projects[e.ProjectID]; !ok || p.ownerID != ownerID {
		return types.Entity{}, ErrNotFound
	}
	apply(&e)
	e.Tags = slices.Clone(e.Tags)
	m.entities[id] = e
	return e, nil
}

func (m *memory) deleteEntity(ownerID, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.entities[id]
	if !ok {
		return ErrNotFound
	}
	if p, ok := m.projects[e.ProjectID]; !ok || p.ownerID != ownerID {
		return ErrNotFound
	}
	delete(m.entities, id)
	return nil
}
