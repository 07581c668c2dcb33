// Package store is the client-side state of a Mytherion session.
//
// A Store has one slice per domain. Each slice exposes async action
// creators that commit a pending transition, call the API, and settle
// with exactly one fulfilled or rejected transition. Every operation is
// fenced by a per-key ticket so a superseded result is never applied.
package store

import (
	"github.com/mytherion/client/internal/logger"
	"github.com/mytherion/client/internal/services"
)

// Deps are the collaborators of a Store.
type Deps struct {
	Auth     AuthAPI
	Projects ProjectAPI
	Entities EntityAPI
	Logger   *logger.Logger
}

// DepsFrom wires the HTTP services into Deps.
func DepsFrom(svc *services.Services, log *logger.Logger) Deps {
	return Deps{
		Auth:     svc.Auth,
		Projects: svc.Projects,
		Entities: svc.Entities,
		Logger:   log,
	}
}

// Store is an isolated state container. It is safe for concurrent use.
type Store struct {
	Auth     *Auth
	Projects *Projects
	Entities *Entities
}

func New(deps Deps) *Store {
	log := deps.Logger
	if log == nil {
		log = logger.Nop()
	}
	log = log.Child(logger.Fields{"component": "store"})
	return &Store{
		Auth:     newAuth(deps.Auth, log),
		Projects: newProjects(deps.Projects, log),
		Entities: newEntities(deps.Entities, log),
	}
}
