// Package services wraps the Mytherion REST API in typed operations.
//
// Services only translate between types and HTTP calls. They never hold
// state; the store decides what a result means for the session.
package services

import (
	"context"
	"strconv"

	"github.com/mytherion/client/internal/api"
	"github.com/mytherion/client/internal/logger"
)

// Transport sends a request to the API. *api.Client implements it.
type Transport interface {
	Do(ctx context.Context, req api.Request, out any) error
}

// Services bundles every service over one transport.
type Services struct {
	Auth     *AuthService
	Projects *ProjectService
	Entities *EntityService
}

func New(transport Transport, log *logger.Logger) *Services {
	if log == nil {
		log = logger.Nop()
	}
	return &Services{
		Auth:     NewAuthService(transport, log),
		Projects: NewProjectService(transport, log),
		Entities: NewEntityService(transport, log),
	}
}

func idPath(prefix string, id int64, suffix string) string {
	return prefix + "/" + strconv.FormatInt(id, 10) + suffix
}
