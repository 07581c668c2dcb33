package validation

import (
	"slices"
	"strings"

	"github.com/mytherion/client/types"
)

// RegisterForm is the input of account registration.
type RegisterForm struct {
	Email           string `json:"email" validate:"required,emailshape"`
	Username        string `json:"username" validate:"required,min=3,max=32"`
	Password        string `json:"password" validate:"required,min=8,max=72"`
	ConfirmPassword string `json:"confirmPassword" validate:"required,eqfield=Password"`
}

func (f RegisterForm) Validate() Errors {
	return check(f)
}

// Request builds the register payload. The confirmation never leaves the client.
func (f RegisterForm) Request() types.RegisterRequest {
	return types.RegisterRequest{
		Email:    strings.TrimSpace(f.Email),
		Username: strings.TrimSpace(f.Username),
		Password: f.Password,
	}
}

// LoginForm only requires a password to be present; its length is the
// server's concern.
type LoginForm struct {
	Email    string `json:"email" validate:"required,emailshape"`
	Password string `json:"password" validate:"required"`
}

func (f LoginForm) Validate() Errors {
	return check(f)
}

func (f LoginForm) Request() types.LoginRequest {
	return types.LoginRequest{Email: strings.TrimSpace(f.Email), Password: f.Password}
}

// ProjectForm is shared by project creation and editing.
type ProjectForm struct {
	Name        string `json:"name" validate:"notblank,max=255"`
	Description string `json:"description"`
}

func (f ProjectForm) Validate() Errors {
	return check(f)
}

func (f ProjectForm) CreateRequest() types.CreateProjectRequest {
	return types.CreateProjectRequest{
		Name:        strings.TrimSpace(f.Name),
		Description: strings.TrimSpace(f.Description),
	}
}

// UpdateRequest carries only the fields that differ from current.
func (f ProjectForm) UpdateRequest(current types.Project) types.UpdateProjectRequest {
	var req types.UpdateProjectRequest
	if name := strings.TrimSpace(f.Name); name != current.Name {
		req.Name = &name
	}
	if desc := strings.TrimSpace(f.Description); desc != current.Description {
		req.Description = &desc
	}
	return req
}

// ProjectFormOf prefills a form for editing p.
func ProjectFormOf(p types.Project) ProjectForm {
	return ProjectForm{Name: p.Name, Description: p.Description}
}

// EntityForm is shared by entity creation and editing. Type is ignored
// when editing.
type EntityForm struct {
	Type        types.EntityType `json:"type" validate:"required,entitytype"`
	Name        string           `json:"name" validate:"notblank,max=255"`
	Summary     string           `json:"summary" validate:"max=1000"`
	Description string           `json:"description"`
	Tags        []string         `json:"tags" validate:"unique,dive,notblank,max=30"`
	Metadata    string           `json:"metadata"`
}

func (f EntityForm) Validate() Errors {
	return check(f)
}

func (f EntityForm) CreateRequest() types.CreateEntityRequest {
	return types.CreateEntityRequest{
		Type:        f.Type,
		Name:        strings.TrimSpace(f.Name),
		Summary:     f.Summary,
		Description: f.Description,
		Tags:        f.Tags,
		Metadata:    f.Metadata,
	}
}

// UpdateRequest carries only the fields that differ from current.
func (f EntityForm) UpdateRequest(current types.Entity) types.UpdateEntityRequest {
	var req types.UpdateEntityRequest
	if name := strings.TrimSpace(f.Name); name != current.Name {
		req.Name = &name
	}
	if f.Summary != current.Summary {
		summary := f.Summary
		req.Summary = &summary
	}
	if f.Description != current.Description {
		desc := f.Description
		req.Description = &desc
	}
	if !slices.Equal(f.Tags, current.Tags) {
		tags := slices.Clone(f.Tags)
		if tags == nil {
			tags = []string{}
		}
		req.Tags = &tags
	}
	if f.Metadata != current.Metadata {
		metadata := f.Metadata
		req.Metadata = &metadata
	}
	return req
}

// EntityFormOf prefills a form for editing e.
func EntityFormOf(e types.Entity) EntityForm {
	return EntityForm{
		Type:        e.Type,
		Name:        e.Name,
		Summary:     e.Summary,
		Description: e.Description,
		Tags:        slices.Clone(e.Tags),
		Metadata:    e.Metadata,
	}
}
