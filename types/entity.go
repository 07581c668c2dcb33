package types

import (
	"fmt"
	"strings"
)

// EntityType categorizes an entity. The set is closed and an entity's
// type never changes after creation.
type EntityType string

const (
	EntityCharacter    EntityType = "CHARACTER"
	EntityLocation     EntityType = "LOCATION"
	EntityOrganization EntityType = "ORGANIZATION"
	EntitySpecies      EntityType = "SPECIES"
	EntityCulture      EntityType = "CULTURE"
	EntityItem         EntityType = "ITEM"
)

// EntityTypes lists every entity type in display order.
var EntityTypes = []EntityType{
	EntityCharacter,
	EntityLocation,
	EntityOrganization,
	EntitySpecies,
	EntityCulture,
	EntityItem,
}

// Valid reports whether t is a member of the closed set.
func (t EntityType) Valid() bool {
	for _, known := range EntityTypes {
		if t == known {
			return true
		}
	}
	return false
}

func (t EntityType) String() string { return string(t) }

// ParseEntityType converts a case-insensitive name into an EntityType.
func ParseEntityType(raw string) (EntityType, error) {
	t := EntityType(strings.ToUpper(strings.TrimSpace(raw)))
	if !t.Valid() {
		return "", fmt.Errorf("unknown entity type %q", raw)
	}
	return t, nil
}

// Entity is a user-authored in-world object belonging to one project.
type Entity struct {
	// ID is the unique identifier of the entity.
	ID int64 `json:"id"`

	// ProjectID references the owning project.
	ProjectID int64 `json:"projectId"`

	// Type is fixed at creation.
	Type EntityType `json:"type"`

	// Name is the display name of the entity.
	Name string `json:"name"`

	// Summary is a short optional blurb, at most 1000 characters.
	Summary string `json:"summary,omitempty"`

	// Description holds the long-form text.
	Description string `json:"description,omitempty"`

	// Tags are free-form labels used for filtering.
	Tags []string `json:"tags"`

	// ImageURL is a read-only reference to an uploaded portrait.
	ImageURL string `json:"imageUrl,omitempty"`

	// Metadata is an opaque JSON document kept as a string.
	Metadata string `json:"metadata,omitempty"`

	CreatedAt Timestamp `json:"createdAt"`
	UpdatedAt Timestamp `json:"updatedAt"`
}

// GetID returns the entity identifier.
func (e Entity) GetID() int64 { return e.ID }

// CreateEntityRequest is the payload for POST /projects/{id}/entities.
type CreateEntityRequest struct {
	Type        EntityType `json:"type"`
	Name        string     `json:"name"`
	Summary     string     `json:"summary,omitempty"`
	Description string     `json:"description,omitempty"`
	Tags        []string   `json:"tags,omitempty"`
	Metadata    string     `json:"metadata,omitempty"`
}

// UpdateEntityRequest is the partial payload for PATCH /entities/{id}.
// It deliberately has no Type field.
type UpdateEntityRequest struct {
	Name        *string   `json:"name,omitempty"`
	Summary     *string   `json:"summary,omitempty"`
	Description *string   `json:"description,omitempty"`
	Tags        *[]string `json:"tags,omitempty"`
	Metadata    *string   `json:"metadata,omitempty"`
}

// Fields lists the names of the fields set on the request.
func (r UpdateEntityRequest) Fields() []string {
	fields := make([]string, 0, 5)
	if r.Name != nil {
		fields = append(fields, "name")
	}
	if r.Summary != nil {
		fields = append(fields, "summary")
	}
	if r.Description != nil {
		fields = append(fields, "description")
	}
	if r.Tags != nil {
		fields = append(fields, "tags")
	}
	if r.Metadata != nil {
		fields = append(fields, "metadata")
	}
	return fields
}

// EntityFilters narrows an entity listing. Zero values mean "no filter".
type EntityFilters struct {
	Type   EntityType `json:"type,omitempty"`
	Tags   []string   `json:"tags,omitempty"`
	Search string     `json:"search,omitempty"`
}

// Empty reports whether no filter is set.
func (f EntityFilters) Empty() bool {
	return f.Type == "" && len(f.Tags) == 0 && strings.TrimSpace(f.Search) == ""
}

// EntityQuery is the full input of a project entity listing.
type EntityQuery struct {
	ProjectID int64
	Filters   EntityFilters
	Page      int
	Size      int
}
