package types

// Project is a top-level container representing one fictional world.
// It is owned by exactly one user; ownership is enforced by the API.
type Project struct {
	// ID is the unique identifier of the project.
	ID int64 `json:"id"`

	// Name is the human-readable title of the world.
	Name string `json:"name"`

	// Description is an optional free-form synopsis.
	Description string `json:"description,omitempty"`

	// CreatedAt is the timestamp at which the project was created.
	CreatedAt Timestamp `json:"createdAt"`

	// UpdatedAt is refreshed by the API on every mutation.
	UpdatedAt Timestamp `json:"updatedAt"`
}

// GetID returns the project identifier.
func (p Project) GetID() int64 { return p.ID }

// ProjectStats is a read-only aggregate recomputed by the API per request.
type ProjectStats struct {
	ID                int64                `json:"id"`
	Name              string               `json:"name"`
	Description       string               `json:"description,omitempty"`
	EntityCount       int64                `json:"entityCount"`
	EntityCountByType map[EntityType]int64 `json:"entityCountByType"`
	CreatedAt         Timestamp            `json:"createdAt"`
	UpdatedAt         Timestamp            `json:"updatedAt"`
}

// Consistent reports whether the per-type counts sum to EntityCount.
func (s ProjectStats) Consistent() bool {
	var sum int64
	for _, n := range s.EntityCountByType {
		sum += n
	}
	return sum == s.EntityCount
}

// CreateProjectRequest is the payload for POST /projects.
type CreateProjectRequest struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// UpdateProjectRequest is the payload for PUT /projects/{id}.
// Nil fields are left unchanged.
type UpdateProjectRequest struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
}

// Fields lists the names of the fields set on the request.
func (r UpdateProjectRequest) Fields() []string {
	fields := make([]string, 0, 2)
	if r.Name != nil {
		fields = append(fields, "name")
	}
	if r.Description != nil {
		fields = append(fields, "description")
	}
	return fields
}
