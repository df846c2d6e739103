package server

// CreateProjectRequest is the body of POST /api/projects. Omitted dates and
// tasks are derived from the goal text; omitted tags are inferred.
type CreateProjectRequest struct {
	Goal        string   `json:"goal" validate:"required"`
	StartDate   string   `json:"start_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	EndDate     string   `json:"end_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	Tasks       []string `json:"tasks,omitempty" validate:"dive,required"`
	Tags        []string `json:"tags,omitempty" validate:"omitempty,dive,required"`
	ContextDate string   `json:"context_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
}

// UpdateProjectRequest is the body of PATCH /api/projects/{id}; nil fields
// are left unchanged.
type UpdateProjectRequest struct {
	Goal      *string `json:"goal,omitempty" validate:"omitempty,min=1"`
	StartDate *string `json:"start_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	EndDate   *string `json:"end_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	Reward    *string `json:"reward,omitempty"`
}

// TaskRequest is the body of POST /api/projects/{id}/tasks
type TaskRequest struct {
	Task string `json:"task" validate:"required"`
}

// TagRequest names a tag
type TagRequest struct {
	Name string `json:"name" validate:"required"`
}

// FocusRequest logs a focus session
type FocusRequest struct {
	Minutes   int    `json:"minutes" validate:"gt=0,lte=1440"`
	ProjectID string `json:"project_id,omitempty"`
}

// CountResponse reports how many items an operation touched
type CountResponse struct {
	Count int `json:"count"`
}

// ErrorResponse is the body of every non-2xx JSON response
type ErrorResponse struct {
	Error string `json:"error"`
}
