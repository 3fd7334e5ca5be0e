package dto

import "time"

// CreateTicketRequest opens a new drop-off ticket for the customer matching
// the dni.
type CreateTicketRequest struct {
	DNI         string         `json:"dni" validate:"required"`
	Items       map[string]int `json:"items" validate:"dive,gte=0"`
	Description string         `json:"description"`
}

// UpdateTicketStateRequest moves a single ticket to a new state.
type UpdateTicketStateRequest struct {
	State int `json:"state" validate:"required,min=1,max=4"`
}

// BulkUpdateStateRequest moves a batch of tickets to a new state.
type BulkUpdateStateRequest struct {
	IDs   []string `json:"ids" validate:"required,min=1,dive,required"`
	State int      `json:"state" validate:"required,min=1,max=4"`
}

// TicketResponse is the joined ticket view.
type TicketResponse struct {
	ID          string         `json:"id"`
	UID         string         `json:"uid"`
	UserName    string         `json:"user_name"`
	UserDNI     string         `json:"user_dni"`
	State       int            `json:"state"`
	StateLabel  string         `json:"state_label"`
	Date        time.Time      `json:"date"`
	UpdatedAt   *time.Time     `json:"updated_at,omitempty"`
	Description string         `json:"description,omitempty"`
	Items       map[string]int `json:"items,omitempty"`
	Selected    bool           `json:"selected"`
}

// TicketListResponse is one page of the filtered joined view.
type TicketListResponse struct {
	Items     []TicketResponse `json:"items"`
	Page      int              `json:"page"`
	PageSize  int              `json:"page_size"`
	Total     int              `json:"total"`
	FeedError string           `json:"feed_error,omitempty"`
}

// BulkUpdateStateResponse reports the per-id outcome of a bulk transition.
type BulkUpdateStateResponse struct {
	Updated  int               `json:"updated"`
	Failures map[string]string `json:"failures,omitempty"`
}
