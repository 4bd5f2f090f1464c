package apiclient

import (
	"context"
	"fmt"
	"net/http"

	"github.com/jakechorley/volunteer-connect/pkg/core/model"
)

// EventCreateRequest is the body of POST /events
type EventCreateRequest struct {
	Title          string `json:"title"`
	Description    string `json:"description"`
	EventDate      string `json:"eventDate"`
	Location       string `json:"location"`
	Capacity       int    `json:"capacity"`
	RequiredSkills string `json:"requiredSkills"`
	OrganizationID *int64 `json:"organizationId,omitempty"`
	Active         bool   `json:"active"`
}

func (c *Client) ListEvents(ctx context.Context) ([]model.Event, error) {
	var events []model.Event
	if err := c.doJSON(ctx, c.authed, http.MethodGet, "/events", nil, &events); err != nil {
		return nil, err
	}
	if events == nil {
		events = []model.Event{}
	}
	return events, nil
}

func (c *Client) GetEvent(ctx context.Context, id int64) (*model.Event, error) {
	var event model.Event
	if err := c.doJSON(ctx, c.authed, http.MethodGet, fmt.Sprintf("/events/%d", id), nil, &event); err != nil {
		return nil, err
	}
	return &event, nil
}

func (c *Client) CreateEvent(ctx context.Context, req EventCreateRequest) (*model.Event, error) {
	var event model.Event
	if err := c.doJSON(ctx, c.authed, http.MethodPost, "/events", req, &event); err != nil {
		return nil, err
	}
	return &event, nil
}

// RegisterForEvent registers the current user and returns the updated event
func (c *Client) RegisterForEvent(ctx context.Context, id int64) (*model.Event, error) {
	var event model.Event
	if err := c.doJSON(ctx, c.authed, http.MethodPost, fmt.Sprintf("/events/%d/register", id), nil, &event); err != nil {
		return nil, err
	}
	return &event, nil
}
