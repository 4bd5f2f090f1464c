package apiclient

import (
	"context"
	"net/http"

	"github.com/jakechorley/volunteer-connect/pkg/core/model"
)

func (c *Client) ListOrganizations(ctx context.Context) ([]model.Organization, error) {
	var orgs []model.Organization
	if err := c.doJSON(ctx, c.authed, http.MethodGet, "/organizations", nil, &orgs); err != nil {
		return nil, err
	}
	if orgs == nil {
		orgs = []model.Organization{}
	}
	return orgs, nil
}
