package services

import (
	"context"

	"go.uber.org/zap"

	"github.com/jakechorley/volunteer-connect/pkg/core/model"
	"github.com/jakechorley/volunteer-connect/pkg/session"
)

const (
	fetchOrganizationsFailedMessage     = "Error fetching organizations."
	fetchOrganizationsUnexpectedMessage = "An unexpected error occurred while fetching organizations."
)

// OrganizationsClient defines the organization operations needed
type OrganizationsClient interface {
	ListOrganizations(ctx context.Context) ([]model.Organization, error)
}

// ListOrganizations returns the organizations events can be created under
func ListOrganizations(ctx context.Context, client OrganizationsClient, store *session.Store, logger *zap.Logger) ([]model.Organization, error) {
	orgs, err := client.ListOrganizations(ctx)
	if err != nil {
		return nil, callFailure(ctx, store, logger, err, fetchOrganizationsFailedMessage, fetchOrganizationsUnexpectedMessage)
	}
	logger.Debug("Fetched organizations", zap.Int("count", len(orgs)))
	return orgs, nil
}
