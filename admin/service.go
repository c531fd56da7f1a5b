// Package admin wraps the permission management endpoints. All of them are
// backend-authorized; the client-side gates in authz/guard only decide what
// to show.
package admin

import (
	"context"

	"github.com/pkg/errors"

	"github.com/confiance/confiance-go/apiclient"
)

type Service struct {
	client *apiclient.Client
}

func New(client *apiclient.Client) *Service {
	return &Service{client: client}
}

type permissionsRequest struct {
	UserID      int64    `json:"userId"`
	Permissions []string `json:"permissions"`
}

// AvailablePermissions lists every permission the platform knows.
func (s *Service) AvailablePermissions(ctx context.Context) ([]string, error) {
	env, err := s.client.Get(ctx, apiclient.EndpointAdminPermissionsAvailable)
	if err != nil {
		return nil, errors.Wrap(err, "[Service.AvailablePermissions] get")
	}
	var permissions []string
	if err := env.DecodeData(&permissions); err != nil {
		return nil, errors.Wrap(err, "[Service.AvailablePermissions] decode data")
	}
	return permissions, nil
}

// UserPermissions lists the permissions granted to a user.
func (s *Service) UserPermissions(ctx context.Context, userID int64) ([]string, error) {
	env, err := s.client.Get(ctx, apiclient.AdminUserPermissionsPath(userID))
	if err != nil {
		return nil, errors.Wrap(err, "[Service.UserPermissions] get")
	}
	var permissions []string
	if err := env.DecodeData(&permissions); err != nil {
		return nil, errors.Wrap(err, "[Service.UserPermissions] decode data")
	}
	return permissions, nil
}

func (s *Service) Grant(ctx context.Context, userID int64, permissions []string) error {
	body := permissionsRequest{UserID: userID, Permissions: permissions}
	if _, err := s.client.Post(ctx, apiclient.EndpointAdminPermissionsGrant, body); err != nil {
		return errors.Wrap(err, "[Service.Grant] post")
	}
	return nil
}

func (s *Service) Revoke(ctx context.Context, userID int64, permissions []string) error {
	body := permissionsRequest{UserID: userID, Permissions: permissions}
	if _, err := s.client.Post(ctx, apiclient.EndpointAdminPermissionsRevoke, body); err != nil {
		return errors.Wrap(err, "[Service.Revoke] post")
	}
	return nil
}

// SetUserPermissions replaces a user's permission set wholesale.
func (s *Service) SetUserPermissions(ctx context.Context, userID int64, permissions []string) error {
	if _, err := s.client.Put(ctx, apiclient.AdminUserPermissionsPath(userID), permissions); err != nil {
		return errors.Wrap(err, "[Service.SetUserPermissions] put")
	}
	return nil
}

// HasPermission asks the backend whether a user holds a permission.
func (s *Service) HasPermission(ctx context.Context, userID int64, permission string) (bool, error) {
	env, err := s.client.Get(ctx, apiclient.AdminUserHasPermissionPath(userID, permission))
	if err != nil {
		return false, errors.Wrap(err, "[Service.HasPermission] get")
	}
	var has bool
	if err := env.DecodeData(&has); err != nil {
		return false, errors.Wrap(err, "[Service.HasPermission] decode data")
	}
	return has, nil
}
