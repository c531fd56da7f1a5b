// Package users wraps the backend's user management endpoints.
package users

import (
	"context"
	"net/url"
	"strconv"

	"github.com/pkg/errors"

	"github.com/confiance/confiance-go/apiclient"
)

// User statuses.
const (
	StatusActive    = "ACTIVE"
	StatusInactive  = "INACTIVE"
	StatusSuspended = "SUSPENDED"
	StatusDeleted   = "DELETED"
)

// User is the backend's user record.
type User struct {
	ID          int64    `json:"id"`
	Email       string   `json:"email"`
	Name        string   `json:"name,omitempty"`
	Status      string   `json:"status,omitempty"`
	Roles       []string `json:"roles,omitempty"`
	Permissions []string `json:"permissions,omitempty"`
}

// RegisterRequest carries the sign-up form fields.
type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Phone    string `json:"phone,omitempty"`
}

// UpdateRequest carries the mutable profile fields.
type UpdateRequest struct {
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
	Phone string `json:"phone,omitempty"`
}

// Page is a paginated user listing.
type Page struct {
	Content       []User `json:"content"`
	Page          int    `json:"page"`
	Size          int    `json:"size"`
	TotalElements int64  `json:"totalElements"`
}

type Service struct {
	client *apiclient.Client
}

func New(client *apiclient.Client) *Service {
	return &Service{client: client}
}

func (s *Service) Register(ctx context.Context, req RegisterRequest) (*User, error) {
	env, err := s.client.Post(ctx, apiclient.EndpointUsersRegister, req)
	if err != nil {
		return nil, errors.Wrap(err, "[Service.Register] post")
	}
	var user User
	if err := env.DecodeData(&user); err != nil {
		return nil, errors.Wrap(err, "[Service.Register] decode data")
	}
	return &user, nil
}

func (s *Service) Get(ctx context.Context, userID int64) (*User, error) {
	env, err := s.client.Get(ctx, apiclient.UserPath(userID))
	if err != nil {
		return nil, errors.Wrap(err, "[Service.Get] get")
	}
	var user User
	if err := env.DecodeData(&user); err != nil {
		return nil, errors.Wrap(err, "[Service.Get] decode data")
	}
	return &user, nil
}

// Info fetches the authentication-oriented view of a user.
func (s *Service) Info(ctx context.Context, userID int64) (*User, error) {
	env, err := s.client.Get(ctx, apiclient.UserInfoPath(userID))
	if err != nil {
		return nil, errors.Wrap(err, "[Service.Info] get")
	}
	var user User
	if err := env.DecodeData(&user); err != nil {
		return nil, errors.Wrap(err, "[Service.Info] decode data")
	}
	return &user, nil
}

func (s *Service) Update(ctx context.Context, userID int64, req UpdateRequest) (*User, error) {
	env, err := s.client.Put(ctx, apiclient.UserPath(userID), req)
	if err != nil {
		return nil, errors.Wrap(err, "[Service.Update] put")
	}
	var user User
	if err := env.DecodeData(&user); err != nil {
		return nil, errors.Wrap(err, "[Service.Update] decode data")
	}
	return &user, nil
}

func (s *Service) Delete(ctx context.Context, userID int64) error {
	if _, err := s.client.Delete(ctx, apiclient.UserPath(userID)); err != nil {
		return errors.Wrap(err, "[Service.Delete] delete")
	}
	return nil
}

func (s *Service) List(ctx context.Context, page, size int) (*Page, error) {
	env, err := s.client.Get(ctx, apiclient.EndpointUsersList, apiclient.WithQuery(pageQuery(page, size)))
	if err != nil {
		return nil, errors.Wrap(err, "[Service.List] get")
	}
	var listing Page
	if err := env.DecodeData(&listing); err != nil {
		return nil, errors.Wrap(err, "[Service.List] decode data")
	}
	return &listing, nil
}

// ValidateCredentials checks an email/password pair without creating a
// session.
func (s *Service) ValidateCredentials(ctx context.Context, email, password string) (bool, error) {
	body := map[string]string{"email": email, "password": password}
	env, err := s.client.Post(ctx, apiclient.EndpointUsersValidateCredentials, body)
	if err != nil {
		return false, errors.Wrap(err, "[Service.ValidateCredentials] post")
	}
	return env.Success, nil
}

func (s *Service) AddRole(ctx context.Context, userID int64, role string) error {
	if _, err := s.client.Post(ctx, apiclient.UserRolesPath(userID), map[string]string{"role": role}); err != nil {
		return errors.Wrap(err, "[Service.AddRole] post")
	}
	return nil
}

func (s *Service) RemoveRole(ctx context.Context, userID int64, role string) error {
	query := url.Values{"role": {role}}
	if _, err := s.client.Delete(ctx, apiclient.UserRolesPath(userID), apiclient.WithQuery(query)); err != nil {
		return errors.Wrap(err, "[Service.RemoveRole] delete")
	}
	return nil
}

func pageQuery(page, size int) url.Values {
	if page < 0 {
		page = apiclient.DefaultPage
	}
	if size <= 0 {
		size = apiclient.DefaultSize
	}
	return url.Values{
		"page": {strconv.Itoa(page)},
		"size": {strconv.Itoa(size)},
	}
}
