package services

import (
	"context"
	"fmt"
	"net/mail"
	"strings"

	"github.com/Dosada05/hackathon-hub/applog"
	"github.com/Dosada05/hackathon-hub/models"
	"github.com/Dosada05/hackathon-hub/repositories"
)

const userLogSource = "UserService"

type UserService interface {
	SyncIdentity(ctx context.Context, input IdentityInput) (*models.User, error)
	GetUser(ctx context.Context, id int) (*models.User, error)
	ListUsers(ctx context.Context, filter models.UserFilter) (models.UserListResponse, error)
	UpdateRoles(ctx context.Context, actor *models.User, userID int, input UpdateRolesInput) (*models.User, error)
}

// IdentityInput is what the identity provider asserts about the signed-in user.
type IdentityInput struct {
	Email string
	Name  string
	Image *string
}

type UpdateRolesInput struct {
	IsAdmin *bool `json:"isAdmin"`
	IsJudge *bool `json:"isJudge"`
}

type userService struct {
	userRepo repositories.UserRepository
	logger   applog.Logger
}

func NewUserService(userRepo repositories.UserRepository, logger applog.Logger) UserService {
	return &userService{userRepo: userRepo, logger: logger}
}

func (s *userService) SyncIdentity(ctx context.Context, input IdentityInput) (*models.User, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if _, err := mail.ParseAddress(email); err != nil || email == "" {
		return nil, fmt.Errorf("%w: identity has no valid email", ErrValidationFailed)
	}
	name := strings.TrimSpace(input.Name)
	if name == "" {
		name = strings.SplitN(email, "@", 2)[0]
	}

	user := &models.User{Email: email, Name: name, Image: input.Image}
	if err := s.userRepo.UpsertByEmail(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to sync user %s: %w", email, err)
	}
	return user, nil
}

func (s *userService) GetUser(ctx context.Context, id int) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, nil, id)
	if err != nil {
		return nil, mapRepoErr(err, map[error]error{repositories.ErrUserNotFound: ErrUserNotFound})
	}
	return user, nil
}

func (s *userService) ListUsers(ctx context.Context, filter models.UserFilter) (models.UserListResponse, error) {
	users, total, err := s.userRepo.List(ctx, filter)
	if err != nil {
		return models.UserListResponse{}, fmt.Errorf("failed to list users: %w", err)
	}
	return models.UserListResponse{
		Users:      users,
		TotalCount: total,
		Limit:      filter.Limit,
		Offset:     filter.Offset,
	}, nil
}

// UpdateRoles toggles role flags. Admins cannot revoke their own admin flag.
func (s *userService) UpdateRoles(ctx context.Context, actor *models.User, userID int, input UpdateRolesInput) (*models.User, error) {
	if actor == nil || !actor.IsAdmin {
		return nil, ErrForbiddenOperation
	}
	fields := applog.Fields{"userId": userID, "actorId": actor.ID}

	target, err := s.GetUser(ctx, userID)
	if err != nil {
		finishOperation(ctx, s.logger, userLogSource, "update_roles", fields, err)
		return nil, err
	}

	isAdmin, isJudge := target.IsAdmin, target.IsJudge
	if input.IsAdmin != nil {
		isAdmin = *input.IsAdmin
	}
	if input.IsJudge != nil {
		isJudge = *input.IsJudge
	}
	if actor.ID == userID && target.IsAdmin && !isAdmin {
		finishOperation(ctx, s.logger, userLogSource, "update_roles", fields, ErrForbiddenOperation)
		return nil, ErrForbiddenOperation
	}

	updated, err := s.userRepo.UpdateRoles(ctx, userID, isAdmin, isJudge)
	err = mapRepoErr(err, map[error]error{repositories.ErrUserNotFound: ErrUserNotFound})
	fields["isAdmin"], fields["isJudge"] = isAdmin, isJudge
	finishOperation(ctx, s.logger, userLogSource, "update_roles", fields, err)
	if err != nil {
		return nil, err
	}
	return updated, nil
}
