package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/forgo/notes/api/internal/database"
	"github.com/forgo/notes/api/internal/model"
	"golang.org/x/crypto/bcrypt"
)

// bcrypt cost factor (10-14 recommended for production)
const bcryptCost = 10

// UserRepository defines the interface for user storage
type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	GetByID(ctx context.Context, id string) (*model.User, error)
	GetByUsername(ctx context.Context, username string) (*model.User, error)
	GetByIDs(ctx context.Context, ids []string) ([]*model.User, error)
	List(ctx context.Context) ([]*model.User, error)
	Update(ctx context.Context, user *model.User) error
	Delete(ctx context.Context, id string) error
}

// NoteCounter reports how many notes a user owns
type NoteCounter interface {
	CountByUser(ctx context.Context, userID string) (int, error)
}

// UserService manages user accounts
type UserService struct {
	userRepo   UserRepository
	noteRepo   NoteCounter
	bcryptCost int
}

// UserServiceConfig holds configuration for the user service
type UserServiceConfig struct {
	UserRepo   UserRepository
	NoteRepo   NoteCounter
	BcryptCost int // Default: 10
}

// NewUserService creates a new user service
func NewUserService(cfg UserServiceConfig) *UserService {
	if cfg.BcryptCost == 0 {
		cfg.BcryptCost = bcryptCost
	}
	return &UserService{
		userRepo:   cfg.UserRepo,
		noteRepo:   cfg.NoteRepo,
		bcryptCost: cfg.BcryptCost,
	}
}

// List returns every user
func (s *UserService) List(ctx context.Context) ([]*model.User, error) {
	users, err := s.userRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	if len(users) == 0 {
		return nil, ErrNoUsers
	}
	return users, nil
}

// Create creates a user with a hashed password. Usernames are unique
// regardless of case.
func (s *UserService) Create(ctx context.Context, req model.CreateUserRequest) (*model.User, error) {
	if err := validateStruct(req); err != nil {
		return nil, err
	}

	existing, err := s.userRepo.GetByUsername(ctx, req.Username)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrDuplicateUsername
	}

	hash, err := s.hashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	roles := req.Roles
	if len(roles) == 0 {
		roles = model.DefaultRoles()
	}

	user := &model.User{
		Username: req.Username,
		Password: hash,
		Roles:    roles,
		Active:   true,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, database.ErrDuplicate) {
			return nil, ErrDuplicateUsername
		}
		return nil, err
	}
	return user, nil
}

// Update changes a user's username, roles and active flag. The password is
// re-hashed only when a new one is given.
func (s *UserService) Update(ctx context.Context, req model.UpdateUserRequest) (*model.User, error) {
	if err := validateStruct(req); err != nil {
		return nil, err
	}

	user, err := s.userRepo.GetByID(ctx, req.ID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	holder, err := s.userRepo.GetByUsername(ctx, req.Username)
	if err != nil {
		return nil, err
	}
	if holder != nil && holder.ID != user.ID {
		return nil, ErrDuplicateUsername
	}

	user.Username = req.Username
	user.Roles = req.Roles
	user.Active = req.Active
	user.Password = ""
	if req.Password != "" {
		hash, err := s.hashPassword(req.Password)
		if err != nil {
			return nil, err
		}
		user.Password = hash
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		if errors.Is(err, database.ErrDuplicate) {
			return nil, ErrDuplicateUsername
		}
		return nil, err
	}
	return user, nil
}

// Delete removes a user who owns no notes and returns a confirmation
func (s *UserService) Delete(ctx context.Context, req model.DeleteUserRequest) (string, error) {
	if err := validateStruct(req); err != nil {
		return "", err
	}

	user, err := s.userRepo.GetByID(ctx, req.ID)
	if err != nil {
		return "", err
	}
	if user == nil {
		return "", ErrUserNotFound
	}

	count, err := s.noteRepo.CountByUser(ctx, user.ID)
	if err != nil {
		return "", err
	}
	if count > 0 {
		return "", ErrUserHasNotes
	}

	if err := s.userRepo.Delete(ctx, user.ID); err != nil {
		return "", err
	}
	return fmt.Sprintf("Username %s with ID %s deleted", user.Username, user.ID), nil
}

func (s *UserService) hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

// checkPassword verifies a password against a bcrypt hash
func checkPassword(password, hash string) bool {
	if strings.TrimSpace(hash) == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
