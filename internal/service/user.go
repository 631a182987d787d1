package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/duong1906ltv/website/internal/model"
	"github.com/duong1906ltv/website/internal/repository"
	"github.com/duong1906ltv/website/internal/validation"
)

type UserService struct {
	userRepository repository.UserRepository
}

func NewUserService(userRepository repository.UserRepository) *UserService {
	return &UserService{
		userRepository: userRepository,
	}
}

func (s *UserService) ByID(ctx context.Context, id int64) (*model.User, error) {
	user, err := s.userRepository.ByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

func (s *UserService) ByUsername(ctx context.Context, username string) (*model.User, error) {
	user, err := s.userRepository.ByUsername(ctx, validation.NormalizeUsername(username))
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

// Ping records that the user was just seen
func (s *UserService) Ping(ctx context.Context, user *model.User) error {
	now := time.Now().UTC()
	err := s.userRepository.Ping(ctx, user.ID, now)
	if err != nil {
		return fmt.Errorf("failed to update last seen: %w", err)
	}
	user.LastSeen = now
	return nil
}

func (s *UserService) UpdateProfile(ctx context.Context, user *model.User, form validation.ProfileForm) error {
	form.Name = strings.TrimSpace(form.Name)
	form.Location = strings.TrimSpace(form.Location)
	form.AboutMe = strings.TrimSpace(form.AboutMe)

	err := validation.ValidateForm(form)
	if err != nil {
		return ValidationError(err.Error())
	}

	user.Name = form.Name
	user.Location = form.Location
	user.AboutMe = form.AboutMe

	err = s.userRepository.UpdateProfile(ctx, user)
	if err != nil {
		return fmt.Errorf("failed to update profile: %w", err)
	}
	return nil
}
