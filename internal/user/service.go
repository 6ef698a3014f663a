package user

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Nasaee/go-todo-lists/internal/form"
	"golang.org/x/crypto/bcrypt"
)

// bcrypt refuses passwords longer than this many bytes.
const maxPasswordBytes = 72

var (
	ErrUsernameTaken      = errors.New("a user with that username already exists")
	ErrInvalidCredentials = errors.New("please enter a correct username and password")
)

type UserService interface {
	Register(ctx context.Context, in RegisterInput) (*User, error)
	Authenticate(ctx context.Context, in LoginInput) (*User, error)
	Get(ctx context.Context, id int64) (*User, error)
}

type service struct {
	repo UserRepository
	cost int
}

func NewService(repo UserRepository) UserService {
	return &service{repo: repo, cost: bcrypt.DefaultCost}
}

// NewServiceWithCost is NewService with a custom bcrypt cost; tests use bcrypt.MinCost.
func NewServiceWithCost(repo UserRepository, cost int) UserService {
	return &service{repo: repo, cost: cost}
}

func (s *service) Register(ctx context.Context, in RegisterInput) (*User, error) {
	in.Username = strings.TrimSpace(in.Username)
	if err := form.Validate(in); err != nil {
		return nil, err
	}
	// validator counts characters, bcrypt counts bytes
	if len(in.Password) > maxPasswordBytes {
		return nil, form.FieldError("password1", fmt.Sprintf("Ensure this value has at most %d bytes.", maxPasswordBytes))
	}

	// check duplicate username
	_, err := s.repo.FindByUsername(ctx, in.Username)
	if err == nil {
		return nil, ErrUsernameTaken
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.cost)
	if err != nil {
		return nil, err
	}

	u := &User{
		Username: in.Username,
		Password: string(hash),
	}

	if err := s.repo.Create(ctx, u); err != nil {
		return nil, err
	}

	return u, nil
}

func (s *service) Authenticate(ctx context.Context, in LoginInput) (*User, error) {
	in.Username = strings.TrimSpace(in.Username)
	if err := form.Validate(in); err != nil {
		return nil, err
	}

	u, err := s.repo.FindByUsername(ctx, in.Username)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(in.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return u, nil
}

func (s *service) Get(ctx context.Context, id int64) (*User, error) {
	return s.repo.FindByID(ctx, id)
}
