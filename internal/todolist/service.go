package todolist

import (
	"context"
	"strings"

	"github.com/Nasaee/go-todo-lists/internal/form"
)

type ListService interface {
	ListWithCounts(ctx context.Context, userID int64) ([]Summary, error)
	Get(ctx context.Context, id, userID int64) (*ToDoList, error)
	Create(ctx context.Context, userID int64, input CreateListInput) (*ToDoList, error)
	Delete(ctx context.Context, id, userID int64) error
}

type service struct {
	repo ListRepository
}

func NewService(repo ListRepository) ListService {
	return &service{repo: repo}
}

func (s *service) ListWithCounts(ctx context.Context, userID int64) ([]Summary, error) {
	return s.repo.ListWithCounts(ctx, userID)
}

func (s *service) Get(ctx context.Context, id, userID int64) (*ToDoList, error) {
	return s.repo.GetByID(ctx, id, userID)
}

func (s *service) Create(ctx context.Context, userID int64, input CreateListInput) (*ToDoList, error) {
	input.Title = strings.TrimSpace(input.Title)
	if err := form.Validate(input); err != nil {
		return nil, err
	}

	l := &ToDoList{
		Title:   input.Title,
		OwnerID: userID,
	}

	if err := s.repo.Create(ctx, l); err != nil {
		return nil, err
	}

	return l, nil
}

func (s *service) Delete(ctx context.Context, id, userID int64) error {
	return s.repo.Delete(ctx, id, userID)
}
