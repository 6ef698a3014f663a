package todoitem

import (
	"context"
	"errors"
	"strings"

	"github.com/Nasaee/go-todo-lists/internal/form"
	"github.com/Nasaee/go-todo-lists/internal/todolist"
)

// ListLookup finds a list only if it belongs to ownerID.
type ListLookup interface {
	GetByID(ctx context.Context, id, ownerID int64) (*todolist.ToDoList, error)
}

// Service is the business logic layer for items. Every call is scoped to
// the list in the request path and the list must belong to userID, so
// ownership is enforced through the parent list.
type Service interface {
	ListByList(ctx context.Context, userID, listID int64) (*todolist.ToDoList, []ToDoItem, error)
	Get(ctx context.Context, userID, listID, itemID int64) (*ToDoItem, error)
	Create(ctx context.Context, userID, listID int64, in ItemInput) (*ToDoItem, error)
	Update(ctx context.Context, userID, listID, itemID int64, in ItemInput) (*ToDoItem, error)
	Delete(ctx context.Context, userID, listID, itemID int64) error
}

type service struct {
	repo  ItemRepository
	lists ListLookup
}

func NewService(repo ItemRepository, lists ListLookup) Service {
	return &service{repo: repo, lists: lists}
}

func (s *service) ListByList(ctx context.Context, userID, listID int64) (*todolist.ToDoList, []ToDoItem, error) {
	l, err := s.lists.GetByID(ctx, listID, userID)
	if err != nil {
		return nil, nil, err
	}

	items, err := s.repo.ListByList(ctx, l.ID)
	if err != nil {
		return nil, nil, err
	}

	return l, items, nil
}

func (s *service) Get(ctx context.Context, userID, listID, itemID int64) (*ToDoItem, error) {
	if _, err := s.lists.GetByID(ctx, listID, userID); err != nil {
		return nil, err
	}

	it, err := s.repo.GetByID(ctx, itemID, userID)
	if err != nil {
		return nil, err
	}

	// the item must live in the list named by the path
	if it.TodoListID != listID {
		return nil, ErrNotFound
	}

	return it, nil
}

// ===== validate =====

// validate normalises and checks in, and confirms the target list is owned
// by userID.
func (s *service) validate(ctx context.Context, userID int64, in *ItemInput) error {
	in.Title = strings.TrimSpace(in.Title)
	in.Description = strings.TrimSpace(in.Description)

	if err := form.Validate(*in); err != nil {
		return err
	}

	if _, err := s.lists.GetByID(ctx, in.TodoListID, userID); err != nil {
		if errors.Is(err, todolist.ErrNotFound) {
			return form.FieldError("todo_list", "Select a valid choice. That list is not one of yours.")
		}
		return err
	}

	return nil
}

// ===== Create =====

func (s *service) Create(ctx context.Context, userID, listID int64, in ItemInput) (*ToDoItem, error) {
	if _, err := s.lists.GetByID(ctx, listID, userID); err != nil {
		return nil, err
	}

	// todo_list is pre-populated from the path
	if in.TodoListID == 0 {
		in.TodoListID = listID
	}

	if err := s.validate(ctx, userID, &in); err != nil {
		return nil, err
	}

	due, err := in.dueDate()
	if err != nil {
		return nil, form.FieldError("due_date", "Enter a valid date (YYYY-MM-DD).")
	}

	it := &ToDoItem{
		TodoListID:  in.TodoListID,
		Title:       in.Title,
		Description: in.Description,
		DueDate:     due,
		IsCompleted: in.IsCompleted,
	}

	if err := s.repo.Create(ctx, it); err != nil {
		return nil, err
	}

	return it, nil
}

// ===== Update =====

func (s *service) Update(ctx context.Context, userID, listID, itemID int64, in ItemInput) (*ToDoItem, error) {
	existing, err := s.Get(ctx, userID, listID, itemID)
	if err != nil {
		return nil, err
	}

	if err := s.validate(ctx, userID, &in); err != nil {
		return nil, err
	}

	due, err := in.dueDate()
	if err != nil {
		return nil, form.FieldError("due_date", "Enter a valid date (YYYY-MM-DD).")
	}

	existing.TodoListID = in.TodoListID
	existing.Title = in.Title
	existing.Description = in.Description
	existing.DueDate = due
	existing.IsCompleted = in.IsCompleted

	if err := s.repo.Update(ctx, existing); err != nil {
		return nil, err
	}

	return existing, nil
}

// ===== Delete =====

func (s *service) Delete(ctx context.Context, userID, listID, itemID int64) error {
	if _, err := s.lists.GetByID(ctx, listID, userID); err != nil {
		return err
	}
	return s.repo.Delete(ctx, itemID, listID)
}
