// Package memstore keeps users, lists, items and sessions in process memory.
// It backs STORAGE_BACKEND=memory for local runs and serves as the fake
// persistence layer in tests. It mirrors the Postgres schema's rules:
// case-insensitive unique usernames, owner-scoped lookups, and items that
// disappear with their list.
package memstore

import (
	"cmp"
	"context"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/Nasaee/go-todo-lists/internal/auth"
	"github.com/Nasaee/go-todo-lists/internal/todoitem"
	"github.com/Nasaee/go-todo-lists/internal/todolist"
	"github.com/Nasaee/go-todo-lists/internal/user"
)

type session struct {
	userID    int64
	expiresAt time.Time
}

type Store struct {
	mu sync.Mutex

	users    map[int64]user.User
	lists    map[int64]todolist.ToDoList
	items    map[int64]todoitem.ToDoItem
	sessions map[string]session

	lastUserID int64
	lastListID int64
	lastItemID int64

	now func() time.Time
}

func New() *Store {
	return &Store{
		users:    map[int64]user.User{},
		lists:    map[int64]todolist.ToDoList{},
		items:    map[int64]todoitem.ToDoItem{},
		sessions: map[string]session{},
		now:      time.Now,
	}
}

func (s *Store) Users() user.UserRepository     { return userRepo{s} }
func (s *Store) Lists() todolist.ListRepository { return listRepo{s} }
func (s *Store) Items() todoitem.ItemRepository { return itemRepo{s} }
func (s *Store) Sessions() auth.SessionStore    { return sessionStore{s} }

// ---- users ----

type userRepo struct{ s *Store }

func (r userRepo) Create(_ context.Context, u *user.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, existing := range r.s.users {
		if strings.EqualFold(existing.Username, u.Username) {
			return user.ErrUsernameTaken
		}
	}

	r.s.lastUserID++
	now := r.s.now()
	u.ID = r.s.lastUserID
	u.CreatedAt = now
	u.UpdatedAt = now
	r.s.users[u.ID] = *u
	return nil
}

func (r userRepo) FindByUsername(_ context.Context, username string) (*user.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, u := range r.s.users {
		if strings.EqualFold(u.Username, username) {
			return &u, nil
		}
	}
	return nil, user.ErrNotFound
}

func (r userRepo) FindByID(_ context.Context, id int64) (*user.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	u, ok := r.s.users[id]
	if !ok {
		return nil, user.ErrNotFound
	}
	return &u, nil
}

// ---- lists ----

type listRepo struct{ s *Store }

func (r listRepo) Create(_ context.Context, l *todolist.ToDoList) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	r.s.lastListID++
	now := r.s.now()
	l.ID = r.s.lastListID
	l.CreatedAt = now
	l.UpdatedAt = now
	r.s.lists[l.ID] = *l
	return nil
}

func (r listRepo) GetByID(_ context.Context, id, ownerID int64) (*todolist.ToDoList, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	l, ok := r.s.lists[id]
	if !ok || l.OwnerID != ownerID {
		return nil, todolist.ErrNotFound
	}
	return &l, nil
}

func (r listRepo) ListWithCounts(_ context.Context, ownerID int64) ([]todolist.Summary, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	open := map[int64]int{}
	for _, it := range r.s.items {
		if !it.IsCompleted {
			open[it.TodoListID]++
		}
	}

	var out []todolist.Summary
	for _, l := range r.s.lists {
		if l.OwnerID == ownerID {
			out = append(out, todolist.Summary{ToDoList: l, Incomplete: open[l.ID]})
		}
	}

	slices.SortFunc(out, func(a, b todolist.Summary) int {
		return cmp.Or(cmp.Compare(a.Title, b.Title), cmp.Compare(a.ID, b.ID))
	})
	return out, nil
}

func (r listRepo) Delete(_ context.Context, id, ownerID int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	l, ok := r.s.lists[id]
	if !ok || l.OwnerID != ownerID {
		return todolist.ErrNotFound
	}

	delete(r.s.lists, id)
	for itemID, it := range r.s.items {
		if it.TodoListID == id {
			delete(r.s.items, itemID)
		}
	}
	return nil
}

// ---- items ----

type itemRepo struct{ s *Store }

func (r itemRepo) Create(_ context.Context, it *todoitem.ToDoItem) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.lists[it.TodoListID]; !ok {
		return todolist.ErrNotFound
	}

	r.s.lastItemID++
	now := r.s.now()
	it.ID = r.s.lastItemID
	it.CreatedAt = now
	it.UpdatedAt = now
	r.s.items[it.ID] = *it
	return nil
}

func (r itemRepo) GetByID(_ context.Context, id, ownerID int64) (*todoitem.ToDoItem, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	it, ok := r.s.items[id]
	if !ok {
		return nil, todoitem.ErrNotFound
	}
	if l, ok := r.s.lists[it.TodoListID]; !ok || l.OwnerID != ownerID {
		return nil, todoitem.ErrNotFound
	}
	return &it, nil
}

func (r itemRepo) ListByList(_ context.Context, listID int64) ([]todoitem.ToDoItem, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var out []todoitem.ToDoItem
	for _, it := range r.s.items {
		if it.TodoListID == listID {
			out = append(out, it)
		}
	}

	// due date ascending with undated items last, then id
	slices.SortFunc(out, func(a, b todoitem.ToDoItem) int {
		switch {
		case a.DueDate == nil && b.DueDate != nil:
			return 1
		case a.DueDate != nil && b.DueDate == nil:
			return -1
		case a.DueDate != nil && b.DueDate != nil:
			if c := a.DueDate.Compare(*b.DueDate); c != 0 {
				return c
			}
		}
		return cmp.Compare(a.ID, b.ID)
	})
	return out, nil
}

func (r itemRepo) Update(_ context.Context, it *todoitem.ToDoItem) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.items[it.ID]; !ok {
		return todoitem.ErrNotFound
	}
	if _, ok := r.s.lists[it.TodoListID]; !ok {
		return todolist.ErrNotFound
	}

	it.UpdatedAt = r.s.now()
	r.s.items[it.ID] = *it
	return nil
}

func (r itemRepo) Delete(_ context.Context, id, listID int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	it, ok := r.s.items[id]
	if !ok || it.TodoListID != listID {
		return todoitem.ErrNotFound
	}
	delete(r.s.items, id)
	return nil
}

// ---- sessions ----

type sessionStore struct{ s *Store }

func (r sessionStore) Save(_ context.Context, sessionID string, userID int64, ttl time.Duration) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	r.s.sessions[sessionID] = session{userID: userID, expiresAt: r.s.now().Add(ttl)}
	return nil
}

func (r sessionStore) Lookup(_ context.Context, sessionID string) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	sess, ok := r.s.sessions[sessionID]
	if !ok {
		return 0, auth.ErrSessionNotFound
	}
	if !r.s.now().Before(sess.expiresAt) {
		delete(r.s.sessions, sessionID)
		return 0, auth.ErrSessionNotFound
	}
	return sess.userID, nil
}

func (r sessionStore) Delete(_ context.Context, sessionID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	delete(r.s.sessions, sessionID)
	return nil
}
