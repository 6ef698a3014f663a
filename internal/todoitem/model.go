package todoitem

import "time"

type ToDoItem struct {
	ID          int64      `json:"id"`
	TodoListID  int64      `json:"todo_list_id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	DueDate     *time.Time `json:"due_date,omitempty"`
	IsCompleted bool       `json:"is_completed"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
