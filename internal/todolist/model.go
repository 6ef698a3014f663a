package todolist

import "time"

type ToDoList struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	OwnerID   int64     `json:"owner_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Summary is a list together with the number of its items still open.
type Summary struct {
	ToDoList
	Incomplete int `json:"incomplete"`
}

type CreateListInput struct {
	Title string `form:"title" validate:"required,max=100"`
}
