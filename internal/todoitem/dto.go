package todoitem

import (
	"net/url"
	"strconv"
	"strings"
	"time"
)

const dateLayout = "2006-01-02"

// ItemInput is the submitted item form, used for both create and update.
type ItemInput struct {
	TodoListID  int64  `form:"todo_list" validate:"required,gt=0"`
	Title       string `form:"title" validate:"required,max=100"`
	Description string `form:"description" validate:"max=1000"`
	DueDate     string `form:"due_date" validate:"omitempty,datetime=2006-01-02"`
	IsCompleted bool   `form:"is_completed"`
}

// InputFromForm reads an ItemInput from posted form values. An unparsable
// todo_list is left at zero so validation reports it.
func InputFromForm(v url.Values) ItemInput {
	listID, _ := strconv.ParseInt(strings.TrimSpace(v.Get("todo_list")), 10, 64)
	return ItemInput{
		TodoListID:  listID,
		Title:       v.Get("title"),
		Description: v.Get("description"),
		DueDate:     strings.TrimSpace(v.Get("due_date")),
		IsCompleted: checkbox(v.Get("is_completed")),
	}
}

func checkbox(v string) bool {
	switch strings.ToLower(v) {
	case "on", "true", "1", "yes":
		return true
	}
	return false
}

// InputFromItem pre-fills the edit form with an existing item.
func InputFromItem(it *ToDoItem) ItemInput {
	in := ItemInput{
		TodoListID:  it.TodoListID,
		Title:       it.Title,
		Description: it.Description,
		IsCompleted: it.IsCompleted,
	}
	if it.DueDate != nil {
		in.DueDate = it.DueDate.Format(dateLayout)
	}
	return in
}

func (in ItemInput) dueDate() (*time.Time, error) {
	if in.DueDate == "" {
		return nil, nil
	}
	d, err := time.Parse(dateLayout, in.DueDate)
	if err != nil {
		return nil, err
	}
	return &d, nil
}
