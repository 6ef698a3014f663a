package todoitem_test

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"testing"

	"github.com/Nasaee/go-todo-lists/internal/todoitem"
	"github.com/Nasaee/go-todo-lists/internal/web"
)

func params(listID, itemID int64) map[string]string {
	p := map[string]string{"list_id": strconv.FormatInt(listID, 10)}
	if itemID != 0 {
		p["pk"] = strconv.FormatInt(itemID, 10)
	}
	return p
}

func TestHandlerCreateFlow(t *testing.T) {
	f := newFixture()
	h := todoitem.NewHandler(f.items, f.lists)
	ctx := context.Background()
	l := f.list(t, 1, "Groceries")

	form := h.CreateForm(ctx, web.Request{UserID: 1, Params: params(l.ID, 0)})
	if form.Template != "item_form.html" {
		t.Fatalf("expected item form, got %+v", form)
	}
	page := form.Data.(todoitem.FormPage)
	if page.Input.TodoListID != l.ID || page.List.ID != l.ID || len(page.Choices) != 1 {
		t.Fatalf("form not pre-populated with list: %+v", page)
	}

	resp := h.Create(ctx, web.Request{UserID: 1, Params: params(l.ID, 0), Form: url.Values{
		"todo_list": {strconv.FormatInt(l.ID, 10)},
		"title":     {"Milk"},
	}})
	if resp.RedirectTo != "/list/1/" {
		t.Fatalf("expected redirect to list, got %+v", resp)
	}

	bad := h.Create(ctx, web.Request{UserID: 1, Params: params(l.ID, 0), Form: url.Values{"title": {""}}})
	if bad.Status != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %+v", bad)
	}
	if bad.Data.(todoitem.FormPage).Errors["title"] == "" {
		t.Fatal("expected title error")
	}
}

func TestHandlerListNotFound(t *testing.T) {
	f := newFixture()
	h := todoitem.NewHandler(f.items, f.lists)
	ctx := context.Background()
	l := f.list(t, 1, "Groceries")

	if resp := h.List(ctx, web.Request{UserID: 1, Params: params(l.ID, 0)}); resp.Template != "list.html" {
		t.Fatalf("expected list page, got %+v", resp)
	}
	if resp := h.List(ctx, web.Request{UserID: 2, Params: params(l.ID, 0)}); resp.Status != http.StatusNotFound {
		t.Fatalf("expected 404 for another user, got %+v", resp)
	}
	if resp := h.List(ctx, web.Request{UserID: 1, Params: map[string]string{"list_id": "nope"}}); resp.Status != http.StatusNotFound {
		t.Fatalf("expected 404 for bad id, got %+v", resp)
	}
}

func TestHandlerUpdateRedirectsToNewList(t *testing.T) {
	f := newFixture()
	h := todoitem.NewHandler(f.items, f.lists)
	ctx := context.Background()
	groceries := f.list(t, 1, "Groceries")
	chores := f.list(t, 1, "Chores")

	it, err := f.items.Create(ctx, 1, groceries.ID, todoitem.ItemInput{Title: "Milk"})
	if err != nil {
		t.Fatal(err)
	}

	edit := h.UpdateForm(ctx, web.Request{UserID: 1, Params: params(groceries.ID, it.ID)})
	if edit.Data.(todoitem.FormPage).Input.Title != "Milk" {
		t.Fatalf("edit form not pre-filled: %+v", edit)
	}

	resp := h.Update(ctx, web.Request{UserID: 1, Params: params(groceries.ID, it.ID), Form: url.Values{
		"todo_list":    {strconv.FormatInt(chores.ID, 10)},
		"title":        {"Milk"},
		"is_completed": {"on"},
	}})
	if resp.RedirectTo != "/list/2/" {
		t.Fatalf("expected redirect to the new list, got %+v", resp)
	}
}

func TestHandlerDelete(t *testing.T) {
	f := newFixture()
	h := todoitem.NewHandler(f.items, f.lists)
	ctx := context.Background()
	l := f.list(t, 1, "Groceries")

	it, err := f.items.Create(ctx, 1, l.ID, todoitem.ItemInput{Title: "Milk"})
	if err != nil {
		t.Fatal(err)
	}

	confirm := h.ConfirmDelete(ctx, web.Request{UserID: 1, Params: params(l.ID, it.ID)})
	if confirm.Data.(web.ConfirmDeletePage).Object != "Milk" {
		t.Fatalf("unexpected confirm page %+v", confirm)
	}

	if resp := h.Delete(ctx, web.Request{UserID: 1, Params: params(l.ID, it.ID)}); resp.RedirectTo != "/list/1/" {
		t.Fatalf("expected redirect to list, got %+v", resp)
	}
	if resp := h.Delete(ctx, web.Request{UserID: 1, Params: params(l.ID, it.ID)}); resp.Status != http.StatusNotFound {
		t.Fatalf("expected 404 on second delete, got %+v", resp)
	}
}
