package todoitem

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/Nasaee/go-todo-lists/internal/form"
	"github.com/Nasaee/go-todo-lists/internal/todolist"
	"github.com/Nasaee/go-todo-lists/internal/web"
)

type ListPage struct {
	List  *todolist.ToDoList
	Items []ToDoItem
}

type FormPage struct {
	Heading string
	Action  string
	List    *todolist.ToDoList
	Input   ItemInput
	Choices []todolist.Summary
	Errors  map[string]string
}

type Handler struct {
	svc   Service
	lists todolist.ListService
}

func NewHandler(svc Service, lists todolist.ListService) *Handler {
	return &Handler{svc: svc, lists: lists}
}

func isNotFound(err error) bool {
	return errors.Is(err, ErrNotFound) || errors.Is(err, todolist.ErrNotFound)
}

func listURL(listID int64) string {
	return fmt.Sprintf("/list/%d/", listID)
}

// formPage fills in the parent list and the list choices for the item form.
func (h *Handler) formPage(ctx context.Context, userID, listID int64, page FormPage) (FormPage, error) {
	l, err := h.lists.Get(ctx, listID, userID)
	if err != nil {
		return page, err
	}
	choices, err := h.lists.ListWithCounts(ctx, userID)
	if err != nil {
		return page, err
	}
	page.List = l
	page.Choices = choices
	return page, nil
}

func (h *Handler) renderForm(ctx context.Context, req web.Request, listID int64, status int, page FormPage) web.Response {
	page, err := h.formPage(ctx, req.UserID, listID, page)
	if err != nil {
		if isNotFound(err) {
			return web.NotFound()
		}
		return web.ServerError(ctx, "load item form", err)
	}
	return web.Render(status, "item_form.html", page)
}

// GET /list/{list_id}/
func (h *Handler) List(ctx context.Context, req web.Request) web.Response {
	listID, err := req.ParamInt("list_id")
	if err != nil {
		return web.NotFound()
	}

	l, items, err := h.svc.ListByList(ctx, req.UserID, listID)
	if err != nil {
		if isNotFound(err) {
			return web.NotFound()
		}
		return web.ServerError(ctx, "list todo items", err)
	}

	return web.OK("list.html", ListPage{List: l, Items: items})
}

// GET /list/{list_id}/item/add/
func (h *Handler) CreateForm(ctx context.Context, req web.Request) web.Response {
	listID, err := req.ParamInt("list_id")
	if err != nil {
		return web.NotFound()
	}

	return h.renderForm(ctx, req, listID, http.StatusOK, FormPage{
		Heading: "Create a new item",
		Action:  fmt.Sprintf("/list/%d/item/add/", listID),
		Input:   ItemInput{TodoListID: listID},
	})
}

// POST /list/{list_id}/item/add/
func (h *Handler) Create(ctx context.Context, req web.Request) web.Response {
	listID, err := req.ParamInt("list_id")
	if err != nil {
		return web.NotFound()
	}

	in := InputFromForm(req.Form)
	it, err := h.svc.Create(ctx, req.UserID, listID, in)
	if err != nil {
		if isNotFound(err) {
			return web.NotFound()
		}
		if ve, ok := form.AsValidation(err); ok {
			return h.renderForm(ctx, req, listID, http.StatusUnprocessableEntity, FormPage{
				Heading: "Create a new item",
				Action:  fmt.Sprintf("/list/%d/item/add/", listID),
				Input:   in,
				Errors:  ve.Fields,
			})
		}
		return web.ServerError(ctx, "create todo item", err)
	}

	return web.Redirect(listURL(it.TodoListID))
}

// GET /list/{list_id}/item/{pk}/
func (h *Handler) UpdateForm(ctx context.Context, req web.Request) web.Response {
	listID, itemID, ok := itemParams(req)
	if !ok {
		return web.NotFound()
	}

	it, err := h.svc.Get(ctx, req.UserID, listID, itemID)
	if err != nil {
		if isNotFound(err) {
			return web.NotFound()
		}
		return web.ServerError(ctx, "get todo item", err)
	}

	return h.renderForm(ctx, req, listID, http.StatusOK, FormPage{
		Heading: "Edit item",
		Action:  fmt.Sprintf("/list/%d/item/%d/", listID, itemID),
		Input:   InputFromItem(it),
	})
}

// POST /list/{list_id}/item/{pk}/
func (h *Handler) Update(ctx context.Context, req web.Request) web.Response {
	listID, itemID, ok := itemParams(req)
	if !ok {
		return web.NotFound()
	}

	in := InputFromForm(req.Form)
	it, err := h.svc.Update(ctx, req.UserID, listID, itemID, in)
	if err != nil {
		if isNotFound(err) {
			return web.NotFound()
		}
		if ve, ok := form.AsValidation(err); ok {
			return h.renderForm(ctx, req, listID, http.StatusUnprocessableEntity, FormPage{
				Heading: "Edit item",
				Action:  fmt.Sprintf("/list/%d/item/%d/", listID, itemID),
				Input:   in,
				Errors:  ve.Fields,
			})
		}
		return web.ServerError(ctx, "update todo item", err)
	}

	// the item may have moved to another list
	return web.Redirect(listURL(it.TodoListID))
}

// GET /list/{list_id}/item/{pk}/delete/
func (h *Handler) ConfirmDelete(ctx context.Context, req web.Request) web.Response {
	listID, itemID, ok := itemParams(req)
	if !ok {
		return web.NotFound()
	}

	it, err := h.svc.Get(ctx, req.UserID, listID, itemID)
	if err != nil {
		if isNotFound(err) {
			return web.NotFound()
		}
		return web.ServerError(ctx, "get todo item", err)
	}

	return web.OK("confirm_delete.html", web.ConfirmDeletePage{
		Object: it.Title,
		Action: fmt.Sprintf("/list/%d/item/%d/delete/", listID, itemID),
		Cancel: listURL(listID),
	})
}

// POST /list/{list_id}/item/{pk}/delete/
func (h *Handler) Delete(ctx context.Context, req web.Request) web.Response {
	listID, itemID, ok := itemParams(req)
	if !ok {
		return web.NotFound()
	}

	if err := h.svc.Delete(ctx, req.UserID, listID, itemID); err != nil {
		if isNotFound(err) {
			return web.NotFound()
		}
		return web.ServerError(ctx, "delete todo item", err)
	}

	return web.Redirect(listURL(listID))
}

func itemParams(req web.Request) (listID, itemID int64, ok bool) {
	listID, err := req.ParamInt("list_id")
	if err != nil {
		return 0, 0, false
	}
	itemID, err = req.ParamInt("pk")
	if err != nil {
		return 0, 0, false
	}
	return listID, itemID, true
}
