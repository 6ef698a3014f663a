package todolist

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/Nasaee/go-todo-lists/internal/form"
	"github.com/Nasaee/go-todo-lists/internal/web"
)

type IndexPage struct {
	Lists []Summary
}

type FormPage struct {
	Heading string
	Input   CreateListInput
	Errors  map[string]string
}

type Handler struct {
	svc ListService
}

func NewHandler(svc ListService) *Handler {
	return &Handler{svc: svc}
}

// GET /
func (h *Handler) Index(ctx context.Context, req web.Request) web.Response {
	lists, err := h.svc.ListWithCounts(ctx, req.UserID)
	if err != nil {
		return web.ServerError(ctx, "list todo lists", err)
	}
	return web.OK("index.html", IndexPage{Lists: lists})
}

// GET /list/add/
func (h *Handler) CreateForm(ctx context.Context, req web.Request) web.Response {
	return web.OK("list_form.html", FormPage{Heading: "Add a new list"})
}

// POST /list/add/
func (h *Handler) Create(ctx context.Context, req web.Request) web.Response {
	input := CreateListInput{Title: req.Form.Get("title")}

	if _, err := h.svc.Create(ctx, req.UserID, input); err != nil {
		if ve, ok := form.AsValidation(err); ok {
			return web.Render(http.StatusUnprocessableEntity, "list_form.html", FormPage{
				Heading: "Add a new list",
				Input:   input,
				Errors:  ve.Fields,
			})
		}
		return web.ServerError(ctx, "create todo list", err)
	}

	return web.Redirect("/")
}

// GET /list/{list_id}/delete/
func (h *Handler) ConfirmDelete(ctx context.Context, req web.Request) web.Response {
	id, err := req.ParamInt("list_id")
	if err != nil {
		return web.NotFound()
	}

	l, err := h.svc.Get(ctx, id, req.UserID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return web.NotFound()
		}
		return web.ServerError(ctx, "get todo list", err)
	}

	return web.OK("confirm_delete.html", web.ConfirmDeletePage{
		Object: l.Title,
		Action: fmt.Sprintf("/list/%d/delete/", l.ID),
		Cancel: fmt.Sprintf("/list/%d/", l.ID),
	})
}

// POST /list/{list_id}/delete/
func (h *Handler) Delete(ctx context.Context, req web.Request) web.Response {
	id, err := req.ParamInt("list_id")
	if err != nil {
		return web.NotFound()
	}

	if err := h.svc.Delete(ctx, id, req.UserID); err != nil {
		if errors.Is(err, ErrNotFound) {
			return web.NotFound()
		}
		return web.ServerError(ctx, "delete todo list", err)
	}

	return web.Redirect("/")
}
