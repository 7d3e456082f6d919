package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/julianstephens/smarthabit/internal/models"
)

// LogResult is the add-log response. Streak is the server's updated count.
type LogResult struct {
	Detail string `json:"detail"`
	Streak int    `json:"streak"`
}

// HabitsClient performs authenticated habit calls. The bearer token is read
// from the token store on every call.
type HabitsClient struct {
	c *Client
}

// List fetches every habit of the current user. A well-formed response that
// is not an array yields an error wrapping ErrNotAList.
func (h *HabitsClient) List(ctx context.Context) ([]models.Habit, error) {
	var raw json.RawMessage
	if err := h.c.do(ctx, http.MethodGet, "/habits/", true, nil, &raw); err != nil {
		return nil, err
	}
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return nil, &Error{Kind: KindUnknown, Message: fmt.Sprintf("got %q: %v", preview(trimmed), ErrNotAList), err: ErrNotAList}
	}

	var habits []models.Habit
	if err := json.Unmarshal(trimmed, &habits); err != nil {
		return nil, unknown("failed to decode habits", err)
	}
	if habits == nil {
		habits = []models.Habit{}
	}
	return habits, nil
}

func (h *HabitsClient) Create(ctx context.Context, draft models.HabitDraft) (models.Habit, error) {
	var habit models.Habit
	err := h.c.do(ctx, http.MethodPost, "/habits/", true, draft, &habit)
	return habit, err
}

// Update sends a partial habit; only set fields are transmitted.
func (h *HabitsClient) Update(ctx context.Context, id int, patch models.HabitPatch) (models.Habit, error) {
	var habit models.Habit
	err := h.c.do(ctx, http.MethodPut, habitPath(id), true, patch, &habit)
	return habit, err
}

func (h *HabitsClient) Delete(ctx context.Context, id int) error {
	return h.c.do(ctx, http.MethodDelete, habitPath(id), true, nil, nil)
}

// AddLog records a completion for today, as decided by the server.
func (h *HabitsClient) AddLog(ctx context.Context, id int) (LogResult, error) {
	var result LogResult
	err := h.c.do(ctx, http.MethodPost, habitPath(id)+"add_log/", true, nil, &result)
	return result, err
}

func habitPath(id int) string {
	return fmt.Sprintf("/habits/%d/", id)
}

func preview(b []byte) string {
	if len(b) > 40 {
		return string(b[:40]) + "..."
	}
	return string(b)
}
