package api

import (
	"context"
	"fmt"
	"net/http"

	"zrozum/internal/lessons"
)

// Lessons fetches the lesson list visible to the current user.
func (c *Client) Lessons(ctx context.Context) ([]lessons.Lesson, error) {
	req, err := c.newRequest(ctx, http.MethodGet, "/lessons/", nil, true)
	if err != nil {
		return nil, err
	}
	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch lessons: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if err := checkAuthed(resp); err != nil {
		return nil, err
	}

	var list []lessons.Lesson
	if err := decodeJSON(resp, &list); err != nil {
		return nil, err
	}
	return list, nil
}

// CreateLesson creates a lesson with the given title and description.
// Title validation happens at the call site before any request is built.
func (c *Client) CreateLesson(ctx context.Context, title, description string) (*lessons.Lesson, error) {
	payload := map[string]string{"title": title, "description": description}
	resp, err := c.postJSON(ctx, "/lessons/", payload, true)
	if err != nil {
		return nil, fmt.Errorf("create lesson: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if err := checkAuthed(resp); err != nil {
		return nil, err
	}

	var created lessons.Lesson
	if err := decodeJSON(resp, &created); err != nil {
		return nil, err
	}
	return &created, nil
}
