package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"

	"zrozum/internal/lessons"
)

// Quiz fetches the quiz for a lesson. The endpoint answers with either a
// bare quiz object or a collection of quizzes; both shapes are normalized
// here, and the first element wins in the collection case. A missing quiz
// or an empty question list returns (nil, nil), the expected state for a
// freshly created lesson, not an error.
func (c *Client) Quiz(ctx context.Context, lessonID string) (*lessons.Quiz, error) {
	req, err := c.newRequest(ctx, http.MethodGet, "/quizzes/"+url.PathEscape(lessonID), nil, true)
	if err != nil {
		return nil, err
	}
	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch quiz: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusNotFound {
		io.Copy(io.Discard, resp.Body)
		return nil, nil
	}
	if err := checkAuthed(resp); err != nil {
		return nil, err
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read quiz response: %w", err)
	}
	return normalizeQuiz(raw)
}

// normalizeQuiz collapses the polymorphic quiz response into *Quiz or nil.
func normalizeQuiz(raw []byte) (*lessons.Quiz, error) {
	if len(raw) == 0 {
		return nil, nil
	}

	var list []lessons.Quiz
	if err := json.Unmarshal(raw, &list); err == nil {
		if len(list) == 0 || list[0].Empty() {
			return nil, nil
		}
		return &list[0], nil
	}

	var one lessons.Quiz
	if err := json.Unmarshal(raw, &one); err != nil {
		// null decodes fine above for the list shape; anything else is
		// an unexpected body.
		var v any
		if jerr := json.Unmarshal(raw, &v); jerr == nil && v == nil {
			return nil, nil
		}
		return nil, &ErrInvalidPayload{Err: err}
	}
	if one.Empty() {
		return nil, nil
	}
	return &one, nil
}

// generateResponse is the generate endpoint's envelope. Quiz is kept raw so
// it can be schema-checked before decoding.
type generateResponse struct {
	Status string          `json:"status"`
	Quiz   json.RawMessage `json:"quiz"`
	Detail string          `json:"detail"`
}

// Generate uploads an audio file and triggers server-side quiz generation
// for the lesson. The body is multipart (the boundary rides in the
// Content-Type set by the writer; no JSON header). The response carries a
// status discriminator: "success" yields the question payload, anything
// else yields the server detail as a *StatusError.
func (c *Client) Generate(ctx context.Context, lessonID, filename string, file io.Reader) (*lessons.Quiz, error) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", filename)
	if err != nil {
		return nil, fmt.Errorf("build upload: %w", err)
	}
	if _, err := io.Copy(part, file); err != nil {
		return nil, fmt.Errorf("read upload file: %w", err)
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("finish upload: %w", err)
	}

	path := "/quizzes/generate?lesson_id=" + url.QueryEscape(lessonID)
	req, err := c.newRequest(ctx, http.MethodPost, path, &body, true)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("generate quiz: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusUnauthorized {
		io.Copy(io.Discard, resp.Body)
		return nil, ErrUnauthorized
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read generate response: %w", err)
	}

	var envelope generateResponse
	if err := json.Unmarshal(raw, &envelope); err != nil {
		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			return nil, &StatusError{StatusCode: resp.StatusCode, Detail: string(raw)}
		}
		return nil, &ErrInvalidPayload{Err: err}
	}

	if envelope.Status != "success" {
		detail := envelope.Detail
		if detail == "" {
			detail = string(raw)
		}
		return nil, &StatusError{StatusCode: resp.StatusCode, Detail: detail}
	}

	if err := validateQuestions(envelope.Quiz); err != nil {
		return nil, err
	}

	var questions []lessons.Question
	if err := json.Unmarshal(envelope.Quiz, &questions); err != nil {
		return nil, &ErrInvalidPayload{Err: err}
	}
	return &lessons.Quiz{LessonID: lessonID, Questions: questions}, nil
}
