// Package api talks to the remote task-management service. The service is
// authoritative for accounts and tasks; everything here is a thin JSON
// mapping from operations to results.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"taskdeck/internal/apperr"
	"taskdeck/internal/model"
)

// Client is the contract the core needs from the remote service.
// Every call is a suspension point; nothing else in the client blocks.
type Client interface {
	Login(ctx context.Context, creds model.Credentials) (model.Session, error)
	Register(ctx context.Context, reg model.Registration) (model.Session, error)
	RegisterAdmin(ctx context.Context, reg model.AdminRegistration) (model.AdminAccount, error)
	UpdateProfile(ctx context.Context, update model.ProfileUpdate) (model.Session, error)

	ListTasks(ctx context.Context) ([]model.Task, error)
	CreateTask(ctx context.Context, draft model.TaskDraft) (model.Task, error)
	UpdateTask(ctx context.Context, task model.Task) (model.Task, error)
	DeleteTask(ctx context.Context, id string) error

	ListUsers(ctx context.Context) ([]model.UserAccount, error)
	SearchUsers(ctx context.Context, keyword string) ([]model.UserAccount, error)
	UpdateUser(ctx context.Context, u model.UserAccount) (model.UserAccount, error)
	DeleteUser(ctx context.Context, id string) error
	SetUserActive(ctx context.Context, id string, active bool) (model.UserAccount, error)

	ListAdmins(ctx context.Context) ([]model.AdminAccount, error)
	DeleteAdmin(ctx context.Context, id string) error
	SetAdminActive(ctx context.Context, id string, active bool) (model.AdminAccount, error)
}

type HTTPClient struct {
	base  string
	hc    *http.Client
	token string
}

func New(baseURL string, timeout time.Duration) *HTTPClient {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &HTTPClient{
		base: strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		hc:   &http.Client{Timeout: timeout},
	}
}

// SetToken installs the bearer token used for authenticated calls.
func (c *HTTPClient) SetToken(token string) { c.token = strings.TrimSpace(token) }

type loginResponse struct {
	User  model.Session `json:"user"`
	Token string        `json:"token"`
}

type errorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func (c *HTTPClient) Login(ctx context.Context, creds model.Credentials) (model.Session, error) {
	var out loginResponse
	if err := c.do(ctx, http.MethodPost, "/auth/login", creds, &out, authErrors); err != nil {
		return model.Session{}, err
	}
	s := out.User
	s.Token = out.Token
	if s.Role == "" {
		s.Role = creds.Role
	}
	c.SetToken(out.Token)
	return s, nil
}

func (c *HTTPClient) Register(ctx context.Context, reg model.Registration) (model.Session, error) {
	var out loginResponse
	if err := c.do(ctx, http.MethodPost, "/auth/register", reg, &out, authErrors); err != nil {
		return model.Session{}, err
	}
	s := out.User
	s.Token = out.Token
	if s.Role == "" {
		s.Role = model.RoleUser
	}
	c.SetToken(out.Token)
	return s, nil
}

func (c *HTTPClient) RegisterAdmin(ctx context.Context, reg model.AdminRegistration) (model.AdminAccount, error) {
	var out model.AdminAccount
	err := c.do(ctx, http.MethodPost, "/auth/admin-register", reg, &out, authErrors)
	return out, err
}

func (c *HTTPClient) UpdateProfile(ctx context.Context, update model.ProfileUpdate) (model.Session, error) {
	var out model.Session
	err := c.do(ctx, http.MethodPut, "/users/me", update, &out, transportErrors)
	return out, err
}

func (c *HTTPClient) ListTasks(ctx context.Context) ([]model.Task, error) {
	var out []model.Task
	err := c.do(ctx, http.MethodGet, "/tasks", nil, &out, transportErrors)
	return out, err
}

func (c *HTTPClient) CreateTask(ctx context.Context, draft model.TaskDraft) (model.Task, error) {
	var out model.Task
	err := c.do(ctx, http.MethodPost, "/tasks", draft, &out, transportErrors)
	return out, err
}

func (c *HTTPClient) UpdateTask(ctx context.Context, task model.Task) (model.Task, error) {
	var out model.Task
	err := c.do(ctx, http.MethodPut, "/tasks/"+url.PathEscape(task.ID), task, &out, transportErrors)
	return out, err
}

func (c *HTTPClient) DeleteTask(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/tasks/"+url.PathEscape(id), nil, nil, transportErrors)
}

func (c *HTTPClient) ListUsers(ctx context.Context) ([]model.UserAccount, error) {
	var out []model.UserAccount
	err := c.do(ctx, http.MethodGet, "/users", nil, &out, transportErrors)
	return out, err
}

func (c *HTTPClient) SearchUsers(ctx context.Context, keyword string) ([]model.UserAccount, error) {
	var out []model.UserAccount
	p := "/users/search?q=" + url.QueryEscape(strings.TrimSpace(keyword))
	err := c.do(ctx, http.MethodGet, p, nil, &out, transportErrors)
	return out, err
}

func (c *HTTPClient) UpdateUser(ctx context.Context, u model.UserAccount) (model.UserAccount, error) {
	var out model.UserAccount
	err := c.do(ctx, http.MethodPut, "/users/"+url.PathEscape(u.ID), u, &out, transportErrors)
	return out, err
}

func (c *HTTPClient) DeleteUser(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/users/"+url.PathEscape(id), nil, nil, transportErrors)
}

func (c *HTTPClient) SetUserActive(ctx context.Context, id string, active bool) (model.UserAccount, error) {
	var out model.UserAccount
	body := map[string]bool{"active": active}
	err := c.do(ctx, http.MethodPatch, "/users/"+url.PathEscape(id)+"/active", body, &out, transportErrors)
	return out, err
}

func (c *HTTPClient) ListAdmins(ctx context.Context) ([]model.AdminAccount, error) {
	var out []model.AdminAccount
	err := c.do(ctx, http.MethodGet, "/admins", nil, &out, transportErrors)
	return out, err
}

func (c *HTTPClient) DeleteAdmin(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/admins/"+url.PathEscape(id), nil, nil, transportErrors)
}

func (c *HTTPClient) SetAdminActive(ctx context.Context, id string, active bool) (model.AdminAccount, error) {
	var out model.AdminAccount
	body := map[string]bool{"active": active}
	err := c.do(ctx, http.MethodPatch, "/admins/"+url.PathEscape(id)+"/active", body, &out, transportErrors)
	return out, err
}

// errorMapper turns a non-2xx response into the right taxonomy error.
type errorMapper func(op string, status int, msg string) error

// authErrors: credential-shaped rejections become AuthError so the session
// store can leave the previous session untouched.
func authErrors(op string, status int, msg string) error {
	switch status {
	case http.StatusBadRequest, http.StatusUnauthorized, http.StatusForbidden:
		return apperr.AuthError{Reason: msg}
	}
	return apperr.Transport(op, fmt.Errorf("unexpected status %d: %s", status, msg))
}

func transportErrors(op string, status int, msg string) error {
	return apperr.Transport(op, fmt.Errorf("unexpected status %d: %s", status, msg))
}

func (c *HTTPClient) do(ctx context.Context, method, path string, in, out any, mapErr errorMapper) error {
	op := method + " " + path

	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return apperr.Transport(op, err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.base+path, body)
	if err != nil {
		return apperr.Transport(op, err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.hc.Do(req)
	if err != nil {
		return apperr.Transport(op, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := readErrorMessage(resp.Body)
		// 422 is the service rejecting request content; same meaning on
		// every endpoint, so it is mapped before the per-endpoint mapper.
		if resp.StatusCode == http.StatusUnprocessableEntity {
			return apperr.RemoteValidation(msg)
		}
		return mapErr(op, resp.StatusCode, msg)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return apperr.Transport(op, fmt.Errorf("decode response: %w", err))
	}
	return nil
}

func readErrorMessage(r io.Reader) string {
	b, err := io.ReadAll(io.LimitReader(r, 4096))
	if err != nil || len(b) == 0 {
		return ""
	}
	var eb errorBody
	if err := json.Unmarshal(b, &eb); err == nil {
		if eb.Error != "" {
			return eb.Error
		}
		if eb.Message != "" {
			return eb.Message
		}
	}
	return strings.TrimSpace(string(b))
}
