// Package client talks to the contest API the way the browser client does:
// bearer-token requests, status polling while locked and a focus guard
// that turns visibility changes into lock reports.
package client

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

	"github.com/teckzite/round2/internal/contest"
	"github.com/teckzite/round2/internal/roster"
	"github.com/teckzite/round2/internal/server"
)

// APIError is a non-2xx response from the server.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api returned %d: %s", e.StatusCode, e.Message)
}

type Client struct {
	baseURL string
	http    *http.Client
	token   string
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

func WithToken(token string) Option {
	return func(c *Client) { c.token = token }
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) Token() string { return c.token }

func (c *Client) SetToken(token string) { c.token = token }

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encoding request: %w", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var e server.ErrorResponse
		raw, _ := io.ReadAll(resp.Body)
		if json.Unmarshal(raw, &e) != nil || e.Error == "" {
			e.Error = strings.TrimSpace(string(raw))
		}
		return &APIError{StatusCode: resp.StatusCode, Message: e.Error}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}

// Login signs a participant in and keeps the token for later calls.
func (c *Client) Login(ctx context.Context, id, phone string) (server.LoginResponse, error) {
	var out server.LoginResponse
	err := c.do(ctx, http.MethodPost, "/api/auth/login", server.LoginRequest{ID: id, Phone: phone}, &out)
	if err == nil {
		c.token = out.Token
	}
	return out, err
}

func (c *Client) AdminLogin(ctx context.Context, username, password string) (server.AdminLoginResponse, error) {
	var out server.AdminLoginResponse
	err := c.do(ctx, http.MethodPost, "/api/auth/admin/login", server.AdminLoginRequest{Username: username, Password: password}, &out)
	if err == nil {
		c.token = out.Token
	}
	return out, err
}

func (c *Client) view(ctx context.Context, method, path string, in any) (server.ParticipantView, error) {
	var out server.ParticipantView
	err := c.do(ctx, method, path, in, &out)
	return out, err
}

func (c *Client) Status(ctx context.Context) (server.ParticipantView, error) {
	return c.view(ctx, http.MethodGet, "/api/game/status", nil)
}

func (c *Client) Start(ctx context.Context) (server.ParticipantView, error) {
	return c.view(ctx, http.MethodPost, "/api/game/start", nil)
}

func (c *Client) FinishRound1(ctx context.Context) (server.ParticipantView, error) {
	return c.view(ctx, http.MethodPost, "/api/game/finish/game1", nil)
}

func (c *Client) FinishRound2(ctx context.Context) (server.ParticipantView, error) {
	return c.view(ctx, http.MethodPost, "/api/game/finish", nil)
}

func (c *Client) Lock(ctx context.Context) (server.ParticipantView, error) {
	return c.view(ctx, http.MethodPost, "/api/game/lock", nil)
}

func (c *Client) SubmitHTML(ctx context.Context, questionID int, answer string, correct bool) (contest.Scores, error) {
	var out server.AnswerResponse
	err := c.do(ctx, http.MethodPost, "/api/game/submit/html",
		server.HTMLAnswerRequest{QuestionID: questionID, Answer: answer, IsCorrect: correct}, &out)
	return out.Scores, err
}

func (c *Client) SubmitFlexbox(ctx context.Context, level int, code string, correct bool) (contest.Scores, error) {
	var out server.AnswerResponse
	err := c.do(ctx, http.MethodPost, "/api/game/submit/flexbox",
		server.FlexboxAnswerRequest{Level: level, Code: code, IsCorrect: correct}, &out)
	return out.Scores, err
}

func (c *Client) Unlock(ctx context.Context, code string) (server.UnlockResponse, error) {
	var out server.UnlockResponse
	err := c.do(ctx, http.MethodPost, "/api/game/unlock", server.UnlockRequest{Code: code}, &out)
	return out, err
}

// Admin calls.

func (c *Client) ListSessions(ctx context.Context, order contest.SortOrder) ([]contest.Session, error) {
	path := "/api/admin/sessions"
	if order != "" {
		path += "?sort=" + url.QueryEscape(string(order))
	}
	var out []contest.Session
	err := c.do(ctx, http.MethodGet, path, nil, &out)
	return out, err
}

func (c *Client) CreateSession(ctx context.Context, id, phone, name string) (contest.Session, error) {
	var out contest.Session
	err := c.do(ctx, http.MethodPost, "/api/admin/sessions", server.CreateSessionRequest{ID: id, Phone: phone, Name: name}, &out)
	return out, err
}

func sessionPath(id, suffix string) string {
	return "/api/admin/sessions/" + url.PathEscape(id) + suffix
}

func (c *Client) GetSession(ctx context.Context, id string) (contest.Session, error) {
	var out contest.Session
	err := c.do(ctx, http.MethodGet, sessionPath(id, ""), nil, &out)
	return out, err
}

func (c *Client) GenerateUnlockCode(ctx context.Context, id string) (server.UnlockCodeResponse, error) {
	var out server.UnlockCodeResponse
	err := c.do(ctx, http.MethodPost, sessionPath(id, "/unlock-code"), nil, &out)
	return out, err
}

func (c *Client) AdminUnlock(ctx context.Context, id string) (contest.Session, error) {
	var out contest.Session
	err := c.do(ctx, http.MethodPost, sessionPath(id, "/unlock"), nil, &out)
	return out, err
}

func (c *Client) Disqualify(ctx context.Context, id string) (contest.Session, error) {
	var out contest.Session
	err := c.do(ctx, http.MethodPost, sessionPath(id, "/disqualify"), nil, &out)
	return out, err
}

func (c *Client) Reset(ctx context.Context, participants []roster.Entry) (server.ResetResponse, error) {
	var out server.ResetResponse
	err := c.do(ctx, http.MethodPost, "/api/admin/reset", server.ResetRequest{Participants: participants}, &out)
	return out, err
}
