// Package client is the Go client for the admindesk API. It attaches the
// session token to every request and clears the session when the server
// answers 401, so an expired token forces a fresh login everywhere at once.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/pkg/errors"

	"admindesk/internal/apperrors"
	"admindesk/internal/model"
)

// TokenSource provides the session token and a way to discard it.
type TokenSource interface {
	Token() string
	Clear() error
}

// StaticToken is a TokenSource holding a fixed token. Clear is a no-op.
type StaticToken string

// Token implements TokenSource.
func (t StaticToken) Token() string { return string(t) }

// Clear implements TokenSource.
func (t StaticToken) Clear() error { return nil }

// UserPage is one page of list results.
type UserPage struct {
	Items []model.User `json:"items"`
	Total int64        `json:"total"`
	Page  int          `json:"page"`
	Pages int          `json:"pages"`
}

// ListOptions selects and orders a page of users.
type ListOptions struct {
	Page int
	Q    string
	Sort string
	Dir  string
}

// LoginResult is the login response.
type LoginResult struct {
	Token string           `json:"token"`
	User  model.PublicUser `json:"user"`
}

// CreateUserOptions is the admin-create payload.
type CreateUserOptions struct {
	Email string     `json:"email"`
	Name  string     `json:"name"`
	Role  model.Role `json:"role,omitempty"`
}

// UpdateUserOptions carries a partial update; nil fields are not sent.
type UpdateUserOptions struct {
	Name *string     `json:"name,omitempty"`
	Role *model.Role `json:"role,omitempty"`
}

// Client talks to the admindesk API. All collaborators are injected; there is
// no shared global state.
type Client struct {
	apiAddress string
	tokens     TokenSource
	httpClient *http.Client
}

// New creates a Client. A nil httpClient falls back to http.DefaultClient.
func New(apiAddress string, tokens TokenSource, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if tokens == nil {
		tokens = StaticToken("")
	}
	return &Client{
		apiAddress: apiAddress,
		tokens:     tokens,
		httpClient: httpClient,
	}
}

type apiRequest struct {
	method      string
	path        string
	queryParams map[string]string
	reqBodyObj  interface{}
	respObj     interface{}
}

// Register creates a USER account and returns its id.
func (c *Client) Register(ctx context.Context, email, password string) (uint, error) {
	respObj := struct {
		ID uint `json:"id"`
	}{}
	err := c.executeAPIRequest(ctx, apiRequest{
		method: http.MethodPost,
		path:   "api/auth/register",
		reqBodyObj: map[string]string{
			"email":    email,
			"password": password,
		},
		respObj: &respObj,
	})
	return respObj.ID, err
}

// Login exchanges credentials for a session token and user projection. The
// caller decides whether and where to persist the token.
func (c *Client) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	result := &LoginResult{}
	err := c.executeAPIRequest(ctx, apiRequest{
		method: http.MethodPost,
		path:   "api/auth/login",
		reqBodyObj: map[string]string{
			"email":    email,
			"password": password,
		},
		respObj: result,
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// ListUsers fetches one page of users.
func (c *Client) ListUsers(ctx context.Context, opts ListOptions) (*UserPage, error) {
	queryParams := map[string]string{}
	if opts.Page > 0 {
		queryParams["page"] = strconv.Itoa(opts.Page)
	}
	if opts.Q != "" {
		queryParams["q"] = opts.Q
	}
	if opts.Sort != "" {
		queryParams["sort"] = opts.Sort
	}
	if opts.Dir != "" {
		queryParams["dir"] = opts.Dir
	}

	page := &UserPage{}
	err := c.executeAPIRequest(ctx, apiRequest{
		method:      http.MethodGet,
		path:        "api/users",
		queryParams: queryParams,
		respObj:     page,
	})
	if err != nil {
		return nil, err
	}
	return page, nil
}

// GetUser fetches a single user by id.
func (c *Client) GetUser(ctx context.Context, id uint) (*model.User, error) {
	user := &model.User{}
	err := c.executeAPIRequest(ctx, apiRequest{
		method:  http.MethodGet,
		path:    fmt.Sprintf("api/users/%d", id),
		respObj: user,
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}

// CreateUser creates a user with a server-assigned temporary password.
func (c *Client) CreateUser(ctx context.Context, opts CreateUserOptions) (*model.User, error) {
	user := &model.User{}
	err := c.executeAPIRequest(ctx, apiRequest{
		method:     http.MethodPost,
		path:       "api/users",
		reqBodyObj: opts,
		respObj:    user,
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}

// UpdateUser applies a partial update to a user.
func (c *Client) UpdateUser(ctx context.Context, id uint, opts UpdateUserOptions) (*model.User, error) {
	user := &model.User{}
	err := c.executeAPIRequest(ctx, apiRequest{
		method:     http.MethodPut,
		path:       fmt.Sprintf("api/users/%d", id),
		reqBodyObj: opts,
		respObj:    user,
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}

// DeleteUser removes a user by id.
func (c *Client) DeleteUser(ctx context.Context, id uint) error {
	return c.executeAPIRequest(ctx, apiRequest{
		method: http.MethodDelete,
		path:   fmt.Sprintf("api/users/%d", id),
	})
}

func (c *Client) executeAPIRequest(ctx context.Context, apiReq apiRequest) error {
	resp, err := c.submitAPIRequest(ctx, apiReq)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if apiReq.respObj != nil {
		respBodyBytes, err := io.ReadAll(resp.Body)
		if err != nil {
			return errors.Wrap(err, "error reading response body")
		}
		if err := json.Unmarshal(respBodyBytes, apiReq.respObj); err != nil {
			return errors.Wrap(err, "error unmarshaling response body")
		}
	}
	return nil
}

func (c *Client) submitAPIRequest(ctx context.Context, apiReq apiRequest) (*http.Response, error) {
	var reqBodyReader io.Reader
	if apiReq.reqBodyObj != nil {
		reqBodyBytes, err := json.Marshal(apiReq.reqBodyObj)
		if err != nil {
			return nil, errors.Wrap(err, "error marshaling request body")
		}
		reqBodyReader = bytes.NewBuffer(reqBodyBytes)
	}

	req, err := http.NewRequestWithContext(
		ctx,
		apiReq.method,
		fmt.Sprintf("%s/%s", c.apiAddress, apiReq.path),
		reqBodyReader,
	)
	if err != nil {
		return nil, errors.Wrapf(err, "error creating request %s %s", apiReq.method, apiReq.path)
	}
	if len(apiReq.queryParams) > 0 {
		q := req.URL.Query()
		for k, v := range apiReq.queryParams {
			q.Set(k, v)
		}
		req.URL.RawQuery = q.Encode()
	}
	if reqBodyReader != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := c.tokens.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "error invoking API")
	}

	if resp.StatusCode >= 400 {
		defer resp.Body.Close()

		var body apperrors.ErrorResponse
		if bodyBytes, err := io.ReadAll(resp.Body); err == nil {
			_ = json.Unmarshal(bodyBytes, &body)
		}

		// An expired or revoked session is unrecoverable: drop the stored
		// token so the next interaction starts from the login step.
		if resp.StatusCode == http.StatusUnauthorized {
			if err := c.tokens.Clear(); err != nil {
				return nil, errors.Wrap(err, "error clearing session after 401")
			}
		}

		return nil, apiError(resp.StatusCode, body)
	}
	return resp, nil
}
