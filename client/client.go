package client

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/pkg/errors"
)

// Client is the thin HTTP adapter between the portal and the API. It injects
// the persisted bearer token on every request, decodes the standard response
// envelope, and translates failures into kinded APIErrors. On a 401 it clears
// the credential store and notifies session-invalidated subscribers before
// returning the error.
type Client struct {
	baseURL string
	http    *http.Client
	creds   *CredentialStore

	mu          sync.Mutex
	invalidated []func()
}

func New(baseURL string, creds *CredentialStore) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 30 * time.Second},
		creds:   creds,
	}
}

// OnSessionInvalidated subscribes fn to global auth invalidation. Subscribers
// run synchronously, in registration order, before the triggering call
// returns its error.
func (c *Client) OnSessionInvalidated(fn func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.invalidated = append(c.invalidated, fn)
}

func (c *Client) fireInvalidated() {
	c.mu.Lock()
	subs := make([]func(), len(c.invalidated))
	copy(subs, c.invalidated)
	c.mu.Unlock()

	for _, fn := range subs {
		fn()
	}
}

type envelope struct {
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
}

type errEnvelope struct {
	Detail string            `json:"detail"`
	Fields map[string]string `json:"fields"`
}

func (c *Client) Get(path string, out interface{}) error {
	return c.do(http.MethodGet, path, nil, out)
}

func (c *Client) Post(path string, body, out interface{}) error {
	return c.do(http.MethodPost, path, body, out)
}

func (c *Client) Put(path string, body, out interface{}) error {
	return c.do(http.MethodPut, path, body, out)
}

func (c *Client) do(method, path string, body, out interface{}) error {
	var reqBody io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return errors.Wrap(err, "encoding request body")
		}
		reqBody = bytes.NewReader(buf)
	}

	req, err := http.NewRequest(method, c.baseURL+path, reqBody)
	if err != nil {
		return errors.Wrap(err, "building request")
	}
	req.Header.Set("Content-Type", "application/json")
	var sentToken bool
	if creds, lerr := c.creds.Load(); lerr == nil && creds.AccessToken != "" {
		req.Header.Set("Authorization", "Bearer "+creds.AccessToken)
		sentToken = true
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return &APIError{
			Kind:   KindConnectivity,
			Detail: "could not reach the server",
			cause:  err,
		}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return &APIError{
			Kind:   KindConnectivity,
			Detail: "could not read the server response",
			cause:  err,
		}
	}

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		if out == nil {
			return nil
		}
		var env envelope
		if err = json.Unmarshal(raw, &env); err != nil {
			return &APIError{
				Kind:       KindServerFault,
				StatusCode: resp.StatusCode,
				Detail:     "malformed server response",
				cause:      err,
			}
		}
		if len(env.Data) == 0 {
			return nil
		}
		return errors.Wrap(json.Unmarshal(env.Data, out), "decoding response data")
	}

	apiErr := &APIError{
		Kind:       classifyStatus(resp.StatusCode),
		StatusCode: resp.StatusCode,
	}
	var env errEnvelope
	if jerr := json.Unmarshal(raw, &env); jerr == nil && env.Detail != "" {
		apiErr.Detail = env.Detail
		apiErr.Fields = env.Fields
	} else {
		apiErr.Detail = http.StatusText(resp.StatusCode)
	}

	// Expired or revoked auth invalidates the whole session, no matter
	// which call tripped it. A 403 is a scoped denial and leaves the
	// session untouched, and a 401 on a request that carried no token
	// (a failed login) has no session to invalidate.
	if apiErr.Kind == KindAuthExpired && sentToken {
		_ = c.creds.Clear()
		c.fireInvalidated()
	}
	return apiErr
}
