package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/cookiejar"
	"strings"
	"sync"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

const DefaultBaseURL = "http://localhost:8000/api"

// Options mirrors the knobs a portal page can set on a single upstream call.
type Options struct {
	Method  string
	Body    interface{}
	Headers map[string]string
	// IsForm marks Body as an already encoded form payload; the client then leaves Content-Type alone.
	IsForm bool
}

// Response is a successful upstream reply. Data holds raw JSON when IsJSON is set, plain text otherwise.
type Response struct {
	Status int
	Header http.Header
	Data   []byte
	IsJSON bool
}

// Decode unmarshals a JSON reply into v.
func (r *Response) Decode(v interface{}) error {
	if !r.IsJSON {
		return errors.Errorf("upstream replied with non JSON content")
	}
	if len(bytes.TrimSpace(r.Data)) == 0 {
		return nil
	}
	return errors.Wrap(json.Unmarshal(r.Data, v), "decode upstream response")
}

func (r *Response) Text() string {
	return string(r.Data)
}

// Client talks to the GA backend. A Client carries at most one bearer token; use WithToken to get a
// client bound to another session instead of swapping tokens on a shared instance.
type Client struct {
	baseURL    string
	httpClient *http.Client

	mu    sync.RWMutex
	token string
}

// New builds a client for baseURL. An empty baseURL falls back to the local development backend.
func New(baseURL string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: newHTTPClient(http.DefaultTransport, timeout),
	}
}

func newHTTPClient(transport http.RoundTripper, timeout time.Duration) *http.Client {
	jar, _ := cookiejar.New(nil)
	return &http.Client{Transport: transport, Timeout: timeout, Jar: jar}
}

// WithToken returns a client that shares the transport but has its own token and cookie jar.
func (c *Client) WithToken(token string) *Client {
	return &Client{
		baseURL:    c.baseURL,
		httpClient: newHTTPClient(c.httpClient.Transport, c.httpClient.Timeout),
		token:      token,
	}
}

func (c *Client) SetAuthToken(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = token
}

func (c *Client) ClearAuthToken() {
	c.SetAuthToken("")
}

func (c *Client) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

func (c *Client) BaseURL() string {
	return c.baseURL
}

// Request performs one upstream call. Non-2xx replies with a JSON body come back as *APIError,
// every other failure as a plain error.
func (c *Client) Request(ctx context.Context, path string, opts Options) (*Response, error) {
	method := opts.Method
	if method == "" {
		method = http.MethodGet
	}
	uri := c.baseURL + path

	body, contentType, err := encodeBody(opts)
	if err != nil {
		return nil, err
	}

	r, err := http.NewRequestWithContext(ctx, method, uri, body)
	if err != nil {
		return nil, errors.Wrap(err, "build upstream request")
	}
	r.Header.Set("Accept", "application/json")
	r.Header.Set("X-Requested-With", "XMLHttpRequest")
	for k, v := range opts.Headers {
		r.Header.Set(k, v)
	}
	if token := c.Token(); token != "" {
		r.Header.Set("Authorization", "Bearer "+token)
	}
	if contentType != "" {
		r.Header.Set("Content-Type", contentType)
	}

	logger := log.WithField("external_request", method+" "+uri)

	resp, err := c.httpClient.Do(r)
	if err != nil {
		logger.WithError(err).Warn("upstream request failed")
		return nil, errors.Wrap(err, "upstream request failed")
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrap(err, "read upstream response")
	}
	logger = logger.WithField("response_status_code", resp.StatusCode)

	isJSON := strings.Contains(resp.Header.Get("Content-Type"), "application/json")
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		logger.WithField("response_body", string(data)).Debug("upstream rejected request")
		return nil, newError(resp.StatusCode, data)
	}
	logger.Debug("upstream request done")

	return &Response{Status: resp.StatusCode, Header: resp.Header, Data: data, IsJSON: isJSON}, nil
}

func encodeBody(opts Options) (io.Reader, string, error) {
	switch b := opts.Body.(type) {
	case nil:
		return nil, "", nil
	case *Form:
		return b.encode()
	case io.Reader:
		if opts.IsForm {
			return b, "", nil
		}
		return b, "application/json", nil
	default:
		if opts.IsForm {
			return nil, "", errors.Errorf("form request needs a *Form or io.Reader body, got %T", b)
		}
		payload, err := json.Marshal(b)
		if err != nil {
			return nil, "", errors.Wrap(err, "encode request body")
		}
		return bytes.NewReader(payload), "application/json", nil
	}
}

func (c *Client) Get(ctx context.Context, path string) (*Response, error) {
	return c.Request(ctx, path, Options{Method: http.MethodGet})
}

func (c *Client) Post(ctx context.Context, path string, body interface{}) (*Response, error) {
	return c.Request(ctx, path, Options{Method: http.MethodPost, Body: body})
}

func (c *Client) Patch(ctx context.Context, path string, body interface{}) (*Response, error) {
	return c.Request(ctx, path, Options{Method: http.MethodPatch, Body: body})
}

func (c *Client) Put(ctx context.Context, path string, body interface{}) (*Response, error) {
	return c.Request(ctx, path, Options{Method: http.MethodPut, Body: body})
}

func (c *Client) Delete(ctx context.Context, path string) (*Response, error) {
	return c.Request(ctx, path, Options{Method: http.MethodDelete})
}

// FileURL resolves a storage path returned by the backend into a public URL.
func (c *Client) FileURL(path string) string {
	if path == "" {
		return ""
	}
	public := strings.TrimSuffix(c.baseURL, "/api")
	return public + "/storage/" + strings.TrimLeft(path, "/")
}
