// FILE: svckit/src/internal/testkit/orchestrator.go
package testkit

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"svckit/src/internal/dict"

	"github.com/valyala/fasthttp"
)

// ErrUnknownBehavior is returned when a behavior name has no registered body builder.
var ErrUnknownBehavior = errors.New("unknown behavior")

// Doer is the subset of fasthttp.Client used by the orchestrator.
type Doer interface {
	DoTimeout(req *fasthttp.Request, resp *fasthttp.Response, timeout time.Duration) error
}

// Route maps a resource to its path template and default method.
// Path may carry placeholders such as "/users/{id}".
type Route struct {
	Path   string
	Method string
}

// Request is one call made through the orchestrator.
type Request struct {
	URL     string
	Method  string
	Params  map[string]string
	Body    any
	Headers map[string]string
}

// Orchestrator drives HTTP scenario tests: it sends requests and builds the
// ExpectedResponse for a named behavior.
type Orchestrator struct {
	Client  Doer
	BaseURL string
	Timeout time.Duration

	// Routes is keyed by resource name
	Routes map[string]Route
	// Bodies is keyed by resource then behavior; each builder returns the expected body
	Bodies map[string]map[string]func() any
	// Defaults holds fields every expected body of a resource carries
	Defaults map[string]dict.Map
	// Schemas holds the response schema per resource
	Schemas map[string]any
}

// NewOrchestrator creates an orchestrator with a fasthttp client.
func NewOrchestrator(baseURL string) *Orchestrator {
	return &Orchestrator{
		Client: &fasthttp.Client{
			MaxConnsPerHost:               16,
			MaxIdleConnDuration:           10 * time.Second,
			ReadTimeout:                   10 * time.Second,
			WriteTimeout:                  10 * time.Second,
			DisableHeaderNamesNormalizing: true,
		},
		BaseURL:  strings.TrimRight(baseURL, "/"),
		Timeout:  10 * time.Second,
		Routes:   make(map[string]Route),
		Bodies:   make(map[string]map[string]func() any),
		Defaults: make(map[string]dict.Map),
		Schemas:  make(map[string]any),
	}
}

// Resource extracts the resource name from a behavior, the part after the last underscore.
// "create_user" names the "user" resource.
func Resource(behavior string) string {
	if i := strings.LastIndex(behavior, "_"); i >= 0 {
		return behavior[i+1:]
	}
	return behavior
}

// Do sends the request for behavior. An empty URL or method falls back to the resource route.
// The returned response is owned by the caller.
func (o *Orchestrator) Do(behavior string, r Request) (*fasthttp.Response, error) {
	route := o.Routes[Resource(behavior)]

	target := r.URL
	if target == "" {
		target = route.Path
	}
	target = fillPath(target, r.Params)
	if !strings.HasPrefix(target, "http://") && !strings.HasPrefix(target, "https://") {
		target = o.BaseURL + "/" + strings.TrimLeft(target, "/")
	}

	method := r.Method
	if method == "" {
		method = route.Method
	}
	if method == "" {
		method = fasthttp.MethodGet
	}

	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(target)
	req.Header.SetMethod(method)
	for k, v := range r.Headers {
		req.Header.Set(k, v)
	}

	if r.Body != nil {
		body, err := json.Marshal(r.Body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
		req.Header.SetContentType("application/json")
		req.SetBody(body)
	}

	timeout := o.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	if err := o.Client.DoTimeout(req, resp, timeout); err != nil {
		return nil, fmt.Errorf("failed to %s %s: %w", method, target, err)
	}

	out := &fasthttp.Response{}
	resp.CopyTo(out)
	return out, nil
}

// fillPath substitutes {name} placeholders with escaped params.
// Params without a placeholder are added to the query string.
func fillPath(path string, params map[string]string) string {
	var query url.Values
	for k, v := range params {
		placeholder := "{" + k + "}"
		if strings.Contains(path, placeholder) {
			path = strings.ReplaceAll(path, placeholder, url.PathEscape(v))
			continue
		}
		if query == nil {
			query = url.Values{}
		}
		query.Set(k, v)
	}
	if query != nil {
		sep := "?"
		if strings.Contains(path, "?") {
			sep = "&"
		}
		path += sep + query.Encode()
	}
	return path
}

// Expect builds the expected response for behavior.
// Success statuses require a registered body builder; its result gets the resource
// defaults laid under it and id as "id" when it sets none.
// Other statuses expect only the status code.
func (o *Orchestrator) Expect(behavior string, id any, body dict.Map, status int) (ExpectedResponse, error) {
	if status == 0 {
		status = http.StatusOK
	}
	if status < 200 || status >= 300 {
		return ExpectedResponse{StatusCode: status, Body: body}, nil
	}

	resource := Resource(behavior)
	build, ok := o.Bodies[resource][behavior]
	if !ok {
		return ExpectedResponse{}, fmt.Errorf("%w: %s", ErrUnknownBehavior, behavior)
	}

	built, err := toMap(build())
	if err != nil {
		return ExpectedResponse{}, fmt.Errorf("failed to build %s body: %w", behavior, err)
	}
	expected := dict.Merge(built, body)
	if _, set := expected["id"]; !set && id != nil {
		expected["id"] = id
	}
	expected = dict.Merge(o.Defaults[resource], expected)

	return ExpectedResponse{
		StatusCode: status,
		Body:       expected,
		Schema:     o.Schemas[resource],
	}, nil
}

// Check sends the request and validates the response against exp.
func (o *Orchestrator) Check(behavior string, r Request, exp ExpectedResponse) (*fasthttp.Response, error) {
	resp, err := o.Do(behavior, r)
	if err != nil {
		return nil, err
	}
	return resp, exp.Validate(resp)
}

// toMap converts a builder result to a mapping, going through JSON for structs.
func toMap(v any) (dict.Map, error) {
	if v == nil {
		return dict.Map{}, nil
	}
	if m, ok := dict.AsMap(v); ok {
		return m, nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var m dict.Map
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	return m, nil
}
