// Package registry is an HTTP client for a remote trademark registry that
// exposes availability and search endpoints keyed by a single keyword.
package registry

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/scbrown/tmcheck/internal/model"
)

// DefaultBaseURL is the RapidAPI USPTO trademark endpoint.
const DefaultBaseURL = "https://uspto-trademark.p.rapidapi.com"

// DefaultTimeout bounds a single registry request.
const DefaultTimeout = 10 * time.Second

var (
	// ErrNotConfigured is returned when the client has no API key.
	ErrNotConfigured = errors.New("registry: no api key configured")
	// ErrStatus wraps non-2xx responses.
	ErrStatus = errors.New("registry: unexpected status")
	// ErrMalformed wraps bodies that cannot be decoded.
	ErrMalformed = errors.New("registry: malformed response")
)

// Availability is the registry's answer to "is this keyword registrable".
type Availability struct {
	Keyword   string `json:"keyword"`
	Available string `json:"available"`
}

// IsAvailable reports whether the registry said "yes".
func (a Availability) IsAvailable() bool {
	return strings.EqualFold(strings.TrimSpace(a.Available), "yes")
}

// Record is one search hit. Registries disagree on field naming, so the
// accessor methods coalesce the known spellings.
type Record struct {
	Wordmark                flexString   `json:"wordmark"`
	WordMark                flexString   `json:"word_mark"`
	Owner                   flexString   `json:"owner"`
	Correspondent           flexString   `json:"correspondent"`
	Status                  flexString   `json:"status"`
	RegistrationNumber      flexString   `json:"registration_number"`
	RegistrationNumberCamel flexString   `json:"registrationNumber"`
	SerialNumber            flexString   `json:"serial_number"`
	SerialNumberCamel       flexString   `json:"serialNumber"`
	ClassDescriptions       []flexString `json:"international_class_descriptions"`
	ClassDescriptionsCamel  []flexString `json:"internationalClassDescriptions"`

	raw json.RawMessage
}

// flexString decodes a JSON string, number or null as a string.
type flexString string

func (f *flexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case len(data) == 0 || string(data) == "null":
		*f = ""
	case data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = flexString(s)
	default:
		var n json.Number
		if err := json.Unmarshal(data, &n); err != nil {
			return fmt.Errorf("expected string or number, got %s", truncate(string(data), 32))
		}
		*f = flexString(n.String())
	}
	return nil
}

// Mark returns the record's word mark.
func (r Record) Mark() string {
	return firstNonEmpty(string(r.Wordmark), string(r.WordMark))
}

// Holder returns the owner, falling back to the correspondent.
func (r Record) Holder() string {
	return firstNonEmpty(string(r.Owner), string(r.Correspondent))
}

// Number returns the registration number, falling back to the serial number.
func (r Record) Number() string {
	return firstNonEmpty(string(r.RegistrationNumber), string(r.RegistrationNumberCamel), string(r.SerialNumber), string(r.SerialNumberCamel))
}

// Class returns the first international class description.
func (r Record) Class() string {
	for _, list := range [][]flexString{r.ClassDescriptions, r.ClassDescriptionsCamel} {
		if len(list) > 0 && list[0] != "" {
			return string(list[0])
		}
	}
	return ""
}

// Raw returns the record as received.
func (r Record) Raw() json.RawMessage {
	return r.raw
}

// Client queries the registry over HTTP.
type Client struct {
	baseURL string
	apiKey  string
	host    string
	client  *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.client = hc }
}

// WithHost overrides the X-RapidAPI-Host header (defaults to the base URL's
// host). An empty host keeps the default.
func WithHost(host string) Option {
	return func(c *Client) {
		if host != "" {
			c.host = host
		}
	}
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.client.Timeout = d }
}

// New creates a Client for baseURL authenticated with apiKey.
// An empty baseURL uses DefaultBaseURL.
func New(baseURL, apiKey string, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		client:  &http.Client{Timeout: DefaultTimeout},
	}
	if u, err := url.Parse(c.baseURL); err == nil {
		c.host = u.Host
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Configured reports whether the client can make requests.
func (c *Client) Configured() bool {
	return c != nil && c.apiKey != ""
}

// Available asks whether keyword is registrable.
func (c *Client) Available(ctx context.Context, keyword string) (Availability, error) {
	var list []Availability
	if err := c.getJSON(ctx, "/v1/trademarkAvailable/"+url.PathEscape(keyword), func(raw json.RawMessage) error {
		return decodeOneOrMany(raw, &list)
	}); err != nil {
		return Availability{}, err
	}
	if len(list) == 0 {
		return Availability{}, fmt.Errorf("%w: empty availability response", ErrMalformed)
	}
	a := list[0]
	if a.Available == "" {
		return Availability{}, fmt.Errorf("%w: missing available field", ErrMalformed)
	}
	if a.Keyword == "" {
		a.Keyword = keyword
	}
	return a, nil
}

// Search returns the registry records matching keyword.
func (c *Client) Search(ctx context.Context, keyword string) ([]Record, error) {
	var records []Record
	err := c.getJSON(ctx, "/v1/trademarkSearch/"+url.PathEscape(keyword), func(raw json.RawMessage) error {
		var items []json.RawMessage
		if err := decodeOneOrMany(raw, &items); err != nil {
			return err
		}
		for _, item := range items {
			var r Record
			if err := json.Unmarshal(item, &r); err != nil {
				return err
			}
			r.raw = item
			records = append(records, r)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return records, nil
}

// Lookup resolves term against the registry: an available keyword is
// clear, otherwise the first search record is a high-severity conflict.
// It returns nil, nil when the keyword is taken but search has no record.
func (c *Client) Lookup(ctx context.Context, term string) (*model.MatchResult, error) {
	avail, err := c.Available(ctx, term)
	if err != nil {
		return nil, err
	}
	if avail.IsAvailable() {
		r := model.Clear(term, model.SourceAPI)
		return &r, nil
	}

	records, err := c.Search(ctx, term)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, nil
	}
	rec := records[0]
	return &model.MatchResult{
		Term:               term,
		Status:             model.StatusConflict,
		Severity:           model.SeverityHigh,
		Trademark:          firstNonEmpty(rec.Mark(), strings.ToUpper(term)),
		Owner:              firstNonEmpty(rec.Holder(), "Unknown"),
		Category:           firstNonEmpty(rec.Class(), "general"),
		RegistrationNumber: rec.Number(),
		Source:             model.SourceAPI,
		APIData:            rec.Raw(),
	}, nil
}

// getJSON performs a GET request and hands the raw body to decode.
func (c *Client) getJSON(ctx context.Context, path string, decode func(json.RawMessage) error) error {
	if !c.Configured() {
		return ErrNotConfigured
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-RapidAPI-Key", c.apiKey)
	if c.host != "" {
		req.Header.Set("X-RapidAPI-Host", c.host)
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("registry request: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return statusError(resp)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response: %w", err)
	}
	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		return fmt.Errorf("%w: empty body", ErrMalformed)
	}
	if err := decode(body); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return nil
}

// decodeOneOrMany decodes either a JSON array or a single object into dst,
// which must point to a slice. null decodes to an empty slice.
func decodeOneOrMany[T any](raw json.RawMessage, dst *[]T) error {
	switch raw[0] {
	case '[':
		return json.Unmarshal(raw, dst)
	case '{':
		var one T
		if err := json.Unmarshal(raw, &one); err != nil {
			return err
		}
		*dst = []T{one}
		return nil
	case 'n':
		if string(raw) == "null" {
			*dst = nil
			return nil
		}
	}
	return fmt.Errorf("expected object or array, got %q", truncate(string(raw), 32))
}

// statusError reads an error response and returns it wrapped in ErrStatus.
func statusError(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	var errResp struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if json.Unmarshal(body, &errResp) == nil {
		if msg := firstNonEmpty(errResp.Error, errResp.Message); msg != "" {
			return fmt.Errorf("%w (%d): %s", ErrStatus, resp.StatusCode, msg)
		}
	}
	return fmt.Errorf("%w (%d): %s", ErrStatus, resp.StatusCode, http.StatusText(resp.StatusCode))
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
