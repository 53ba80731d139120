// climate.go — an example domain client: a World Bank Climate Data API
// client, exercised by this package's own tests against a local httptest
// server. XML decoding uses stdlib encoding/xml.
package examplehttp

import (
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"strings"
)

const defaultDomainName = "http://climatedataapi.worldbank.org"

// DateRangeNotSupportedError reports an invalid (fromYear, toYear) pair.
type DateRangeNotSupportedError struct {
	FromYear, ToYear uint16
}

func (e *DateRangeNotSupportedError) Error() string {
	return fmt.Sprintf("date range %d-%d not supported", e.FromYear, e.ToYear)
}

// ErrNotRecognizedByClimateWeb is returned when the API responds with its
// "Invalid country code" sentinel body.
var ErrNotRecognizedByClimateWeb = fmt.Errorf("country code not recognized by ClimateWeb")

// Client is a World Bank Climate Data API client. Its zero value is not
// usable; construct with NewClient.
type Client struct {
	httpClient *http.Client
	domainName string
}

// Option configures a Client at construction time.
type Option func(*Client)

// WithDomainName overrides the default API domain, used by tests to point
// the client at the local intermediary.
func WithDomainName(domain string) Option {
	return func(c *Client) { c.domainName = domain }
}

// WithHTTPClient overrides the default *http.Client.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) { c.httpClient = httpClient }
}

// NewClient returns a Client pointed at the real API unless overridden by
// WithDomainName.
func NewClient(opts ...Option) *Client {
	c := &Client{
		httpClient: http.DefaultClient,
		domainName: defaultDomainName,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// GetAverageAnnualRainfall fetches the average annual rainfall across all
// Global Circulation Models for countryISO between fromYear and toYear.
// fromYear must be in [1920, 2080], divisible by 20, with
// toYear == fromYear+19.
func (c *Client) GetAverageAnnualRainfall(ctx context.Context, fromYear, toYear uint16, countryISO string) (float64, error) {
	if err := checkYears(fromYear, toYear); err != nil {
		return 0, err
	}

	url := fmt.Sprintf("%s/climateweb/rest/v1/country/annualavg/pr/%d/%d/%s.xml",
		c.domainName, fromYear, toYear, countryISO)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, fmt.Errorf("examplehttp: building request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("examplehttp: request failed: %w", err)
	}
	defer resp.Body.Close() //nolint:errcheck // deferred close

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, fmt.Errorf("examplehttp: reading response: %w", err)
	}
	if resp.StatusCode >= 400 {
		return 0, fmt.Errorf("examplehttp: upstream returned status %d", resp.StatusCode)
	}

	text := string(body)
	if strings.HasPrefix(text, "Invalid country code") {
		return 0, ErrNotRecognizedByClimateWeb
	}

	var data annualGCMData
	if err := xml.Unmarshal(body, &data); err != nil {
		return 0, fmt.Errorf("examplehttp: decoding response: %w", err)
	}

	if len(data.Results) == 0 {
		return 0, nil
	}
	var sum float64
	for _, datum := range data.Results {
		sum += datum.AnnualData.Double
	}
	return sum / float64(len(data.Results)), nil
}

func checkYears(fromYear, toYear uint16) error {
	if fromYear < 1920 || fromYear > 2080 || fromYear%20 != 0 || toYear != fromYear+19 {
		return &DateRangeNotSupportedError{FromYear: fromYear, ToYear: toYear}
	}
	return nil
}

type annualData struct {
	Double float64 `xml:"double"`
}

type annualGCMDatum struct {
	GCM        string     `xml:"gcm"`
	Variable   string     `xml:"variable"`
	FromYear   string     `xml:"fromYear"`
	ToYear     string     `xml:"toYear"`
	AnnualData annualData `xml:"annualData"`
}

type annualGCMData struct {
	XMLName xml.Name         `xml:"list"`
	Results []annualGCMDatum `xml:"domain.web.AnnualGcmDatum"`
}
