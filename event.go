package edgeauthz

import (
	"errors"
	"maps"
	"strings"
)

// ErrNoRecord is returned when an event carries no CloudFront record.
var ErrNoRecord = errors.New("event contains no cloudfront record")

// Event is the payload Lambda@Edge delivers for viewer-request and
// origin-request triggers.
type Event struct {
	Records []Record `json:"Records"`
}

// Record wraps a single CloudFront request.
type Record struct {
	CF CF `json:"cf"`
}

// CF holds the distribution config and the request.
type CF struct {
	Config  Config  `json:"config"`
	Request Request `json:"request"`
}

// Config identifies the distribution and trigger that produced an event.
type Config struct {
	DistributionDomainName string `json:"distributionDomainName"`
	DistributionID         string `json:"distributionId"`
	EventType              string `json:"eventType"`
	RequestID              string `json:"requestId"`
}

// Request is the CloudFront request object. Returning it from a handler
// forwards it, modified or not, to the next stage.
type Request struct {
	ClientIP    string  `json:"clientIp"`
	Headers     Headers `json:"headers"`
	Method      string  `json:"method"`
	QueryString string  `json:"querystring"`
	URI         string  `json:"uri"`
	Origin      *Origin `json:"origin,omitempty"`
	Body        *Body   `json:"body,omitempty"`
}

// Body is present only when the distribution includes request bodies.
type Body struct {
	InputTruncated bool   `json:"inputTruncated"`
	Action         string `json:"action"`
	Encoding       string `json:"encoding"`
	Data           string `json:"data"`
}

// Origin is present on origin-request events.
type Origin struct {
	Custom *CustomOrigin `json:"custom,omitempty"`
	S3     *S3Origin     `json:"s3,omitempty"`
}

// CustomOrigin describes an HTTP origin such as API Gateway.
type CustomOrigin struct {
	CustomHeaders    Headers  `json:"customHeaders"`
	DomainName       string   `json:"domainName"`
	KeepaliveTimeout int      `json:"keepaliveTimeout"`
	Path             string   `json:"path"`
	Port             int      `json:"port"`
	Protocol         string   `json:"protocol"`
	ReadTimeout      int      `json:"readTimeout"`
	SSLProtocols     []string `json:"sslProtocols"`
}

// S3Origin describes an S3 bucket origin.
type S3Origin struct {
	AuthMethod    string  `json:"authMethod"`
	CustomHeaders Headers `json:"customHeaders"`
	DomainName    string  `json:"domainName"`
	Path          string  `json:"path"`
	Region        string  `json:"region"`
}

// Header is one header entry. Key keeps the original casing.
type Header struct {
	Key   string `json:"key,omitempty"`
	Value string `json:"value"`
}

// Headers maps lower-case header names to their entries.
type Headers map[string][]Header

// Get returns the first value of the named header, or "".
func (h Headers) Get(name string) string {
	if values := h[strings.ToLower(name)]; len(values) > 0 {
		return values[0].Value
	}
	return ""
}

// Values returns every value of the named header.
func (h Headers) Values(name string) []string {
	entries := h[strings.ToLower(name)]
	values := make([]string, 0, len(entries))
	for _, entry := range entries {
		values = append(values, entry.Value)
	}
	return values
}

// Has reports whether the named header is present.
func (h Headers) Has(name string) bool {
	_, ok := h[strings.ToLower(name)]
	return ok
}

// Set replaces the named header with a single entry whose key is key.
func (h Headers) Set(key, value string) {
	h[strings.ToLower(key)] = []Header{{Key: key, Value: value}}
}

// Request returns the request of the event's first record. The returned
// pointer aliases the event, so returning it forwards the request as is.
func (e Event) Request() (*Request, error) {
	if len(e.Records) == 0 {
		return nil, ErrNoRecord
	}
	return &e.Records[0].CF.Request, nil
}

// clone returns a copy of r whose headers and custom origin headers can be
// changed without touching r.
func (r *Request) clone() *Request {
	out := *r
	out.Headers = maps.Clone(r.Headers)
	if out.Headers == nil {
		out.Headers = Headers{}
	}
	if r.Origin != nil {
		origin := *r.Origin
		if r.Origin.Custom != nil {
			custom := *r.Origin.Custom
			custom.CustomHeaders = maps.Clone(r.Origin.Custom.CustomHeaders)
			if custom.CustomHeaders == nil {
				custom.CustomHeaders = Headers{}
			}
			origin.Custom = &custom
		}
		out.Origin = &origin
	}
	return &out
}
