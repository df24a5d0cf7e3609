// Package hostapi reads the host's event log over HTTP.
//
// It is imported as a side effect to register the "http" accessor type:
//
//	import _ "github.com/davidthor/evlog/pkg/logs/hostapi"
//
// The host answers GET <endpoint>?lineCount=N&showTimeStamp=true with either
// a JSON array of records or an object holding them under "entries". Each
// record carries Message, TypeStr, TypeVal and TimeStamp.
package hostapi

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/valyala/fastjson"

	"github.com/davidthor/evlog/pkg/logs"
	"github.com/davidthor/evlog/pkg/logs/live"
)

func init() {
	live.Register("http", func(cfg live.Config) (live.Accessor, error) {
		return New(cfg.Endpoint, cfg.Order)
	})
}

// Accessor implements live.Accessor against a host HTTP endpoint.
type Accessor struct {
	endpoint string
	order    logs.Order
	client   *http.Client
	parser   fastjson.ParserPool
}

// New creates an accessor for the given event log URL
// (e.g. "http://indigo.local:8176/eventlog").
func New(endpoint string, order logs.Order) (*Accessor, error) {
	endpoint = strings.TrimRight(endpoint, "/")
	if endpoint == "" {
		return nil, fmt.Errorf("host endpoint must not be empty")
	}
	if _, err := url.Parse(endpoint); err != nil {
		return nil, fmt.Errorf("invalid host endpoint %q: %w", endpoint, err)
	}
	return &Accessor{
		endpoint: endpoint,
		order:    order,
		client:   &http.Client{Timeout: 30 * time.Second},
	}, nil
}

// Order implements live.Accessor.
func (a *Accessor) Order() logs.Order {
	return a.order
}

// Fetch retrieves up to maxCount of the most recent records.
func (a *Accessor) Fetch(ctx context.Context, maxCount int) ([]live.RawRecord, error) {
	params := url.Values{}
	params.Set("lineCount", strconv.Itoa(maxCount))
	params.Set("showTimeStamp", "true")

	sep := "?"
	if strings.Contains(a.endpoint, "?") {
		sep = "&"
	}
	reqURL := a.endpoint + sep + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("host event log request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read host response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("host returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	return a.decode(body)
}

// decode parses a host response body into raw records.
func (a *Accessor) decode(body []byte) ([]live.RawRecord, error) {
	p := a.parser.Get()
	defer a.parser.Put(p)

	v, err := p.ParseBytes(body)
	if err != nil {
		return nil, fmt.Errorf("failed to decode host response: %w", err)
	}

	var items []*fastjson.Value
	switch v.Type() {
	case fastjson.TypeArray:
		items = v.GetArray()
	case fastjson.TypeObject:
		entries := v.Get("entries")
		if entries == nil || entries.Type() != fastjson.TypeArray {
			return nil, fmt.Errorf("host response has no \"entries\" array")
		}
		items = entries.GetArray()
	default:
		return nil, fmt.Errorf("unexpected host response type %s", v.Type())
	}

	records := make([]live.RawRecord, 0, len(items))
	for _, item := range items {
		if item.Type() != fastjson.TypeObject {
			continue
		}
		records = append(records, parseRecord(item))
	}
	return records, nil
}

// parseRecord copies one JSON record. Missing fields keep their zero value.
func parseRecord(v *fastjson.Value) live.RawRecord {
	return live.RawRecord{
		Message:   string(v.GetStringBytes("Message")),
		TypeStr:   string(v.GetStringBytes("TypeStr")),
		TypeVal:   parseTypeVal(v.Get("TypeVal")),
		TimeStamp: parseTimeStamp(v.Get("TimeStamp")),
	}
}

func parseTypeVal(v *fastjson.Value) int {
	if v == nil {
		return 0
	}
	switch v.Type() {
	case fastjson.TypeNumber:
		n, err := v.Int()
		if err != nil {
			return int(v.GetFloat64())
		}
		return n
	case fastjson.TypeString:
		n, _ := strconv.Atoi(string(v.GetStringBytes()))
		return n
	default:
		return 0
	}
}

func parseTimeStamp(v *fastjson.Value) any {
	if v == nil {
		return nil
	}
	switch v.Type() {
	case fastjson.TypeNull:
		return nil
	case fastjson.TypeString:
		return string(v.GetStringBytes())
	default:
		return v.String()
	}
}
