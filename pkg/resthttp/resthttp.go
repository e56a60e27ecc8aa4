package resthttp

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
)

const headerKeyRequestID = "X-Request-Id"

// NewClient resty client for a json api endpoint
func NewClient(endpoint string) *resty.Client {
	return resty.New().
		SetBaseURL(endpoint).
		SetHeader("Content-Type", "application/json").
		SetHeader("Charset", "utf-8").
		SetTimeout(10 * time.Second)
}

// Request new resty request
func Request(ctx context.Context, client *resty.Client) *resty.Request {
	return client.R().SetContext(ctx)
}

// WithRequestID resty request with request id
func WithRequestID(ctx context.Context, client *resty.Client, requestID string) *resty.Request {
	return Request(ctx, client).SetHeader(headerKeyRequestID, requestID)
}

// DecodeResponse unwrap a {"data": ...} envelope into v
func DecodeResponse(r *resty.Response, v interface{}) error {
	if !r.IsSuccess() {
		return fmt.Errorf("resthttp: status %d", r.StatusCode())
	}

	if v == nil {
		return nil
	}

	var body struct {
		Data json.RawMessage `json:"data"`
	}

	if err := json.Unmarshal(r.Body(), &body); err != nil {
		return err
	}

	if len(body.Data) == 0 {
		return json.Unmarshal(r.Body(), v)
	}

	return json.Unmarshal(body.Data, v)
}
