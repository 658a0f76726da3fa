package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

// RequestsClient covers the application lifecycle endpoints.
type RequestsClient struct {
	client *Client
}

// Submit drafts a new application from a citizen grievance.
func (rc *RequestsClient) Submit(ctx context.Context, in SubmitInput) (*Request, error) {
	var out Request
	if err := rc.client.do(ctx, http.MethodPost, apiPrefix+"/requests", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Get fetches one request by reference number.
func (rc *RequestsClient) Get(ctx context.Context, refNumber string) (*Request, error) {
	path, err := refPath(refNumber, "")
	if err != nil {
		return nil, err
	}
	var out Request
	if err := rc.client.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// List fetches requests, optionally restricted to open ones.
func (rc *RequestsClient) List(ctx context.Context, opts ListOptions) ([]Request, error) {
	query := url.Values{}
	if opts.OpenOnly {
		query.Set("open", "true")
	}
	if opts.Limit > 0 {
		query.Set("limit", strconv.Itoa(opts.Limit))
	}

	path := apiPrefix + "/requests"
	if encoded := query.Encode(); encoded != "" {
		path += "?" + encoded
	}

	var out struct {
		Requests []Request `json:"requests"`
		Count    int       `json:"count"`
	}
	if err := rc.client.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return out.Requests, nil
}

// File submits a drafted request through the government gateway.
func (rc *RequestsClient) File(ctx context.Context, refNumber string) (*Request, error) {
	return rc.signal(ctx, refNumber, "file")
}

// Acknowledge records the PIO acknowledgement.
func (rc *RequestsClient) Acknowledge(ctx context.Context, refNumber string) (*Request, error) {
	return rc.signal(ctx, refNumber, "acknowledge")
}

// RecordResponse records that the PIO responded.
func (rc *RequestsClient) RecordResponse(ctx context.Context, refNumber string) (*Request, error) {
	return rc.signal(ctx, refNumber, "response")
}

// Close marks the request resolved.
func (rc *RequestsClient) Close(ctx context.Context, refNumber string) (*Request, error) {
	return rc.signal(ctx, refNumber, "close")
}

// Appeal fetches the escalation view of one request.
func (rc *RequestsClient) Appeal(ctx context.Context, refNumber string) (*AppealStatus, error) {
	path, err := refPath(refNumber, "appeal")
	if err != nil {
		return nil, err
	}
	var out AppealStatus
	if err := rc.client.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (rc *RequestsClient) signal(ctx context.Context, refNumber, action string) (*Request, error) {
	path, err := refPath(refNumber, action)
	if err != nil {
		return nil, err
	}
	var out Request
	if err := rc.client.do(ctx, http.MethodPost, path, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func refPath(refNumber, suffix string) (string, error) {
	if strings.TrimSpace(refNumber) == "" {
		return "", fmt.Errorf("client: reference number must not be empty")
	}
	path := apiPrefix + "/requests/" + url.PathEscape(refNumber)
	if suffix != "" {
		path += "/" + suffix
	}
	return path, nil
}
