package client

import (
	"context"
	"fmt"
	"net/http"
	"strings"
)

// OpsClient covers operational endpoints: classification preview and the
// on-demand escalation sweep.
type OpsClient struct {
	client *Client
}

// Classify previews the category and office a query would route to without
// creating a request.
func (oc *OpsClient) Classify(ctx context.Context, queryText string) (*ClassifyResult, error) {
	if strings.TrimSpace(queryText) == "" {
		return nil, fmt.Errorf("client: query text must not be empty")
	}

	body := struct {
		QueryText string `json:"query_text"`
	}{QueryText: queryText}

	var out ClassifyResult
	if err := oc.client.do(ctx, http.MethodPost, apiPrefix+"/classify", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// RunSweep triggers one escalation sweep and returns its counters.
func (oc *OpsClient) RunSweep(ctx context.Context) (*SweepResult, error) {
	var out SweepResult
	if err := oc.client.do(ctx, http.MethodPost, apiPrefix+"/escalation/sweep", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
