package client

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordedCall struct {
	Method string
	Path   string
	Query  string
	Body   []byte
}

func newRecordingServer(t *testing.T, status int, response string) (*httptest.Server, *recordedCall) {
	t.Helper()
	call := &recordedCall{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		call.Method = r.Method
		call.Path = r.URL.Path
		call.Query = r.URL.RawQuery
		body, _ := io.ReadAll(r.Body)
		call.Body = body
		w.WriteHeader(status)
		w.Write([]byte(response))
	}))
	t.Cleanup(srv.Close)
	return srv, call
}

func newTestClient(t *testing.T, baseURL string) *Client {
	t.Helper()
	c, err := NewClient(baseURL, WithRetryMax(0))
	require.NoError(t, err)
	return c
}

func TestRequestsClient_Submit(t *testing.T) {
	srv, call := newRecordingServer(t, http.StatusCreated,
		`{"ref_number":"RTI-2026-000042","status":"drafted","fee":10}`)
	c := newTestClient(t, srv.URL)

	req, err := c.Requests().Submit(context.Background(), SubmitInput{
		Applicant: Applicant{Name: "Asha Kulkarni", Address: "Pune"},
		QueryText: "road repair status in my ward",
		Language:  "en",
	})
	require.NoError(t, err)

	assert.Equal(t, http.MethodPost, call.Method)
	assert.Equal(t, "/api/v1/requests", call.Path)
	assert.Equal(t, "RTI-2026-000042", req.RefNumber)
	assert.Equal(t, "drafted", req.Status)
	assert.Equal(t, int64(10), req.Fee)

	var sent SubmitInput
	require.NoError(t, json.Unmarshal(call.Body, &sent))
	assert.Equal(t, "Asha Kulkarni", sent.Applicant.Name)
	assert.Equal(t, "en", sent.Language)
}

func TestRequestsClient_Get(t *testing.T) {
	srv, call := newRecordingServer(t, http.StatusOK,
		`{"ref_number":"RTI-2026-000001","status":"filed"}`)
	c := newTestClient(t, srv.URL)

	req, err := c.Requests().Get(context.Background(), "RTI-2026-000001")
	require.NoError(t, err)
	assert.Equal(t, http.MethodGet, call.Method)
	assert.Equal(t, "/api/v1/requests/RTI-2026-000001", call.Path)
	assert.Equal(t, "filed", req.Status)
}

func TestRequestsClient_GetRejectsEmptyRef(t *testing.T) {
	c := newTestClient(t, "http://localhost:8080")
	_, err := c.Requests().Get(context.Background(), "  ")
	assert.Error(t, err)
}

func TestRequestsClient_List(t *testing.T) {
	srv, call := newRecordingServer(t, http.StatusOK,
		`{"requests":[{"ref_number":"RTI-2026-000001"},{"ref_number":"RTI-2026-000002"}],"count":2}`)
	c := newTestClient(t, srv.URL)

	reqs, err := c.Requests().List(context.Background(), ListOptions{OpenOnly: true, Limit: 10})
	require.NoError(t, err)
	require.Len(t, reqs, 2)
	assert.Equal(t, "RTI-2026-000002", reqs[1].RefNumber)
	assert.Contains(t, call.Query, "open=true")
	assert.Contains(t, call.Query, "limit=10")
}

func TestRequestsClient_SignalEndpoints(t *testing.T) {
	cases := []struct {
		name   string
		call   func(*RequestsClient, context.Context) (*Request, error)
		suffix string
	}{
		{"file", func(rc *RequestsClient, ctx context.Context) (*Request, error) {
			return rc.File(ctx, "RTI-2026-000007")
		}, "file"},
		{"acknowledge", func(rc *RequestsClient, ctx context.Context) (*Request, error) {
			return rc.Acknowledge(ctx, "RTI-2026-000007")
		}, "acknowledge"},
		{"response", func(rc *RequestsClient, ctx context.Context) (*Request, error) {
			return rc.RecordResponse(ctx, "RTI-2026-000007")
		}, "response"},
		{"close", func(rc *RequestsClient, ctx context.Context) (*Request, error) {
			return rc.Close(ctx, "RTI-2026-000007")
		}, "close"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			srv, call := newRecordingServer(t, http.StatusOK,
				`{"ref_number":"RTI-2026-000007"}`)
			c := newTestClient(t, srv.URL)

			req, err := tc.call(c.Requests(), context.Background())
			require.NoError(t, err)
			assert.Equal(t, http.MethodPost, call.Method)
			assert.Equal(t, "/api/v1/requests/RTI-2026-000007/"+tc.suffix, call.Path)
			assert.Equal(t, "RTI-2026-000007", req.RefNumber)
		})
	}
}

func TestRequestsClient_Appeal(t *testing.T) {
	srv, call := newRecordingServer(t, http.StatusOK,
		`{"ref_number":"RTI-2026-000009","status":"appeal_filed","days_remaining":-3,"appeal":{"id":"a1","ground":"deemed_refusal"}}`)
	c := newTestClient(t, srv.URL)

	status, err := c.Requests().Appeal(context.Background(), "RTI-2026-000009")
	require.NoError(t, err)
	assert.Equal(t, "/api/v1/requests/RTI-2026-000009/appeal", call.Path)
	assert.Equal(t, -3, status.DaysRemaining)
	require.NotNil(t, status.Appeal)
	assert.Equal(t, "deemed_refusal", status.Appeal.Ground)
}

func TestRequestsClient_ConflictSurfacesAPIError(t *testing.T) {
	srv, _ := newRecordingServer(t, http.StatusConflict,
		`{"code":"REQ_002","message":"cannot file from status closed"}`)
	c := newTestClient(t, srv.URL)

	_, err := c.Requests().File(context.Background(), "RTI-2026-000011")
	require.Error(t, err)

	apiErr, ok := err.(*APIError)
	require.True(t, ok)
	assert.True(t, apiErr.IsConflict())
	assert.Equal(t, "REQ_002", apiErr.Code)
}
