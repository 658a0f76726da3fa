package collaborators

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opengov-in/rti-sahayak/internal/domain/request"
	"github.com/opengov-in/rti-sahayak/internal/domain/taxonomy"
	"github.com/opengov-in/rti-sahayak/internal/infrastructure/monitoring/logging"
	pkgerrors "github.com/opengov-in/rti-sahayak/pkg/errors"
)

func TestTextGenClient_GenerateQuestions(t *testing.T) {
	var captured questionRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/questions", r.URL.Path)
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))
		json.NewEncoder(w).Encode(questionResponse{Questions: []string{
			"Please provide the repair schedule for the stretch in question.",
			"Please provide the budget sanctioned for the work.",
		}})
	}))
	defer srv.Close()

	client := NewTextGenClient(TextGenConfig{BaseURL: srv.URL, APIKey: "secret"}, logging.NewNop())
	questions, err := client.GenerateQuestions(context.Background(),
		"road broken for 6 months",
		&taxonomy.Category{ID: "road_infrastructure"},
		request.Slots{TimeWindow: "6 months", Region: "Maharashtra"})

	require.NoError(t, err)
	assert.Len(t, questions, 2)
	assert.Equal(t, "road_infrastructure", captured.CategoryID)
	assert.Equal(t, "6 months", captured.TimeWindow)
	assert.Equal(t, "Maharashtra", captured.Region)
}

func TestTextGenClient_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := NewTextGenClient(TextGenConfig{BaseURL: srv.URL}, logging.NewNop())
	_, err := client.GenerateQuestions(context.Background(), "query",
		&taxonomy.Category{ID: "water"}, request.Slots{})

	require.Error(t, err)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.ErrCodeGenerationFailed))
}

func TestTextGenClient_Unreachable(t *testing.T) {
	client := NewTextGenClient(TextGenConfig{
		BaseURL: "http://127.0.0.1:1",
		Timeout: 200 * time.Millisecond,
	}, logging.NewNop())

	_, err := client.GenerateQuestions(context.Background(), "query",
		&taxonomy.Category{ID: "water"}, request.Slots{})
	assert.Error(t, err)
}

func TestAdvisorClient_SuggestOffice(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/route-suggestions", r.URL.Path)
		json.NewEncoder(w).Encode(suggestionResponse{OfficeID: "MH-PWD"})
	}))
	defer srv.Close()

	client := NewAdvisorClient(AdvisorConfig{BaseURL: srv.URL}, logging.NewNop())
	officeID, err := client.SuggestOffice(context.Background(),
		"road broken", "road_infrastructure", "Maharashtra")

	require.NoError(t, err)
	assert.Equal(t, "MH-PWD", officeID)
}

func TestAdvisorClient_ErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	client := NewAdvisorClient(AdvisorConfig{BaseURL: srv.URL}, logging.NewNop())
	_, err := client.SuggestOffice(context.Background(), "q", "water", "")
	assert.Error(t, err)
}

func gatewayFixtures(t *testing.T) (*request.Request, *taxonomy.Office) {
	t.Helper()
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	req := request.New("RTI2026-00001", request.Applicant{
		Name:    "Ramesh Kumar",
		Address: "12 MG Road, Pune",
	}, "road broken", "en", now)
	req.Subject = "Repair of damaged road"
	req.DocumentText = "To,\nThe Public Information Officer..."
	req.Fee = 10
	office := &taxonomy.Office{ID: "MH-PWD", Department: "Public Works Department, Maharashtra"}
	return req, office
}

func TestGatewayClient_File(t *testing.T) {
	var captured filingRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/applications", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))
		json.NewEncoder(w).Encode(filingResponse{AcknowledgementID: "ACK-1234"})
	}))
	defer srv.Close()

	client := NewGatewayClient(GatewayConfig{BaseURL: srv.URL}, logging.NewNop())
	req, office := gatewayFixtures(t)

	ackID, err := client.File(context.Background(), req, office)
	require.NoError(t, err)
	assert.Equal(t, "ACK-1234", ackID)
	assert.Equal(t, "RTI2026-00001", captured.RefNumber)
	assert.Equal(t, "MH-PWD", captured.OfficeID)
	assert.Equal(t, int64(10), captured.Fee)
}

func TestGatewayClient_RetriesTransientFailure(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		json.NewEncoder(w).Encode(filingResponse{AcknowledgementID: "ACK-99"})
	}))
	defer srv.Close()

	client := NewGatewayClient(GatewayConfig{
		BaseURL:        srv.URL,
		MaxElapsedTime: 10 * time.Second,
	}, logging.NewNop())
	req, office := gatewayFixtures(t)

	ackID, err := client.File(context.Background(), req, office)
	require.NoError(t, err)
	assert.Equal(t, "ACK-99", ackID)
	assert.Equal(t, int32(3), calls.Load())
}

func TestGatewayClient_RejectionIsNotRetried(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusUnprocessableEntity)
	}))
	defer srv.Close()

	client := NewGatewayClient(GatewayConfig{BaseURL: srv.URL}, logging.NewNop())
	req, office := gatewayFixtures(t)

	_, err := client.File(context.Background(), req, office)
	require.Error(t, err)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.ErrCodeGatewayFailed))
	assert.Equal(t, int32(1), calls.Load())
}

func TestGatewayClient_ContextCancelled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	client := NewGatewayClient(GatewayConfig{
		BaseURL:        srv.URL,
		MaxElapsedTime: time.Minute,
	}, logging.NewNop())
	req, office := gatewayFixtures(t)

	ctx, cancel := context.WithTimeout(context.Background(), 300*time.Millisecond)
	defer cancel()

	_, err := client.File(ctx, req, office)
	require.Error(t, err)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.ErrCodeGatewayTimeout))
}

func TestGatewayClient_MissingAckID(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(filingResponse{})
	}))
	defer srv.Close()

	client := NewGatewayClient(GatewayConfig{BaseURL: srv.URL}, logging.NewNop())
	req, office := gatewayFixtures(t)

	_, err := client.File(context.Background(), req, office)
	require.Error(t, err)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.ErrCodeGatewayFailed))
}
