package main

import (
	"context"
	"time"

	"github.com/opengov-in/rti-sahayak/internal/application/escalation"
	"github.com/opengov-in/rti-sahayak/internal/application/lifecycle"
	"github.com/opengov-in/rti-sahayak/internal/domain/request"
	"github.com/opengov-in/rti-sahayak/internal/infrastructure/monitoring/prometheus"
)

// instrumentedService records domain metrics around the lifecycle engine so
// the handlers stay metrics-free.
type instrumentedService struct {
	engine  *lifecycle.Engine
	metrics *prometheus.AppMetrics
}

func newInstrumentedService(engine *lifecycle.Engine, metrics *prometheus.AppMetrics) *instrumentedService {
	return &instrumentedService{engine: engine, metrics: metrics}
}

func (s *instrumentedService) Submit(ctx context.Context, in lifecycle.SubmitInput) (*request.Request, error) {
	req, err := s.engine.Submit(ctx, in)
	if err != nil {
		return nil, err
	}

	prometheus.RecordClassification(s.metrics, req.Classification.CategoryID, req.Classification.Confidence)
	s.metrics.RequestsSubmittedTotal.WithLabelValues(req.Classification.CategoryID).Inc()
	if req.Fee == 0 && req.Applicant.BPL {
		s.metrics.FeeExemptionsTotal.WithLabelValues().Inc()
	}
	return req, nil
}

func (s *instrumentedService) Get(ctx context.Context, refNumber string) (*request.Request, error) {
	return s.engine.Get(ctx, refNumber)
}

func (s *instrumentedService) List(ctx context.Context, openOnly bool, limit int) ([]*request.Request, error) {
	return s.engine.List(ctx, openOnly, limit)
}

func (s *instrumentedService) File(ctx context.Context, refNumber string) (*request.Request, error) {
	start := time.Now()
	req, err := s.engine.File(ctx, refNumber)
	prometheus.RecordGatewayAttempt(s.metrics, err == nil, time.Since(start))
	if err != nil {
		return nil, err
	}

	s.metrics.RequestsFiledTotal.WithLabelValues(req.OfficeID).Inc()
	s.recordTransition(request.StatusDrafted, req.Status)
	return req, nil
}

func (s *instrumentedService) Acknowledge(ctx context.Context, refNumber string) (*request.Request, error) {
	req, err := s.engine.Acknowledge(ctx, refNumber)
	if err != nil {
		return nil, err
	}
	s.recordTransition(request.StatusFiled, req.Status)
	return req, nil
}

func (s *instrumentedService) RecordResponse(ctx context.Context, refNumber string) (*request.Request, error) {
	return s.engine.RecordResponse(ctx, refNumber)
}

func (s *instrumentedService) Close(ctx context.Context, refNumber string) (*request.Request, error) {
	return s.engine.Close(ctx, refNumber)
}

func (s *instrumentedService) CheckAppeal(ctx context.Context, refNumber string) (*lifecycle.AppealStatus, error) {
	return s.engine.CheckAppeal(ctx, refNumber)
}

func (s *instrumentedService) recordTransition(from, to request.Status) {
	s.metrics.StatusTransitionsTotal.WithLabelValues(string(from), string(to)).Inc()
}

// instrumentedSweeper records sweep counters around the escalation sweeper.
type instrumentedSweeper struct {
	sweeper *escalation.Sweeper
	metrics *prometheus.AppMetrics
}

func newInstrumentedSweeper(sweeper *escalation.Sweeper, metrics *prometheus.AppMetrics) *instrumentedSweeper {
	return &instrumentedSweeper{sweeper: sweeper, metrics: metrics}
}

func (s *instrumentedSweeper) Run(ctx context.Context) (escalation.Result, error) {
	result, err := s.sweeper.Run(ctx)
	if err != nil {
		return result, err
	}

	prometheus.RecordSweep(s.metrics, result.Scanned, result.Reminders, result.Failures)
	if result.Appeals > 0 {
		// Sweep-driven appeals always cite the deadline elapsing.
		s.metrics.AppealsFiledTotal.
			WithLabelValues(string(request.GroundDeemedRefusal)).
			Add(float64(result.Appeals))
	}
	return result, nil
}
