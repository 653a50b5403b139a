package kpi

import (
	"context"
	"fmt"
)

// Fetcher is the transport the service reads through.
type Fetcher interface {
	FetchJSON(ctx context.Context, path string, v any) error
}

// ServiceAPI is the dashboard data source used by the refresher and views.
type ServiceAPI interface {
	FetchSnapshot(ctx context.Context) (Snapshot, error)
	FetchMetrics(ctx context.Context) (*Metrics, error)
}

// Service implements ServiceAPI over a Fetcher.
type Service struct {
	fetcher     Fetcher
	kpisPath    string
	metricsPath string
}

// NewService creates a Service reading the given endpoint paths.
func NewService(f Fetcher, kpisPath, metricsPath string) *Service {
	return &Service{fetcher: f, kpisPath: kpisPath, metricsPath: metricsPath}
}

// FetchSnapshot reads the KPI endpoint.
func (s *Service) FetchSnapshot(ctx context.Context) (Snapshot, error) {
	var snap Snapshot
	if err := s.fetcher.FetchJSON(ctx, s.kpisPath, &snap); err != nil {
		return nil, fmt.Errorf("kpis: %w", err)
	}
	if snap == nil {
		return nil, fmt.Errorf("kpis: %w", errNullSnapshot)
	}
	return snap, nil
}

// FetchMetrics reads the system metrics endpoint.
func (s *Service) FetchMetrics(ctx context.Context) (*Metrics, error) {
	var m Metrics
	if err := s.fetcher.FetchJSON(ctx, s.metricsPath, &m); err != nil {
		return nil, fmt.Errorf("metrics: %w", err)
	}
	return &m, nil
}

// MockService is a ServiceAPI whose behaviour is set per test.
type MockService struct {
	FetchSnapshotFunc func(ctx context.Context) (Snapshot, error)
	FetchMetricsFunc  func(ctx context.Context) (*Metrics, error)
}

// FetchSnapshot calls FetchSnapshotFunc, or returns an empty snapshot.
func (m *MockService) FetchSnapshot(ctx context.Context) (Snapshot, error) {
	if m.FetchSnapshotFunc != nil {
		return m.FetchSnapshotFunc(ctx)
	}
	return Snapshot{}, nil
}

// FetchMetrics calls FetchMetricsFunc, or returns zero metrics.
func (m *MockService) FetchMetrics(ctx context.Context) (*Metrics, error) {
	if m.FetchMetricsFunc != nil {
		return m.FetchMetricsFunc(ctx)
	}
	return &Metrics{}, nil
}
