// Package scraper pulls the EdWeather Prometheus exposition from /metrics and
// writes it to Google Cloud Managed Service for Prometheus. It runs as its own
// container (see cmd/scraper) and is triggered over HTTP by a scheduler.
package scraper

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"net/http"
	"sort"
	"time"

	monitoring "cloud.google.com/go/monitoring/apiv3/v2"
	"cloud.google.com/go/monitoring/apiv3/v2/monitoringpb"
	dto "github.com/prometheus/client_model/go"
	"github.com/prometheus/common/expfmt"
	"google.golang.org/genproto/googleapis/api/distribution"
	"google.golang.org/genproto/googleapis/api/metric"
	"google.golang.org/genproto/googleapis/api/monitoredres"
	"google.golang.org/protobuf/types/known/timestamppb"
)

const metricTypePrefix = "prometheus.googleapis.com/"

// Config is read from the environment by cmd/scraper.
type Config struct {
	Port       string `envconfig:"PORT" default:"8080"`
	MetricsURL string `envconfig:"METRICS_URL" validate:"required,url"`
	ProjectID  string `envconfig:"PROJECT_ID" validate:"required"`
	Location   string `envconfig:"SCRAPE_LOCATION" default:"europe-west1"`
	Namespace  string `envconfig:"SCRAPE_NAMESPACE" default:"edweather"`
}

// TimeSeriesWriter stores converted samples.
type TimeSeriesWriter interface {
	WriteTimeSeries(ctx context.Context, projectID string, series []*monitoringpb.TimeSeries) error
}

type Scraper struct {
	cfg        Config
	httpClient *http.Client
	writer     TimeSeriesWriter
	logger     *slog.Logger
	now        func() time.Time
}

func New(cfg Config, httpClient *http.Client, writer TimeSeriesWriter, logger *slog.Logger) *Scraper {
	return &Scraper{
		cfg:        cfg,
		httpClient: httpClient,
		writer:     writer,
		logger:     logger,
		now:        time.Now,
	}
}

// ServeHTTP runs one scrape per request.
func (s *Scraper) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.logger.Info("scrape request received")
	n, err := s.ScrapeAndIngest(r.Context())
	if err != nil {
		s.logger.Error("error during scrape and ingest", "error", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	s.logger.Info("successfully scraped and ingested metrics", "series", n)
	fmt.Fprintln(w, "Success")
}

// ScrapeAndIngest fetches, converts and writes the metrics, returning the number
// of series written.
func (s *Scraper) ScrapeAndIngest(ctx context.Context) (int, error) {
	series, err := s.fetchTimeSeries(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to fetch and convert metrics: %w", err)
	}
	if len(series) == 0 {
		s.logger.Info("no metric samples found to ingest")
		return 0, nil
	}
	if err := s.writer.WriteTimeSeries(ctx, s.cfg.ProjectID, series); err != nil {
		return 0, fmt.Errorf("failed to ingest metrics: %w", err)
	}
	return len(series), nil
}

func (s *Scraper) fetchTimeSeries(ctx context.Context) ([]*monitoringpb.TimeSeries, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.cfg.MetricsURL, nil)
	if err != nil {
		return nil, err
	}
	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("http request failed with status code %d", resp.StatusCode)
	}

	var parser expfmt.TextParser
	families, err := parser.TextToMetricFamilies(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse prometheus metrics: %w", err)
	}

	resource := &monitoredres.MonitoredResource{
		Type: "prometheus_target",
		Labels: map[string]string{
			"project_id": s.cfg.ProjectID,
			"location":   s.cfg.Location,
			"cluster":    "__gce__",
			"namespace":  s.cfg.Namespace,
			"job":        s.cfg.Namespace,
			"instance":   s.cfg.MetricsURL,
		},
	}
	return convertFamilies(families, resource, timestamppb.New(s.now()), s.logger), nil
}

// convertFamilies turns parsed families into time series, ordered by metric name.
// Summaries and unknown types are skipped.
func convertFamilies(families map[string]*dto.MetricFamily, resource *monitoredres.MonitoredResource, now *timestamppb.Timestamp, logger *slog.Logger) []*monitoringpb.TimeSeries {
	names := make([]string, 0, len(families))
	for name := range families {
		names = append(names, name)
	}
	sort.Strings(names)

	var series []*monitoringpb.TimeSeries
	for _, name := range names {
		mf := families[name]
		for _, m := range mf.GetMetric() {
			var point *monitoringpb.Point
			switch mf.GetType() {
			case dto.MetricType_COUNTER:
				point = doublePoint(now, m.GetCounter().GetValue())
			case dto.MetricType_GAUGE:
				point = doublePoint(now, m.GetGauge().GetValue())
			case dto.MetricType_UNTYPED:
				point = doublePoint(now, m.GetUntyped().GetValue())
			case dto.MetricType_HISTOGRAM:
				point = distributionPoint(now, m.GetHistogram(), logger)
			case dto.MetricType_SUMMARY:
				logger.Debug("skipping metric with unhandled summary type", "metric", name)
				continue
			default:
				logger.Warn("skipping metric with unhandled type", "metric", name, "type", mf.GetType())
				continue
			}

			labels := make(map[string]string, len(m.GetLabel()))
			for _, lp := range m.GetLabel() {
				labels[lp.GetName()] = lp.GetValue()
			}
			series = append(series, &monitoringpb.TimeSeries{
				Metric: &metric.Metric{
					Type:   metricTypePrefix + name,
					Labels: labels,
				},
				Resource: resource,
				Points:   []*monitoringpb.Point{point},
			})
		}
	}
	return series
}

func doublePoint(timestamp *timestamppb.Timestamp, value float64) *monitoringpb.Point {
	return &monitoringpb.Point{
		Interval: &monitoringpb.TimeInterval{EndTime: timestamp},
		Value: &monitoringpb.TypedValue{
			Value: &monitoringpb.TypedValue_DoubleValue{DoubleValue: value},
		},
	}
}

// distributionPoint converts cumulative Prometheus buckets into per-bucket counts.
// The trailing +Inf bucket contributes a count but no bound.
func distributionPoint(timestamp *timestamppb.Timestamp, h *dto.Histogram, logger *slog.Logger) *monitoringpb.Point {
	buckets := h.GetBucket()
	var bounds []float64
	counts := make([]int64, len(buckets))
	var previous uint64
	for i, b := range buckets {
		if !math.IsInf(b.GetUpperBound(), 1) {
			bounds = append(bounds, b.GetUpperBound())
		}
		counts[i] = capInt64(b.GetCumulativeCount()-previous, logger)
		previous = b.GetCumulativeCount()
	}

	count := capInt64(h.GetSampleCount(), logger)
	var mean float64
	if count > 0 {
		mean = h.GetSampleSum() / float64(count)
	}

	return &monitoringpb.Point{
		Interval: &monitoringpb.TimeInterval{EndTime: timestamp},
		Value: &monitoringpb.TypedValue{
			Value: &monitoringpb.TypedValue_DistributionValue{
				DistributionValue: &distribution.Distribution{
					Count: count,
					Mean:  mean,
					BucketOptions: &distribution.Distribution_BucketOptions{
						Options: &distribution.Distribution_BucketOptions_ExplicitBuckets{
							ExplicitBuckets: &distribution.Distribution_BucketOptions_Explicit{
								Bounds: bounds,
							},
						},
					},
					BucketCounts: counts,
				},
			},
		},
	}
}

func capInt64(v uint64, logger *slog.Logger) int64 {
	if v > math.MaxInt64 {
		logger.Warn("histogram count exceeds MaxInt64, capping value", "value", v)
		return math.MaxInt64
	}
	return int64(v)
}

// CloudMonitoringWriter writes to the Cloud Monitoring API, opening a client per
// call and relying on the library's connection pooling.
type CloudMonitoringWriter struct{}

func (CloudMonitoringWriter) WriteTimeSeries(ctx context.Context, projectID string, series []*monitoringpb.TimeSeries) error {
	client, err := monitoring.NewMetricClient(ctx)
	if err != nil {
		return fmt.Errorf("failed to create monitoring client: %w", err)
	}
	defer client.Close()

	req := &monitoringpb.CreateTimeSeriesRequest{
		Name:       "projects/" + projectID,
		TimeSeries: series,
	}
	if err := client.CreateTimeSeries(ctx, req); err != nil {
		return fmt.Errorf("failed to write time series data: %w", err)
	}
	return nil
}
