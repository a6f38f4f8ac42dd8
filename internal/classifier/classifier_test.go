package classifier

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"github.com/yourusername/football-ml/internal/config"
	"github.com/yourusername/football-ml/internal/logger"
	"github.com/yourusername/football-ml/internal/models"
)

func testLogger() *logger.ClassifierLogger {
	base := logrus.New()
	base.SetOutput(io.Discard)
	return logger.NewClassifierLogger(base)
}

func testRows() []models.FeatureRow {
	return []models.FeatureRow{
		{
			CanonicalMatch: models.CanonicalMatch{MatchKey: "k1", MatchRecord: models.MatchRecord{Season: 2022}, Label: models.LabelHomeWin},
			Features:       map[string]*float64{"elo_diff": models.FloatPtr(10), "odds_margin": nil},
		},
		{
			CanonicalMatch: models.CanonicalMatch{MatchKey: "k2", MatchRecord: models.MatchRecord{Season: 2023}, Label: models.LabelDraw},
			Features:       map[string]*float64{"elo_diff": models.FloatPtr(-4), "odds_margin": models.FloatPtr(1.05)},
		},
	}
}

var testColumns = []string{"elo_diff", "odds_margin"}

func TestNewDatasetSubmission(t *testing.T) {
	sub := NewDatasetSubmission("run-1", PartitionTrain, testRows(), testColumns)

	require.Len(t, sub.Rows, 2)
	assert.Equal(t, "label", sub.LabelColumn)
	assert.Equal(t, 0, sub.Rows[0].Label)
	assert.Nil(t, sub.Rows[0].Features[1])

	body, err := json.Marshal(sub.Rows[0])
	require.NoError(t, err)
	assert.JSONEq(t, `{"match_key":"k1","season":2022,"label":0,"features":[10,null]}`, string(body))
}

func TestSubmitDataset(t *testing.T) {
	var received DatasetSubmission
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/datasets", r.URL.Path)
		assert.Equal(t, http.MethodPost, r.Method)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		w.WriteHeader(http.StatusAccepted)
		_, _ = w.Write([]byte(`{"dataset_id":"ds-1","status":"queued","accepted":2}`))
	}))
	defer srv.Close()

	client := NewHTTPClient(&config.ClassifierConfig{HTTPAddress: srv.URL + "/", RequestTimeoutSeconds: 5}, testLogger())
	resp, err := client.SubmitDataset(context.Background(), NewDatasetSubmission("run-1", PartitionEval, testRows(), testColumns))
	require.NoError(t, err)

	assert.Equal(t, "ds-1", resp.DatasetID)
	assert.Equal(t, 2, resp.Accepted)
	assert.Equal(t, PartitionEval, received.Partition)
	assert.Equal(t, testColumns, received.FeatureColumns)
}

func TestSubmitDatasetErrors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr error
	}{
		{name: "rejected", status: http.StatusBadRequest, body: `{"error":"bad shape"}`, wantErr: ErrSubmissionRejected},
		{name: "server error", status: http.StatusInternalServerError, body: "boom", wantErr: ErrClassifierUnavailable},
		{name: "garbage body", status: http.StatusOK, body: "not json", wantErr: ErrInvalidResponse},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			client := NewHTTPClient(&config.ClassifierConfig{HTTPAddress: srv.URL, RequestTimeoutSeconds: 5}, testLogger())
			_, err := client.SubmitDataset(context.Background(), NewDatasetSubmission("run-1", PartitionTrain, testRows(), testColumns))
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestHTTPHealthCheck(t *testing.T) {
	var healthy atomic.Bool
	healthy.Store(true)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if healthy.Load() {
			w.WriteHeader(http.StatusOK)
			return
		}
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	client := NewHTTPClient(&config.ClassifierConfig{HTTPAddress: srv.URL, RequestTimeoutSeconds: 5}, testLogger())
	require.NoError(t, client.HealthCheck(context.Background()))

	healthy.Store(false)
	assert.ErrorIs(t, client.HealthCheck(context.Background()), ErrClassifierUnavailable)
}

func startHealthServer(t *testing.T, status healthpb.HealthCheckResponse_ServingStatus) string {
	t.Helper()

	lis, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	srv := grpc.NewServer()
	hs := health.NewServer()
	hs.SetServingStatus("", status)
	healthpb.RegisterHealthServer(srv, hs)

	go func() { _ = srv.Serve(lis) }()
	t.Cleanup(srv.Stop)
	return lis.Addr().String()
}

func TestProbeGRPC(t *testing.T) {
	addr := startHealthServer(t, healthpb.HealthCheckResponse_SERVING)
	require.NoError(t, ProbeGRPC(context.Background(), addr, "", 5*time.Second, testLogger()))
}

func TestProbeGRPCNotServing(t *testing.T) {
	addr := startHealthServer(t, healthpb.HealthCheckResponse_NOT_SERVING)
	err := ProbeGRPC(context.Background(), addr, "", 5*time.Second, testLogger())
	assert.ErrorIs(t, err, ErrClassifierUnavailable)
}

type fakeSubmitter struct {
	calls  []string
	failOn string
}

func (f *fakeSubmitter) SubmitDataset(_ context.Context, sub *DatasetSubmission) (*SubmissionResponse, error) {
	f.calls = append(f.calls, sub.Partition)
	if sub.Partition == f.failOn {
		return nil, ErrSubmissionRejected
	}
	return &SubmissionResponse{Accepted: len(sub.Rows)}, nil
}

func TestHandoffDeliver(t *testing.T) {
	rows := testRows()
	fake := &fakeSubmitter{}
	h := NewHandoffWithSubmitter(config.ClassifierConfig{}, fake, testLogger())

	err := h.Deliver(context.Background(), "run-1", []Partition{
		{Name: PartitionTrain, Rows: rows[:1]},
		{Name: PartitionEval, Rows: rows[1:]},
		{Name: PartitionUpcoming},
	}, testColumns)
	require.NoError(t, err)
	assert.Equal(t, []string{PartitionTrain, PartitionEval}, fake.calls)
}

func TestHandoffStopsOnFailure(t *testing.T) {
	rows := testRows()
	fake := &fakeSubmitter{failOn: PartitionTrain}
	h := NewHandoffWithSubmitter(config.ClassifierConfig{}, fake, testLogger())

	err := h.Deliver(context.Background(), "run-1", []Partition{
		{Name: PartitionTrain, Rows: rows},
		{Name: PartitionEval, Rows: rows},
	}, testColumns)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrSubmissionRejected))
	assert.Equal(t, []string{PartitionTrain}, fake.calls)
}

func TestHandoffProbesGRPCFirst(t *testing.T) {
	addr := startHealthServer(t, healthpb.HealthCheckResponse_NOT_SERVING)
	fake := &fakeSubmitter{}
	h := NewHandoffWithSubmitter(config.ClassifierConfig{GRPCAddress: addr, RequestTimeoutSeconds: 5}, fake, testLogger())

	err := h.Deliver(context.Background(), "run-1", []Partition{{Name: PartitionTrain, Rows: testRows()}}, testColumns)
	assert.ErrorIs(t, err, ErrClassifierUnavailable)
	assert.Empty(t, fake.calls)
}
