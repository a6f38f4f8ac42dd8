package classifier

import (
	"context"
	"fmt"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"github.com/yourusername/football-ml/internal/logger"
)

// ProbeGRPC asks the standard gRPC health service whether service is serving.
// An empty service name checks the server as a whole.
func ProbeGRPC(ctx context.Context, address, service string, timeout time.Duration, log *logger.ClassifierLogger) error {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	start := time.Now()
	conn, err := grpc.NewClient(address, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrClassifierUnavailable, err)
	}
	defer conn.Close()

	resp, err := healthpb.NewHealthClient(conn).Check(ctx, &healthpb.HealthCheckRequest{Service: service})
	if err != nil {
		log.LogHealthProbe("grpc", "unreachable", float64(time.Since(start).Milliseconds()))
		return fmt.Errorf("%w: %v", ErrClassifierUnavailable, err)
	}

	status := resp.GetStatus()
	log.LogHealthProbe("grpc", status.String(), float64(time.Since(start).Milliseconds()))
	if status != healthpb.HealthCheckResponse_SERVING {
		return fmt.Errorf("%w: health status %s", ErrClassifierUnavailable, status)
	}
	return nil
}
