package influx

import (
	"context"
	"fmt"
	"log/slog"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"
	v1 "github.com/overlandla/nebenkosten-sub000/internal/api/v1"
)

// Client wraps the InfluxDB v2 query API behind the query.Backend contract.
type Client struct {
	client   influxdb2.Client
	queryAPI api.QueryAPI
}

// NewClient connects to InfluxDB and verifies reachability with a ping.
func NewClient(ctx context.Context, url, token, org string) (*Client, error) {
	client := influxdb2.NewClient(url, token)

	ok, err := client.Ping(ctx)
	if err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to ping influxdb at %s: %w", url, err)
	}
	if !ok {
		client.Close()
		return nil, fmt.Errorf("influxdb at %s is not ready", url)
	}

	slog.Info("[Influx] Client connected", "url", url, "org", org)

	return &Client{
		client:   client,
		queryAPI: client.QueryAPI(org),
	}, nil
}

// QueryPoints runs a Flux query and streams the result rows into chart
// points. Rows whose value is not numeric come back as null points so gaps
// stay visible in the chart.
func (c *Client) QueryPoints(ctx context.Context, flux string) ([]v1.DataPoint, error) {
	result, err := c.queryAPI.Query(ctx, flux)
	if err != nil {
		return nil, fmt.Errorf("flux query failed: %w", err)
	}

	points := make([]v1.DataPoint, 0, 64)
	for result.Next() {
		record := result.Record()

		point := v1.DataPoint{Time: record.Time()}
		if value, ok := toFloat(record.Value()); ok {
			point.Value = &value
		}
		points = append(points, point)
	}
	if err := result.Err(); err != nil {
		return nil, fmt.Errorf("flux result stream failed: %w", err)
	}

	return points, nil
}

// Ping reports backend reachability for the health endpoint.
func (c *Client) Ping(ctx context.Context) error {
	ok, err := c.client.Ping(ctx)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("influxdb not ready")
	}
	return nil
}

// Close releases the underlying HTTP resources.
func (c *Client) Close() {
	c.client.Close()
}

// toFloat normalizes the dynamic value types the Flux client can produce.
func toFloat(value interface{}) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case int64:
		return float64(v), true
	case uint64:
		return float64(v), true
	default:
		return 0, false
	}
}
