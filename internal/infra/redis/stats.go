package redis

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/redis/go-redis/v9"

	"github.com/vietddude/triage/internal/core/domain"
	"github.com/vietddude/triage/internal/infra/storage"
)

const (
	statsKey   = "triage:severity_counts"
	totalField = "total"
)

var _ storage.StatsRecorder = (*Client)(nil)

// Record increments the counter for sev and the running total in one round trip.
func (c *Client) Record(ctx context.Context, sev domain.Severity) error {
	_, err := c.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HIncrBy(ctx, statsKey, string(sev), 1)
		pipe.HIncrBy(ctx, statsKey, totalField, 1)
		return nil
	})
	if err != nil {
		return fmt.Errorf("hincrby failed: %w", err)
	}
	return nil
}

// Counts reads all severity counters.
func (c *Client) Counts(ctx context.Context) (domain.SeverityStats, error) {
	fields := make([]string, 0, len(domain.Severities)+1)
	fields = append(fields, totalField)
	for _, sev := range domain.Severities {
		fields = append(fields, string(sev))
	}

	vals, err := c.rdb.HMGet(ctx, statsKey, fields...).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return domain.SeverityStats{}, fmt.Errorf("hmget failed: %w", err)
	}

	counts := make([]int64, len(fields))
	for i, v := range vals {
		if v == nil {
			continue
		}
		s, ok := v.(string)
		if !ok {
			return domain.SeverityStats{}, fmt.Errorf("unexpected counter type %T", v)
		}
		n, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return domain.SeverityStats{}, fmt.Errorf("invalid counter %q: %w", fields[i], err)
		}
		counts[i] = n
	}

	var stats domain.SeverityStats
	for i, sev := range domain.Severities {
		stats.Add(sev, counts[i+1])
	}
	// total also covers severities outside the known set
	stats.Total = counts[0]
	return stats, nil
}

// ResetCounts clears all severity counters.
func (c *Client) ResetCounts(ctx context.Context) error {
	if err := c.rdb.Del(ctx, statsKey).Err(); err != nil {
		return fmt.Errorf("del failed: %w", err)
	}
	return nil
}
