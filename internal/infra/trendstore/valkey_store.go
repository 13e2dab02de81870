package trendstore

import (
	"context"
	"fmt"

	"github.com/valkey-io/valkey-go"

	"github.com/yanqian/taapman/internal/domain/dashboard"
)

// ValkeyStore keeps place counters in a sorted set and display labels in a hash.
type ValkeyStore struct {
	client valkey.CoreClient
	prefix string
}

// NewValkeyStore constructs a store backed by Valkey.
func NewValkeyStore(client valkey.CoreClient, prefix string) *ValkeyStore {
	if prefix == "" {
		prefix = "taapman"
	}
	return &ValkeyStore{client: client, prefix: prefix}
}

func (s *ValkeyStore) Increment(ctx context.Context, canonical, display string) error {
	if canonical == "" {
		return nil
	}
	if err := s.client.Do(ctx, s.client.B().Zincrby().Key(s.countsKey()).Increment(1).Member(canonical).Build()).Error(); err != nil {
		return err
	}
	if display == "" {
		return nil
	}
	return s.client.Do(ctx, s.client.B().Hsetnx().Key(s.labelsKey()).Field(canonical).Value(display).Build()).Error()
}

func (s *ValkeyStore) Top(ctx context.Context, limit int) ([]dashboard.TrendingPlace, error) {
	if limit <= 0 {
		limit = 10
	}
	resp := s.client.Do(ctx, s.client.B().Zrevrange().Key(s.countsKey()).Start(0).Stop(int64(limit-1)).Withscores().Build())
	arr, err := resp.ToArray()
	if err != nil {
		if valkey.IsValkeyNil(err) {
			return nil, nil
		}
		return nil, err
	}

	members, scores, err := parseScored(arr)
	if err != nil {
		return nil, err
	}
	labels := s.labels(ctx, members)

	out := make([]dashboard.TrendingPlace, 0, len(members))
	for i := range members {
		out = append(out, dashboard.TrendingPlace{Place: labels[i], Count: int64(scores[i])})
	}
	return out, nil
}

// parseScored accepts both RESP3 ([member, score] pairs) and RESP2 (flat) replies.
func parseScored(arr []valkey.ValkeyMessage) ([]string, []float64, error) {
	members := make([]string, 0, len(arr))
	scores := make([]float64, 0, len(arr))
	for i := 0; i < len(arr); {
		var (
			member string
			score  float64
			err    error
		)
		if tuple, tupleErr := arr[i].ToArray(); tupleErr == nil && len(tuple) == 2 {
			if member, err = tuple[0].ToString(); err != nil {
				return nil, nil, err
			}
			if score, err = tuple[1].AsFloat64(); err != nil {
				return nil, nil, err
			}
			i++
		} else {
			if i+1 >= len(arr) {
				break
			}
			if member, err = arr[i].ToString(); err != nil {
				return nil, nil, err
			}
			if score, err = arr[i+1].AsFloat64(); err != nil {
				return nil, nil, err
			}
			i += 2
		}
		members = append(members, member)
		scores = append(scores, score)
	}
	return members, scores, nil
}

// labels resolves display labels in one round trip, falling back to the canonical key.
func (s *ValkeyStore) labels(ctx context.Context, members []string) []string {
	out := append([]string(nil), members...)
	if len(members) == 0 {
		return out
	}
	arr, err := s.client.Do(ctx, s.client.B().Hmget().Key(s.labelsKey()).Field(members...).Build()).ToArray()
	if err != nil {
		return out
	}
	for i := range arr {
		if i >= len(out) {
			break
		}
		if label, err := arr[i].ToString(); err == nil && label != "" {
			out[i] = label
		}
	}
	return out
}

func (s *ValkeyStore) countsKey() string {
	return fmt.Sprintf("%s:places:counts", s.prefix)
}

func (s *ValkeyStore) labelsKey() string {
	return fmt.Sprintf("%s:places:labels", s.prefix)
}

var _ dashboard.TrendingStore = (*ValkeyStore)(nil)
