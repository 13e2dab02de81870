package trendstore

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/valkey-io/valkey-go/mock"
	"go.uber.org/mock/gomock"

	"github.com/yanqian/taapman/internal/domain/dashboard"
)

func newMockStore(t *testing.T) (*ValkeyStore, *mock.Client) {
	t.Helper()
	ctrl := gomock.NewController(t)
	client := mock.NewClient(ctrl)
	return NewValkeyStore(client, "test"), client
}

func TestValkeyStoreIncrementStoresLabelOnce(t *testing.T) {
	store, client := newMockStore(t)
	ctx := context.Background()

	gomock.InOrder(
		client.EXPECT().
			Do(ctx, mock.Match("ZINCRBY", "test:places:counts", "1", "london, gb")).
			Return(mock.Result(mock.ValkeyFloat64(1))),
		client.EXPECT().
			Do(ctx, mock.Match("HSETNX", "test:places:labels", "london, gb", "London, GB")).
			Return(mock.Result(mock.ValkeyInt64(1))),
	)

	require.NoError(t, store.Increment(ctx, "london, gb", "London, GB"))
}

func TestValkeyStoreIncrementSurfacesLabelError(t *testing.T) {
	store, client := newMockStore(t)
	ctx := context.Background()

	client.EXPECT().
		Do(ctx, mock.Match("ZINCRBY", "test:places:counts", "1", "paris, fr")).
		Return(mock.Result(mock.ValkeyFloat64(3)))
	client.EXPECT().
		Do(ctx, mock.Match("HSETNX", "test:places:labels", "paris, fr", "Paris, FR")).
		Return(mock.ErrorResult(errors.New("connection reset")))

	require.ErrorContains(t, store.Increment(ctx, "paris, fr", "Paris, FR"), "connection reset")
}

func TestValkeyStoreIncrementSkipsEmptyKey(t *testing.T) {
	store, _ := newMockStore(t)
	require.NoError(t, store.Increment(context.Background(), "", "ignored"))
}

func TestValkeyStoreTopResp3Pairs(t *testing.T) {
	store, client := newMockStore(t)
	ctx := context.Background()

	client.EXPECT().
		Do(ctx, mock.Match("ZREVRANGE", "test:places:counts", "0", "1", "WITHSCORES")).
		Return(mock.Result(mock.ValkeyArray(
			mock.ValkeyArray(mock.ValkeyBlobString("london, gb"), mock.ValkeyFloat64(4)),
			mock.ValkeyArray(mock.ValkeyBlobString("paris, fr"), mock.ValkeyFloat64(2)),
		)))
	client.EXPECT().
		Do(ctx, mock.Match("HMGET", "test:places:labels", "london, gb", "paris, fr")).
		Return(mock.Result(mock.ValkeyArray(
			mock.ValkeyBlobString("London, GB"),
			mock.ValkeyBlobString("Paris, FR"),
		)))

	items, err := store.Top(ctx, 2)
	require.NoError(t, err)
	require.Equal(t, []dashboard.TrendingPlace{
		{Place: "London, GB", Count: 4},
		{Place: "Paris, FR", Count: 2},
	}, items)
}

func TestValkeyStoreTopResp2FlatReply(t *testing.T) {
	store, client := newMockStore(t)
	ctx := context.Background()

	client.EXPECT().
		Do(ctx, mock.Match("ZREVRANGE", "test:places:counts", "0", "9", "WITHSCORES")).
		Return(mock.Result(mock.ValkeyArray(
			mock.ValkeyBlobString("berlin, de"), mock.ValkeyBlobString("7"),
			mock.ValkeyBlobString("oslo, no"), mock.ValkeyBlobString("1"),
		)))
	client.EXPECT().
		Do(ctx, mock.Match("HMGET", "test:places:labels", "berlin, de", "oslo, no")).
		Return(mock.Result(mock.ValkeyArray(
			mock.ValkeyBlobString("Berlin, DE"),
			mock.ValkeyBlobString("Oslo, NO"),
		)))

	items, err := store.Top(ctx, 0)
	require.NoError(t, err)
	require.Equal(t, []dashboard.TrendingPlace{
		{Place: "Berlin, DE", Count: 7},
		{Place: "Oslo, NO", Count: 1},
	}, items)
}

func TestValkeyStoreTopFallsBackToCanonicalKey(t *testing.T) {
	store, client := newMockStore(t)
	ctx := context.Background()

	client.EXPECT().
		Do(ctx, mock.Match("ZREVRANGE", "test:places:counts", "0", "4", "WITHSCORES")).
		Return(mock.Result(mock.ValkeyArray(
			mock.ValkeyArray(mock.ValkeyBlobString("tokyo, jp"), mock.ValkeyFloat64(5)),
			mock.ValkeyArray(mock.ValkeyBlobString("lima, pe"), mock.ValkeyFloat64(3)),
		)))
	client.EXPECT().
		Do(ctx, mock.Match("HMGET", "test:places:labels", "tokyo, jp", "lima, pe")).
		Return(mock.Result(mock.ValkeyArray(
			mock.ValkeyNil(),
			mock.ValkeyBlobString("Lima, PE"),
		)))

	items, err := store.Top(ctx, 5)
	require.NoError(t, err)
	require.Equal(t, []dashboard.TrendingPlace{
		{Place: "tokyo, jp", Count: 5},
		{Place: "Lima, PE", Count: 3},
	}, items)
}

func TestValkeyStoreTopKeepsKeysWhenLabelsFail(t *testing.T) {
	store, client := newMockStore(t)
	ctx := context.Background()

	client.EXPECT().
		Do(ctx, mock.Match("ZREVRANGE", "test:places:counts", "0", "0", "WITHSCORES")).
		Return(mock.Result(mock.ValkeyArray(
			mock.ValkeyArray(mock.ValkeyBlobString("rome, it"), mock.ValkeyFloat64(2)),
		)))
	client.EXPECT().
		Do(ctx, mock.Match("HMGET", "test:places:labels", "rome, it")).
		Return(mock.ErrorResult(errors.New("timeout")))

	items, err := store.Top(ctx, 1)
	require.NoError(t, err)
	require.Equal(t, []dashboard.TrendingPlace{{Place: "rome, it", Count: 2}}, items)
}

func TestValkeyStoreTopEmptyAndErrors(t *testing.T) {
	store, client := newMockStore(t)
	ctx := context.Background()

	client.EXPECT().
		Do(ctx, mock.Match("ZREVRANGE", "test:places:counts", "0", "2", "WITHSCORES")).
		Return(mock.Result(mock.ValkeyNil()))
	items, err := store.Top(ctx, 3)
	require.NoError(t, err)
	require.Empty(t, items)

	client.EXPECT().
		Do(ctx, mock.Match("ZREVRANGE", "test:places:counts", "0", "2", "WITHSCORES")).
		Return(mock.ErrorResult(errors.New("down")))
	_, err = store.Top(ctx, 3)
	require.ErrorContains(t, err, "down")
}
