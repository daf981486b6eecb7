package listing

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPagerControls(t *testing.T) {
	p := NewPager(1, 3)
	assert.False(t, p.HasPrev())
	assert.True(t, p.HasNext())

	p = NewPager(p.Next(), 3)
	p = NewPager(p.Next(), 3)
	assert.Equal(t, 3, p.Page)
	assert.True(t, p.HasPrev())
	assert.False(t, p.HasNext())
	assert.Equal(t, 3, p.Next())
}

func TestNewPagerClamps(t *testing.T) {
	assert.Equal(t, Pager{Page: 1, TotalPages: 1}, NewPager(0, 0))
	assert.Equal(t, Pager{Page: 2, TotalPages: 2}, NewPager(9, 2))
}

func TestTotalPagesAndSlice(t *testing.T) {
	items := []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12}

	assert.Equal(t, 2, TotalPages(len(items), 10))
	assert.Equal(t, 1, TotalPages(0, 10))
	assert.Equal(t, []int{11, 12}, Slice(items, 2, 10))
	assert.Empty(t, Slice(items, 3, 10))
}

func TestParsePage(t *testing.T) {
	assert.Equal(t, 1, ParsePage(""))
	assert.Equal(t, 1, ParsePage("-4"))
	assert.Equal(t, 4, ParsePage("4"))
}

func TestFetcherKeepsPreviousStateOnFailure(t *testing.T) {
	f := NewFetcher[string]()
	ctx := context.Background()

	ok := f.Load(ctx, "view/users", "", 1, func(ctx context.Context, page int) (Page[string], error) {
		return Page[string]{Items: []string{"alice", "bob"}, TotalPages: 3}, nil
	})
	require.NoError(t, ok.Err)
	assert.Equal(t, []string{"alice", "bob"}, ok.Items)

	failed := f.Load(ctx, "view/users", "", 2, func(ctx context.Context, page int) (Page[string], error) {
		return Page[string]{}, errors.New("connection refused")
	})
	assert.Error(t, failed.Err)
	assert.Equal(t, []string{"alice", "bob"}, failed.Items)
	assert.Equal(t, 1, failed.Pager.Page)
}

func TestFetcherDropsItemsOfAnotherFilterOnFailure(t *testing.T) {
	f := NewFetcher[string]()
	ctx := context.Background()

	f.Load(ctx, "view/payments", "user-1", 1, func(ctx context.Context, page int) (Page[string], error) {
		return Page[string]{Items: []string{"p1"}, TotalPages: 1}, nil
	})
	failed := f.Load(ctx, "view/payments", "user-2", 1, func(ctx context.Context, page int) (Page[string], error) {
		return Page[string]{}, errors.New("timeout")
	})

	assert.Error(t, failed.Err)
	assert.Empty(t, failed.Items)
	assert.Equal(t, "user-2", failed.Filter)
}

func TestFetcherDiscardsStaleResponse(t *testing.T) {
	f := NewFetcher[string]()
	ctx := context.Background()

	started := make(chan struct{})
	release := make(chan struct{})
	var slow Result[string]
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		slow = f.Load(ctx, "view/payments", "user-1", 1, func(ctx context.Context, page int) (Page[string], error) {
			close(started)
			<-release
			return Page[string]{Items: []string{"user-1 payment"}, TotalPages: 1}, nil
		})
	}()

	<-started
	fast := f.Load(ctx, "view/payments", "user-2", 1, func(ctx context.Context, page int) (Page[string], error) {
		return Page[string]{Items: []string{"user-2 payment"}, TotalPages: 1}, nil
	})
	close(release)
	wg.Wait()

	assert.False(t, fast.Stale)
	assert.True(t, slow.Stale)
	assert.Equal(t, []string{"user-2 payment"}, slow.Items)

	current, ok := f.Current("view/payments")
	require.True(t, ok)
	assert.Equal(t, "user-2", current.Filter)
	assert.Equal(t, []string{"user-2 payment"}, current.Items)
}

func TestFetcherForget(t *testing.T) {
	f := NewFetcher[int]()
	f.Load(context.Background(), Key("view-a", "users"), "", 1, func(ctx context.Context, page int) (Page[int], error) {
		return Page[int]{Items: []int{1}, TotalPages: 1}, nil
	})

	f.Forget("view-a/")

	_, ok := f.Current(Key("view-a", "users"))
	assert.False(t, ok)
}

func TestFetcherSupersededFailureCarriesNoError(t *testing.T) {
	f := NewFetcher[string]()
	ctx := context.Background()

	started := make(chan struct{})
	release := make(chan struct{})
	var slow Result[string]
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		slow = f.Load(ctx, "view/users", "", 1, func(ctx context.Context, page int) (Page[string], error) {
			close(started)
			<-release
			return Page[string]{}, errors.New("timeout")
		})
	}()

	<-started
	fast := f.Load(ctx, "view/users", "", 2, func(ctx context.Context, page int) (Page[string], error) {
		return Page[string]{Items: []string{"carol"}, TotalPages: 2}, nil
	})
	close(release)
	wg.Wait()

	require.NoError(t, fast.Err)
	assert.True(t, slow.Stale)
	assert.NoError(t, slow.Err)
	assert.Equal(t, []string{"carol"}, slow.Items)
	assert.Equal(t, 2, slow.Pager.Page)
}

func okPage(ctx context.Context, page int) (Page[int], error) {
	return Page[int]{Items: []int{page}, TotalPages: 1}, nil
}

func TestFetcherCapsRetainedKeys(t *testing.T) {
	f := NewBoundedFetcher[int](time.Hour, 3)
	clock := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	f.now = func() time.Time { return clock }
	ctx := context.Background()

	for i := 0; i < 50; i++ {
		clock = clock.Add(time.Second)
		f.Load(ctx, Key(fmt.Sprintf("view-%d", i), "users"), "", 1, okPage)
	}

	assert.Equal(t, 3, f.Len())
	_, ok := f.Current(Key("view-49", "users"))
	assert.True(t, ok)
	_, ok = f.Current(Key("view-0", "users"))
	assert.False(t, ok)
}

func TestFetcherEvictsIdleKeys(t *testing.T) {
	f := NewBoundedFetcher[int](time.Minute, 100)
	clock := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	f.now = func() time.Time { return clock }
	ctx := context.Background()

	f.Load(ctx, Key("idle", "users"), "", 1, okPage)
	f.Load(ctx, Key("busy", "users"), "", 1, okPage)

	clock = clock.Add(50 * time.Second)
	f.Load(ctx, Key("busy", "users"), "", 2, okPage)

	clock = clock.Add(30 * time.Second)
	f.Load(ctx, Key("new", "users"), "", 1, okPage)

	_, ok := f.Current(Key("idle", "users"))
	assert.False(t, ok)
	_, ok = f.Current(Key("busy", "users"))
	assert.True(t, ok)
	assert.Equal(t, 2, f.Len())
}
