package adapters_test

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	adapters "github.com/pressw/threads-adapters"
)

func TestAdapter_ConcurrentUse(t *testing.T) {
	adapter, _ := newTestAdapter(t)
	ctx := context.Background()

	const workers = 32
	var wg sync.WaitGroup
	errs := make(chan error, workers*2)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			rec, err := adapter.Create(ctx, adapters.ModelUser, adapters.Record{"name": "worker"})
			if err != nil {
				errs <- err
				return
			}
			if _, err := adapter.FindOne(ctx, adapters.ModelUser, adapters.Where{
				adapters.Eq("id", rec["id"]),
			}); err != nil {
				errs <- err
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	n, err := adapter.Count(ctx, adapters.ModelUser, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(workers), n)
}

func TestAdapter_ConcurrentDebugToggle(t *testing.T) {
	adapter, _ := newTestAdapter(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(on bool) {
			defer wg.Done()
			adapter.SetDebugEnabled(on)
			_, _ = adapter.FindMany(ctx, adapters.ModelUser, adapters.FindManyOptions{})
		}(i%2 == 0)
	}
	wg.Wait()
	adapter.SetDebugEnabled(false)
}
