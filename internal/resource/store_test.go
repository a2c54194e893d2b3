package resource

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestStoreDropsStaleLoad(t *testing.T) {
	s := NewStore[string]()
	release := make(chan struct{})
	slowDone := make(chan struct{})

	var slowApplied bool
	var slowErr error
	go func() {
		defer close(slowDone)
		_, slowApplied, slowErr = s.Load(context.Background(), func(context.Context) (string, error) {
			<-release
			return "old", nil
		})
	}()

	// let the slow load take its generation first
	time.Sleep(20 * time.Millisecond)
	v, applied, err := s.Load(context.Background(), func(context.Context) (string, error) {
		return "new", nil
	})
	require.NoError(t, err)
	require.True(t, applied)
	require.Equal(t, "new", v)

	close(release)
	<-slowDone
	require.NoError(t, slowErr)
	require.False(t, slowApplied)
	v, _ = s.Snapshot()
	require.Equal(t, "new", v)
}

func TestStorePatchThenReconcile(t *testing.T) {
	s := NewStore[[]string]()
	_, _, err := s.Load(context.Background(), func(context.Context) ([]string, error) {
		return []string{"procurement"}, nil
	})
	require.NoError(t, err)

	patched := s.Patch(func(v []string) []string {
		return []string{"not_received"}
	})
	require.Equal(t, []string{"not_received"}, patched)

	var got []string
	done := s.Reconcile(context.Background(), func(context.Context) ([]string, error) {
		return []string{"completed"}, nil
	}, func(v []string, err error) {
		got = v
	})
	<-done
	require.Equal(t, []string{"completed"}, got)

	v, loaded := s.Snapshot()
	require.True(t, loaded)
	require.Equal(t, []string{"completed"}, v)
}

func TestStoreReconcileErrorKeepsPatch(t *testing.T) {
	s := NewStore[int]()
	s.Patch(func(int) int { return 7 })

	<-s.Reconcile(context.Background(), func(context.Context) (int, error) {
		return 0, errors.New("upstream down")
	}, nil)

	v, _ := s.Snapshot()
	require.Equal(t, 7, v)
}
