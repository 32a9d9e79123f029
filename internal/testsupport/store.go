package testsupport

import (
	"context"
	"testing"

	"tubecast/internal/config"
	"tubecast/internal/store"
)

// MustOpenStore opens a store.Store for tests and registers cleanup.
func MustOpenStore(t testing.TB, cfg *config.Config) *store.Store {
	t.Helper()

	st, err := store.Open(cfg)
	if err != nil {
		t.Fatalf("store.Open: %v", err)
	}
	t.Cleanup(func() {
		st.Close()
	})
	return st
}

// NewChannel creates an active channel with a niche for tests.
func NewChannel(t testing.TB, st *store.Store, name, platform string, requireApproval bool) *store.Channel {
	t.Helper()

	ctx := context.Background()
	niche, err := st.EnsureNiche(ctx, "Technology", "tech news")
	if err != nil {
		t.Fatalf("store.EnsureNiche: %v", err)
	}
	channel, err := st.CreateChannel(ctx, name, platform, niche.ID, requireApproval)
	if err != nil {
		t.Fatalf("store.CreateChannel: %v", err)
	}
	return channel
}

// NewJob creates a pending job for the channel.
func NewJob(t testing.TB, st *store.Store, channelID int64) *store.Job {
	t.Helper()

	job, err := st.CreateJob(context.Background(), channelID)
	if err != nil {
		t.Fatalf("store.CreateJob: %v", err)
	}
	return job
}
