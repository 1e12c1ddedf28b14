package watch

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/docweave/internal/config"
)

func TestRun_RebuildsAfterChangeBurst(t *testing.T) {
	src := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(src, "index.md"), []byte("# Home\n"), 0o644))

	var builds atomic.Int32
	w := &Watcher{
		cfg:   &config.Config{Source: src},
		quiet: 50 * time.Millisecond,
		rebuild: func(context.Context) error {
			builds.Add(1)
			return nil
		},
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	// Wait for the initial build before generating events.
	require.Eventually(t, func() bool { return builds.Load() >= 1 },
		2*time.Second, 10*time.Millisecond)

	// A burst of writes coalesces into a single rebuild.
	for i := 0; i < 3; i++ {
		require.NoError(t, os.WriteFile(filepath.Join(src, "index.md"), []byte("# Changed\n"), 0o644))
		time.Sleep(5 * time.Millisecond)
	}
	require.Eventually(t, func() bool { return builds.Load() == 2 },
		2*time.Second, 10*time.Millisecond)

	cancel()
	require.NoError(t, <-done)
}
