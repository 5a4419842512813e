package pipeline_test

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/donaldgifford/relister/internal/pipeline"
	"github.com/donaldgifford/relister/internal/store"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestNewScheduler_RegistersCronEntry(t *testing.T) {
	t.Parallel()

	sw := pipeline.NewSweeper(store.NewMemoryStore())
	sched, err := pipeline.NewScheduler(sw, 5*time.Minute, quietLogger())
	require.NoError(t, err)

	assert.Len(t, sched.Entries(), 1)
}

func TestScheduler_StartStop(t *testing.T) {
	t.Parallel()

	sw := pipeline.NewSweeper(store.NewMemoryStore())
	sched, err := pipeline.NewScheduler(sw, time.Hour, quietLogger())
	require.NoError(t, err)

	sched.Start()
	ctx := sched.Stop()
	<-ctx.Done()
}
