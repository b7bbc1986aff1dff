package safe_test

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/YaganovValera/httplifecycle/pkg/logger"
	"github.com/YaganovValera/httplifecycle/pkg/safe"
)

func observed() (*logger.Logger, *observer.ObservedLogs) {
	core, logs := observer.New(zapcore.DebugLevel)
	return logger.FromZap(zap.New(core)), logs
}

func TestSpawn_Success(t *testing.T) {
	log, logs := observed()
	task := safe.Spawn(log, "ok", func() error { return nil })

	require.NoError(t, task.Wait())
	assert.Equal(t, "ok", task.Name())
	assert.Zero(t, logs.Len())

	select {
	case <-task.Done():
	default:
		t.Fatal("Done must be closed after Wait")
	}
}

func TestSpawn_ErrorIsLoggedAndKept(t *testing.T) {
	log, logs := observed()
	boom := errors.New("boom")
	task := safe.Spawn(log, "failing", func() error { return boom })

	require.ErrorIs(t, task.Wait(), boom)
	require.Equal(t, 1, logs.FilterMessage("task failed").Len())
	assert.Equal(t, "failing", logs.All()[0].ContextMap()["task"])
}

func TestSpawn_PanicRecovered(t *testing.T) {
	log, logs := observed()
	task := safe.Spawn(log, "panicky", func() error { panic("kaboom") })

	err := task.Wait()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "kaboom")
	assert.Equal(t, 1, logs.FilterMessage("panic recovered").Len())
}

func TestWait_BlocksUntilExit(t *testing.T) {
	release := make(chan struct{})
	task := safe.Spawn(logger.NewNop(), "blocked", func() error {
		<-release
		return nil
	})

	select {
	case <-task.Done():
		t.Fatal("task finished before release")
	case <-time.After(50 * time.Millisecond):
	}

	close(release)
	require.NoError(t, task.Wait())
}
