package audit

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/slighter12/mcp-toolserver-go/logger"
)

type collector struct {
	mu     sync.Mutex
	events []Event
}

func (c *collector) sink(e Event) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = append(c.events, e)
}

func (c *collector) snapshot() []Event {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Event(nil), c.events...)
}

func TestRecorder_DeliversInOrderAndFillsIDs(t *testing.T) {
	c := &collector{}
	r := NewRecorder(8, c.sink)

	r.Record(Event{Method: "calculator", Outcome: OutcomeSuccess, RequestID: 1})
	r.Record(Event{Method: "weather", Outcome: OutcomeNotFound, RequestID: "b"})
	r.Close()

	events := c.snapshot()
	require.Len(t, events, 2)
	assert.Equal(t, "calculator", events[0].Method)
	assert.Equal(t, "weather", events[1].Method)
	for _, e := range events {
		assert.Len(t, e.ID, 36)
		assert.False(t, e.Timestamp.IsZero())
	}
	assert.NotEqual(t, events[0].ID, events[1].ID)
}

func TestRecorder_NeverBlocksWhenFull(t *testing.T) {
	release := make(chan struct{})
	r := NewRecorder(1, func(Event) { <-release })

	done := make(chan struct{})
	var rejected int64
	go func() {
		for range 50 {
			if !r.Record(Event{Method: "slow"}) {
				rejected++
			}
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Record blocked on a full buffer")
	}
	assert.Positive(t, r.Dropped())
	assert.Equal(t, r.Dropped(), rejected)

	close(release)
	r.Close()
}

func TestRecorder_RecordAfterCloseIsDropped(t *testing.T) {
	c := &collector{}
	r := NewRecorder(4, c.sink)
	r.Close()
	r.Close()

	assert.False(t, r.Record(Event{Method: "late"}))
	assert.Empty(t, c.snapshot())
	assert.EqualValues(t, 1, r.Dropped())
}

func TestRecorder_NilIsNoop(t *testing.T) {
	var r *Recorder
	assert.False(t, r.Record(Event{Method: "x"}))
	r.Close()
	assert.Zero(t, r.Dropped())
}

func TestRecorder_SinkPanicDoesNotStopDelivery(t *testing.T) {
	c := &collector{}
	r := NewRecorder(4, func(e Event) {
		if e.Method == "boom" {
			panic("sink failure")
		}
		c.sink(e)
	})
	r.Record(Event{Method: "boom"})
	r.Record(Event{Method: "after"})
	r.Close()

	events := c.snapshot()
	require.Len(t, events, 1)
	assert.Equal(t, "after", events[0].Method)
}

func TestLogSink_LevelsByOutcome(t *testing.T) {
	prev := logger.Default()
	t.Cleanup(func() { logger.SetDefault(prev) })

	buf := &bytes.Buffer{}
	logger.SetDefault(logger.New(slog.LevelDebug, logger.FormatJSON, buf))

	LogSink(Event{ID: "1", Method: "ok", Outcome: OutcomeSuccess})
	LogSink(Event{ID: "2", Method: "missing", Outcome: OutcomeNotFound, Code: -32601})
	LogSink(Event{ID: "3", Method: "broken", Outcome: OutcomeFailure, Code: -32603, Detail: "disk on fire"})

	var levels []string
	dec := json.NewDecoder(buf)
	for dec.More() {
		var entry map[string]any
		require.NoError(t, dec.Decode(&entry))
		levels = append(levels, entry["level"].(string))
		if entry["method"] == "broken" {
			assert.Equal(t, "disk on fire", entry["detail"])
		}
	}
	assert.Equal(t, []string{"INFO", "WARN", "ERROR"}, levels)
}

func TestEvent_DurationEncodedInNanoseconds(t *testing.T) {
	raw, err := json.Marshal(Event{Method: "calculator", Duration: 1500 * time.Microsecond})
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"duration_ns":1500000`)
}
