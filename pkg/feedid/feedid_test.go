package feedid

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func nowMilli() int64 { return time.Now().UnixMilli() }

func TestGenId_MonotonicAndUnique(t *testing.T) {
	require.NoError(t, Init("3"))

	seen := map[ID]bool{}
	var last ID
	for i := 0; i < 5000; i++ {
		id := GenId()
		assert.False(t, seen[id], "duplicate id")
		assert.Greater(t, id, last)
		seen[id] = true
		last = id
	}
}

func TestTimestampRoundTrip(t *testing.T) {
	require.NoError(t, Init("3"))

	before := nowMilli()
	id := GenId()
	after := nowMilli()

	ts := Timestamp(id)
	assert.GreaterOrEqual(t, ts, before)
	assert.LessOrEqual(t, ts, after)
}
