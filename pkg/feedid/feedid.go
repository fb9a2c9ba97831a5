package feedid

import (
	"strconv"
	"sync"
	"time"
)

// ID Format:
// Timestamp (41-bits)
// Node ID (11-bits)
// Increment (11-bits)

type ID = int64

const FeedEpoch int64 = 1672531200000 // 2023-01-01 12am GMT

const (
	TimestampBits = 41
	TimestampMask = (1 << TimestampBits) - 1

	NodeIdBits = 11
	NodeIdMask = (1 << NodeIdBits) - 1

	IncrementBits = 11
	MaxIncrement  = (1 << IncrementBits) - 1
)

var NodeId int

var idIncrementLock = sync.Mutex{}
var idIncrementTs int64 = 0
var idIncrement int64 = 0

func Init(nodeId string) error {
	var err error
	NodeId, err = strconv.Atoi(nodeId)
	return err
}

func GenId() ID {
	// Get timestamp
	ts := time.Now().UnixMilli()

	// Get increment
	idIncrementLock.Lock()
	defer idIncrementLock.Unlock()
	if idIncrementTs != ts {
		idIncrementTs = ts
		idIncrement = 0
	} else if idIncrement >= MaxIncrement {
		// increment space for this millisecond is exhausted, spin to the next one
		for time.Now().UnixMilli() == ts {
			continue
		}
		return GenId()
	} else {
		idIncrement += 1
	}

	// Construct ID
	id := (ts - FeedEpoch) << (NodeIdBits + IncrementBits)
	id |= int64(NodeId) << IncrementBits
	id |= idIncrement

	return id
}

func Timestamp(id ID) int64 {
	return ((id >> (NodeIdBits + IncrementBits)) & TimestampMask) + FeedEpoch
}
