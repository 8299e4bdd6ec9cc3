package history

/*
 * Dual-licensed under Apache-2.0 and MIT.
 *
 * You can get a copy of the Apache License at
 *
 * http://www.apache.org/licenses/LICENSE-2.0
 *
 * You can also get a copy of the MIT License at
 *
 * http://opensource.org/licenses/MIT
 *
 * @wcgcyx - https://github.com/wcgcyx
 */

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"time"

	"github.com/ipfs/go-datastore"
	logging "github.com/ipfs/go-log"
	"github.com/wcgcyx/floormkt/ledgerstore"
)

// Logger
var log = logging.Logger("history")

const (
	// Datastore keys.
	historyKey = "history"
	seqKey     = "seq"
	eventsKey  = "events"
)

// Journal is an append-only list of events stored in the ledger.
// Appends made through a view are kept or dropped together with the rest of that view.
type Journal struct{}

// NewJournal creates a new journal.
//
// @output - journal.
func NewJournal() *Journal {
	return &Journal{}
}

// Append appends an event, assigning its sequence number.
//
// @input - context, view, event.
//
// @output - sequence number, error.
func (j *Journal) Append(ctx context.Context, view ledgerstore.View, ev Event) (uint64, error) {
	seq, err := j.Len(ctx, view)
	if err != nil {
		return 0, err
	}
	ev.Seq = seq
	if ev.CreatedAt.IsZero() {
		ev.CreatedAt = time.Now()
	}
	dsVal, err := ev.Encode()
	if err != nil {
		log.Errorf("Fail to encode event, should never happen: %v", err.Error())
		return 0, err
	}
	err = view.Put(ctx, dsVal, historyKey, eventsKey, seq)
	if err != nil {
		log.Warnf("Fail to put event %v: %v", seq, err.Error())
		return 0, err
	}
	b := make([]byte, 8)
	binary.LittleEndian.PutUint64(b, seq+1)
	err = view.Put(ctx, b, historyKey, seqKey)
	if err != nil {
		log.Warnf("Fail to put event sequence %v: %v", seq+1, err.Error())
		return 0, err
	}
	return seq, nil
}

// Len gets the number of events.
//
// @input - context, view.
//
// @output - number of events, error.
func (j *Journal) Len(ctx context.Context, view ledgerstore.Read) (uint64, error) {
	val, err := view.Get(ctx, historyKey, seqKey)
	if err != nil {
		if errors.Is(err, datastore.ErrNotFound) {
			return 0, nil
		}
		log.Warnf("Fail to get event sequence: %v", err.Error())
		return 0, err
	}
	if len(val) != 8 {
		log.Errorf("Event sequence has %v bytes, should never happen", len(val))
		return 0, fmt.Errorf("malformed event sequence of %v bytes", len(val))
	}
	return binary.LittleEndian.Uint64(val), nil
}

// List lists up to limit events, newest first, skipping the newest offset events.
//
// @input - context, view, offset, limit.
//
// @output - events, error.
func (j *Journal) List(ctx context.Context, view ledgerstore.Read, offset uint64, limit uint64) ([]Event, error) {
	n, err := j.Len(ctx, view)
	if err != nil {
		return nil, err
	}
	res := make([]Event, 0)
	if offset >= n {
		return res, nil
	}
	for seq := n - offset; seq > 0 && uint64(len(res)) < limit; seq-- {
		dsVal, err := view.Get(ctx, historyKey, eventsKey, seq-1)
		if err != nil {
			log.Warnf("Fail to get event %v: %v", seq-1, err.Error())
			return nil, err
		}
		ev, err := DecodeEvent(dsVal)
		if err != nil {
			log.Errorf("Fail to decode event %v, should never happen: %v", seq-1, err.Error())
			return nil, err
		}
		res = append(res, ev)
	}
	return res, nil
}
