// Package journal keeps a durable local copy of every committed ledger event
// in a write-ahead log, for crash recovery and audit.
package journal

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/vadiminshakov/gowal"

	"github.com/vadiminshakov/tradebook/internal/entity"
)

const (
	EventKindTrade    = "trade"
	EventKindMovement = "movement"
)

// Event is one journaled ledger commit.
type Event struct {
	Kind     string           `json:"kind"`
	At       time.Time        `json:"at"`
	Trade    *entity.Trade    `json:"trade,omitempty"`
	Movement *entity.Movement `json:"movement,omitempty"`
}

type Journal struct {
	mu  sync.Mutex
	wal *gowal.Wal
}

func Open(dir string) (*Journal, error) {
	w, err := gowal.NewWAL(gowal.Config{
		Dir:              dir,
		Prefix:           "seg_",
		SegmentThreshold: 1000,
		MaxSegments:      100,
		IsInSyncDiskMode: true,
	})
	if err != nil {
		return nil, errors.Wrap(err, "open event journal")
	}
	return &Journal{wal: w}, nil
}

func (j *Journal) TradeLogged(t entity.Trade) error {
	return j.write(Event{Kind: EventKindTrade, At: t.Timestamp, Trade: &t}, EventKindTrade+":"+t.ID)
}

func (j *Journal) MovementLogged(m entity.Movement) error {
	return j.write(Event{Kind: EventKindMovement, At: m.Timestamp, Movement: &m}, EventKindMovement+":"+m.ID)
}

func (j *Journal) write(e Event, key string) error {
	data, err := json.Marshal(e)
	if err != nil {
		return errors.Wrap(err, "marshal journal event")
	}

	j.mu.Lock()
	defer j.mu.Unlock()
	if err := j.wal.Write(j.wal.CurrentIndex()+1, key, data); err != nil {
		return errors.Wrap(err, "write journal event")
	}
	return nil
}

// Replay iterates every journaled event in write order.
func (j *Journal) Replay(fn func(Event) error) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	for msg := range j.wal.Iterator() {
		var e Event
		if err := json.Unmarshal(msg.Value, &e); err != nil {
			return errors.Wrapf(err, "unmarshal journal event %s", msg.Key)
		}
		if err := fn(e); err != nil {
			return err
		}
	}
	return nil
}

func (j *Journal) Close() error {
	return j.wal.Close()
}
