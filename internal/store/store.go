// Package store is the record store behind the dashboard: BoltDB
// collections with JSON values, point writes and full-snapshot change
// notification for every subscribed view.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sync"

	"github.com/boltdb/bolt"

	"github.com/nxthub/influencewise/misc"
)

var (
	ErrNotFound     = errors.New("record not found")
	ErrDuplicate    = errors.New("a record with this id already exists")
	ErrNoCollection = errors.New("unknown collection")
)

type Record struct {
	Id   string          `json:"id"`
	Data json.RawMessage `json:"data"`
}

// Snapshot is a full, point-in-time copy of a collection, ordered by key.
// Subscribers must treat it as immutable.
type Snapshot struct {
	Collection string   `json:"collection"`
	Records    []Record `json:"records"`
}

type subscriber struct {
	ch chan *Snapshot
}

type Store struct {
	db *bolt.DB

	mux    sync.Mutex
	subs   map[string]map[uint64]*subscriber
	nextId uint64

	errCh chan error
}

func New(db *bolt.DB, collections []string) (*Store, error) {
	if err := misc.CreateBuckets(db, collections); err != nil {
		return nil, err
	}
	return &Store{
		db:    db,
		subs:  make(map[string]map[uint64]*subscriber),
		errCh: make(chan error, 16),
	}, nil
}

// Errors is the dedicated channel for subscription/snapshot failures; they
// are reported here instead of tearing down subscribed views.
func (s *Store) Errors() <-chan error { return s.errCh }

// bucket resolves a collection to its bolt bucket. A collection that was
// never handed to New must surface as an error, never as a nil-bucket
// panic inside the transaction.
func (s *Store) bucket(tx *bolt.Tx, collection string) (*bolt.Bucket, error) {
	bkt := misc.GetBucket(tx, collection)
	if bkt == nil {
		return nil, fmt.Errorf("%w %q", ErrNoCollection, collection)
	}
	return bkt, nil
}

// Subscribe returns a channel of full snapshots for the collection plus an
// unsubscribe func. The current snapshot is delivered immediately.
// Unsubscribing is idempotent and no delivery happens after it returns.
func (s *Store) Subscribe(collection string) (<-chan *Snapshot, func()) {
	sub := &subscriber{ch: make(chan *Snapshot, 64)}

	s.mux.Lock()
	id := s.nextId
	s.nextId++
	m := s.subs[collection]
	if m == nil {
		m = make(map[uint64]*subscriber)
		s.subs[collection] = m
	}
	m[id] = sub
	if snap, err := s.snapshot(collection); err == nil {
		sub.push(snap)
	} else {
		s.reportErr(err)
	}
	s.mux.Unlock()

	var once sync.Once
	unsub := func() {
		once.Do(func() {
			s.mux.Lock()
			delete(s.subs[collection], id)
			close(sub.ch)
			s.mux.Unlock()
		})
	}
	return sub.ch, unsub
}

// push appends a snapshot, dropping the oldest queued one when the
// subscriber is lagging. Snapshots are full states so dropping an old one
// never loses a write, and delivery order is preserved.
func (sub *subscriber) push(snap *Snapshot) {
	for {
		select {
		case sub.ch <- snap:
			return
		default:
			select {
			case <-sub.ch:
			default:
			}
		}
	}
}

// Create writes the record and notifies subscribers before returning, so a
// view that re-reads after a create always observes it. An empty id draws
// the next value from the index bucket.
func (s *Store) Create(collection, id string, val interface{}) (string, error) {
	b, err := json.Marshal(val)
	if err != nil {
		return "", err
	}
	if err := s.db.Update(func(tx *bolt.Tx) (err error) {
		bkt, err := s.bucket(tx, collection)
		if err != nil {
			return
		}
		if id == "" {
			if id, err = misc.GetNextIndex(tx, collection); err != nil {
				return
			}
		} else if bkt.Get([]byte(id)) != nil {
			return ErrDuplicate
		}
		return bkt.Put([]byte(id), b)
	}); err != nil {
		return "", err
	}
	s.notify(collection)
	return id, nil
}

// CreateAssign draws the next id, hands it to build, and stores whatever
// build returns under it. Used when the record embeds its own id.
func (s *Store) CreateAssign(collection string, build func(id string) interface{}) (string, error) {
	var id string
	if err := s.db.Update(func(tx *bolt.Tx) (err error) {
		bkt, err := s.bucket(tx, collection)
		if err != nil {
			return
		}
		if id, err = misc.GetNextIndex(tx, collection); err != nil {
			return
		}
		b, err := json.Marshal(build(id))
		if err != nil {
			return err
		}
		return bkt.Put([]byte(id), b)
	}); err != nil {
		return "", err
	}
	s.notify(collection)
	return id, nil
}

func (s *Store) Delete(collection, id string) error {
	if err := s.db.Update(func(tx *bolt.Tx) error {
		bkt, err := s.bucket(tx, collection)
		if err != nil {
			return err
		}
		if bkt.Get([]byte(id)) == nil {
			return ErrNotFound
		}
		return bkt.Delete([]byte(id))
	}); err != nil {
		return err
	}
	s.notify(collection)
	return nil
}

// Update applies mutate to the stored record under the write lock; the new
// value returned by mutate replaces the old one. A mutate error aborts the
// write and nothing is published.
func (s *Store) Update(collection, id string, mutate func(raw json.RawMessage) (interface{}, error)) error {
	if err := s.db.Update(func(tx *bolt.Tx) error {
		bkt, err := s.bucket(tx, collection)
		if err != nil {
			return err
		}
		raw := bkt.Get([]byte(id))
		if raw == nil {
			return ErrNotFound
		}
		nv, err := mutate(raw)
		if err != nil {
			return err
		}
		b, err := json.Marshal(nv)
		if err != nil {
			return err
		}
		return bkt.Put([]byte(id), b)
	}); err != nil {
		return err
	}
	s.notify(collection)
	return nil
}

func (s *Store) Get(collection, id string, out interface{}) error {
	var raw []byte
	if err := s.db.View(func(tx *bolt.Tx) error {
		bkt, err := s.bucket(tx, collection)
		if err != nil {
			return err
		}
		if v := bkt.Get([]byte(id)); v != nil {
			raw = append(raw, v...)
		}
		return nil
	}); err != nil {
		return err
	}
	if raw == nil {
		return ErrNotFound
	}
	return json.Unmarshal(raw, out)
}

// ForEach walks the current records in key order.
func (s *Store) ForEach(collection string, fn func(id string, raw json.RawMessage) error) error {
	return s.db.View(func(tx *bolt.Tx) error {
		bkt, err := s.bucket(tx, collection)
		if err != nil {
			return err
		}
		return bkt.ForEach(func(k, v []byte) error {
			return fn(string(k), json.RawMessage(v))
		})
	})
}

func (s *Store) notify(collection string) {
	s.mux.Lock()
	defer s.mux.Unlock()
	if len(s.subs[collection]) == 0 {
		return
	}
	snap, err := s.snapshot(collection)
	if err != nil {
		s.reportErr(err)
		return
	}
	for _, sub := range s.subs[collection] {
		sub.push(snap)
	}
}

func (s *Store) snapshot(collection string) (*Snapshot, error) {
	snap := &Snapshot{Collection: collection}
	err := s.db.View(func(tx *bolt.Tx) error {
		bkt, err := s.bucket(tx, collection)
		if err != nil {
			return err
		}
		return bkt.ForEach(func(k, v []byte) error {
			snap.Records = append(snap.Records, Record{
				Id:   string(k),
				Data: append(json.RawMessage(nil), v...),
			})
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return snap, nil
}

func (s *Store) reportErr(err error) {
	select {
	case s.errCh <- err:
	default:
		log.Println("store error channel full, dropping:", err)
	}
}
