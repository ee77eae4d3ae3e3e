// Package capture persists raw FPDUs to a BadgerDB store for later replay,
// for offline debugging of a return-link capture against rle.Receiver.
package capture

import (
	"context"
	"encoding/binary"
	"fmt"

	badgerdb "github.com/dgraph-io/badger/v4"
)

// Store is a BadgerDB-backed append-only log of captured FPDUs, keyed by a
// monotonically increasing sequence number.
type Store struct {
	db  *badgerdb.DB
	seq uint64
}

// Open opens (creating if absent) a Store rooted at dir.
func Open(dir string) (*Store, error) {
	opts := badgerdb.DefaultOptions(dir).WithLoggingLevel(badgerdb.WARNING)

	db, err := badgerdb.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("capture: open badger store: %w", err)
	}

	s := &Store{db: db}
	if err := s.loadSeq(); err != nil {
		_ = db.Close()

		return nil, err
	}

	return s, nil
}

func (s *Store) loadSeq() error {
	return s.db.View(func(txn *badgerdb.Txn) error {
		opts := badgerdb.DefaultIteratorOptions
		opts.Reverse = true
		it := txn.NewIterator(opts)
		defer it.Close()

		it.Seek(keySeq(^uint64(0)))
		if it.Valid() {
			s.seq = decodeSeqKey(it.Item().Key()) + 1
		}

		return nil
	})
}

// Close releases the underlying BadgerDB handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// Append stores fpdu under the next sequence number and returns it.
func (s *Store) Append(ctx context.Context, fpdu []byte) (uint64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	seq := s.seq
	err := s.db.Update(func(txn *badgerdb.Txn) error {
		return txn.Set(keySeq(seq), append([]byte(nil), fpdu...))
	})
	if err != nil {
		return 0, fmt.Errorf("capture: append: %w", err)
	}
	s.seq++

	return seq, nil
}

// Replay invokes fn with every captured FPDU in sequence order, stopping at
// the first error fn returns.
func (s *Store) Replay(ctx context.Context, fn func(seq uint64, fpdu []byte) error) error {
	return s.db.View(func(txn *badgerdb.Txn) error {
		opts := badgerdb.DefaultIteratorOptions
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}

			item := it.Item()
			seq := decodeSeqKey(item.Key())

			if err := item.Value(func(val []byte) error {
				return fn(seq, val)
			}); err != nil {
				return err
			}
		}

		return nil
	})
}

const keyPrefix = "fpdu:"

func keySeq(seq uint64) []byte {
	key := make([]byte, len(keyPrefix)+8)
	copy(key, keyPrefix)
	binary.BigEndian.PutUint64(key[len(keyPrefix):], seq)

	return key
}

func decodeSeqKey(key []byte) uint64 {
	return binary.BigEndian.Uint64(key[len(keyPrefix):])
}
