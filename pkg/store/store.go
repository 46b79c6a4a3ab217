// Package store provides an optional persistent backend for the command
// history, backed by a bolt database. The shell only opens it when the
// configuration names a history file; the editor itself always works against
// the in-memory store in package histutil.
package store

import (
	"encoding/binary"
	"time"

	bolt "go.etcd.io/bbolt"
)

const bucketCmd = "cmd"

// Cmd is an entry in the persisted command history.
type Cmd struct {
	Text string
	Seq  int
}

// DB is an open history database.
type DB struct {
	db *bolt.DB
}

// Open opens the history database at the given path, creating it and the
// command bucket if they do not exist.
func Open(path string) (*DB, error) {
	db, err := bolt.Open(path, 0644, &bolt.Options{
		Timeout: time.Second,
	})
	if err != nil {
		return nil, err
	}
	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(bucketCmd))
		return err
	})
	if err != nil {
		db.Close()
		return nil, err
	}
	return &DB{db}, nil
}

// Close closes the database.
func (s *DB) Close() error { return s.db.Close() }

// NextCmdSeq returns the sequence number the next added command will get.
func (s *DB) NextCmdSeq() (int, error) {
	var seq uint64
	err := s.db.View(func(tx *bolt.Tx) error {
		seq = tx.Bucket([]byte(bucketCmd)).Sequence() + 1
		return nil
	})
	return int(seq), err
}

// AddCmd appends a command to the history and returns its sequence number.
func (s *DB) AddCmd(text string) (int, error) {
	var seq uint64
	err := s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(bucketCmd))
		var err error
		seq, err = b.NextSequence()
		if err != nil {
			return err
		}
		return b.Put(marshalSeq(seq), []byte(text))
	})
	return int(seq), err
}

// Cmds returns all commands with sequence numbers in [from, upto), in
// insertion order.
func (s *DB) Cmds(from, upto int) ([]Cmd, error) {
	var cmds []Cmd
	err := s.db.View(func(tx *bolt.Tx) error {
		c := tx.Bucket([]byte(bucketCmd)).Cursor()
		for k, v := c.Seek(marshalSeq(uint64(from))); k != nil && unmarshalSeq(k) < uint64(upto); k, v = c.Next() {
			cmds = append(cmds, Cmd{Text: string(v), Seq: int(unmarshalSeq(k))})
		}
		return nil
	})
	return cmds, err
}

func marshalSeq(seq uint64) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, seq)
	return b
}

func unmarshalSeq(key []byte) uint64 {
	return binary.BigEndian.Uint64(key)
}
