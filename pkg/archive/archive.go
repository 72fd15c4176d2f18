// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

// Package archive keeps decoded record snapshots in a local pebble store.
// Keys are KSUIDs derived from the capture time, so iteration order is
// chronological.
package archive

import (
	"errors"
	"fmt"
	"time"

	"github.com/cockroachdb/pebble"
	"github.com/cockroachdb/pebble/vfs"
	"github.com/segmentio/ksuid"

	"github.com/Thermoquad/tslprog/pkg/persistent"
)

// ErrNotFound is returned when no snapshot has the requested id
var ErrNotFound = errors.New("snapshot not found")

var (
	keyPrefix = []byte("snap/")
	keyEnd    = []byte("snap0") // '0' follows '/'
)

// Entry is a stored snapshot and its id
type Entry struct {
	ID       ksuid.KSUID
	Snapshot *persistent.Snapshot
}

// Archive is a snapshot store
type Archive struct {
	db *pebble.DB
}

// Open opens or creates an archive in dir
func Open(dir string) (*Archive, error) {
	return OpenFS(dir, vfs.Default)
}

// OpenFS opens an archive on the given filesystem
func OpenFS(dir string, fs vfs.FS) (*Archive, error) {
	db, err := pebble.Open(dir, &pebble.Options{FS: fs})
	if err != nil {
		return nil, fmt.Errorf("failed to open archive %s: %w", dir, err)
	}
	return &Archive{db: db}, nil
}

func makeKey(id ksuid.KSUID) []byte {
	key := append([]byte(nil), keyPrefix...)
	return append(key, id.Bytes()...)
}

// Put stores a snapshot and returns its id
func (a *Archive) Put(snap *persistent.Snapshot) (ksuid.KSUID, error) {
	captured := snap.CapturedAt
	if captured.IsZero() {
		captured = time.Now()
	}
	id, err := ksuid.NewRandomWithTime(captured)
	if err != nil {
		return ksuid.Nil, fmt.Errorf("failed to generate id: %w", err)
	}

	data, err := persistent.MarshalSnapshot(snap)
	if err != nil {
		return ksuid.Nil, err
	}

	if err := a.db.Set(makeKey(id), data, pebble.Sync); err != nil {
		return ksuid.Nil, fmt.Errorf("failed to store snapshot: %w", err)
	}
	return id, nil
}

// Get loads the snapshot with the given id
func (a *Archive) Get(id ksuid.KSUID) (*persistent.Snapshot, error) {
	data, closer, err := a.db.Get(makeKey(id))
	if errors.Is(err, pebble.ErrNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	defer closer.Close()

	// data is only valid until closer.Close
	return persistent.UnmarshalSnapshot(append([]byte(nil), data...))
}

// Delete removes a snapshot
func (a *Archive) Delete(id ksuid.KSUID) error {
	return a.db.Delete(makeKey(id), pebble.Sync)
}

// List returns up to limit snapshots, newest first. A limit of 0 or less
// returns everything.
func (a *Archive) List(limit int) ([]Entry, error) {
	iter, err := a.db.NewIter(&pebble.IterOptions{
		LowerBound: keyPrefix,
		UpperBound: keyEnd,
	})
	if err != nil {
		return nil, err
	}

	var entries []Entry
	for valid := iter.Last(); valid; valid = iter.Prev() {
		if limit > 0 && len(entries) >= limit {
			break
		}

		id, err := ksuid.FromBytes(iter.Key()[len(keyPrefix):])
		if err != nil {
			iter.Close()
			return nil, fmt.Errorf("corrupt archive key: %w", err)
		}
		snap, err := persistent.UnmarshalSnapshot(append([]byte(nil), iter.Value()...))
		if err != nil {
			iter.Close()
			return nil, fmt.Errorf("snapshot %s: %w", id, err)
		}
		entries = append(entries, Entry{ID: id, Snapshot: snap})
	}

	if err := iter.Close(); err != nil {
		return nil, err
	}
	return entries, nil
}

// Close closes the archive
func (a *Archive) Close() error {
	return a.db.Close()
}
