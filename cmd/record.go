// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2025 Kaz Walker, Thermoquad

package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/Thermoquad/tslprog/pkg/archive"
	"github.com/Thermoquad/tslprog/pkg/config"
	"github.com/Thermoquad/tslprog/pkg/persistent"
	"github.com/Thermoquad/tslprog/pkg/titxt"
)

// recordSchema returns the selected layout or an error naming all the ways to set it
func recordSchema() (persistent.Schema, error) {
	schema, err := settings.Schema()
	if err != nil {
		return persistent.SchemaUnknown, fmt.Errorf("record layout: %w (set record.schema, %s or --schema)", err, config.EnvSchema)
	}
	return schema, nil
}

// extractRecord finds the persistent block in a TI-TXT dump. A dump without
// any "@" header is treated as starting at the block.
func extractRecord(text string, base uint32, schema persistent.Schema) ([]byte, error) {
	sections, err := titxt.Decode(text)
	if err != nil {
		return nil, err
	}
	if len(sections) == 0 {
		return nil, fmt.Errorf("%w: dump is empty", persistent.ErrMalformedRecord)
	}

	if s, ok := titxt.Find(sections, base); ok {
		raw, err := s.Slice(base, schema.Size())
		if err != nil {
			return nil, fmt.Errorf("%w: %v", persistent.ErrMalformedRecord, err)
		}
		return raw, nil
	}

	if len(sections) == 1 && sections[0].Address == 0 {
		return sections[0].Data, nil
	}
	return nil, fmt.Errorf("%w: no section contains 0x%04X", persistent.ErrMalformedRecord, base)
}

// loadRecord reads and decodes the persistent block from a TI-TXT file
func loadRecord(path string) (*persistent.Record, error) {
	schema, err := recordSchema()
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	raw, err := extractRecord(string(data), settings.Record.BaseAddress, schema)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	r, err := persistent.Decode(raw, schema)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	logger.WithFields(logrus.Fields{
		"file":   path,
		"schema": schema,
	}).Debug("record decoded")
	return r, nil
}

// writeRecord encodes r as a TI-TXT image at the configured base address
func writeRecord(path string, r *persistent.Record) error {
	raw, err := r.Encode()
	if err != nil {
		return err
	}
	text := titxt.EncodeBytes(raw, settings.Record.BaseAddress)
	if err := os.WriteFile(path, []byte(text), 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

var timeLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

// parseTime accepts RFC 3339 or a plain UTC date/time. Empty means now.
func parseTime(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Now().UTC(), nil
	}
	for _, layout := range timeLayouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("cannot parse time %q (use YYYY-MM-DD HH:MM:SS, UTC)", s)
}

// openArchive opens the configured snapshot archive, creating it if needed
func openArchive() (*archive.Archive, error) {
	if err := config.Require(settings, "archive.dir"); err != nil {
		return nil, err
	}
	dir := config.ExpandHome(settings.Archive.Dir)
	if err := os.MkdirAll(filepath.Dir(dir), 0750); err != nil {
		return nil, fmt.Errorf("failed to create archive directory: %w", err)
	}
	return archive.Open(dir)
}

// archiveRecord stores a snapshot of r and logs its id
func archiveRecord(r *persistent.Record, source, note string) error {
	a, err := openArchive()
	if err != nil {
		return err
	}
	defer a.Close()

	snap, err := persistent.NewSnapshot(r, filepath.Base(source), time.Now())
	if err != nil {
		return err
	}
	snap.Note = note

	id, err := a.Put(snap)
	if err != nil {
		return err
	}
	logger.WithField("id", id.String()).Info("snapshot archived")
	fmt.Printf("Archived as %s\n", id)
	return nil
}
