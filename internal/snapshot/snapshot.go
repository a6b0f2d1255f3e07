// Package snapshot writes and reads save files: a versioned JSON record,
// zstd-compressed, with a small plain-JSON header line so tools can identify
// a file without decompressing it.
package snapshot

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/klauspost/compress/zstd"

	"github.com/quietriver/doomclock/internal/sim"
)

type header struct {
	Magic   string `json:"magic"`
	Version int    `json:"version"`
	Seed    string `json:"seed"`
	Turn    int    `json:"turn"`
}

const magic = "doomclock-save"

// Write persists the record to path, creating parent directories as needed.
// The write goes through a temp file and rename so a crash never leaves a
// truncated save in place.
func Write(path string, rec sim.SaveRecord) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	tmp := path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return err
	}

	if err := write(f, rec); err != nil {
		f.Close()
		os.Remove(tmp)
		return err
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return err
	}
	return os.Rename(tmp, path)
}

func write(f *os.File, rec sim.SaveRecord) error {
	w := bufio.NewWriter(f)

	head, err := json.Marshal(header{Magic: magic, Version: rec.Version, Seed: rec.Seed, Turn: rec.Turn})
	if err != nil {
		return err
	}
	if _, err := w.Write(append(head, '\n')); err != nil {
		return err
	}

	zw, err := zstd.NewWriter(w)
	if err != nil {
		return err
	}
	if err := json.NewEncoder(zw).Encode(rec); err != nil {
		zw.Close()
		return err
	}
	if err := zw.Close(); err != nil {
		return err
	}
	return w.Flush()
}

// Read loads a save file written by Write.
func Read(path string) (sim.SaveRecord, error) {
	var rec sim.SaveRecord

	f, err := os.Open(path)
	if err != nil {
		return rec, err
	}
	defer f.Close()

	r := bufio.NewReader(f)
	headLine, err := r.ReadBytes('\n')
	if err != nil {
		return rec, fmt.Errorf("save header: %w", err)
	}
	var head header
	if err := json.Unmarshal(headLine, &head); err != nil {
		return rec, fmt.Errorf("save header: %w", err)
	}
	if head.Magic != magic {
		return rec, fmt.Errorf("not a save file: %s", path)
	}

	zr, err := zstd.NewReader(r)
	if err != nil {
		return rec, err
	}
	defer zr.Close()

	if err := json.NewDecoder(zr).Decode(&rec); err != nil {
		return rec, fmt.Errorf("save body: %w", err)
	}
	if rec.Version != head.Version {
		return rec, fmt.Errorf("save header/body version mismatch: %d != %d", head.Version, rec.Version)
	}
	return rec, nil
}
