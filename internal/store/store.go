// Package store loads, merges and rewrites the JSON hymnal collection.
//
// Every rewrite is preceded by a byte-for-byte copy of the current file to
// <path>.backup. A failed backup is reported in SaveResult and does not stop
// the write; a failed write is returned as an error and leaves the backup in
// place.
package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	ioutils "github.com/lutherald/hymnscan/internal/io"
	"github.com/lutherald/hymnscan/internal/model"
)

// BackupSuffix is appended to the collection path to name the backup copy.
const BackupSuffix = ".backup"

// SaveResult describes what Save did besides the primary write.
type SaveResult struct {
	// BackupPath is where the previous content was copied.
	BackupPath string

	// BackupErr is set when the backup could not be made. The write still
	// went ahead.
	BackupErr error

	// Written is the number of typed records written.
	Written int
}

// Load reads the collection stored at path.
func Load(path string) (model.Collection, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return model.NewCollection(), err
	}

	var c model.Collection
	if err := json.Unmarshal(data, &c); err != nil {
		return model.NewCollection(), fmt.Errorf("parse %s: %w", path, err)
	}
	return c, nil
}

// Merge returns a new collection holding every record of orig, with the
// records of scraped added on top. A key present in both takes the scraped
// record. Neither input is modified.
func Merge(orig, scraped model.Collection) model.Collection {
	out := orig.Clone()
	for _, n := range scraped.Numbers() {
		h, _ := scraped.Get(n)
		out.Set(n, h)
	}
	return out
}

// Save backs up the file at path and replaces it with c.
//
// When no file exists yet there is nothing to back up and BackupErr stays
// nil. Any other failure to inspect the current file is a backup failure.
func Save(ctx context.Context, path string, c model.Collection) (SaveResult, error) {
	res := SaveResult{BackupPath: path + BackupSuffix}

	data, err := c.MarshalJSON()
	if err != nil {
		return res, fmt.Errorf("encode collection: %w", err)
	}

	switch _, statErr := os.Stat(path); {
	case statErr == nil:
		if err := ioutils.CopyFile(ctx, path, res.BackupPath); err != nil {
			res.BackupErr = fmt.Errorf("backup %s: %w", path, err)
		}
	case os.IsNotExist(statErr):
		res.BackupPath = ""
	default:
		res.BackupErr = fmt.Errorf("backup %s: %w", path, statErr)
	}

	if err := ioutils.WriteFile(ctx, path, data); err != nil {
		return res, fmt.Errorf("write %s: %w", path, err)
	}

	res.Written = c.Len()
	return res, nil
}
