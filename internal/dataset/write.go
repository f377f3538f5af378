package dataset

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Write stores the dataset as normalized files under dir.
// Each file is replaced atomically so readers never observe a partial write.
// Empty optional sections are left untouched on disk.
func Write(dir string, d *Dataset) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}
	if err := writeJSON(filepath.Join(dir, TeamsFile), d.Teams); err != nil {
		return err
	}
	if err := writeJSON(filepath.Join(dir, FixturesFile), d.Fixtures); err != nil {
		return err
	}
	if len(d.Events) > 0 {
		if err := writeJSON(filepath.Join(dir, EventsFile), d.Events); err != nil {
			return err
		}
	}
	if len(d.Stats) > 0 {
		if err := writeJSON(filepath.Join(dir, TeamStatsFile), d.Stats); err != nil {
			return err
		}
	}
	if len(d.Players) > 0 {
		if err := writeJSON(filepath.Join(dir, PlayersFile), d.Players); err != nil {
			return err
		}
	}
	return nil
}

// WriteRaw stores an upstream payload under dir/raw, pretty-printed when it is valid JSON.
func WriteRaw(dir, name string, body []byte) error {
	var v any
	if err := json.Unmarshal(body, &v); err == nil {
		buf := &bytes.Buffer{}
		enc := json.NewEncoder(buf)
		enc.SetIndent("", "  ")
		if err := enc.Encode(v); err == nil {
			body = buf.Bytes()
		}
	}
	return writeAtomic(filepath.Join(dir, RawDir, name), body)
}

func writeJSON(path string, v any) error {
	body, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", filepath.Base(path), err)
	}
	return writeAtomic(path, append(body, '\n'))
}

// writeAtomic writes to a temp file in the same directory and renames it into place.
func writeAtomic(path string, body []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }()

	if _, err := tmp.Write(body); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write %s: %w", filepath.Base(path), err)
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		return err
	}
	return os.Rename(tmpName, path)
}
