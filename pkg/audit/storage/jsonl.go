package storage

import (
	"bufio"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"veridex-hq/callisto/pkg/audit"
)

// JSONLStore is an append-only audit store writing one JSON entry per
// line. The file format is the portable interchange form of the chain:
// it can be copied, diffed, and re-verified anywhere.
type JSONLStore struct {
	mu   sync.Mutex
	path string
	file *os.File
}

// NewJSONLStore opens (or creates) the JSONL log at path, creating
// parent directories as needed.
func NewJSONLStore(path string) (*JSONLStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, audit.NewStorageError("jsonl", "mkdir", err)
	}
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, audit.NewStorageError("jsonl", "open", err)
	}
	return &JSONLStore{path: path, file: file}, nil
}

// Append writes the entry as one line and syncs it to disk. Fsync on
// every append keeps the durable tail aligned with the in-memory tail
// hash, which the chain depends on.
func (s *JSONLStore) Append(ctx context.Context, entry *audit.Entry) error {
	data, err := json.Marshal(entry)
	if err != nil {
		return audit.NewStorageError("jsonl", "marshal", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.file.Write(append(data, '\n')); err != nil {
		return audit.NewStorageError("jsonl", "write", err)
	}
	if err := s.file.Sync(); err != nil {
		return audit.NewStorageError("jsonl", "sync", err)
	}
	return nil
}

// LastHash returns the entry hash on the last line, or the genesis hash
// for an empty or absent file.
func (s *JSONLStore) LastHash(ctx context.Context) (string, error) {
	entries, err := s.readAll()
	if err != nil {
		return "", err
	}
	if len(entries) == 0 {
		return audit.GenesisHash, nil
	}
	return entries[len(entries)-1].EntryHash, nil
}

// List returns matching entries in file order.
func (s *JSONLStore) List(ctx context.Context, q audit.Query) ([]*audit.Entry, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}

	entries, err := s.readAll()
	if err != nil {
		return nil, err
	}

	var matched []*audit.Entry
	for _, e := range entries {
		if q.Matches(e) {
			matched = append(matched, e)
		}
	}
	return applyWindow(matched, q), nil
}

// Count returns the number of entries in the log.
func (s *JSONLStore) Count(ctx context.Context) (int64, error) {
	entries, err := s.readAll()
	if err != nil {
		return 0, err
	}
	return int64(len(entries)), nil
}

// Close closes the underlying file.
func (s *JSONLStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.file.Close()
}

// readAll reads every entry in the log. A malformed line is a storage
// error, not a skip: silently dropping lines would mask tampering that
// the verifier exists to catch.
func (s *JSONLStore) readAll() ([]*audit.Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := os.Open(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, audit.NewStorageError("jsonl", "open", err)
	}
	defer f.Close()

	var entries []*audit.Entry
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var e audit.Entry
		if err := json.Unmarshal(line, &e); err != nil {
			return nil, audit.NewStorageError("jsonl", "decode", err)
		}
		entries = append(entries, &e)
	}
	if err := scanner.Err(); err != nil {
		return nil, audit.NewStorageError("jsonl", "scan", err)
	}
	return entries, nil
}
