package storage

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"arbScope/internal/model"
)

// JsonlFile appends records as JSON lines to a single file, creating
// parent directories on first write.
type JsonlFile struct {
	path string
	mu   sync.Mutex
}

func NewJsonlFile(path string) *JsonlFile {
	return &JsonlFile{path: path}
}

// PutCandidates appends a batch of candidates.
func (f *JsonlFile) PutCandidates(candidates []model.ArbCandidate) error {
	return appendLines(f, len(candidates), func(i int) interface{} { return candidates[i] })
}

// PutClassifications appends a batch of classifications.
func (f *JsonlFile) PutClassifications(classifications []model.Classification) error {
	return appendLines(f, len(classifications), func(i int) interface{} { return classifications[i] })
}

// PutDecodeErrors appends a batch of decode errors.
func (f *JsonlFile) PutDecodeErrors(errors []model.DecodeError) error {
	return appendLines(f, len(errors), func(i int) interface{} { return errors[i] })
}

func appendLines(f *JsonlFile, count int, record func(int) interface{}) error {
	if count == 0 {
		return nil
	}

	dir := filepath.Dir(f.path)
	if dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	file, err := os.OpenFile(f.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("open output file: %w", err)
	}
	defer file.Close()

	writer := bufio.NewWriter(file)
	for i := 0; i < count; i++ {
		line, err := json.Marshal(record(i))
		if err != nil {
			return fmt.Errorf("marshal record: %w", err)
		}
		if _, err := writer.Write(line); err != nil {
			return fmt.Errorf("write record: %w", err)
		}
		if err := writer.WriteByte('\n'); err != nil {
			return fmt.Errorf("write newline: %w", err)
		}
	}

	if err := writer.Flush(); err != nil {
		return fmt.Errorf("flush output: %w", err)
	}

	return nil
}
