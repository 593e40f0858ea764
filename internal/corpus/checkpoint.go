package corpus

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/gofrs/flock"
	"go.uber.org/zap"
)

// Checkpoint is the persisted partial-progress record for a corpus pass.
// It is read once when a pass begins and deleted after the pass completes
// successfully.
type Checkpoint struct {
	Timestamp      string            `json:"timestamp"`
	ProcessedCount int               `json:"processed_count"`
	Processed      []SlideDescriptor `json:"processed"`
}

// CheckpointStore reads and writes the checkpoint file, guarded by a file
// lock so two passes cannot interleave on the same workspace.
type CheckpointStore struct {
	path   string
	lock   *flock.Flock
	logger *zap.Logger
}

// NewCheckpointStore creates a CheckpointStore for the given file path.
func NewCheckpointStore(path string, logger *zap.Logger) *CheckpointStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CheckpointStore{
		path:   path,
		lock:   flock.New(path + ".lock"),
		logger: logger,
	}
}

// Acquire takes the pass lock. It fails immediately if another pass holds it.
func (s *CheckpointStore) Acquire() error {
	locked, err := s.lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire checkpoint lock: %w", err)
	}
	if !locked {
		return fmt.Errorf("checkpoint %s is locked by another corpus pass", s.path)
	}
	return nil
}

// Release drops the pass lock.
func (s *CheckpointStore) Release() {
	if err := s.lock.Unlock(); err != nil {
		s.logger.Warn("failed to release checkpoint lock", zap.Error(err))
	}
}

// Load returns the persisted checkpoint, or nil when no checkpoint exists.
func (s *CheckpointStore) Load() (*Checkpoint, error) {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read checkpoint %s: %w", s.path, err)
	}

	var cp Checkpoint
	if err := json.Unmarshal(data, &cp); err != nil {
		return nil, fmt.Errorf("parse checkpoint %s: %w", s.path, err)
	}
	return &cp, nil
}

// Save persists the checkpoint atomically after each processed unit.
func (s *CheckpointStore) Save(processed []SlideDescriptor) error {
	cp := Checkpoint{
		Timestamp:      time.Now().UTC().Format(time.RFC3339),
		ProcessedCount: len(processed),
		Processed:      processed,
	}

	data, err := json.MarshalIndent(cp, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal checkpoint: %w", err)
	}

	tempFile := s.path + ".tmp"
	if err := os.WriteFile(tempFile, data, 0644); err != nil {
		return fmt.Errorf("write checkpoint: %w", err)
	}
	if err := os.Rename(tempFile, s.path); err != nil {
		return fmt.Errorf("rename checkpoint: %w", err)
	}

	return nil
}

// Clear deletes the checkpoint after a fully successful pass.
func (s *CheckpointStore) Clear() error {
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove checkpoint %s: %w", s.path, err)
	}
	return nil
}
