// Package storage persists the clipboard history and settings in a
// BoltDB file. The history is written in full on every mutation: the
// sequence is small and bounded, and a whole-value write inside one
// bolt transaction keeps the on-disk copy consistent without any
// incremental bookkeeping.
package storage

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"go.etcd.io/bbolt"
	"go.uber.org/zap"

	"github.com/tobq/clipboard-tray/internal/types"
)

const (
	historyBucket  = "history"
	settingsBucket = "settings"
	// legacySlotsBucket holds the pre-tristate slot-to-payload mapping.
	// It is consumed once by the startup migration and then dropped.
	legacySlotsBucket = "slots"

	historyKey  = "items"
	settingsKey = "settings"
)

// LegacySlot is one entry of the old standalone quick-slot mapping.
type LegacySlot struct {
	Kind  types.ItemKind `json:"kind"`
	Text  string         `json:"text,omitempty"`
	Image string         `json:"image,omitempty"`
}

// BoltStorage implements persistent storage for history and settings.
type BoltStorage struct {
	db     *bbolt.DB
	logger *zap.Logger
}

// StorageConfig holds configuration for BoltStorage initialization.
type StorageConfig struct {
	DBPath string
	Logger *zap.Logger
}

// NewBoltStorage opens (or creates) the database and its buckets.
func NewBoltStorage(config StorageConfig) (*BoltStorage, error) {
	db, err := bbolt.Open(config.DBPath, 0o600, &bbolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open bolt database: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		for _, name := range []string{historyBucket, settingsBucket} {
			if _, err := tx.CreateBucketIfNotExists([]byte(name)); err != nil {
				return fmt.Errorf("failed to create bucket %s: %w", name, err)
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	logger := config.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	logger.Debug("storage initialized", zap.String("db_path", config.DBPath))

	return &BoltStorage{db: db, logger: logger}, nil
}

// LoadHistory returns the stored history sequence. A missing or corrupt
// record is treated as an empty history, never as an error.
func (s *BoltStorage) LoadHistory() []*types.ClipboardItem {
	var items []*types.ClipboardItem
	err := s.db.View(func(tx *bbolt.Tx) error {
		v := tx.Bucket([]byte(historyBucket)).Get([]byte(historyKey))
		if v == nil {
			return nil
		}
		if err := json.Unmarshal(v, &items); err != nil {
			s.logger.Warn("corrupt history record, starting empty", zap.Error(err))
			items = nil
		}
		return nil
	})
	if err != nil {
		s.logger.Warn("failed to read history", zap.Error(err))
		return nil
	}
	return items
}

// SaveHistory rewrites the full history sequence.
func (s *BoltStorage) SaveHistory(items []*types.ClipboardItem) error {
	encoded, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("failed to marshal history: %w", err)
	}
	err = s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket([]byte(historyBucket)).Put([]byte(historyKey), encoded)
	})
	if err != nil {
		return fmt.Errorf("failed to save history: %w", err)
	}
	return nil
}

// LoadSettings returns stored settings merged over the defaults.
// Unknown keys in the stored copy are ignored and therefore dropped on
// the next save; missing keys keep their default values.
func (s *BoltStorage) LoadSettings() types.Settings {
	settings := types.DefaultSettings()
	err := s.db.View(func(tx *bbolt.Tx) error {
		v := tx.Bucket([]byte(settingsBucket)).Get([]byte(settingsKey))
		if v == nil {
			return nil
		}
		if err := json.Unmarshal(v, &settings); err != nil {
			s.logger.Warn("corrupt settings record, using defaults", zap.Error(err))
			settings = types.DefaultSettings()
		}
		return nil
	})
	if err != nil {
		s.logger.Warn("failed to read settings", zap.Error(err))
		return types.DefaultSettings()
	}
	return settings
}

// SaveSettings persists the settings object.
func (s *BoltStorage) SaveSettings(settings types.Settings) error {
	encoded, err := json.Marshal(settings)
	if err != nil {
		return fmt.Errorf("failed to marshal settings: %w", err)
	}
	err = s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket([]byte(settingsBucket)).Put([]byte(settingsKey), encoded)
	})
	if err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}
	return nil
}

// LoadLegacySlots returns the old slot mapping if the bucket exists.
// Undecodable entries are skipped.
func (s *BoltStorage) LoadLegacySlots() map[int]LegacySlot {
	slots := make(map[int]LegacySlot)
	err := s.db.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket([]byte(legacySlotsBucket))
		if b == nil {
			return nil
		}
		return b.ForEach(func(k, v []byte) error {
			n, err := strconv.Atoi(string(k))
			if err != nil || n < types.MinSlot || n > types.MaxSlot {
				return nil
			}
			var slot LegacySlot
			if err := json.Unmarshal(v, &slot); err != nil {
				s.logger.Warn("skipping corrupt legacy slot",
					zap.Int("slot", n), zap.Error(err))
				return nil
			}
			slots[n] = slot
			return nil
		})
	})
	if err != nil {
		s.logger.Warn("failed to read legacy slots", zap.Error(err))
		return nil
	}
	if len(slots) == 0 {
		return nil
	}
	return slots
}

// DropLegacySlots removes the legacy slot bucket after migration.
func (s *BoltStorage) DropLegacySlots() error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		if tx.Bucket([]byte(legacySlotsBucket)) == nil {
			return nil
		}
		return tx.DeleteBucket([]byte(legacySlotsBucket))
	})
}

// Close closes the underlying database.
func (s *BoltStorage) Close() error {
	return s.db.Close()
}
