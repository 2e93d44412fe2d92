package store

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	bolt "github.com/boltdb/bolt"

	"github.com/ahmetcoskunkizilkaya/fraudwatch/internal/models"
)

const reportsBucket = "reports"

// BoltStore keeps report documents in a single embedded BoltDB file, keyed
// by report id.
type BoltStore struct {
	db *bolt.DB
}

func NewBoltStore(path string) (*BoltStore, error) {
	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("open bolt db: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(reportsBucket))
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("create bucket: %w", err)
	}

	return &BoltStore{db: db}, nil
}

func (s *BoltStore) Write(_ context.Context, report *models.Report) error {
	if !validID(report.ID) {
		return fmt.Errorf("invalid report id %q", report.ID)
	}
	normalize(report)

	data, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("encode report: %w", err)
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(reportsBucket)).Put([]byte(report.ID), data)
	})
}

func (s *BoltStore) Read(_ context.Context, id string) (*models.Report, error) {
	if !validID(id) {
		return nil, ErrNotFound
	}

	var report models.Report
	err := s.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket([]byte(reportsBucket)).Get([]byte(id))
		if v == nil {
			return ErrNotFound
		}
		return json.Unmarshal(v, &report)
	})
	if err != nil {
		return nil, err
	}
	normalize(&report)
	return &report, nil
}

func (s *BoltStore) ReadAll(_ context.Context) ([]models.Report, error) {
	var reports []models.Report

	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(reportsBucket)).ForEach(func(k, v []byte) error {
			var r models.Report
			if err := json.Unmarshal(v, &r); err != nil {
				slog.Warn("skipping unreadable report", "report_id", string(k), "error", err)
				return nil
			}
			normalize(&r)
			reports = append(reports, r)
			return nil
		})
	})
	if err != nil {
		return nil, fmt.Errorf("list reports: %w", err)
	}

	if reports == nil {
		reports = []models.Report{}
	}
	sortNewestFirst(reports)
	return reports, nil
}

func (s *BoltStore) Ping(_ context.Context) error {
	return s.db.View(func(tx *bolt.Tx) error {
		if tx.Bucket([]byte(reportsBucket)) == nil {
			return fmt.Errorf("bucket %s missing", reportsBucket)
		}
		return nil
	})
}

// Close releases the database file lock.
func (s *BoltStore) Close() error {
	return s.db.Close()
}
