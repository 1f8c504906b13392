package metrics

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	log "github.com/sirupsen/logrus"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

// StatsDBFile is the platform statistics database, relative to the data directory
const StatsDBFile = "metrics.db"

// StatsStore counts reported platform adapters
type StatsStore interface {
	InsertPlatformStats(ctx context.Context, platformID, platformType string) error
}

// PlatformStat is the number of reports of one platform adapter within an hour
type PlatformStat struct {
	ID           uint      `gorm:"primaryKey"`
	Timestamp    time.Time `gorm:"uniqueIndex:idx_platform_stats_bucket;not null"`
	PlatformID   string    `gorm:"uniqueIndex:idx_platform_stats_bucket;not null"`
	PlatformType string    `gorm:"uniqueIndex:idx_platform_stats_bucket;not null"`
	Count        int       `gorm:"not null;default:0"`
}

func (*PlatformStat) TableName() string {
	return "platform_stats"
}

// SQLStatsStore keeps platform statistics in a sqlite database
type SQLStatsStore struct {
	db  *gorm.DB
	now func() time.Time
}

// NewSQLStatsStore opens or creates the statistics database in dataDir
func NewSQLStatsStore(dataDir string) (*SQLStatsStore, error) {
	file := filepath.Join(dataDir, StatsDBFile)

	start := time.Now()
	db, err := gorm.Open(sqlite.Open(file), &gorm.Config{
		Logger:      logger.Default.LogMode(logger.Silent),
		PrepareStmt: true,
	})
	if err != nil {
		return nil, fmt.Errorf("open stats database %s: %w", file, err)
	}

	if err := db.AutoMigrate(&PlatformStat{}); err != nil {
		return nil, fmt.Errorf("migrate stats database: %w", err)
	}
	log.Debugf("took %v to set up stats db %s", time.Since(start), file)

	return &SQLStatsStore{db: db, now: time.Now}, nil
}

// InsertPlatformStats records one report of the platform in the current hour bucket
func (s *SQLStatsStore) InsertPlatformStats(ctx context.Context, platformID, platformType string) error {
	stat := PlatformStat{
		Timestamp:    s.now().UTC().Truncate(time.Hour),
		PlatformID:   platformID,
		PlatformType: platformType,
		Count:        1,
	}

	return s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "timestamp"}, {Name: "platform_id"}, {Name: "platform_type"}},
			DoUpdates: clause.Assignments(map[string]interface{}{"count": gorm.Expr("count + 1")}),
		}).
		Create(&stat).Error
}

// PlatformStats returns all recorded buckets, newest first
func (s *SQLStatsStore) PlatformStats(ctx context.Context) ([]PlatformStat, error) {
	var stats []PlatformStat
	result := s.db.WithContext(ctx).
		Order("timestamp desc").
		Order("platform_id").
		Find(&stats)
	if result.Error != nil {
		return nil, result.Error
	}
	return stats, nil
}

func (s *SQLStatsStore) Close() error {
	sql, err := s.db.DB()
	if err != nil {
		return err
	}
	return sql.Close()
}
