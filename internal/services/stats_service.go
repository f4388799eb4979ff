package services

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/ndemidov/campusforum/internal/models"
)

// Stats is a point-in-time activity snapshot of the forum.
type Stats struct {
	Users    int64 `json:"users"`
	Threads  int64 `json:"threads"`
	Messages int64 `json:"messages"`
}

// StatsService counts forum entities for the stats endpoint and the
// scheduled activity reporter.
type StatsService struct {
	db *gorm.DB
}

// NewStatsService constructs a StatsService.
func NewStatsService(db *gorm.DB) (*StatsService, error) {
	if db == nil {
		return nil, errors.New("stats service: db is required")
	}
	return &StatsService{db: db}, nil
}

// Snapshot reads the current entity counts.
func (s *StatsService) Snapshot(ctx context.Context) (Stats, error) {
	var stats Stats

	if err := s.db.WithContext(ctx).Model(&models.User{}).Count(&stats.Users).Error; err != nil {
		return Stats{}, fmt.Errorf("stats service: count users: %w", err)
	}
	if err := s.db.WithContext(ctx).Model(&models.Thread{}).Count(&stats.Threads).Error; err != nil {
		return Stats{}, fmt.Errorf("stats service: count threads: %w", err)
	}
	if err := s.db.WithContext(ctx).Model(&models.Message{}).Count(&stats.Messages).Error; err != nil {
		return Stats{}, fmt.Errorf("stats service: count messages: %w", err)
	}

	return stats, nil
}
