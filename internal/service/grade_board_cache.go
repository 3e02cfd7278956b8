package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/edusoft-co/gradebook-api/internal/models"
)

// GradeBoardCache keeps a short-lived redis snapshot of a course's grade
// board. Cache failures degrade to a miss; they never break a read.
type GradeBoardCache struct {
	client  *redis.Client
	ttl     time.Duration
	metrics *MetricsService
	logger  *zap.Logger
}

// NewGradeBoardCache constructs the cache. metrics may be nil.
func NewGradeBoardCache(client *redis.Client, ttl time.Duration, metrics *MetricsService, logger *zap.Logger) *GradeBoardCache {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GradeBoardCache{client: client, ttl: ttl, metrics: metrics, logger: logger}
}

func boardKey(courseID string) string {
	return fmt.Sprintf("gradebook:board:%s", courseID)
}

// Get returns the cached board and whether it was present.
func (c *GradeBoardCache) Get(ctx context.Context, courseID string) ([]models.CourseGrade, bool) {
	payload, err := c.client.Get(ctx, boardKey(courseID)).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.logger.Warn("grade board cache read failed", zap.String("course_id", courseID), zap.Error(err))
		}
		c.metrics.RecordCacheLookup(false)
		return nil, false
	}
	var grades []models.CourseGrade
	if err := json.Unmarshal(payload, &grades); err != nil {
		c.logger.Warn("grade board cache decode failed", zap.String("course_id", courseID), zap.Error(err))
		c.metrics.RecordCacheLookup(false)
		return nil, false
	}
	c.metrics.RecordCacheLookup(true)
	return grades, true
}

// Set stores the board snapshot with the configured TTL.
func (c *GradeBoardCache) Set(ctx context.Context, courseID string, grades []models.CourseGrade) {
	payload, err := json.Marshal(grades)
	if err != nil {
		c.logger.Warn("grade board cache encode failed", zap.String("course_id", courseID), zap.Error(err))
		return
	}
	if err := c.client.Set(ctx, boardKey(courseID), payload, c.ttl).Err(); err != nil {
		c.logger.Warn("grade board cache write failed", zap.String("course_id", courseID), zap.Error(err))
	}
}

// Invalidate drops the snapshot after any recomputation touching the course.
func (c *GradeBoardCache) Invalidate(ctx context.Context, courseID string) {
	if err := c.client.Del(ctx, boardKey(courseID)).Err(); err != nil {
		c.logger.Warn("grade board cache invalidation failed", zap.String("course_id", courseID), zap.Error(err))
	}
}
