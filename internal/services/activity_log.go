package services

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"DF-CONTRATOS/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// RequestIDKey is the gin context key holding the request ID.
const RequestIDKey = "request_id"

// ActivityLogService logs every served request with zap and, when a database
// is configured, stores it as an activity_logs row.
type ActivityLogService struct {
	db      *gorm.DB
	logger  *zap.Logger
	pending sync.WaitGroup
}

func NewActivityLogService(db *gorm.DB, logger *zap.Logger) *ActivityLogService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ActivityLogService{db: db, logger: logger}
}

// Persistent reports whether logs are stored and can be queried.
func (s *ActivityLogService) Persistent() bool {
	return s.db != nil
}

type LogFilter struct {
	Method string
	Path   string
	Limit  int
	Offset int
}

func (s *ActivityLogService) LogRequest(c *gin.Context, statusCode int, responseTime time.Duration) {
	clientIP := c.ClientIP()
	if clientIP == "" {
		clientIP = c.Request.RemoteAddr
	}

	activityLog := &models.ActivityLog{
		ID:           uuid.New().String(),
		RequestID:    c.GetString(RequestIDKey),
		Method:       c.Request.Method,
		Path:         c.Request.URL.Path,
		Route:        c.FullPath(),
		UserAgent:    c.Request.UserAgent(),
		IPAddress:    clientIP,
		StatusCode:   statusCode,
		ResponseTime: responseTime.Milliseconds(),
		CreatedAt:    time.Now(),
	}

	fields := []zap.Field{
		zap.String("request_id", activityLog.RequestID),
		zap.String("method", activityLog.Method),
		zap.String("path", activityLog.Path),
		zap.Int("status", statusCode),
		zap.Duration("latency", responseTime),
		zap.String("ip", clientIP),
	}
	switch {
	case statusCode >= 500:
		s.logger.Error("request served", fields...)
	case statusCode >= 400:
		s.logger.Warn("request served", fields...)
	default:
		s.logger.Info("request served", fields...)
	}

	if s.db == nil {
		return
	}
	// Don't block the request on the insert.
	s.pending.Add(1)
	go func() {
		defer s.pending.Done()
		if err := s.db.Create(activityLog).Error; err != nil {
			s.logger.Warn("failed to save activity log", zap.String("request_id", activityLog.RequestID), zap.Error(err))
		}
	}()
}

// Wait blocks until queued log inserts have finished.
func (s *ActivityLogService) Wait() {
	s.pending.Wait()
}

// GetLogs returns the most recent logs first with the total matching count.
func (s *ActivityLogService) GetLogs(filter LogFilter) ([]models.ActivityLog, int64, error) {
	if s.db == nil {
		return nil, 0, fmt.Errorf("activity logs are not persisted")
	}

	query := s.db.Model(&models.ActivityLog{})
	if filter.Method != "" {
		query = query.Where("method = ?", strings.ToUpper(filter.Method))
	}
	if filter.Path != "" {
		query = query.Where("path LIKE ?", "%"+filter.Path+"%")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count logs: %w", err)
	}

	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		query = query.Offset(filter.Offset)
	}

	var logs []models.ActivityLog
	if err := query.Order("created_at DESC").Find(&logs).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch logs: %w", err)
	}
	return logs, total, nil
}

func (s *ActivityLogService) LoggingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.LogRequest(c, c.Writer.Status(), time.Since(start))
	}
}
