// internal/draft/store.go
package draft

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"hauler-portal/internal/common/database"
	"hauler-portal/internal/common/logger"
	"hauler-portal/internal/common/metrics"
	"hauler-portal/internal/models"

	"github.com/redis/go-redis/v9"
	"github.com/xeipuuv/gojsonschema"
)

const keyPrefix = "hauler:draft:"

// snapshotSchema is the shape check applied to stored snapshots before a
// restore is offered. A snapshot that fails it is treated as absent.
var snapshotSchema = map[string]interface{}{
	"type":     "object",
	"required": []interface{}{"data", "currentStep", "timestamp"},
	"properties": map[string]interface{}{
		"currentStep": map[string]interface{}{
			"type":    "integer",
			"minimum": 0,
		},
		"timestamp": map[string]interface{}{
			"type": "string",
		},
		"data": map[string]interface{}{
			"type": "object",
		},
	},
}

// Store persists one draft snapshot per session in Redis. Each save
// replaces the previous snapshot wholesale; there is no history.
type Store struct {
	redis  *database.RedisClient
	logger logger.Logger
	maxAge time.Duration
	ttl    time.Duration
}

func NewStore(redisClient *database.RedisClient, log logger.Logger, maxAge time.Duration) *Store {
	return &Store{
		redis:  redisClient,
		logger: log,
		maxAge: maxAge,
		// Keep keys around slightly past the restore window so an
		// expired snapshot can still be reported and cleaned up.
		ttl: maxAge + time.Hour,
	}
}

func (s *Store) key(sessionID string) string {
	return keyPrefix + sessionID
}

// Save writes the snapshot for the session. Attachment content never
// reaches Redis: DocumentRef.Content is excluded from JSON serialization.
func (s *Store) Save(ctx context.Context, sessionID string, snapshot models.DraftSnapshot) error {
	payload, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("failed to marshal draft snapshot: %w", err)
	}

	if err := s.redis.Set(ctx, s.key(sessionID), payload, s.ttl); err != nil {
		return fmt.Errorf("failed to store draft snapshot: %w", err)
	}

	s.logger.Debug("Draft snapshot saved", map[string]interface{}{
		"session_id":   sessionID,
		"current_step": snapshot.CurrentStep,
		"bytes":        len(payload),
	})
	return nil
}

// Load returns the stored snapshot for the session, or (nil, nil) when no
// usable snapshot exists. A snapshot older than the restore window is
// deleted silently; a corrupt one is treated the same way.
func (s *Store) Load(ctx context.Context, sessionID string) (*models.DraftSnapshot, error) {
	raw, err := s.redis.Get(ctx, s.key(sessionID))
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read draft snapshot: %w", err)
	}

	if err := s.validateShape(raw); err != nil {
		s.logger.Warn("Discarding malformed draft snapshot", map[string]interface{}{
			"session_id": sessionID,
			"error":      err.Error(),
		})
		metrics.DraftRestores.WithLabelValues("malformed").Inc()
		_ = s.redis.Del(ctx, s.key(sessionID))
		return nil, nil
	}

	var snapshot models.DraftSnapshot
	if err := json.Unmarshal([]byte(raw), &snapshot); err != nil {
		s.logger.Warn("Discarding undecodable draft snapshot", map[string]interface{}{
			"session_id": sessionID,
			"error":      err.Error(),
		})
		metrics.DraftRestores.WithLabelValues("malformed").Inc()
		_ = s.redis.Del(ctx, s.key(sessionID))
		return nil, nil
	}

	if time.Since(snapshot.Timestamp) > s.maxAge {
		s.logger.Info("Discarding stale draft snapshot", map[string]interface{}{
			"session_id": sessionID,
			"age_hours":  time.Since(snapshot.Timestamp).Hours(),
		})
		metrics.DraftRestores.WithLabelValues("expired").Inc()
		_ = s.redis.Del(ctx, s.key(sessionID))
		return nil, nil
	}

	metrics.DraftRestores.WithLabelValues("offered").Inc()
	return &snapshot, nil
}

// Delete removes the session's snapshot, if any.
func (s *Store) Delete(ctx context.Context, sessionID string) error {
	return s.redis.Del(ctx, s.key(sessionID))
}

func (s *Store) validateShape(raw string) error {
	schemaLoader := gojsonschema.NewGoLoader(snapshotSchema)
	documentLoader := gojsonschema.NewStringLoader(raw)

	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return fmt.Errorf("schema validation error: %w", err)
	}
	if !result.Valid() {
		errs := make([]string, len(result.Errors()))
		for i, desc := range result.Errors() {
			errs[i] = desc.String()
		}
		return fmt.Errorf("snapshot shape invalid: %v", errs)
	}
	return nil
}
