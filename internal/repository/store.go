package repository

import (
	"context"
	"course_platform_backend/pkg/logger"
	"course_platform_backend/pkg/monitoring"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// Store wraps the Redis client behind the flat get/set/delete plus set-member
// contract the repositories are written against. Operations never surface
// errors: a backend failure is logged and reported as false/absent so callers
// can degrade. Each call is bounded by opTimeout and a timeout counts as a
// plain failure. Safe for concurrent use; the client is shared process-wide.
//
// No operation spans more than one round trip, and no cross-key transaction is
// offered beyond WriteRecord/DeleteRecord, which pipeline a primary write with
// its index updates. Concurrent writers to the same key are last-writer-wins.
type Store struct {
	client    *redis.Client
	opTimeout time.Duration
	log       *zap.Logger
}

func NewStore(client *redis.Client, opTimeout time.Duration) *Store {
	log := logger.Log
	if log == nil {
		log = zap.NewNop()
	}
	return &Store{
		client:    client,
		opTimeout: opTimeout,
		log:       log,
	}
}

func (s *Store) opCtx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), s.opTimeout)
}

func (s *Store) observe(op string, start time.Time, ok bool) {
	monitoring.ObserveStoreOp(op, time.Since(start), ok)
}

// Connect verifies the backend is reachable.
func (s *Store) Connect() bool {
	return s.IsConnected()
}

// IsConnected re-verifies liveness with a ping; the result is never cached.
func (s *Store) IsConnected() bool {
	ctx, cancel := s.opCtx()
	defer cancel()
	if err := s.client.Ping(ctx).Err(); err != nil {
		s.log.Warn("redis ping failed", zap.Error(err))
		return false
	}
	return true
}

// Get returns the value at key, or absent=false when the key does not exist or
// the backend is unreachable.
func (s *Store) Get(key string) (string, bool) {
	start := time.Now()
	ctx, cancel := s.opCtx()
	defer cancel()

	val, err := s.client.Get(ctx, key).Result()
	if err == redis.Nil {
		s.observe("get", start, true)
		return "", false
	}
	if err != nil {
		s.log.Warn("redis get failed", zap.String("key", key), zap.Error(err))
		s.observe("get", start, false)
		return "", false
	}
	s.observe("get", start, true)
	return val, true
}

func (s *Store) Set(key, value string) bool {
	start := time.Now()
	ctx, cancel := s.opCtx()
	defer cancel()

	if err := s.client.Set(ctx, key, value, 0).Err(); err != nil {
		s.log.Warn("redis set failed", zap.String("key", key), zap.Error(err))
		s.observe("set", start, false)
		return false
	}
	s.observe("set", start, true)
	return true
}

func (s *Store) Delete(key string) bool {
	start := time.Now()
	ctx, cancel := s.opCtx()
	defer cancel()

	n, err := s.client.Del(ctx, key).Result()
	if err != nil {
		s.log.Warn("redis del failed", zap.String("key", key), zap.Error(err))
		s.observe("delete", start, false)
		return false
	}
	s.observe("delete", start, true)
	return n > 0
}

func (s *Store) AddToSet(key string, members ...string) bool {
	if len(members) == 0 {
		return true
	}
	start := time.Now()
	ctx, cancel := s.opCtx()
	defer cancel()

	args := make([]interface{}, len(members))
	for i, m := range members {
		args[i] = m
	}
	if err := s.client.SAdd(ctx, key, args...).Err(); err != nil {
		s.log.Warn("redis sadd failed", zap.String("key", key), zap.Error(err))
		s.observe("sadd", start, false)
		return false
	}
	s.observe("sadd", start, true)
	return true
}

// SetMembers returns all members of the set at key; empty slice when the set
// is absent or the backend is unreachable. Iteration order is unspecified.
func (s *Store) SetMembers(key string) []string {
	start := time.Now()
	ctx, cancel := s.opCtx()
	defer cancel()

	members, err := s.client.SMembers(ctx, key).Result()
	if err != nil {
		s.log.Warn("redis smembers failed", zap.String("key", key), zap.Error(err))
		s.observe("smembers", start, false)
		return nil
	}
	s.observe("smembers", start, true)
	return members
}

func (s *Store) RemoveFromSet(key string, members ...string) bool {
	if len(members) == 0 {
		return true
	}
	start := time.Now()
	ctx, cancel := s.opCtx()
	defer cancel()

	args := make([]interface{}, len(members))
	for i, m := range members {
		args[i] = m
	}
	if err := s.client.SRem(ctx, key, args...).Err(); err != nil {
		s.log.Warn("redis srem failed", zap.String("key", key), zap.Error(err))
		s.observe("srem", start, false)
		return false
	}
	s.observe("srem", start, true)
	return true
}

// NextID allocates the next id in an entity's counter namespace. Redis INCR is
// atomic, so ids are unique across concurrent creators and across processes.
func (s *Store) NextID(entity string) (int64, bool) {
	start := time.Now()
	ctx, cancel := s.opCtx()
	defer cancel()

	id, err := s.client.Incr(ctx, "next_id:"+entity).Result()
	if err != nil {
		s.log.Warn("redis incr failed", zap.String("entity", entity), zap.Error(err))
		s.observe("incr", start, false)
		return 0, false
	}
	s.observe("incr", start, true)
	return id, true
}

// WriteRecord writes a primary record and its index memberships in a single
// transactional pipeline, so a primary write cannot land without its index
// updates. indexes maps set key -> members to add; extras are plain key/value
// pairs written alongside (e.g. the email -> username index); staleKeys are
// superseded keys deleted in the same transaction.
func (s *Store) WriteRecord(key, value string, indexes map[string][]string, extras map[string]string, staleKeys ...string) bool {
	start := time.Now()
	ctx, cancel := s.opCtx()
	defer cancel()

	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, key, value, 0)
		for idx, members := range indexes {
			args := make([]interface{}, len(members))
			for i, m := range members {
				args[i] = m
			}
			if len(args) > 0 {
				pipe.SAdd(ctx, idx, args...)
			}
		}
		for k, v := range extras {
			pipe.Set(ctx, k, v, 0)
		}
		if len(staleKeys) > 0 {
			pipe.Del(ctx, staleKeys...)
		}
		return nil
	})
	if err != nil {
		s.log.Warn("redis write pipeline failed", zap.String("key", key), zap.Error(err))
		s.observe("write_record", start, false)
		return false
	}
	s.observe("write_record", start, true)
	return true
}

// DeleteRecord removes a primary record together with its index memberships
// and any companion keys (credential entries, owned index sets). Returns
// whether the primary record existed.
func (s *Store) DeleteRecord(key string, indexes map[string][]string, extraKeys ...string) bool {
	start := time.Now()
	ctx, cancel := s.opCtx()
	defer cancel()

	var del *redis.IntCmd
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		del = pipe.Del(ctx, key)
		for idx, members := range indexes {
			args := make([]interface{}, len(members))
			for i, m := range members {
				args[i] = m
			}
			if len(args) > 0 {
				pipe.SRem(ctx, idx, args...)
			}
		}
		for _, k := range extraKeys {
			pipe.Del(ctx, k)
		}
		return nil
	})
	if err != nil {
		s.log.Warn("redis delete pipeline failed", zap.String("key", key), zap.Error(err))
		s.observe("delete_record", start, false)
		return false
	}
	s.observe("delete_record", start, true)
	return del.Val() > 0
}
