package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"gaportal/internal/model"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
)

const redisPrefix = "ga-portal."

// auditKeep caps the audit list kept in redis.
const auditKeep = 5000

type RedisConfig struct {
	Host        string
	Port        int
	User        string
	Password    string
	DialTimeout time.Duration
	ReadTimeout time.Duration
}

// NewRedisClient connects and pings redis.
func NewRedisClient(ctx context.Context, cfg RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:        cfg.Host + ":" + strconv.Itoa(cfg.Port),
		Username:    cfg.User,
		Password:    cfg.Password,
		DB:          0,
		DialTimeout: cfg.DialTimeout,
		ReadTimeout: cfg.ReadTimeout,
	})
	if _, err := client.Ping(ctx).Result(); err != nil {
		return nil, fmt.Errorf("can't ping redis: %w", err)
	}
	return client, nil
}

type redisSessionRepository struct {
	client *redis.Client
}

// NewRedisSessionRepository stores each session as a JSON value that expires with the session.
func NewRedisSessionRepository(client *redis.Client) SessionRepository {
	return &redisSessionRepository{client: client}
}

func sessionKey(keyHash string) string {
	return redisPrefix + "session." + keyHash
}

func (r *redisSessionRepository) Create(ctx context.Context, session *model.Session) error {
	if session.ID == uuid.Nil {
		session.ID = uuid.New()
	}
	if session.CreatedAt.IsZero() {
		session.CreatedAt = time.Now()
	}
	payload, err := json.Marshal(redisSession{Session: *session, KeyHash: session.KeyHash, UpstreamToken: session.UpstreamToken})
	if err != nil {
		return err
	}
	ttl, live := sessionTTL(session.ExpiresAt, time.Now())
	if !live {
		return nil
	}
	return r.client.Set(ctx, sessionKey(session.KeyHash), payload, ttl).Err()
}

// sessionTTL is the redis expiry for a session. A zero ExpiresAt never expires (TTL 0);
// a session already past ExpiresAt is not live and must not be stored.
func sessionTTL(expiresAt, now time.Time) (time.Duration, bool) {
	if expiresAt.IsZero() {
		return 0, true
	}
	ttl := expiresAt.Sub(now)
	if ttl <= 0 {
		return 0, false
	}
	if ttl < time.Millisecond {
		ttl = time.Millisecond
	}
	return ttl, true
}

// redisSession re-exposes the fields model.Session hides from JSON.
type redisSession struct {
	model.Session
	KeyHash       string `json:"key_hash"`
	UpstreamToken string `json:"upstream_token"`
}

func (r *redisSessionRepository) FindByKeyHash(ctx context.Context, keyHash string) (*model.Session, error) {
	payload, err := r.client.Get(ctx, sessionKey(keyHash)).Bytes()
	if err == redis.Nil {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, err
	}
	var stored redisSession
	if err := json.Unmarshal(payload, &stored); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}
	session := stored.Session
	session.KeyHash = stored.KeyHash
	session.UpstreamToken = stored.UpstreamToken
	return &session, nil
}

func (r *redisSessionRepository) DeleteByKeyHash(ctx context.Context, keyHash string) error {
	return r.client.Del(ctx, sessionKey(keyHash)).Err()
}

// DeleteExpired is a no-op: redis expires the keys itself.
func (r *redisSessionRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	return 0, nil
}

type redisAuditRepository struct {
	client *redis.Client
}

func NewRedisAuditRepository(client *redis.Client) AuditRepository {
	return &redisAuditRepository{client: client}
}

const auditKey = redisPrefix + "audit"

func (r *redisAuditRepository) Log(ctx context.Context, entry *model.AuditLog) error {
	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}
	payload, err := json.Marshal(entry)
	if err != nil {
		return err
	}
	pipe := r.client.TxPipeline()
	pipe.LPush(ctx, auditKey, payload)
	pipe.LTrim(ctx, auditKey, 0, auditKeep-1)
	_, err = pipe.Exec(ctx)
	return err
}

func (r *redisAuditRepository) List(ctx context.Context, page, limit int) ([]model.AuditLog, int64, error) {
	total, err := r.client.LLen(ctx, auditKey).Result()
	if err != nil {
		return nil, 0, err
	}
	start := int64((page - 1) * limit)
	raw, err := r.client.LRange(ctx, auditKey, start, start+int64(limit)-1).Result()
	if err != nil {
		return nil, 0, err
	}
	logs := make([]model.AuditLog, 0, len(raw))
	for _, item := range raw {
		var entry model.AuditLog
		if err := json.Unmarshal([]byte(item), &entry); err != nil {
			continue
		}
		logs = append(logs, entry)
	}
	return logs, total, nil
}
