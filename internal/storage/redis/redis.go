// redis — альтернативный журнал сессий поверх Redis.
//
// Сессия хранится как Hash <prefix>session:<id> с полями
// sub, iat, exp (unix ms), rev (0/1), ip, ua. Идентификаторы сессий
// субъекта собраны в Set <prefix>subject:<sub>, через него работают
// RevokeAllForSubject и уборка просроченных.
//
// Проверка-и-изменение (отзыв, ротация) выполняется Lua-скриптами,
// поэтому параллельные ротации одной сессии сериализуются самим Redis.
package redis

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/pribylovaa/go-identity-service/internal/models"
	"github.com/pribylovaa/go-identity-service/internal/storage"
)

// retention — сколько ключ сессии живёт в Redis после exp.
// Пока он есть, ротация отвечает ErrExpired, а не ErrNotFound.
const retention = 24 * time.Hour

type Storage struct {
	rdb    *redis.Client
	prefix string
}

// New подключается к Redis по URL (redis://:pass@host:6379/0) и проверяет
// соединение. Пустой prefix заменяется на "identity:".
func New(ctx context.Context, redisURL, prefix string) (*Storage, error) {
	const op = "storage.redis.New"

	if prefix == "" {
		prefix = "identity:"
	}

	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	rdb := redis.NewClient(opt)

	// Fail-fast на старте.
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("%s: %w", op, wrapErr(err))
	}

	return &Storage{rdb: rdb, prefix: prefix}, nil
}

// Close закрывает клиент Redis.
func (s *Storage) Close() error { return s.rdb.Close() }

func (s *Storage) sessionKey(id string) string { return s.prefix + "session:" + id }

func (s *Storage) subjectKey(sub uuid.UUID) string { return s.prefix + "subject:" + sub.String() }

// CreateSession сохраняет новую сессию. Существование ключа проверяется
// под WATCH, запись идёт одной MULTI/EXEC-транзакцией.
func (s *Storage) CreateSession(ctx context.Context, sess *models.Session) error {
	const op = "storage.redis.CreateSession"

	key := s.sessionKey(sess.ID)

	err := s.rdb.Watch(ctx, func(tx *redis.Tx) error {
		n, err := tx.Exists(ctx, key).Result()
		if err != nil {
			return err
		}

		if n > 0 {
			return storage.ErrAlreadyExists
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.HSet(ctx, key, sessionFields(sess))
			pipe.PExpireAt(ctx, key, sess.ExpiresAt.Add(retention))
			pipe.SAdd(ctx, s.subjectKey(sess.Subject), sess.ID)
			return nil
		})

		return err
	}, key)

	switch {
	case err == nil:
		return nil
	case errors.Is(err, storage.ErrAlreadyExists), errors.Is(err, redis.TxFailedErr):
		return fmt.Errorf("%s: %w", op, storage.ErrAlreadyExists)
	default:
		return fmt.Errorf("%s: %w", op, wrapErr(err))
	}
}

// SessionByID читает сессию по идентификатору.
func (s *Storage) SessionByID(ctx context.Context, id string) (*models.Session, error) {
	const op = "storage.redis.SessionByID"

	m, err := s.rdb.HGetAll(ctx, s.sessionKey(id)).Result()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, wrapErr(err))
	}

	if len(m) == 0 {
		return nil, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}

	sess, err := parseSession(id, m)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return sess, nil
}

var revokeScript = redis.NewScript(`
if redis.call('EXISTS', KEYS[1]) == 0 then
	return 0
end
redis.call('HSET', KEYS[1], 'rev', '1')
return 1
`)

// RevokeSession помечает сессию отозванной. Повторный вызов не ошибка.
func (s *Storage) RevokeSession(ctx context.Context, id string) error {
	const op = "storage.redis.RevokeSession"

	n, err := revokeScript.Run(ctx, s.rdb, []string{s.sessionKey(id)}).Int()
	if err != nil {
		return fmt.Errorf("%s: %w", op, wrapErr(err))
	}

	if n == 0 {
		return fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}

	return nil
}

// ARGV[1] — префикс ключа сессии. Исчезнувшие сессии вычищаются из множества.
var revokeAllScript = redis.NewScript(`
local n = 0
for _, id in ipairs(redis.call('SMEMBERS', KEYS[1])) do
	local key = ARGV[1] .. id
	local rev = redis.call('HGET', key, 'rev')
	if rev == '0' then
		redis.call('HSET', key, 'rev', '1')
		n = n + 1
	elseif not rev then
		redis.call('SREM', KEYS[1], id)
	end
end
return n
`)

// RevokeAllForSubject отзывает все активные сессии субъекта.
func (s *Storage) RevokeAllForSubject(ctx context.Context, subject uuid.UUID) (int64, error) {
	const op = "storage.redis.RevokeAllForSubject"

	n, err := revokeAllScript.Run(ctx, s.rdb,
		[]string{s.subjectKey(subject)},
		s.prefix+"session:",
	).Int64()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, wrapErr(err))
	}

	return n, nil
}

// Коды результата rotateScript.
const (
	rotateOK = iota
	rotateNotFound
	rotateRevoked
	rotateExpired
	rotateDuplicate
)

// Условие годности старой сессии то же, что в models.Session.Valid:
// не отозвана и exp > now.
// KEYS: старая сессия, новая сессия, множество субъекта новой сессии.
// ARGV: now(ms), sub, iat(ms), exp(ms), ip, ua, pexpireat(ms), new id.
var rotateScript = redis.NewScript(`
local v = redis.call('HMGET', KEYS[1], 'rev', 'exp')
if not v[1] then
	return 1
end
if v[1] == '1' then
	return 2
end
if tonumber(v[2]) <= tonumber(ARGV[1]) then
	return 3
end
if redis.call('EXISTS', KEYS[2]) == 1 then
	return 4
end
redis.call('HSET', KEYS[1], 'rev', '1')
redis.call('HSET', KEYS[2], 'sub', ARGV[2], 'iat', ARGV[3], 'exp', ARGV[4], 'rev', '0', 'ip', ARGV[5], 'ua', ARGV[6])
redis.call('PEXPIREAT', KEYS[2], ARGV[7])
redis.call('SADD', KEYS[3], ARGV[8])
return 0
`)

// RotateSession атомарно отзывает oldID и создаёт next.
func (s *Storage) RotateSession(ctx context.Context, oldID string, next *models.Session, now time.Time) error {
	const op = "storage.redis.RotateSession"

	code, err := rotateScript.Run(ctx, s.rdb,
		[]string{s.sessionKey(oldID), s.sessionKey(next.ID), s.subjectKey(next.Subject)},
		now.UnixMilli(),
		next.Subject.String(),
		next.IssuedAt.UnixMilli(),
		next.ExpiresAt.UnixMilli(),
		next.CreatedByIP,
		next.UserAgent,
		next.ExpiresAt.Add(retention).UnixMilli(),
		next.ID,
	).Int()
	if err != nil {
		return fmt.Errorf("%s: %w", op, wrapErr(err))
	}

	switch code {
	case rotateOK:
		return nil
	case rotateNotFound:
		return fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	case rotateRevoked:
		return fmt.Errorf("%s: %w", op, storage.ErrRevoked)
	case rotateExpired:
		return fmt.Errorf("%s: %w", op, storage.ErrExpired)
	case rotateDuplicate:
		return fmt.Errorf("%s: %w", op, storage.ErrAlreadyExists)
	default:
		return fmt.Errorf("%s: unexpected script result %d", op, code)
	}
}

// DeleteExpiredSessions обходит множества субъектов и удаляет сессии,
// истёкшие к now. Операция не атомарна целиком: её задача уборка,
// корректность ротации от неё не зависит.
func (s *Storage) DeleteExpiredSessions(ctx context.Context, now time.Time) (int64, error) {
	const op = "storage.redis.DeleteExpiredSessions"

	var (
		deleted int64
		cursor  uint64
	)

	for {
		keys, next, err := s.rdb.Scan(ctx, cursor, s.prefix+"subject:*", 100).Result()
		if err != nil {
			return deleted, fmt.Errorf("%s: %w", op, wrapErr(err))
		}

		for _, setKey := range keys {
			n, err := s.sweepSubject(ctx, setKey, now)
			deleted += n
			if err != nil {
				return deleted, fmt.Errorf("%s: %w", op, wrapErr(err))
			}
		}

		cursor = next
		if cursor == 0 {
			return deleted, nil
		}
	}
}

func (s *Storage) sweepSubject(ctx context.Context, setKey string, now time.Time) (int64, error) {
	ids, err := s.rdb.SMembers(ctx, setKey).Result()
	if err != nil {
		return 0, err
	}

	var deleted int64
	for _, id := range ids {
		key := s.sessionKey(id)

		raw, err := s.rdb.HGet(ctx, key, "exp").Result()
		if err != nil && !errors.Is(err, redis.Nil) {
			return deleted, err
		}

		if err == nil {
			exp, perr := strconv.ParseInt(raw, 10, 64)
			if perr == nil && now.Before(time.UnixMilli(exp)) {
				continue
			}
		}

		pipe := s.rdb.TxPipeline()
		del := pipe.Del(ctx, key)
		pipe.SRem(ctx, setKey, id)
		if _, err := pipe.Exec(ctx); err != nil {
			return deleted, err
		}

		deleted += del.Val()
	}

	return deleted, nil
}

func sessionFields(sess *models.Session) map[string]any {
	return map[string]any{
		"sub": sess.Subject.String(),
		"iat": sess.IssuedAt.UnixMilli(),
		"exp": sess.ExpiresAt.UnixMilli(),
		"rev": "0",
		"ip":  sess.CreatedByIP,
		"ua":  sess.UserAgent,
	}
}

func parseSession(id string, m map[string]string) (*models.Session, error) {
	sub, err := uuid.Parse(m["sub"])
	if err != nil {
		return nil, fmt.Errorf("bad sub: %w", err)
	}

	iat, err := strconv.ParseInt(m["iat"], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("bad iat: %w", err)
	}

	exp, err := strconv.ParseInt(m["exp"], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("bad exp: %w", err)
	}

	return &models.Session{
		ID:          id,
		Subject:     sub,
		IssuedAt:    time.UnixMilli(iat).UTC(),
		ExpiresAt:   time.UnixMilli(exp).UTC(),
		Revoked:     m["rev"] == "1",
		CreatedByIP: m["ip"],
		UserAgent:   m["ua"],
	}, nil
}

// wrapErr помечает сетевые ошибки как storage.ErrUnavailable.
// Ответы сервера (redis.Error) и отмена контекста пробрасываются как есть.
func wrapErr(err error) error {
	if err == nil {
		return nil
	}

	var rerr redis.Error
	if errors.As(err, &rerr) ||
		errors.Is(err, context.Canceled) ||
		errors.Is(err, context.DeadlineExceeded) {
		return err
	}

	return fmt.Errorf("%w: %w", storage.ErrUnavailable, err)
}

// Проверка на соответствие интерфейсу.
var _ storage.SessionStorage = (*Storage)(nil)
