package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"biblioteca_portal/models"
)

// ErrNoSession 会话不存在或已过期
var ErrNoSession = errors.New("session: not found")

// AppSessionStore 浏览器会话存 Redis，cookie 里只放随机 id
type AppSessionStore struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewAppSessionStore(rdb *redis.Client, ttl time.Duration) *AppSessionStore {
	return &AppSessionStore{rdb: rdb, ttl: ttl}
}

func (s *AppSessionStore) TTL() time.Duration { return s.ttl }

type AppSession struct {
	Token     string      `json:"token"`
	User      models.User `json:"user"`
	IssuedAt  int64       `json:"iat"`
	ExpiresAt int64       `json:"exp"`
}

func (a *AppSession) Session() models.Session {
	return models.Session{Token: a.Token, User: a.User}
}

func key(id string) string      { return fmt.Sprintf("app:sess:%s", id) }
func userSetKey(uid int) string { return fmt.Sprintf("app:user_sessions:%d", uid) }

// Save 写入会话，并登记到用户的会话集合
func (s *AppSessionStore) Save(ctx context.Context, id string, sess models.Session) error {
	now := time.Now()
	b, err := json.Marshal(AppSession{
		Token:     sess.Token,
		User:      sess.User,
		IssuedAt:  now.Unix(),
		ExpiresAt: now.Add(s.ttl).Unix(),
	})
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	pipe := s.rdb.TxPipeline()
	pipe.Set(ctx, key(id), b, s.ttl)
	pipe.SAdd(ctx, userSetKey(sess.User.ID), id)
	pipe.Expire(ctx, userSetKey(sess.User.ID), s.ttl)
	_, err = pipe.Exec(ctx)
	return err
}

// Load 不存在时返回 ErrNoSession；不校验 token 是否仍有效
func (s *AppSessionStore) Load(ctx context.Context, id string) (*AppSession, error) {
	if id == "" {
		return nil, ErrNoSession
	}
	b, err := s.rdb.Get(ctx, key(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNoSession
	}
	if err != nil {
		return nil, err
	}
	var as AppSession
	if err := json.Unmarshal(b, &as); err != nil {
		// 损坏的记录按未登录处理
		return nil, ErrNoSession
	}
	if as.Token == "" || as.User.ID == 0 {
		return nil, ErrNoSession
	}
	return &as, nil
}

// Clear token 与用户资料一起删除，同时清掉 flash
func (s *AppSessionStore) Clear(ctx context.Context, id string) error {
	as, _ := s.Load(ctx, id) // 忽略失败
	pipe := s.rdb.TxPipeline()
	pipe.Del(ctx, key(id), flashKey(id))
	if as != nil {
		pipe.SRem(ctx, userSetKey(as.User.ID), id)
	}
	_, err := pipe.Exec(ctx)
	return err
}

// RevokeAllForUser 撤销该用户的所有会话
func (s *AppSessionStore) RevokeAllForUser(ctx context.Context, userID int) error {
	ids, err := s.rdb.SMembers(ctx, userSetKey(userID)).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return err
	}

	pipe := s.rdb.TxPipeline()
	for _, sid := range ids {
		pipe.Del(ctx, key(sid), flashKey(sid))
	}
	pipe.Del(ctx, userSetKey(userID))
	_, err = pipe.Exec(ctx)
	return err
}
