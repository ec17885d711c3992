package session

import (
	"context"
	"encoding/json"
	"fmt"
)

// 页面提示级别
const (
	FlashSuccess = "success"
	FlashError   = "error"
	FlashInfo    = "info"
)

// Flash 一次性提示，下一次渲染页面时取出
type Flash struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

func flashKey(sid string) string { return fmt.Sprintf("app:flash:%s", sid) }

func (s *AppSessionStore) PushFlash(ctx context.Context, sid string, f Flash) error {
	b, err := json.Marshal(f)
	if err != nil {
		return err
	}
	pipe := s.rdb.TxPipeline()
	pipe.RPush(ctx, flashKey(sid), b)
	pipe.Expire(ctx, flashKey(sid), s.ttl)
	_, err = pipe.Exec(ctx)
	return err
}

// PopFlashes 读出并删除
func (s *AppSessionStore) PopFlashes(ctx context.Context, sid string) ([]Flash, error) {
	pipe := s.rdb.TxPipeline()
	lr := pipe.LRange(ctx, flashKey(sid), 0, -1)
	pipe.Del(ctx, flashKey(sid))
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, err
	}
	var out []Flash
	for _, raw := range lr.Val() {
		var f Flash
		if err := json.Unmarshal([]byte(raw), &f); err != nil {
			continue
		}
		out = append(out, f)
	}
	return out, nil
}
