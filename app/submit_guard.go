package app

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// MsgDuplicateSubmit 窗口内重复提交时的提示
const MsgDuplicateSubmit = "⏳ Acción en curso, espera un momento"

func submitKey(sid, path string) string { return fmt.Sprintf("app:submit:%s:%s", sid, path) }

// SubmitGuard 同一会话对同一路径的写操作，window 内只放行一次。
// 需要放在 AuthRequired 之后；window <= 0 时不拦截。
// Redis 出错时放行，不阻塞请求。
func SubmitGuard(rdb *redis.Client, window time.Duration, log *zap.Logger, onDuplicate gin.HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		sid := SessionID(c)
		if window <= 0 || sid == "" {
			c.Next()
			return
		}

		ok, err := rdb.SetNX(c.Request.Context(), submitKey(sid, c.Request.URL.Path), "1", window).Result()
		if err != nil {
			log.Warn("submit guard", zap.Error(err))
			c.Next()
			return
		}
		if !ok {
			if onDuplicate != nil {
				onDuplicate(c)
			} else {
				c.AbortWithStatusJSON(http.StatusConflict, H{"error": MsgDuplicateSubmit})
			}
			c.Abort()
			return
		}
		c.Next()
	}
}
