package middleware

import (
	"adaptive_quiz_backend/internal/util"
	"adaptive_quiz_backend/pkg/logger"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// cachedResponse 幂等缓存中存放的完整响应
type cachedResponse struct {
	Status int             `json:"status"`
	Body   json.RawMessage `json:"body"`
}

type bodyRecorder struct {
	gin.ResponseWriter
	body *bytes.Buffer
}

func (w *bodyRecorder) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

// replayable 只有成功响应才值得回放。失败是瞬时状态：404 的题目
// 可能稍后创建、401 的令牌可能刷新，缓存住会把失败钉死整个 TTL。
func replayable(status, bodyLen int) bool {
	return status >= 200 && status < 300 && bodyLen > 0
}

// Idempotency 基于 Redis 的重试去重。客户端为每次独立提交携带
// Idempotency-Key 请求头；命中缓存时直接重放首次响应，流水线
// 不会被再次执行。缓存键按用户隔离。Redis 故障时退化为放行，
// 不阻塞提交链路。
func Idempotency(rdb *redis.Client, ttl time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.GetHeader("Idempotency-Key")
		if key == "" || rdb == nil {
			c.Next()
			return
		}

		userID := uint(0)
		if claims := util.GetUserFromContext(c); claims != nil {
			userID = claims.UserID
		}
		cacheKey := fmt.Sprintf("idem:%d:%s", userID, key)

		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		if raw, err := rdb.Get(ctx, cacheKey).Bytes(); err == nil {
			var cached cachedResponse
			if json.Unmarshal(raw, &cached) == nil {
				c.Data(cached.Status, "application/json; charset=utf-8", cached.Body)
				c.Abort()
				return
			}
		}

		recorder := &bodyRecorder{ResponseWriter: c.Writer, body: &bytes.Buffer{}}
		c.Writer = recorder

		c.Next()

		status := c.Writer.Status()
		if !replayable(status, recorder.body.Len()) {
			return
		}

		payload, err := json.Marshal(cachedResponse{
			Status: status,
			Body:   json.RawMessage(recorder.body.Bytes()),
		})
		if err != nil {
			return
		}

		setCtx, setCancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer setCancel()
		if err := rdb.Set(setCtx, cacheKey, payload, ttl).Err(); err != nil {
			logger.Log.Warn("idempotency cache write failed", zap.Error(err))
		}
	}
}
