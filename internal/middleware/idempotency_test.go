package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReplayable_OnlySuccessfulResponses(t *testing.T) {
	cases := []struct {
		status  int
		bodyLen int
		want    bool
	}{
		{http.StatusOK, 42, true},
		{http.StatusCreated, 42, true},
		{http.StatusOK, 0, false}, // 空响应没有可回放内容
		{http.StatusBadRequest, 42, false},
		{http.StatusUnauthorized, 42, false},
		{http.StatusForbidden, 42, false},
		{http.StatusNotFound, 42, false}, // 题目可能稍后创建
		{http.StatusConflict, 42, false}, // 事务冲突重试应重新执行
		{http.StatusInternalServerError, 42, false},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, replayable(tc.status, tc.bodyLen), "status=%d bodyLen=%d", tc.status, tc.bodyLen)
	}
}

func TestIdempotency_NoKeyOrNoRedisPassesThrough(t *testing.T) {
	gin.SetMode(gin.TestMode)

	calls := 0
	router := gin.New()
	router.POST("/attempts", Idempotency(nil, time.Hour), func(c *gin.Context) {
		calls++
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	for i := 0; i < 2; i++ {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/attempts", nil)
		req.Header.Set("Idempotency-Key", "key-1")
		router.ServeHTTP(w, req)
		require.Equal(t, http.StatusOK, w.Code)
	}
	// Redis 不可用时退化为直通，每次请求都执行流水线
	assert.Equal(t, 2, calls)
}
