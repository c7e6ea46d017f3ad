//go:build integration

package redis

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"go.uber.org/zap"

	"shift-guard/config"
)

// 运行方式：SHIFT_REDIS_ADDR=localhost:6379 go test -tags integration ./pkg/redis/
func newTestClient(t *testing.T) *Client {
	t.Helper()
	addr := os.Getenv("SHIFT_REDIS_ADDR")
	if addr == "" {
		t.Skip("未设置 SHIFT_REDIS_ADDR，跳过 Redis 集成测试")
	}
	c, err := NewClient(&config.RedisConfig{Addr: addr, DB: 15}, zap.NewNop())
	if err != nil {
		t.Fatalf("连接 Redis 失败: %v", err)
	}
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func TestCheckRateLimit(t *testing.T) {
	c := newTestClient(t)
	ctx := context.Background()
	key := "rate_limit:test:" + time.Now().Format(time.RFC3339Nano)

	for i := 0; i < 3; i++ {
		ok, err := c.CheckRateLimit(ctx, key, 3, time.Minute)
		if err != nil || !ok {
			t.Fatalf("第 %d 次请求应放行: ok=%v err=%v", i+1, ok, err)
		}
	}
	ok, err := c.CheckRateLimit(ctx, key, 3, time.Minute)
	if err != nil {
		t.Fatal(err)
	}
	if ok {
		t.Error("超过限额应被拒绝")
	}
}

func TestAcquireLock(t *testing.T) {
	c := newTestClient(t)
	ctx := context.Background()
	name := "test-" + time.Now().Format(time.RFC3339Nano)

	release, err := c.AcquireLock(ctx, name, 5*time.Second)
	if err != nil {
		t.Fatalf("首次加锁应成功: %v", err)
	}
	if _, err := c.AcquireLock(ctx, name, 5*time.Second); !errors.Is(err, ErrLockHeld) {
		t.Fatalf("期望 ErrLockHeld，实际 %v", err)
	}
	release()

	release, err = c.AcquireLock(ctx, name, 5*time.Second)
	if err != nil {
		t.Fatalf("释放后应可重新加锁: %v", err)
	}
	release()
}

func TestUndoLog(t *testing.T) {
	c := newTestClient(t)
	ctx := context.Background()
	date := "2099-01-01"

	if err := c.SaveUndoLog(ctx, date, []byte(`[{"id":"x"}]`), time.Minute); err != nil {
		t.Fatal(err)
	}
	b, err := c.LoadUndoLog(ctx, date)
	if err != nil || string(b) != `[{"id":"x"}]` {
		t.Fatalf("读取撤销栈不符: %s %v", b, err)
	}

	if err := c.SaveUndoLog(ctx, date, nil, time.Minute); err != nil {
		t.Fatal(err)
	}
	b, err = c.LoadUndoLog(ctx, date)
	if err != nil || b != nil {
		t.Fatalf("清空后应为 nil: %s %v", b, err)
	}
}
