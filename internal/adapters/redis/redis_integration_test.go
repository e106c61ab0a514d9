//go:build integration

package redisad_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"

	redisad "flex_reviews/internal/adapters/redis"
)

// Spins a disposable redis and runs the adapter against the real server.
func TestCache_AgainstDockerRedis(t *testing.T) {
	pool, err := dockertest.NewPool("")
	if err != nil {
		t.Fatalf("dockertest: %v", err)
	}
	if err := pool.Client.Ping(); err != nil {
		t.Skipf("docker not available: %v", err)
	}

	res, err := pool.RunWithOptions(&dockertest.RunOptions{
		Repository: "redis",
		Tag:        "7-alpine",
	}, func(hc *docker.HostConfig) {
		hc.AutoRemove = true
		hc.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	if err != nil {
		t.Fatalf("run redis container: %v", err)
	}
	t.Cleanup(func() { _ = pool.Purge(res) })

	addr := fmt.Sprintf("localhost:%s", res.GetPort("6379/tcp"))
	var c *redisad.Cache
	if err := pool.Retry(func() error {
		c = redisad.New(addr, "", 0)
		var probe string
		_, err := c.Get(context.Background(), "probe", &probe)
		return err
	}); err != nil {
		t.Fatalf("redis never became ready: %v", err)
	}

	ctx := context.Background()
	if err := c.Set(ctx, "raw:hostaway", map[string]string{"hello": "world"}, time.Minute); err != nil {
		t.Fatalf("set: %v", err)
	}
	var out map[string]string
	ok, err := c.Get(ctx, "raw:hostaway", &out)
	if err != nil || !ok {
		t.Fatalf("get: ok=%v err=%v", ok, err)
	}
	if out["hello"] != "world" {
		t.Fatalf("unexpected payload: %+v", out)
	}
	if err := c.Del(ctx, "raw:hostaway"); err != nil {
		t.Fatalf("del: %v", err)
	}
	if ok, _ := c.Get(ctx, "raw:hostaway", &out); ok {
		t.Fatalf("expected miss after delete")
	}
}
