//go:build integration
// +build integration

package cache

/*
	Para rodar: go test -tags=integration -v ./internal/cache -count=1
*/

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/Werneck0live/alca-hub/internal/models"
)

func TestStatsCache_SetGetInvalidate(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	req := tc.ContainerRequest{
		Image:        "redis:7-alpine",
		ExposedPorts: []string{"6379/tcp"},
		WaitingFor:   wait.ForListeningPort("6379/tcp").WithStartupTimeout(60 * time.Second),
	}
	c, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{ContainerRequest: req, Started: true})
	if err != nil {
		t.Fatalf("start redis: %v", err)
	}
	t.Cleanup(func() { _ = c.Terminate(ctx) })

	host, err := c.Host(ctx)
	if err != nil {
		t.Fatalf("host: %v", err)
	}
	port, err := c.MappedPort(ctx, "6379/tcp")
	if err != nil {
		t.Fatalf("port: %v", err)
	}

	sc, err := NewStatsCache(Config{Addr: fmt.Sprintf("%s:%s", host, port.Port()), TTL: time.Minute})
	if err != nil {
		t.Fatalf("new cache: %v", err)
	}
	t.Cleanup(func() { _ = sc.Close() })

	if _, err := sc.Get(ctx); !errors.Is(err, ErrMiss) {
		t.Fatalf("want miss, got %v", err)
	}

	in := &models.ProviderStats{Total: 3, Verified: 2, Unverified: 1,
		ByCategory: []models.NamedCount{{ID: "Elétrica", Count: 2}},
		ByCity:     []models.NamedCount{{ID: "Santos", Count: 3}},
	}
	if err := sc.Set(ctx, in); err != nil {
		t.Fatalf("set: %v", err)
	}
	got, err := sc.Get(ctx)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Total != 3 || got.ByCategory[0].ID != "Elétrica" || got.ByCity[0].Count != 3 {
		t.Fatalf("mismatch: %+v", got)
	}

	if err := sc.Invalidate(ctx); err != nil {
		t.Fatalf("invalidate: %v", err)
	}
	if _, err := sc.Get(ctx); !errors.Is(err, ErrMiss) {
		t.Fatalf("want miss after invalidate, got %v", err)
	}
}
