package app

import (
	"context"
	"fmt"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// setupRedis starts a throwaway redis and returns its URL
func setupRedis(t *testing.T) string {
	if os.Getenv("TIMETABLE_INTEGRATION") == "" {
		t.Skip("Set TIMETABLE_INTEGRATION=1 to run redis tests")
	}
	ctx := context.Background()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForLog("Ready to accept connections").WithStartupTimeout(30 * time.Second),
		},
		Started: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { container.Terminate(ctx) })

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "6379")
	require.NoError(t, err)

	return fmt.Sprintf("redis://%s:%s/0", host, port.Port())
}

func TestTokenLifecycle(t *testing.T) {
	url := setupRedis(t)
	ctx := context.Background()

	client, err := NewRedisClient(ctx, url)
	require.NoError(t, err)

	tm := NewTokenManager(client, "")
	defer tm.Close()

	info, created, err := tm.FetchOrCreateTeacherToken(ctx, "t1")
	require.NoError(t, err)
	assert.True(t, created)
	assert.True(t, strings.HasPrefix(info.Token, tokenPrefix))
	assert.Equal(t, 1, info.RequestCount)

	again, created, err := tm.FetchOrCreateTeacherToken(ctx, "t1")
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, info.Token, again.Token)
	assert.Equal(t, 2, again.RequestCount)

	config, err := ParseConfig("config.toml", []byte(fmt.Sprintf(
		"[server]\nport = \":9999\"\nenable_auth = true\n[auth]\nredis_url = %q\n[database]\ndsn = \":memory:\"", url)))
	require.NoError(t, err)

	auth, err := NewAuth(config)
	require.NoError(t, err)
	defer auth.Close()

	assert.NoError(t, auth.ValidateToken(ctx, "t1", info.Token))
	assert.Error(t, auth.ValidateToken(ctx, "t1", "sk-ttbl-wrong"))
	assert.Error(t, auth.ValidateToken(ctx, "t2", info.Token))

	require.NoError(t, tm.RevokeTeacherToken(ctx, "t1"))
	assert.Error(t, auth.ValidateToken(ctx, "t1", info.Token))
}
