package app

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/shrimpsizemoose/timetable/internal/models"
)

const (
	TimeFormat  = "2006-01-02 15:04:05"
	tokenPrefix = "sk-ttbl-"
)

type TokenManager struct {
	redis       *redis.Client
	keyTemplate string
	now         func() time.Time
}

func NewTokenManager(redis *redis.Client, keyTemplate string) *TokenManager {
	if keyTemplate == "" {
		keyTemplate = defaultAuthKeyTemplate
	}
	return &TokenManager{redis: redis, keyTemplate: keyTemplate, now: time.Now}
}

func generateToken() (string, error) {
	randomBytes := make([]byte, 12)
	if _, err := rand.Read(randomBytes); err != nil {
		return "", fmt.Errorf("failed to generate random bytes: %w", err)
	}
	return tokenPrefix + hex.EncodeToString(randomBytes), nil
}

// FetchOrCreateTeacherToken returns the teacher's API token, issuing one on
// first request. The bool reports whether the token was just created.
func (tm *TokenManager) FetchOrCreateTeacherToken(ctx context.Context, teacher string) (*models.TokenInfo, bool, error) {
	key := authKey(tm.keyTemplate, teacher)

	token, err := tm.redis.HGet(ctx, key, "token").Result()
	if err != nil && err != redis.Nil {
		return nil, false, fmt.Errorf("failed to check token: %w", err)
	}

	now := tm.now().UTC()
	isNewToken := false

	if err == redis.Nil {
		token, err = generateToken()
		if err != nil {
			return nil, false, fmt.Errorf("failed to generate token: %w", err)
		}

		pipe := tm.redis.Pipeline()
		pipe.HSet(ctx, key, map[string]interface{}{
			"token":                 token,
			"request_count":         1,
			"last_request_dttm_utc": now.Format(TimeFormat),
			"created_dttm_utc":      now.Format(TimeFormat),
		})

		if _, err := pipe.Exec(ctx); err != nil {
			return nil, false, fmt.Errorf("failed to create token: %w", err)
		}

		isNewToken = true
	} else {
		pipe := tm.redis.Pipeline()
		pipe.HIncrBy(ctx, key, "request_count", 1)
		pipe.HSet(ctx, key, "last_request_dttm_utc", now.Format(TimeFormat))

		if _, err := pipe.Exec(ctx); err != nil {
			return nil, false, fmt.Errorf("failed to update token stats: %w", err)
		}
	}

	values, err := tm.redis.HGetAll(ctx, key).Result()
	if err != nil {
		return nil, false, fmt.Errorf("failed to get token info: %w", err)
	}

	lastReqTime, _ := time.Parse(TimeFormat, values["last_request_dttm_utc"])
	createdTime, _ := time.Parse(TimeFormat, values["created_dttm_utc"])
	reqCount, _ := strconv.Atoi(values["request_count"])

	return &models.TokenInfo{
		Teacher:         teacher,
		Token:           values["token"],
		RequestCount:    reqCount,
		LastRequestTime: lastReqTime,
		CreatedTime:     createdTime,
	}, isNewToken, nil
}

// RevokeTeacherToken drops the token; the next fetch issues a fresh one.
func (tm *TokenManager) RevokeTeacherToken(ctx context.Context, teacher string) error {
	return tm.redis.Del(ctx, authKey(tm.keyTemplate, teacher)).Err()
}

func (tm *TokenManager) Close() error {
	if tm.redis != nil {
		return tm.redis.Close()
	}
	return nil
}
