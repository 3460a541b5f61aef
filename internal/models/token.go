package models

import (
	"time"
)

// TokenInfo is the API token record kept per teacher in redis.
type TokenInfo struct {
	Teacher         string    `json:"teacher"`
	Token           string    `json:"token"`
	RequestCount    int       `json:"request_count"`
	LastRequestTime time.Time `json:"last_request_dttm_utc"`
	CreatedTime     time.Time `json:"created_dttm_utc"`
}
