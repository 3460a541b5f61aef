package main

import (
	"context"
	"flag"
	"fmt"

	"github.com/shrimpsizemoose/trekker/logger"

	"github.com/shrimpsizemoose/timetable/internal/app"
)

func main() {
	var (
		configPath = flag.String("config", "config.toml", "Path to config file")
		teacher    = flag.String("teacher", "", "Teacher id to issue a token for")
		revoke     = flag.Bool("revoke", false, "Drop the teacher's token instead of issuing one")
	)
	flag.Parse()

	if *teacher == "" {
		logger.Error.Fatalf("-teacher is required")
	}

	config, err := app.LoadConfig(*configPath)
	if err != nil {
		logger.Error.Fatalf("Failed to load config: %v", err)
	}

	ctx := context.Background()
	client, err := app.NewRedisClient(ctx, config.Auth.RedisURL)
	if err != nil {
		logger.Error.Fatalf("Failed to connect to redis: %v", err)
	}

	tm := app.NewTokenManager(client, config.Auth.TokenKeyTemplate)
	defer tm.Close()

	if *revoke {
		if err := tm.RevokeTeacherToken(ctx, *teacher); err != nil {
			logger.Error.Fatalf("Failed to revoke token: %v", err)
		}
		logger.Info.Printf("Token for %s revoked", *teacher)
		return
	}

	info, created, err := tm.FetchOrCreateTeacherToken(ctx, *teacher)
	if err != nil {
		logger.Error.Fatalf("Failed to fetch token: %v", err)
	}

	if created {
		logger.Info.Printf("Issued new token for %s", *teacher)
	} else {
		logger.Debug.Printf("Token for %s requested %d times, last at %s",
			*teacher, info.RequestCount, info.LastRequestTime.Format(app.TimeFormat))
	}
	fmt.Println(info.Token)
}
