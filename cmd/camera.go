package main

import (
	"context"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"cook-bot/config"
	app "cook-bot/internal/application"
	"cook-bot/internal/infrastructure/vision"
)

// runCamera читает кадры с веб-камеры и прогоняет их через пайплайн не чаще MaxFPS.
func runCamera(ctx context.Context, cfg config.CameraConfig, pipeline *app.CookingPipeline, logger *zap.Logger) error {
	camera, err := vision.OpenCamera(cfg.DeviceID)
	if err != nil {
		return err
	}
	defer camera.Close()

	limit := rate.Inf
	if cfg.MaxFPS > 0 {
		limit = rate.Limit(cfg.MaxFPS)
	}
	limiter := rate.NewLimiter(limit, 1)

	logger.Info("Camera loop started", zap.Int("device", cfg.DeviceID), zap.Float64("max_fps", cfg.MaxFPS))
	var lastLabel string
	for {
		if err := limiter.Wait(ctx); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return err
		}

		frame, err := camera.Read()
		if err != nil {
			return err
		}

		result, err := pipeline.Process(ctx, frame)
		if err != nil {
			logger.Warn("Frame skipped", zap.Error(err))
			continue
		}

		if result.Label != lastLabel {
			logger.Info("Frame processed",
				zap.String("status", string(result.Status)),
				zap.String("label", result.Label),
				zap.Bool("acknowledged", result.AllAcknowledged()),
			)
			lastLabel = result.Label
		}
	}
}
