package port

import (
	"context"

	"cook-bot/internal/domain/entity"
)

// FoodDetector интерфейс детектора объектов на кадре
type FoodDetector interface {
	// Detect находит объекты на изображении
	Detect(ctx context.Context, frame []byte) ([]entity.DetectedRegion, error)

	// Annotate рисует рамки и подписи найденных объектов и возвращает новую картинку
	Annotate(frame []byte, regions []entity.DetectedRegion) ([]byte, error)
}
