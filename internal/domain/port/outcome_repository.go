package port

import (
	"context"

	"cook-bot/internal/domain/entity"
)

// OutcomeRepository интерфейс хранилища результатов обработки кадров
type OutcomeRepository interface {
	// Save сохраняет результат кадра
	Save(ctx context.Context, result *entity.FrameResult) error

	// Latest возвращает последний результат или nil, если истории нет
	Latest(ctx context.Context) (*entity.FrameResult, error)

	// List возвращает до limit последних результатов, новые первыми
	List(ctx context.Context, limit int) ([]*entity.FrameResult, error)
}

// OutcomePublisher отправляет результат кадра во внешнюю систему
type OutcomePublisher interface {
	Publish(ctx context.Context, result *entity.FrameResult) error
}
