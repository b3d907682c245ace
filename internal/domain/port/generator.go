package port

import "context"

// InstructionGenerator интерфейс сервиса, выдающего инструкции по приготовлению
type InstructionGenerator interface {
	// Generate возвращает свободный текст с температурой и временем для продукта
	Generate(ctx context.Context, label string) (string, error)
}
