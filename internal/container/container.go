package container

import (
	"time"

	"go.uber.org/zap"

	app "cook-bot/internal/application"
	"cook-bot/internal/domain/port"
)

type Container struct {
	Link     *app.LinkManager
	Pipeline *app.CookingPipeline
	History  port.OutcomeRepository
}

// Hardware доступ к последовательному порту контроллера.
type Hardware struct {
	Link       app.LinkConfig
	AckTimeout time.Duration
	Enumerator port.PortEnumerator
	Opener     port.PortOpener
	Options    []app.LinkOption
}

func New(hw Hardware, detector port.FoodDetector, generator port.InstructionGenerator, history port.OutcomeRepository, publisher port.OutcomePublisher, logger *zap.Logger) *Container {
	link := app.NewLinkManager(hw.Link, hw.Enumerator, hw.Opener, logger, hw.Options...)
	protocol := app.NewCommandProtocol(link, hw.AckTimeout, logger)
	pipeline := app.NewCookingPipeline(detector, generator, link, protocol, history, publisher, logger)

	return &Container{
		Link:     link,
		Pipeline: pipeline,
		History:  history,
	}
}
