package app

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"cook-bot/internal/domain/entity"
	"cook-bot/internal/domain/port"
)

const (
	MsgNoFood          = "No food detected."
	MsgGenerationError = "AI error."
)

// CookingPipeline проводит один кадр через все шаги:
// детекция -> метка -> инструкции -> параметры -> команды контроллеру.
type CookingPipeline struct {
	detector  port.FoodDetector
	generator port.InstructionGenerator
	link      *LinkManager
	protocol  *CommandProtocol
	history   port.OutcomeRepository
	publisher port.OutcomePublisher
	logger    *zap.Logger
	now       func() time.Time

	// один кадр за раз: в канале не больше одного обмена команда/ACK
	mu sync.Mutex
}

// NewCookingPipeline создаёт пайплайн. history и publisher могут быть nil.
func NewCookingPipeline(
	detector port.FoodDetector,
	generator port.InstructionGenerator,
	link *LinkManager,
	protocol *CommandProtocol,
	history port.OutcomeRepository,
	publisher port.OutcomePublisher,
	logger *zap.Logger,
) *CookingPipeline {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CookingPipeline{
		detector:  detector,
		generator: generator,
		link:      link,
		protocol:  protocol,
		history:   history,
		publisher: publisher,
		logger:    logger.Named("pipeline"),
		now:       time.Now,
	}
}

// Link возвращает менеджер канала (для статуса).
func (p *CookingPipeline) Link() *LinkManager {
	return p.link
}

// Process обрабатывает кадр. Ошибка возвращается только если детектор не смог прочитать кадр;
// сбои генерации и отправки команд отражены в результате.
func (p *CookingPipeline) Process(ctx context.Context, frame []byte) (*entity.FrameResult, error) {
	if p.detector == nil {
		return nil, errors.New("detector is not configured")
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	regions, err := p.detector.Detect(ctx, frame)
	if err != nil {
		return nil, fmt.Errorf("detect: %w", err)
	}

	result := entity.NewFrameResult(p.now())
	result.Regions = regions
	result.Annotated = p.annotate(frame, regions)

	p.run(ctx, result)
	p.record(ctx, result)
	return result, nil
}

func (p *CookingPipeline) run(ctx context.Context, result *entity.FrameResult) {
	label, ok := SelectLabel(result.Regions)
	if !ok {
		result.Status = entity.FrameNoFood
		result.Instructions = MsgNoFood
		return
	}
	result.Label = label

	instructions, err := p.generate(ctx, label)
	if err != nil {
		p.logger.Error("Instruction generation failed", zap.String("label", label), zap.Error(err))
		result.Status = entity.FrameGenerationFailed
		result.Instructions = MsgGenerationError
		return
	}
	result.Instructions = instructions
	p.logger.Info("Instructions received", zap.String("label", label), zap.String("text", instructions))

	result.Parameters = ParseInstructions(instructions)
	result.Status = entity.FrameDispatched
	if result.Parameters.Empty() {
		p.logger.Warn("No temperature or time in instructions", zap.String("label", label))
		return
	}
	result.Dispatches = p.dispatch(ctx, result.Parameters)
}

func (p *CookingPipeline) generate(ctx context.Context, label string) (string, error) {
	if p.generator == nil {
		return "", fmt.Errorf("%w: generator is not configured", entity.ErrGenerationFailed)
	}
	text, err := p.generator.Generate(ctx, label)
	if err != nil {
		return "", fmt.Errorf("%w: %v", entity.ErrGenerationFailed, err)
	}
	return text, nil
}

// dispatch отправляет по одной команде на каждое найденное поле.
// Неудача с температурой не мешает отправить время.
func (p *CookingPipeline) dispatch(ctx context.Context, params entity.CookingParameters) []entity.DispatchResult {
	var commands []entity.CommandRequest
	if params.TemperatureCelsius != nil {
		commands = append(commands, entity.TemperatureCommand(*params.TemperatureCelsius))
	}
	if params.TimeMinutes != nil {
		commands = append(commands, entity.TimeCommand(*params.TimeMinutes))
	}

	results := make([]entity.DispatchResult, 0, len(commands))
	for _, cmd := range commands {
		res := entity.DispatchResult{Command: cmd.Payload}

		var handle *LinkHandle
		if p.link != nil {
			handle = p.link.EnsureOpen(ctx)
		}

		var acked bool
		var err error
		if p.protocol == nil {
			err = entity.ErrLinkUnavailable
		} else {
			acked, err = p.protocol.Send(handle, cmd)
		}

		res.Acknowledged = acked
		if err != nil {
			res.Error = err.Error()
			p.logger.Warn("Command not delivered", zap.String("command", cmd.Payload), zap.Error(err))
		}
		results = append(results, res)
	}
	return results
}

func (p *CookingPipeline) annotate(frame []byte, regions []entity.DetectedRegion) []byte {
	if len(regions) == 0 {
		return frame
	}
	annotated, err := p.detector.Annotate(frame, regions)
	if err != nil {
		p.logger.Warn("Failed to annotate frame", zap.Error(err))
		return frame
	}
	return annotated
}

func (p *CookingPipeline) record(ctx context.Context, result *entity.FrameResult) {
	if p.history != nil {
		if err := p.history.Save(ctx, result); err != nil {
			p.logger.Warn("Failed to save frame result", zap.Error(err))
		}
	}
	if p.publisher != nil {
		if err := p.publisher.Publish(ctx, result); err != nil {
			p.logger.Warn("Failed to publish frame result", zap.Error(err))
		}
	}
}
