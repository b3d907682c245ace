package entity

import (
	"time"

	"github.com/google/uuid"
)

// FrameStatus итог обработки одного кадра.
type FrameStatus string

const (
	FrameNoFood           FrameStatus = "no_food"
	FrameGenerationFailed FrameStatus = "generation_failed"
	FrameDispatched       FrameStatus = "dispatched"
)

// DispatchResult результат отправки одной команды.
type DispatchResult struct {
	Command      string `json:"command"`
	Acknowledged bool   `json:"acknowledged"`
	Error        string `json:"error,omitempty"`
}

// FrameResult всё, что пайплайн вернул по одному кадру.
type FrameResult struct {
	ID           uuid.UUID         `json:"id"`
	ProcessedAt  time.Time         `json:"processed_at"`
	Status       FrameStatus       `json:"status"`
	Label        string            `json:"label,omitempty"`
	Regions      []DetectedRegion  `json:"regions,omitempty"`
	Instructions string            `json:"instructions"`
	Parameters   CookingParameters `json:"parameters"`
	Dispatches   []DispatchResult  `json:"dispatches,omitempty"`
	Annotated    []byte            `json:"-"`
}

// NewFrameResult создаёт результат с новым идентификатором.
func NewFrameResult(now time.Time) *FrameResult {
	return &FrameResult{
		ID:          uuid.New(),
		ProcessedAt: now,
	}
}

// AllAcknowledged сообщает, что все отправленные команды подтверждены.
func (r *FrameResult) AllAcknowledged() bool {
	for _, d := range r.Dispatches {
		if !d.Acknowledged {
			return false
		}
	}
	return len(r.Dispatches) > 0
}
