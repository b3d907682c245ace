package app

import (
	"testing"

	"github.com/stretchr/testify/require"

	"cook-bot/internal/domain/entity"
)

func region(label string, w, h int) entity.DetectedRegion {
	return entity.DetectedRegion{
		Label:      label,
		Confidence: 0.9,
		Box:        entity.BoundingBox{X1: 0, Y1: 0, X2: w, Y2: h},
	}
}

func TestSelectLabel_LargestArea(t *testing.T) {
	regions := []entity.DetectedRegion{
		region("banana", 10, 10),
		region("pizza", 30, 20),
		region("apple", 20, 20),
	}

	label, ok := SelectLabel(regions)
	require.True(t, ok)
	require.Equal(t, "pizza", label)
}

func TestSelectLabel_TieFirstWins(t *testing.T) {
	regions := []entity.DetectedRegion{
		region("A", 10, 10),
		region("B", 10, 10),
	}

	label, ok := SelectLabel(regions)
	require.True(t, ok)
	require.Equal(t, "A", label)

	// Порядок решает, а не метка.
	label, _ = SelectLabel([]entity.DetectedRegion{regions[1], regions[0]})
	require.Equal(t, "B", label)
}

func TestSelectLabel_Empty(t *testing.T) {
	label, ok := SelectLabel(nil)
	require.False(t, ok)
	require.Empty(t, label)
}

func TestSelectLabel_Deterministic(t *testing.T) {
	regions := []entity.DetectedRegion{
		region("sandwich", 40, 10),
		region("hot dog", 20, 20),
		region("cake", 10, 40),
	}
	for i := 0; i < 50; i++ {
		label, _ := SelectLabel(regions)
		require.Equal(t, "sandwich", label)
	}
}
