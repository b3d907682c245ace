package entity

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBoundingBoxArea(t *testing.T) {
	b := BoundingBox{X1: 10, Y1: 20, X2: 18, Y2: 26}
	require.Equal(t, 48, b.Area())
}

func TestBoundingBoxCenter(t *testing.T) {
	b := BoundingBox{X1: 10, Y1: 20, X2: 18, Y2: 26}
	x, y := b.Center()
	require.Equal(t, 14, x)
	require.Equal(t, 23, y)
}
