package hpxml

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFacadesFor(t *testing.T) {
	tests := []struct {
		front, back, left, right int
	}{
		{1, 5, 3, 7},
		{2, 6, 4, 8},
		{3, 7, 5, 1},
		{4, 8, 6, 2},
		{5, 1, 7, 3},
		{6, 2, 8, 4},
		{7, 3, 1, 5},
		{8, 4, 2, 6},
	}
	for _, tt := range tests {
		f, err := facadesFor(tt.front)
		require.NoError(t, err)

		for code, want := range map[int]Facade{tt.front: Front, tt.back: Back, tt.left: Left, tt.right: Right} {
			got, ok := f.facadeOf(code)
			assert.True(t, ok, "front %d code %d", tt.front, code)
			assert.Equal(t, want, got, "front %d code %d", tt.front, code)
		}

		// Diagonals of the front belong to no facade.
		for _, diag := range []int{rotate(tt.front, 1), rotate(tt.front, 3), rotate(tt.front, 5), rotate(tt.front, 7)} {
			_, ok := f.facadeOf(diag)
			assert.False(t, ok, "front %d code %d", tt.front, diag)
		}
	}
}

func TestFacadesForRejectsBadFront(t *testing.T) {
	for _, front := range []int{0, 9, -1} {
		_, err := facadesFor(front)
		assert.Error(t, err, "front %d", front)
	}
}

func TestRotate(t *testing.T) {
	assert.Equal(t, 8, rotate(6, 2))
	assert.Equal(t, 8, rotate(2, -2))
	assert.Equal(t, 8, rotate(4, 4))
	assert.Equal(t, 1, rotate(8, 1))
	assert.Equal(t, 8, rotate(1, -1))
	assert.Equal(t, "left", Left.String())
}
