package mvt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestZigzagRoundTrip(t *testing.T) {
	for _, v := range []int64{0, 1, -1, 2, -2, 4095, -4096, 1 << 40, -(1 << 40)} {
		assert.Equal(t, v, zigzagDecode(zigzagEncode(v)), "value %d", v)
	}
}

func TestDecodeCommands(t *testing.T) {
	t.Run("single MoveTo", func(t *testing.T) {
		// (1 | 1<<3), zigzag(17), zigzag(-42)
		commands, err := decodeCommands([]uint64{9, zigzagEncode(17), zigzagEncode(-42)})
		require.NoError(t, err)
		require.Len(t, commands, 1)
		assert.Equal(t, Command{Op: OpMoveTo, DX: 17, DY: -42}, commands[0])
	})

	t.Run("LineTo with repeat count expands to pairs", func(t *testing.T) {
		geometry := []uint64{
			9, zigzagEncode(1), zigzagEncode(1),
			(2 | 2<<3), zigzagEncode(3), zigzagEncode(0), zigzagEncode(0), zigzagEncode(4),
		}
		commands, err := decodeCommands(geometry)
		require.NoError(t, err)
		require.Len(t, commands, 3)
		assert.Equal(t, Command{Op: OpLineTo, DX: 3, DY: 0}, commands[1])
		assert.Equal(t, Command{Op: OpLineTo, DX: 0, DY: 4}, commands[2])
	})

	t.Run("ClosePath carries no parameters", func(t *testing.T) {
		commands, err := decodeCommands([]uint64{9, 0, 0, (7 | 1<<3)})
		require.NoError(t, err)
		require.Len(t, commands, 2)
		assert.Equal(t, OpClosePath, commands[1].Op)
	})

	t.Run("implausible ClosePath repeat count is rejected", func(t *testing.T) {
		// Счетчик повторов ClosePath не обеспечен параметрами: 4-словный
		// поток не должен разворачиваться в миллионы команд.
		_, err := decodeCommands([]uint64{9, 0, 0, 7 | (1<<22)<<3})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "implausible repeat count")
	})

	t.Run("zero repeat count is rejected", func(t *testing.T) {
		_, err := decodeCommands([]uint64{1, zigzagEncode(1), zigzagEncode(1)})
		assert.Error(t, err)
	})

	t.Run("truncated parameters are rejected", func(t *testing.T) {
		_, err := decodeCommands([]uint64{9, zigzagEncode(1)})
		assert.Error(t, err)
	})

	t.Run("unknown command id is rejected", func(t *testing.T) {
		_, err := decodeCommands([]uint64{(5 | 1<<3), 0, 0})
		assert.Error(t, err)
	})
}

func TestFirstPoint(t *testing.T) {
	t.Run("returns absolute position of first MoveTo", func(t *testing.T) {
		x, y, ok := firstPoint([]Command{{Op: OpMoveTo, DX: 100, DY: 200}})
		require.True(t, ok)
		assert.Equal(t, int64(100), x)
		assert.Equal(t, int64(200), y)
	})

	t.Run("cursor accumulates deltas before MoveTo", func(t *testing.T) {
		x, y, ok := firstPoint([]Command{
			{Op: OpLineTo, DX: 10, DY: 10},
			{Op: OpClosePath},
			{Op: OpMoveTo, DX: 5, DY: -5},
		})
		require.True(t, ok)
		assert.Equal(t, int64(15), x)
		assert.Equal(t, int64(5), y)
	})

	t.Run("no MoveTo means no point", func(t *testing.T) {
		_, _, ok := firstPoint([]Command{{Op: OpLineTo, DX: 1, DY: 1}})
		assert.False(t, ok)
	})
}
