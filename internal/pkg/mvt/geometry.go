package mvt

import "fmt"

// Op - операция команды геометрии
type Op uint8

const (
	OpMoveTo    Op = 1
	OpLineTo    Op = 2
	OpClosePath Op = 7
)

// Command - одна декодированная команда потока геометрии.
// DX/DY - zigzag-декодированные дельты в локальных пикселях тайла.
type Command struct {
	Op Op
	DX int64
	DY int64
}

// zigzagDecode переводит беззнаковое zigzag-представление в знаковое
func zigzagDecode(raw uint64) int64 {
	return int64(raw>>1) ^ -int64(raw&1)
}

// zigzagEncode - обратное преобразование, используется в тестах и фикстурах
func zigzagEncode(v int64) uint64 {
	return uint64((v << 1) ^ (v >> 63))
}

// decodeCommands интерпретирует сырой поток геометрии.
// Каждое командное слово пакует (command_id | repeat_count<<3); MoveTo и
// LineTo сопровождаются repeat_count парами (dx, dy), ClosePath - нет.
func decodeCommands(geometry []uint64) ([]Command, error) {
	commands := make([]Command, 0, len(geometry)/3)

	i := 0
	for i < len(geometry) {
		word := geometry[i]
		i++

		op := Op(word & 0x7)
		repeat := word >> 3

		switch op {
		case OpMoveTo, OpLineTo:
			if repeat == 0 {
				return nil, fmt.Errorf("command %d with zero repeat count", op)
			}
			for r := uint64(0); r < repeat; r++ {
				if i+1 >= len(geometry) {
					return nil, fmt.Errorf("truncated parameters for command %d: want %d pairs", op, repeat)
				}
				commands = append(commands, Command{
					Op: op,
					DX: zigzagDecode(geometry[i]),
					DY: zigzagDecode(geometry[i+1]),
				})
				i += 2
			}
		case OpClosePath:
			// У ClosePath нет параметров, поэтому длина потока счетчик не
			// ограничивает: валидный поток не может содержать больше
			// ClosePath, чем в нем командных слов.
			if repeat > uint64(len(geometry)) {
				return nil, fmt.Errorf("implausible repeat count %d for command %d", repeat, op)
			}
			for r := uint64(0); r < repeat; r++ {
				commands = append(commands, Command{Op: OpClosePath})
			}
		default:
			return nil, fmt.Errorf("unknown geometry command id %d", op)
		}
	}

	return commands, nil
}

// firstPoint возвращает абсолютную позицию первого MoveTo.
// Станция - точечная фича, значима только первая точка геометрии.
func firstPoint(commands []Command) (x, y int64, ok bool) {
	cursorX, cursorY := int64(0), int64(0)
	for _, cmd := range commands {
		if cmd.Op == OpClosePath {
			continue
		}
		cursorX += cmd.DX
		cursorY += cmd.DY
		if cmd.Op == OpMoveTo {
			return cursorX, cursorY, true
		}
	}
	return 0, 0, false
}
