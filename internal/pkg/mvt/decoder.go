// Package mvt декодирует компактный бинарный формат тайлов бэкенда POI
// (layers -> features -> таблицы атрибутов -> потоки команд геометрии)
// в записи станций с географическими координатами.
package mvt

import (
	"errors"
	"fmt"
	"math"
	"strconv"

	"go.uber.org/zap"
	"google.golang.org/protobuf/encoding/protowire"

	"github.com/station-microservice/internal/domain"
	"github.com/station-microservice/internal/pkg/projection"
)

// Ошибки уровня всего тайла. Ошибки отдельных фич не фатальны:
// фича пропускается, декодирование тайла продолжается.
var (
	ErrEmptyPayload = errors.New("empty tile payload")
	ErrNoPOILayer   = errors.New("poi layer not found in tile")
)

const (
	poiLayerName  = "poi"
	defaultExtent = 4096

	attrTypeKey = "type"
	attrIDKey   = "id"
)

// Номера полей бинарного контейнера
const (
	tileFieldLayer = 3

	layerFieldName    = 1
	layerFieldFeature = 2
	layerFieldKeys    = 3
	layerFieldValues  = 4
	layerFieldExtent  = 5
	layerFieldVersion = 15

	featureFieldID       = 1
	featureFieldTags     = 2
	featureFieldType     = 3
	featureFieldGeometry = 4
)

type layer struct {
	name     string
	extent   int
	keys     []string
	values   []any
	features []feature
}

type feature struct {
	tags     []uint64
	geometry []uint64
}

// Decoder разбирает тайловые payload'ы в станции
type Decoder struct {
	logger *zap.Logger
}

// NewDecoder создает новый Decoder
func NewDecoder(logger *zap.Logger) *Decoder {
	return &Decoder{logger: logger}
}

// Decode разбирает бинарный payload тайла и возвращает станции POI-слоя.
// Фатальны только две ситуации: payload не разбирается как контейнер
// или POI-слой отсутствует. Некорректные фичи пропускаются с логом.
func (d *Decoder) Decode(payload []byte, tile domain.TileCoordinate) ([]domain.Station, error) {
	if len(payload) == 0 {
		return nil, ErrEmptyPayload
	}

	layers, err := parseTile(payload)
	if err != nil {
		return nil, fmt.Errorf("parse tile envelope: %w", err)
	}

	var poi *layer
	for i := range layers {
		if layers[i].name == poiLayerName {
			poi = &layers[i]
			break
		}
	}
	if poi == nil {
		return nil, ErrNoPOILayer
	}

	stations := make([]domain.Station, 0, len(poi.features))
	for _, f := range poi.features {
		station, ok := d.decodeFeature(f, poi, tile)
		if !ok {
			continue
		}
		stations = append(stations, station)
	}

	return stations, nil
}

// decodeFeature превращает одну фичу POI-слоя в станцию.
// Отсутствие атрибутов type/id - не ошибка, фича просто пропускается.
func (d *Decoder) decodeFeature(f feature, l *layer, tile domain.TileCoordinate) (domain.Station, bool) {
	attrs, err := resolveAttributes(f.tags, l.keys, l.values)
	if err != nil {
		d.logger.Warn("Skipping feature with malformed attribute table",
			zap.Int("zoom", tile.Z),
			zap.Int("x", tile.X),
			zap.Int("y", tile.Y),
			zap.Error(err))
		return domain.Station{}, false
	}

	kind, ok := attrString(attrs[attrTypeKey])
	if !ok {
		return domain.Station{}, false
	}
	id, ok := attrString(attrs[attrIDKey])
	if !ok {
		return domain.Station{}, false
	}
	if domain.StationKind(kind) != domain.StationKindGasStation {
		return domain.Station{}, false
	}

	commands, err := decodeCommands(f.geometry)
	if err != nil {
		d.logger.Warn("Skipping feature with malformed geometry",
			zap.String("station_id", id),
			zap.Error(err))
		return domain.Station{}, false
	}

	px, py, ok := firstPoint(commands)
	if !ok {
		d.logger.Warn("Skipping feature without MoveTo geometry",
			zap.String("station_id", id))
		return domain.Station{}, false
	}

	extent := l.extent
	if extent <= 0 {
		extent = defaultExtent
	}

	return domain.Station{
		ID:            id,
		Kind:          domain.StationKind(kind),
		Location:      projection.Unproject(tile, extent, px, py),
		RawAttributes: attrs,
		PaymentKinds:  []string{},
	}, true
}

// resolveAttributes разворачивает пары индексов (key, value) в плоскую карту
func resolveAttributes(tags []uint64, keys []string, values []any) (map[string]any, error) {
	if len(tags)%2 != 0 {
		return nil, fmt.Errorf("odd tag count %d", len(tags))
	}

	attrs := make(map[string]any, len(tags)/2)
	for i := 0; i < len(tags); i += 2 {
		keyIdx, valIdx := tags[i], tags[i+1]
		if keyIdx >= uint64(len(keys)) || valIdx >= uint64(len(values)) {
			return nil, fmt.Errorf("tag index out of range: key=%d value=%d", keyIdx, valIdx)
		}
		attrs[keys[keyIdx]] = values[valIdx]
	}
	return attrs, nil
}

func attrString(v any) (string, bool) {
	switch value := v.(type) {
	case string:
		return value, true
	case int64:
		return strconv.FormatInt(value, 10), true
	case uint64:
		return strconv.FormatUint(value, 10), true
	default:
		return "", false
	}
}

func parseTile(b []byte) ([]layer, error) {
	var layers []layer

	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return nil, protowire.ParseError(n)
		}
		b = b[n:]

		if num == tileFieldLayer && typ == protowire.BytesType {
			raw, n := protowire.ConsumeBytes(b)
			if n < 0 {
				return nil, protowire.ParseError(n)
			}
			b = b[n:]

			l, err := parseLayer(raw)
			if err != nil {
				return nil, err
			}
			layers = append(layers, l)
			continue
		}

		n = protowire.ConsumeFieldValue(num, typ, b)
		if n < 0 {
			return nil, protowire.ParseError(n)
		}
		b = b[n:]
	}

	return layers, nil
}

func parseLayer(b []byte) (layer, error) {
	l := layer{extent: defaultExtent}

	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return l, protowire.ParseError(n)
		}
		b = b[n:]

		switch {
		case num == layerFieldName && typ == protowire.BytesType:
			v, n := protowire.ConsumeBytes(b)
			if n < 0 {
				return l, protowire.ParseError(n)
			}
			b = b[n:]
			l.name = string(v)

		case num == layerFieldFeature && typ == protowire.BytesType:
			v, n := protowire.ConsumeBytes(b)
			if n < 0 {
				return l, protowire.ParseError(n)
			}
			b = b[n:]
			f, err := parseFeature(v)
			if err != nil {
				return l, err
			}
			l.features = append(l.features, f)

		case num == layerFieldKeys && typ == protowire.BytesType:
			v, n := protowire.ConsumeBytes(b)
			if n < 0 {
				return l, protowire.ParseError(n)
			}
			b = b[n:]
			l.keys = append(l.keys, string(v))

		case num == layerFieldValues && typ == protowire.BytesType:
			v, n := protowire.ConsumeBytes(b)
			if n < 0 {
				return l, protowire.ParseError(n)
			}
			b = b[n:]
			value, err := parseValue(v)
			if err != nil {
				return l, err
			}
			l.values = append(l.values, value)

		case num == layerFieldExtent && typ == protowire.VarintType:
			v, n := protowire.ConsumeVarint(b)
			if n < 0 {
				return l, protowire.ParseError(n)
			}
			b = b[n:]
			l.extent = int(v)

		case num == layerFieldVersion && typ == protowire.VarintType:
			_, n := protowire.ConsumeVarint(b)
			if n < 0 {
				return l, protowire.ParseError(n)
			}
			b = b[n:]

		default:
			n = protowire.ConsumeFieldValue(num, typ, b)
			if n < 0 {
				return l, protowire.ParseError(n)
			}
			b = b[n:]
		}
	}

	return l, nil
}

func parseFeature(b []byte) (feature, error) {
	var f feature

	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return f, protowire.ParseError(n)
		}
		b = b[n:]

		switch {
		case num == featureFieldTags && typ == protowire.BytesType:
			packed, n := protowire.ConsumeBytes(b)
			if n < 0 {
				return f, protowire.ParseError(n)
			}
			b = b[n:]
			values, err := consumePacked(packed)
			if err != nil {
				return f, err
			}
			f.tags = append(f.tags, values...)

		case num == featureFieldGeometry && typ == protowire.BytesType:
			packed, n := protowire.ConsumeBytes(b)
			if n < 0 {
				return f, protowire.ParseError(n)
			}
			b = b[n:]
			values, err := consumePacked(packed)
			if err != nil {
				return f, err
			}
			f.geometry = append(f.geometry, values...)

		case (num == featureFieldID || num == featureFieldType) && typ == protowire.VarintType:
			_, n := protowire.ConsumeVarint(b)
			if n < 0 {
				return f, protowire.ParseError(n)
			}
			b = b[n:]

		default:
			n = protowire.ConsumeFieldValue(num, typ, b)
			if n < 0 {
				return f, protowire.ParseError(n)
			}
			b = b[n:]
		}
	}

	return f, nil
}

// parseValue разбирает одну запись общей таблицы значений слоя
func parseValue(b []byte) (any, error) {
	var value any

	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return nil, protowire.ParseError(n)
		}
		b = b[n:]

		switch num {
		case 1: // string
			v, n := protowire.ConsumeBytes(b)
			if n < 0 {
				return nil, protowire.ParseError(n)
			}
			b = b[n:]
			value = string(v)
		case 2: // float
			v, n := protowire.ConsumeFixed32(b)
			if n < 0 {
				return nil, protowire.ParseError(n)
			}
			b = b[n:]
			value = float64(math.Float32frombits(v))
		case 3: // double
			v, n := protowire.ConsumeFixed64(b)
			if n < 0 {
				return nil, protowire.ParseError(n)
			}
			b = b[n:]
			value = math.Float64frombits(v)
		case 4: // int
			v, n := protowire.ConsumeVarint(b)
			if n < 0 {
				return nil, protowire.ParseError(n)
			}
			b = b[n:]
			value = int64(v)
		case 5: // uint
			v, n := protowire.ConsumeVarint(b)
			if n < 0 {
				return nil, protowire.ParseError(n)
			}
			b = b[n:]
			value = v
		case 6: // sint
			v, n := protowire.ConsumeVarint(b)
			if n < 0 {
				return nil, protowire.ParseError(n)
			}
			b = b[n:]
			value = protowire.DecodeZigZag(v)
		case 7: // bool
			v, n := protowire.ConsumeVarint(b)
			if n < 0 {
				return nil, protowire.ParseError(n)
			}
			b = b[n:]
			value = v != 0
		default:
			n = protowire.ConsumeFieldValue(num, typ, b)
			if n < 0 {
				return nil, protowire.ParseError(n)
			}
			b = b[n:]
		}
	}

	return value, nil
}

func consumePacked(b []byte) ([]uint64, error) {
	values := make([]uint64, 0, len(b))
	for len(b) > 0 {
		v, n := protowire.ConsumeVarint(b)
		if n < 0 {
			return nil, protowire.ParseError(n)
		}
		b = b[n:]
		values = append(values, v)
	}
	return values, nil
}
