package mvt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"google.golang.org/protobuf/encoding/protowire"

	"github.com/station-microservice/internal/domain"
	"github.com/station-microservice/internal/pkg/projection"
)

// Фикстуры собирают payload в том же wire-формате, который разбирает декодер

func packVarints(values ...uint64) []byte {
	var b []byte
	for _, v := range values {
		b = protowire.AppendVarint(b, v)
	}
	return b
}

func stringValue(s string) []byte {
	b := protowire.AppendTag(nil, 1, protowire.BytesType)
	return protowire.AppendBytes(b, []byte(s))
}

func intValue(v int64) []byte {
	b := protowire.AppendTag(nil, 4, protowire.VarintType)
	return protowire.AppendVarint(b, uint64(v))
}

func pointGeometry(px, py int64) []uint64 {
	return []uint64{9, zigzagEncode(px), zigzagEncode(py)}
}

func buildFeature(tags, geometry []uint64) []byte {
	var b []byte
	b = protowire.AppendTag(b, featureFieldTags, protowire.BytesType)
	b = protowire.AppendBytes(b, packVarints(tags...))
	b = protowire.AppendTag(b, featureFieldGeometry, protowire.BytesType)
	b = protowire.AppendBytes(b, packVarints(geometry...))
	return b
}

type layerSpec struct {
	name     string
	extent   int
	keys     []string
	values   [][]byte
	features [][]byte
}

func buildLayer(spec layerSpec) []byte {
	var b []byte
	b = protowire.AppendTag(b, layerFieldVersion, protowire.VarintType)
	b = protowire.AppendVarint(b, 2)
	b = protowire.AppendTag(b, layerFieldName, protowire.BytesType)
	b = protowire.AppendBytes(b, []byte(spec.name))
	for _, key := range spec.keys {
		b = protowire.AppendTag(b, layerFieldKeys, protowire.BytesType)
		b = protowire.AppendBytes(b, []byte(key))
	}
	for _, value := range spec.values {
		b = protowire.AppendTag(b, layerFieldValues, protowire.BytesType)
		b = protowire.AppendBytes(b, value)
	}
	for _, f := range spec.features {
		b = protowire.AppendTag(b, layerFieldFeature, protowire.BytesType)
		b = protowire.AppendBytes(b, f)
	}
	if spec.extent > 0 {
		b = protowire.AppendTag(b, layerFieldExtent, protowire.VarintType)
		b = protowire.AppendVarint(b, uint64(spec.extent))
	}
	return b
}

func buildTile(layers ...[]byte) []byte {
	var b []byte
	for _, l := range layers {
		b = protowire.AppendTag(b, tileFieldLayer, protowire.BytesType)
		b = protowire.AppendBytes(b, l)
	}
	return b
}

// poiLayer собирает типовой POI-слой: keys = [type, id],
// values начинаются с "gasStation"
func poiLayer(extraValues [][]byte, features [][]byte) []byte {
	values := append([][]byte{stringValue("gasStation")}, extraValues...)
	return buildLayer(layerSpec{
		name:     poiLayerName,
		keys:     []string{attrTypeKey, attrIDKey},
		values:   values,
		features: features,
	})
}

func TestDecoder_Decode(t *testing.T) {
	decoder := NewDecoder(zap.NewNop())
	tile := domain.TileCoordinate{Z: 14, X: 8718, Y: 5677}

	t.Run("empty payload", func(t *testing.T) {
		_, err := decoder.Decode(nil, tile)
		assert.ErrorIs(t, err, ErrEmptyPayload)
	})

	t.Run("garbage payload", func(t *testing.T) {
		_, err := decoder.Decode([]byte{0xFF, 0xFF, 0xFF}, tile)
		assert.Error(t, err)
	})

	t.Run("tile without poi layer", func(t *testing.T) {
		payload := buildTile(buildLayer(layerSpec{name: "roads"}))
		_, err := decoder.Decode(payload, tile)
		assert.ErrorIs(t, err, ErrNoPOILayer)
	})

	t.Run("single gas station", func(t *testing.T) {
		feature := buildFeature(
			[]uint64{0, 0, 1, 1}, // type=gasStation, id="e2e-1337"
			pointGeometry(1024, 2048),
		)
		payload := buildTile(poiLayer([][]byte{stringValue("e2e-1337")}, [][]byte{feature}))

		stations, err := decoder.Decode(payload, tile)
		require.NoError(t, err)
		require.Len(t, stations, 1)

		station := stations[0]
		assert.Equal(t, "e2e-1337", station.ID)
		assert.Equal(t, domain.StationKindGasStation, station.Kind)
		assert.Equal(t, "gasStation", station.RawAttributes[attrTypeKey])

		want := projection.Unproject(tile, defaultExtent, 1024, 2048)
		assert.InDelta(t, want.Lat, station.Location.Lat, 1e-9)
		assert.InDelta(t, want.Lon, station.Location.Lon, 1e-9)
	})

	t.Run("numeric id attribute is stringified", func(t *testing.T) {
		feature := buildFeature([]uint64{0, 0, 1, 1}, pointGeometry(0, 0))
		payload := buildTile(poiLayer([][]byte{intValue(42)}, [][]byte{feature}))

		stations, err := decoder.Decode(payload, tile)
		require.NoError(t, err)
		require.Len(t, stations, 1)
		assert.Equal(t, "42", stations[0].ID)
	})

	t.Run("non gas station features are skipped", func(t *testing.T) {
		parking := buildFeature([]uint64{0, 2, 1, 1}, pointGeometry(10, 10))
		station := buildFeature([]uint64{0, 0, 1, 1}, pointGeometry(20, 20))
		payload := buildTile(poiLayer(
			[][]byte{stringValue("id-1"), stringValue("parking")},
			[][]byte{parking, station},
		))

		stations, err := decoder.Decode(payload, tile)
		require.NoError(t, err)
		require.Len(t, stations, 1)
		assert.Equal(t, "id-1", stations[0].ID)
	})

	t.Run("feature without id attribute is skipped", func(t *testing.T) {
		feature := buildFeature([]uint64{0, 0}, pointGeometry(0, 0))
		payload := buildTile(poiLayer(nil, [][]byte{feature}))

		stations, err := decoder.Decode(payload, tile)
		require.NoError(t, err)
		assert.Empty(t, stations)
	})

	t.Run("malformed geometry skips feature, siblings survive", func(t *testing.T) {
		broken := buildFeature([]uint64{0, 0, 1, 1}, []uint64{9, zigzagEncode(1)})
		good := buildFeature([]uint64{0, 0, 1, 2}, pointGeometry(5, 5))
		payload := buildTile(poiLayer(
			[][]byte{stringValue("broken"), stringValue("good")},
			[][]byte{broken, good},
		))

		stations, err := decoder.Decode(payload, tile)
		require.NoError(t, err)
		require.Len(t, stations, 1)
		assert.Equal(t, "good", stations[0].ID)
	})

	t.Run("odd tag count skips feature", func(t *testing.T) {
		feature := buildFeature([]uint64{0, 0, 1}, pointGeometry(0, 0))
		payload := buildTile(poiLayer(nil, [][]byte{feature}))

		stations, err := decoder.Decode(payload, tile)
		require.NoError(t, err)
		assert.Empty(t, stations)
	})

	t.Run("custom extent is honored", func(t *testing.T) {
		feature := buildFeature([]uint64{0, 0, 1, 1}, pointGeometry(128, 128))
		layer := buildLayer(layerSpec{
			name:     poiLayerName,
			extent:   256,
			keys:     []string{attrTypeKey, attrIDKey},
			values:   [][]byte{stringValue("gasStation"), stringValue("id-1")},
			features: [][]byte{feature},
		})

		stations, err := decoder.Decode(buildTile(layer), tile)
		require.NoError(t, err)
		require.Len(t, stations, 1)

		want := projection.Unproject(tile, 256, 128, 128)
		assert.InDelta(t, want.Lat, stations[0].Location.Lat, 1e-9)
		assert.InDelta(t, want.Lon, stations[0].Location.Lon, 1e-9)
	})
}

func TestResolveAttributes(t *testing.T) {
	keys := []string{"type", "id"}
	values := []any{"gasStation", int64(7)}

	t.Run("resolves pairs", func(t *testing.T) {
		attrs, err := resolveAttributes([]uint64{0, 0, 1, 1}, keys, values)
		require.NoError(t, err)
		assert.Equal(t, "gasStation", attrs["type"])
		assert.Equal(t, int64(7), attrs["id"])
	})

	t.Run("index out of range", func(t *testing.T) {
		_, err := resolveAttributes([]uint64{0, 5}, keys, values)
		assert.Error(t, err)
	})
}
