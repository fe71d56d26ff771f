package domain

// Point представляет географическую точку
type Point struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// BoundingBox представляет географическую область (вьюпорт карты)
type BoundingBox struct {
	MinLat float64 `json:"min_lat"`
	MinLon float64 `json:"min_lon"`
	MaxLat float64 `json:"max_lat"`
	MaxLon float64 `json:"max_lon"`
}

// Contains проверяет, находится ли точка внутри области
func (b BoundingBox) Contains(lat, lon float64) bool {
	return lat >= b.MinLat && lat <= b.MaxLat &&
		lon >= b.MinLon && lon <= b.MaxLon
}

// TileCoordinate идентифицирует одну ячейку тайловой сетки на заданном zoom
type TileCoordinate struct {
	Z int `json:"zoom"`
	X int `json:"x"`
	Y int `json:"y"`
}

// TileQuery - исходящий запрос к тайловому бэкенду: набор ячеек на одном zoom
type TileQuery struct {
	Zoom  int              `json:"zoom"`
	Tiles []TileCoordinate `json:"tiles"`
}

// TileData - бинарный payload одного тайла вместе с его координатой
type TileData struct {
	Tile    TileCoordinate
	Payload []byte
}
