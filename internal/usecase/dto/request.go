package dto

// ViewportRequest - запрос станций для вьюпорта карты
type ViewportRequest struct {
	MinLat  float64 `query:"min_lat" validate:"min=-90,max=90"`
	MinLon  float64 `query:"min_lon" validate:"min=-180,max=180"`
	MaxLat  float64 `query:"max_lat" validate:"min=-90,max=90"`
	MaxLon  float64 `query:"max_lon" validate:"min=-180,max=180"`
	Padding float64 `query:"padding" validate:"omitempty,min=0,max=100000"` // meters
	Zoom    *int    `query:"zoom" validate:"omitempty,min=0,max=22"`
}

// StationRef - идентификатор станции с уже известной координатой
type StationRef struct {
	ID  string  `json:"id" validate:"required"`
	Lat float64 `json:"lat" validate:"min=-90,max=90"`
	Lon float64 `json:"lon" validate:"min=-180,max=180"`
}

// StationsBatchRequest - пакетный запрос станций: либо голые идентификаторы
// (координаты резолвятся point-lookup'ом), либо пары с координатами
type StationsBatchRequest struct {
	IDs      []string     `json:"ids" validate:"omitempty,min=1,max=100,dive,required"`
	Stations []StationRef `json:"stations" validate:"omitempty,min=1,max=100,dive"`
	Zoom     *int         `json:"zoom" validate:"omitempty,min=0,max=22"`
}

// StationByIDRequest - запрос одной станции
type StationByIDRequest struct {
	Zoom *int     `query:"zoom" validate:"omitempty,min=0,max=22"`
	Lat  *float64 `query:"lat" validate:"omitempty,min=-90,max=90"`
	Lon  *float64 `query:"lon" validate:"omitempty,min=-180,max=180"`
}
