package domain

import "time"

// StationKind - тип POI из атрибутов тайла
type StationKind string

const (
	StationKindGasStation StationKind = "gasStation"
)

// CofuStatus - статус поддержки connected fueling (оплата с АЗС из приложения)
type CofuStatus string

const (
	CofuStatusOnline  CofuStatus = "online"
	CofuStatusOffline CofuStatus = "offline"
)

// Station представляет заправочную станцию, декодированную из тайла.
// Каждый вызов резолвинга создает новый снимок; после аннотации
// статусом connected fueling станция больше не изменяется.
type Station struct {
	ID                     string         `json:"id"`
	Kind                   StationKind    `json:"kind"`
	Location               Point          `json:"location"`
	RawAttributes          map[string]any `json:"raw_attributes,omitempty"`
	ConnectedFuelingStatus *CofuStatus    `json:"connected_fueling_status,omitempty"`
	PaymentKinds           []string       `json:"payment_kinds"`
	ResolvedAt             time.Time      `json:"resolved_at"`
}

// StationLocation - пара (идентификатор, координата), когда координата
// уже известна вызывающей стороне
type StationLocation struct {
	ID       string `json:"id"`
	Location Point  `json:"location"`
}

// StationLookup - ответ point-lookup эндпоинта для одной станции.
// Интерпретация статуса выполняется резолвером, транспорт только
// передает код, координаты и идентификатор из redirect-ответа.
type StationLookup struct {
	StatusCode int
	Location   *Point
	RedirectID string
}
