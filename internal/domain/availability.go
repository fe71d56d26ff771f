package domain

import "time"

// Ключи properties фида доступности
const (
	propConnectedFueling = "connectedFueling"
	propPaymentMethods   = "paymentMethods"
)

// AvailabilityFeature представляет полигон зоны доступности connected fueling
// из вторичного фида. Polygon - список колец, каждое кольцо - список вершин.
type AvailabilityFeature struct {
	ID         string         `json:"id"`
	Polygon    [][]Point      `json:"polygon"`
	Properties map[string]any `json:"properties,omitempty"`
}

// ConnectedFuelingStatus извлекает статус connected fueling из properties фичи
func (f *AvailabilityFeature) ConnectedFuelingStatus() *CofuStatus {
	raw, ok := f.Properties[propConnectedFueling]
	if !ok {
		return nil
	}
	s, ok := raw.(string)
	if !ok {
		return nil
	}
	status := CofuStatus(s)
	return &status
}

// PaymentKinds извлекает список поддерживаемых способов оплаты из properties
func (f *AvailabilityFeature) PaymentKinds() []string {
	raw, ok := f.Properties[propPaymentMethods]
	if !ok {
		return nil
	}
	items, ok := raw.([]any)
	if !ok {
		return nil
	}
	kinds := make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := item.(string); ok {
			kinds = append(kinds, s)
		}
	}
	return kinds
}

// FeatureSnapshot - один снимок фич доступности. Снимок неизменяем:
// при рефетче заменяется целиком, частичных обновлений нет.
type FeatureSnapshot struct {
	Features  []AvailabilityFeature
	FetchedAt time.Time
	Center    Point
}
