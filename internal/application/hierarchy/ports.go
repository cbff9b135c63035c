package hierarchy

import (
	"context"
	"time"
)

// SnapshotStore almacén de instantáneas serializadas por clave.
type SnapshotStore interface {
	// Get devuelve (nil, false, nil) si la clave no existe.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	DeletePrefix(ctx context.Context, prefix string) error
}

// Metrics instrumentación de la caché; lo implementa observability.Metrics.
type Metrics interface {
	ObserveCache(result string)
	ObserveBuild(d time.Duration)
}

type noopMetrics struct{}

func (noopMetrics) ObserveCache(string)         {}
func (noopMetrics) ObserveBuild(time.Duration) {}
