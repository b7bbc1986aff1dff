// Package serviceid distributes the service name to packages that label
// their metrics with it.
package serviceid

import "github.com/YaganovValera/httplifecycle/pkg/backoff"

// InitServiceName задаёт единое имя сервиса для метрик backoff.
// Нужно вызывать в main() до любых попыток отправки метрик.
func InitServiceName(name string) {
	backoff.SetServiceLabel(name)
}
