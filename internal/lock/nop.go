package lock

import (
	"context"
	"time"
)

// NopLocker всегда выдает блокировку
// Используется, когда Redis не сконфигурирован: условный UPDATE статуса
// слота в хранилище остается единственной, но достаточной защитой
type NopLocker struct{}

// Lock implements Locker
func (NopLocker) Lock(_ context.Context, _ string, _ time.Duration) (bool, error) {
	return true, nil
}

// Unlock implements Locker
func (NopLocker) Unlock(_ context.Context, _ string) error {
	return nil
}
