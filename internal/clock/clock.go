// Package clock даёт абстракцию текущего времени и таймеров.
//
// Сервисы и планировщик не вызывают time.Now() и time.NewTicker() напрямую: часы передаются в конструктор,
// поэтому в тестах время "прокручивается" без реальных задержек.
package clock

import (
	"time"

	"github.com/jonboulle/clockwork"
)

// Clock часы с таймерами и тикерами
type Clock = clockwork.Clock

// ManualClock часы, которые двигаются только через Advance
type ManualClock = clockwork.FakeClock

// NewReal возвращает системные часы. Использовать только в cmd/*
func NewReal() Clock {
	return clockwork.NewRealClock()
}

// NewFixed возвращает часы, остановленные на t
func NewFixed(t time.Time) Clock {
	return clockwork.NewFakeClockAt(t)
}

// NewManual возвращает часы, стартующие с t
func NewManual(t time.Time) *ManualClock {
	return clockwork.NewFakeClockAt(t)
}
