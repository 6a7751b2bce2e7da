package events

import (
	"context"
	"sync"
)

// Published одно записанное событие
type Published struct {
	Key     string
	Payload any
}

// Recorder запоминает события в памяти. Для тестов и локального запуска
type Recorder struct {
	mu     sync.Mutex
	events []Published
}

func (r *Recorder) Publish(_ context.Context, key string, payload any) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, Published{Key: key, Payload: payload})
	return nil
}

// Keys ключи событий в порядке публикации
func (r *Recorder) Keys() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	keys := make([]string, len(r.events))
	for i, e := range r.events {
		keys[i] = e.Key
	}
	return keys
}

// Events копия записанных событий
func (r *Recorder) Events() []Published {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Published(nil), r.events...)
}
