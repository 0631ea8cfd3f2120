package userservice

import (
	"context"
	"sync"
)

// StaticDirectory справочник пользователей в памяти.
// Используется вместе с хранилищем в памяти и в тестах.
type StaticDirectory struct {
	mu    sync.RWMutex
	users map[string]User
}

func NewStaticDirectory(users ...User) *StaticDirectory {
	d := &StaticDirectory{users: make(map[string]User, len(users))}
	for _, u := range users {
		d.users[u.ID] = u
	}
	return d
}

// Add добавляет или заменяет пользователя
func (d *StaticDirectory) Add(u User) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.users[u.ID] = u
}

func (d *StaticDirectory) GetUser(ctx context.Context, userID string) (*User, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	u, ok := d.users[userID]
	if !ok {
		return nil, ErrUserNotFound
	}
	return &u, nil
}
