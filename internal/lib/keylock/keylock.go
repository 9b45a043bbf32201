// Package keylock реализует взаимное исключение по строковому ключу.
//
// Используется для сериализации циклов "прочитать-проверить-записать"
// в пределах одного процесса: бронирования блокируются по объекту,
// изменения подписки — по пользователю.
package keylock

import "sync"

// KeyLock выдаёт мьютекс на каждый ключ. Мьютексы создаются лениво
// и живут до конца работы процесса: количество ключей ограничено
// количеством объектов и пользователей.
type KeyLock struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// New создает пустой KeyLock.
func New() *KeyLock {
	return &KeyLock{
		locks: make(map[string]*sync.Mutex),
	}
}

// Lock захватывает мьютекс ключа и возвращает функцию освобождения.
//
// Пример:
//
//	unlock := locks.Lock("property:" + id)
//	defer unlock()
func (l *KeyLock) Lock(key string) func() {
	l.mu.Lock()
	m, ok := l.locks[key]
	if !ok {
		m = &sync.Mutex{}
		l.locks[key] = m
	}
	l.mu.Unlock()

	m.Lock()
	return m.Unlock
}
