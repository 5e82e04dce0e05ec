// Package common — errors.go определяет пользовательские ошибки,
// которые используются во всех модулях бота.
// Эти ошибки позволяют обработчикам различать типы проблем
// и отправлять пользователю понятные сообщения.
package common

import "errors"

// Ошибки разбора команд
var (
	// ErrInvalidArgument — неверные или отсутствующие аргументы команды
	ErrInvalidArgument = errors.New("некорректные аргументы команды")
)

// Ошибки реестра баллов
var (
	// ErrNotFound — запись с таким именем не найдена в хранилище
	ErrNotFound = errors.New("запись не найдена")
)

// Ошибки авторизации
var (
	// ErrNotAdmin — пользователь не является администратором чата
	ErrNotAdmin = errors.New("у вас нет прав администратора")
	// ErrAuthUnavailable — не удалось получить список администраторов.
	// Команда в этом случае отклоняется (fail closed), а не пропускается.
	ErrAuthUnavailable = errors.New("список администраторов недоступен")
)
