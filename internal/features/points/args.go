// Package points — args.go разбирает аргументы команд.
// Правило имён одно на весь реестр: если последний токен — число,
// имя собирается из всех предыдущих токенов через один пробел;
// если числа не ожидается — из всех токенов целиком.
package points

import (
	"strconv"
	"strings"

	"clsbot.hk/points-bot/internal/common"
)

// parseName склеивает все токены в имя.
// Пустой список аргументов — ошибка.
func parseName(args []string) (string, error) {
	if len(args) == 0 {
		return "", common.ErrInvalidArgument
	}
	return strings.Join(args, " "), nil
}

// parseNameDelta разбирает "<имя...> <дельта>".
// Нужно минимум два токена, последний обязан быть целым числом.
func parseNameDelta(args []string) (string, int64, error) {
	if len(args) < 2 {
		return "", 0, common.ErrInvalidArgument
	}

	delta, err := strconv.ParseInt(args[len(args)-1], 10, 64)
	if err != nil {
		return "", 0, common.ErrInvalidArgument
	}

	name := strings.Join(args[:len(args)-1], " ")
	return name, delta, nil
}
