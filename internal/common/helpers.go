// Package common содержит общие утилиты, используемые во всём проекте.
// Сюда входят: работа с гонконгским временем и форматирование чисел.
package common

import (
	"fmt"
	"time"
)

// HongKongLocation возвращает часовой пояс Asia/Hong_Kong.
// Используется планировщиком для ежедневной публикации рейтинга.
// Если база зон недоступна — используем UTC+8 вручную.
func HongKongLocation() *time.Location {
	loc, err := time.LoadLocation("Asia/Hong_Kong")
	if err != nil {
		loc = time.FixedZone("HKT", 8*60*60)
	}
	return loc
}

// FormatSigned форматирует число со знаком: "+5", "-3", "+0".
// Используется в логах изменения баллов.
func FormatSigned(n int64) string {
	if n < 0 {
		return fmt.Sprintf("%d", n)
	}
	return fmt.Sprintf("+%d", n)
}
