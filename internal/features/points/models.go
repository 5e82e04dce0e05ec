// Package points реализует реестр баллов CLS — начисление, просмотр,
// сброс, удаление и рейтинг. models.go описывает структуры реестра.
package points

// ScoreEntry — одна запись реестра: отображаемое имя и текущий счёт.
// Имя используется дословно, как его ввели (склейка токенов одним
// пробелом), без нормализации регистра или пробелов: "Alice Lee" и
// "alice lee" — разные записи.
type ScoreEntry struct {
	Name  string
	Score int64
}

// Adjustment — результат изменения баллов.
type Adjustment struct {
	Name  string
	Delta int64
	// Итоговый счёт после применения дельты
	Total int64
}

// Ranks — два лидерборда: топ-5 положительных (по убыванию)
// и топ-5 отрицательных (по возрастанию).
type Ranks struct {
	Top    []ScoreEntry
	Bottom []ScoreEntry
}
