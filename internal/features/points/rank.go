// Package points — rank.go считает лидерборды.
// Полный обход пространства имён, две независимые сортировки,
// по пять мест в каждой таблице.
package points

import (
	"context"
	"fmt"
	"sort"
	"strings"
)

// rankLimit — размер каждой таблицы рейтинга.
const rankLimit = 5

// Ranks строит рейтинг: топ-5 со счётом > 0 по убыванию и
// «анти-топ-5» со счётом < 0 по возрастанию. Ноль не попадает никуда.
// Доступно всем, авторизация не требуется.
func (s *Service) Ranks(ctx context.Context) (*Ranks, error) {
	entries, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	return &Ranks{
		Top:    takeQualifying(entries, false),
		Bottom: takeQualifying(entries, true),
	}, nil
}

// takeQualifying сортирует записи и набирает до rankLimit подходящих.
// ascending=false — положительная таблица (убывание, счёт > 0),
// ascending=true — отрицательная (возрастание, счёт < 0).
// Сортировка стабильная: равные счёты сохраняют порядок обхода.
// Обход обрывается на первом неподходящем счёте — после сортировки
// дальше подходящих уже не будет.
func takeQualifying(entries []ScoreEntry, ascending bool) []ScoreEntry {
	sorted := make([]ScoreEntry, len(entries))
	copy(sorted, entries)

	sort.SliceStable(sorted, func(i, j int) bool {
		if ascending {
			return sorted[i].Score < sorted[j].Score
		}
		return sorted[i].Score > sorted[j].Score
	})

	var out []ScoreEntry
	for _, e := range sorted {
		if len(out) >= rankLimit {
			break
		}
		if ascending && e.Score >= 0 {
			break
		}
		if !ascending && e.Score <= 0 {
			break
		}
		out = append(out, e)
	}
	return out
}

// FormatRanks собирает обе таблицы в один текст ответа.
// Пустая таблица заменяется строкой-заглушкой.
// Используется командой /rank и ежедневной публикацией рейтинга.
func FormatRanks(r *Ranks) string {
	var b strings.Builder

	b.WriteString("CLS分數龍虎榜 TOP 5：\n")
	writeRankLines(&b, r.Top)

	b.WriteString("\n\nCLS分數龍虎榜 負TOP 5：\n")
	writeRankLines(&b, r.Bottom)

	return b.String()
}

func writeRankLines(b *strings.Builder, entries []ScoreEntry) {
	if len(entries) == 0 {
		b.WriteString("冇人上榜~\n")
		return
	}
	for i, e := range entries {
		fmt.Fprintf(b, "%d: %s | %d\n", i+1, e.Name, e.Score)
	}
}
