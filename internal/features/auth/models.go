// Package auth реализует проверку прав администратора чата.
// models.go описывает кэшированный список администраторов.
package auth

import "time"

// AdminSet — кэшированный список администраторов одного чата
// с отметкой времени получения.
type AdminSet struct {
	IDs       map[int64]struct{}
	FetchedAt time.Time
}

// NewAdminSet строит AdminSet из списка идентификаторов.
func NewAdminSet(ids []int64, fetchedAt time.Time) *AdminSet {
	set := &AdminSet{
		IDs:       make(map[int64]struct{}, len(ids)),
		FetchedAt: fetchedAt,
	}
	for _, id := range ids {
		set.IDs[id] = struct{}{}
	}
	return set
}

// Contains проверяет членство пользователя.
func (s *AdminSet) Contains(userID int64) bool {
	_, ok := s.IDs[userID]
	return ok
}

// Fresh сообщает, можно ли ещё доверять этому списку.
// Список старше TTL считается протухшим и должен быть перечитан.
func (s *AdminSet) Fresh(ttl time.Duration, now time.Time) bool {
	return now.Sub(s.FetchedAt) < ttl
}
