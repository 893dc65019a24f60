// Package services реализует сопоставление идентификаторов вендора
// и движок реконсиляции чек-листов с таблицей ответов анкет.
package services

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
)

var allDigits = regexp.MustCompile(`^[0-9]+$`)

// VendorLinkRepository описывает поиск внутреннего ключа по внешнему
// идентификатору вендора.
type VendorLinkRepository interface {
	FindVendorInternalID(ctx context.Context, externalID string) (int64, error)
}

// Resolver переводит внешний идентификатор вендора во внутренний суррогатный
// ключ. Результат запоминается на время одного запроса: повторное разрешение
// того же идентификатора не обращается к хранилищу и не может разойтись
// с первым, если таблица связок изменится посреди запроса. Между запросами
// Resolver не переиспользуется.
type Resolver struct {
	links VendorLinkRepository
	memo  map[string]int64
}

// NewResolver создаёт Resolver со сроком жизни в один запрос.
func NewResolver(links VendorLinkRepository) *Resolver {
	return &Resolver{
		links: links,
		memo:  make(map[string]int64),
	}
}

// Resolve возвращает внутренний ключ вендора. Полностью числовой
// идентификатор считается уже внутренним и возвращается без обращения
// к хранилищу. Отсутствующая связка — ошибка, новый ключ не придумывается.
func (r *Resolver) Resolve(ctx context.Context, externalID string) (int64, error) {
	const op = "services.reconcile.Resolve"

	if allDigits.MatchString(externalID) {
		// Число, не помещающееся в int64, внутренним ключом быть не может:
		// такой идентификатор ищется в хранилище как внешний.
		if id, err := strconv.ParseInt(externalID, 10, 64); err == nil {
			return id, nil
		}
	}

	if id, ok := r.memo[externalID]; ok {
		return id, nil
	}

	id, err := r.links.FindVendorInternalID(ctx, externalID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	r.memo[externalID] = id
	return id, nil
}
