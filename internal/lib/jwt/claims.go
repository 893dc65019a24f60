// Package jwt реализует выпуск и проверку подписанных сессионных токенов
// с пользовательскими claim полями.
//
// Claims расширяет стандартные claims JWT, добавляя идентификатор субъекта,
// email и роль учётной записи.
package jwt

import (
	"time"
)

// Maker описывает интерфейс для выпуска и проверки сессионных токенов.
type Maker interface {
	// Issue выпускает токен для субъекта с указанными email и ролью.
	Issue(subjectID int64, email, role string) (string, error)
	// Verify проверяет подпись и срок действия токена, возвращает claims.
	Verify(tokenStr string) (*Claims, error)
}

// MakerImpl реализует интерфейс Maker с использованием секретного ключа
// и времени жизни токена (TTL).
type MakerImpl struct {
	secretKey string        // Секретный ключ для подписи токенов
	tokenTTL  time.Duration // Время жизни токена
}

// NewMaker создаёт новый экземпляр MakerImpl на основе секретного ключа и TTL.
func NewMaker(secretKey string, ttl time.Duration) *MakerImpl {
	return &MakerImpl{
		secretKey: secretKey,
		tokenTTL:  ttl,
	}
}
