package jwt

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Ошибки проверки токена. Граница HTTP сопоставляет их всем одному
// ответу 401, различие нужно логам и тестам.
var (
	// ErrTokenExpired — срок действия токена истёк.
	ErrTokenExpired = errors.New("token expired")
	// ErrTokenMalformed — строка не разбирается как JWT.
	ErrTokenMalformed = errors.New("token malformed")
	// ErrTokenSignatureInvalid — подпись не совпадает или алгоритм подписи
	// отличается от ожидаемого сервером.
	ErrTokenSignatureInvalid = errors.New("token signature invalid")
)

// Claims описывает данные субъекта, хранящиеся в сессионном токене.
type Claims struct {
	Email                string `json:"email"` // Email субъекта
	Role                 string `json:"role"`  // Роль субъекта
	jwt.RegisteredClaims        // Стандартные claims (Subject, ExpiresAt, IssuedAt)
}

// SubjectID возвращает идентификатор субъекта из стандартного поля Subject.
func (c *Claims) SubjectID() (int64, error) {
	id, err := strconv.ParseInt(c.Subject, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("jwt.SubjectID: %w", err)
	}
	return id, nil
}

// Issue выпускает токен HS256 с заданными субъектом, email и ролью.
// Повторный вызов с теми же аргументами даёт другой токен: IssuedAt меняется.
func (j *MakerImpl) Issue(subjectID int64, email, role string) (string, error) {
	const op = "jwt.Issue"
	now := time.Now()
	claims := Claims{
		Email: email,
		Role:  role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(subjectID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(j.tokenTTL)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(j.secretKey))
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return signed, nil
}

// Verify парсит токен, проверяет алгоритм подписи, саму подпись и срок
// действия. Токен с любым алгоритмом кроме HMAC отклоняется до проверки
// подписи.
func (j *MakerImpl) Verify(tokenStr string) (*Claims, error) {
	const op = "jwt.Verify"
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrTokenSignatureInvalid
		}
		return []byte(j.secretKey), nil
	})
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, fmt.Errorf("%s: %w", op, ErrTokenExpired)
		case errors.Is(err, jwt.ErrTokenSignatureInvalid), errors.Is(err, ErrTokenSignatureInvalid):
			return nil, fmt.Errorf("%s: %w", op, ErrTokenSignatureInvalid)
		default:
			return nil, fmt.Errorf("%s: %w", op, ErrTokenMalformed)
		}
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("%s: %w", op, ErrTokenMalformed)
	}
	return claims, nil
}
