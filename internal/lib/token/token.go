// Package token реализует генерацию непредсказуемых токенов сброса пароля.
package token

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

// byteLength длина токена в байтах, 32 байта дают 256 бит энтропии.
const byteLength = 32

// New возвращает криптографически случайный токен в hex-кодировке.
func New() (string, error) {
	const op = "token.New"
	buf := make([]byte, byteLength)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return hex.EncodeToString(buf), nil
}
