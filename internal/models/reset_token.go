package models

import "time"

// PasswordResetToken представляет один незавершенный запрос на сброс пароля.
// Токен действителен, пока существует запись и не наступил ExpiresAt.
// Потребление токена выражается удалением записи, отдельного флага "использован" нет.
type PasswordResetToken struct {
	Token     string    // Случайный токен (256 бит энтропии, hex)
	UserUID   string    // Владелец токена
	ExpiresAt time.Time // Момент истечения срока действия
}

// Expired сообщает, истек ли срок действия токена на момент now.
func (t *PasswordResetToken) Expired(now time.Time) bool {
	return now.After(t.ExpiresAt)
}
