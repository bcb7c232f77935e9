// Package models содержит доменную модель пользователя системы,
// включающую данные учётной записи, хэш пароля и профильные поля.
// Структуры используются в бизнес‑логике и при работе с хранилищем.
package models

import "time"

// User представляет зарегистрированного пользователя системы.
type User struct {
	UID          string    // Уникальный идентификатор пользователя
	Email        string    // Электронная почта (уникальная, хранится в нижнем регистре)
	PasswordHash string    // Хэш пароля пользователя, никогда не логируется и не отдается наружу
	FirstName    string    // Имя
	LastName     string    // Фамилия
	Phone        *string   // Телефон (опционально)
	Timezone     *string   // Часовой пояс (опционально)
	CreatedAt    time.Time // Дата регистрации
}

// DisplayName возвращает имя пользователя для отображения в интерфейсе и письмах.
func (u *User) DisplayName() string {
	return u.FirstName + " " + u.LastName
}
