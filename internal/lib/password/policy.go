// Package password реализует функции для безопасного хеширования и проверки паролей,
// а также единый набор правил сложности пароля.
//
// ValidatePolicy применяется везде, где принимается новый пароль:
// при регистрации, смене пароля в настройках и завершении сброса.
// Единая реализация исключает расхождение между подсказками клиента
// и серверной проверкой.
package password

import (
	"strings"
	"unicode"
)

// SpecialChars фиксированный набор специальных символов, один из которых
// обязан присутствовать в пароле. Набор продублирован в клиентских подсказках.
const SpecialChars = "!@#$%^&*()-_=+[]{};:,.?"

// MinLength минимальная длина пароля.
const MinLength = 8

// ValidatePolicy проверяет пароль-кандидат по всем правилам сложности
// и возвращает список нарушений в человеко-читаемом виде.
// Правила проверяются независимо, без короткого замыкания.
// Пароль считается валидным тогда и только тогда, когда список пуст.
func ValidatePolicy(candidate string) []string {
	var violations []string

	if len(candidate) < MinLength {
		violations = append(violations, "password must be at least 8 characters long")
	}

	var hasUpper, hasLower, hasDigit, hasSpecial bool
	for _, r := range candidate {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
		if strings.ContainsRune(SpecialChars, r) {
			hasSpecial = true
		}
	}

	if !hasUpper {
		violations = append(violations, "password must contain at least one uppercase letter")
	}
	if !hasLower {
		violations = append(violations, "password must contain at least one lowercase letter")
	}
	if !hasDigit {
		violations = append(violations, "password must contain at least one digit")
	}
	if !hasSpecial {
		violations = append(violations, "password must contain at least one special character")
	}

	return violations
}
