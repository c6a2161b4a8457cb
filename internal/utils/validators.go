package utils

import (
	"fmt"
	"net/mail"
	"regexp"
	"strings"
)

var (
	phoneCleanupRegex = regexp.MustCompile(`[^\d+]`)
	phoneRuRegex      = regexp.MustCompile(`^\+7\d{10}$`)
	phoneIntlRegex    = regexp.MustCompile(`^\+\d{10,15}$`)
)

// ValidatePhoneNumber проверяет и нормализует номер телефона.
// Российские номера приводятся к формату +7XXXXXXXXXX,
// международные с '+' принимаются как есть (10-15 цифр).
func ValidatePhoneNumber(phone string) (string, error) {
	phone = strings.TrimSpace(phone)
	if phone == "" {
		return "", fmt.Errorf("номер телефона пуст")
	}
	digits := phoneCleanupRegex.ReplaceAllString(phone, "")

	if strings.HasPrefix(digits, "+") {
		if strings.HasPrefix(digits, "+7") {
			if phoneRuRegex.MatchString(digits) {
				return digits, nil
			}
			return "", fmt.Errorf("номер должен быть в формате +7XXXXXXXXXX")
		}
		if phoneIntlRegex.MatchString(digits) {
			return digits, nil
		}
		return "", fmt.Errorf("неверный формат международного номера")
	}

	if len(digits) == 11 && (digits[0] == '8' || digits[0] == '7') {
		return "+7" + digits[1:], nil
	}
	if len(digits) == 10 {
		return "+7" + digits, nil
	}
	return "", fmt.Errorf("неверный формат номера телефона, укажите в формате +7XXXXXXXXXX или 8XXXXXXXXXX")
}

// ValidateEmail проверяет адрес почты и возвращает его без имени отправителя.
func ValidateEmail(email string) (string, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return "", fmt.Errorf("адрес почты пуст")
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || !strings.Contains(addr.Address, ".") {
		return "", fmt.Errorf("некорректный адрес почты: %s", email)
	}
	return addr.Address, nil
}

// IsKnownDistrict - входит ли район в список.
func IsKnownDistrict(district string, districts []string) bool {
	for _, d := range districts {
		if d == district {
			return true
		}
	}
	return false
}
