package validation

import (
	"fmt"
	"regexp"
)

// AccountIDPattern определяет допустимый формат идентификатора аккаунта
// Латинские буквы, цифры, "_", "-", "." и "@", длина 1-64
var AccountIDPattern = regexp.MustCompile(`^[a-zA-Z0-9_.@-]{1,64}$`)

// ZoneNamePattern определяет допустимое имя зоны
// Латинские буквы, цифры, "_" и "-", длина 1-64
var ZoneNamePattern = regexp.MustCompile(`^[a-zA-Z0-9_-]{1,64}$`)

// RecordIDPattern определяет допустимое имя записи; UUID подходит
var RecordIDPattern = regexp.MustCompile(`^[a-zA-Z0-9_.-]{1,128}$`)

// ValidateAccountID проверяет идентификатор аккаунта
func ValidateAccountID(accountID string) error {
	if accountID == "" {
		return fmt.Errorf("account id cannot be empty")
	}
	if !AccountIDPattern.MatchString(accountID) {
		return fmt.Errorf("account id %q must be 1-64 letters, digits or _.@-", accountID)
	}
	return nil
}

// ValidateZoneName проверяет имя зоны
func ValidateZoneName(zone string) error {
	if zone == "" {
		return fmt.Errorf("zone name cannot be empty")
	}
	if !ZoneNamePattern.MatchString(zone) {
		return fmt.Errorf("zone name %q must be 1-64 letters, digits, underscores or dashes", zone)
	}
	return nil
}

// ValidateRecordID проверяет имя записи
func ValidateRecordID(id string) error {
	if id == "" {
		return fmt.Errorf("record id cannot be empty")
	}
	if !RecordIDPattern.MatchString(id) {
		return fmt.Errorf("record id %q must be 1-128 letters, digits or _.-", id)
	}
	return nil
}
