package main

import (
	"fmt"

	"github.com/nyaruka/phonenumbers"
)

// FormatToE164 normalizes a raw number to E.164. Numbers without a leading
// '+' are assumed to be NANP.
func FormatToE164(number string) (string, error) {
	if number == "" {
		return "", fmt.Errorf("empty number")
	}
	region := ""
	if number[0] != '+' {
		region = "US"
	}
	parsed, err := phonenumbers.Parse(number, region)
	if err != nil {
		return number, fmt.Errorf("unable to parse number %q: %w", number, err)
	}
	return phonenumbers.Format(parsed, phonenumbers.E164), nil
}

// StringInArray checks if a string exists in an array of strings
func StringInArray(target string, list []string) bool {
	for _, item := range list {
		if item == target {
			return true
		}
	}
	return false
}
