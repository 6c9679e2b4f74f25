package models

import "strings"

// phoneMask is the input mask for phone numbers; '0' takes one digit.
const phoneMask = "+7 000 000-00-00"

// NormalizePhone lays the digits of raw into the phone mask. A leading
// country digit 7 or 8 on an 11-digit input is dropped since the mask
// already carries +7. Fewer digits give a partially filled mask, which
// then fails validation.
func NormalizePhone(raw string) string {
	digits := make([]byte, 0, len(raw))
	for i := 0; i < len(raw); i++ {
		if raw[i] >= '0' && raw[i] <= '9' {
			digits = append(digits, raw[i])
		}
	}
	if len(digits) == 0 {
		return ""
	}
	if len(digits) == 11 && (digits[0] == '7' || digits[0] == '8') {
		digits = digits[1:]
	}

	var b strings.Builder
	b.WriteString(phoneMask[:3])
	for i := 3; i < len(phoneMask) && len(digits) > 0; i++ {
		if phoneMask[i] == '0' {
			b.WriteByte(digits[0])
			digits = digits[1:]
			continue
		}
		b.WriteByte(phoneMask[i])
	}
	return b.String()
}
