package logger

import "strings"

// RedactEmail masks the local part of an email address so that audit and
// error logs never carry a full address: "alice@example.com" becomes
// "a***@example.com". Values without an '@' are fully masked.
func RedactEmail(email string) string {
	at := strings.IndexByte(email, '@')
	if at <= 0 {
		return "***"
	}
	return email[:1] + "***" + email[at:]
}
