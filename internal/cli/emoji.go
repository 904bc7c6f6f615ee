package cli

import (
	"github.com/yildizm/careminder/internal/emoji"
	"github.com/yildizm/careminder/internal/notify"
)

// GetEmoji is a wrapper for the shared emoji package
func GetEmoji(key string) string {
	return emoji.GetEmoji(key)
}

// GetSeverityEmoji returns the notification icon with fallback support
func GetSeverityEmoji(severity notify.Severity) string {
	switch severity {
	case notify.Error:
		return GetEmoji("error")
	case notify.Warning:
		return GetEmoji("warning")
	case notify.Info:
		return GetEmoji("info")
	default:
		return GetEmoji("success")
	}
}
