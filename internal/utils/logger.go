package utils

import (
	"log"
	"strings"
)

// LogEvent prints a standardized log line keyed by module and action.
// Jangan log payload sensitif; message cukup ringkasan.
func LogEvent(requestID, module, action, message string) {
	msg := strings.TrimSpace(message)
	if msg == "" {
		return
	}
	log.Printf("[%s] action=%s request_id=%s msg=%s",
		strings.ToUpper(strings.TrimSpace(module)), action, strings.TrimSpace(requestID), msg)
}
