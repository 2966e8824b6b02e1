// Package rlog is the relay's logging helper: a thin wrapper over the
// standard log package, grounded on the teacher's logInfo/logError
// pattern (websocket/websocket.go). No structured-logging library is
// introduced — the teacher never reaches for one despite an otherwise
// dependency-heavy stack, and there's nothing in the example pack to
// ground one on.
package rlog

import "log"

func Info(msg string, fields map[string]any) {
	log.Printf("[INFO] %s | %v", msg, fields)
}

func Error(msg string, err error, fields map[string]any) {
	log.Printf("[ERROR] %s: %v | %v", msg, err, fields)
}

func Warn(msg string, fields map[string]any) {
	log.Printf("[WARN] %s | %v", msg, fields)
}
