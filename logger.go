package adapters

import (
	"fmt"
	"log"
	"strings"
	"sync"
)

// opLogger logs one line per CRUD operation when debug logging is enabled.
// Logged values are limited to what the caller already supplied as query
// input: the resolved table, the normalized clause list and the outcome
// shape.
type opLogger struct {
	mu      sync.RWMutex
	enabled bool
}

func newOpLogger(enabled bool) *opLogger {
	return &opLogger{enabled: enabled}
}

func (l *opLogger) isEnabled() bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.enabled
}

// SetEnabled switches debug logging on or off at runtime.
func (l *opLogger) SetEnabled(enabled bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.enabled = enabled
}

func (l *opLogger) logOp(op, table string, where []Condition, outcome string) {
	if !l.isEnabled() {
		return
	}
	log.Printf("[threads] [%s] table=%s where=%s %s", op, table, formatWhere(where), outcome)
}

func formatWhere(where []Condition) string {
	if len(where) == 0 {
		return "(none)"
	}
	parts := make([]string, 0, len(where))
	for i, c := range where {
		clause := fmt.Sprintf("%s %s %v", c.Field, c.Operator, c.Value)
		if i > 0 {
			clause = string(c.Connector) + " " + clause
		}
		parts = append(parts, clause)
	}
	return "[" + strings.Join(parts, " ") + "]"
}
