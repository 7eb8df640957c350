package logger

import (
	"strings"

	"github.com/sirupsen/logrus"
)

const maskValue = "******"

// MaskHook replaces the value of sensitive fields before an entry is written.
type MaskHook struct {
	fields map[string]struct{}
}

// NewMaskHook creates a hook masking the given field names, case-insensitively.
func NewMaskHook(fields []string) *MaskHook {
	h := &MaskHook{fields: make(map[string]struct{}, len(fields))}
	for _, f := range fields {
		h.fields[strings.ToLower(f)] = struct{}{}
	}
	return h
}

// Levels returns all log levels
func (h *MaskHook) Levels() []logrus.Level {
	return logrus.AllLevels
}

// Fire masks sensitive fields of the entry in place
func (h *MaskHook) Fire(entry *logrus.Entry) error {
	for key, value := range entry.Data {
		if value == nil {
			continue
		}
		if h.sensitive(key) {
			entry.Data[key] = maskValue
		}
	}
	return nil
}

func (h *MaskHook) sensitive(key string) bool {
	key = strings.ToLower(key)
	if _, ok := h.fields[key]; ok {
		return true
	}
	// nested keys such as "data.redis.password"
	if i := strings.LastIndexByte(key, '.'); i >= 0 {
		_, ok := h.fields[key[i+1:]]
		return ok
	}
	return false
}
