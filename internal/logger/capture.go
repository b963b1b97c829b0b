package logger

import "encoding/json"

const defaultBufferSize = 500

// Entry is a parsed log entry retained for the logs endpoint.
type Entry struct {
	Timestamp string         `json:"timestamp"`
	Level     string         `json:"level"`
	Component string         `json:"component,omitempty"`
	Message   string         `json:"message"`
	Fields    map[string]any `json:"fields,omitempty"`
}

// Capture implements io.Writer and retains recent zerolog JSON entries in a
// ring buffer.
type Capture struct {
	buffer *RingBuffer[Entry]
}

// NewCapture creates a capture writer holding at most bufferSize entries.
func NewCapture(bufferSize int) *Capture {
	if bufferSize <= 0 {
		bufferSize = defaultBufferSize
	}
	return &Capture{buffer: NewRingBuffer[Entry](bufferSize)}
}

// Write receives a JSON log line from zerolog. Malformed lines are dropped.
func (c *Capture) Write(p []byte) (int, error) {
	entry, err := parseEntry(p)
	if err == nil {
		c.buffer.Push(entry)
	}
	return len(p), nil
}

// Recent returns the buffered entries, oldest first.
func (c *Capture) Recent() []Entry {
	return c.buffer.All()
}

func parseEntry(data []byte) (Entry, error) {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return Entry{}, err
	}

	entry := Entry{Fields: make(map[string]any)}

	if ts, ok := raw["time"].(string); ok {
		entry.Timestamp = ts
		delete(raw, "time")
	}
	if level, ok := raw["level"].(string); ok {
		entry.Level = level
		delete(raw, "level")
	}
	if component, ok := raw["component"].(string); ok {
		entry.Component = component
		delete(raw, "component")
	}
	if msg, ok := raw["message"].(string); ok {
		entry.Message = msg
		delete(raw, "message")
	}
	for k, v := range raw {
		entry.Fields[k] = v
	}

	return entry, nil
}
