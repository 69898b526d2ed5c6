package publishers

import (
	"fmt"
	"strings"
)

// Logger is the structured logging surface audit sinks write to.
type Logger interface {
	InfoObj(msg, key string, obj interface{})
	DebugObj(msg, key string, obj interface{})
	WarnObj(msg, key string, obj interface{})
	ErrorObj(msg, key string, obj interface{})
}

type discardLogger struct{}

func (discardLogger) InfoObj(string, string, interface{})  {}
func (discardLogger) DebugObj(string, string, interface{}) {}
func (discardLogger) WarnObj(string, string, interface{})  {}
func (discardLogger) ErrorObj(string, string, interface{}) {}

func orDiscard(log Logger) Logger {
	if log == nil {
		return discardLogger{}
	}
	return log
}

// restyLogger feeds resty's printf-style diagnostics for one audit sink into
// the structured logger.
type restyLogger struct {
	publisherID string
	log         Logger
}

func (r restyLogger) fields(format string, v []interface{}) map[string]any {
	return map[string]any{
		"publisher_id": r.publisherID,
		"detail":       strings.TrimSpace(fmt.Sprintf(format, v...)),
	}
}

func (r restyLogger) Errorf(format string, v ...interface{}) {
	r.log.ErrorObj("audit http client error", "publisher_http_client", r.fields(format, v))
}

func (r restyLogger) Warnf(format string, v ...interface{}) {
	r.log.WarnObj("audit http client warning", "publisher_http_client", r.fields(format, v))
}

func (r restyLogger) Debugf(format string, v ...interface{}) {
	r.log.DebugObj("audit http client debug", "publisher_http_client", r.fields(format, v))
}
