package httpclient

import (
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/rs/zerolog"
)

// New returns a standard *http.Client backed by retryablehttp. retryMax 0
// sends every request exactly once.
func New(timeout time.Duration, retryMax int, log zerolog.Logger) *http.Client {
	jar, _ := cookiejar.New(nil)

	retryClient := retryablehttp.NewClient()
	retryClient.RetryMax = retryMax
	retryClient.HTTPClient = &http.Client{
		Jar:     jar,
		Timeout: timeout,
	}
	retryClient.Logger = leveledLogger{log: log}
	// Hand the final response back to the caller instead of an error so
	// status handling stays with the caller.
	retryClient.ErrorHandler = retryablehttp.PassthroughErrorHandler

	return retryClient.StandardClient()
}

// leveledLogger adapts zerolog to retryablehttp.LeveledLogger.
type leveledLogger struct {
	log zerolog.Logger
}

func (l leveledLogger) Error(msg string, keysAndValues ...interface{}) {
	l.event(l.log.Error(), keysAndValues).Msg(msg)
}

func (l leveledLogger) Warn(msg string, keysAndValues ...interface{}) {
	l.event(l.log.Warn(), keysAndValues).Msg(msg)
}

func (l leveledLogger) Info(msg string, keysAndValues ...interface{}) {
	l.event(l.log.Debug(), keysAndValues).Msg(msg)
}

func (l leveledLogger) Debug(msg string, keysAndValues ...interface{}) {
	l.event(l.log.Trace(), keysAndValues).Msg(msg)
}

func (l leveledLogger) event(e *zerolog.Event, keysAndValues []interface{}) *zerolog.Event {
	for i := 0; i+1 < len(keysAndValues); i += 2 {
		key := fmt.Sprint(keysAndValues[i])
		switch v := keysAndValues[i+1].(type) {
		case *http.Request:
			e = e.Str(key, v.Method+" "+v.URL.String())
		case error:
			e = e.AnErr(key, v)
		default:
			e = e.Interface(key, v)
		}
	}
	return e
}
