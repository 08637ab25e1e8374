package logsvc

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/rollbar/rollbar-go"
	"github.com/rollbar/rollbar-go/errors"

	"github.com/stratosedge/portal/core"
	"github.com/stratosedge/portal/core/account"
)

type RollbarLogger struct {
	std *log.Logger
}

var _ core.Logger = (*RollbarLogger)(nil)

func NewRollbarLogger(std *log.Logger, conf *core.Config) *RollbarLogger {
	rollbar.SetToken(conf.RollbarToken)
	rollbar.SetEnvironment(conf.Env)
	rollbar.SetServerHost(conf.Server.Host)
	rollbar.SetCodeVersion(conf.Build)
	rollbar.SetStackTracer(errors.StackTracer)
	rollbar.SetEnabled(conf.RollbarToken != "" && !conf.TestMode)
	return &RollbarLogger{std: std}
}

func (l RollbarLogger) Enable(enabled bool) {
	rollbar.SetEnabled(enabled)
}

// logEntry is a log call split into what Rollbar reports and the session it concerns.
type logEntry struct {
	msg    string
	errs   []error
	other  []interface{}
	extras map[string]interface{}
	sess   *account.Session
}

// newLogEntry sorts args: errors, extra data maps (merged, later keys win),
// the first account.Session (reported as the person, its ID and start as extra data) and anything else.
func newLogEntry(msg string, args []interface{}) logEntry {
	e := logEntry{msg: msg}
	for _, arg := range args {
		switch v := arg.(type) {
		case account.Session:
			if e.sess == nil {
				sess := v
				e.sess = &sess
			}
		case map[string]interface{}:
			if e.extras == nil {
				e.extras = make(map[string]interface{}, len(v)+2)
			}
			for k, val := range v {
				e.extras[k] = val
			}
		case error:
			e.errs = append(e.errs, v)
		default:
			e.other = append(e.other, v)
		}
	}
	if e.sess != nil {
		if e.extras == nil {
			e.extras = make(map[string]interface{}, 2)
		}
		e.extras["session_id"] = e.sess.ID
		e.extras["session_started_at"] = e.sess.StartedAt.Format(time.RFC3339)
	}
	return e
}

// rollbarArgs sets the Rollbar person and returns the arguments of the rollbar call.
// rollbar-go keeps a single extras map per item, so all extra data travels in one.
func (e logEntry) rollbarArgs() []interface{} {
	if e.sess != nil {
		rollbar.SetPerson(e.sess.UID, e.sess.DisplayName, e.sess.Email)
	} else {
		rollbar.ClearPerson()
	}
	args := make([]interface{}, 0, len(e.errs)+len(e.other)+2)
	args = append(args, e.msg)
	for _, err := range e.errs {
		args = append(args, err)
	}
	args = append(args, e.other...)
	if e.extras != nil {
		args = append(args, e.extras)
	}
	return args
}

// lines renders the entry for the std logger: the message tagged with the session, then one line per arg.
func (e logEntry) lines() []string {
	head := e.msg
	if e.sess != nil {
		head = fmt.Sprintf("%s [session=%s uid=%s]", e.msg, e.sess.ID, e.sess.UID)
	}
	lines := []string{head}
	for _, err := range e.errs {
		lines = append(lines, fmt.Sprintf("%+v", err))
	}
	for _, arg := range e.other {
		lines = append(lines, fmt.Sprintf("%+v", arg))
	}
	for k, v := range e.extras {
		if strings.HasPrefix(k, "session_") && e.sess != nil {
			continue
		}
		lines = append(lines, fmt.Sprintf("%s=%+v", k, v))
	}
	return lines
}

func (l RollbarLogger) print(e logEntry) {
	for _, line := range e.lines() {
		l.std.Println(line)
	}
}

func (l RollbarLogger) Debug(msg string, args ...interface{}) {
	e := newLogEntry(msg, args)
	rollbar.Debug(e.rollbarArgs()...)
	l.print(e)
}

func (l RollbarLogger) Info(msg string, args ...interface{}) {
	e := newLogEntry(msg, args)
	rollbar.Info(e.rollbarArgs()...)
	l.print(e)
}

func (l RollbarLogger) Warn(msg string, args ...interface{}) {
	e := newLogEntry(msg, args)
	rollbar.Warning(e.rollbarArgs()...)
	l.print(e)
}

func (l RollbarLogger) Error(msg string, args ...interface{}) {
	e := newLogEntry(msg, args)
	rollbar.Error(e.rollbarArgs()...)
	l.print(e)
}

func (l RollbarLogger) Fatal(msg string, args ...interface{}) {
	e := newLogEntry(msg, args)
	rollbar.Critical(e.rollbarArgs()...)
	l.print(e)
	l.std.Fatal(msg)
}
