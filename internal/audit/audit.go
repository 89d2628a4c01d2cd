// Package audit records security-relevant events. The sink is
// fire-and-forget: recording never fails the request that triggered it.
package audit

import (
	"tally/internal/models"

	"github.com/sirupsen/logrus"
)

// Action identifies the kind of audited event
type Action string

const (
	ActionLogin       Action = "login"
	ActionLoginFailed Action = "login_failed"
	ActionRegister    Action = "register"
	ActionEntryCreate Action = "entry_create"
	ActionEntryUpdate Action = "entry_update"
	ActionEntryDelete Action = "entry_delete"
)

// Logger writes audit events as structured log entries
type Logger struct {
	log *logrus.Logger
}

// NewLogger creates an audit logger on top of the given logrus logger
func NewLogger(log *logrus.Logger) *Logger {
	return &Logger{log: log}
}

// Record writes one audit event for an authenticated actor
func (l *Logger) Record(actor *models.User, action Action, fields logrus.Fields) {
	if fields == nil {
		fields = logrus.Fields{}
	}
	fields["audit"] = true
	fields["action"] = string(action)
	if actor != nil {
		fields["actor_id"] = actor.ID.String()
		fields["actor_role"] = string(actor.Role)
	}
	l.log.WithFields(fields).Info("audit event")
}

// RecordAnonymous writes one audit event with no resolved actor,
// used for failed logins and registrations.
func (l *Logger) RecordAnonymous(action Action, fields logrus.Fields) {
	l.Record(nil, action, fields)
}
