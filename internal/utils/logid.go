package utils

import (
	"maps"

	"github.com/sirupsen/logrus"
)

const logIDKey = "log_id"

// LogID marks the log lines the end to end tests look for.
type LogID int

const (
	UnknownLogID LogID = iota
	DryRunLogID
	PostExecLogID
	DryRunExecLogID
	LayoutAppliedLogID
	LayoutNotApplicableLogID
	LayoutUnchangedLogID
)

// WithLogID returns a copy of fields tagged with id.
func WithLogID(fields logrus.Fields, id LogID) logrus.Fields {
	tagged := make(logrus.Fields, len(fields)+1)
	maps.Copy(tagged, fields)
	tagged[logIDKey] = id
	return tagged
}
