package mpmedia

import "github.com/sirupsen/logrus"

type logger struct {
	enabled bool
}

func (l logger) logf(format string, args ...interface{}) {
	if l.enabled {
		logrus.Infof(format, args...)
	}
}

func (l logger) warnf(format string, args ...interface{}) {
	if l.enabled {
		logrus.Warnf(format, args...)
	}
}

func (l logger) debugf(format string, args ...interface{}) {
	if l.enabled {
		logrus.Debugf(format, args...)
	}
}
