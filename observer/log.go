package observer

import (
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"
)

var (
	ErrRootData    = errors.New("avoid adding or deleting reactive properties on a root data object at runtime")
	ErrInvalidPath = errors.New("watcher only accepts simple dot-delimited paths")
	ErrPrimitive   = errors.New("cannot set reactive property on nil or primitive value")
)

var (
	logger     *zap.Logger
	loggerOnce sync.Once
)

// Logger returns the package logger used by Systems created without one.
// It is a no-op logger unless SetLogger was called.
func Logger() *zap.Logger {
	loggerOnce.Do(func() {
		if logger == nil {
			logger = zap.NewNop()
		}
	})
	return logger
}

// SetLogger replaces the package logger. Call it before creating Systems.
func SetLogger(l *zap.Logger) {
	if l == nil {
		l = zap.NewNop()
	}
	loggerOnce.Do(func() {})
	logger = l
}

func (s *System) warn(msg string, scope *Scope, fields ...zap.Field) {
	if s == nil {
		Logger().Warn(msg, fields...)
		return
	}
	if s.cfg.WarnHandler != nil {
		s.cfg.WarnHandler(msg, scope)
		return
	}
	if s.cfg.Silent {
		return
	}
	if scope != nil {
		fields = append(fields, zap.String("scope", scope.Name()))
	}
	s.logger.Warn(msg, fields...)
}

// Warn reports a development warning on behalf of scope through
// Config.WarnHandler or the logger.
func (s *System) Warn(msg string, scope *Scope, fields ...zap.Field) {
	s.warn(msg, scope, fields...)
}

// HandleError reports err raised in info (for example a watcher callback)
// on behalf of scope. ErrorCaptured hooks of the scope's ancestors see it
// first, nearest first; a hook returning false stops propagation. Otherwise
// it reaches Config.ErrorHandler, or the logger.
func (s *System) HandleError(err error, scope *Scope, info string) {
	// hooks may read reactive state; that must not subscribe whatever
	// watcher is running
	s.PauseTracking()
	defer s.ResumeTracking()

	if scope != nil {
		for cur := scope.parent; cur != nil; cur = cur.parent {
			for _, hook := range cur.errorCaptured {
				if !hook(err, scope, info) {
					return
				}
			}
		}
	}
	s.globalHandleError(err, scope, info)
}

func (s *System) globalHandleError(err error, scope *Scope, info string) {
	if s.cfg.ErrorHandler != nil {
		s.cfg.ErrorHandler(err, scope, info)
		return
	}
	fields := []zap.Field{zap.Error(err)}
	if scope != nil {
		fields = append(fields, zap.String("scope", scope.Name()))
	}
	s.logger.Error(fmt.Sprintf("error in %s", info), fields...)
}
