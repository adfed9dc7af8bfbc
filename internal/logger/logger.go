// Package logger defines the structured logger used by the statement runner.
package logger

import "log/slog"

// Logger receives key-value structured records.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// Discard drops every record. It is the runner's default.
type Discard struct{}

func (Discard) Debug(string, ...any) {}
func (Discard) Info(string, ...any)  {}
func (Discard) Warn(string, ...any)  {}
func (Discard) Error(string, ...any) {}

// Slog forwards records to a *slog.Logger.
type Slog struct {
	l *slog.Logger
}

// FromSlog adapts l. A nil l yields a Discard logger.
func FromSlog(l *slog.Logger) Logger {
	if l == nil {
		return Discard{}
	}
	return &Slog{l: l}
}

func (s *Slog) Debug(msg string, args ...any) { s.l.Debug(msg, args...) }
func (s *Slog) Info(msg string, args ...any)  { s.l.Info(msg, args...) }
func (s *Slog) Warn(msg string, args ...any)  { s.l.Warn(msg, args...) }
func (s *Slog) Error(msg string, args ...any) { s.l.Error(msg, args...) }
