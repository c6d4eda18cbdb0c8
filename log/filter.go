// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package log

// Option configures a Filter.
type Option func(*Filter)

// FilterLevel sets the minimum level that passes through the filter.
func FilterLevel(level Level) Option {
	return func(f *Filter) { f.level = level }
}

// Filter wraps a Logger and drops records below a configured level.
type Filter struct {
	logger Logger
	level  Level
}

// NewFilter returns a Logger that only forwards records at level >= the
// configured minimum.
func NewFilter(logger Logger, opts ...Option) Logger {
	f := &Filter{logger: logger, level: LevelDebug}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Log implements Logger.
func (f *Filter) Log(level Level, keyvals ...interface{}) error {
	if level < f.level {
		return nil
	}
	return f.logger.Log(level, keyvals...)
}
