package repository_test

import "database/sql/driver"

// sqlmockArgumentFunc adapts a plain func into a sqlmock.Argument matcher.
type sqlmockArgumentFunc func(v driver.Value) bool

func (f sqlmockArgumentFunc) Match(v driver.Value) bool { return f(v) }
