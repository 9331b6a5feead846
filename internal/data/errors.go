package data

import "errors"

// ErrDatabaseRequired is returned when an AnalyticsRepo is used without a database.
var ErrDatabaseRequired = errors.New("analytics database is not configured")
