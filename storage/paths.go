package storage

import (
	"fmt"
	"path/filepath"
	"time"
)

const fileTimestampLayout = "2006-01-02_15-04-05"

// Output file prefixes.
const (
	ListingsFilePrefix = "property_update"
	SalesFilePrefix    = "recent_sales"
)

// TimestampedPath returns "<dir>/<prefix>(<YYYY-MM-DD_HH-MM-SS>).csv".
func TimestampedPath(dir, prefix string, t time.Time) string {
	return filepath.Join(dir, fmt.Sprintf("%s(%s).csv", prefix, t.Format(fileTimestampLayout)))
}
