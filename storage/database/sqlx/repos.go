// Package sqlxrepos implements the core repositories on PostgreSQL via sqlx.
package sqlxrepos

import "strings"

// list columns (tags, skills, badges...) are stored as comma-separated text.

func joinList(vals []string) string {
	return strings.Join(vals, ",")
}

func splitList(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, ",")
}

func joinWhere(clauses []string) string {
	return strings.Join(clauses, " AND ")
}
