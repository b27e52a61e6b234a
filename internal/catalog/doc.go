// Package catalog persists completed runs and their records in a local
// SQLite database so earlier runs remain available for review and
// export after the process exits.
package catalog
