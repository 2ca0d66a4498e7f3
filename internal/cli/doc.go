// Package cli implements the confprog command-line interface.
//
// The sync command runs the extraction pipeline (fetch, parse, normalize)
// and saves the result through the persistence port. The sessions, speakers,
// and export commands read the stored program back and render it as a table,
// CSV, JSON, or an iCalendar file.
package cli
