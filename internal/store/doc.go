// Package store persists extracted conference programs.
//
// The Store interface is the narrow port the pipeline writes through; the
// concrete backend (single-file JSON snapshot or SQLite database) is chosen
// by configuration and is interchangeable. Both backends round-trip the
// entity sets losslessly, keyed by the identities the domain model defines:
// sessions by source id, speakers and rooms by normalized name. Warnings are
// run metadata and are never persisted.
package store
