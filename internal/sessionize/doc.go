// Package sessionize parses Sessionize schedule pages into flat,
// unvalidated string records.
//
// The package isolates all markup fragility behind two pure functions,
// ParseProgram and ParseSpeakers, which take raw HTML and return intermediate
// records in document order. Field-level gaps (a session without a room, a
// speaker without a tagline) are preserved as empty strings so that
// normalization can decide policy; only a missing top-level list container is
// treated as fatal, since it means the upstream markup changed shape.
package sessionize
