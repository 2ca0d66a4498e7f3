// Package program defines the conference program domain model and the
// normalizer that builds it from parsed records.
//
// The normalizer is the only component that constructs entities. It resolves
// raw speaker and room text against per-run registries keyed by normalized
// name, parses time text into the configured reference timezone, and
// de-duplicates sessions by their page-assigned source id. Data-quality
// problems never abort a run; they are accumulated as Warnings on the emitted
// Program. Once emitted, a Program is a read-only value: consumers render or
// persist it but never mutate it.
package program
