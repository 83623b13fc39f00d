// Package goadjacent finds the records next to, before and around a
// reference record under the record type's declared ordering.
//
// Overview
//
// A declared ordering such as ("created", "-score") is extended with a unique
// tiebreaker column ("id" by default) so that the order is total. For a
// reference record the library builds a keyset predicate in disjunctive normal
// form:
//
//	(created > v1) OR (created = v1 AND score < v2) OR (created = v1 AND score = v2 AND id > v3)
//
// and hands it, together with the ordering and a limit, to a Dataset.
//
// Key concepts
//   - Navigator: holds the ordering, tiebreaker, getters and scope for a record
//     type and runs uncached seeks.
//   - Record: wraps a reference value and memoizes next/previous lookups.
//   - Getters: maps ordering columns to typed accessors of the record type.
//   - Dataset: the query collaborator. GORMDataset renders SQL through GORM,
//     MemoryDataset evaluates the same predicate over a slice.
//
// Columns whose reference value is absent (nil, a nil pointer or a
// driver.Valuer returning nil) are left out of the predicate for that lookup.
package goadjacent
