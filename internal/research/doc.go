// Package research defines the entity model shared by the store, the
// capture flow, and the HTTP surface.
//
// The hierarchy is Project -> Persona -> ResearchExercise -> Interview;
// interviews own annotations, at most one transcript, and any number of
// AI analyses. Interview lifecycle statuses and exercise types are closed
// enumerations so illegal values are caught at the boundary instead of
// leaking into the database.
//
// Treat this package as the single source of truth for entity semantics;
// when you add statuses or fields, update store/schema.sql and bump its
// schemaVersion.
package research
