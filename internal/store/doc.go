// Package store persists research entities in SQLite.
//
// The Store manages database connections, schema initialization, and the
// create/read/delete surface for projects, personas, exercises, interviews,
// annotations, transcripts, and analyses. Child tables declare ON DELETE
// CASCADE foreign keys, so deleting a parent row removes its descendants in
// one statement; callers remain responsible for cleaning up audio artifact
// files, which live outside the database.
//
// Schema changes bump schemaVersion in schema.go; users clear the database
// to adopt the new schema.
package store
