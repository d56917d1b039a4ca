// Package store persists loom entities in SQLite: projects, uploaded audio
// files, cleaned dialogues, narrative blueprints, and generated articles.
//
// Identifiers are UUID strings. Child rows always reference an existing
// project and are removed with it. Blueprint and article versions are
// assigned by the store inside a transaction (MAX(version)+1 per project),
// so "latest" is always well defined.
package store
