// Package models contains GORM persistence models that map to database tables.
// Domain entities stay free of ORM tags; each model converts to and from its
// aggregate with ToDomain and FromDomain.
//
// Slice and map valued fields are stored as JSONB through the gorm json
// serializer. Tables are created by the SQL migrations under /migrations;
// AutoMigrate on these models is only used by tests against SQLite.
package models
