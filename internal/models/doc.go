// Package models defines domain entities and persistence interfaces for the shelf client.
//
// The package contains two categories of types:
//
// 1. Data Transfer Objects (DTOs): normalized records from the backend services
//   - [User] : The authenticated account identity
//   - [Book] : A catalog record after gateway normalization
//   - [ListEntry] : A per-user reading-list record
//   - [ShelfItem] : A list entry joined with its catalog book
//   - [Activity], [Goal], [Stat] : read-mostly aggregate records
//
// 2. Persistent Entities: locally cached records with lifecycle management
//   - [CachedBook] : A catalog book stored in the local SQLite cache
//
// Persistent entities implement the Model interface providing ID generation,
// timestamps, validation, and soft delete support. The Repository[T] interface
// defines standard CRUD operations for database access.
package models
