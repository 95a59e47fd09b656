// Package books manages the book collection database.
//
// Records arrive from OpenLibrary already normalized; this package owns the
// schema, the upsert engine keyed on the OpenLibrary external key, the
// many-to-many book/author links, the raw payload archive, and the
// denormalized read view the list command serves from. Every add runs as a
// single transaction so a constraint failure leaves nothing half-written.
package books
