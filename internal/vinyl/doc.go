// Package vinyl manages the vinyl record collection database.
//
// Releases and artists arrive from Discogs already normalized. This package
// owns the schema, the upsert engine keyed on Discogs ids, the record/artist
// and band/member links, per-release tracklists, the raw payload archives,
// and the denormalized read view. Discogs hands artists back in three
// shapes (full artist, release credit, band member) that each carry a
// different subset of fields; the artist upsert only writes the fields the
// given shape actually has.
package vinyl
