// Package openlibrary fetches book, author, and work records from the
// OpenLibrary API and normalizes them into canonical structs.
//
// Normalization is safelist-based: only recognized response fields are
// decoded, everything else is ignored, and the untouched response body is
// kept on each entity for the raw archive. External keys arrive as
// "/type/id" paths; a key that does not match that shape fails the whole
// parse with ErrMalformedKey since the entity cannot be identified without
// it. All other missing or empty fields degrade to their zero values.
package openlibrary
