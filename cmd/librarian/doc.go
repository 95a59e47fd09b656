// Command librarian catalogs a personal library: books via OpenLibrary,
// vinyl records via Discogs, and song lookups via Genius.
package main
