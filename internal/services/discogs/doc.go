// Package discogs fetches release and artist records from the Discogs API
// and normalizes them into canonical structs.
//
// Decoding is safelist-based like the other catalog packages: recognized
// fields are normalized, the rest is ignored, and the untouched response
// body rides along for the raw archive. Durations arrive as "m:ss" strings
// and are converted to seconds. The release barcode is extracted from the
// identifiers list when an entry of type "Barcode" is present.
package discogs
