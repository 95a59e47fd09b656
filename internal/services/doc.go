// Package services holds the error taxonomy shared by the catalog API
// clients and the collection stores.
//
// Every failure a command can hit maps onto one of four sentinels: the
// remote catalog was unreachable or answered non-2xx (ErrTransport), a
// response could not be normalized (ErrMalformed), a lookup legitimately
// found nothing (ErrNotFound), or the local database rejected a write
// (ErrStorage). The command boundary only needs errors.Is against these to
// phrase its exit message; everything else bubbles up wrapped.
package services
