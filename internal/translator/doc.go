// Package translator orchestrates subtitle translation.
//
// A translation run parses the source SRT, plans chunks, and translates all
// chunks concurrently against a Backend. Each chunk reply is decoded and
// validated before it is accepted: the reply must cover exactly the segment
// numbers that were sent. A chunk whose reply fails validation is retried
// with a fresh request up to the configured attempt limit, with a linearly
// growing delay between attempts. Backend failures are not retried here;
// transport-level retries live in the backend itself.
//
// Results are reassembled in chunk order and checked once more against the
// full segment list before the translated SRT is rendered.
//
// Progress is reported through a callback that always receives monotonically
// increasing counts and a final 100% event, even for empty inputs.
package translator
