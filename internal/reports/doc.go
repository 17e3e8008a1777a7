// Package reports parses Excel reports exported from the Mano Dienynas
// school record system into the canonical record model.
//
// Two export types are supported: the achievement/attendance summary, which
// carries finalized trimester or semester marks for the current academic
// year, and the averages report, which carries in-progress averages over an
// explicit date window. The column layout of each type is a versioned wire
// format owned by the exporter; this package depends on it but does not own
// it.
//
// Parsing is lazy: a parser validates the file headers eagerly, then hands
// out a RecordScanner that walks pupil rows on demand. Re-invoking Records
// restarts the sequence from the top; scanners share no cursor state.
package reports
