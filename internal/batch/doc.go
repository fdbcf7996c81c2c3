// Package batch plans and executes a stills processing run.
//
// The orchestrator scans the input folder, turns each TIFF into a job with
// its clip identity, merged metadata record and destination name, then feeds
// fixed-size batches to a pool of workers. Each worker carries its own CDL
// resolver, sidecar cache, font and logo caches, so the hot path never takes
// a lock. A job failure is recorded and the run continues; the summary and
// process exit status report the damage at the end.
//
// Resume needs no ledger beyond the output folder itself: a job whose
// deliverable exists is dropped at planning time.
package batch
