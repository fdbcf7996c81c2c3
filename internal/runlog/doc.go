// Package runlog keeps the SQLite-backed history of processing runs.
//
// Each run gets a UUID-keyed row with its settings and final counts, and
// every job records its terminal outcome under that run. The ledger feeds
// the end-of-run JSON processing report; it is never consulted for
// scheduling decisions.
package runlog
