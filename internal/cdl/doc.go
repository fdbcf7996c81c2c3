// Package cdl parses ASC CDL grades out of lab metadata, validates them,
// caches resolved values per clip and materializes sidecar files for the
// color engine. Clips without a usable grade fall back to the identity CDL
// so a bad lab row never blocks a job.
package cdl
