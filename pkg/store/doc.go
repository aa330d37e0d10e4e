// Package store implements the keyed, time-expiring store of analysis
// records. Entries carry access counters for ranking and analytics. Expiry
// is enforced lazily on read and in bulk via Sweep; there is no background
// eviction timer.
package store
