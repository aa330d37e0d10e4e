// Package analyzer assembles a composite picture of a repository. It fans
// out to the independent fact fetches concurrently, tolerates failure of
// every fact except repository metadata, and derives features and scores
// from whatever was gathered.
package analyzer
