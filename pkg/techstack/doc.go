// Package techstack detects the technologies a repository uses from its
// top-level file listing and manifest contents. Detection is heuristic and
// best-effort: unknown files and unparseable manifests are ignored rather
// than reported as errors.
package techstack
