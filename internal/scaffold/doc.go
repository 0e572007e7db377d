// Package scaffold materializes a plan into a target directory. It powers
// "stamp new": every entry path is checked to stay inside the target root,
// templated entries are rendered, and only then are directories created and
// files written, each one atomically through a temp file and rename.
//
// A run is fail-fast and not transactional. The first failing entry aborts
// the run and is reported by index and path; files already written stay.
package scaffold
