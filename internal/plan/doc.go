// Package plan handles loading and validation of scaffold plans. A plan is an
// ordered list of files (relative path plus content) with a little metadata:
// name, version, an optional constraint on the stamp version, template
// variables, and the commit message used when the generated tree is put
// under version control.
//
// Plans are authored as YAML or as JSON with comments (JSONC). Built-in
// plans are embedded in the binary under builtin/<name>/plan.yaml.
package plan
