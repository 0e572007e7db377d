// Package platform provides cross-platform file-mode handling for generated
// files. On Unix systems modes are applied with chmod. On Windows, which has
// no Unix permission bits, mode changes are skipped.
package platform
