// Package fsutil provides the file system operations the bundle builders
// share: idempotent directory creation, file and tree copies that preserve
// modes and symlinks, and marking tool folders executable.
package fsutil
