// Package packaging contains the core domain types of a packaging run.
//
// It defines the target Platform and its resolution against the host, the
// per-run Context (what is being packaged and how), the mutable Artifacts
// references, the tagged stage Outcome, the Release manifest and the sentinel
// errors shared by every pipeline stage.
package packaging
