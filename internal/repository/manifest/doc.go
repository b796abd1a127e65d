// Package manifest persists release manifests.
//
// A manifest is written next to the final artifacts of every run and lists
// their checksums together with who built them and how each stage ended.
package manifest
