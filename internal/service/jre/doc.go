// Package jre decides whether and how a Java runtime image is embedded in a
// bundle.
//
// An explicit runtime folder is copied verbatim. Otherwise a trimmed image is
// linked with jlink from the host JDK, after jdeps has worked out which
// modules the application and its libraries need. Linking for another
// platform is impossible, so that case degrades to a skipped stage.
package jre
