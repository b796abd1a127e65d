// Package logger wraps zap to offer:
//   - a global sugared logger with a console encoder writing to stderr,
//   - context helpers (ToContext/FromContext/WithName/WithKV),
//   - a shared atomic level and a parser for level names,
//   - convenience functions (Infof, WarnKV, etc.).
//
// A packaging run derives its own scoped logger and passes it down through
// the context, so every stage logs with the run's name and target platform.
package logger
