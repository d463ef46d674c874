// Package logger wraps zap for distpack:
//   - a global sugared logger writing console lines to stderr,
//   - context helpers (ToContext/FromContext/WithName/WithKV),
//   - level parsing for the --log-level flag,
//   - shortcuts such as Infof and ErrorKV that read the logger from a context.
//
// Stdout is left to command output (descriptor YAML, check findings), so
// every log line goes to stderr.
package logger
