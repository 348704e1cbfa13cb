// Package services defines shared utilities consumed by the document
// pipeline and the external integrations (Drive transport, LLM providers).
//
// Key responsibilities:
//   - Context helpers that stamp the file being processed and a run
//     correlation identifier for logging.
//   - Structured error markers plus the Wrap helper that classify failures
//     into fatal configuration errors, capability mismatches, and transient
//     per-file failures.
//
// Use these helpers when wiring new pipeline logic so operational behaviour
// (error handling, observability) stays uniform across the run.
package services
