// Package record provides the foundational types for genprobe diagnostics.
//
// This package contains type definitions and their canonical serialization
// only. All other internal packages import record; record imports nothing
// internal. This keeps it the foundational layer with no circular
// dependencies.
//
// Key design constraints:
//   - NO float types anywhere - counts and positions are int/int64
//   - All JSON tags use snake_case
//   - Payload text is opaque; record never inspects it
//   - Record IDs are content-addressed from logical fields, so re-ingesting
//     the same diagnostic stream yields the same IDs
package record
