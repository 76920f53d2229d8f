// Package registry owns the process-wide call-site accounting state.
//
// For every intercepted transformation call the registry assigns the next
// sequence number for that call site's identity and reports the call's
// nesting depth. Depth is tracked per goroutine: a transformation that
// triggers another transformation on the same goroutine nests it one level
// deeper, while unrelated goroutines never see each other's nesting.
//
// The registry is the sole owner of counters. The filter engine and record
// emitter only read the descriptors it hands out.
package registry
