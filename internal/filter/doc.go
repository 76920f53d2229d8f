// Package filter decides, for one intercepted call, whether a record is
// emitted and at what verbosity.
//
// Evaluation is a fixed rule chain where the first applicable rule wins:
//
//	rule 1: any exclude fragment matches      -> suppress
//	rule 2: depth exceeds --depth             -> suppress
//	rule 3: sequence exceeds --count          -> suppress
//	rule 4: --all                             -> emit
//	rule 5: any path filter matches identity  -> emit
//	rule 6: any keyword matches               -> emit
//	rule 7: no positive filter applied        -> suppress
//
// The order is load-bearing: suppression rules run before any positive rule,
// so an exclude beats --all, and the caps beat every positive filter. The
// default is suppression; filtering is opt-in.
//
// Evaluate is total: any well-formed descriptor/spec pair produces a
// decision, never an error.
package filter
