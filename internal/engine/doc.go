// Package engine computes product costs for a production plan.
//
// Every exported function is a pure computation over a snapshot:
//
//	inflate (compound monthly rates from the cost-base month to the target month)
//	adjust  (apply at most one what-if scenario)
//	allocate (spread SP by labor minutes, GIF and DEP by kilograms)
//	aggregate (period totals and weighted average cost per kilogram)
//
// Calls share no state and may run concurrently.
package engine
