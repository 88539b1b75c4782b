// Package template implements the recursive {{...}} token resolver used to
// turn pattern, strategy and context bodies into fully-resolved text.
//
// Three token forms are recognized:
//
//	{{input}}                                  the caller's raw input
//	{{plugin:namespace:operation:argument}}    a plugin extension call
//	{{name}}                                   a caller-supplied variable
//
// Resolution is innermost-first and left-to-right over a flat buffer, so it
// is deterministic and testable. A replacement value may itself contain
// tokens; those are resolved on a subsequent sweep, which supports
// composition. Sweeps are bounded to guarantee termination against
// pathological or self-reproducing input.
package template
