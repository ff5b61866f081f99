// Package widgets defines the contract renderers bind against. Each layout
// kind maps to one concrete Control that reads its display value from a
// values.Store and applies raw user input: counters and ranges clamp out of
// bound input instead of rejecting it, text strips markup, and malformed
// input surfaces as a *ValidationError for the single widget concerned.
package widgets
