// Package param models the parameter boundary of the pulse compiler: the
// declarations a template publishes (name, optional bounds, optional default)
// and the bindings a caller supplies at compile time (name to numeric value).
//
// The compiler core only consumes this contract; it never stores or schedules
// parameter values itself.
package param
