// Package patmatch provides typed pattern matching and a rule
// language built on it.
//
// The combinators are in package 'pattern', matchers and validators
// are in 'match', and rule sets are in 'rules'.  A command-line tool
// is in `cmd/patmatch`.
package patmatch
