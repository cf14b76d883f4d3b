// Package workflows contains the core operations behind Totara's commands.
//
// Each workflow takes an Options struct, performs the operation, and returns
// a Result struct. Output formatting stays in the cmd layer; workflows
// communicate progress through callbacks and outcomes through results and
// sentinel errors.
package workflows
