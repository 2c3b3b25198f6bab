// Package batch runs one shell command in many directories, sequentially or
// with a fixed number of workers.
//
// The standard output of each directory is collected and written as one
// piece, so parallel runs never interleave the output of two directories.
// This is the usual companion of preconfig: generate one directory per
// configuration, then run the simulation or analysis in each of them.
package batch
