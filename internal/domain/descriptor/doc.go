// Package descriptor contains the PackageDescriptor, the metadata record a
// packaging backend needs to turn a Python source tree into a distribution.
//
// A descriptor is built once per run by the assembler and never mutated
// afterwards; slice and map fields are copied on the way in and out.
package descriptor
