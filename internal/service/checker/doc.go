// Package checker lints a package descriptor for metadata that contradicts
// itself: Python version classifiers outside requires_python, a license
// classifier that disagrees with the license field, or an interpreter that
// the descriptor would refuse.
//
// Assembly never enforces requires_python; this package is the opt-in gate.
package checker
