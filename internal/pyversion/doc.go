// Package pyversion parses Python release versions and requires_python
// specifiers.
//
// It is a thin wrapper around the PEP 440 and PEP 345 packages of
// github.com/datawire/ocibuild. Operators are dispatched per clause: the
// PEP 440 parser handles ~=, ==, !=, <= and >=, while exclusive < and >
// clauses and legacy operator-less clauses go through the PEP 345 parser.
package pyversion
