// Package types holds the identifiers shared by every layer of the
// runtime: core IDs, global addresses, and the field widths that fix
// their wire representation. It has no dependencies so that both the
// public heap/messaging surfaces and the internal wire format can
// import it.
package types
