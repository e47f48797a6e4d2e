// Package prisma validates Prisma-style query and mutation inputs against
// the grammar derived from a schema.prisma.
//
// The grammar covers where filters with scalar, list, enum and JSON
// predicates, AND/OR/NOT combinators, relation filters, unique lookups
// including compound keys, nested writes in their checked and unchecked
// forms, aggregation, select/include projections and the arguments of
// every model operation.
//
// Example usage:
//
//	import (
//	    "github.com/carlosnayan/prisma-go-inputs/catalog"
//	    "github.com/carlosnayan/prisma-go-inputs/inputs"
//	)
//
//	cat, err := catalog.LoadFile("prisma/schema.prisma")
//	reg, err := inputs.New(cat, inputs.Options{MaxDepth: 32})
//
//	// Validate a where filter decoded from a request body
//	where, err := reg.ValidateJSON("User", inputs.Where, body)
//
//	// Validate create data and learn which variant it used
//	m, err := reg.ParseCreate("Post", data)
//	if m.Variant == inputs.Unchecked { ... }
//
// CLI Commands:
//
//	prisma-inputs validate                              # Build every input schema
//	prisma-inputs list --model User                     # List derived schemas
//	prisma-inputs check where.json -m User -k WhereInput # Check an input
//	prisma-inputs watch                                 # Re-validate on change
package prisma

const Version = "0.3.0"
