// Package assembler composes CSS class strings from base classes and a table
// of variants.
//
// A Config declares the base classes, the variant groups (each mapping an
// option value to a class value) and the default selection per group:
//
//	button := assembler.New(assembler.Config{
//		CSS: assembler.Class("btn"),
//		Variants: assembler.Variants{
//			"size": {
//				"small": assembler.Class("p-1"),
//				"large": assembler.Class("p-4"),
//			},
//			"disabled": {
//				"true":  assembler.Class("opacity-50"),
//				"false": assembler.Class(""),
//			},
//		},
//		Defaults: assembler.NewSelections(
//			assembler.Select("size", "small"),
//			assembler.Select("disabled", false),
//		),
//	})
//
//	button.Resolve(assembler.Select("disabled", true)) // "btn p-1 opacity-50"
//
// Class values are Class, List, Flags, Func or Expr. Func and Expr values see
// the merged selections of the call. Expr values are evaluated by the
// configured Evaluator (expr-lang by default, CEL and goja are available).
// Every engine provides cx and when for building class lists:
//
//	assembler.Expr(`cx("ring", when(disabled, "opacity-50", "hover:ring-2"))`)
//
// Resolution never fails: unknown groups, unknown options and missing
// selections contribute nothing.
package assembler
