// Package conv provides overflow-checked integer conversions for values that
// end up in fixed-width on-disk fields (heap offsets, heap lengths).
package conv
