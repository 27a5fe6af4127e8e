// Package conv provides checked integer conversions for values read from
// untrusted sources such as file headers and blob sizes.
package conv
