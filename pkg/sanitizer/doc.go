// Package sanitizer provides input normalization functions for booking data.
//
// All normalization functions are idempotent - applying them multiple times
// produces the same result. Functions handle invalid input gracefully,
// typically by returning empty strings rather than errors.
//
// Normalization includes:
//   - Phone numbers: Convert to E.164 format (+[country][number])
//   - Strings: Collapse whitespace, trim leading/trailing spaces
//   - Emails: Lowercase, trim
//   - Labels (bottle type, closure type, filtration): Lowercase, trim
package sanitizer
