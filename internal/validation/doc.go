// Package validation wraps go-playground/validator v10 behind a thread-safe
// singleton and two domain tags:
//
//	bdate   - YYYY-MM-DD string that is a real Gregorian calendar date
//	nospace - field contains no whitespace rune
//
// ValidateStruct returns nil on success or a *RequestValidationError whose
// ToAPIError method produces the application's VALIDATION_ERROR shape.
package validation
