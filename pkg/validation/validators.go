// Package validation registers any validator/v10 extensions the request
// types need beyond its built-in tags. The request bodies in this service
// (linkedin_url, template category, score parameters) are fully expressible
// with built-in tags (required, url, oneof, min, max), so this registry is
// currently empty; it is kept as the single place future custom tags would
// be added, following the teacher's RegisterValidators entry point.
package validation

import "github.com/go-playground/validator/v10"

// RegisterValidators registers custom validators on v. No-op today.
func RegisterValidators(v *validator.Validate) {
	_ = v
}
