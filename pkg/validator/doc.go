// Package validator provides small, explicit validation rules for request payloads.
//
// Rules are plain functions that return a *ValidationError when the value
// violates the constraint and nil otherwise. Validate runs a list of rules and
// collects the failures in the order the rules were given:
//
//	errs := validator.Validate(
//	    validator.MaxLength("name", req.Name, 100, "Name must be less than 100 characters"),
//	    validator.Required("name", req.Name, "Name is required"),
//	    validator.Email("email", req.Email, "Please provide a valid email address"),
//	)
//	if !errs.IsEmpty() {
//	    return errs
//	}
//
// The email check is deliberately permissive: it accepts any string of the form
// "x@y.z" where no part contains whitespace or a second "@". It is not an
// RFC 5322 parser.
package validator
