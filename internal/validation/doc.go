// Itemsim - Item Similarity and Hybrid Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/itemsim

// Package validation validates API request structs with go-playground/validator.
//
// A single validator instance is shared process-wide. Field names in error
// messages come from the struct's `query` tag so clients see the parameter
// they sent:
//
//	type popularRequest struct {
//	    Limit int    `query:"limit" validate:"min=1,max=100"`
//	    State string `query:"state" validate:"omitempty,statecode"`
//	}
//
// Custom rules:
//   - entityid: 1-64 characters of [A-Za-z0-9_-]
//   - statecode: two uppercase letters
//
// Failures convert to the API's VALIDATION_ERROR shape through
// RequestValidationError.ToAPIError.
package validation
