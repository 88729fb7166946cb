package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"

	"github.com/geocoder89/recipehub/internal/validation"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

type FieldError = validation.FieldError

var bindingSetup sync.Once

// ConfigureBinding makes gin's JSON binding reject unknown fields and report
// rule failures by JSON field name. It only takes effect once.
func ConfigureBinding() {
	bindingSetup.Do(func() {
		binding.EnableDecoderDisallowUnknownFields = true

		if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
			if err := validation.Register(v); err != nil {
				panic(err)
			}
		}
	})
}

// BindJSON binds and validates the body into out. On failure the 4xx is
// already written.
func BindJSON(ctx *gin.Context, out any) bool {
	ConfigureBinding()

	err := ctx.ShouldBindJSON(out)
	if err == nil {
		return true
	}

	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		RespondError(ctx, http.StatusRequestEntityTooLarge, "payload_too_large", "Request body too large", nil)
		return false
	}

	RespondBadRequest(ctx, "Invalid request body", bindErrorDetails(err))
	return false
}

// bindErrorDetails turns decode and rule failures into the "details" object.
func bindErrorDetails(err error) gin.H {
	var rules validator.ValidationErrors
	if errors.As(err, &rules) {
		return gin.H{"fields": validation.Fields(rules)}
	}

	if errors.Is(err, io.EOF) {
		return gin.H{"json": "empty_body"}
	}

	// encoding/json has no typed error for this one
	if name, ok := strings.CutPrefix(err.Error(), "json: unknown field "); ok {
		field := strings.Trim(name, `"`)
		return gin.H{
			"json":   "unknown_field",
			"field":  field,
			"fields": []FieldError{{Field: field, Rule: "unknown", Message: "is not an accepted field"}},
		}
	}

	var syntaxErr *json.SyntaxError
	if errors.As(err, &syntaxErr) || errors.Is(err, io.ErrUnexpectedEOF) {
		return gin.H{"json": "invalid_json_syntax"}
	}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		field := typeErr.Field
		if field == "" {
			return gin.H{"json": "invalid_json_type"}
		}
		return gin.H{
			"json":  "invalid_json_type",
			"field": field,
			"fields": []FieldError{{
				Field:   field,
				Rule:    "type",
				Message: fmt.Sprintf("must be of type %s", typeErr.Type),
			}},
		}
	}

	return gin.H{"reason": err.Error()}
}
