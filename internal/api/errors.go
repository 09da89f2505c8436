package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"reflect"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// ValidationIssue is one entry of a 422 response, shaped like FastAPI's
// so existing clients can parse it.
type ValidationIssue struct {
	Loc  []string `json:"loc"`
	Msg  string   `json:"msg"`
	Type string   `json:"type"`
}

// ValidationResponse is the 422 body.
type ValidationResponse struct {
	Detail []ValidationIssue `json:"detail"`
}

// ErrorResponse is the body for every other failure.
type ErrorResponse struct {
	Error string `json:"error"`
}

func init() {
	// report json field names instead of Go field names
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
	}
}

// validationIssues converts a bind error into 422 entries located under where
// ("body" or "query").
func validationIssues(where string, err error) []ValidationIssue {
	var verrs validator.ValidationErrors
	var typeErr *json.UnmarshalTypeError
	var syntaxErr *json.SyntaxError

	switch {
	case errors.As(err, &verrs):
		issues := make([]ValidationIssue, 0, len(verrs))
		for _, fe := range verrs {
			issues = append(issues, fieldIssue(where, fe))
		}
		return issues
	case errors.As(err, &typeErr):
		return []ValidationIssue{{
			Loc:  []string{where, typeErr.Field},
			Msg:  typeErr.Type.Kind().String() + " type expected",
			Type: "type_error." + typeErr.Type.Kind().String(),
		}}
	case errors.As(err, &syntaxErr), errors.Is(err, io.ErrUnexpectedEOF):
		return []ValidationIssue{{
			Loc:  []string{where},
			Msg:  "invalid JSON: " + err.Error(),
			Type: "value_error.jsondecode",
		}}
	case errors.Is(err, io.EOF):
		return []ValidationIssue{{
			Loc:  []string{where},
			Msg:  "field required",
			Type: "value_error.missing",
		}}
	default:
		return []ValidationIssue{{
			Loc:  []string{where},
			Msg:  err.Error(),
			Type: "value_error",
		}}
	}
}

func fieldIssue(where string, fe validator.FieldError) ValidationIssue {
	issue := ValidationIssue{Loc: []string{where, fe.Field()}}
	switch fe.Tag() {
	case "required":
		issue.Msg = "field required"
		issue.Type = "value_error.missing"
	case "oneof":
		issue.Msg = "value is not one of: " + fe.Param()
		issue.Type = "value_error.const"
	case "min", "max", "gte", "lte":
		issue.Msg = "value fails " + fe.Tag() + "=" + fe.Param()
		issue.Type = "value_error.number"
	default:
		issue.Msg = "failed " + fe.Tag() + " validation"
		issue.Type = "value_error"
	}
	return issue
}

func abortValidation(c *gin.Context, where string, err error) {
	c.AbortWithStatusJSON(http.StatusUnprocessableEntity, ValidationResponse{
		Detail: validationIssues(where, err),
	})
}

func abortError(c *gin.Context, status int, msg string) {
	c.AbortWithStatusJSON(status, ErrorResponse{Error: msg})
}
