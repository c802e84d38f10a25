package fakegithub

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

const docsURL = "https://docs.github.com/rest"

// fieldError mirrors an entry of GitHub's validation "errors" array.
type fieldError struct {
	Resource string `json:"resource"`
	Field    string `json:"field"`
	Code     string `json:"code"`
}

// errorBody is GitHub's error envelope.
type errorBody struct {
	Message          string       `json:"message"`
	Errors           []fieldError `json:"errors,omitempty"`
	DocumentationURL string       `json:"documentation_url"`
}

func abortWithError(c *gin.Context, status int, message string, errs ...fieldError) {
	c.AbortWithStatusJSON(status, errorBody{
		Message:          message,
		Errors:           errs,
		DocumentationURL: docsURL,
	})
}

func notFound(c *gin.Context) {
	abortWithError(c, http.StatusNotFound, "Not Found")
}

func validationFailed(c *gin.Context, errs ...fieldError) {
	abortWithError(c, http.StatusUnprocessableEntity, "Validation Failed", errs...)
}

func badRequest(c *gin.Context, message string) {
	abortWithError(c, http.StatusBadRequest, message)
}
