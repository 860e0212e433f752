package httpapi

import (
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"
	"sync"

	"xclone/internal/adapters/httpapi/middleware"
	"xclone/internal/core/errs"
	userPort "xclone/internal/ports/user"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/gofrs/uuid"
	"go.uber.org/zap"
)

var tagNamesOnce sync.Once

// registerTagNames makes validator report JSON field names instead of Go ones.
func registerTagNames() {
	tagNamesOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name == "" {
				return f.Name
			}
			return name
		})
	})
}

type errorResponder struct {
	logger *zap.Logger
}

// respond writes err with the status its kind maps to. Internal causes are logged, never returned.
func (e *errorResponder) respond(c *gin.Context, err error) {
	var appErr *errs.Error
	if !errors.As(err, &appErr) {
		e.logger.Error("Request failed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	body := gin.H{"error": appErr.Message}
	if len(appErr.Fields) > 0 {
		body["fields"] = appErr.Fields
	}
	c.JSON(statusOf(appErr.Kind), body)
}

func statusOf(k errs.Kind) int {
	switch k {
	case errs.KindValidation:
		return http.StatusBadRequest
	case errs.KindUnauthenticated:
		return http.StatusUnauthorized
	case errs.KindForbidden:
		return http.StatusForbidden
	case errs.KindNotFound:
		return http.StatusNotFound
	case errs.KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// bind decodes the JSON body into req and answers 400 when it does not fit.
func (e *errorResponder) bind(c *gin.Context, req interface{}) bool {
	err := c.ShouldBindJSON(req)
	if err == nil {
		return true
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		fields := make(map[string]string, len(verrs))
		for _, fe := range verrs {
			fields[fe.Field()] = fieldMessage(fe)
		}
		e.respond(c, &errs.Error{Kind: errs.KindValidation, Message: "invalid input", Fields: fields})
		return false
	}

	e.respond(c, errs.Validation("invalid input"))
	return false
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "this field is required"
	case "email":
		return "enter a valid email address"
	case "uuid":
		return "must be a valid id"
	case "min":
		return fmt.Sprintf("must be at least %s characters", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	}
	return "is invalid"
}

// pathID parses the :id path parameter. A malformed id is reported as not found.
func (e *errorResponder) pathID(c *gin.Context, what string) (uuid.UUID, bool) {
	id, err := uuid.FromString(c.Param("id"))
	if err != nil {
		e.respond(c, errs.NotFound(what+" not found"))
		return uuid.Nil, false
	}
	return id, true
}

func principal(c *gin.Context) *userPort.Principal {
	return middleware.Principal(c)
}

func userID(c *gin.Context) uuid.UUID {
	return principal(c).UserID
}
