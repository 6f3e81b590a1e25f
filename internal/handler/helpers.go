package handler

import (
	"errors"
	"net/http"
	"reflect"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"inventario/internal/apierror"
	"inventario/internal/apperr"
	"inventario/internal/middleware"
)

var validate = validator.New()

func init() {
	// Register decimal.Decimal as a numeric type so that validator tags like
	// min=0, required work without panicking ("Bad field type decimal.Decimal").
	validate.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if v, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := v.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})
}

// bindAndValidate binds JSON body and runs go-playground/validator tags.
// Returns false and writes the error response if validation fails —
// the caller should return immediately without writing another response.
func bindAndValidate(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("JSON invalido: "+err.Error()))
		return false
	}
	if err := validate.Struct(req); err != nil {
		fields := make(map[string]string)
		for _, fe := range err.(validator.ValidationErrors) {
			fields[fe.Field()] = fe.Tag()
		}
		c.JSON(http.StatusUnprocessableEntity, apierror.NewValidation(fields))
		return false
	}
	return true
}

// respondError maps apperr kinds to HTTP codes. The boundary switches on the
// kind — never on message text. Storage causes are logged with full context
// and replaced by a generic message.
func respondError(c *gin.Context, err error) {
	var e *apperr.Error
	if !errors.As(err, &e) {
		e = apperr.Storage(err)
	}
	switch e.Kind {
	case apperr.KindValidation:
		c.JSON(http.StatusBadRequest, apierror.New(e.Message))
	case apperr.KindNotFound:
		c.JSON(http.StatusNotFound, apierror.New(e.Message))
	case apperr.KindInsufficientStock:
		c.JSON(http.StatusBadRequest, apierror.New(e.Message))
	default:
		log.Error().
			Str("request_id", c.GetString(middleware.RequestIDKey)).
			Str("path", c.FullPath()).
			Str("method", c.Request.Method).
			Err(e.Err).
			Msg("storage failure")
		c.JSON(http.StatusInternalServerError, apierror.New("Error interno del servidor"))
	}
}

// parseID parses the :id path parameter. Writes the 400 response itself when
// the value is not a positive integer.
func parseID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return 0, false
	}
	return uint(id), true
}
