package utils

import (
	"github.com/go-playground/validator/v10"
	"github.com/kataras/iris/v12"
)

func CreateError(statusCode int, title string, detail string, ctx iris.Context) {
	ctx.StopWithJSON(statusCode, iris.Map{
		"status":  statusCode,
		"error":   title,
		"message": detail,
	})
}

func CreateNotFound(ctx iris.Context) {
	CreateError(iris.StatusNotFound, "Not Found", "Resource not found", ctx)
}

func CreateForbidden(ctx iris.Context) {
	CreateError(iris.StatusForbidden, "Forbidden", "You do not have permission to perform this action", ctx)
}

func CreateInternalServerError(ctx iris.Context) {
	CreateError(iris.StatusInternalServerError, "Internal Server Error", "An unexpected error occurred", ctx)
}

// HandleValidationErrors formats go-playground/validator failures from
// ctx.ReadJSON into a field-by-field error response.
func HandleValidationErrors(err error, ctx iris.Context) {
	if errs, ok := err.(validator.ValidationErrors); ok {
		fields := make([]iris.Map, 0, len(errs))
		for _, e := range errs {
			fields = append(fields, iris.Map{
				"field": e.Field(),
				"tag":   e.ActualTag(),
				"param": e.Param(),
			})
		}
		ctx.StopWithJSON(iris.StatusBadRequest, iris.Map{
			"status":  iris.StatusBadRequest,
			"error":   "Validation Error",
			"message": "One or more fields failed validation",
			"fields":  fields,
		})
		return
	}

	CreateError(iris.StatusBadRequest, "Validation Error", err.Error(), ctx)
}
