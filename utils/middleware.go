package utils

import (
	"github.com/kataras/iris/v12"
	"github.com/kataras/iris/v12/middleware/jwt"
	"github.com/robertib24/HotelStaffGuests/models"
)

// EmployeeOnlyMiddleware ensures the requester authenticated as staff.
func EmployeeOnlyMiddleware(ctx iris.Context) {
	claims := jwt.Get(ctx).(*AccessToken)
	if claims.Kind != PrincipalEmployee {
		ctx.StopWithJSON(iris.StatusForbidden, iris.Map{"error": "forbidden", "message": "staff access required"})
		return
	}
	ctx.Values().Set("employeeID", claims.ID)
	ctx.Next()
}

// ManagerOnlyMiddleware restricts a route to managers.
func ManagerOnlyMiddleware(ctx iris.Context) {
	claims := jwt.Get(ctx).(*AccessToken)
	if claims.Kind != PrincipalEmployee || claims.Role != models.EmployeeRoleManager {
		ctx.StopWithJSON(iris.StatusForbidden, iris.Map{"error": "forbidden", "message": "manager access required"})
		return
	}
	ctx.Next()
}

// GuestOnlyMiddleware ensures the requester authenticated as a guest and
// stows their identity for downstream ownership checks.
func GuestOnlyMiddleware(ctx iris.Context) {
	claims := jwt.Get(ctx).(*AccessToken)
	if claims.Kind != PrincipalGuest {
		ctx.StopWithJSON(iris.StatusForbidden, iris.Map{"error": "forbidden", "message": "guest access required"})
		return
	}
	ctx.Values().Set("guestID", claims.ID)
	ctx.Values().Set("guestEmail", claims.Email)
	ctx.Next()
}
