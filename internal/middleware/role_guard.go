package middleware

import (
	"net/http"
	"strconv"

	auth "darkitchen/internal/usecase/auth_usecase"

	"github.com/labstack/echo/v4"
)

// contextのroleが許可リストにあるか確認する。AuthJWTの後に置く
func RoleGuard(allowed ...auth.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			_, role, ok := Subject(c)
			if !ok {
				return c.JSON(http.StatusUnauthorized, errorJSON("unauthorized"))
			}
			for _, r := range allowed {
				if role == r {
					return next(c)
				}
			}
			return c.JSON(http.StatusForbidden, errorJSON("forbidden"))
		}
	}
}

// スタッフ（ADMIN/CHEF/DRIVER）だけ
func StaffGuard() echo.MiddlewareFunc {
	return RoleGuard(auth.RoleAdmin, auth.RoleChef, auth.RoleDriver)
}

// パスの顧客IDが本人か、ADMINなら通す
func ClientSelfOrAdmin(param string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			subjectID, role, ok := Subject(c)
			if !ok {
				return c.JSON(http.StatusUnauthorized, errorJSON("unauthorized"))
			}
			if role == auth.RoleAdmin {
				return next(c)
			}

			target, err := strconv.ParseInt(c.Param(param), 10, 64)
			if err != nil {
				return c.JSON(http.StatusBadRequest, errorJSON("invalid id"))
			}
			//他人の顧客IDは拒否
			if role != auth.RoleClient || subjectID != target {
				return c.JSON(http.StatusForbidden, errorJSON("forbidden"))
			}
			return next(c)
		}
	}
}
