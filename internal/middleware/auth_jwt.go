package middleware

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"darkitchen/internal/config"
	auth "darkitchen/internal/usecase/auth_usecase"

	"github.com/golang-jwt/jwt/v4"
	"github.com/labstack/echo/v4"
)

const (
	CtxSubjectIDKey = "subject_id" // int64（顧客ID or スタッフID）
	CtxRoleKey      = "role"       // auth.Role
)

// bearerAuth用のJWT検証ミドルウェア。
func AuthJWT(cfg config.Config) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			//Authorizationヘッダを取得
			authz := c.Request().Header.Get("Authorization")
			if authz == "" {
				return c.JSON(http.StatusUnauthorized, errorJSON("missing bearer token"))
			}

			//Bearer形式か確認してtokenを抜く
			parts := strings.SplitN(authz, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
				return c.JSON(http.StatusUnauthorized, errorJSON("unauthorized"))
			}
			rawToken := strings.TrimSpace(parts[1])
			if rawToken == "" {
				return c.JSON(http.StatusUnauthorized, errorJSON("unauthorized"))
			}

			//JWTをパースして検証する（expもここで見る）
			token, err := jwt.Parse(rawToken, func(t *jwt.Token) (interface{}, error) {
				if t.Method != jwt.SigningMethodHS256 {
					return nil, errors.New("unexpected signing method")
				}
				return []byte(cfg.JWTSecret), nil
			})
			if err != nil || token == nil || !token.Valid {
				return c.JSON(http.StatusUnauthorized, errorJSON("invalid token"))
			}

			claims, ok := token.Claims.(jwt.MapClaims)
			if !ok {
				return c.JSON(http.StatusUnauthorized, errorJSON("unauthorized"))
			}

			subjectID, err := parseSubject(claims["sub"])
			if err != nil || subjectID <= 0 {
				return c.JSON(http.StatusUnauthorized, errorJSON("unauthorized"))
			}

			//roleを取り出す（CLIENT/ADMIN/CHEF/DRIVER）
			rawRole, _ := claims["role"].(string)
			role, ok := auth.ParseRole(rawRole)
			if !ok {
				return c.JSON(http.StatusUnauthorized, errorJSON("unauthorized"))
			}

			//contextへ保存
			c.Set(CtxSubjectIDKey, subjectID)
			c.Set(CtxRoleKey, role)

			return next(c)
		}
	}
}

type errorResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

func errorJSON(msg string) errorResponse {
	return errorResponse{Success: false, Message: msg}
}

// subをint64に変換する
func parseSubject(v interface{}) (int64, error) {
	switch t := v.(type) {
	case float64:
		return int64(t), nil
	case string:
		return strconv.ParseInt(t, 10, 64)
	default:
		return 0, errors.New("invalid sub")
	}
}

// 認証済みの主体
func Subject(c echo.Context) (int64, auth.Role, bool) {
	id, ok := c.Get(CtxSubjectIDKey).(int64)
	if !ok {
		return 0, "", false
	}
	role, ok := c.Get(CtxRoleKey).(auth.Role)
	if !ok {
		return 0, "", false
	}
	return id, role, true
}

// 監査ログ用の操作者名（"client:12" / "chef:3"）
func Actor(c echo.Context) string {
	id, role, ok := Subject(c)
	if !ok {
		return "public"
	}
	return strings.ToLower(string(role)) + ":" + strconv.FormatInt(id, 10)
}
