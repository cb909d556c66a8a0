package daemon

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/dgrijalva/jwt-go"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func jwtExtract(c *gin.Context) string {
	token := c.GetHeader("Authorization")
	return strings.TrimPrefix(token, "Bearer ")
}

func (d *daemon) jwtVerify(tokenString string) (*jwt.Token, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("Unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(d.conf.JwtSecret), nil
	})
	if err != nil {
		return nil, err
	}
	return token, nil
}

func (d *daemon) jwtValidate(tokenString string) (jwt.MapClaims, error) {
	token, err := d.jwtVerify(tokenString)
	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(jwt.MapClaims); ok && token.Valid {
		return claims, nil
	}
	return nil, errors.New("token invalid")
}

func (d *daemon) teamAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, err := d.jwtValidate(jwtExtract(c))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, APIResponse{Status: "Invalid JWT"})
			return
		}
		if claims["role"] != "team" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, APIResponse{Status: "Invalid JWT"})
			return
		}
		for k, v := range claims {
			c.Set(k, v)
		}
	}
}

// optionalTeamAuthMiddleware lets anonymous requests through; handlers that
// care check the "authed" key.
func (d *daemon) optionalTeamAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("authed", false)
		tokenString := jwtExtract(c)
		if tokenString == "" {
			return
		}
		claims, err := d.jwtValidate(tokenString)
		if err != nil || claims["role"] != "team" {
			return
		}
		for k, v := range claims {
			c.Set(k, v)
		}
		c.Set("authed", true)
	}
}

func (d *daemon) adminAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, err := d.jwtValidate(jwtExtract(c))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, APIResponse{Status: "Invalid JWT"})
			return
		}
		if claims["role"] != "admin" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, APIResponse{Status: "Invalid JWT"})
			return
		}
		for k, v := range claims {
			c.Set(k, v)
		}
	}
}

func corsMiddleware() gin.HandlerFunc {
	config := cors.DefaultConfig()
	config.AllowAllOrigins = true
	config.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization"}
	return cors.New(config)
}
