package daemon

import (
	"github.com/gin-gonic/gin"
)

func unpackTeamClaims(c *gin.Context) TeamClaims {
	return TeamClaims{
		Username: string(c.MustGet("sub").(string)),
		TeamID:   int32(c.MustGet("team_id").(float64)),
		Email:    string(c.MustGet("email").(string)),
		Jti:      string(c.MustGet("jti").(string)),
		Exp:      int64(c.MustGet("exp").(float64)),
	}
}

func unpackAdminClaims(c *gin.Context) AdminClaims {
	return AdminClaims{
		Username: string(c.MustGet("sub").(string)),
		Email:    string(c.MustGet("email").(string)),
		Jti:      string(c.MustGet("jti").(string)),
		Exp:      int64(c.MustGet("exp").(float64)),
	}
}
