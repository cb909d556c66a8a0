package daemon

import (
	"time"

	"github.com/decayctf/decay-daemon/internal/db"
	"github.com/dgrijalva/jwt-go"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const incorrectUsernameOrPasswordError = "Incorrect username or password"

func verifyPassword(hash, password string) bool {
	byteHash := []byte(hash)
	bytePassword := []byte(password)

	if err := bcrypt.CompareHashAndPassword(byteHash, bytePassword); err != nil {
		return false
	}
	return true
}

func (d *daemon) createTeamToken(team db.Team) (string, error) {
	atClaims := jwt.MapClaims{}
	atClaims["role"] = "team"
	atClaims["sub"] = team.Username
	atClaims["team_id"] = team.ID
	atClaims["email"] = team.Email
	atClaims["jti"] = uuid.New().String()
	atClaims["exp"] = time.Now().Add(time.Hour * 24).Unix()
	at := jwt.NewWithClaims(jwt.SigningMethodHS256, atClaims)
	token, err := at.SignedString([]byte(d.conf.JwtSecret))
	if err != nil {
		return "", err
	}
	return token, nil
}

func (d *daemon) createAdminToken(user db.AdminUser) (string, error) {
	atClaims := jwt.MapClaims{}
	atClaims["role"] = "admin"
	atClaims["sub"] = user.Username
	atClaims["email"] = user.Email
	atClaims["jti"] = uuid.New().String()
	atClaims["exp"] = time.Now().Add(time.Hour * 24).Unix()
	at := jwt.NewWithClaims(jwt.SigningMethodHS256, atClaims)
	token, err := at.SignedString([]byte(d.conf.JwtSecret))
	if err != nil {
		return "", err
	}
	return token, nil
}
