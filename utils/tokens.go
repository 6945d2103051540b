package utils

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/kataras/iris/v12"
	"github.com/kataras/iris/v12/middleware/jwt"
	"github.com/robertib24/HotelStaffGuests/models"
	"github.com/robertib24/HotelStaffGuests/storage"
)

var bgContext = context.Background()

// Principal kinds carried in tokens. Staff and guests authenticate against
// different tables but share the same token machinery.
const (
	PrincipalEmployee = "employee"
	PrincipalGuest    = "guest"
)

type AccessToken struct {
	ID    uint   `json:"ID"`
	Kind  string `json:"kind"`
	Role  string `json:"role"`
	Email string `json:"email"`
}

type RefreshTokenInput struct {
	RefreshToken string `json:"refreshToken" validate:"required"`
}

func CreateTokenPair(kind string, id uint, role, email string) (*jwt.TokenPair, error) {
	accessTokenSigner := jwt.NewSigner(jwt.HS256, os.Getenv("ACCESS_TOKEN_SECRET"), 24*time.Hour)
	refreshTokenSigner := jwt.NewSigner(jwt.HS256, os.Getenv("REFRESH_TOKEN_SECRET"), 365*24*time.Hour)

	refreshClaims := jwt.Claims{Subject: fmt.Sprintf("%s:%d", kind, id)}

	accessTokenClaims := AccessToken{
		ID:    id,
		Kind:  kind,
		Role:  role,
		Email: email,
	}

	accessToken, err := accessTokenSigner.Sign(accessTokenClaims)
	if err != nil {
		return nil, err
	}

	refreshToken, err := refreshTokenSigner.Sign(refreshClaims)
	if err != nil {
		return nil, err
	}

	var tokenPair jwt.TokenPair
	tokenPair.AccessToken = accessToken
	tokenPair.RefreshToken = refreshToken

	storage.Redis.Set(bgContext, string(refreshToken), "true", 365*24*time.Hour+5*time.Minute)

	return &tokenPair, nil
}

// RefreshToken rotates a refresh token: the presented token must still be in
// the Redis allowlist, gets revoked, and a fresh pair is issued with the
// principal's current role and email.
func RefreshToken(ctx iris.Context) {
	token := jwt.GetVerifiedToken(ctx)
	tokenStr := string(token.Token)
	validToken, tokenErr := storage.Redis.Get(bgContext, tokenStr).Result()

	if tokenErr != nil {
		CreateNotFound(ctx)
		return
	}

	if validToken != "true" {
		ctx.StatusCode(iris.StatusForbidden)
		return
	}

	storage.Redis.Del(bgContext, tokenStr)

	kind, idStr, found := strings.Cut(token.StandardClaims.Subject, ":")
	if !found {
		CreateInternalServerError(ctx)
		return
	}
	id, parseErr := strconv.ParseUint(idStr, 10, 32)
	if parseErr != nil {
		CreateInternalServerError(ctx)
		return
	}

	var role, email string
	switch kind {
	case PrincipalEmployee:
		var employee models.Employee
		if err := storage.DB.First(&employee, uint(id)).Error; err != nil {
			CreateNotFound(ctx)
			return
		}
		role, email = employee.Role, employee.Email
	case PrincipalGuest:
		var guest models.Guest
		if err := storage.DB.First(&guest, uint(id)).Error; err != nil {
			CreateNotFound(ctx)
			return
		}
		role, email = PrincipalGuest, guest.Email
	default:
		CreateInternalServerError(ctx)
		return
	}

	tokenPair, tokenPairErr := CreateTokenPair(kind, uint(id), role, email)
	if tokenPairErr != nil {
		CreateInternalServerError(ctx)
		return
	}

	ctx.JSON(iris.Map{
		"accessToken":  string(tokenPair.AccessToken),
		"refreshToken": string(tokenPair.RefreshToken),
	})
}
