package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/kataras/iris/v12"
	"github.com/kataras/iris/v12/middleware/jwt"

	"github.com/robertib24/HotelStaffGuests/routes"
	"github.com/robertib24/HotelStaffGuests/services"
	"github.com/robertib24/HotelStaffGuests/storage"
	"github.com/robertib24/HotelStaffGuests/utils"
)

func main() {
	// Only load .env in development
	if os.Getenv("RENDER") == "" {
		godotenv.Load()
	}

	storage.InitializeDB()
	storage.InitializeRedis()

	app := iris.New()
	app.Validator = validator.New()

	// CORS for the back-office dashboard (http://localhost:3000)
	app.AllowMethods(iris.MethodOptions)
	app.UseRouter(func(ctx iris.Context) {
		ctx.Header("Access-Control-Allow-Origin", ctx.GetHeader("Origin"))
		ctx.Header("Vary", "Origin")
		ctx.Header("Access-Control-Allow-Credentials", "true")
		ctx.Header("Access-Control-Allow-Headers", "Authorization, Content-Type, X-Requested-With")
		ctx.Header("Access-Control-Allow-Methods", "GET,POST,PATCH,PUT,DELETE,OPTIONS")
		if ctx.Method() == iris.MethodOptions {
			ctx.StatusCode(iris.StatusNoContent)
			return
		}
		ctx.Next()
	})

	app.Use(iris.Compression)

	accessTokenVerifier := jwt.NewVerifier(jwt.HS256, []byte(os.Getenv("ACCESS_TOKEN_SECRET")))
	accessTokenVerifier.WithDefaultBlocklist()
	accessTokenVerifierMiddleware := accessTokenVerifier.Verify(func() interface{} {
		return new(utils.AccessToken)
	})

	refreshTokenVerifier := jwt.NewVerifier(jwt.HS256, []byte(os.Getenv("REFRESH_TOKEN_SECRET")))
	refreshTokenVerifier.WithDefaultBlocklist()
	refreshTokenVerifierMiddleware := refreshTokenVerifier.Verify(func() interface{} {
		return new(jwt.Claims)
	})

	refreshTokenVerifier.Extractors = append(refreshTokenVerifier.Extractors, func(ctx iris.Context) string {
		var tokenInput utils.RefreshTokenInput
		err := ctx.ReadJSON(&tokenInput)
		if err != nil {
			return ""
		}
		return tokenInput.RefreshToken
	})

	// Background room-status synchronizer; the dashboard can also trigger
	// it on demand through POST /api/rooms/sync-status.
	synchronizer := services.NewRoomStatusSynchronizer(storage.DB)
	go synchronizer.Run(context.Background())

	app.Get("/health", func(ctx iris.Context) {
		ctx.JSON(iris.Map{"status": "ok"})
	})

	auth := app.Party("/api/auth")
	{
		auth.Post("/register", routes.RegisterEmployee)
		auth.Post("/login", routes.LoginEmployee)
	}

	clientAuth := app.Party("/api/client/auth")
	{
		clientAuth.Post("/register", routes.RegisterGuest)
		clientAuth.Post("/login", routes.LoginGuest)
	}

	staff := accessTokenVerifierMiddleware
	employee := utils.EmployeeOnlyMiddleware
	manager := utils.ManagerOnlyMiddleware
	guest := utils.GuestOnlyMiddleware

	rooms := app.Party("/api/rooms", staff, employee)
	{
		rooms.Get("/", routes.GetRooms)
		rooms.Get("/{id:uint}", routes.GetRoom)
		rooms.Post("/", routes.CreateRoom)
		rooms.Put("/{id:uint}", routes.UpdateRoom)
		rooms.Patch("/{id:uint}/status", routes.UpdateRoomStatus)
		rooms.Delete("/{id:uint}", manager, routes.DeleteRoom)
		rooms.Post("/sync-status", routes.SyncRoomStatus)
	}

	guests := app.Party("/api/guests", staff, employee)
	{
		guests.Get("/", routes.GetGuests)
		guests.Get("/{id:uint}", routes.GetGuest)
		guests.Post("/", routes.CreateGuest)
		guests.Put("/{id:uint}", routes.UpdateGuest)
		guests.Delete("/{id:uint}", manager, routes.DeleteGuest)
	}

	employees := app.Party("/api/employees", staff, employee)
	{
		employees.Get("/", routes.GetEmployees)
		employees.Get("/{id:uint}", routes.GetEmployee)
		employees.Put("/{id:uint}", manager, routes.UpdateEmployee)
		employees.Delete("/{id:uint}", manager, routes.DeleteEmployee)
	}

	reservations := app.Party("/api/reservations", staff, employee)
	{
		reservations.Get("/", routes.GetReservations)
		reservations.Post("/", routes.CreateReservation)
		reservations.Put("/{id:uint}", routes.UpdateReservation)
		reservations.Delete("/{id:uint}", routes.CancelReservation)
	}

	requests := app.Party("/api/requests", staff, employee)
	{
		requests.Get("/", routes.GetServiceRequests)
		requests.Patch("/{id:uint}/status", routes.UpdateServiceRequestStatus)
	}

	dashboard := app.Party("/api/dashboard", staff, employee)
	{
		dashboard.Get("/stats", routes.GetDashboardStats)
		dashboard.Get("/checkins", routes.GetCheckInsPerDay)
		dashboard.Get("/earnings", routes.GetEarningsPerDay)
		dashboard.Get("/guests-per-room-type", routes.GetGuestsPerRoomType)
	}

	client := app.Party("/api/client", staff, guest)
	{
		client.Get("/reservations", routes.GetMyReservations)
		client.Post("/reservations", routes.CreateClientReservation)
		client.Delete("/reservations/{id:uint}", routes.CancelClientReservation)
		client.Post("/requests", routes.CreateServiceRequest)
		client.Post("/reviews", routes.CreateReview)
		client.Get("/rooms/{id:uint}/reviews", routes.GetRoomReviews)
	}

	app.Post("/api/refresh", refreshTokenVerifierMiddleware, utils.RefreshToken)

	port := os.Getenv("PORT")
	if port == "" {
		port = "4000"
	}
	addr := "0.0.0.0:" + port

	fmt.Printf("🚀 Server starting on %s\n", addr)

	if err := app.Listen(addr); err != nil {
		log.Fatalf("❌ Server failed: %v", err)
	}
}
