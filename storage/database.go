package storage

import (
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/robertib24/HotelStaffGuests/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

func connectToDB() *gorm.DB {
	// Only load .env in development
	if os.Getenv("RENDER") == "" {
		err := godotenv.Load()
		if err != nil {
			log.Println("Warning: Could not load .env file (this is normal in production)")
		}
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		log.Panic("DB_CONNECTION_STRING environment variable is required")
	}

	db, dbError := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if dbError != nil {
		log.Panic("error connection to db: " + dbError.Error())
	}

	DB = db
	return db
}

func performMigrations(db *gorm.DB) {
	db.AutoMigrate(
		&models.Employee{},
		&models.Guest{},
		&models.Room{},
		&models.Reservation{},
		&models.Review{},
		&models.ServiceRequest{},
		&models.Notification{},
	)

	// Last-resort guard against double bookings: even if two writers slip
	// past the application-level overlap check, the database rejects the
	// second overlapping interval for the same room. AutoMigrate cannot
	// express an exclusion constraint, so it is added by hand; the ALTER
	// fails harmlessly if the constraint already exists.
	if db.Dialector.Name() == "postgres" {
		db.Exec("CREATE EXTENSION IF NOT EXISTS btree_gist;")
		db.Exec("ALTER TABLE reservations ADD CONSTRAINT reservations_no_overlap " +
			"EXCLUDE USING gist (room_id WITH =, daterange(start_date, end_date) WITH &&) " +
			"WHERE (deleted_at IS NULL);")
	}
}

func InitializeDB() *gorm.DB {
	db := connectToDB()
	performMigrations(db)
	return db
}

// InitializeTestDB points storage.DB at an already-opened database and runs
// the migrations against it. Tests use this with an in-memory SQLite handle.
func InitializeTestDB(db *gorm.DB) *gorm.DB {
	DB = db
	performMigrations(db)
	return db
}
