package routes

import (
	"github.com/kataras/iris/v12"
	"github.com/robertib24/HotelStaffGuests/models"
	"github.com/robertib24/HotelStaffGuests/storage"
	"github.com/robertib24/HotelStaffGuests/utils"
)

// GetDashboardStats returns the headline numbers for the back-office
// landing page.
func GetDashboardStats(ctx iris.Context) {
	var employeeCount, guestCount, roomCount, reservationCount int64
	storage.DB.Model(&models.Employee{}).Count(&employeeCount)
	storage.DB.Model(&models.Guest{}).Count(&guestCount)
	storage.DB.Model(&models.Room{}).Count(&roomCount)
	storage.DB.Model(&models.Reservation{}).Count(&reservationCount)

	type statusCount struct {
		Status string `json:"status"`
		Count  int64  `json:"count"`
	}
	var statusCounts []statusCount
	if err := storage.DB.Model(&models.Room{}).
		Select("status, COUNT(*) AS count").
		Group("status").
		Scan(&statusCounts).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	byStatus := make(map[string]int64, len(statusCounts))
	for _, sc := range statusCounts {
		byStatus[sc.Status] = sc.Count
	}

	ctx.JSON(iris.Map{
		"employeeCount":      employeeCount,
		"guestCount":         guestCount,
		"roomCount":          roomCount,
		"reservationCount":   reservationCount,
		"availableRooms":     byStatus[models.RoomStatusClean],
		"occupiedRooms":      byStatus[models.RoomStatusOccupied],
		"needsCleaningRooms": byStatus[models.RoomStatusNeedsCleaning],
		"inMaintenanceRooms": byStatus[models.RoomStatusMaintenance],
	})
}

// GetCheckInsPerDay returns reservation check-in counts grouped by start
// date, for the last 7 days by default.
func GetCheckInsPerDay(ctx iris.Context) {
	since := models.Today().AddDays(-6)
	if s := ctx.URLParam("since"); s != "" {
		parsed, err := models.ParseDate(s)
		if err != nil {
			utils.CreateError(iris.StatusBadRequest, "Validation Error", "since must be YYYY-MM-DD", ctx)
			return
		}
		since = parsed
	}

	type dayCount struct {
		Day   models.Date `json:"day"`
		Count int64       `json:"count"`
	}
	var rows []dayCount
	if err := storage.DB.Model(&models.Reservation{}).
		Select("start_date AS day, COUNT(*) AS count").
		Where("start_date >= ?", since).
		Group("start_date").
		Order("start_date ASC").
		Scan(&rows).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	ctx.JSON(rows)
}

// GetEarningsPerDay sums reservation revenue by booking day.
func GetEarningsPerDay(ctx iris.Context) {
	since := models.Today().AddDays(-6)
	if s := ctx.URLParam("since"); s != "" {
		parsed, err := models.ParseDate(s)
		if err != nil {
			utils.CreateError(iris.StatusBadRequest, "Validation Error", "since must be YYYY-MM-DD", ctx)
			return
		}
		since = parsed
	}

	type dayTotal struct {
		Day   string  `json:"day"`
		Total float64 `json:"total"`
	}
	var rows []dayTotal
	if err := storage.DB.Model(&models.Reservation{}).
		Select("DATE(created_at) AS day, SUM(total_price) AS total").
		Where("created_at >= ?", since.Time).
		Group("DATE(created_at)").
		Order("day ASC").
		Scan(&rows).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	ctx.JSON(rows)
}

// GetGuestsPerRoomType lists which guests are booked into which room types.
func GetGuestsPerRoomType(ctx iris.Context) {
	type row struct {
		RoomType   string `json:"roomType"`
		GuestName  string `json:"guestName"`
		GuestEmail string `json:"guestEmail"`
	}
	var rows []row
	if err := storage.DB.Model(&models.Reservation{}).
		Select("rooms.type AS room_type, guests.name AS guest_name, guests.email AS guest_email").
		Joins("JOIN rooms ON rooms.id = reservations.room_id").
		Joins("JOIN guests ON guests.id = reservations.guest_id").
		Order("rooms.type ASC").
		Scan(&rows).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	ctx.JSON(rows)
}
