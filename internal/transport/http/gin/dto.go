package httpgin

import (
	"github.com/kirinyoku/hemolink/internal/domain"
	"github.com/kirinyoku/hemolink/internal/service/schedule"
)

type SignupRequest struct {
	Email       string `json:"email" binding:"required,email"`
	Password    string `json:"password" binding:"required,min=8"`
	DisplayName string `json:"display_name" binding:"required"`
	Role        string `json:"role" binding:"required,oneof=hospital organizer donor"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type SessionResponse struct {
	Token   string          `json:"token,omitempty"`
	State   string          `json:"state"`
	Profile *domain.Profile `json:"profile,omitempty"`
}

type CreateVenueRequest struct {
	Name    string  `json:"name" binding:"required"`
	Kind    string  `json:"kind" binding:"required,oneof=hospital camp"`
	Address string  `json:"address"`
	Lat     float64 `json:"lat" binding:"required"`
	Lng     float64 `json:"lng" binding:"required"`
}

type AdjustStockRequest struct {
	BloodType string `json:"blood_type" binding:"required"`
	Delta     int    `json:"delta" binding:"required"`
}

type InventoryResponse struct {
	VenueID     string                                 `json:"venue_id"`
	Stock       map[domain.BloodType]int               `json:"stock"`
	Levels      map[domain.BloodType]domain.StockLevel `json:"levels"`
	LastUpdated string                                 `json:"last_updated"`
}

type BookAppointmentRequest struct {
	Date     string `json:"date" binding:"required"`
	TimeSlot string `json:"time_slot" binding:"required"`
}

type CompleteAppointmentRequest struct {
	ConfirmedBloodType string `json:"confirmed_blood_type" binding:"required"`
}

type CreateCampRequest struct {
	Name      string  `json:"name" binding:"required"`
	Organizer string  `json:"organizer" binding:"required"`
	Contact   string  `json:"contact" binding:"required"`
	Address   string  `json:"address"`
	Date      string  `json:"date" binding:"required"`
	StartTime string  `json:"start_time" binding:"required"`
	EndTime   string  `json:"end_time" binding:"required"`
	Lat       float64 `json:"lat" binding:"required"`
	Lng       float64 `json:"lng" binding:"required"`
}

type DashboardResponse struct {
	Inventory InventoryResponse   `json:"inventory"`
	Schedule  []schedule.DayGroup `json:"schedule"`
}

type ReverseGeocodeResponse struct {
	Label string `json:"label"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
