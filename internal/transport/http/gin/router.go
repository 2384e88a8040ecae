package httpgin

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/kirinyoku/hemolink/internal/domain"
	"github.com/kirinyoku/hemolink/internal/geocode"
	redisrepo "github.com/kirinyoku/hemolink/internal/repository/redis"
	"github.com/kirinyoku/hemolink/internal/service"
	"github.com/kirinyoku/hemolink/internal/service/auth"
	"github.com/kirinyoku/hemolink/internal/service/camps"
	"github.com/kirinyoku/hemolink/internal/service/inventory"
	"github.com/kirinyoku/hemolink/internal/service/schedule"
	"github.com/kirinyoku/hemolink/internal/service/venues"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func NewRouter(
	svcs *service.Services,
	idem *redisrepo.IdempotencyStore,
	resolver *geocode.Resolver,
	logger *slog.Logger,
	middlewares ...gin.HandlerFunc,
) *gin.Engine {
	r := gin.New()

	r.Use(gin.Recovery(), LoggingMiddleware(logger), RequestIDMiddleware(), CORS(), SessionMiddleware(svcs.Auth))
	for _, m := range middlewares {
		if m != nil {
			r.Use(m)
		}
	}

	// Swagger UI
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// health
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Public API
	r.POST("/auth/signup", handleSignup(svcs))
	r.POST("/auth/login", handleLogin(svcs))

	r.GET("/venues", handleListVenues(svcs))
	r.GET("/venues/:id", handleGetVenue(svcs))
	r.GET("/venues/:id/inventory", handleGetInventory(svcs))
	r.GET("/venues/:id/inventory/stream", handleInventoryStream(svcs))

	r.GET("/camps/upcoming", handleUpcomingCamps(svcs))

	r.GET("/geocode/search", handleGeocodeSearch(resolver))
	r.GET("/geocode/reverse", handleGeocodeReverse(resolver))

	// Any authenticated caller
	authed := r.Group("", RequireAuth())
	{
		authed.POST("/auth/logout", handleLogout(svcs))
		authed.GET("/auth/me", handleMe())
		authed.GET("/users/:id", handleGetUser(svcs))
	}

	// Donor API
	donor := r.Group("", RequireRole(domain.RoleDonor))
	{
		donor.POST("/venues/:id/appointments", handleBookAppointment(svcs, idem))
		donor.GET("/me/appointments", handleMyAppointments(svcs))
		donor.GET("/me/donations", handleMyDonations(svcs))
	}

	// Hospital API
	hospital := r.Group("", RequireRole(domain.RoleHospital))
	{
		hospital.POST("/venues", handleCreateVenue(svcs))
		hospital.POST("/venues/:id/inventory", handleAdjustStock(svcs))
		hospital.GET("/venues/:id/appointments", handleVenueSchedule(svcs))
		hospital.GET("/venues/:id/dashboard", handleDashboard(svcs))
		hospital.POST("/venues/:id/appointments/:apptID/complete", handleCompleteAppointment(svcs))
		hospital.POST("/venues/:id/appointments/:apptID/no-show", handleNoShowAppointment(svcs))
	}

	// Organizer API
	organizer := r.Group("", RequireRole(domain.RoleOrganizer))
	{
		organizer.POST("/camps", handleCreateCamp(svcs))
	}

	return r
}

// --- Handlers with Swagger annotations ---

// @Summary  Sign up and open a session
// @Param    req body  SignupRequest true "payload"
// @Success  201 {object} SessionResponse
// @Failure  400 {object} ErrorResponse
// @Failure  409 {object} ErrorResponse "email taken"
// @Router   /auth/signup [post]
func handleSignup(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req SignupRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err.Error())
			return
		}

		sess, err := svcs.Auth.Signup(
			c.Request.Context(),
			req.Email,
			req.Password,
			req.DisplayName,
			req.Role,
		)
		if err != nil {
			respondErr(c, err)
			return
		}

		c.JSON(http.StatusCreated, sessionDTO(sess))
	}
}

// @Summary  Log in
// @Param    req body  LoginRequest true "payload"
// @Success  200 {object} SessionResponse
// @Failure  401 {object} ErrorResponse
// @Router   /auth/login [post]
func handleLogin(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req LoginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err.Error())
			return
		}

		sess, err := svcs.Auth.Login(c.Request.Context(), req.Email, req.Password)
		if err != nil {
			respondErr(c, err)
			return
		}

		c.JSON(http.StatusOK, sessionDTO(sess))
	}
}

// @Summary  Log out (idempotent)
// @Success  204
// @Router   /auth/logout [post]
func handleLogout(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess := sessionFrom(c)

		if err := svcs.Auth.Logout(c.Request.Context(), sess.Token); err != nil {
			respondErr(c, err)
			return
		}

		c.Status(http.StatusNoContent)
	}
}

// @Summary  Current session profile
// @Success  200 {object} SessionResponse
// @Router   /auth/me [get]
func handleMe() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, sessionDTO(sessionFrom(c)))
	}
}

// @Summary  Get user profile
// @Param    id  path  string  true  "User ID (uuid)"
// @Success  200 {object} domain.Profile
// @Failure  404 {object} ErrorResponse
// @Router   /users/{id} [get]
func handleGetUser(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := parseUUIDParam(c, "id")
		if !ok {
			return
		}

		p, err := svcs.Auth.Profile(c.Request.Context(), userID)
		if err != nil {
			respondErr(c, err)
			return
		}

		c.JSON(http.StatusOK, p)
	}
}

// @Summary  List venues
// @Param    limit  query  int  false "page size"
// @Param    offset query  int  false "offset"
// @Success  200 {array} domain.Venue
// @Router   /venues [get]
func handleListVenues(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		limit := parseIntDefault(c.Query("limit"), 50)
		offset := parseIntDefault(c.Query("offset"), 0)

		vs, err := svcs.Venues.List(c.Request.Context(), limit, offset)
		if err != nil {
			respondErr(c, err)
			return
		}

		writeJSONWithCache(c, http.StatusOK, vs, "public, max-age=30", true)
	}
}

// @Summary  Get venue
// @Param    id  path  string  true  "Venue ID (uuid)"
// @Success  200 {object} domain.Venue
// @Failure  404 {object} ErrorResponse
// @Router   /venues/{id} [get]
func handleGetVenue(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		venueID, ok := parseUUIDParam(c, "id")
		if !ok {
			return
		}

		v, err := svcs.Venues.Get(c.Request.Context(), venueID)
		if err != nil {
			respondErr(c, err)
			return
		}

		writeJSONWithCache(c, http.StatusOK, v, "public, max-age=60", true)
	}
}

// @Summary  Get venue inventory with derived stock levels
// @Param    id  path  string  true  "Venue ID (uuid)"
// @Success  200 {object} InventoryResponse
// @Failure  404 {object} ErrorResponse
// @Router   /venues/{id}/inventory [get]
func handleGetInventory(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		venueID, ok := parseUUIDParam(c, "id")
		if !ok {
			return
		}

		rec, err := svcs.Inventory.Snapshot(c.Request.Context(), venueID)
		if err != nil {
			respondErr(c, err)
			return
		}

		writeJSONWithCache(c, http.StatusOK, inventoryDTO(rec), "public, max-age=15", true)
	}
}

// @Summary  Register a venue (seeds zeroed inventory)
// @Param    req body  CreateVenueRequest true "payload"
// @Success  201 {object} domain.Venue
// @Failure  409 {object} ErrorResponse
// @Router   /venues [post]
func handleCreateVenue(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req CreateVenueRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err.Error())
			return
		}

		sess := sessionFrom(c)

		v, err := svcs.Venues.Create(
			c.Request.Context(),
			sess.Profile.UserID,
			req.Name,
			req.Kind,
			req.Address,
			req.Lat,
			req.Lng,
		)
		if err != nil {
			respondErr(c, err)
			return
		}

		c.JSON(http.StatusCreated, v)
	}
}

// @Summary  Reconcile stock for one blood type
// @Param    id  path  string  true  "Venue ID (uuid)"
// @Param    req body  AdjustStockRequest true "payload"
// @Success  200 {object} InventoryResponse
// @Failure  400 {object} ErrorResponse "invalid blood type / oversized delta"
// @Failure  422 {object} ErrorResponse "stock would go negative"
// @Router   /venues/{id}/inventory [post]
func handleAdjustStock(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		venueID, ok := parseUUIDParam(c, "id")
		if !ok {
			return
		}

		var req AdjustStockRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err.Error())
			return
		}

		sess := sessionFrom(c)

		rec, err := svcs.Inventory.Adjust(
			c.Request.Context(),
			venueID,
			sess.Profile.UserID,
			req.BloodType,
			req.Delta,
		)
		if err != nil {
			respondErr(c, err)
			return
		}

		c.JSON(http.StatusOK, inventoryDTO(rec))
	}
}

// @Summary  Book an appointment (idempotent)
// @Param    id  path  string  true  "Venue ID (uuid)"
// @Param    req body  BookAppointmentRequest true "payload"
// @Header   201 {string} Idempotency-Key "echo"
// @Success  201 {object} domain.Appointment
// @Failure  400 {object} ErrorResponse
// @Failure  409 {object} ErrorResponse "idem in progress"
// @Failure  429 {object} ErrorResponse "rate limited"
// @Router   /venues/{id}/appointments [post]
func handleBookAppointment(
	svcs *service.Services,
	idem *redisrepo.IdempotencyStore,
) gin.HandlerFunc {
	return func(c *gin.Context) {
		venueID, ok := parseUUIDParam(c, "id")
		if !ok {
			return
		}
		var req BookAppointmentRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err.Error())
			return
		}

		idemKey := strings.TrimSpace(c.GetHeader("Idempotency-Key"))
		var idemStorageKey string
		if idem != nil && idemKey != "" {
			idemStorageKey = redisrepo.KeyIdemAppointment(venueID, idemKey)

			if payload, ok, _ := idem.GetResult(
				c.Request.Context(),
				idemStorageKey,
			); ok {
				c.Header("Idempotency-Key", idemKey)
				c.Data(
					http.StatusCreated,
					"application/json; charset=utf-8",
					[]byte(payload),
				)
				return
			}

			locked, err := idem.AcquireLock(
				c.Request.Context(),
				idemStorageKey,
				60*time.Second,
			)
			if err != nil {
				respondErr(c, err)
				return
			}
			if !locked {
				if payload, ok, _ := idem.GetResult(
					c.Request.Context(),
					idemStorageKey,
				); ok {
					c.Header("Idempotency-Key", idemKey)
					c.Data(
						http.StatusCreated,
						"application/json; charset=utf-8",
						[]byte(payload),
					)
					return
				}
				c.Header("Retry-After", "1")
				c.JSON(
					http.StatusConflict,
					ErrorResponse{Error: "idempotency key in progress"},
				)
				return
			}
		}

		sess := sessionFrom(c)
		rlKey := "ip:" + c.ClientIP()

		appt, err := svcs.Schedule.Book(
			c.Request.Context(),
			venueID,
			*sess.Profile,
			req.Date,
			req.TimeSlot,
			rlKey,
		)
		if err != nil {
			if idemStorageKey != "" && idem != nil {
				_ = idem.Release(c.Request.Context(), idemStorageKey)
			}
			if errors.Is(err, schedule.ErrRateLimited) {
				c.Header("Retry-After", "60")
				c.JSON(
					http.StatusTooManyRequests,
					ErrorResponse{Error: err.Error()},
				)
				return
			}
			respondErr(c, err)
			return
		}

		if idemStorageKey != "" && idem != nil {
			b, _ := json.Marshal(appt)
			_ = idem.SaveResult(c.Request.Context(), idemStorageKey, string(b))
			c.Header("Idempotency-Key", idemKey)
		}

		c.JSON(http.StatusCreated, appt)
	}
}

// @Summary  My appointments
// @Success  200 {array} domain.Appointment
// @Router   /me/appointments [get]
func handleMyAppointments(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess := sessionFrom(c)

		appts, err := svcs.Schedule.DonorAppointments(c.Request.Context(), sess.Profile.UserID)
		if err != nil {
			respondErr(c, err)
			return
		}

		c.JSON(http.StatusOK, appts)
	}
}

// @Summary  My donation history
// @Success  200 {array} domain.Donation
// @Router   /me/donations [get]
func handleMyDonations(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess := sessionFrom(c)

		ds, err := svcs.Schedule.DonorDonations(c.Request.Context(), sess.Profile.UserID)
		if err != nil {
			respondErr(c, err)
			return
		}

		c.JSON(http.StatusOK, ds)
	}
}

// @Summary  Venue schedule, grouped by date
// @Param    id     path   string  true  "Venue ID (uuid)"
// @Param    view   query  string  false "active|past (default active)"
// @Param    search query  string  false "donor name substring"
// @Success  200 {array} schedule.DayGroup
// @Router   /venues/{id}/appointments [get]
func handleVenueSchedule(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		venueID, ok := parseUUIDParam(c, "id")
		if !ok {
			return
		}

		view := schedule.View(c.DefaultQuery("view", string(schedule.ViewActive)))
		if view != schedule.ViewActive && view != schedule.ViewPast {
			badRequest(c, "view must be active or past")
			return
		}

		sess := sessionFrom(c)

		groups, err := svcs.Schedule.VenueSchedule(
			c.Request.Context(),
			venueID,
			sess.Profile.UserID,
			view,
			c.Query("search"),
		)
		if err != nil {
			respondErr(c, err)
			return
		}

		c.JSON(http.StatusOK, groups)
	}
}

// @Summary  Venue dashboard: stock plus schedule in one response
// @Param    id     path   string  true  "Venue ID (uuid)"
// @Param    view   query  string  false "active|past (default active)"
// @Param    search query  string  false "donor name substring"
// @Success  200 {object} DashboardResponse
// @Router   /venues/{id}/dashboard [get]
func handleDashboard(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		venueID, ok := parseUUIDParam(c, "id")
		if !ok {
			return
		}

		view := schedule.View(c.DefaultQuery("view", string(schedule.ViewActive)))
		if view != schedule.ViewActive && view != schedule.ViewPast {
			badRequest(c, "view must be active or past")
			return
		}

		sess := sessionFrom(c)

		rec, err := svcs.Inventory.Snapshot(c.Request.Context(), venueID)
		if err != nil {
			respondErr(c, err)
			return
		}

		groups, err := svcs.Schedule.VenueSchedule(
			c.Request.Context(),
			venueID,
			sess.Profile.UserID,
			view,
			c.Query("search"),
		)
		if err != nil {
			respondErr(c, err)
			return
		}

		c.JSON(http.StatusOK, DashboardResponse{
			Inventory: inventoryDTO(rec),
			Schedule:  groups,
		})
	}
}

// @Summary  Complete an appointment (records the donation, +1 stock)
// @Param    id      path  string  true  "Venue ID (uuid)"
// @Param    apptID  path  string  true  "Appointment ID (uuid)"
// @Param    req body  CompleteAppointmentRequest true "payload"
// @Success  200 {object} domain.Donation
// @Failure  400 {object} ErrorResponse "invalid confirmed blood type"
// @Failure  409 {object} ErrorResponse "already finalized"
// @Router   /venues/{id}/appointments/{apptID}/complete [post]
func handleCompleteAppointment(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		venueID, ok := parseUUIDParam(c, "id")
		if !ok {
			return
		}
		apptID, ok := parseUUIDParam(c, "apptID")
		if !ok {
			return
		}

		var req CompleteAppointmentRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err.Error())
			return
		}

		sess := sessionFrom(c)

		d, err := svcs.Schedule.Complete(
			c.Request.Context(),
			venueID,
			sess.Profile.UserID,
			apptID,
			req.ConfirmedBloodType,
		)
		if err != nil {
			respondErr(c, err)
			return
		}

		c.JSON(http.StatusOK, d)
	}
}

// @Summary  Mark an appointment as no-show
// @Param    id      path  string  true  "Venue ID (uuid)"
// @Param    apptID  path  string  true  "Appointment ID (uuid)"
// @Success  204
// @Failure  409 {object} ErrorResponse "already finalized"
// @Router   /venues/{id}/appointments/{apptID}/no-show [post]
func handleNoShowAppointment(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		venueID, ok := parseUUIDParam(c, "id")
		if !ok {
			return
		}
		apptID, ok := parseUUIDParam(c, "apptID")
		if !ok {
			return
		}

		sess := sessionFrom(c)

		if err := svcs.Schedule.MarkNoShow(
			c.Request.Context(),
			venueID,
			sess.Profile.UserID,
			apptID,
		); err != nil {
			respondErr(c, err)
			return
		}

		c.Status(http.StatusNoContent)
	}
}

// @Summary  Upcoming camps, ascending by date
// @Success  200 {array} domain.DonationCamp
// @Router   /camps/upcoming [get]
func handleUpcomingCamps(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		cs, err := svcs.Camps.Upcoming(c.Request.Context())
		if err != nil {
			respondErr(c, err)
			return
		}

		writeJSONWithCache(c, http.StatusOK, cs, "public, max-age=60", true)
	}
}

// @Summary  Publish a donation camp
// @Param    req body  CreateCampRequest true "payload"
// @Success  201 {object} domain.DonationCamp
// @Failure  400 {object} ErrorResponse
// @Router   /camps [post]
func handleCreateCamp(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req CreateCampRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err.Error())
			return
		}

		sess := sessionFrom(c)

		camp, err := svcs.Camps.Create(c.Request.Context(), sess.Profile.UserID, camps.CampFields{
			Name:      req.Name,
			Organizer: req.Organizer,
			Contact:   req.Contact,
			Address:   req.Address,
			Date:      req.Date,
			StartTime: req.StartTime,
			EndTime:   req.EndTime,
			Lat:       req.Lat,
			Lng:       req.Lng,
		})
		if err != nil {
			respondErr(c, err)
			return
		}

		c.JSON(http.StatusCreated, camp)
	}
}

// @Summary  Forward geocode an address
// @Param    q  query  string  true  "free-text address"
// @Success  200 {array} geocode.Place
// @Failure  502 {object} ErrorResponse
// @Router   /geocode/search [get]
func handleGeocodeSearch(resolver *geocode.Resolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		q := strings.TrimSpace(c.Query("q"))
		if q == "" {
			badRequest(c, "missing q")
			return
		}

		places, err := resolver.Search(c.Request.Context(), q)
		if err != nil {
			c.JSON(http.StatusBadGateway, ErrorResponse{Error: "geocoding unavailable"})
			return
		}

		c.JSON(http.StatusOK, places)
	}
}

// @Summary  Reverse geocode a coordinate (latest-wins per session)
// @Param    lat  query  number  true  "latitude"
// @Param    lng  query  number  true  "longitude"
// @Success  200 {object} ReverseGeocodeResponse
// @Failure  409 {object} ErrorResponse "superseded by a newer lookup"
// @Router   /geocode/reverse [get]
func handleGeocodeReverse(resolver *geocode.Resolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		lat, err1 := strconv.ParseFloat(c.Query("lat"), 64)
		lng, err2 := strconv.ParseFloat(c.Query("lng"), 64)
		if err1 != nil || err2 != nil {
			badRequest(c, "invalid lat/lng")
			return
		}

		// scope the latest-wins guard to one picker session
		key := sessionFrom(c).Token
		if key == "" {
			key = c.ClientIP()
		}

		label, superseded := resolver.Reverse(c.Request.Context(), key, lat, lng)
		if superseded {
			c.JSON(http.StatusConflict, ErrorResponse{Error: "superseded by a newer lookup"})
			return
		}

		c.JSON(http.StatusOK, ReverseGeocodeResponse{Label: label})
	}
}

// --- Helpers ---

func sessionDTO(sess domain.Session) SessionResponse {
	return SessionResponse{
		Token:   sess.Token,
		State:   string(sess.State),
		Profile: sess.Profile,
	}
}

func parseUUIDParam(c *gin.Context, name string) (uuid.UUID, bool) {
	v, err := uuid.Parse(c.Param(name))
	if err != nil {
		badRequest(c, "invalid "+name)
		return uuid.Nil, false
	}
	return v, true
}

func parseIntDefault(s string, def int) int {
	if s == "" {
		return def
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return v
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, ErrorResponse{Error: msg})
}

func respondErr(c *gin.Context, err error) {
	if err == nil {
		c.Status(http.StatusNoContent)
		return
	}

	switch {
	// auth service
	case errors.Is(err, auth.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "invalid email or password"})
		return
	case errors.Is(err, auth.ErrEmailTaken):
		c.JSON(http.StatusConflict, ErrorResponse{Error: "email already registered"})
		return
	case errors.Is(err, auth.ErrWeakPassword):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "password too short"})
		return
	case errors.Is(err, auth.ErrInvalidRole):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid role"})
		return
	case errors.Is(err, auth.ErrUserNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "user not found"})
		return
	// venues service
	case errors.Is(err, venues.ErrVenueNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "venue not found"})
		return
	case errors.Is(err, venues.ErrVenueConflict):
		c.JSON(http.StatusConflict, ErrorResponse{Error: "venue already exists"})
		return
	case errors.Is(err, venues.ErrInvalidKind):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid venue kind"})
		return
	// inventory service
	case errors.Is(err, inventory.ErrInvalidBloodType):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid blood type"})
		return
	case errors.Is(err, inventory.ErrDeltaTooLarge):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "delta exceeds the per-request cap"})
		return
	case errors.Is(err, inventory.ErrNegativeStock):
		c.JSON(http.StatusUnprocessableEntity, ErrorResponse{Error: "stock cannot go negative"})
		return
	case errors.Is(err, inventory.ErrVenueNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "venue not found"})
		return
	case errors.Is(err, inventory.ErrNotOwner):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "venue not found"})
		return
	// schedule service
	case errors.Is(err, schedule.ErrInvalidBloodType):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid confirmed blood type"})
		return
	case errors.Is(err, schedule.ErrInvalidDate):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid appointment date"})
		return
	case errors.Is(err, schedule.ErrEmptyTimeSlot):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "empty time slot"})
		return
	case errors.Is(err, schedule.ErrApptNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "appointment not found"})
		return
	case errors.Is(err, schedule.ErrAlreadyFinalized):
		c.JSON(http.StatusConflict, ErrorResponse{Error: "appointment already finalized"})
		return
	case errors.Is(err, schedule.ErrDonationRecorded):
		c.JSON(http.StatusConflict, ErrorResponse{Error: "donation already recorded"})
		return
	case errors.Is(err, schedule.ErrVenueNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "venue not found"})
		return
	case errors.Is(err, schedule.ErrNotOwner):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "venue not found"})
		return
	// camps service
	case errors.Is(err, camps.ErrMissingFields):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "missing camp fields"})
		return
	case errors.Is(err, camps.ErrInvalidDate):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid camp date"})
		return
	case errors.Is(err, camps.ErrInvalidTime):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid camp time range"})
		return
	}

	c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
}
