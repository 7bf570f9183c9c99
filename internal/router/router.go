package router // package router defines how HTTP routes are registered for the API

import (
    "github.com/labstack/echo/v4" // import the Echo web framework to handle routing
    "github.com/redis/go-redis/v9"

    "github.com/localmart/local-services/internal/config"
    "github.com/localmart/local-services/internal/handler"    // import the handlers that implement business logic
    "github.com/localmart/local-services/internal/middleware" // import middleware for JWT authentication and role enforcement
    "github.com/localmart/local-services/internal/model"
)

// RegisterRoutes registers routes that do not require authentication
// on the provided Echo instance.  Currently that is only the health
// check used by load balancers.
func RegisterRoutes(e *echo.Echo, h *handler.HealthHandler) {
    e.GET("/healthz", h.Check)
}

// RegisterAuth registers all authentication‑related routes and applies the
// necessary middleware.  Unauthenticated operations live under /v1/auth,
// while protected endpoints live under /v1.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string) {
    // Operations that do not require an existing session.
    g := e.Group("/v1/auth")
    g.POST("/register", a.Register)
    g.POST("/login", a.Login)
    g.POST("/refresh", a.Refresh)

    // Protected endpoints.  Any known role may read its own identity,
    // revoke its sessions, or ask where to go after login.
    auth := e.Group("/v1")
    auth.Use(middleware.JWTAuth(jwtSecret))
    auth.Use(middleware.RequireRole(model.RoleCustomer, model.RoleConsultant, model.RoleLocationOwner))
    auth.GET("/me", a.Me)
    auth.POST("/logout", a.Logout)
    auth.GET("/post-login", handler.PostLogin)
}

// RegisterPublic registers the unauthenticated browse endpoints: the two
// service maps, the bookable timeslot list and garage sale event detail.
// These routes carry the Redis response cache and the token-bucket rate
// limiter; both degrade to pass-through when Redis is unavailable.
func RegisterPublic(e *echo.Echo, p *handler.PublicHandler, rdb *redis.Client) {
    g := e.Group(
        "/v1",
        middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb),
        middleware.NewRedisCache(config.LoadCacheConfig(), rdb),
    )
    // Physio locations with coordinates for the customer map
    g.GET("/physio/map", p.PhysioMap)
    // Fixed bookable start times
    g.GET("/physio/timeslots", p.Timeslots)
    // Garage sale events active on a date, with coordinates
    g.GET("/garage-sale/map", p.GarageSaleMap)
    // One event with its listed items
    g.GET("/garage-sale/events/:id", p.EventDetail)
}

// RegisterCustomer registers customer-scoped endpoints under /v1.  All
// routes require a valid JWT and the CUSTOMER role.  Customers request
// physio bookings and manage garage sale reservations.
func RegisterCustomer(e *echo.Echo, b *handler.BookingHandler, cart *handler.CartHandler, jwtSecret string) {
    g := e.Group(
        "/v1",
        middleware.JWTAuth(jwtSecret),
        middleware.RequireRole(model.RoleCustomer),
    )
    // Physio booking flow
    g.GET("/physio/consultants", b.AvailableConsultants)
    g.POST("/physio/bookings", b.CreateBooking)

    // Garage sale cart flow, one draft per event
    g.PUT("/garage-sale/events/:id/selection", cart.Select)
    g.GET("/garage-sale/events/:id/review", cart.Review)
    g.DELETE("/garage-sale/events/:id/selection", cart.Clear)
    g.POST("/garage-sale/events/:id/confirm", cart.Confirm)
    g.GET("/my-reservations", cart.MyReservations)
}

// RegisterConsultant registers consultant-scoped endpoints.  The
// accept/decline token routes require the same JWT as the interactive
// ones: the action token only locates the appointment, it is not a
// credential, so a forwarded link is useless to anyone but the
// assigned consultant.
func RegisterConsultant(e *echo.Echo, ch *handler.ConsultantHandler, pk *handler.PickupHandler, jwtSecret string) {
    g := e.Group(
        "/v1/consultant",
        middleware.JWTAuth(jwtSecret),
        middleware.RequireRole(model.RoleConsultant),
    )
    g.GET("/requests", ch.PendingRequests)
    g.GET("/appointments", ch.MyAppointments)
    g.POST("/appointments/:id/accept", ch.Accept)
    g.POST("/appointments/:id/decline", ch.Decline)
    g.POST("/appointments/:id/refresh-link", ch.RefreshLink)
    g.GET("/pickups", pk.ListPickups)

    tg := e.Group(
        "/v1/appointments/token",
        middleware.JWTAuth(jwtSecret),
        middleware.RequireRole(model.RoleConsultant),
    )
    tg.POST("/:token/accept", ch.TokenAccept)
    tg.POST("/:token/decline", ch.TokenDecline)
}

// RegisterShared registers endpoints available to more than one role.
// The appointment status endpoint checks customer/consultant ownership
// inside the handler.
func RegisterShared(e *echo.Echo, b *handler.BookingHandler, jwtSecret string) {
    g := e.Group(
        "/v1",
        middleware.JWTAuth(jwtSecret),
        middleware.RequireRole(model.RoleCustomer, model.RoleConsultant),
    )
    g.GET("/appointments/:id", b.BookingStatus)
}

// RegisterOwner registers location-owner endpoints: venue management,
// the appointment overview, and garage sale event/item administration.
func RegisterOwner(e *echo.Echo, ol *handler.OwnerLocationHandler, oe *handler.OwnerEventHandler, jwtSecret string) {
    g := e.Group(
        "/v1/owner",
        middleware.JWTAuth(jwtSecret),
        middleware.RequireRole(model.RoleLocationOwner),
    )
    // Physio side
    g.GET("/locations", ol.ListLocations)
    g.POST("/locations", ol.CreateLocation)
    g.POST("/locations/:id/consultants", ol.LinkConsultant)
    g.GET("/appointments", ol.AppointmentOverview)

    // Garage sale side
    g.POST("/events", oe.CreateEvent)
    g.GET("/events", oe.ListEvents)
    g.POST("/events/:id/items", oe.CreateItem)
    g.GET("/events/:id/items", oe.ListItems)
    g.PUT("/items/:item_id", oe.UpdateItem)
    g.DELETE("/items/:item_id", oe.DeleteItem)
}
