package routes

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware" // ← алиас!

	"github.com/addalive/admin_console/config"
	"github.com/addalive/admin_console/internal/api"
	"github.com/addalive/admin_console/internal/apiclient"
	authHandlers "github.com/addalive/admin_console/internal/handlers/auth"
	dashboardHandlers "github.com/addalive/admin_console/internal/handlers/dashboard"
	exportHandlers "github.com/addalive/admin_console/internal/handlers/export"
	giftHandlers "github.com/addalive/admin_console/internal/handlers/gifts"
	mediaHandlers "github.com/addalive/admin_console/internal/handlers/media"
	profileHandlers "github.com/addalive/admin_console/internal/handlers/profile"
	userHandlers "github.com/addalive/admin_console/internal/handlers/users"
	"github.com/addalive/admin_console/internal/middleware"
	"github.com/addalive/admin_console/internal/pkg/response"
	"github.com/addalive/admin_console/internal/session"
	"github.com/addalive/admin_console/internal/web"
)

// Deps are the process-level collaborators the router is built from.
type Deps struct {
	Config  *config.Config
	Catalog *config.Catalog
	Store   session.Store
	// Sheets is optional; without it the Sheets export reports itself unconfigured.
	Sheets exportHandlers.SheetsWriter
	// HTTPClient overrides the backend client, used by tests.
	HTTPClient *http.Client
}

// Setup инициализирует и возвращает настроенный маршрутизатор.
func Setup(d Deps) (*chi.Mux, error) {
	cfg := d.Config

	// Логин идёт отдельным клиентом без токена: менеджер сессий ещё не создан.
	loginClient := apiclient.New(apiclient.Options{
		BaseURL: cfg.APIBaseURL, Timeout: cfg.APITimeout, HTTPClient: d.HTTPClient,
	})
	sessions := session.NewManager(d.Store, api.NewAuth(loginClient), cfg.SessionTTL)
	client := apiclient.New(apiclient.Options{
		BaseURL:        cfg.APIBaseURL,
		Timeout:        cfg.APITimeout,
		Tokens:         sessions,
		OnUnauthorized: sessions.Expire,
		HTTPClient:     d.HTTPClient,
	})
	cookie := session.NewCookie(cfg.SessionSecret, cfg.CookieSecure)

	view, err := web.NewRenderer(d.Catalog)
	if err != nil {
		return nil, fmt.Errorf("templates: %w", err)
	}

	users := api.NewUsers(client)
	gifts := api.NewGifts(client)
	banners := api.NewBanners(client)
	posters := api.NewPosters(client)
	admin := api.NewAdmin(client)

	authHandler := authHandlers.NewAuthHandler(sessions, cookie, view)
	dashboardHandler := dashboardHandlers.NewDashboardHandler(users, gifts, banners, posters, admin, view)
	userHandler := userHandlers.NewUsersHandler(users, d.Catalog, view)
	giftHandler := giftHandlers.NewGiftsHandler(gifts, view)
	bannerHandler := mediaHandlers.NewBannersHandler(banners, view)
	posterHandler := mediaHandlers.NewPostersHandler(posters, view)
	profileHandler := profileHandlers.NewProfileHandler(admin, view)
	exportHandler := exportHandlers.NewExportHandler(users, d.Sheets, d.Catalog.IsRole, view)

	router := chi.NewRouter()

	router.Use(chiMiddleware.RequestID)
	router.Use(chiMiddleware.RealIP)
	router.Use(chiMiddleware.Logger)
	router.Use(chiMiddleware.Recoverer)
	router.Use(cookie.Verifier())
	router.Use(middleware.LoadSession(sessions, cookie))

	// Публичные маршруты
	router.Handle("/static/*", web.Static())
	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		response.RespondWithJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	router.Group(func(r chi.Router) {
		r.Use(middleware.RedirectIfAuthenticated)
		r.Get("/login", authHandler.LoginPage)
		r.Post("/login", authHandler.Login)
	})
	router.Post("/logout", authHandler.Logout)

	router.Group(func(r chi.Router) {
		r.Use(middleware.RequireSession)

		r.Get("/", dashboardHandler.Home)

		r.Get("/users", userHandler.Users)
		r.Get("/roles", userHandler.Roles)
		r.Post("/users/{id}/role", userHandler.AssignRole)
		r.Post("/users/{id}/zone", userHandler.UpdateZone)
		r.Post("/users/{id}/stats", userHandler.UpdateStats)
		r.Post("/users/{id}/coins", userHandler.AssignCoins)
		r.Get("/users/export.xlsx", exportHandler.XLSX)
		r.Get("/users/export/sheets", exportHandler.SheetsForm)
		r.Post("/users/export/sheets", exportHandler.Sheets)

		r.Get("/gifts", giftHandler.Gifts)
		r.Post("/gifts", giftHandler.Create)
		r.Post("/gifts/{id}", giftHandler.Update)
		r.Get("/gifts/{id}/delete", giftHandler.ConfirmDelete)
		r.Post("/gifts/{id}/delete", giftHandler.Delete)
		r.Get("/gift-categories", giftHandler.Categories)

		r.Get("/banners", bannerHandler.List)
		r.Post("/banners", bannerHandler.Create)
		r.Get("/posters", posterHandler.List)
		r.Post("/posters", posterHandler.Create)

		r.Get("/profile", profileHandler.Show)
		r.Post("/profile", profileHandler.Update)
		r.Post("/profile/coins", profileHandler.AssignCoins)
	})

	// Пункты меню без экрана показываются неактивными.
	err = chi.Walk(router, func(method, route string, _ http.Handler, _ ...func(http.Handler) http.Handler) error {
		if method == http.MethodGet && !strings.ContainsAny(route, "{*") {
			view.Enable(route)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk routes: %w", err)
	}
	return router, nil
}
