package api

import (
	"net/http"

	"waba-admin/internal/backend"
	"waba-admin/internal/database"
	"waba-admin/internal/insights"
	"waba-admin/internal/logging"
	"waba-admin/internal/session"
	"waba-admin/internal/web"
	"waba-admin/internal/ws"

	"github.com/gin-gonic/gin"
	"github.com/rs/cors"
)

type Dependencies struct {
	Client     *backend.Client
	Sessions   *session.Manager
	Store      *database.ActivityStore
	Hub        *ws.Hub
	Summarizer insights.Summarizer
	PageSize   int
}

// NewRouter wires every page and JSON route behind the session guard.
func NewRouter(d Dependencies) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), logging.RequestLogger())
	r.SetHTMLTemplate(web.Templates())
	r.StaticFS("/static", http.FS(web.Static()))

	pages := NewPages(d.Sessions, d.PageSize)
	activity := NewActivityLog(d.Store, d.Hub)

	dashboardHandler := NewDashboardHandler(pages, d.Client, d.Summarizer)
	userHandler := NewUserHandler(pages, d.Client, activity)
	balanceHandler := NewBalanceHandler(pages, d.Client, activity)
	searchHandler := NewSearchHandler(pages, d.Client)
	activityHandler := NewActivityHandler(pages, d.Store)
	authHandler := NewAuthHandler(pages, d.Client, activity,
		userHandler.Forget, balanceHandler.Forget, searchHandler.Forget)

	guarded := r.Group("/", d.Sessions.Guard())
	{
		guarded.GET("/login", authHandler.LoginPage)
		guarded.POST("/login", authHandler.Login)
		guarded.POST("/logout", authHandler.Logout)

		guarded.GET("/", dashboardHandler.Home)

		guarded.GET("/users/manage", userHandler.ManageUsers)
		guarded.POST("/users/:id/status", userHandler.SetStatus)
		guarded.GET("/users", userHandler.CreateUserPage)
		guarded.POST("/users", userHandler.CreateUser)

		guarded.GET("/users/balance", balanceHandler.BalancePage)
		guarded.POST("/users/balance", balanceHandler.AddBalance)

		guarded.GET("/search", searchHandler.SearchPage)
		guarded.GET("/messages", searchHandler.MessagesPage)
		guarded.GET("/activity", activityHandler.ActivityPage)

		if d.Hub != nil {
			guarded.GET("/ws", func(c *gin.Context) {
				d.Hub.ServeWs(c.Writer, c.Request)
			})
		}

		apiGroup := guarded.Group("/api")
		{
			apiGroup.GET("/users", userHandler.ListUsers)
			apiGroup.GET("/campaigns", userHandler.ListCampaigns)
			apiGroup.GET("/payments", balanceHandler.ListPayments)
			apiGroup.GET("/balance", balanceHandler.Balance)
			apiGroup.GET("/series", balanceHandler.Series)
			apiGroup.GET("/analytics/summary", dashboardHandler.Summary)
			apiGroup.POST("/analytics/summary", dashboardHandler.SummarizeShown)
			apiGroup.GET("/activity", activityHandler.ListActivity)
		}
	}

	return r
}

// WithCORS lets the listed origins call the dashboard with credentials.
// Without origins the handler stays same-origin only.
func WithCORS(h http.Handler, origins []string) http.Handler {
	if len(origins) == 0 {
		return h
	}
	return cors.New(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodOptions},
		AllowedHeaders:   []string{"Content-Type", "Authorization", "X-Request-ID"},
		AllowCredentials: true,
	}).Handler(h)
}
