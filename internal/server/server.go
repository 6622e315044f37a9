package server

import (
	"context"
	"net/http"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/societyhq/societyhub/internal/asset"
	assetdomain "github.com/societyhq/societyhub/internal/asset/domain"
	"github.com/societyhq/societyhub/internal/audit"
	auditdomain "github.com/societyhq/societyhub/internal/audit/domain"
	"github.com/societyhq/societyhub/internal/auth"
	authdomain "github.com/societyhq/societyhub/internal/auth/domain"
	"github.com/societyhq/societyhub/internal/auth/token"
	"github.com/societyhq/societyhub/internal/authorization"
	authzdomain "github.com/societyhq/societyhub/internal/authorization/domain"
	"github.com/societyhq/societyhub/internal/billing"
	billingdomain "github.com/societyhq/societyhub/internal/billing/domain"
	"github.com/societyhq/societyhub/internal/config"
	"github.com/societyhq/societyhub/internal/member"
	memberdomain "github.com/societyhq/societyhub/internal/member/domain"
	"github.com/societyhq/societyhub/internal/observability"
	"github.com/societyhq/societyhub/internal/payment"
	paymentdomain "github.com/societyhq/societyhub/internal/payment/domain"
	"github.com/societyhq/societyhub/internal/pdf"
	"github.com/societyhq/societyhub/internal/permission"
	permissiondomain "github.com/societyhq/societyhub/internal/permission/domain"
	"github.com/societyhq/societyhub/internal/ratelimit"
	"github.com/societyhq/societyhub/internal/role"
	roledomain "github.com/societyhq/societyhub/internal/role/domain"
	"github.com/societyhq/societyhub/internal/society"
	societydomain "github.com/societyhq/societyhub/internal/society/domain"
	"github.com/societyhq/societyhub/internal/subscription"
	subscriptiondomain "github.com/societyhq/societyhub/internal/subscription/domain"
	"github.com/societyhq/societyhub/internal/userrole"
	userroledomain "github.com/societyhq/societyhub/internal/userrole/domain"
	"github.com/societyhq/societyhub/internal/visitor"
	visitordomain "github.com/societyhq/societyhub/internal/visitor/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var Module = fx.Module("http.server",
	fx.Provide(NewEngine),
	audit.Module,
	auth.Module,
	authorization.Module,
	role.Module,
	permission.Module,
	userrole.Module,
	society.Module,
	member.Module,
	asset.Module,
	billing.Module,
	payment.Module,
	pdf.Module,
	visitor.Module,
	subscription.Module,
	ratelimit.Module,
	fx.Invoke(NewServer),
	fx.Invoke(run),
)

func NewEngine(cfg config.Config, httpMetrics *observability.HTTPMetrics) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(RequestContext())
	r.Use(observability.TracingMiddleware())
	r.Use(httpMetrics.GinMiddleware())
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

type Server struct {
	engine          *gin.Engine
	cfg             config.Config
	db              *gorm.DB
	log             *zap.Logger
	genID           *snowflake.Node
	issuer          *token.Issuer
	loginLimiter    *ratelimit.LoginLimiter
	receipts        pdf.Renderer
	settings        *config.BillingSettingsHolder
	authSvc         authdomain.Service
	authzSvc        authzdomain.Service
	auditSvc        auditdomain.Service
	roleSvc         roledomain.Service
	permissionSvc   permissiondomain.Service
	userRoleSvc     userroledomain.Service
	societySvc      societydomain.Service
	memberSvc       memberdomain.Service
	assetSvc        assetdomain.Service
	billingSvc      billingdomain.Service
	paymentSvc      paymentdomain.Service
	visitorSvc      visitordomain.Service
	subscriptionSvc subscriptiondomain.Service
}

type ServerParams struct {
	fx.In

	Gin             *gin.Engine
	Cfg             config.Config
	DB              *gorm.DB
	Log             *zap.Logger
	GenID           *snowflake.Node
	Issuer          *token.Issuer
	LoginLimiter    *ratelimit.LoginLimiter `optional:"true"`
	Receipts        pdf.Renderer
	Settings        *config.BillingSettingsHolder
	AuthSvc         authdomain.Service
	AuthzSvc        authzdomain.Service
	AuditSvc        auditdomain.Service
	RoleSvc         roledomain.Service
	PermissionSvc   permissiondomain.Service
	UserRoleSvc     userroledomain.Service
	SocietySvc      societydomain.Service
	MemberSvc       memberdomain.Service
	AssetSvc        assetdomain.Service
	BillingSvc      billingdomain.Service
	PaymentSvc      paymentdomain.Service
	VisitorSvc      visitordomain.Service
	SubscriptionSvc subscriptiondomain.Service
}

func NewServer(p ServerParams) *Server {
	s := &Server{
		engine:          p.Gin,
		cfg:             p.Cfg,
		db:              p.DB,
		log:             p.Log.Named("http.server"),
		genID:           p.GenID,
		issuer:          p.Issuer,
		loginLimiter:    p.LoginLimiter,
		receipts:        p.Receipts,
		settings:        p.Settings,
		authSvc:         p.AuthSvc,
		authzSvc:        p.AuthzSvc,
		auditSvc:        p.AuditSvc,
		roleSvc:         p.RoleSvc,
		permissionSvc:   p.PermissionSvc,
		userRoleSvc:     p.UserRoleSvc,
		societySvc:      p.SocietySvc,
		memberSvc:       p.MemberSvc,
		assetSvc:        p.AssetSvc,
		billingSvc:      p.BillingSvc,
		paymentSvc:      p.PaymentSvc,
		visitorSvc:      p.VisitorSvc,
		subscriptionSvc: p.SubscriptionSvc,
	}

	s.registerRoutes()
	return s
}

func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) registerRoutes() {
	api := s.engine.Group("/api")

	authGroup := api.Group("/auth")
	authGroup.POST("/register", s.Register)
	authGroup.POST("/login", s.LoginRateLimit(), s.Login)
	authGroup.GET("/me", s.AuthRequired(), s.Me)

	protected := api.Group("", s.AuthRequired(), SocietyContext())

	users := protected.Group("/users")
	users.GET("", s.RequirePermission("users", "read"), s.ListUsers)
	users.GET("/:id", s.RequirePermission("users", "read"), s.GetUser)
	users.PUT("/:id", s.RequirePermission("users", "update"), s.UpdateUser)
	users.DELETE("/:id", s.RequirePermission("users", "delete"), s.DeleteUser)

	societies := protected.Group("/societies")
	societies.POST("", s.superAdminOnly(), s.CreateSociety)
	societies.GET("", s.RequirePermission("societies", "read"), s.ListSocieties)
	societies.GET("/:id", s.RequirePermission("societies", "read"), s.GetSociety)
	societies.PUT("/:id", s.RequirePermission("societies", "update"), s.UpdateSociety)
	societies.DELETE("/:id", s.superAdminOnly(), s.DeleteSociety)

	members := protected.Group("/members")
	members.POST("", s.RequirePermission("members", "create"), s.CreateMember)
	members.GET("", s.RequirePermission("members", "read"), s.ListMembers)
	members.GET("/:id", s.RequirePermission("members", "read"), s.GetMember)
	members.PUT("/:id", s.RequirePermission("members", "update"), s.UpdateMember)
	members.DELETE("/:id", s.RequirePermission("members", "delete"), s.DeleteMember)

	assets := protected.Group("/assets")
	assets.POST("", s.RequirePermission("assets", "create"), s.CreateAsset)
	assets.GET("", s.RequirePermission("assets", "read"), s.ListAssets)
	assets.GET("/:id", s.RequirePermission("assets", "read"), s.GetAsset)
	assets.PUT("/:id", s.RequirePermission("assets", "update"), s.UpdateAsset)
	assets.DELETE("/:id", s.RequirePermission("assets", "delete"), s.DeleteAsset)

	roles := protected.Group("/roles", s.superAdminOnly())
	roles.POST("", s.CreateRole)
	roles.GET("", s.ListRoles)
	roles.GET("/:id", s.GetRole)
	roles.PUT("/:id", s.UpdateRole)
	roles.DELETE("/:id", s.DeleteRole)
	roles.GET("/:id/permissions", s.ListRolePermissions)

	permissions := protected.Group("/permissions", s.superAdminOnly())
	permissions.POST("", s.CreatePermission)
	permissions.GET("", s.ListPermissions)
	permissions.GET("/:id", s.GetPermission)
	permissions.PUT("/:id", s.UpdatePermission)
	permissions.DELETE("/:id", s.DeletePermission)

	rolePermissions := protected.Group("/role-permissions", s.superAdminOnly())
	rolePermissions.POST("", s.SetRolePermission)
	rolePermissions.DELETE("/:id", s.RemoveRolePermission)

	userRoles := protected.Group("/user-roles")
	userRoles.POST("", s.RequireRole(authzdomain.SuperAdminRole, authzdomain.SocietyAdminRole), s.AssignUserRole)
	userRoles.GET("", s.RequirePermission("roles", "read"), s.ListUserRoles)
	userRoles.GET("/:id", s.RequirePermission("roles", "read"), s.GetUserRole)
	userRoles.POST("/:id/revoke", s.RequireRole(authzdomain.SuperAdminRole, authzdomain.SocietyAdminRole), s.RevokeUserRole)
	userRoles.DELETE("/:id", s.superAdminOnly(), s.DeleteUserRole)

	charges := protected.Group("/charge-templates")
	charges.POST("", s.RequirePermission("maintenance", "create"), s.CreateChargeTemplate)
	charges.GET("", s.RequirePermission("maintenance", "read"), s.ListChargeTemplates)
	charges.GET("/:id", s.RequirePermission("maintenance", "read"), s.GetChargeTemplate)
	charges.PUT("/:id", s.RequirePermission("maintenance", "update"), s.UpdateChargeTemplate)
	charges.DELETE("/:id", s.RequirePermission("maintenance", "delete"), s.DeleteChargeTemplate)

	bills := protected.Group("/maintenance/bills")
	bills.POST("", s.RequirePermission("maintenance", "create"), s.CreateBill)
	bills.GET("", s.RequirePermission("maintenance", "read"), s.ListBills)
	bills.GET("/:id", s.RequirePermission("maintenance", "read"), s.GetBill)
	bills.PUT("/:id", s.RequirePermission("maintenance", "update"), s.UpdateBill)
	bills.DELETE("/:id", s.RequirePermission("maintenance", "delete"), s.DeleteBill)

	billItems := protected.Group("/maintenance-bill-items")
	billItems.POST("", s.RequirePermission("maintenance", "create"), s.AddBillItem)
	billItems.PUT("/:id", s.RequirePermission("maintenance", "update"), s.UpdateBillItem)
	billItems.DELETE("/:id", s.RequirePermission("maintenance", "delete"), s.DeleteBillItem)

	payments := protected.Group("/payments")
	payments.GET("", s.RequirePermission("payments", "read"), s.ListPayments)
	payments.POST("/maintenance", s.RequirePermission("payments", "create"), s.ProcessMaintenancePayment)
	payments.GET("/maintenance/:id", s.RequirePermission("payments", "read"), s.GetPayment)
	payments.GET("/maintenance/:id/receipt.pdf", s.RequirePermission("payments", "read"), s.PaymentReceiptPDF)

	methods := protected.Group("/payment-methods")
	methods.POST("", s.RequirePermission("payments", "create"), s.CreatePaymentMethod)
	methods.GET("", s.RequirePermission("payments", "read"), s.ListPaymentMethods)
	methods.GET("/:id", s.RequirePermission("payments", "read"), s.GetPaymentMethod)
	methods.PUT("/:id", s.RequirePermission("payments", "update"), s.UpdatePaymentMethod)
	methods.DELETE("/:id", s.RequirePermission("payments", "delete"), s.DeletePaymentMethod)
	methods.POST("/:id/set-default", s.RequirePermission("payments", "update"), s.SetDefaultPaymentMethod)

	visitors := protected.Group("/visitors")
	visitors.POST("", s.RequirePermission("visitors", "create"), s.CheckInVisitor)
	visitors.GET("", s.RequirePermission("visitors", "read"), s.ListVisitors)
	visitors.GET("/:id", s.RequirePermission("visitors", "read"), s.GetVisitor)
	visitors.POST("/:id/checkout", s.RequirePermission("visitors", "update"), s.CheckOutVisitor)

	plans := protected.Group("/subscription-plans")
	plans.POST("", s.superAdminOnly(), s.CreateSubscriptionPlan)
	plans.GET("", s.ListSubscriptionPlans)
	plans.GET("/:id", s.GetSubscriptionPlan)
	plans.PUT("/:id", s.superAdminOnly(), s.UpdateSubscriptionPlan)
	plans.DELETE("/:id", s.superAdminOnly(), s.DeleteSubscriptionPlan)
	plans.POST("/:id/set-default", s.superAdminOnly(), s.SetDefaultSubscriptionPlan)

	subscriptions := protected.Group("/society-subscriptions")
	subscriptions.POST("", s.RequirePermission("subscriptions", "create"), s.CreateSocietySubscription)
	subscriptions.GET("", s.RequirePermission("subscriptions", "read"), s.ListSocietySubscriptions)
	subscriptions.GET("/:id", s.RequirePermission("subscriptions", "read"), s.GetSocietySubscription)
	subscriptions.PUT("/:id", s.RequirePermission("subscriptions", "update"), s.UpdateSocietySubscription)

	auditLogs := protected.Group("/audit-logs")
	auditLogs.GET("", s.RequirePermission("audit", "read"), s.ListAuditLogs)
}

func run(lc fx.Lifecycle, cfg config.Config, r *gin.Engine, log *zap.Logger) {
	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: r,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info("http server starting", zap.String("addr", cfg.HTTPAddr))
			go func() {
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					log.Fatal("http server failed", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}
