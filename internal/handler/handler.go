package handler

import (
	"context"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/locales/zh"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	zh_translations "github.com/go-playground/validator/v10/translations/zh"
	"github.com/sysu-ecnc-dev/salon-manager/backend/internal/board"
	"github.com/sysu-ecnc-dev/salon-manager/backend/internal/config"
	"github.com/sysu-ecnc-dev/salon-manager/backend/internal/domain"
	"github.com/sysu-ecnc-dev/salon-manager/backend/internal/stationconfig"
	"github.com/sysu-ecnc-dev/salon-manager/backend/internal/waitlist"
)

// Repository 是 handler 直接访问数据库的部分，其余读写都经过 board 等组件
type Repository interface {
	GetUserByID(ctx context.Context, id int64) (*domain.User, error)
	GetUserByUsername(ctx context.Context, username string) (*domain.User, error)
	GetAllStations(ctx context.Context) ([]*domain.Station, error)
	GetStationByID(ctx context.Context, id string) (*domain.Station, error)
	CreateStation(ctx context.Context, st *domain.Station) error
	UpdateStation(ctx context.Context, st *domain.Station) error
	DeleteWaitlistEntry(ctx context.Context, id string) error
	Ping(ctx context.Context) error
}

type Handler struct {
	validate       *validator.Validate
	config         *config.Config
	repository     Repository
	translator     ut.Translator
	board          *board.Board
	waitlist       *waitlist.Aggregator
	stationConfigs *stationconfig.Editor

	Mux *chi.Mux
}

func NewHandler(cfg *config.Config, repo Repository, b *board.Board, agg *waitlist.Aggregator, editor *stationconfig.Editor) (*Handler, error) {
	validate := validator.New(validator.WithRequiredStructEnabled())
	zh := zh.New()
	uni := ut.New(zh, zh)
	trans, _ := uni.GetTranslator("zh")
	if err := zh_translations.RegisterDefaultTranslations(validate, trans); err != nil {
		return nil, err
	}
	if err := registerValidations(validate, trans); err != nil {
		return nil, err
	}

	return &Handler{
		validate:       validate,
		config:         cfg,
		repository:     repo,
		translator:     trans,
		board:          b,
		waitlist:       agg,
		stationConfigs: editor,

		Mux: chi.NewRouter(),
	}, nil
}

func (h *Handler) RegisterRoutes() {
	h.Mux.Use(h.requestID)
	h.Mux.Use(h.logger)
	h.Mux.Use(h.recoverer)

	h.Mux.Get("/healthz", h.Healthz)

	// 认证相关
	h.Mux.Route("/auth", func(r chi.Router) {
		r.Post("/login", h.Login)
		r.Post("/logout", h.Logout)
	})

	// 以下 API 必须要在登录后才允许调用
	h.Mux.Group(func(r chi.Router) {
		r.Use(h.auth)

		r.Get("/me", h.GetMyInfo)

		r.Route("/stations", func(r chi.Router) {
			r.Get("/", h.GetAllStations)
			r.With(h.RequiredRole([]domain.Role{domain.RoleManager})).Post("/", h.CreateStation)
			r.Route("/{id}", func(r chi.Router) {
				r.Use(h.station)
				r.Get("/", h.GetStation)
				r.With(h.RequiredRole([]domain.Role{domain.RoleManager})).Patch("/", h.UpdateStation)
			})
		})

		r.Get("/schedule", h.GetSchedule)

		// 排班看板上的修改操作只有管理员可以进行
		r.Route("/appointments", func(r chi.Router) {
			r.Use(h.RequiredRole([]domain.Role{domain.RoleManager}))
			r.Post("/personal", h.CreatePersonalAppointment)
			r.Route("/resize", func(r chi.Router) {
				r.Get("/", h.GetPendingResize)
				r.Post("/confirm", h.ConfirmResize)
				r.Post("/cancel", h.CancelResize)
			})
			r.Route("/{id}", func(r chi.Router) {
				r.Use(h.appointmentID)
				r.Delete("/", h.DeleteAppointment)
				r.Post("/move", h.MoveAppointment)
				r.Post("/resize", h.BeginResize)
				r.Patch("/personal", h.UpdatePersonalAppointment)
				r.Post("/personal/cancel", h.CancelPersonalEdit)
			})
		})

		r.Route("/waitlist", func(r chi.Router) {
			r.Get("/", h.GetWaitlist)
			r.With(h.RequiredRole([]domain.Role{domain.RoleManager})).Delete("/{id}", h.DeleteWaitlistEntry)
		})

		r.Route("/station-configs", func(r chi.Router) {
			r.Get("/", h.GetStationConfigs)
			r.Group(func(r chi.Router) {
				r.Use(h.RequiredRole([]domain.Role{domain.RoleManager}))
				r.Put("/", h.SaveStationConfigs)
				r.Post("/copy", h.CopyStationConfig)
				r.Post("/{weekday}/visibility", h.ToggleStationVisibility)
				r.Post("/{weekday}/reorder", h.ReorderStations)
			})
		})
	})
}
