package router

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/alejandrobg101/Syllabus-Chatbot/config"
	"github.com/alejandrobg101/Syllabus-Chatbot/internal/api/handler"
	"github.com/alejandrobg101/Syllabus-Chatbot/internal/api/middleware"
	"github.com/alejandrobg101/Syllabus-Chatbot/internal/dto"
	"github.com/alejandrobg101/Syllabus-Chatbot/pkg/redis"
)

// Setup builds the gin engine. rdb may be nil, which disables rate limiting.
func Setup(cfg *config.Config, h *handler.Handler, rdb *redis.Client, logger *zap.Logger) (*gin.Engine, error) {
	gin.SetMode(gin.ReleaseMode)

	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return nil, fmt.Errorf("unexpected binding validator engine %T", binding.Validator.Engine())
	}
	if err := dto.RegisterValidators(v, cfg.Scheduling.DayPatterns); err != nil {
		return nil, fmt.Errorf("register validators: %w", err)
	}

	r := gin.New()

	// ── global middleware ──
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins))
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.BodyLimit(cfg.Server.MaxBodyBytes))

	// ── health ──
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// writes are rate limited per client
	limited := middleware.RateLimit(rdb, cfg.Server.RateLimit.Requests, cfg.Server.RateLimit.Window, logger)

	// ── API v1 ──
	v1 := r.Group("/api/v1")
	{
		courses := v1.Group("/courses")
		{
			courses.GET("", h.Course.ListCourses)
			courses.GET("/:id", h.Course.GetCourse)
			courses.GET("/:id/requisites", h.Requisite.ListCourseRequisites)
			courses.POST("", limited, h.Course.CreateCourse)
			courses.PUT("/:id", limited, h.Course.UpdateCourse)
			courses.DELETE("/:id", limited, h.Course.DeleteCourse)
		}

		rooms := v1.Group("/rooms")
		{
			rooms.GET("", h.Room.ListRooms)
			rooms.GET("/:id", h.Room.GetRoom)
			rooms.POST("", limited, h.Room.CreateRoom)
			rooms.PUT("/:id", limited, h.Room.UpdateRoom)
			rooms.DELETE("/:id", limited, h.Room.DeleteRoom)
		}

		meetings := v1.Group("/meetings")
		{
			meetings.GET("", h.Meeting.ListMeetings)
			meetings.GET("/:id", h.Meeting.GetMeeting)
			meetings.POST("", limited, h.Meeting.CreateMeeting)
			meetings.PUT("/:id", limited, h.Meeting.UpdateMeeting)
			meetings.DELETE("/:id", limited, h.Meeting.DeleteMeeting)
		}

		sections := v1.Group("/sections")
		{
			sections.GET("", h.Section.ListSections)
			sections.GET("/:id", h.Section.GetSection)
			sections.POST("", limited, h.Section.CreateSection)
			sections.POST("/validate", h.Section.ValidateSection)
			sections.PUT("/:id", limited, h.Section.UpdateSection)
			sections.DELETE("/:id", limited, h.Section.DeleteSection)
		}

		requisites := v1.Group("/requisites")
		{
			requisites.POST("", limited, h.Requisite.CreateRequisite)
			requisites.GET("/:classid/:reqid", h.Requisite.GetRequisite)
			requisites.DELETE("/:classid/:reqid", limited, h.Requisite.DeleteRequisite)
		}

		export := v1.Group("/export")
		{
			export.GET("/timetable", h.Export.ExportTimetable)
			export.GET("/calendar", h.Export.ExportCalendar)
		}
	}

	return r, nil
}
