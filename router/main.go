package router

import (
	"log"
	"time"

	"github.com/abhi1580/coaching-center-sub003/config"
	"github.com/abhi1580/coaching-center-sub003/database"
	"github.com/abhi1580/coaching-center-sub003/handlers"
	announcement_handlers "github.com/abhi1580/coaching-center-sub003/handlers/announcement"
	attendance_handlers "github.com/abhi1580/coaching-center-sub003/handlers/attendance"
	auth_handlers "github.com/abhi1580/coaching-center-sub003/handlers/auth"
	batch_handlers "github.com/abhi1580/coaching-center-sub003/handlers/batch"
	content_handlers "github.com/abhi1580/coaching-center-sub003/handlers/content"
	enrollment_handlers "github.com/abhi1580/coaching-center-sub003/handlers/enrollment"
	payment_handlers "github.com/abhi1580/coaching-center-sub003/handlers/payment"
	staff_handlers "github.com/abhi1580/coaching-center-sub003/handlers/staff"
	standard_handlers "github.com/abhi1580/coaching-center-sub003/handlers/standard"
	student_handlers "github.com/abhi1580/coaching-center-sub003/handlers/student"
	subject_handlers "github.com/abhi1580/coaching-center-sub003/handlers/subject"
	teacher_handlers "github.com/abhi1580/coaching-center-sub003/handlers/teacher"
	"github.com/abhi1580/coaching-center-sub003/model"
	"github.com/abhi1580/coaching-center-sub003/services"
	"github.com/abhi1580/coaching-center-sub003/utils/auth"
	"github.com/abhi1580/coaching-center-sub003/utils/cache"
	"github.com/abhi1580/coaching-center-sub003/utils/middleware"
	"github.com/gofiber/fiber/v2"
)

// SetupRoutes wires every handler onto the fiber app. Staff roles can manage
// records and payments; attendance marking is for teachers and admins; the
// reconcile sweep endpoint is admin-only.
func SetupRoutes(app *fiber.App, store database.Storage, env *config.EnviornmentVariable) {
	if env.JWT_SECRET == "" {
		log.Fatal("JWT_SECRET environment variable is not set")
	}

	jwtIssuer := env.JWT_ISSUER
	if jwtIssuer == "" {
		jwtIssuer = "coaching-center-api"
	}

	jwtManager := auth.NewJWTManager(auth.JWTConfig{
		Secret:        env.JWT_SECRET,
		Expiry:        24 * time.Hour,
		RefreshExpiry: 7 * 24 * time.Hour,
		Issuer:        jwtIssuer,
	})

	db := store.GetDB()

	// Redis is optional; a nil cache disables stats caching without
	// affecting correctness.
	var redisCache *cache.RedisCache
	if env.REDIS_URL != "" {
		var err error
		redisCache, err = cache.NewRedisCache(env.REDIS_URL)
		if err != nil {
			log.Printf("Redis unavailable, stats caching disabled: %v", err)
			redisCache = nil
		}
	}

	// Services
	enrollmentService := services.NewEnrollmentService(db)
	attendanceService := services.NewAttendanceService(db, redisCache)
	batchService := services.NewBatchService(db)
	announcementService := services.NewAnnouncementService(db)

	// Handlers
	authHandler := auth_handlers.NewAuthHandler(db, jwtManager)
	studentHandler := student_handlers.NewStudentHandler(db, enrollmentService)
	teacherHandler := teacher_handlers.NewTeacherHandler(db)
	staffHandler := staff_handlers.NewStaffHandler(db)
	standardHandler := standard_handlers.NewStandardHandler(db)
	subjectHandler := subject_handlers.NewSubjectHandler(db)
	batchHandler := batch_handlers.NewBatchHandler(db, batchService)
	enrollmentHandler := enrollment_handlers.NewEnrollmentHandler(db, enrollmentService)
	attendanceHandler := attendance_handlers.NewAttendanceHandler(db, attendanceService)
	announcementHandler := announcement_handlers.NewAnnouncementHandler(db, announcementService)
	paymentHandler := payment_handlers.NewPaymentHandler(db)
	contentHandler := content_handlers.NewContentHandler(db)

	authMiddleware := middleware.NewAuthMiddleware(jwtManager, db)

	// Health
	app.Get("/health", func(c *fiber.Ctx) error {
		return handlers.HandleCheckHealth(c, store)
	})

	v1 := app.Group("/api/v1")

	// Auth
	authGroup := v1.Group("/auth")
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)
	authGroup.Post("/refresh", authHandler.Refresh)
	authGroup.Get("/profile", authMiddleware.Required(), authHandler.Profile)
	authGroup.Post("/change-password", authMiddleware.Required(), authHandler.ChangePassword)
	authGroup.Post("/logout", authMiddleware.Required(), authHandler.Logout)

	manage := authMiddleware.RequireRole(model.RoleAdmin, model.RoleStaff)
	teach := authMiddleware.RequireRole(model.RoleAdmin, model.RoleTeacher)

	// Students
	students := v1.Group("/students", authMiddleware.Required())
	students.Get("/", studentHandler.ListStudents)
	students.Get("/:id", studentHandler.GetStudent)
	students.Post("/", manage, studentHandler.CreateStudent)
	students.Put("/:id", manage, studentHandler.UpdateStudent)
	students.Delete("/:id", authMiddleware.RequireAdmin(), studentHandler.DeleteStudent)
	students.Get("/:id/attendance/:batch_id", attendanceHandler.GetStudentStats)
	students.Get("/:id/payments", manage, paymentHandler.StudentPayments)

	// Teachers
	teachers := v1.Group("/teachers", authMiddleware.Required())
	teachers.Get("/", teacherHandler.ListTeachers)
	teachers.Get("/:id", teacherHandler.GetTeacher)
	teachers.Post("/", manage, teacherHandler.CreateTeacher)
	teachers.Put("/:id", manage, teacherHandler.UpdateTeacher)
	teachers.Delete("/:id", authMiddleware.RequireAdmin(), teacherHandler.DeleteTeacher)

	// Staff
	staffGroup := v1.Group("/staff", authMiddleware.Required(), manage)
	staffGroup.Get("/", staffHandler.ListStaff)
	staffGroup.Get("/:id", staffHandler.GetStaff)
	staffGroup.Post("/", staffHandler.CreateStaff)
	staffGroup.Put("/:id", staffHandler.UpdateStaff)
	staffGroup.Delete("/:id", authMiddleware.RequireAdmin(), staffHandler.DeleteStaff)

	// Reference data
	standards := v1.Group("/standards", authMiddleware.Required())
	standards.Get("/", standardHandler.ListStandards)
	standards.Get("/:id", standardHandler.GetStandard)
	standards.Post("/", manage, standardHandler.CreateStandard)
	standards.Put("/:id", manage, standardHandler.UpdateStandard)
	standards.Delete("/:id", authMiddleware.RequireAdmin(), standardHandler.DeleteStandard)

	subjects := v1.Group("/subjects", authMiddleware.Required())
	subjects.Get("/", subjectHandler.ListSubjects)
	subjects.Get("/:id", subjectHandler.GetSubject)
	subjects.Post("/", manage, subjectHandler.CreateSubject)
	subjects.Put("/:id", manage, subjectHandler.UpdateSubject)
	subjects.Delete("/:id", authMiddleware.RequireAdmin(), subjectHandler.DeleteSubject)

	// Batches
	batches := v1.Group("/batches", authMiddleware.Required())
	batches.Get("/", batchHandler.ListBatches)
	batches.Get("/:id", batchHandler.GetBatch)
	batches.Post("/", manage, batchHandler.CreateBatch)
	batches.Put("/:id", manage, batchHandler.UpdateBatch)
	batches.Delete("/:id", authMiddleware.RequireAdmin(), batchHandler.DeleteBatch)
	batches.Get("/:id/students", enrollmentHandler.ListBatchStudents)

	// Attendance
	batches.Post("/:id/attendance", teach, attendanceHandler.Submit)
	batches.Get("/:id/attendance", attendanceHandler.GetByDay)
	batches.Get("/:id/attendance/stats", attendanceHandler.GetBatchDayStats)

	// Enrollment
	enrollments := v1.Group("/enrollments", authMiddleware.Required())
	enrollments.Post("/", manage, enrollmentHandler.Enroll)
	enrollments.Delete("/", manage, enrollmentHandler.Unenroll)
	enrollments.Post("/reconcile", authMiddleware.RequireAdmin(), enrollmentHandler.Reconcile)

	// Announcements
	announcements := v1.Group("/announcements", authMiddleware.Required())
	announcements.Get("/", announcementHandler.List)
	announcements.Get("/:id", announcementHandler.Get)
	announcements.Post("/", manage, announcementHandler.Create)
	announcements.Put("/:id", manage, announcementHandler.Update)
	announcements.Delete("/:id", manage, announcementHandler.Delete)

	// Payments
	payments := v1.Group("/payments", authMiddleware.Required(), manage)
	payments.Get("/", paymentHandler.ListPayments)
	payments.Get("/:id", paymentHandler.GetPayment)
	payments.Post("/", paymentHandler.CreatePayment)

	// Study material
	notes := v1.Group("/notes", authMiddleware.Required())
	notes.Get("/", contentHandler.ListNotes)
	notes.Post("/", teach, contentHandler.CreateNote)
	notes.Delete("/:id", teach, contentHandler.DeleteNote)

	videos := v1.Group("/videos", authMiddleware.Required())
	videos.Get("/", contentHandler.ListVideos)
	videos.Post("/", teach, contentHandler.CreateVideo)
	videos.Delete("/:id", teach, contentHandler.DeleteVideo)
}
