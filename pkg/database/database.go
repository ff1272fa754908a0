package database

import (
	"edu_assess_backend/internal/config"
	"edu_assess_backend/internal/model"
	"fmt"
	"log"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func InitDB(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=%s&parseTime=%t&loc=Local",
		cfg.User,
		cfg.Password,
		cfg.Host,
		cfg.Port,
		cfg.DBName,
		cfg.Charset,
		cfg.ParseTime,
	)

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Info),
	})

	if err != nil {
		return nil, err
	}

	log.Println("Database connection established")

	err = db.AutoMigrate(
		&model.User{},
		&model.Course{},
		&model.Assessment{},
		&model.Question{},
		&model.Option{},
		&model.Result{},
		&model.StudentAnswer{},
	)

	if err != nil {
		return nil, err
	}

	log.Println("Database migration completed")

	seedDefaultData(db)

	return db, nil
}

// seedDefaultData 空库时插入默认账号和一份示例测评，便于本地联调
func seedDefaultData(db *gorm.DB) {
	var userCount int64
	db.Model(&model.User{}).Count(&userCount)
	if userCount == 0 {
		hash, err := bcrypt.GenerateFromPassword([]byte("ChangeMe123!"), bcrypt.DefaultCost)
		if err != nil {
			log.Printf("Failed to hash default password: %v", err)
			return
		}
		instructor := &model.User{
			Name:     "Default Instructor",
			Email:    "instructor@example.com",
			Password: string(hash),
			Role:     model.Instructor,
		}
		admin := &model.User{
			Name:     "Admin",
			Email:    "admin@example.com",
			Password: string(hash),
			Role:     model.Admin,
		}
		db.Create(instructor)
		db.Create(admin)

		course := &model.Course{
			Title:        "Mathematics 101",
			Description:  "Introductory mathematics course",
			InstructorID: instructor.ID,
		}
		db.Create(course)

		assessment := &model.Assessment{
			Title:    "Algebra Basics",
			CourseID: course.ID,
			MaxScore: 3,
		}
		db.Create(assessment)

		for i := 1; i <= 3; i++ {
			q := &model.Question{
				AssessmentID: assessment.ID,
				QuestionText: fmt.Sprintf("Sample question %d", i),
			}
			db.Create(q)
			db.Create(&model.Option{QuestionID: q.ID, Text: "Correct answer", IsCorrect: true})
			db.Create(&model.Option{QuestionID: q.ID, Text: "Wrong answer A"})
			db.Create(&model.Option{QuestionID: q.ID, Text: "Wrong answer B"})
		}

		log.Println("Seeded default accounts and sample assessment")
	}
}
