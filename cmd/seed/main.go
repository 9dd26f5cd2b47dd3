package main

import (
	"fmt"
	"log"

	"github.com/joho/godotenv"
	"gorm.io/datatypes"

	"mathmemo-backend/internal/config"
	"mathmemo-backend/internal/db"
	"mathmemo-backend/internal/model"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, using environment variables only")
	}

	// Load XML configuration from file.
	cfg, err := config.LoadConfig("config.xml")
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	// Initialize DB using the loaded config.
	db.InitDBFromConfig(cfg)

	dbConn := db.GetDB()
	if dbConn == nil {
		log.Fatal("Database connection failed")
	}

	err = dbConn.AutoMigrate(
		&model.Category{}, &model.Problem{},
		&model.Session{}, &model.Stroke{}, &model.StrokePoint{}, &model.Event{},
	)
	if err != nil {
		log.Fatalf("failed to run migrations: %v", err)
	}

	categories := []model.Category{
		{Name: "Arithmetic"},
		{Name: "Algebra"},
		{Name: "Geometry"},
	}
	for i := range categories {
		if err := dbConn.FirstOrCreate(&categories[i], model.Category{Name: categories[i].Name}).Error; err != nil {
			log.Fatalf("failed to seed category %q: %v", categories[i].Name, err)
		}
	}

	problems := []model.Problem{
		{
			Name:       "two-digit-addition-01",
			CategoryID: categories[0].ID,
			Difficulty: 20,
			Problem:    "Compute 37 + 48.",
			Answer:     "85",
			SolutionSteps: datatypes.NewJSONSlice([]model.SolutionStep{
				{StepNumber: 1, Description: "Add the ones: 7 + 8 = 15, write 5 carry 1."},
				{StepNumber: 2, Description: "Add the tens with the carry: 3 + 4 + 1 = 8."},
			}),
			IsVisible: true,
		},
		{
			Name:       "linear-equation-01",
			CategoryID: categories[1].ID,
			Difficulty: 45,
			Problem:    "Solve for x: 3x - 7 = 14. Which of the following is correct?",
			Choices:    datatypes.NewJSONSlice([]string{"x = 5", "x = 7", "x = 21", "x = 3"}),
			Answer:     "2",
			SolutionSteps: datatypes.NewJSONSlice([]model.SolutionStep{
				{StepNumber: 1, Description: "Add 7 to both sides: 3x = 21."},
				{StepNumber: 2, Description: "Divide both sides by 3: x = 7."},
			}),
			IsVisible: true,
		},
		{
			Name:       "triangle-area-01",
			CategoryID: categories[2].ID,
			Difficulty: 35,
			Problem:    "A triangle has a base of 10 cm and a height of 6 cm. What is its area in square centimeters?",
			Answer:     "30",
			SolutionSteps: datatypes.NewJSONSlice([]model.SolutionStep{
				{StepNumber: 1, Description: "Area of a triangle is base times height divided by two."},
				{StepNumber: 2, Description: "10 * 6 / 2 = 30."},
			}),
			IsVisible: true,
		},
	}
	for i := range problems {
		err := dbConn.Where(model.Problem{Name: problems[i].Name}).FirstOrCreate(&problems[i]).Error
		if err != nil {
			log.Printf("Failed to insert problem: %v", err)
		} else {
			fmt.Println("Inserted problem:", problems[i].Name, "->", problems[i].Answer)
		}
	}

	fmt.Println("Database seeding completed successfully!")
}
