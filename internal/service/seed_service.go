package service

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"go.uber.org/zap"

	"github.com/classtrack/attendance-api/internal/models"
	appErrors "github.com/classtrack/attendance-api/pkg/errors"
)

type schemaRecreator interface {
	Recreate(ctx context.Context) error
}

type seedSectionWriter interface {
	Create(ctx context.Context, section *models.Section) error
}

type seedStudentWriter interface {
	Create(ctx context.Context, student *models.Student) error
}

type seedMarkWriter interface {
	Mark(ctx context.Context, studentID int64, date string, status models.Status) (*models.MarkResult, error)
}

// Development fixture catalog.
var seedSections = []models.Section{
	{Name: "BSIT-1A", Schedule: "MWF 8:00 AM - 9:30 AM"},
	{Name: "BSIT-1B", Schedule: "MWF 9:30 AM - 11:00 AM"},
	{Name: "BSIT-2A", Schedule: "TTH 8:00 AM - 9:30 AM"},
	{Name: "BSIT-2B", Schedule: "TTH 9:30 AM - 11:00 AM"},
	{Name: "BSCS-1A", Schedule: "MWF 1:00 PM - 2:30 PM"},
	{Name: "BSCS-1B", Schedule: "MWF 2:30 PM - 4:00 PM"},
	{Name: "BSCS-2A", Schedule: "TTH 1:00 PM - 2:30 PM"},
	{Name: "BSCS-2B", Schedule: "TTH 2:30 PM - 4:00 PM"},
	{Name: "BSIS-1A", Schedule: "MWF 4:00 PM - 5:30 PM"},
	{Name: "BSIS-1B", Schedule: "TTH 4:00 PM - 5:30 PM"},
}

var seedFirstNames = []string{
	"John", "Maria", "Michael", "Sarah", "David", "Anna", "James", "Emma",
	"Daniel", "Sofia", "Matthew", "Olivia", "Andrew", "Isabella", "Joseph",
	"Sophia", "William", "Mia", "Alexander", "Charlotte",
}

var seedLastNames = []string{
	"Smith", "Garcia", "Martinez", "Johnson", "Brown", "Davis", "Rodriguez",
	"Miller", "Wilson", "Anderson", "Taylor", "Thomas", "Moore", "Martin",
	"Jackson", "Thompson", "White", "Lopez", "Lee", "Gonzalez",
}

const seedStudentCount = 30

// SeedSummary reports what the seeder inserted.
type SeedSummary struct {
	Sections int `json:"sections"`
	Students int `json:"students"`
	Marks    int `json:"marks"`
}

// SeedService rebuilds the database with demo data: the fixed section
// catalog, generated students, and weighted random weekday attendance for
// the preceding 30 days. Destructive; only ever invoked behind an explicit
// opt-in, never on a normal start.
type SeedService struct {
	schema   schemaRecreator
	sections seedSectionWriter
	students seedStudentWriter
	marks    seedMarkWriter
	rng      *rand.Rand
	now      func() time.Time
	logger   *zap.Logger
}

// NewSeedService constructs the seeder. A nil rng gets a time-seeded one;
// tests inject a fixed seed.
func NewSeedService(schema schemaRecreator, sections seedSectionWriter, students seedStudentWriter, marks seedMarkWriter, rng *rand.Rand, logger *zap.Logger) *SeedService {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SeedService{
		schema:   schema,
		sections: sections,
		students: students,
		marks:    marks,
		rng:      rng,
		now:      time.Now,
		logger:   logger,
	}
}

// Run drops everything and inserts the fixture data.
func (s *SeedService) Run(ctx context.Context) (*SeedSummary, error) {
	if err := s.schema.Recreate(ctx); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrStorage.Code, appErrors.ErrStorage.Status, "failed to recreate tables")
	}

	summary := &SeedSummary{}

	catalog := make([]models.Section, len(seedSections))
	copy(catalog, seedSections)
	for i := range catalog {
		if err := s.sections.Create(ctx, &catalog[i]); err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrStorage.Code, appErrors.ErrStorage.Status, "failed to seed section")
		}
		summary.Sections++
	}

	students := make([]models.Student, 0, seedStudentCount)
	for i := 1; i <= seedStudentCount; i++ {
		section := catalog[s.rng.Intn(len(catalog))]
		student := models.Student{
			Code:      fmt.Sprintf("2024-%04d", i),
			Name:      s.generateName(),
			SectionID: &section.ID,
			Schedule:  section.Schedule,
		}
		if err := s.students.Create(ctx, &student); err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrStorage.Code, appErrors.ErrStorage.Status, "failed to seed student")
		}
		students = append(students, student)
		summary.Students++
	}

	start := s.now().AddDate(0, 0, -30)
	for _, student := range students {
		for i := 0; i < 30; i++ {
			day := start.AddDate(0, 0, i)
			if day.Weekday() == time.Saturday || day.Weekday() == time.Sunday {
				continue
			}
			if _, err := s.marks.Mark(ctx, student.ID, day.Format(models.DateLayout), s.randomStatus()); err != nil {
				return nil, appErrors.Wrap(err, appErrors.ErrStorage.Code, appErrors.ErrStorage.Status, "failed to seed attendance")
			}
			summary.Marks++
		}
	}

	s.logger.Info("database seeded",
		zap.Int("sections", summary.Sections),
		zap.Int("students", summary.Students),
		zap.Int("marks", summary.Marks),
	)
	return summary, nil
}

func (s *SeedService) generateName() string {
	first := seedFirstNames[s.rng.Intn(len(seedFirstNames))]
	last := seedLastNames[s.rng.Intn(len(seedLastNames))]
	return first + " " + last
}

// randomStatus draws 70% present, 20% late, 10% absent.
func (s *SeedService) randomStatus() models.Status {
	r := s.rng.Float64()
	switch {
	case r < 0.7:
		return models.StatusPresent
	case r < 0.9:
		return models.StatusLate
	default:
		return models.StatusAbsent
	}
}
