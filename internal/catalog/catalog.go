package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/budgetquest/budgetquest/pkg/course"
	"github.com/budgetquest/budgetquest/pkg/progression"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	log "github.com/sirupsen/logrus"
)

var ErrEmptyCatalog = errors.New("catalog has no badges, levels or courses")

// File is the YAML document maintained by content editors.
type File struct {
	Badges  []Badge  `koanf:"badges"`
	Levels  []Level  `koanf:"levels"`
	Courses []Course `koanf:"courses"`
}

type Badge struct {
	Id               int    `koanf:"id"`
	Name             string `koanf:"name"`
	Description      string `koanf:"description"`
	IconUrl          string `koanf:"iconurl"`
	ExperiencePoints int    `koanf:"experiencepoints"`
}

type Level struct {
	Id        int `koanf:"id"`
	Threshold int `koanf:"threshold"`
}

type Course struct {
	Id       int       `koanf:"id"`
	ParentId *int      `koanf:"parentid"`
	Topic    string    `koanf:"topic"`
	BadgeId  *int      `koanf:"badgeid"`
	Concepts []Concept `koanf:"concepts"`
}

type Concept struct {
	Id      int      `koanf:"id"`
	Name    string   `koanf:"name"`
	Content string   `koanf:"content"`
	Answers []Answer `koanf:"answers"`
}

type Answer struct {
	Id      int    `koanf:"id"`
	Text    string `koanf:"text"`
	Correct bool   `koanf:"correct"`
}

func LoadFile(path string) (File, error) {
	k := koanf.New(".")
	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		return File{}, fmt.Errorf("failed to read catalog %s: %w", path, err)
	}

	var f File
	if err := k.Unmarshal("", &f); err != nil {
		return File{}, fmt.Errorf("failed to parse catalog %s: %w", path, err)
	}
	if len(f.Badges) == 0 && len(f.Levels) == 0 && len(f.Courses) == 0 {
		return File{}, ErrEmptyCatalog
	}
	return f, nil
}

func (f File) ProgressionBadges() []progression.Badge {
	badges := make([]progression.Badge, 0, len(f.Badges))
	for _, b := range f.Badges {
		badges = append(badges, progression.Badge{
			Id:               b.Id,
			Name:             b.Name,
			Description:      b.Description,
			IconUrl:          b.IconUrl,
			ExperiencePoints: b.ExperiencePoints,
		})
	}
	return badges
}

func (f File) ProgressionLevels() []progression.Level {
	levels := make([]progression.Level, 0, len(f.Levels))
	for _, l := range f.Levels {
		levels = append(levels, progression.Level{Id: l.Id, ExperiencePointsThreshold: l.Threshold})
	}
	return levels
}

// Concept positions follow their order in the file.
func (f File) CourseTree() []course.Course {
	courses := make([]course.Course, 0, len(f.Courses))
	for _, c := range f.Courses {
		concepts := make([]course.Concept, 0, len(c.Concepts))
		for i, cn := range c.Concepts {
			answers := make([]course.Answer, 0, len(cn.Answers))
			for _, a := range cn.Answers {
				answers = append(answers, course.Answer{Id: a.Id, Text: a.Text, Correct: a.Correct})
			}
			concepts = append(concepts, course.Concept{
				Id:       cn.Id,
				Name:     cn.Name,
				Content:  cn.Content,
				Position: i,
				Answers:  answers,
			})
		}
		courses = append(courses, course.Course{
			Id:       c.Id,
			ParentId: c.ParentId,
			Topic:    c.Topic,
			BadgeId:  c.BadgeId,
			Concepts: concepts,
		})
	}
	return courses
}

type CatalogImporter interface {
	ImportCatalog(ctx context.Context, badges []progression.Badge, levels []progression.Level) error
}

type CourseImporter interface {
	ImportCourses(ctx context.Context, courses []course.Course) error
}

type Importer struct {
	progression CatalogImporter
	courses     CourseImporter
}

func NewImporter(progression CatalogImporter, courses CourseImporter) *Importer {
	return &Importer{progression: progression, courses: courses}
}

// Import stores badges and levels before courses, which reference badges.
func (i *Importer) Import(ctx context.Context, f File) error {
	if len(f.Badges) > 0 || len(f.Levels) > 0 {
		if err := i.progression.ImportCatalog(ctx, f.ProgressionBadges(), f.ProgressionLevels()); err != nil {
			return fmt.Errorf("failed to import badges and levels: %w", err)
		}
	}
	if len(f.Courses) > 0 {
		if err := i.courses.ImportCourses(ctx, f.CourseTree()); err != nil {
			return fmt.Errorf("failed to import courses: %w", err)
		}
	}
	log.Infof("catalog imported: %d badges, %d levels, %d courses", len(f.Badges), len(f.Levels), len(f.Courses))
	return nil
}
