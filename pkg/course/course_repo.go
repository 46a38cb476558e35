package course

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	log "github.com/sirupsen/logrus"
)

type Repository interface {
	ListCourses(ctx context.Context) ([]Course, error)
	// GetCourse returns the course with its concepts in position order, each with its answers.
	GetCourse(ctx context.Context, courseId int) (Course, error)
	// ListCompletedCourseIds returns the courses whose badge the user holds.
	ListCompletedCourseIds(ctx context.Context, userId int) ([]int, error)
	// ImportCourses upserts courses by id and replaces their concepts and answers.
	ImportCourses(ctx context.Context, courses []Course) error
}

type RepositoryImpl struct {
	db *pgxpool.Pool
}

func NewCourseRepo(db *pgxpool.Pool) *RepositoryImpl {
	return &RepositoryImpl{db: db}
}

func (r *RepositoryImpl) ListCourses(ctx context.Context) ([]Course, error) {
	rows, err := r.db.Query(ctx, `SELECT id, parent_id, topic, badge_id FROM course ORDER BY id`)
	if err != nil {
		log.Errorf("failed to list courses: %v", err)
		return nil, err
	}
	defer rows.Close()

	courses := []Course{}
	for rows.Next() {
		var c Course
		if err := rows.Scan(&c.Id, &c.ParentId, &c.Topic, &c.BadgeId); err != nil {
			return nil, err
		}
		courses = append(courses, c)
	}
	return courses, rows.Err()
}

func (r *RepositoryImpl) GetCourse(ctx context.Context, courseId int) (Course, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return Course{}, err
	}
	defer tx.Rollback(ctx)

	var c Course
	err = tx.QueryRow(ctx, `SELECT id, parent_id, topic, badge_id FROM course WHERE id = $1`, courseId).
		Scan(&c.Id, &c.ParentId, &c.Topic, &c.BadgeId)
	if errors.Is(err, pgx.ErrNoRows) {
		return Course{}, ErrCourseNotFound
	}
	if err != nil {
		log.Errorf("failed to get course %d: %v", courseId, err)
		return Course{}, err
	}

	query := `SELECT
				concept.id, concept.name, concept.content, concept.position,
				answer.id, answer.text, answer.correct
			  FROM concept
			  LEFT JOIN answer ON answer.concept_id = concept.id
			  WHERE concept.course_id = $1
			  ORDER BY concept.position, concept.id, answer.id`
	rows, err := tx.Query(ctx, query, courseId)
	if err != nil {
		err := fmt.Errorf("could not query concepts: %w", err)
		log.Error(err)
		return Course{}, err
	}
	defer rows.Close()

	c.Concepts = []Concept{}
	for rows.Next() {
		var (
			concept       Concept
			answerId      *int
			answerText    *string
			answerCorrect *bool
		)
		err := rows.Scan(
			&concept.Id,
			&concept.Name,
			&concept.Content,
			&concept.Position,
			&answerId,
			&answerText,
			&answerCorrect,
		)
		if err != nil {
			return Course{}, err
		}
		if n := len(c.Concepts); n == 0 || c.Concepts[n-1].Id != concept.Id {
			concept.Answers = []Answer{}
			c.Concepts = append(c.Concepts, concept)
		}
		if answerId != nil {
			last := &c.Concepts[len(c.Concepts)-1]
			last.Answers = append(last.Answers, Answer{Id: *answerId, Text: *answerText, Correct: *answerCorrect})
		}
	}
	if err := rows.Err(); err != nil {
		return Course{}, err
	}
	rows.Close()

	return c, tx.Commit(ctx)
}

func (r *RepositoryImpl) ListCompletedCourseIds(ctx context.Context, userId int) ([]int, error) {
	query := `SELECT course.id FROM course
			  JOIN user_badge ON user_badge.badge_id = course.badge_id
			  WHERE user_badge.user_id = $1
			  ORDER BY course.id`
	rows, err := r.db.Query(ctx, query, userId)
	if err != nil {
		log.Errorf("failed to list completed courses of user %d: %v", userId, err)
		return nil, err
	}
	ids, err := pgx.CollectRows(rows, pgx.RowTo[int])
	if err != nil {
		return nil, err
	}
	return ids, nil
}

func (r *RepositoryImpl) ImportCourses(ctx context.Context, courses []Course) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	// parents are linked in a second pass so courses may reference each other in any order
	for _, c := range courses {
		_, err := tx.Exec(ctx,
			`INSERT INTO course (id, topic, badge_id) VALUES ($1, $2, $3)
			 ON CONFLICT (id) DO UPDATE SET topic = EXCLUDED.topic, badge_id = EXCLUDED.badge_id`,
			c.Id, c.Topic, c.BadgeId)
		if err != nil {
			return fmt.Errorf("could not store course %d: %w", c.Id, err)
		}
	}
	for _, c := range courses {
		if _, err := tx.Exec(ctx, `UPDATE course SET parent_id = $1 WHERE id = $2`, c.ParentId, c.Id); err != nil {
			return fmt.Errorf("could not link course %d: %w", c.Id, err)
		}
		if _, err := tx.Exec(ctx, `DELETE FROM concept WHERE course_id = $1`, c.Id); err != nil {
			return fmt.Errorf("could not clear concepts of course %d: %w", c.Id, err)
		}
		for position, concept := range c.Concepts {
			var conceptId int
			err := tx.QueryRow(ctx,
				`INSERT INTO concept (course_id, name, content, position) VALUES ($1, $2, $3, $4) RETURNING id`,
				c.Id, concept.Name, concept.Content, position,
			).Scan(&conceptId)
			if err != nil {
				return fmt.Errorf("could not store concept %q: %w", concept.Name, err)
			}
			for _, a := range concept.Answers {
				_, err := tx.Exec(ctx, `INSERT INTO answer (concept_id, text, correct) VALUES ($1, $2, $3)`,
					conceptId, a.Text, a.Correct)
				if err != nil {
					return fmt.Errorf("could not store answer of concept %q: %w", concept.Name, err)
				}
			}
		}
	}
	if len(courses) > 0 {
		_, err := tx.Exec(ctx, `SELECT setval(pg_get_serial_sequence('course', 'id'), (SELECT MAX(id) FROM course))`)
		if err != nil {
			return err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		log.Errorf("failed to import courses: %v", err)
		return err
	}
	return nil
}
