package projector

import (
	"errors"
	"fmt"

	"github.com/skillstack/searchsync/document"
	"github.com/skillstack/searchsync/searchvec"
	"github.com/skillstack/searchsync/source"
)

// CourseAPI defines the minimum set of source row look-ups needed to
// project courses.
type CourseAPI interface {
	FindCourse(id int64) (*source.Course, error)
	FindUser(id int64) (*source.User, error)
	CourseIDs() (source.IDIterator, error)
}

// Static and compile-time check to ensure CourseProjector implements
// Projector.
var _ Projector = (*CourseProjector)(nil)

// CourseProjector projects course rows, joined with their instructor
// user row, into document fields.
type CourseProjector struct {
	api CourseAPI
}

// NewCourseProjector returns a course projection strategy backed by the
// provided source API.
func NewCourseProjector(api CourseAPI) *CourseProjector {
	return &CourseProjector{api: api}
}

// Type returns the entity type tag the projector handles.
func (p *CourseProjector) Type() document.EntityType {
	return document.Courses
}

// IDs returns an iterator over all course row ids.
func (p *CourseProjector) IDs() (source.IDIterator, error) {
	return p.api.CourseIDs()
}

// Project maps the course row with the given id into document fields.
func (p *CourseProjector) Project(id int64) (*Fields, error) {
	course, err := p.api.FindCourse(id)
	if errors.Is(err, source.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("project course: %w", err)
	}

	// Left join: a missing instructor row leaves the name blank, it
	// does not fail the projection.
	var instructorName string
	if course.InstructorID != nil {
		instructor, err := p.api.FindUser(*course.InstructorID)
		if err != nil && !errors.Is(err, source.ErrNotFound) {
			return nil, fmt.Errorf("project course: instructor: %w", err)
		}

		if instructor != nil {
			instructorName = instructor.FullName()
		}
	}

	return &Fields{
		Slug:        course.Slug,
		Title:       course.Title,
		Subtitle:    instructorName,
		Summary:     deref(course.Summary),
		Description: deref(course.Description),
		Tags:        course.Tags,
		Keywords: searchvec.KeywordBag(
			[]string{
				deref(course.Category),
				deref(course.Level),
				course.Status,
				deref(course.Language),
				instructorName,
			},
			course.Tags, course.Skills, course.Languages,
		),
		Filters: document.NewAttrs().
			SetString("category", course.Category).
			SetString("level", course.Level).
			SetText("status", course.Status).
			SetString("language", course.Language),
		Metadata: document.NewAttrs().
			SetFloat("rating", course.Rating).
			SetInt("rating_count", course.RatingCount).
			SetCount("enrollment_count", course.EnrollmentCount).
			SetFloat("price", course.Price).
			SetString("currency", course.Currency).
			SetText("instructor_name", instructorName),
		Media: document.NewAttrs().
			SetString("cover_image_url", course.CoverImageURL).
			SetString("promo_video_url", course.PromoVideoURL),
	}, nil
}
