package application

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/coursebay/lms-backend/internal/domain/entity"
	"github.com/coursebay/lms-backend/internal/domain/repository"
	"github.com/coursebay/lms-backend/pkg/apperror"
	"github.com/coursebay/lms-backend/pkg/media"
)

// CourseService owns course CRUD and the embedded lecture sequence.
type CourseService struct {
	Repo   repository.CourseRepository
	Media  media.Uploader
	Folder string
	Logger *logrus.Logger

	ES      *elasticsearch.Client
	ESIndex string
}

func (s *CourseService) List(ctx context.Context) ([]entity.Course, error) {
	return s.Repo.List(ctx)
}

// GetLectures returns the course with its full lecture sequence.
func (s *CourseService) GetLectures(ctx context.Context, courseID string) (*entity.Course, error) {
	c, err := s.Repo.GetByID(ctx, courseID)
	if err != nil {
		return nil, apperror.NotFound("Course not found")
	}
	return c, nil
}

type CreateCourseInput struct {
	Title         string
	Description   string
	Category      string
	CreatedBy     string
	ThumbnailPath string // optional local upload path
}

// Create builds the course with a dummy thumbnail reference and replaces it
// once the hosted upload succeeds.
func (s *CourseService) Create(ctx context.Context, in CreateCourseInput) (*entity.Course, error) {
	c := &entity.Course{
		Title:       in.Title,
		Description: in.Description,
		Category:    in.Category,
		CreatedBy:   in.CreatedBy,
		Thumbnail:   media.Asset{PublicID: "dummy", SecureURL: "dummy"},
		Lectures:    []entity.Lecture{},
	}
	if err := s.Repo.Create(ctx, c); err != nil {
		return nil, err
	}

	if in.ThumbnailPath != "" {
		asset, upErr := s.Media.UploadFile(ctx, in.ThumbnailPath, s.Folder, "")
		removeLocal(in.ThumbnailPath)
		if upErr != nil {
			return nil, apperror.Upstream("File not uploaded, please try again", upErr)
		}
		c.Thumbnail = asset
		if err := s.Repo.Update(ctx, c); err != nil {
			return nil, err
		}
	}

	s.indexCourse(ctx, c)
	return c, nil
}

type UpdateCourseInput struct {
	Title         string
	Description   string
	Category      string
	CreatedBy     string
	ThumbnailPath string // optional local upload path
}

// Update merges the supplied fields into the stored course.
func (s *CourseService) Update(ctx context.Context, courseID string, in UpdateCourseInput) (*entity.Course, error) {
	c, err := s.Repo.GetByID(ctx, courseID)
	if err != nil {
		return nil, apperror.NotFound("Course not found")
	}
	if in.Title != "" {
		c.Title = in.Title
	}
	if in.Description != "" {
		c.Description = in.Description
	}
	if in.Category != "" {
		c.Category = in.Category
	}
	if in.CreatedBy != "" {
		c.CreatedBy = in.CreatedBy
	}
	if in.ThumbnailPath != "" {
		if c.Thumbnail.PublicID != "" && c.Thumbnail.PublicID != "dummy" {
			if dErr := s.Media.Destroy(ctx, c.Thumbnail.PublicID); dErr != nil && s.Logger != nil {
				s.Logger.WithError(dErr).WithField("public_id", c.Thumbnail.PublicID).Warn("failed to destroy old thumbnail")
			}
		}
		asset, upErr := s.Media.UploadFile(ctx, in.ThumbnailPath, s.Folder, "")
		removeLocal(in.ThumbnailPath)
		if upErr != nil {
			return nil, apperror.Upstream("File not uploaded, please try again", upErr)
		}
		c.Thumbnail = asset
	}
	if err := s.Repo.Update(ctx, c); err != nil {
		return nil, err
	}
	s.indexCourse(ctx, c)
	return c, nil
}

// Delete removes the course and best-effort destroys its hosted assets.
func (s *CourseService) Delete(ctx context.Context, courseID string) error {
	c, err := s.Repo.GetByID(ctx, courseID)
	if err != nil {
		return apperror.NotFound("Course not found")
	}
	if err := s.Repo.Delete(ctx, courseID); err != nil {
		return err
	}
	if c.Thumbnail.PublicID != "" && c.Thumbnail.PublicID != "dummy" {
		s.destroyAsset(ctx, c.Thumbnail.PublicID)
	}
	for _, l := range c.Lectures {
		if l.Video.PublicID != "" {
			s.destroyAsset(ctx, l.Video.PublicID)
		}
	}
	s.deleteCourseIndex(ctx, courseID)
	return nil
}

type AddLectureInput struct {
	Title       string
	Description string
	VideoPath   string // required local upload path
}

// AddLecture appends an embedded lecture and recomputes the denormalized count.
func (s *CourseService) AddLecture(ctx context.Context, courseID string, in AddLectureInput) (*entity.Course, error) {
	c, err := s.Repo.GetByID(ctx, courseID)
	if err != nil {
		return nil, apperror.NotFound("Course not found")
	}
	if in.VideoPath == "" {
		return nil, apperror.BadRequest("Lecture video file is required")
	}

	asset, upErr := s.Media.UploadFile(ctx, in.VideoPath, s.Folder, "")
	removeLocal(in.VideoPath)
	if upErr != nil {
		return nil, apperror.Upstream("File not uploaded, please try again", upErr)
	}

	c.Lectures = append(c.Lectures, entity.Lecture{
		ID:          primitive.NewObjectID(),
		Title:       in.Title,
		Description: in.Description,
		Video:       asset,
	})
	c.NumberOfLectures = len(c.Lectures)
	if err := s.Repo.Update(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// RemoveLecture drops one embedded lecture and recomputes the count.
func (s *CourseService) RemoveLecture(ctx context.Context, courseID, lectureID string) (*entity.Course, error) {
	c, err := s.Repo.GetByID(ctx, courseID)
	if err != nil {
		return nil, apperror.NotFound("Course not found")
	}

	idx := -1
	for i, l := range c.Lectures {
		if l.ID.Hex() == lectureID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, apperror.NotFound("Lecture not found")
	}

	removed := c.Lectures[idx]
	c.Lectures = append(c.Lectures[:idx], c.Lectures[idx+1:]...)
	c.NumberOfLectures = len(c.Lectures)
	if err := s.Repo.Update(ctx, c); err != nil {
		return nil, err
	}
	if removed.Video.PublicID != "" {
		s.destroyAsset(ctx, removed.Video.PublicID)
	}
	return c, nil
}

func (s *CourseService) destroyAsset(ctx context.Context, publicID string) {
	if err := s.Media.Destroy(ctx, publicID); err != nil && s.Logger != nil {
		s.Logger.WithError(err).WithField("public_id", publicID).Warn("failed to destroy hosted asset")
	}
}

// indexCourse mirrors the course into Elasticsearch. Best-effort: search is a
// convenience and never fails the request.
func (s *CourseService) indexCourse(ctx context.Context, c *entity.Course) {
	if s.ES == nil || s.ESIndex == "" {
		return
	}
	doc := map[string]any{
		"id":          c.ID.Hex(),
		"title":       c.Title,
		"description": c.Description,
		"category":    c.Category,
		"created_by":  c.CreatedBy,
		"created_at":  c.CreatedAt.Format(time.RFC3339Nano),
	}
	b, _ := json.Marshal(doc)
	req := esapi.IndexRequest{Index: s.ESIndex, DocumentID: c.ID.Hex(), Body: strings.NewReader(string(b)), Refresh: "false"}
	esCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	res, err := req.Do(esCtx, s.ES)
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("course_id", c.ID.Hex()).Warn("es index failed")
		}
		return
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() && s.Logger != nil {
		s.Logger.WithField("status", res.Status()).WithField("course_id", c.ID.Hex()).Warn("es index response error")
	}
}

func (s *CourseService) deleteCourseIndex(ctx context.Context, courseID string) {
	if s.ES == nil || s.ESIndex == "" {
		return
	}
	req := esapi.DeleteRequest{Index: s.ESIndex, DocumentID: courseID}
	esCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	res, err := req.Do(esCtx, s.ES)
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("course_id", courseID).Warn("es delete failed")
		}
		return
	}
	_ = res.Body.Close()
}

// Search performs a multi_match query over title, description and category.
func (s *CourseService) Search(ctx context.Context, q string, size int) ([]map[string]any, error) {
	if s.ES == nil || s.ESIndex == "" {
		return []map[string]any{}, nil
	}
	if size <= 0 || size > 50 {
		size = 10
	}
	query := map[string]any{
		"query": map[string]any{
			"multi_match": map[string]any{
				"query":  q,
				"fields": []string{"title^2", "description", "category"},
			},
		},
		"size": size,
	}
	b, _ := json.Marshal(query)

	esCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	res, err := s.ES.Search(
		s.ES.Search.WithContext(esCtx),
		s.ES.Search.WithIndex(s.ESIndex),
		s.ES.Search.WithBody(strings.NewReader(string(b))),
	)
	if err != nil {
		return nil, apperror.Upstream("search unavailable", err)
	}
	defer func() { _ = res.Body.Close() }()

	var parsed struct {
		Hits struct {
			Hits []struct {
				ID     string         `json:"_id"`
				Source map[string]any `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, apperror.Upstream("search unavailable", err)
	}

	out := make([]map[string]any, 0, len(parsed.Hits.Hits))
	for _, h := range parsed.Hits.Hits {
		out = append(out, h.Source)
	}
	return out, nil
}
