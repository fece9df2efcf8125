package application

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coursebay/lms-backend/internal/domain/entity"
	"github.com/coursebay/lms-backend/pkg/apperror"
	"github.com/coursebay/lms-backend/pkg/media"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func newCourseService(repo *fakeCourseRepo, up *fakeUploader) *CourseService {
	return &CourseService{Repo: repo, Media: up, Folder: "lms"}
}

func TestCreateCourseUploadsThumbnail(t *testing.T) {
	repo := newFakeCourseRepo()
	up := &fakeUploader{}
	svc := newCourseService(repo, up)

	c, err := svc.Create(context.Background(), CreateCourseInput{
		Title:         "Intro to Distributed Systems",
		Description:   "Consensus, replication and failure models",
		Category:      "systems",
		CreatedBy:     "jane doe",
		ThumbnailPath: "thumb.png",
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"thumb.png"}, up.uploads)
	assert.NotEqual(t, "dummy", c.Thumbnail.PublicID)
	assert.Equal(t, 0, c.NumberOfLectures)
	assert.NotNil(t, c.Lectures)
}

func TestCreateCourseWithoutThumbnailKeepsDummy(t *testing.T) {
	svc := newCourseService(newFakeCourseRepo(), &fakeUploader{})

	c, err := svc.Create(context.Background(), CreateCourseInput{
		Title:       "Intro to Distributed Systems",
		Description: "Consensus, replication and failure models",
		Category:    "systems",
		CreatedBy:   "jane doe",
	})
	require.NoError(t, err)
	assert.Equal(t, "dummy", c.Thumbnail.PublicID)
}

func TestUpdateCourseMergesFields(t *testing.T) {
	repo := newFakeCourseRepo()
	existing := repo.add(&entity.Course{
		Title:       "Original Title Here",
		Description: "Original description",
		Category:    "systems",
		CreatedBy:   "jane doe",
		Thumbnail:   media.Asset{PublicID: "dummy", SecureURL: "dummy"},
	})
	up := &fakeUploader{}
	svc := newCourseService(repo, up)

	c, err := svc.Update(context.Background(), existing.ID.Hex(), UpdateCourseInput{
		Description: "Updated description",
	})
	require.NoError(t, err)
	assert.Equal(t, "Original Title Here", c.Title)
	assert.Equal(t, "Updated description", c.Description)
	assert.Empty(t, up.destroyed) // dummy thumbnail is not a hosted asset
}

func TestUpdateCourseReplacesThumbnail(t *testing.T) {
	repo := newFakeCourseRepo()
	existing := repo.add(&entity.Course{
		Title:     "Original Title Here",
		Thumbnail: media.Asset{PublicID: "lms/old-thumb", SecureURL: "https://cdn.test/old"},
	})
	up := &fakeUploader{}
	svc := newCourseService(repo, up)

	c, err := svc.Update(context.Background(), existing.ID.Hex(), UpdateCourseInput{ThumbnailPath: "new.png"})
	require.NoError(t, err)
	assert.Equal(t, []string{"lms/old-thumb"}, up.destroyed)
	assert.NotEqual(t, "lms/old-thumb", c.Thumbnail.PublicID)
}

func TestGetLecturesNotFound(t *testing.T) {
	svc := newCourseService(newFakeCourseRepo(), &fakeUploader{})

	_, err := svc.GetLectures(context.Background(), primitive.NewObjectID().Hex())
	var ae *apperror.Error
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, 404, ae.Status)
	assert.Equal(t, "Course not found", ae.Message)
}

func TestAddLectureMaintainsCount(t *testing.T) {
	repo := newFakeCourseRepo()
	existing := repo.add(&entity.Course{Title: "Original Title Here", Lectures: []entity.Lecture{}})
	svc := newCourseService(repo, &fakeUploader{})

	c, err := svc.AddLecture(context.Background(), existing.ID.Hex(), AddLectureInput{
		Title:       "Lecture One",
		Description: "First lecture",
		VideoPath:   "one.mp4",
	})
	require.NoError(t, err)
	require.Len(t, c.Lectures, 1)
	assert.Equal(t, 1, c.NumberOfLectures)

	c, err = svc.AddLecture(context.Background(), existing.ID.Hex(), AddLectureInput{
		Title:       "Lecture Two",
		Description: "Second lecture",
		VideoPath:   "two.mp4",
	})
	require.NoError(t, err)
	require.Len(t, c.Lectures, 2)
	assert.Equal(t, 2, c.NumberOfLectures)
	// appended at the end, ordering preserved
	assert.Equal(t, "Lecture Two", c.Lectures[1].Title)
	assert.False(t, c.Lectures[1].ID.IsZero())
	assert.NotEqual(t, c.Lectures[0].ID, c.Lectures[1].ID)
}

func TestAddLectureRequiresVideo(t *testing.T) {
	repo := newFakeCourseRepo()
	existing := repo.add(&entity.Course{Title: "Original Title Here"})
	svc := newCourseService(repo, &fakeUploader{})

	_, err := svc.AddLecture(context.Background(), existing.ID.Hex(), AddLectureInput{Title: "Lecture", Description: "No video"})
	var ae *apperror.Error
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, 400, ae.Status)
}

func TestRemoveLectureRecomputesCountAndDestroysVideo(t *testing.T) {
	repo := newFakeCourseRepo()
	first := entity.Lecture{ID: primitive.NewObjectID(), Title: "One", Video: media.Asset{PublicID: "lms/v1"}}
	second := entity.Lecture{ID: primitive.NewObjectID(), Title: "Two", Video: media.Asset{PublicID: "lms/v2"}}
	existing := repo.add(&entity.Course{
		Title:            "Original Title Here",
		Lectures:         []entity.Lecture{first, second},
		NumberOfLectures: 2,
	})
	up := &fakeUploader{}
	svc := newCourseService(repo, up)

	c, err := svc.RemoveLecture(context.Background(), existing.ID.Hex(), first.ID.Hex())
	require.NoError(t, err)
	require.Len(t, c.Lectures, 1)
	assert.Equal(t, 1, c.NumberOfLectures)
	assert.Equal(t, "Two", c.Lectures[0].Title)
	assert.Equal(t, []string{"lms/v1"}, up.destroyed)
}

func TestRemoveLectureUnknownID(t *testing.T) {
	repo := newFakeCourseRepo()
	existing := repo.add(&entity.Course{Title: "Original Title Here"})
	svc := newCourseService(repo, &fakeUploader{})

	_, err := svc.RemoveLecture(context.Background(), existing.ID.Hex(), primitive.NewObjectID().Hex())
	var ae *apperror.Error
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, 404, ae.Status)
	assert.Equal(t, "Lecture not found", ae.Message)
}

func TestDeleteCourseDestroysAssets(t *testing.T) {
	repo := newFakeCourseRepo()
	existing := repo.add(&entity.Course{
		Title:     "Original Title Here",
		Thumbnail: media.Asset{PublicID: "lms/thumb"},
		Lectures: []entity.Lecture{
			{ID: primitive.NewObjectID(), Video: media.Asset{PublicID: "lms/v1"}},
			{ID: primitive.NewObjectID(), Video: media.Asset{PublicID: "lms/v2"}},
		},
	})
	up := &fakeUploader{}
	svc := newCourseService(repo, up)

	require.NoError(t, svc.Delete(context.Background(), existing.ID.Hex()))
	assert.ElementsMatch(t, []string{"lms/thumb", "lms/v1", "lms/v2"}, up.destroyed)

	_, err := repo.GetByID(context.Background(), existing.ID.Hex())
	assert.Error(t, err)
}

func TestSearchWithoutBackendReturnsEmpty(t *testing.T) {
	svc := newCourseService(newFakeCourseRepo(), &fakeUploader{})

	hits, err := svc.Search(context.Background(), "raft", 10)
	require.NoError(t, err)
	assert.Empty(t, hits)
}
