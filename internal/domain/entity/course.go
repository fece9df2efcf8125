package entity

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/coursebay/lms-backend/pkg/media"
)

// Lecture is embedded in a Course and not independently addressable.
type Lecture struct {
	ID          primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Title       string             `json:"title" bson:"title"`
	Description string             `json:"description" bson:"description"`
	Video       media.Asset        `json:"video" bson:"video"`
}

// Course holds an ordered lecture sequence plus a denormalized count.
// Invariant: NumberOfLectures == len(Lectures) after every mutation.
type Course struct {
	ID               primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Title            string             `json:"title" bson:"title"`
	Description      string             `json:"description" bson:"description"`
	Category         string             `json:"category" bson:"category"`
	Thumbnail        media.Asset        `json:"thumbnail" bson:"thumbnail"`
	Lectures         []Lecture          `json:"lectures,omitempty" bson:"lectures"`
	NumberOfLectures int                `json:"numberOfLectures" bson:"number_of_lectures"`
	CreatedBy        string             `json:"createdBy" bson:"created_by"`
	CreatedAt        time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt        time.Time          `json:"updated_at" bson:"updated_at"`
}
