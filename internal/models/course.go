package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	StatusHidden = "hidden"
	StatusPublic = "public"
)

type Course struct {
	ID            uuid.UUID   `json:"id"`
	Title         string      `json:"title"`
	Description   string      `json:"description"`
	Category      string      `json:"category"`
	Difficulty    string      `json:"difficulty"`
	Price         int64       `json:"price"` // cents
	IsFree        bool        `json:"is_free"`
	Status        string      `json:"status"`
	PdfObjectKey  string      `json:"-"`
	Videos        []Video     `json:"-"`
	TeacherIDs    []uuid.UUID `json:"teacher_ids"`
	CreatedAt     time.Time   `json:"created_at"`
	UpdatedAt     time.Time   `json:"updated_at"`
}

// Video is one protected content item. Order is the authoring order.
type Video struct {
	ObjectKey string `json:"-"`
	Title     string `json:"title"`
}

// CourseDetail is the visibility-gated response shape: public fields are
// always present, Videos and PdfURL only for enrolled users.
type CourseDetail struct {
	ID          uuid.UUID     `json:"id"`
	Title       string        `json:"title"`
	Description string        `json:"description"`
	Category    string        `json:"category"`
	Difficulty  string        `json:"difficulty"`
	Price       int64         `json:"price"`
	IsFree      bool          `json:"is_free"`
	TeacherIDs  []uuid.UUID   `json:"teacher_ids"`
	Enrolled    bool          `json:"enrolled"`
	Videos      []VideoDetail `json:"videos"`
	PdfURL      *string       `json:"pdf_url"`
}

type VideoDetail struct {
	URL   string `json:"url"`
	Title string `json:"title"`
}
