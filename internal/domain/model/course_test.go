package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCourseView_StripsVideoURLsAndQuestions(t *testing.T) {
	course := &Course{
		ID:    "c1",
		Name:  "Go from scratch",
		Price: 100,
		Sections: []Section{
			{
				ID:          "s1",
				Title:       "Intro",
				VideoURL:    "https://cdn/secret.mp4",
				VideoLength: 12,
				Questions: []Question{
					{ID: "q1", Text: "What is a goroutine?"},
				},
			},
		},
		Reviews: []Review{{ID: "r1", Rating: 5, Comment: "great"}},
	}

	view := NewCourseView(course)

	require.Len(t, view.Sections, 1)
	assert.Equal(t, "Intro", view.Sections[0].Title)
	assert.Equal(t, 12, view.Sections[0].VideoLength)
	assert.Len(t, view.Reviews, 1)

	// The serialized projection must not carry video URLs or question threads.
	raw, err := json.Marshal(view)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "secret.mp4")
	assert.NotContains(t, string(raw), "goroutine")
}

func TestCreateCourseRequest_Validate(t *testing.T) {
	valid := CreateCourseRequest{Name: "Go", Description: "Learn Go", Price: 100}
	require.NoError(t, valid.Validate())

	assert.Error(t, (&CreateCourseRequest{Description: "x", Price: 1}).Validate())
	assert.Error(t, (&CreateCourseRequest{Name: "x", Price: 1}).Validate())
	assert.Error(t, (&CreateCourseRequest{Name: "x", Description: "y", Price: -1}).Validate())
}

func TestAddReviewRequest_Validate(t *testing.T) {
	require.NoError(t, (&AddReviewRequest{Rating: 4, Comment: "solid"}).Validate())
	assert.Error(t, (&AddReviewRequest{Rating: 0, Comment: "solid"}).Validate())
	assert.Error(t, (&AddReviewRequest{Rating: 6, Comment: "solid"}).Validate())
	assert.Error(t, (&AddReviewRequest{Rating: 3, Comment: "  "}).Validate())
}

func TestAddQuestionRequest_Validate(t *testing.T) {
	require.NoError(t, (&AddQuestionRequest{CourseID: "c1", SectionID: "s1", Question: "why?"}).Validate())
	assert.Error(t, (&AddQuestionRequest{SectionID: "s1", Question: "why?"}).Validate())
	assert.Error(t, (&AddQuestionRequest{CourseID: "c1", SectionID: "s1"}).Validate())
}
