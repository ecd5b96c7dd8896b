package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestComputeEndDate(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2024, 1, 29, 0, 0, 0, 0, time.UTC), ComputeEndDate(start, 4))
	assert.Equal(t, start, ComputeEndDate(start, 0))
}

func TestCourseStatusValid(t *testing.T) {
	assert.True(t, CourseStatusNone.Valid())
	assert.True(t, CourseStatusFull.Valid())
	assert.True(t, CourseStatusCompleted.Valid())
	assert.False(t, CourseStatus("PAUSED").Valid())
	assert.False(t, CourseStatus("").Valid())
}
