package scheduler

import (
	"errors"
	"testing"
	"time"

	"github.com/arnavshah/planner-api-go/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func hoursPtr(h float64) *float64 { return &h }

func TestPrioritize_EarliestDeadlineFirst(t *testing.T) {
	start := time.Date(2025, 3, 10, 10, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, 7)

	tasks := []models.Task{
		{Name: "Essay", Deadline: "2025-03-14T18:00:00Z", Difficulty: 5},
		{Name: "Quiz", Deadline: "2025-03-11T09:00:00Z", Difficulty: 1},
		{Name: "Lab", Deadline: "2025-03-11T09:00:00Z", Difficulty: 4},
	}

	ordered, err := Prioritize(tasks, start, end, 22*60+30)
	require.NoError(t, err)
	require.Len(t, ordered, 3)

	assert.Equal(t, "Lab", ordered[0].Task.Name, "same deadline: higher difficulty first")
	assert.Equal(t, "Quiz", ordered[1].Task.Name)
	assert.Equal(t, "Essay", ordered[2].Task.Name)
}

func TestPrioritize_Defaults(t *testing.T) {
	start := time.Date(2025, 3, 10, 10, 0, 0, 0, time.UTC)

	ordered, err := Prioritize([]models.Task{{Name: "Reading", Deadline: "2025-03-12"}}, start, start.AddDate(0, 0, 7), 22*60+30)
	require.NoError(t, err)
	require.Len(t, ordered, 1)

	pt := ordered[0]
	assert.Equal(t, 3, pt.Difficulty)
	assert.Equal(t, "General", pt.Subject)
	assert.Equal(t, 270*time.Minute, pt.Required, "3 * 1.5h")
	assert.WithinDuration(t, time.Date(2025, 3, 12, 22, 30, 0, 0, time.UTC), pt.Deadline, 0, "bare date resolves to the end of the day window")
	assert.Equal(t, 1.5, pt.Score, "urgency 1/2 * difficulty 3")
	assert.False(t, pt.Synthetic)
}

func TestPrioritize_ExplicitZeroEstimate(t *testing.T) {
	start := time.Date(2025, 3, 10, 10, 0, 0, 0, time.UTC)

	ordered, err := Prioritize([]models.Task{{Name: "Done", Deadline: "2025-03-12", EstimatedHours: hoursPtr(0)}}, start, start.AddDate(0, 0, 7), 22*60+30)
	require.NoError(t, err)
	assert.Zero(t, ordered[0].Required)
}

func TestPrioritize_MalformedDeadlineGoesLast(t *testing.T) {
	start := time.Date(2025, 3, 10, 10, 0, 0, 0, time.UTC)
	horizonEnd := time.Date(2025, 3, 17, 10, 0, 0, 0, time.UTC)

	tasks := []models.Task{
		{Name: "Broken", Deadline: "next tuesday", Difficulty: 5},
		{Name: "Missing", Difficulty: 5},
		{Name: "Far", Deadline: "2025-04-30T12:00:00Z", Difficulty: 1},
		{Name: "Soon", Deadline: "2025-03-12T12:00:00Z", Difficulty: 1},
	}

	ordered, err := Prioritize(tasks, start, horizonEnd, 22*60+30)
	require.NoError(t, err)

	assert.Equal(t, "Soon", ordered[0].Task.Name)
	for _, pt := range ordered[1:] {
		assert.WithinDuration(t, horizonEnd, pt.Deadline, 0, pt.Task.Name)
	}
	assert.True(t, ordered[1].Synthetic)
	assert.Equal(t, "Broken", ordered[1].Task.Name, "ties fall back to difficulty then name")
	assert.Equal(t, "Missing", ordered[2].Task.Name)
	assert.Equal(t, "Far", ordered[3].Task.Name)
	assert.False(t, ordered[3].Synthetic, "capped deadlines are not synthetic")
}

func TestPrioritize_NaiveAndOffsetDeadlines(t *testing.T) {
	loc := time.FixedZone("IST", 5*3600+1800)
	start := time.Date(2025, 3, 10, 10, 0, 0, 0, loc)

	ordered, err := Prioritize([]models.Task{
		{Name: "Naive", Deadline: "2025-03-11T18:00"},
		{Name: "Offset", Deadline: "2025-03-11T12:00:00Z"},
	}, start, start.AddDate(0, 0, 7), 22*60+30)
	require.NoError(t, err)

	// 12:00Z is 17:30 in IST, half an hour before the naive 18:00
	assert.Equal(t, "Offset", ordered[0].Task.Name)
	assert.WithinDuration(t, time.Date(2025, 3, 11, 17, 30, 0, 0, loc), ordered[0].Deadline, 0)
	assert.Equal(t, loc, ordered[0].Deadline.Location())
	assert.WithinDuration(t, time.Date(2025, 3, 11, 18, 0, 0, 0, loc), ordered[1].Deadline, 0)
}

func TestPrioritize_InvalidInput(t *testing.T) {
	start := time.Date(2025, 3, 10, 10, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, 7)

	cases := map[string]models.Task{
		"empty name":        {Name: "  ", Deadline: "2025-03-12"},
		"difficulty high":   {Name: "x", Difficulty: 6},
		"difficulty low":    {Name: "x", Difficulty: -1},
		"negative estimate": {Name: "x", EstimatedHours: hoursPtr(-2)},
	}
	for name, task := range cases {
		_, err := Prioritize([]models.Task{task}, start, end, 22*60+30)
		require.Error(t, err, name)
		assert.True(t, errors.Is(err, ErrInvalidInput), name)

		var inputErr *InputError
		require.True(t, errors.As(err, &inputErr), name)
		assert.Equal(t, "tasks[0]", inputErr.Field)
	}
}
