package study

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/studybuddy/backend/internal/models"
)

func TestExamInputValidate(t *testing.T) {
	in := ExamInput{Title: "Finals", ExamDate: time.Now().Add(48 * time.Hour)}
	require.NoError(t, in.Validate())
	require.Equal(t, models.ExamPriorityMedium, in.Priority)

	in = ExamInput{ExamDate: time.Now()}
	require.Error(t, in.Validate())

	in = ExamInput{Title: "Finals"}
	require.Error(t, in.Validate())

	in = ExamInput{Title: "Finals", ExamDate: time.Now(), Priority: "urgent"}
	require.Error(t, in.Validate())

	in = ExamInput{Title: "Finals", ExamDate: time.Now(), Priority: models.ExamPriorityHigh}
	require.NoError(t, in.Validate())
}
