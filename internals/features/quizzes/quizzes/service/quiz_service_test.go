package service

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"

	subMateriModel "posyandu_backend/internals/features/contents/sub_materis/model"
	progressModel "posyandu_backend/internals/features/progress/progress/model"
	"posyandu_backend/internals/features/quizzes/quizzes/model"
)

func setupDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormLogger.Default.LogMode(gormLogger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&progressModel.UserPoinProgressModel{},
		&progressModel.UserSubMateriProgressModel{},
		&progressModel.UserModuleProgressModel{},
	))

	// tabel lain dibuat manual: sqlite tidak mengenal gen_random_uuid()
	ddl := []string{
		`CREATE TABLE sub_materis (
			sub_materi_id TEXT PRIMARY KEY,
			sub_materi_module_id TEXT NOT NULL,
			sub_materi_title TEXT NOT NULL,
			sub_materi_content TEXT,
			sub_materi_order_index INTEGER NOT NULL DEFAULT 0,
			sub_materi_published BOOLEAN NOT NULL DEFAULT false,
			sub_materi_created_at DATETIME,
			sub_materi_updated_at DATETIME
		)`,
		`CREATE TABLE quizzes (
			quiz_id TEXT PRIMARY KEY,
			quiz_sub_materi_id TEXT NOT NULL,
			quiz_title TEXT NOT NULL,
			quiz_description TEXT,
			quiz_passing_score REAL NOT NULL DEFAULT 70,
			quiz_published BOOLEAN NOT NULL DEFAULT false,
			quiz_created_at DATETIME,
			quiz_updated_at DATETIME
		)`,
		`CREATE TABLE quiz_questions (
			question_id TEXT PRIMARY KEY,
			question_quiz_id TEXT NOT NULL,
			question_text TEXT NOT NULL,
			question_order_index INTEGER NOT NULL DEFAULT 0,
			question_correct_answer_index INTEGER NOT NULL,
			question_explanation TEXT,
			question_created_at DATETIME,
			question_updated_at DATETIME
		)`,
		`CREATE TABLE quiz_choices (
			choice_id TEXT PRIMARY KEY,
			choice_question_id TEXT NOT NULL,
			choice_index INTEGER NOT NULL,
			choice_text TEXT NOT NULL,
			UNIQUE(choice_question_id, choice_index)
		)`,
		`CREATE TABLE quiz_attempts (
			attempt_id TEXT PRIMARY KEY,
			attempt_quiz_id TEXT NOT NULL,
			attempt_user_id TEXT NOT NULL,
			started_at DATETIME NOT NULL,
			completed_at DATETIME,
			score REAL NOT NULL DEFAULT 0,
			is_passed BOOLEAN NOT NULL DEFAULT false
		)`,
		`CREATE TABLE quiz_answers (
			answer_id TEXT PRIMARY KEY,
			answer_attempt_id TEXT NOT NULL,
			answer_question_id TEXT NOT NULL,
			selected_index INTEGER NOT NULL,
			is_correct BOOLEAN NOT NULL DEFAULT false,
			answer_created_at DATETIME,
			answer_updated_at DATETIME,
			UNIQUE(answer_attempt_id, answer_question_id)
		)`,
	}
	for _, stmt := range ddl {
		require.NoError(t, db.Exec(stmt).Error)
	}

	return db
}

type quizFixture struct {
	Quiz      model.QuizModel
	Questions []model.QuizQuestionModel
	ModuleID  uuid.UUID
}

// seedQuiz membuat quiz publish dengan n soal, kunci jawaban selalu index 1.
func seedQuiz(t *testing.T, db *gorm.DB, questionCount int, passingScore float64) quizFixture {
	t.Helper()

	moduleID := uuid.New()
	sm := subMateriModel.SubMateriModel{
		SubMateriID:        uuid.New(),
		SubMateriModuleID:  moduleID,
		SubMateriTitle:     "Materi quiz",
		SubMateriPublished: true,
	}
	require.NoError(t, db.Create(&sm).Error)

	quiz := model.QuizModel{
		QuizID:           uuid.New(),
		QuizSubMateriID:  sm.SubMateriID,
		QuizTitle:        "Quiz",
		QuizPassingScore: passingScore,
		QuizPublished:    true,
	}
	require.NoError(t, db.Create(&quiz).Error)

	questions := make([]model.QuizQuestionModel, 0, questionCount)
	for i := 0; i < questionCount; i++ {
		q := model.QuizQuestionModel{
			QuestionID:                 uuid.New(),
			QuestionQuizID:             quiz.QuizID,
			QuestionText:               "Soal",
			QuestionOrderIndex:         i,
			QuestionCorrectAnswerIndex: 1,
		}
		require.NoError(t, db.Create(&q).Error)
		for c := 0; c < 3; c++ {
			choice := model.QuizChoiceModel{
				ChoiceID:         uuid.New(),
				ChoiceQuestionID: q.QuestionID,
				ChoiceIndex:      c,
				ChoiceText:       "Pilihan",
			}
			require.NoError(t, db.Create(&choice).Error)
		}
		questions = append(questions, q)
	}

	return quizFixture{Quiz: quiz, Questions: questions, ModuleID: moduleID}
}

func answersFor(fix quizFixture, correctCount int) []SubmittedAnswer {
	out := make([]SubmittedAnswer, 0, len(fix.Questions))
	for i, q := range fix.Questions {
		selected := 0 // salah
		if i < correctCount {
			selected = 1 // kunci
		}
		out = append(out, SubmittedAnswer{QuestionID: q.QuestionID, SelectedIndex: selected})
	}
	return out
}

func TestStartAttempt(t *testing.T) {
	db := setupDB(t)
	fix := seedQuiz(t, db, 2, 70)
	userID := uuid.New()

	attempt, err := StartAttempt(db, userID, fix.Quiz.QuizID)
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, attempt.AttemptID)
	assert.Nil(t, attempt.CompletedAt)
	assert.False(t, attempt.StartedAt.IsZero())
}

func TestStartAttemptConflictWhileOpen(t *testing.T) {
	db := setupDB(t)
	fix := seedQuiz(t, db, 2, 70)
	userID := uuid.New()

	first, err := StartAttempt(db, userID, fix.Quiz.QuizID)
	require.NoError(t, err)

	_, err = StartAttempt(db, userID, fix.Quiz.QuizID)
	var inProgress *ErrAttemptInProgress
	require.ErrorAs(t, err, &inProgress)
	assert.Equal(t, first.AttemptID, inProgress.AttemptID)
}

func TestStartAttemptUnpublishedQuiz(t *testing.T) {
	db := setupDB(t)
	fix := seedQuiz(t, db, 2, 70)
	require.NoError(t, db.Model(&model.QuizModel{}).
		Where("quiz_id = ?", fix.Quiz.QuizID).
		Update("quiz_published", false).Error)

	_, err := StartAttempt(db, uuid.New(), fix.Quiz.QuizID)
	assert.ErrorIs(t, err, ErrQuizNotFound)
}

func TestSubmitWithoutStart(t *testing.T) {
	db := setupDB(t)
	fix := seedQuiz(t, db, 2, 70)

	_, err := SubmitAnswers(db, uuid.New(), fix.Quiz.QuizID, answersFor(fix, 1))
	assert.ErrorIs(t, err, ErrAttemptNotStarted)
}

func TestSubmitScoringAndPass(t *testing.T) {
	db := setupDB(t)
	fix := seedQuiz(t, db, 4, 70)
	userID := uuid.New()

	_, err := StartAttempt(db, userID, fix.Quiz.QuizID)
	require.NoError(t, err)

	result, err := SubmitAnswers(db, userID, fix.Quiz.QuizID, answersFor(fix, 3))
	require.NoError(t, err)

	assert.Equal(t, 3, result.CorrectCount)
	assert.Equal(t, 4, result.TotalCount)
	assert.InDelta(t, 75.0, result.Attempt.Score, 0.001)
	assert.True(t, result.Attempt.IsPassed)
	require.NotNil(t, result.Attempt.CompletedAt)

	// hasil lulus mengalir ke ledger sub materi: complete + 100%
	var progress progressModel.UserSubMateriProgressModel
	require.NoError(t, db.Where("user_id = ? AND sub_materi_id = ?", userID, fix.Quiz.QuizSubMateriID).
		First(&progress).Error)
	assert.True(t, progress.IsCompleted)
	assert.Equal(t, float64(100), progress.ProgressPercentage)
	assert.Equal(t, fix.ModuleID, progress.ModuleID)

	var mod progressModel.UserModuleProgressModel
	require.NoError(t, db.Where("user_id = ? AND module_id = ?", userID, fix.ModuleID).First(&mod).Error)
	assert.Equal(t, 1, mod.CompletedSubMateriCount)
}

func TestSubmitPassingBoundaryInclusive(t *testing.T) {
	db := setupDB(t)
	fix := seedQuiz(t, db, 2, 50)
	userID := uuid.New()

	_, err := StartAttempt(db, userID, fix.Quiz.QuizID)
	require.NoError(t, err)

	result, err := SubmitAnswers(db, userID, fix.Quiz.QuizID, answersFor(fix, 1))
	require.NoError(t, err)

	assert.InDelta(t, 50.0, result.Attempt.Score, 0.001)
	assert.True(t, result.Attempt.IsPassed)
}

func TestSubmitFailingKeepsScoreAsPercentage(t *testing.T) {
	db := setupDB(t)
	fix := seedQuiz(t, db, 4, 70)
	userID := uuid.New()

	_, err := StartAttempt(db, userID, fix.Quiz.QuizID)
	require.NoError(t, err)

	result, err := SubmitAnswers(db, userID, fix.Quiz.QuizID, answersFor(fix, 1))
	require.NoError(t, err)

	assert.InDelta(t, 25.0, result.Attempt.Score, 0.001)
	assert.False(t, result.Attempt.IsPassed)

	var progress progressModel.UserSubMateriProgressModel
	require.NoError(t, db.Where("user_id = ? AND sub_materi_id = ?", userID, fix.Quiz.QuizSubMateriID).
		First(&progress).Error)
	assert.False(t, progress.IsCompleted)
	assert.InDelta(t, 25.0, progress.ProgressPercentage, 0.001)
}

func TestSubmitDuplicateAnswerOverwrites(t *testing.T) {
	db := setupDB(t)
	fix := seedQuiz(t, db, 2, 70)
	userID := uuid.New()

	_, err := StartAttempt(db, userID, fix.Quiz.QuizID)
	require.NoError(t, err)

	// jawaban kedua untuk soal yang sama menimpa yang pertama
	answers := []SubmittedAnswer{
		{QuestionID: fix.Questions[0].QuestionID, SelectedIndex: 0},
		{QuestionID: fix.Questions[0].QuestionID, SelectedIndex: 1},
		{QuestionID: fix.Questions[1].QuestionID, SelectedIndex: 1},
	}
	result, err := SubmitAnswers(db, userID, fix.Quiz.QuizID, answers)
	require.NoError(t, err)

	var rows []model.QuizAnswerModel
	require.NoError(t, db.Where("answer_attempt_id = ?", result.Attempt.AttemptID).Find(&rows).Error)
	assert.Len(t, rows, 2)
	for _, row := range rows {
		assert.Equal(t, 1, row.SelectedIndex)
		assert.True(t, row.IsCorrect)
	}
}

func TestSubmitIgnoresForeignQuestions(t *testing.T) {
	db := setupDB(t)
	fix := seedQuiz(t, db, 2, 70)
	userID := uuid.New()

	_, err := StartAttempt(db, userID, fix.Quiz.QuizID)
	require.NoError(t, err)

	answers := append(answersFor(fix, 2), SubmittedAnswer{QuestionID: uuid.New(), SelectedIndex: 1})
	result, err := SubmitAnswers(db, userID, fix.Quiz.QuizID, answers)
	require.NoError(t, err)

	assert.Equal(t, 2, result.CorrectCount)
	assert.Equal(t, 2, result.TotalCount)

	var total int64
	require.NoError(t, db.Model(&model.QuizAnswerModel{}).Count(&total).Error)
	assert.Equal(t, int64(2), total)
}

func TestGetQuestionsOrderedWithChoices(t *testing.T) {
	db := setupDB(t)
	fix := seedQuiz(t, db, 3, 70)

	questions, err := GetQuestions(db, fix.Quiz.QuizID)
	require.NoError(t, err)
	require.Len(t, questions, 3)
	for i, q := range questions {
		assert.Equal(t, i, q.Question.QuestionOrderIndex)
		assert.Len(t, q.Choices, 3)
	}
}

func TestGetResults(t *testing.T) {
	db := setupDB(t)
	fix := seedQuiz(t, db, 2, 70)
	userID := uuid.New()

	_, err := GetResults(db, userID, fix.Quiz.QuizID, false)
	assert.ErrorIs(t, err, ErrNoCompletedResult)

	_, err = StartAttempt(db, userID, fix.Quiz.QuizID)
	require.NoError(t, err)
	submitted, err := SubmitAnswers(db, userID, fix.Quiz.QuizID, answersFor(fix, 2))
	require.NoError(t, err)

	detail, err := GetResults(db, userID, fix.Quiz.QuizID, true)
	require.NoError(t, err)
	assert.Equal(t, submitted.Attempt.AttemptID, detail.Attempt.AttemptID)
	assert.InDelta(t, 100.0, detail.Attempt.Score, 0.001)
	require.Len(t, detail.Answers, 2)
	for _, ans := range detail.Answers {
		q, ok := detail.ByAnswer[ans.AnswerQuestionID]
		require.True(t, ok)
		assert.Equal(t, 1, q.QuestionCorrectAnswerIndex)
	}
}
