package service

import (
	"errors"
	"log"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	subMateriModel "posyandu_backend/internals/features/contents/sub_materis/model"
	progressService "posyandu_backend/internals/features/progress/progress/service"
	"posyandu_backend/internals/features/quizzes/quizzes/model"
)

var (
	ErrQuizNotFound      = errors.New("quiz tidak ditemukan")
	ErrQuizNoQuestions   = errors.New("quiz belum punya soal")
	ErrNoCompletedResult = errors.New("belum ada attempt yang selesai")
)

// ErrAttemptInProgress membawa id attempt terbuka supaya controller bisa
// mengembalikannya di body 409.
type ErrAttemptInProgress struct {
	AttemptID uuid.UUID
}

func (e *ErrAttemptInProgress) Error() string { return "masih ada attempt yang berjalan" }

var ErrAttemptNotStarted = errors.New("attempt belum dimulai")

func findQuiz(db *gorm.DB, quizID uuid.UUID, publishedOnly bool) (model.QuizModel, error) {
	q := db.Where("quiz_id = ?", quizID)
	if publishedOnly {
		q = q.Where("quiz_published = ?", true)
	}
	var quiz model.QuizModel
	if err := q.First(&quiz).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return model.QuizModel{}, ErrQuizNotFound
		}
		return model.QuizModel{}, err
	}
	return quiz, nil
}

type QuestionWithChoices struct {
	Question model.QuizQuestionModel
	Choices  []model.QuizChoiceModel
}

// GetQuestions mengembalikan soal terurut + pilihannya untuk quiz publish.
func GetQuestions(db *gorm.DB, quizID uuid.UUID) ([]QuestionWithChoices, error) {
	if _, err := findQuiz(db, quizID, true); err != nil {
		return nil, err
	}

	var questions []model.QuizQuestionModel
	if err := db.Where("question_quiz_id = ?", quizID).
		Order("question_order_index ASC").
		Find(&questions).Error; err != nil {
		return nil, err
	}

	out := make([]QuestionWithChoices, 0, len(questions))
	for _, q := range questions {
		var choices []model.QuizChoiceModel
		if err := db.Where("choice_question_id = ?", q.QuestionID).
			Order("choice_index ASC").
			Find(&choices).Error; err != nil {
			return nil, err
		}
		out = append(out, QuestionWithChoices{Question: q, Choices: choices})
	}
	return out, nil
}

// StartAttempt membuat attempt baru. Kalau masih ada attempt terbuka untuk
// (user, quiz), kembalikan ErrAttemptInProgress berisi id attempt lama.
func StartAttempt(db *gorm.DB, userID, quizID uuid.UUID) (model.QuizAttemptModel, error) {
	if _, err := findQuiz(db, quizID, true); err != nil {
		return model.QuizAttemptModel{}, err
	}

	var open model.QuizAttemptModel
	err := db.Where("attempt_user_id = ? AND attempt_quiz_id = ? AND completed_at IS NULL", userID, quizID).
		First(&open).Error
	if err == nil {
		return model.QuizAttemptModel{}, &ErrAttemptInProgress{AttemptID: open.AttemptID}
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return model.QuizAttemptModel{}, err
	}

	attempt := model.QuizAttemptModel{
		AttemptQuizID: quizID,
		AttemptUserID: userID,
		StartedAt:     time.Now(),
	}
	if err := db.Create(&attempt).Error; err != nil {
		return model.QuizAttemptModel{}, err
	}
	return attempt, nil
}

type SubmittedAnswer struct {
	QuestionID    uuid.UUID
	SelectedIndex int
}

type SubmitResult struct {
	Attempt      model.QuizAttemptModel
	CorrectCount int
	TotalCount   int
}

// SubmitAnswers menilai jawaban terhadap kunci, menutup attempt terbuka, dan
// mencatat hasilnya ke ledger progres sub materi milik quiz.
// score = benar/total*100; lulus kalau score >= passing_score (inklusif).
func SubmitAnswers(db *gorm.DB, userID, quizID uuid.UUID, answers []SubmittedAnswer) (SubmitResult, error) {
	quiz, err := findQuiz(db, quizID, true)
	if err != nil {
		return SubmitResult{}, err
	}

	var attempt model.QuizAttemptModel
	err = db.Where("attempt_user_id = ? AND attempt_quiz_id = ? AND completed_at IS NULL", userID, quizID).
		First(&attempt).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return SubmitResult{}, ErrAttemptNotStarted
		}
		return SubmitResult{}, err
	}

	var questions []model.QuizQuestionModel
	if err := db.Where("question_quiz_id = ?", quizID).Find(&questions).Error; err != nil {
		return SubmitResult{}, err
	}
	if len(questions) == 0 {
		return SubmitResult{}, ErrQuizNoQuestions
	}

	correctIndex := make(map[uuid.UUID]int, len(questions))
	for _, q := range questions {
		correctIndex[q.QuestionID] = q.QuestionCorrectAnswerIndex
	}

	correct := 0
	for _, ans := range answers {
		key, ok := correctIndex[ans.QuestionID]
		if !ok {
			// jawaban untuk soal di luar quiz ini diabaikan
			continue
		}
		isCorrect := ans.SelectedIndex == key
		if isCorrect {
			correct++
		}

		row := model.QuizAnswerModel{
			AnswerAttemptID:  attempt.AttemptID,
			AnswerQuestionID: ans.QuestionID,
			SelectedIndex:    ans.SelectedIndex,
			IsCorrect:        isCorrect,
		}
		// resubmission menimpa jawaban lama, tidak menduplikasi
		if err := db.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "answer_attempt_id"}, {Name: "answer_question_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"selected_index", "is_correct", "answer_updated_at",
			}),
		}).Create(&row).Error; err != nil {
			return SubmitResult{}, err
		}
	}

	total := len(questions)
	score := float64(correct) / float64(total) * 100
	isPassed := score >= quiz.QuizPassingScore

	now := time.Now()
	attempt.CompletedAt = &now
	attempt.Score = score
	attempt.IsPassed = isPassed
	if err := db.Model(&model.QuizAttemptModel{}).
		Where("attempt_id = ?", attempt.AttemptID).
		Updates(map[string]interface{}{
			"completed_at": now,
			"score":        score,
			"is_passed":    isPassed,
		}).Error; err != nil {
		return SubmitResult{}, err
	}

	// Hasil quiz mengalir ke ledger sub materi: is_completed = lulus,
	// percentage = 100 kalau lulus, kalau tidak pakai skornya.
	percentage := score
	if isPassed {
		percentage = 100
	}
	moduleID := resolveModuleID(db, quiz.QuizSubMateriID)
	if _, err := progressService.RecordSubMateriOutcome(
		db, userID, moduleID, quiz.QuizSubMateriID,
		isPassed, percentage, progressService.RollupInput{},
	); err != nil {
		log.Printf("[WARN] catat hasil quiz ke progres gagal: %v", err)
	}

	return SubmitResult{Attempt: attempt, CorrectCount: correct, TotalCount: total}, nil
}

func resolveModuleID(db *gorm.DB, subMateriID uuid.UUID) uuid.UUID {
	var subMateri subMateriModel.SubMateriModel
	if err := db.Select("sub_materi_module_id").
		First(&subMateri, "sub_materi_id = ?", subMateriID).Error; err != nil {
		log.Printf("[WARN] resolve module dari sub materi %s gagal: %v", subMateriID, err)
		return uuid.Nil
	}
	return subMateri.SubMateriModuleID
}

type ResultDetail struct {
	Attempt  model.QuizAttemptModel
	Answers  []model.QuizAnswerModel
	ByAnswer map[uuid.UUID]model.QuizQuestionModel
}

// GetResults mengembalikan attempt selesai terakhir, opsional dengan detail
// jawaban per soal (termasuk penjelasan).
func GetResults(db *gorm.DB, userID, quizID uuid.UUID, includeAnswers bool) (ResultDetail, error) {
	if _, err := findQuiz(db, quizID, true); err != nil {
		return ResultDetail{}, err
	}

	var attempt model.QuizAttemptModel
	err := db.Where("attempt_user_id = ? AND attempt_quiz_id = ? AND completed_at IS NOT NULL", userID, quizID).
		Order("completed_at DESC").
		First(&attempt).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ResultDetail{}, ErrNoCompletedResult
		}
		return ResultDetail{}, err
	}

	out := ResultDetail{Attempt: attempt}
	if !includeAnswers {
		return out, nil
	}

	if err := db.Where("answer_attempt_id = ?", attempt.AttemptID).
		Find(&out.Answers).Error; err != nil {
		return ResultDetail{}, err
	}

	out.ByAnswer = make(map[uuid.UUID]model.QuizQuestionModel, len(out.Answers))
	for _, ans := range out.Answers {
		var q model.QuizQuestionModel
		if err := db.First(&q, "question_id = ?", ans.AnswerQuestionID).Error; err == nil {
			out.ByAnswer[ans.AnswerQuestionID] = q
		}
	}
	return out, nil
}
