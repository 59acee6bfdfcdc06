package dto

import (
	"time"

	"posyandu_backend/internals/features/quizzes/quizzes/model"
)

type QuizDTO struct {
	QuizID           string  `json:"quiz_id"`
	QuizSubMateriID  string  `json:"quiz_sub_materi_id"`
	QuizTitle        string  `json:"quiz_title"`
	QuizDescription  string  `json:"quiz_description"`
	QuizPassingScore float64 `json:"quiz_passing_score"`
	QuizPublished    bool    `json:"quiz_published"`
}

type ChoiceDTO struct {
	ChoiceIndex int    `json:"choice_index"`
	ChoiceText  string `json:"choice_text"`
}

// QuestionDTO untuk pengguna: tanpa kunci jawaban dan tanpa penjelasan.
type QuestionDTO struct {
	QuestionID         string      `json:"question_id"`
	QuestionText       string      `json:"question_text"`
	QuestionOrderIndex int         `json:"question_order_index"`
	Choices            []ChoiceDTO `json:"choices"`
}

// QuestionAdminDTO lengkap dengan kunci jawaban untuk panel admin.
type QuestionAdminDTO struct {
	QuestionID                 string      `json:"question_id"`
	QuestionQuizID             string      `json:"question_quiz_id"`
	QuestionText               string      `json:"question_text"`
	QuestionOrderIndex         int         `json:"question_order_index"`
	QuestionCorrectAnswerIndex int         `json:"question_correct_answer_index"`
	QuestionExplanation        string      `json:"question_explanation"`
	Choices                    []ChoiceDTO `json:"choices"`
}

type AttemptDTO struct {
	AttemptID     string     `json:"attempt_id"`
	AttemptQuizID string     `json:"attempt_quiz_id"`
	StartedAt     time.Time  `json:"started_at"`
	CompletedAt   *time.Time `json:"completed_at,omitempty"`
	Score         float64    `json:"score"`
	IsPassed      bool       `json:"is_passed"`
}

type AnswerDetailDTO struct {
	QuestionID          string `json:"question_id"`
	QuestionText        string `json:"question_text"`
	SelectedIndex       int    `json:"selected_index"`
	CorrectAnswerIndex  int    `json:"correct_answer_index"`
	IsCorrect           bool   `json:"is_correct"`
	QuestionExplanation string `json:"question_explanation"`
}

type ResultsDTO struct {
	Attempt AttemptDTO        `json:"attempt"`
	Answers []AnswerDetailDTO `json:"answers,omitempty"`
}

type SubmitAnswerItem struct {
	QuestionID    string `json:"question_id" validate:"required,uuid"`
	SelectedIndex int    `json:"selected_index" validate:"gte=0,lte=3"`
}

type SubmitAnswersRequest struct {
	Answers []SubmitAnswerItem `json:"answers" validate:"required,min=1,dive"`
}

type CreateQuizRequest struct {
	QuizSubMateriID  string  `json:"quiz_sub_materi_id" validate:"required,uuid"`
	QuizTitle        string  `json:"quiz_title" validate:"required,min=3,max=255"`
	QuizDescription  string  `json:"quiz_description"`
	QuizPassingScore float64 `json:"quiz_passing_score" validate:"gte=0,lte=100"`
	QuizPublished    bool    `json:"quiz_published"`
}

type UpdateQuizRequest struct {
	QuizTitle        string   `json:"quiz_title" validate:"omitempty,min=3,max=255"`
	QuizDescription  *string  `json:"quiz_description"`
	QuizPassingScore *float64 `json:"quiz_passing_score" validate:"omitempty,gte=0,lte=100"`
	QuizPublished    *bool    `json:"quiz_published"`
}

type CreateQuestionRequest struct {
	QuestionText               string   `json:"question_text" validate:"required,min=3"`
	QuestionOrderIndex         int      `json:"question_order_index" validate:"gte=0"`
	QuestionCorrectAnswerIndex int      `json:"question_correct_answer_index" validate:"gte=0,lte=3"`
	QuestionExplanation        string   `json:"question_explanation"`
	Choices                    []string `json:"choices" validate:"required,min=2,max=4,dive,required"`
}

func ToQuizDTO(m model.QuizModel) QuizDTO {
	return QuizDTO{
		QuizID:           m.QuizID.String(),
		QuizSubMateriID:  m.QuizSubMateriID.String(),
		QuizTitle:        m.QuizTitle,
		QuizDescription:  m.QuizDescription,
		QuizPassingScore: m.QuizPassingScore,
		QuizPublished:    m.QuizPublished,
	}
}

func ToAttemptDTO(m model.QuizAttemptModel) AttemptDTO {
	return AttemptDTO{
		AttemptID:     m.AttemptID.String(),
		AttemptQuizID: m.AttemptQuizID.String(),
		StartedAt:     m.StartedAt,
		CompletedAt:   m.CompletedAt,
		Score:         m.Score,
		IsPassed:      m.IsPassed,
	}
}

func ToChoiceDTOs(choices []model.QuizChoiceModel) []ChoiceDTO {
	out := make([]ChoiceDTO, 0, len(choices))
	for _, ch := range choices {
		out = append(out, ChoiceDTO{ChoiceIndex: ch.ChoiceIndex, ChoiceText: ch.ChoiceText})
	}
	return out
}
