package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type QuizModel struct {
	QuizID           uuid.UUID `gorm:"column:quiz_id;type:uuid;default:gen_random_uuid();primaryKey" json:"quiz_id"`
	QuizSubMateriID  uuid.UUID `gorm:"column:quiz_sub_materi_id;type:uuid;not null;index" json:"quiz_sub_materi_id"`
	QuizTitle        string    `gorm:"column:quiz_title;type:varchar(255);not null" json:"quiz_title"`
	QuizDescription  string    `gorm:"column:quiz_description;type:text" json:"quiz_description"`
	QuizPassingScore float64   `gorm:"column:quiz_passing_score;not null;default:70" json:"quiz_passing_score"`
	QuizPublished    bool      `gorm:"column:quiz_published;not null;default:false" json:"quiz_published"`

	QuizCreatedAt time.Time `gorm:"column:quiz_created_at;autoCreateTime" json:"quiz_created_at"`
	QuizUpdatedAt time.Time `gorm:"column:quiz_updated_at;autoUpdateTime" json:"quiz_updated_at"`
}

func (QuizModel) TableName() string { return "quizzes" }

func (m *QuizModel) BeforeCreate(tx *gorm.DB) error {
	if m.QuizID == uuid.Nil {
		m.QuizID = uuid.New()
	}
	return nil
}

type QuizQuestionModel struct {
	QuestionID                 uuid.UUID `gorm:"column:question_id;type:uuid;default:gen_random_uuid();primaryKey" json:"question_id"`
	QuestionQuizID             uuid.UUID `gorm:"column:question_quiz_id;type:uuid;not null;index" json:"question_quiz_id"`
	QuestionText               string    `gorm:"column:question_text;type:text;not null" json:"question_text"`
	QuestionOrderIndex         int       `gorm:"column:question_order_index;not null;default:0" json:"question_order_index"`
	QuestionCorrectAnswerIndex int       `gorm:"column:question_correct_answer_index;not null" json:"question_correct_answer_index"`
	QuestionExplanation        string    `gorm:"column:question_explanation;type:text" json:"question_explanation"`

	QuestionCreatedAt time.Time `gorm:"column:question_created_at;autoCreateTime" json:"question_created_at"`
	QuestionUpdatedAt time.Time `gorm:"column:question_updated_at;autoUpdateTime" json:"question_updated_at"`
}

func (QuizQuestionModel) TableName() string { return "quiz_questions" }

func (m *QuizQuestionModel) BeforeCreate(tx *gorm.DB) error {
	if m.QuestionID == uuid.Nil {
		m.QuestionID = uuid.New()
	}
	return nil
}

// 2-4 pilihan per soal, choice_index unik per soal.
type QuizChoiceModel struct {
	ChoiceID         uuid.UUID `gorm:"column:choice_id;type:uuid;default:gen_random_uuid();primaryKey" json:"choice_id"`
	ChoiceQuestionID uuid.UUID `gorm:"column:choice_question_id;type:uuid;not null;uniqueIndex:uq_question_choice" json:"choice_question_id"`
	ChoiceIndex      int       `gorm:"column:choice_index;not null;uniqueIndex:uq_question_choice" json:"choice_index"`
	ChoiceText       string    `gorm:"column:choice_text;type:text;not null" json:"choice_text"`
}

func (QuizChoiceModel) TableName() string { return "quiz_choices" }

func (m *QuizChoiceModel) BeforeCreate(tx *gorm.DB) error {
	if m.ChoiceID == uuid.Nil {
		m.ChoiceID = uuid.New()
	}
	return nil
}

// Satu attempt terbuka per (user, quiz); completed_at null artinya masih jalan.
type QuizAttemptModel struct {
	AttemptID     uuid.UUID  `gorm:"column:attempt_id;type:uuid;default:gen_random_uuid();primaryKey" json:"attempt_id"`
	AttemptQuizID uuid.UUID  `gorm:"column:attempt_quiz_id;type:uuid;not null;index" json:"attempt_quiz_id"`
	AttemptUserID uuid.UUID  `gorm:"column:attempt_user_id;type:uuid;not null;index" json:"attempt_user_id"`
	StartedAt     time.Time  `gorm:"column:started_at;not null" json:"started_at"`
	CompletedAt   *time.Time `gorm:"column:completed_at" json:"completed_at,omitempty"`
	Score         float64    `gorm:"column:score;not null;default:0" json:"score"`
	IsPassed      bool       `gorm:"column:is_passed;not null;default:false" json:"is_passed"`
}

func (QuizAttemptModel) TableName() string { return "quiz_attempts" }

func (m *QuizAttemptModel) BeforeCreate(tx *gorm.DB) error {
	if m.AttemptID == uuid.Nil {
		m.AttemptID = uuid.New()
	}
	return nil
}

type QuizAnswerModel struct {
	AnswerID         uuid.UUID `gorm:"column:answer_id;type:uuid;default:gen_random_uuid();primaryKey" json:"answer_id"`
	AnswerAttemptID  uuid.UUID `gorm:"column:answer_attempt_id;type:uuid;not null;uniqueIndex:uq_attempt_question" json:"answer_attempt_id"`
	AnswerQuestionID uuid.UUID `gorm:"column:answer_question_id;type:uuid;not null;uniqueIndex:uq_attempt_question" json:"answer_question_id"`
	SelectedIndex    int       `gorm:"column:selected_index;not null" json:"selected_index"`
	IsCorrect        bool      `gorm:"column:is_correct;not null;default:false" json:"is_correct"`

	AnswerCreatedAt time.Time `gorm:"column:answer_created_at;autoCreateTime" json:"answer_created_at"`
	AnswerUpdatedAt time.Time `gorm:"column:answer_updated_at;autoUpdateTime" json:"answer_updated_at"`
}

func (QuizAnswerModel) TableName() string { return "quiz_answers" }

func (m *QuizAnswerModel) BeforeCreate(tx *gorm.DB) error {
	if m.AnswerID == uuid.Nil {
		m.AnswerID = uuid.New()
	}
	return nil
}
