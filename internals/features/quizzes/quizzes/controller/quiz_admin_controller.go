package controller

import (
	"errors"
	"log"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	database "posyandu_backend/internals/databases"
	subMateriModel "posyandu_backend/internals/features/contents/sub_materis/model"
	"posyandu_backend/internals/features/quizzes/quizzes/dto"
	"posyandu_backend/internals/features/quizzes/quizzes/model"
	helper "posyandu_backend/internals/helpers"
)

type QuizAdminController struct {
	Handles  database.Handles
	validate *validator.Validate
}

func NewQuizAdminController(h database.Handles) *QuizAdminController {
	return &QuizAdminController{Handles: h, validate: validator.New()}
}

// GET /api/v1/admin/quizzes?sub_materi_id=
func (ctrl *QuizAdminController) GetAll(c *fiber.Ctx) error {
	db := ctrl.Handles.DB.WithContext(c.UserContext())

	q := db.Model(&model.QuizModel{}).Order("quiz_created_at DESC")
	if raw := c.Query("sub_materi_id"); raw != "" {
		subMateriID, err := uuid.Parse(raw)
		if err != nil {
			return helper.Error(c, fiber.StatusBadRequest, helper.CodeValidationError, "sub_materi_id tidak valid")
		}
		q = q.Where("quiz_sub_materi_id = ?", subMateriID)
	}

	var quizzes []model.QuizModel
	if err := q.Find(&quizzes).Error; err != nil {
		log.Printf("[ERROR] list quizzes: %v", err)
		return helper.Error(c, fiber.StatusInternalServerError, helper.CodeInternalError, "Gagal mengambil quiz")
	}

	out := make([]dto.QuizDTO, 0, len(quizzes))
	for _, quiz := range quizzes {
		out = append(out, dto.ToQuizDTO(quiz))
	}
	return helper.Success(c, "Daftar quiz", out)
}

// GET /api/v1/admin/quizzes/:id — quiz + soal lengkap dengan kunci jawaban.
func (ctrl *QuizAdminController) GetByID(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.Error(c, fiber.StatusBadRequest, helper.CodeValidationError, "ID tidak valid")
	}

	db := ctrl.Handles.DB.WithContext(c.UserContext())

	var quiz model.QuizModel
	if err := db.First(&quiz, "quiz_id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.Error(c, fiber.StatusNotFound, "QUIZ_NOT_FOUND", "Quiz tidak ditemukan")
		}
		return helper.Error(c, fiber.StatusInternalServerError, helper.CodeInternalError, "Gagal mengambil quiz")
	}

	var questions []model.QuizQuestionModel
	if err := db.Where("question_quiz_id = ?", quiz.QuizID).
		Order("question_order_index ASC").
		Find(&questions).Error; err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, helper.CodeInternalError, "Gagal mengambil soal")
	}

	items := make([]dto.QuestionAdminDTO, 0, len(questions))
	for _, q := range questions {
		var choices []model.QuizChoiceModel
		if err := db.Where("choice_question_id = ?", q.QuestionID).
			Order("choice_index ASC").
			Find(&choices).Error; err != nil {
			return helper.Error(c, fiber.StatusInternalServerError, helper.CodeInternalError, "Gagal mengambil pilihan")
		}
		items = append(items, dto.QuestionAdminDTO{
			QuestionID:                 q.QuestionID.String(),
			QuestionQuizID:             q.QuestionQuizID.String(),
			QuestionText:               q.QuestionText,
			QuestionOrderIndex:         q.QuestionOrderIndex,
			QuestionCorrectAnswerIndex: q.QuestionCorrectAnswerIndex,
			QuestionExplanation:        q.QuestionExplanation,
			Choices:                    dto.ToChoiceDTOs(choices),
		})
	}

	return helper.Success(c, "Detail quiz", fiber.Map{
		"quiz":      dto.ToQuizDTO(quiz),
		"questions": items,
	})
}

// POST /api/v1/admin/quizzes
func (ctrl *QuizAdminController) Create(c *fiber.Ctx) error {
	var req dto.CreateQuizRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, helper.CodeValidationError, "Body request tidak valid")
	}
	if err := ctrl.validate.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}

	db := ctrl.Handles.DB.WithContext(c.UserContext())
	subMateriID, _ := uuid.Parse(req.QuizSubMateriID)

	var count int64
	if err := db.Model(&subMateriModel.SubMateriModel{}).
		Where("sub_materi_id = ?", subMateriID).Count(&count).Error; err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, helper.CodeInternalError, "Gagal cek sub materi")
	}
	if count == 0 {
		return helper.Error(c, fiber.StatusNotFound, "SUB_MATERI_NOT_FOUND", "Sub materi tidak ditemukan")
	}

	quiz := model.QuizModel{
		QuizSubMateriID:  subMateriID,
		QuizTitle:        req.QuizTitle,
		QuizDescription:  req.QuizDescription,
		QuizPassingScore: req.QuizPassingScore,
		QuizPublished:    req.QuizPublished,
	}
	if err := db.Create(&quiz).Error; err != nil {
		log.Printf("[ERROR] create quiz: %v", err)
		return helper.Error(c, fiber.StatusInternalServerError, helper.CodeInternalError, "Gagal membuat quiz")
	}

	return helper.Created(c, "Quiz berhasil dibuat", dto.ToQuizDTO(quiz))
}

// PUT /api/v1/admin/quizzes/:id
func (ctrl *QuizAdminController) Update(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.Error(c, fiber.StatusBadRequest, helper.CodeValidationError, "ID tidak valid")
	}

	var req dto.UpdateQuizRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, helper.CodeValidationError, "Body request tidak valid")
	}
	if err := ctrl.validate.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}

	db := ctrl.Handles.DB.WithContext(c.UserContext())

	var quiz model.QuizModel
	if err := db.First(&quiz, "quiz_id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.Error(c, fiber.StatusNotFound, "QUIZ_NOT_FOUND", "Quiz tidak ditemukan")
		}
		return helper.Error(c, fiber.StatusInternalServerError, helper.CodeInternalError, "Gagal mengambil quiz")
	}

	updates := map[string]interface{}{}
	if req.QuizTitle != "" {
		updates["quiz_title"] = req.QuizTitle
	}
	if req.QuizDescription != nil {
		updates["quiz_description"] = *req.QuizDescription
	}
	if req.QuizPassingScore != nil {
		updates["quiz_passing_score"] = *req.QuizPassingScore
	}
	if req.QuizPublished != nil {
		updates["quiz_published"] = *req.QuizPublished
	}
	if len(updates) == 0 {
		return helper.Error(c, fiber.StatusBadRequest, helper.CodeValidationError, "Tidak ada field yang diubah")
	}

	if err := db.Model(&quiz).Updates(updates).Error; err != nil {
		log.Printf("[ERROR] update quiz: %v", err)
		return helper.Error(c, fiber.StatusInternalServerError, helper.CodeInternalError, "Gagal update quiz")
	}

	if err := db.First(&quiz, "quiz_id = ?", id).Error; err == nil {
		return helper.Success(c, "Quiz berhasil diperbarui", dto.ToQuizDTO(quiz))
	}
	return helper.Success(c, "Quiz berhasil diperbarui", nil)
}

// DELETE /api/v1/admin/quizzes/:id
func (ctrl *QuizAdminController) Delete(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.Error(c, fiber.StatusBadRequest, helper.CodeValidationError, "ID tidak valid")
	}

	db := ctrl.Handles.DB.WithContext(c.UserContext())

	res := db.Delete(&model.QuizModel{}, "quiz_id = ?", id)
	if res.Error != nil {
		log.Printf("[ERROR] delete quiz: %v", res.Error)
		return helper.Error(c, fiber.StatusInternalServerError, helper.CodeInternalError, "Gagal menghapus quiz")
	}
	if res.RowsAffected == 0 {
		return helper.Error(c, fiber.StatusNotFound, "QUIZ_NOT_FOUND", "Quiz tidak ditemukan")
	}

	return helper.Success(c, "Quiz berhasil dihapus", nil)
}

// POST /api/v1/admin/quizzes/:id/questions
// Soal + pilihannya dibuat dalam satu transaksi.
func (ctrl *QuizAdminController) CreateQuestion(c *fiber.Ctx) error {
	quizID, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.Error(c, fiber.StatusBadRequest, helper.CodeValidationError, "ID tidak valid")
	}

	var req dto.CreateQuestionRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, helper.CodeValidationError, "Body request tidak valid")
	}
	if err := ctrl.validate.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}
	if req.QuestionCorrectAnswerIndex >= len(req.Choices) {
		return helper.Error(c, fiber.StatusBadRequest, helper.CodeValidationError,
			"Index kunci jawaban di luar jumlah pilihan")
	}

	db := ctrl.Handles.DB.WithContext(c.UserContext())

	var count int64
	if err := db.Model(&model.QuizModel{}).Where("quiz_id = ?", quizID).Count(&count).Error; err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, helper.CodeInternalError, "Gagal cek quiz")
	}
	if count == 0 {
		return helper.Error(c, fiber.StatusNotFound, "QUIZ_NOT_FOUND", "Quiz tidak ditemukan")
	}

	question := model.QuizQuestionModel{
		QuestionQuizID:             quizID,
		QuestionText:               req.QuestionText,
		QuestionOrderIndex:         req.QuestionOrderIndex,
		QuestionCorrectAnswerIndex: req.QuestionCorrectAnswerIndex,
		QuestionExplanation:        req.QuestionExplanation,
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&question).Error; err != nil {
			return err
		}
		for i, text := range req.Choices {
			choice := model.QuizChoiceModel{
				ChoiceQuestionID: question.QuestionID,
				ChoiceIndex:      i,
				ChoiceText:       text,
			}
			if err := tx.Create(&choice).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		log.Printf("[ERROR] create question: %v", err)
		return helper.Error(c, fiber.StatusInternalServerError, helper.CodeInternalError, "Gagal membuat soal")
	}

	return helper.Created(c, "Soal berhasil dibuat", fiber.Map{
		"question_id": question.QuestionID.String(),
	})
}

// DELETE /api/v1/admin/quizzes/:id/questions/:questionId
func (ctrl *QuizAdminController) DeleteQuestion(c *fiber.Ctx) error {
	quizID, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.Error(c, fiber.StatusBadRequest, helper.CodeValidationError, "ID quiz tidak valid")
	}
	questionID, err := helper.ParseUUIDParam(c, "questionId")
	if err != nil {
		return helper.Error(c, fiber.StatusBadRequest, helper.CodeValidationError, "ID soal tidak valid")
	}

	db := ctrl.Handles.DB.WithContext(c.UserContext())

	res := db.Delete(&model.QuizQuestionModel{}, "question_id = ? AND question_quiz_id = ?", questionID, quizID)
	if res.Error != nil {
		log.Printf("[ERROR] delete question: %v", res.Error)
		return helper.Error(c, fiber.StatusInternalServerError, helper.CodeInternalError, "Gagal menghapus soal")
	}
	if res.RowsAffected == 0 {
		return helper.Error(c, fiber.StatusNotFound, "QUESTION_NOT_FOUND", "Soal tidak ditemukan")
	}

	// pilihan ikut dibersihkan di level aplikasi
	if err := db.Delete(&model.QuizChoiceModel{}, "choice_question_id = ?", questionID).Error; err != nil {
		log.Printf("[WARN] hapus pilihan soal %s gagal: %v", questionID, err)
	}

	return helper.Success(c, "Soal berhasil dihapus", nil)
}
