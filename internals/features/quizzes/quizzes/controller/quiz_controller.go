package controller

import (
	"errors"
	"log"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	database "posyandu_backend/internals/databases"
	"posyandu_backend/internals/features/quizzes/quizzes/dto"
	"posyandu_backend/internals/features/quizzes/quizzes/service"
	helper "posyandu_backend/internals/helpers"
)

type QuizController struct {
	Handles  database.Handles
	validate *validator.Validate
}

func NewQuizController(h database.Handles) *QuizController {
	return &QuizController{Handles: h, validate: validator.New()}
}

// GET /api/v1/user-quizzes/:quizId/questions
// Soal + pilihan, tanpa kunci jawaban dan penjelasan.
func (ctrl *QuizController) GetQuestions(c *fiber.Ctx) error {
	quizID, err := helper.ParseUUIDParam(c, "quizId")
	if err != nil {
		return helper.Error(c, fiber.StatusBadRequest, helper.CodeValidationError, "ID quiz tidak valid")
	}

	db := ctrl.Handles.DB.WithContext(c.UserContext())
	questions, err := service.GetQuestions(db, quizID)
	if err != nil {
		if errors.Is(err, service.ErrQuizNotFound) {
			return helper.Error(c, fiber.StatusNotFound, "QUIZ_NOT_FOUND", "Quiz tidak ditemukan")
		}
		log.Printf("[ERROR] get questions: %v", err)
		return helper.Error(c, fiber.StatusInternalServerError, helper.CodeInternalError, "Gagal mengambil soal")
	}

	out := make([]dto.QuestionDTO, 0, len(questions))
	for _, q := range questions {
		out = append(out, dto.QuestionDTO{
			QuestionID:         q.Question.QuestionID.String(),
			QuestionText:       q.Question.QuestionText,
			QuestionOrderIndex: q.Question.QuestionOrderIndex,
			Choices:            dto.ToChoiceDTOs(q.Choices),
		})
	}
	return helper.Success(c, "Daftar soal", out)
}

// POST /api/v1/user-quizzes/:quizId/start
func (ctrl *QuizController) StartAttempt(c *fiber.Ctx) error {
	userID, err := helper.GetUserUUID(c)
	if err != nil {
		return helper.Error(c, fiber.StatusUnauthorized, helper.CodeUnauthorized, "Tidak terautentikasi")
	}
	quizID, err := helper.ParseUUIDParam(c, "quizId")
	if err != nil {
		return helper.Error(c, fiber.StatusBadRequest, helper.CodeValidationError, "ID quiz tidak valid")
	}

	db := ctrl.Handles.DB.WithContext(c.UserContext())
	attempt, err := service.StartAttempt(db, userID, quizID)
	if err != nil {
		var inProgress *service.ErrAttemptInProgress
		if errors.As(err, &inProgress) {
			return helper.ErrorWithDetails(c, fiber.StatusConflict, "ATTEMPT_IN_PROGRESS",
				"Masih ada attempt yang berjalan", fiber.Map{"attempt_id": inProgress.AttemptID.String()})
		}
		if errors.Is(err, service.ErrQuizNotFound) {
			return helper.Error(c, fiber.StatusNotFound, "QUIZ_NOT_FOUND", "Quiz tidak ditemukan")
		}
		log.Printf("[ERROR] start attempt: %v", err)
		return helper.Error(c, fiber.StatusInternalServerError, helper.CodeInternalError, "Gagal memulai attempt")
	}

	return helper.Created(c, "Attempt dimulai", dto.ToAttemptDTO(attempt))
}

// POST /api/v1/user-quizzes/:quizId/submit
func (ctrl *QuizController) SubmitAnswers(c *fiber.Ctx) error {
	userID, err := helper.GetUserUUID(c)
	if err != nil {
		return helper.Error(c, fiber.StatusUnauthorized, helper.CodeUnauthorized, "Tidak terautentikasi")
	}
	quizID, err := helper.ParseUUIDParam(c, "quizId")
	if err != nil {
		return helper.Error(c, fiber.StatusBadRequest, helper.CodeValidationError, "ID quiz tidak valid")
	}

	var req dto.SubmitAnswersRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, helper.CodeValidationError, "Body request tidak valid")
	}
	if err := ctrl.validate.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}

	answers := make([]service.SubmittedAnswer, 0, len(req.Answers))
	for _, a := range req.Answers {
		qid, err := uuid.Parse(a.QuestionID)
		if err != nil {
			return helper.Error(c, fiber.StatusBadRequest, helper.CodeValidationError, "ID soal tidak valid")
		}
		answers = append(answers, service.SubmittedAnswer{QuestionID: qid, SelectedIndex: a.SelectedIndex})
	}

	db := ctrl.Handles.DB.WithContext(c.UserContext())
	result, err := service.SubmitAnswers(db, userID, quizID, answers)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrQuizNotFound):
			return helper.Error(c, fiber.StatusNotFound, "QUIZ_NOT_FOUND", "Quiz tidak ditemukan")
		case errors.Is(err, service.ErrAttemptNotStarted):
			return helper.Error(c, fiber.StatusNotFound, "ATTEMPT_NOT_STARTED", "Attempt belum dimulai")
		case errors.Is(err, service.ErrQuizNoQuestions):
			return helper.Error(c, fiber.StatusBadRequest, helper.CodeValidationError, "Quiz belum punya soal")
		}
		log.Printf("[ERROR] submit answers: %v", err)
		return helper.Error(c, fiber.StatusInternalServerError, helper.CodeInternalError, "Gagal submit jawaban")
	}

	return helper.Success(c, "Jawaban tersimpan", fiber.Map{
		"attempt":       dto.ToAttemptDTO(result.Attempt),
		"correct_count": result.CorrectCount,
		"total_count":   result.TotalCount,
	})
}

// GET /api/v1/user-quizzes/:quizId/results?include_answers=true
func (ctrl *QuizController) GetResults(c *fiber.Ctx) error {
	userID, err := helper.GetUserUUID(c)
	if err != nil {
		return helper.Error(c, fiber.StatusUnauthorized, helper.CodeUnauthorized, "Tidak terautentikasi")
	}
	quizID, err := helper.ParseUUIDParam(c, "quizId")
	if err != nil {
		return helper.Error(c, fiber.StatusBadRequest, helper.CodeValidationError, "ID quiz tidak valid")
	}
	includeAnswers := c.QueryBool("include_answers", false)

	db := ctrl.Handles.DB.WithContext(c.UserContext())
	detail, err := service.GetResults(db, userID, quizID, includeAnswers)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrQuizNotFound):
			return helper.Error(c, fiber.StatusNotFound, "QUIZ_NOT_FOUND", "Quiz tidak ditemukan")
		case errors.Is(err, service.ErrNoCompletedResult):
			return helper.Error(c, fiber.StatusNotFound, "RESULT_NOT_FOUND", "Belum ada hasil quiz")
		}
		log.Printf("[ERROR] get results: %v", err)
		return helper.Error(c, fiber.StatusInternalServerError, helper.CodeInternalError, "Gagal mengambil hasil")
	}

	out := dto.ResultsDTO{Attempt: dto.ToAttemptDTO(detail.Attempt)}
	if includeAnswers {
		out.Answers = make([]dto.AnswerDetailDTO, 0, len(detail.Answers))
		for _, ans := range detail.Answers {
			item := dto.AnswerDetailDTO{
				QuestionID:    ans.AnswerQuestionID.String(),
				SelectedIndex: ans.SelectedIndex,
				IsCorrect:     ans.IsCorrect,
			}
			if q, ok := detail.ByAnswer[ans.AnswerQuestionID]; ok {
				item.QuestionText = q.QuestionText
				item.CorrectAnswerIndex = q.QuestionCorrectAnswerIndex
				item.QuestionExplanation = q.QuestionExplanation
			}
			out.Answers = append(out.Answers, item)
		}
	}
	return helper.Success(c, "Hasil quiz", out)
}
