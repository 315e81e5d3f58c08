package http

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yukinote/yuki/internal/audit"
	"github.com/yukinote/yuki/internal/database/quiz"
	"github.com/yukinote/yuki/internal/entities"
	"github.com/yukinote/yuki/internal/store"
)

// maxQuizBodyBytes caps the size of an uploaded question batch.
const maxQuizBodyBytes = 4 << 20

type QuizController struct {
	stores  StoreProvider
	auditor *audit.Auditor
}

func NewQuizController(stores StoreProvider, auditor *audit.Auditor) *QuizController {
	return &QuizController{
		stores:  stores,
		auditor: auditor,
	}
}

// SaveQuestionsResponse reports a persisted batch.
type SaveQuestionsResponse struct {
	Success bool `json:"success"`
	store.SaveResult
}

// ListQuestionsResponse lists saved questions, newest first.
type ListQuestionsResponse struct {
	Success bool                  `json:"success"`
	Data    []entities.QuizRecord `json:"data"`
	Total   int                   `json:"total"`
}

// Save stores a batch of generated questions in one transaction. The body is
// a JSON array of questions or an object with a "questions" array.
// POST /api/quiz/questions
func (qc *QuizController) Save(c *gin.Context) {
	body, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, maxQuizBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			c.JSON(http.StatusRequestEntityTooLarge, ErrorResponse{Error: "request body too large", Code: "body_too_large"})
			return
		}
		respondBadRequest(c, "failed to read request body")
		return
	}

	questions, err := entities.ParseGeneratedQuestions(body)
	if err != nil {
		respondBadRequest(c, "invalid JSON: "+err.Error())
		return
	}

	qc.auditor.SaveQuizBatch("http", questions)

	s, ok := acquireStore(c, qc.stores)
	if !ok {
		return
	}

	result, err := s.SaveQuizBatch(c.Request.Context(), questions)
	switch {
	case errors.Is(err, quiz.ErrEmptyBatch):
		respondBadRequest(c, "no questions to save")
		return
	case errors.Is(err, quiz.ErrInvalidQuestion):
		respondUnprocessable(c, err)
		return
	case err != nil:
		respondInternalError(c, err, "save quiz batch")
		return
	}

	c.JSON(http.StatusCreated, SaveQuestionsResponse{Success: true, SaveResult: result})
}

// List returns every saved question, newest first.
// GET /api/quiz/questions
func (qc *QuizController) List(c *gin.Context) {
	s, ok := acquireStore(c, qc.stores)
	if !ok {
		return
	}

	records, err := s.TryListSavedQuestions(c.Request.Context())
	if err != nil {
		respondInternalError(c, err, "list quiz questions")
		return
	}

	c.JSON(http.StatusOK, ListQuestionsResponse{Success: true, Data: records, Total: len(records)})
}
