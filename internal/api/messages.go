package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/spendwise/banktext-backend/internal/api/dto"
	"github.com/spendwise/banktext-backend/internal/domain/extractor"
	"github.com/spendwise/banktext-backend/internal/domain/transaction"
)

// postMessage accepts one captured message and runs it through the
// pipeline. The response tells the capture layer which stage resolved
// it; no outcome here is an HTTP error.
func (s *Server) postMessage(c *gin.Context) {
	var req dto.MessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.BadRequestError(err.Error()))
		return
	}

	var source transaction.Source
	switch req.Source {
	case string(transaction.SourceSMS):
		source = transaction.SourceSMS
	case string(transaction.SourceNotification):
		source = transaction.SourceNotification
	default:
		c.JSON(http.StatusBadRequest,
			dto.ValidationError("source must be \"sms\" or \"notification\""))
		return
	}

	outcome, err := s.pipeline.Process(extractor.Message{
		SourceID:        req.SourceID,
		Title:           req.Title,
		Body:            req.Body,
		TimestampMillis: req.TimestampMillis,
		Source:          source,
	})
	if err != nil {
		s.logger.Error("message processing failed", "error", err)
		c.JSON(http.StatusInternalServerError, dto.InternalError())
		return
	}

	resp := dto.MessageResponse{
		Status:      string(outcome.Status),
		CandidateID: outcome.CandidateID,
	}
	if outcome.Candidate != nil {
		resp.Candidate = candidateView(outcome.Candidate)
	}
	if outcome.Match != nil {
		resp.Match = &dto.MatchView{
			ExpenseID:   outcome.Match.Expense.ID,
			Description: outcome.Match.Expense.Description,
			Score:       outcome.Match.Score,
		}
	}
	c.JSON(http.StatusOK, resp)
}

func candidateView(cand *transaction.Candidate) *dto.CandidateView {
	return &dto.CandidateView{
		Kind:                string(cand.Kind),
		Amount:              cand.Amount,
		Description:         cand.Description,
		CounterpartyAccount: cand.CounterpartyAccount,
		Date:                cand.Date,
		Source:              string(cand.Source),
		SourceLabel:         cand.SourceLabel,
		AccountLabel:        cand.AccountLabel,
		NeedsReview:         cand.NeedsReview,
	}
}
