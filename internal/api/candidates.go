package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/spendwise/banktext-backend/internal/api/dto"
	"github.com/spendwise/banktext-backend/internal/domain/normalize"
	"github.com/spendwise/banktext-backend/internal/domain/transaction"
	"github.com/spendwise/banktext-backend/internal/infrastructure/storage"
)

// listCandidates returns stored candidates, filterable by status,
// source, and review flag.
func (s *Server) listCandidates(c *gin.Context) {
	filters := storage.CandidateFilters{
		Status:      c.Query("status"),
		Source:      c.Query("source"),
		NeedsReview: c.Query("needs_review") == "true",
		Limit:       queryInt(c, "limit", 50),
		Offset:      queryInt(c, "offset", 0),
	}

	records, err := s.repo.ListCandidates(filters)
	if err != nil {
		s.logger.Error("listing candidates failed", "error", err)
		c.JSON(http.StatusInternalServerError, dto.InternalError())
		return
	}
	if records == nil {
		records = []*storage.CandidateRecord{}
	}
	c.JSON(http.StatusOK, gin.H{"candidates": records, "count": len(records)})
}

func (s *Server) getCandidate(c *gin.Context) {
	record, err := s.repo.GetCandidate(c.Param("id"))
	if err != nil {
		s.logger.Error("fetching candidate failed", "error", err)
		c.JSON(http.StatusInternalServerError, dto.InternalError())
		return
	}
	if record == nil {
		c.JSON(http.StatusNotFound, dto.NotFoundError("candidate"))
		return
	}
	c.JSON(http.StatusOK, record)
}

// confirmCandidate accepts a pending candidate as a real transaction.
func (s *Server) confirmCandidate(c *gin.Context) {
	s.updateStatus(c, storage.StatusConfirmed)
}

// ignoreCandidate dismisses a pending candidate. The source hash is
// kept, so redeliveries of the same message stay suppressed.
func (s *Server) ignoreCandidate(c *gin.Context) {
	s.updateStatus(c, storage.StatusIgnored)
}

func (s *Server) updateStatus(c *gin.Context, status string) {
	id := c.Param("id")
	record, err := s.repo.GetCandidate(id)
	if err != nil {
		s.logger.Error("fetching candidate failed", "error", err)
		c.JSON(http.StatusInternalServerError, dto.InternalError())
		return
	}
	if record == nil {
		c.JSON(http.StatusNotFound, dto.NotFoundError("candidate"))
		return
	}
	if record.Status != storage.StatusPending {
		c.JSON(http.StatusBadRequest,
			dto.BadRequestError("only pending candidates can be "+status))
		return
	}

	if err := s.repo.UpdateCandidateStatus(id, status); err != nil {
		s.logger.Error("updating candidate failed", "error", err)
		c.JSON(http.StatusInternalServerError, dto.InternalError())
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": id, "status": status})
}

// addLedgerExpense seeds the ledger pool the matcher runs against.
func (s *Server) addLedgerExpense(c *gin.Context) {
	var req dto.LedgerExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.BadRequestError(err.Error()))
		return
	}
	if _, err := normalize.ParseDate(req.Date); err != nil {
		c.JSON(http.StatusBadRequest, dto.ValidationError("date must be YYYY-MM-DD"))
		return
	}

	expense := &transaction.LedgerExpense{
		ID:          req.ID,
		Amount:      req.Amount,
		Date:        req.Date,
		Description: req.Description,
		RecurringID: req.RecurringID,
	}
	if err := s.repo.SaveLedgerExpense(expense); err != nil {
		s.logger.Error("saving ledger expense failed", "error", err)
		c.JSON(http.StatusInternalServerError, dto.InternalError())
		return
	}
	c.JSON(http.StatusCreated, expense)
}

// listRuns returns recent ingest runs.
func (s *Server) listRuns(c *gin.Context) {
	runs, err := s.repo.ListIngestRuns(queryInt(c, "limit", 20))
	if err != nil {
		s.logger.Error("listing runs failed", "error", err)
		c.JSON(http.StatusInternalServerError, dto.InternalError())
		return
	}
	if runs == nil {
		runs = []storage.IngestRun{}
	}
	c.JSON(http.StatusOK, gin.H{"runs": runs})
}

// stats returns aggregate candidate counts.
func (s *Server) stats(c *gin.Context) {
	stats, err := s.repo.Stats()
	if err != nil {
		s.logger.Error("fetching stats failed", "error", err)
		c.JSON(http.StatusInternalServerError, dto.InternalError())
		return
	}
	c.JSON(http.StatusOK, stats)
}

// queryInt parses an integer query parameter with a default value.
func queryInt(c *gin.Context, name string, defaultVal int) int {
	val := c.Query(name)
	if val == "" {
		return defaultVal
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return defaultVal
	}
	return parsed
}
