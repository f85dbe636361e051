package main

import (
	"encoding/csv"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/a20ro/student-organizer-backend/models"

	"github.com/gin-gonic/gin"
)

// --- Transactions ---

func listTransactionsHandler(c *gin.Context) {
	user := currentUser(c)
	tx := db.Where("user_id = ?", user.ID)
	if typ := c.Query("type"); typ != "" {
		tx = tx.Where("type = ?", typ)
	}
	if cat := c.Query("category"); cat != "" {
		tx = tx.Where("category = ?", cat)
	}
	if from := c.Query("from"); from != "" {
		if t, err := time.Parse("2006-01-02", from); err == nil {
			tx = tx.Where("date >= ?", t)
		}
	}
	if to := c.Query("to"); to != "" {
		if t, err := time.Parse("2006-01-02", to); err == nil {
			tx = tx.Where("date <= ?", t)
		}
	}
	var transactions []models.Transaction
	if err := tx.Order("date DESC, id DESC").Find(&transactions).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to list transactions.")
		return
	}
	respondData(c, http.StatusOK, transactions)
}

type transactionRequest struct {
	Type     string  `json:"type" binding:"required,oneof=income expense"`
	Category string  `json:"category" binding:"max=100"`
	Amount   float64 `json:"amount" binding:"required,gt=0"`
	Date     string  `json:"date" binding:"required"`
	Note     string  `json:"note"`
}

func createTransactionHandler(c *gin.Context) {
	user := currentUser(c)
	var req transactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidation(c, err)
		return
	}
	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		respondError(c, http.StatusUnprocessableEntity, "date must be in YYYY-MM-DD format.")
		return
	}
	transaction := models.Transaction{
		UserID:   user.ID,
		Type:     req.Type,
		Category: req.Category,
		Amount:   req.Amount,
		Date:     date,
		Note:     req.Note,
	}
	if err := db.Create(&transaction).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to create transaction.")
		return
	}
	respondMessageData(c, http.StatusCreated, "Transaction created successfully.", transaction)
}

func updateTransactionHandler(c *gin.Context) {
	user := currentUser(c)
	var transaction models.Transaction
	if err := db.Where("user_id = ? AND id = ?", user.ID, c.Param("id")).First(&transaction).Error; err != nil {
		respondError(c, http.StatusNotFound, "Transaction not found.")
		return
	}
	var req transactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidation(c, err)
		return
	}
	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		respondError(c, http.StatusUnprocessableEntity, "date must be in YYYY-MM-DD format.")
		return
	}
	transaction.Type = req.Type
	transaction.Category = req.Category
	transaction.Amount = req.Amount
	transaction.Date = date
	transaction.Note = req.Note
	if err := db.Save(&transaction).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to update transaction.")
		return
	}
	respondMessageData(c, http.StatusOK, "Transaction updated successfully.", transaction)
}

func deleteTransactionHandler(c *gin.Context) {
	user := currentUser(c)
	var transaction models.Transaction
	if err := db.Where("user_id = ? AND id = ?", user.ID, c.Param("id")).First(&transaction).Error; err != nil {
		respondError(c, http.StatusNotFound, "Transaction not found.")
		return
	}
	if err := db.Delete(&transaction).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to delete transaction.")
		return
	}
	respondMessage(c, http.StatusOK, "Transaction deleted successfully.")
}

func sumTransactions(userID uint, typ string, from, to *time.Time) float64 {
	var total float64
	tx := db.Model(&models.Transaction{}).
		Where("user_id = ? AND type = ?", userID, typ)
	if from != nil {
		tx = tx.Where("date >= ?", *from)
	}
	if to != nil {
		tx = tx.Where("date <= ?", *to)
	}
	tx.Select("COALESCE(SUM(amount), 0)").Scan(&total)
	return total
}

func transactionSummaryHandler(c *gin.Context) {
	user := currentUser(c)
	var from, to *time.Time
	if v := c.Query("from"); v != "" {
		if t, err := time.Parse("2006-01-02", v); err == nil {
			from = &t
		}
	}
	if v := c.Query("to"); v != "" {
		if t, err := time.Parse("2006-01-02", v); err == nil {
			to = &t
		}
	}
	income := sumTransactions(user.ID, models.TransactionIncome, from, to)
	expense := sumTransactions(user.ID, models.TransactionExpense, from, to)
	respondData(c, http.StatusOK, gin.H{
		"income":  income,
		"expense": expense,
		"net":     income - expense,
	})
}

type categoryTotal struct {
	Category string  `json:"category"`
	Total    float64 `json:"total"`
}

type monthlyTotal struct {
	Month   string  `json:"month"`
	Income  float64 `json:"income"`
	Expense float64 `json:"expense"`
}

// transactionReportsHandler aggregates the caller's transactions for the
// requested year: monthly income/expense, expense by category, and actual
// spend against each configured budget.
func transactionReportsHandler(c *gin.Context) {
	user := currentUser(c)
	year := time.Now().Year()
	if v := c.Query("year"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			year = n
		}
	}
	yearStart := time.Date(year, 1, 1, 0, 0, 0, 0, time.UTC)
	yearEnd := yearStart.AddDate(1, 0, 0)

	var transactions []models.Transaction
	if err := db.Where("user_id = ? AND date >= ? AND date < ?", user.ID, yearStart, yearEnd).
		Find(&transactions).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to build report.")
		return
	}

	monthly := make([]monthlyTotal, 12)
	byCategory := map[string]float64{}
	for i := range monthly {
		monthly[i].Month = fmt.Sprintf("%04d-%02d", year, i+1)
	}
	for _, t := range transactions {
		idx := int(t.Date.Month()) - 1
		switch t.Type {
		case models.TransactionIncome:
			monthly[idx].Income += t.Amount
		case models.TransactionExpense:
			monthly[idx].Expense += t.Amount
			cat := t.Category
			if cat == "" {
				cat = "uncategorized"
			}
			byCategory[cat] += t.Amount
		}
	}
	categories := make([]categoryTotal, 0, len(byCategory))
	for cat, total := range byCategory {
		categories = append(categories, categoryTotal{Category: cat, Total: total})
	}

	var budgets []models.Budget
	db.Where("user_id = ? AND year = ?", user.ID, year).Find(&budgets)
	comparison := make([]gin.H, 0, len(budgets))
	for _, b := range budgets {
		monthStart := time.Date(b.Year, time.Month(b.Month), 1, 0, 0, 0, 0, time.UTC)
		monthEnd := monthStart.AddDate(0, 1, 0)
		spent := 0.0
		tx := db.Model(&models.Transaction{}).
			Where("user_id = ? AND type = ? AND date >= ? AND date < ?",
				user.ID, models.TransactionExpense, monthStart, monthEnd)
		if b.Category != nil {
			tx = tx.Where("category = ?", *b.Category)
		}
		tx.Select("COALESCE(SUM(amount), 0)").Scan(&spent)
		comparison = append(comparison, gin.H{
			"budget":    b,
			"spent":     spent,
			"remaining": b.Amount - spent,
		})
	}

	respondData(c, http.StatusOK, gin.H{
		"year":              year,
		"monthly":           monthly,
		"by_category":       categories,
		"budget_comparison": comparison,
	})
}

// transactionCSVRecord renders one transaction as a CSV row.
func transactionCSVRecord(t models.Transaction) []string {
	return []string{
		t.Date.Format("2006-01-02"),
		t.Type,
		t.Category,
		strconv.FormatFloat(t.Amount, 'f', 2, 64),
		t.Note,
	}
}

func exportTransactionsCSVHandler(c *gin.Context) {
	user := currentUser(c)
	var transactions []models.Transaction
	if err := db.Where("user_id = ?", user.ID).Order("date ASC, id ASC").Find(&transactions).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to export transactions.")
		return
	}

	c.Header("Content-Type", "text/csv")
	c.Header("Content-Disposition", `attachment; filename="transactions.csv"`)
	w := csv.NewWriter(c.Writer)
	w.Write([]string{"Date", "Type", "Category", "Amount", "Note"})
	for _, t := range transactions {
		w.Write(transactionCSVRecord(t))
	}
	w.Flush()
}

// --- Budgets ---

func listBudgetsHandler(c *gin.Context) {
	user := currentUser(c)
	tx := db.Where("user_id = ?", user.ID)
	if v := c.Query("year"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			tx = tx.Where("year = ?", n)
		}
	}
	if v := c.Query("month"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			tx = tx.Where("month = ?", n)
		}
	}
	var budgets []models.Budget
	if err := tx.Order("year DESC, month DESC").Find(&budgets).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to list budgets.")
		return
	}
	respondData(c, http.StatusOK, budgets)
}

type budgetRequest struct {
	Category *string `json:"category"`
	Amount   float64 `json:"amount" binding:"required,gt=0"`
	Year     int     `json:"year" binding:"required,min=2000,max=2100"`
	Month    int     `json:"month" binding:"required,min=1,max=12"`
}

// upsertBudgetHandler creates or replaces the budget for the given
// user+category+month+year slot.
func upsertBudgetHandler(c *gin.Context) {
	user := currentUser(c)
	var req budgetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidation(c, err)
		return
	}
	tx := db.Where("user_id = ? AND year = ? AND month = ?", user.ID, req.Year, req.Month)
	if req.Category == nil {
		tx = tx.Where("category IS NULL")
	} else {
		tx = tx.Where("category = ?", *req.Category)
	}
	var budget models.Budget
	if err := tx.First(&budget).Error; err == nil {
		budget.Amount = req.Amount
		if err := db.Save(&budget).Error; err != nil {
			respondError(c, http.StatusInternalServerError, "Failed to update budget.")
			return
		}
		respondMessageData(c, http.StatusOK, "Budget updated successfully.", budget)
		return
	}
	budget = models.Budget{
		UserID:   user.ID,
		Category: req.Category,
		Amount:   req.Amount,
		Year:     req.Year,
		Month:    req.Month,
	}
	if err := db.Create(&budget).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to create budget.")
		return
	}
	respondMessageData(c, http.StatusCreated, "Budget created successfully.", budget)
}

func updateBudgetHandler(c *gin.Context) {
	user := currentUser(c)
	var budget models.Budget
	if err := db.Where("user_id = ? AND id = ?", user.ID, c.Param("id")).First(&budget).Error; err != nil {
		respondError(c, http.StatusNotFound, "Budget not found.")
		return
	}
	var req struct {
		Amount float64 `json:"amount" binding:"required,gt=0"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidation(c, err)
		return
	}
	budget.Amount = req.Amount
	if err := db.Save(&budget).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to update budget.")
		return
	}
	respondMessageData(c, http.StatusOK, "Budget updated successfully.", budget)
}

func deleteBudgetHandler(c *gin.Context) {
	user := currentUser(c)
	var budget models.Budget
	if err := db.Where("user_id = ? AND id = ?", user.ID, c.Param("id")).First(&budget).Error; err != nil {
		respondError(c, http.StatusNotFound, "Budget not found.")
		return
	}
	if err := db.Delete(&budget).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to delete budget.")
		return
	}
	respondMessage(c, http.StatusOK, "Budget deleted successfully.")
}

// --- Recurring transactions ---

// nextOccurrence advances from the given occurrence by one period.
func nextOccurrence(from time.Time, frequency string) time.Time {
	switch frequency {
	case "daily":
		return from.AddDate(0, 0, 1)
	case "weekly":
		return from.AddDate(0, 0, 7)
	case "monthly":
		return from.AddDate(0, 1, 0)
	case "yearly":
		return from.AddDate(1, 0, 0)
	}
	return from
}

func listRecurringHandler(c *gin.Context) {
	user := currentUser(c)
	var recurring []models.RecurringTransaction
	if err := db.Where("user_id = ?", user.ID).Order("next_occurrence ASC").Find(&recurring).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to list recurring transactions.")
		return
	}
	respondData(c, http.StatusOK, recurring)
}

type recurringRequest struct {
	Type      string  `json:"type" binding:"required,oneof=income expense"`
	Category  string  `json:"category" binding:"max=100"`
	Amount    float64 `json:"amount" binding:"required,gt=0"`
	Note      string  `json:"note"`
	Frequency string  `json:"frequency" binding:"required,oneof=daily weekly monthly yearly"`
	StartDate string  `json:"start_date" binding:"required"`
	EndDate   *string `json:"end_date"`
	IsActive  *bool   `json:"is_active"`
}

func createRecurringHandler(c *gin.Context) {
	user := currentUser(c)
	var req recurringRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidation(c, err)
		return
	}
	start, err := time.Parse("2006-01-02", req.StartDate)
	if err != nil {
		respondError(c, http.StatusUnprocessableEntity, "start_date must be in YYYY-MM-DD format.")
		return
	}
	recurring := models.RecurringTransaction{
		UserID:         user.ID,
		Type:           req.Type,
		Category:       req.Category,
		Amount:         req.Amount,
		Note:           req.Note,
		Frequency:      req.Frequency,
		StartDate:      start,
		NextOccurrence: start,
		IsActive:       true,
	}
	if req.EndDate != nil {
		end, err := time.Parse("2006-01-02", *req.EndDate)
		if err != nil {
			respondError(c, http.StatusUnprocessableEntity, "end_date must be in YYYY-MM-DD format.")
			return
		}
		recurring.EndDate = &end
	}
	if err := db.Create(&recurring).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to create recurring transaction.")
		return
	}
	respondMessageData(c, http.StatusCreated, "Recurring transaction created successfully.", recurring)
}

func updateRecurringHandler(c *gin.Context) {
	user := currentUser(c)
	var recurring models.RecurringTransaction
	if err := db.Where("user_id = ? AND id = ?", user.ID, c.Param("id")).First(&recurring).Error; err != nil {
		respondError(c, http.StatusNotFound, "Recurring transaction not found.")
		return
	}
	var req recurringRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidation(c, err)
		return
	}
	start, err := time.Parse("2006-01-02", req.StartDate)
	if err != nil {
		respondError(c, http.StatusUnprocessableEntity, "start_date must be in YYYY-MM-DD format.")
		return
	}
	recurring.Type = req.Type
	recurring.Category = req.Category
	recurring.Amount = req.Amount
	recurring.Note = req.Note
	if recurring.Frequency != req.Frequency || !recurring.StartDate.Equal(start) {
		recurring.NextOccurrence = start
	}
	recurring.Frequency = req.Frequency
	recurring.StartDate = start
	recurring.EndDate = nil
	if req.EndDate != nil {
		end, err := time.Parse("2006-01-02", *req.EndDate)
		if err != nil {
			respondError(c, http.StatusUnprocessableEntity, "end_date must be in YYYY-MM-DD format.")
			return
		}
		recurring.EndDate = &end
	}
	if req.IsActive != nil {
		recurring.IsActive = *req.IsActive
	}
	if err := db.Save(&recurring).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to update recurring transaction.")
		return
	}
	respondMessageData(c, http.StatusOK, "Recurring transaction updated successfully.", recurring)
}

func deleteRecurringHandler(c *gin.Context) {
	user := currentUser(c)
	var recurring models.RecurringTransaction
	if err := db.Where("user_id = ? AND id = ?", user.ID, c.Param("id")).First(&recurring).Error; err != nil {
		respondError(c, http.StatusNotFound, "Recurring transaction not found.")
		return
	}
	if err := db.Delete(&recurring).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to delete recurring transaction.")
		return
	}
	respondMessage(c, http.StatusOK, "Recurring transaction deleted successfully.")
}

// materializeRecurring generates concrete transactions for every recurring
// template whose next occurrence has come due, advancing the template as it
// goes. The janitor calls this on its cleanup tick.
func materializeRecurring(now time.Time) {
	var due []models.RecurringTransaction
	if err := db.Where("is_active = ? AND next_occurrence <= ?", true, now).Find(&due).Error; err != nil {
		logger.Error().Err(err).Msg("failed to load due recurring transactions")
		return
	}
	for i := range due {
		r := &due[i]
		for r.IsActive && !r.NextOccurrence.After(now) {
			if r.EndDate != nil && r.NextOccurrence.After(*r.EndDate) {
				r.IsActive = false
				break
			}
			transaction := models.Transaction{
				UserID:   r.UserID,
				Type:     r.Type,
				Category: r.Category,
				Amount:   r.Amount,
				Date:     r.NextOccurrence,
				Note:     r.Note,
			}
			if err := db.Create(&transaction).Error; err != nil {
				logger.Error().Err(err).Uint("recurring_id", r.ID).Msg("failed to materialize recurring transaction")
				break
			}
			r.NextOccurrence = nextOccurrence(r.NextOccurrence, r.Frequency)
		}
		if err := db.Save(r).Error; err != nil {
			logger.Error().Err(err).Uint("recurring_id", r.ID).Msg("failed to advance recurring transaction")
		}
	}
}
